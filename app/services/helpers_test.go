package services

import (
	"time"

	"conexa/app/models"
	"conexa/app/repositories/mock"
)

type fixture struct {
	posts    *mock.PostRepository
	comments *mock.CommentRepository
	forums   *mock.ForumRepository
	users    *mock.UserRepository
	tokens   *mock.TokenRepository
	market   *mock.MarketRepository

	postService    *PostService
	commentService *CommentService
	forumService   *ForumService
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newFixture() *fixture {
	f := &fixture{
		posts:    mock.NewPostRepository(),
		comments: mock.NewCommentRepository(),
		forums:   mock.NewForumRepository(),
		users:    mock.NewUserRepository(),
		tokens:   mock.NewTokenRepository(),
		market:   mock.NewMarketRepository(),
	}
	clock := steppingClock()
	f.postService = NewPostService(f.posts, f.comments, f.forums)
	f.postService.now = clock
	f.commentService = NewCommentService(f.comments, f.posts)
	f.commentService.now = clock
	f.forumService = NewForumService(f.forums, f.posts)
	return f
}

var (
	ana  = &models.User{ID: "u1", Email: "ana@conexa.test", Name: "Ana Paz"}
	beto = &models.User{ID: "u2", Email: "beto@conexa.test", Name: "Beto Ruiz"}
)

func strPtr(s string) *string { return &s }
