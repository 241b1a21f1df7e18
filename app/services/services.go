package services

import (
	"time"

	"conexa/app/repositories"
)

// Repositories groups the data access the services are built on.
type Repositories struct {
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Forums   repositories.ForumRepository
	Users    repositories.UserRepository
	Tokens   repositories.TokenRepository
	Market   repositories.MarketRepository
}

// FromStore returns the badger repositories of store.
func FromStore(store *repositories.Store) Repositories {
	return Repositories{
		Posts:    store.Posts,
		Comments: store.Comments,
		Forums:   store.Forums,
		Users:    store.Users,
		Tokens:   store.Tokens,
		Market:   store.Market,
	}
}

// Services is the reference backend's business layer.
type Services struct {
	Posts    *PostService
	Comments *CommentService
	Forums   *ForumService
	Market   *MarketService
	Auth     *AuthService
}

// New builds every service over repos.
func New(repos Repositories, tokenTTL time.Duration) *Services {
	return &Services{
		Posts:    NewPostService(repos.Posts, repos.Comments, repos.Forums),
		Comments: NewCommentService(repos.Comments, repos.Posts),
		Forums:   NewForumService(repos.Forums, repos.Posts),
		Market:   NewMarketService(repos.Market),
		Auth:     NewAuthService(repos.Users, repos.Tokens, tokenTTL),
	}
}
