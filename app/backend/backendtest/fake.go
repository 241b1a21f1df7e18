// Package backendtest provides an in-memory backend.Backend for tests.
package backendtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"conexa/app/backend"
	"conexa/app/models"
)

// Fake is an in-memory backend.Backend that records every call. It
// enforces ownership the way the reference backend does.
type Fake struct {
	mu sync.Mutex

	forums   []models.Forum
	posts    []models.Post // newest first
	comments map[string][]models.Comment
	market   []models.MarketItem
	users    map[string]fakeUser
	nextID   int
	now      func() time.Time

	calls map[string]int
	errs  map[string]error

	// GetPostsHook, when set, answers GetPosts instead of the stored posts.
	GetPostsHook func(ctx context.Context, filter backend.PostFilter) ([]models.Post, error)
}

type fakeUser struct {
	user     models.SessionUser
	password string
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		comments: make(map[string][]models.Comment),
		users:    make(map[string]fakeUser),
		calls:    make(map[string]int),
		errs:     make(map[string]error),
		nextID:   1,
		now:      time.Now,
	}
}

var _ backend.Backend = (*Fake)(nil)

// AddForum stores a forum.
func (f *Fake) AddForum(forum models.Forum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forums = append(f.forums, forum)
}

// AddPost stores post ahead of the existing ones.
func (f *Fake) AddPost(post models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = f.now()
	}
	f.posts = append([]models.Post{post}, f.posts...)
}

// AddComment appends a comment to its post's thread.
func (f *Fake) AddComment(comment models.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[comment.PostID] = append(f.comments[comment.PostID], comment)
}

// AddMarketItem stores a listing.
func (f *Fake) AddMarketItem(item models.MarketItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.market = append(f.market, item)
}

// AddUser registers credentials for Authenticate. The token of user is
// what Authenticate hands out.
func (f *Fake) AddUser(user models.SessionUser, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(user.Email)] = fakeUser{user: user, password: password}
}

// Fail makes op return err until cleared with a nil err.
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Post returns the stored copy of a post.
func (f *Fake) Post(id string) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.postIndex(id)
	if i < 0 {
		return models.Post{}, false
	}
	return f.posts[i], true
}

// Comments returns the stored thread of a post.
func (f *Fake) Comments(postID string) []models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments[postID]...)
}

// enter records a call and returns the configured failure for op. The
// caller must hold f.mu.
func (f *Fake) enter(op string) error {
	f.calls[op]++
	return f.errs[op]
}

func (f *Fake) postIndex(id string) int {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Fake) newID(prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, 100+f.nextID)
	f.nextID++
	return id
}

func (f *Fake) decorate(p models.Post) models.Post {
	p.CommentCount = len(f.comments[p.ID])
	if p.TopicID != nil {
		for _, forum := range f.forums {
			if forum.ID == *p.TopicID {
				p.Topic = &models.TopicRef{ID: forum.ID, Title: forum.Title}
			}
		}
	}
	return p
}

func (f *Fake) ListForums(ctx context.Context) ([]models.Forum, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListForums"); err != nil {
		return nil, err
	}
	return append([]models.Forum(nil), f.forums...), nil
}

func (f *Fake) GetFeed(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetFeed"); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, f.decorate(p))
	}
	return out, nil
}

func (f *Fake) GetPosts(ctx context.Context, filter backend.PostFilter) ([]models.Post, error) {
	f.mu.Lock()
	err := f.enter("GetPosts")
	hook := f.GetPostsHook
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if hook != nil {
		return hook(ctx, filter)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Post{}
	for _, p := range f.posts {
		if filter.TopicID == "" || p.TopicSelector() == filter.TopicID {
			out = append(out, f.decorate(p))
		}
	}
	return out, nil
}

func (f *Fake) GetPost(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetPost"); err != nil {
		return nil, err
	}
	i := f.postIndex(id)
	if i < 0 {
		return nil, backend.ErrNotFound
	}
	p := f.decorate(f.posts[i])
	return &p, nil
}

func (f *Fake) SubmitPost(ctx context.Context, user *models.SessionUser, in backend.NewPost) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SubmitPost"); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, backend.ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, backend.ErrInvalid
	}
	p := models.Post{
		ID:        f.newID("p"),
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  user.ID,
		Author:    models.AuthorRef{ID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL},
		TopicID:   in.TopicID,
		CreatedAt: f.now(),
	}
	f.posts = append([]models.Post{p}, f.posts...)
	p = f.decorate(p)
	return &p, nil
}

func (f *Fake) UpdatePost(ctx context.Context, user *models.SessionUser, id string, edit backend.PostEdit) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdatePost"); err != nil {
		return nil, err
	}
	i, err := f.ownedPost(user, id)
	if err != nil {
		return nil, err
	}
	f.posts[i].Title = edit.Title
	f.posts[i].Content = edit.Content
	f.posts[i].Touch(f.now())
	p := f.decorate(f.posts[i])
	return &p, nil
}

func (f *Fake) DeletePost(ctx context.Context, user *models.SessionUser, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeletePost"); err != nil {
		return err
	}
	i, err := f.ownedPost(user, id)
	if err != nil {
		return err
	}
	f.posts = append(f.posts[:i], f.posts[i+1:]...)
	delete(f.comments, id)
	return nil
}

func (f *Fake) ownedPost(user *models.SessionUser, id string) (int, error) {
	if user == nil {
		return -1, backend.ErrUnauthorized
	}
	i := f.postIndex(id)
	if i < 0 {
		return -1, backend.ErrNotFound
	}
	if f.posts[i].AuthorID != user.ID {
		return -1, backend.ErrForbidden
	}
	return i, nil
}

func (f *Fake) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListComments"); err != nil {
		return nil, err
	}
	if f.postIndex(postID) < 0 {
		return nil, backend.ErrNotFound
	}
	return append([]models.Comment{}, f.comments[postID]...), nil
}

func (f *Fake) SubmitComment(ctx context.Context, user *models.SessionUser, postID, content string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SubmitComment"); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, backend.ErrUnauthorized
	}
	if f.postIndex(postID) < 0 {
		return nil, backend.ErrNotFound
	}
	c := models.Comment{
		ID:        f.newID("c"),
		PostID:    postID,
		AuthorID:  user.ID,
		Author:    models.AuthorRef{ID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL},
		Content:   strings.TrimSpace(content),
		CreatedAt: f.now(),
	}
	f.comments[postID] = append(f.comments[postID], c)
	return &c, nil
}

func (f *Fake) UpdateComment(ctx context.Context, user *models.SessionUser, id, content string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateComment"); err != nil {
		return nil, err
	}
	postID, i, err := f.ownedComment(user, id)
	if err != nil {
		return nil, err
	}
	c := &f.comments[postID][i]
	c.Content = strings.TrimSpace(content)
	now := f.now()
	c.UpdatedAt = &now
	out := *c
	return &out, nil
}

func (f *Fake) DeleteComment(ctx context.Context, user *models.SessionUser, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteComment"); err != nil {
		return err
	}
	postID, i, err := f.ownedComment(user, id)
	if err != nil {
		return err
	}
	thread := f.comments[postID]
	f.comments[postID] = append(thread[:i:i], thread[i+1:]...)
	return nil
}

func (f *Fake) ownedComment(user *models.SessionUser, id string) (string, int, error) {
	if user == nil {
		return "", -1, backend.ErrUnauthorized
	}
	for postID, thread := range f.comments {
		for i := range thread {
			if thread[i].ID != id {
				continue
			}
			if thread[i].AuthorID != user.ID {
				return "", -1, backend.ErrForbidden
			}
			return postID, i, nil
		}
	}
	return "", -1, backend.ErrNotFound
}

func (f *Fake) ListMarket(ctx context.Context) ([]models.MarketItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListMarket"); err != nil {
		return nil, err
	}
	return append([]models.MarketItem(nil), f.market...), nil
}

func (f *Fake) Authenticate(ctx context.Context, email, password string) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Authenticate"); err != nil {
		return nil, err
	}
	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.password != password {
		return nil, backend.ErrUnauthorized
	}
	out := u.user
	return &out, nil
}

func (f *Fake) Logout(ctx context.Context, user *models.SessionUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enter("Logout")
}
