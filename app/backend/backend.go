// Package backend is the frontend's only way to reach the community and
// marketplace backend.
package backend

import (
	"context"
	"errors"

	"conexa/app/models"
)

var (
	ErrNotFound     = errors.New("backend: not found")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrInvalid      = errors.New("backend: invalid request")
)

// PostFilter narrows GetPosts. TopicID is "general" or a forum id.
type PostFilter struct {
	TopicID string
}

// NewPost is the payload of SubmitPost. A nil TopicID files the post under
// general discussion.
type NewPost struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	TopicID *string `json:"topicId"`
}

// PostEdit is the payload of UpdatePost.
type PostEdit struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Backend lists and mutates community and marketplace data. Every mutation
// acts on behalf of an explicit signed-in user.
type Backend interface {
	ListForums(ctx context.Context) ([]models.Forum, error)
	GetFeed(ctx context.Context) ([]models.Post, error)
	GetPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	SubmitPost(ctx context.Context, user *models.SessionUser, post NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, user *models.SessionUser, id string, edit PostEdit) (*models.Post, error)
	DeletePost(ctx context.Context, user *models.SessionUser, id string) error

	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	SubmitComment(ctx context.Context, user *models.SessionUser, postID, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, user *models.SessionUser, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, user *models.SessionUser, id string) error

	ListMarket(ctx context.Context) ([]models.MarketItem, error)

	Authenticate(ctx context.Context, email, password string) (*models.SessionUser, error)
	Logout(ctx context.Context, user *models.SessionUser) error
}
