package community

import (
	"context"
	"fmt"
	"strings"

	"conexa/app/backend"
	"conexa/app/models"

	"go.uber.org/zap"
)

// PostForm is the new post form. An empty Forum files the post under the
// forum currently selected in the workspace.
type PostForm struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Forum   string `json:"forum"`
}

// Actions creates and removes posts for a signed-in user.
type Actions struct {
	backend backend.Backend
	home    *Home
	logger  *zap.Logger
}

// NewActions creates a new Actions
func NewActions(b backend.Backend, home *Home, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{backend: b, home: home, logger: logger.Named("community")}
}

// SubmitPost creates a post and refetches the home feed. Posts made while
// general discussion is selected carry no forum.
func (a *Actions) SubmitPost(ctx context.Context, ws *Workspace, user *models.SessionUser, form PostForm) (*models.Post, error) {
	if user == nil {
		return nil, ErrGuest
	}
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if form.Title == "" || form.Content == "" {
		return nil, ErrEmpty
	}
	if err := models.Validator().Struct(&form); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrInvalid, err)
	}

	if !ws.beginSubmit() {
		return nil, ErrSubmitInFlight
	}
	defer ws.endSubmit()

	selector := strings.TrimSpace(form.Forum)
	if selector == "" {
		selector = ws.Feed.Selector()
	}
	var topicID *string
	if selector != models.GeneralTopic {
		topicID = &selector
	}

	post, err := a.backend.SubmitPost(ctx, user, backend.NewPost{
		Title:   form.Title,
		Content: form.Content,
		TopicID: topicID,
	})
	if err != nil {
		a.logger.Error("submit post", zap.String("user", user.ID), zap.Error(err))
		return nil, fmt.Errorf("submit post: %w", err)
	}

	if data := a.home.Refetch(ctx, ws); data.Err != nil {
		a.logger.Warn("refetch after submit", zap.Error(data.Err))
	}
	return post, nil
}

// RemovePost deletes a post, then forgets its thread and drops it from the
// displayed feed.
func (a *Actions) RemovePost(ctx context.Context, ws *Workspace, user *models.SessionUser, postID string) error {
	if user == nil {
		return ErrGuest
	}
	if err := a.backend.DeletePost(ctx, user, postID); err != nil {
		a.logger.Error("delete post", zap.String("post", postID), zap.Error(err))
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	ws.DropThread(postID)
	ws.Feed.Remove(postID)
	return nil
}
