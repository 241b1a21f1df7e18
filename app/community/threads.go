package community

import (
	"context"
	"fmt"
	"strings"

	"conexa/app/backend"
	"conexa/app/metrics"
	"conexa/app/models"

	"go.uber.org/zap"
)

// Thread loads a post with its comments into the workspace and runs the
// mutations offered on the thread page.
type Thread struct {
	backend backend.Backend
	actions *Actions
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewThread creates a new Thread
func NewThread(b backend.Backend, actions *Actions, m *metrics.Metrics, logger *zap.Logger) *Thread {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Thread{backend: b, actions: actions, metrics: m, logger: logger.Named("community")}
}

// Open fetches postID and its comments and stores them in ws. A missing
// post yields an error matching backend.ErrNotFound.
func (t *Thread) Open(ctx context.Context, ws *Workspace, postID string) (*ThreadStore, error) {
	post, err := t.backend.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	comments, err := t.backend.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load comments of %s: %w", postID, err)
	}

	// Keep edited markers set earlier in this session.
	if prev, ok := ws.Thread(postID); ok {
		for i := range comments {
			if c, ok := prev.Comment(comments[i].ID); ok && c.Edited {
				comments[i].Edited = true
			}
		}
	}

	store := NewThreadStore(*post, comments)
	ws.setThread(postID, store)
	return store, nil
}

// loaded returns the thread of postID, opening it when ws has not yet.
func (t *Thread) loaded(ctx context.Context, ws *Workspace, postID string) (*ThreadStore, error) {
	if store, ok := ws.Thread(postID); ok {
		return store, nil
	}
	return t.Open(ctx, ws, postID)
}

// SubmitComment posts a comment and appends it to the thread.
func (t *Thread) SubmitComment(ctx context.Context, ws *Workspace, user *models.SessionUser, postID, content string) (*models.Comment, error) {
	if user == nil {
		return nil, ErrGuest
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmpty
	}

	store, err := t.loaded(ctx, ws, postID)
	if err != nil {
		return nil, err
	}
	comment, err := t.backend.SubmitComment(ctx, user, postID, content)
	if err != nil {
		t.logger.Error("submit comment", zap.String("post", postID), zap.Error(err))
		return nil, fmt.Errorf("submit comment: %w", err)
	}
	store.AppendComment(*comment)
	return comment, nil
}

// EditComment applies the edit locally, then asks the backend. The local
// change is confirmed with the backend's copy or rolled back on failure.
// Unchanged content is a no-op without a backend call.
func (t *Thread) EditComment(ctx context.Context, ws *Workspace, user *models.SessionUser, postID, commentID, content string) error {
	if user == nil {
		return ErrGuest
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmpty
	}

	store, err := t.loaded(ctx, ws, postID)
	if err != nil {
		return err
	}
	comment, ok := store.Comment(commentID)
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, backend.ErrNotFound)
	}
	if !comment.IsOwnedBy(user) {
		return ErrNotOwner
	}

	m, changed := store.UpdateLocalComment(commentID, content)
	if !changed {
		return nil
	}
	server, err := t.backend.UpdateComment(ctx, user, commentID, strings.TrimSpace(content))
	if err != nil {
		store.Rollback(m)
		t.metrics.Rollback(m.Kind.String())
		t.logger.Warn("comment edit rolled back", zap.String("comment", commentID), zap.Error(err))
		return fmt.Errorf("update comment %s: %w", commentID, err)
	}
	store.Confirm(m, server)
	return nil
}

// DeleteComment removes the comment locally, then asks the backend,
// reinserting it on failure.
func (t *Thread) DeleteComment(ctx context.Context, ws *Workspace, user *models.SessionUser, postID, commentID string) error {
	if user == nil {
		return ErrGuest
	}

	store, err := t.loaded(ctx, ws, postID)
	if err != nil {
		return err
	}
	comment, ok := store.Comment(commentID)
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, backend.ErrNotFound)
	}
	if !comment.IsOwnedBy(user) {
		return ErrNotOwner
	}

	m, _ := store.RemoveLocalComment(commentID)
	if err := t.backend.DeleteComment(ctx, user, commentID); err != nil {
		store.Rollback(m)
		t.metrics.Rollback(m.Kind.String())
		t.logger.Warn("comment delete rolled back", zap.String("comment", commentID), zap.Error(err))
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return nil
}

// UpdatePostContent changes title and content once the backend accepts
// them. Nothing changes locally before that.
func (t *Thread) UpdatePostContent(ctx context.Context, ws *Workspace, user *models.SessionUser, postID string, edit backend.PostEdit) (*models.Post, error) {
	if user == nil {
		return nil, ErrGuest
	}
	edit.Title = strings.TrimSpace(edit.Title)
	edit.Content = strings.TrimSpace(edit.Content)
	if edit.Title == "" || edit.Content == "" {
		return nil, ErrEmpty
	}

	store, err := t.loaded(ctx, ws, postID)
	if err != nil {
		return nil, err
	}
	post := store.Post()
	if !post.IsOwnedBy(user) {
		return nil, ErrNotOwner
	}

	server, err := t.backend.UpdatePost(ctx, user, postID, edit)
	if err != nil {
		t.logger.Error("update post", zap.String("post", postID), zap.Error(err))
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}
	updated := store.UpdatePost(server.Title, server.Content, server.UpdatedAt)
	ws.Feed.Replace(updated)
	return &updated, nil
}

// DeletePost removes the post for its author. Callers navigate back to the
// feed after a nil return.
func (t *Thread) DeletePost(ctx context.Context, ws *Workspace, user *models.SessionUser, postID string) error {
	if user == nil {
		return ErrGuest
	}
	if store, ok := ws.Thread(postID); ok {
		post := store.Post()
		if !post.IsOwnedBy(user) {
			return ErrNotOwner
		}
	}
	return t.actions.RemovePost(ctx, ws, user, postID)
}
