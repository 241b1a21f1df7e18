// Package community holds the per-session view state of the community
// portal and the loaders and actions that keep it in step with the backend.
package community

import (
	"context"
	"fmt"

	"conexa/app/backend"
	"conexa/app/metrics"
	"conexa/app/models"

	"go.uber.org/zap"
)

// HomeData is what the community home renders.
type HomeData struct {
	Forums []models.Forum
	Feed   []models.Post
	Err    error
}

// Home loads forums and the recent feed, and applies forum selections.
type Home struct {
	backend backend.Backend
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHome creates a new Home
func NewHome(b backend.Backend, m *metrics.Metrics, logger *zap.Logger) *Home {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Home{backend: b, metrics: m, logger: logger.Named("community")}
}

// Load fetches forums and the recent feed.
func (h *Home) Load(ctx context.Context) HomeData {
	forums, err := h.backend.ListForums(ctx)
	if err != nil {
		h.logger.Error("load forums", zap.Error(err))
		return HomeData{Err: fmt.Errorf("load forums: %w", err)}
	}
	feed, err := h.backend.GetFeed(ctx)
	if err != nil {
		h.logger.Error("load feed", zap.Error(err))
		return HomeData{Forums: forums, Err: fmt.Errorf("load feed: %w", err)}
	}
	return HomeData{Forums: forums, Feed: feed}
}

// Refetch reloads forums and feed and syncs the feed into ws.
func (h *Home) Refetch(ctx context.Context, ws *Workspace) HomeData {
	data := h.Load(ctx)
	if data.Err == nil {
		ws.Feed.Sync(data.Feed)
	}
	return data
}

// Filter selects a forum and replaces the displayed posts of ws with the
// backend's answer. One fetch is made per call. On error the displayed
// posts stay as they were. An answer that arrives after a newer selection
// is dropped.
func (h *Home) Filter(ctx context.Context, ws *Workspace, selector string) error {
	if selector == "" {
		selector = models.GeneralTopic
	}
	ticket := ws.Feed.Select(selector)
	posts, err := h.backend.GetPosts(ctx, backend.PostFilter{TopicID: selector})
	if err != nil {
		h.logger.Error("filter posts", zap.String("forum", selector), zap.Error(err))
		return fmt.Errorf("filter posts by %q: %w", selector, err)
	}
	if !ws.Feed.Resolve(ticket, posts) {
		h.metrics.FeedStale()
		h.logger.Debug("discarded stale forum selection", zap.String("forum", selector), zap.Uint64("ticket", uint64(ticket)))
	}
	return nil
}
