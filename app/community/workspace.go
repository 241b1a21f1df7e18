package community

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace is the view state of one browser session: the displayed feed
// and every thread opened so far.
type Workspace struct {
	ID   string
	Feed *FeedStore

	mu         sync.Mutex
	threads    map[string]*ThreadStore
	submitting bool
	lastSeen   time.Time
}

func newWorkspace(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:       id,
		Feed:     NewFeedStore(),
		threads:  make(map[string]*ThreadStore),
		lastSeen: now,
	}
}

// Thread returns the loaded thread of postID.
func (w *Workspace) Thread(postID string) (*ThreadStore, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.threads[postID]
	return t, ok
}

func (w *Workspace) setThread(postID string, t *ThreadStore) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threads[postID] = t
}

// DropThread forgets the thread of postID.
func (w *Workspace) DropThread(postID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.threads, postID)
}

// IsSubmitting reports whether a post submission is in flight.
func (w *Workspace) IsSubmitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Workspace) beginSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return false
	}
	w.submitting = true
	return true
}

func (w *Workspace) endSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Registry hands out workspaces by id.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		workspaces: make(map[string]*Workspace),
		now:        time.Now,
	}
}

// NewID returns a fresh workspace id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the workspace id, creating it on first use.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	ws, ok := r.workspaces[id]
	if !ok {
		ws = newWorkspace(id, now)
		r.workspaces[id] = ws
		return ws
	}
	ws.touch(now)
	return ws
}

// Forget drops workspace id.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, id)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep drops workspaces unused for longer than idle and returns how many
// went.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > idle {
			delete(r.workspaces, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}
