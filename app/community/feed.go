package community

import (
	"sync"

	"conexa/app/models"

	"github.com/google/go-cmp/cmp"
)

// Ticket identifies one forum selection. Tickets increase monotonically
// per FeedStore.
type Ticket uint64

// FeedStore holds the post sequence a session is looking at. The sequence
// is always exactly the recent feed or the answer to the latest forum
// selection, never a mix of both.
type FeedStore struct {
	mu       sync.Mutex
	selector string
	posts    []models.Post
	latest   Ticket

	// resolved is set once any selection has been applied.
	resolved bool
	// seen is the recent feed handed to the last Sync.
	seen    []models.Post
	hasSeen bool
}

// NewFeedStore returns an empty store with general discussion selected.
func NewFeedStore() *FeedStore {
	return &FeedStore{selector: models.GeneralTopic}
}

// Select makes selector the active forum and returns the ticket its fetch
// must present to Resolve.
func (s *FeedStore) Select(selector string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selector == "" {
		selector = models.GeneralTopic
	}
	s.selector = selector
	s.latest++
	return s.latest
}

// Resolve replaces the sequence with posts if t is still the latest ticket
// issued. It reports whether posts were applied; a false return means a
// newer selection superseded t.
func (s *FeedStore) Resolve(t Ticket, posts []models.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return false
	}
	s.posts = clonePosts(posts)
	s.resolved = true
	return true
}

// Sync shows feed when general discussion is active and feed has posts.
// Once a selection has been applied, only a feed that changed since the
// previous Sync replaces it; reloading the same feed leaves the selection's
// answer on display.
func (s *FeedStore) Sync(feed []models.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.hasSeen && !cmp.Equal(feed, s.seen)
	first := !s.hasSeen
	s.seen = clonePosts(feed)
	s.hasSeen = true

	if s.selector != models.GeneralTopic || len(feed) == 0 {
		return false
	}
	if !changed && !(first && !s.resolved) {
		return false
	}
	s.posts = clonePosts(feed)
	return true
}

// Selector returns the active forum selector.
func (s *FeedStore) Selector() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

// Posts returns a copy of the displayed sequence.
func (s *FeedStore) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// Replace updates the displayed copy of post in place, if it is shown.
func (s *FeedStore) Replace(post models.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return true
		}
	}
	return false
}

// Remove drops a post from the displayed sequence.
func (s *FeedStore) Remove(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts = append(s.posts[:i:i], s.posts[i+1:]...)
			return true
		}
	}
	return false
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
