package community

import (
	"strings"
	"sync"
	"time"

	"conexa/app/models"
)

// MutationKind tells edits from removals.
type MutationKind int

const (
	MutationEdit MutationKind = iota + 1
	MutationRemove
)

func (k MutationKind) String() string {
	switch k {
	case MutationEdit:
		return "comment_edit"
	case MutationRemove:
		return "comment_delete"
	}
	return "unknown"
}

// Mutation records a local comment change so it can later be confirmed
// against the backend's copy or rolled back.
type Mutation struct {
	Kind      MutationKind
	CommentID string

	seq   uint64
	prev  models.Comment
	index int
}

// pendingEdit is a local edit the backend has not answered yet.
type pendingEdit struct {
	seq     uint64
	content string
}

// ThreadStore holds one post and its comments in display order.
type ThreadStore struct {
	mu       sync.Mutex
	post     models.Post
	comments []models.Comment

	seq uint64
	// base is a comment as it was before its unanswered edits, which
	// pending lists oldest first.
	base    map[string]models.Comment
	pending map[string][]pendingEdit
}

// NewThreadStore returns a store holding post and comments.
func NewThreadStore(post models.Post, comments []models.Comment) *ThreadStore {
	return &ThreadStore{
		post:     post,
		comments: append([]models.Comment(nil), comments...),
		base:     make(map[string]models.Comment),
		pending:  make(map[string][]pendingEdit),
	}
}

// Post returns a copy of the loaded post.
func (s *ThreadStore) Post() models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post
}

// Comments returns a copy of the comment sequence.
func (s *ThreadStore) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comment(nil), s.comments...)
}

// Comment returns the comment with id.
func (s *ThreadStore) Comment(id string) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.comments[i], true
	}
	return models.Comment{}, false
}

// AppendComment adds a comment the backend just created.
func (s *ThreadStore) AppendComment(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
	s.post.CommentCount = len(s.comments)
}

// UpdatePost applies a post edit the backend accepted.
func (s *ThreadStore) UpdatePost(title, content string, updatedAt *time.Time) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post.Title = title
	s.post.Content = content
	if updatedAt != nil {
		s.post.UpdatedAt = updatedAt
	}
	return s.post
}

// UpdateLocalComment replaces the content of comment id and marks it
// edited. It returns false, changing nothing, when the comment is unknown
// or the trimmed content equals what is already there.
func (s *ThreadStore) UpdateLocalComment(id, content string) (Mutation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Mutation{}, false
	}
	content = strings.TrimSpace(content)
	if content == s.comments[i].Content {
		return Mutation{}, false
	}

	if len(s.pending[id]) == 0 {
		s.base[id] = s.comments[i]
	}
	s.seq++
	s.pending[id] = append(s.pending[id], pendingEdit{seq: s.seq, content: content})

	m := Mutation{Kind: MutationEdit, CommentID: id, seq: s.seq, prev: s.comments[i], index: i}
	s.comments[i].Content = content
	s.comments[i].Edited = true
	return m, true
}

// RemoveLocalComment drops comment id from the sequence.
func (s *ThreadStore) RemoveLocalComment(id string) (Mutation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Mutation{}, false
	}
	m := Mutation{Kind: MutationRemove, CommentID: id, prev: s.comments[i], index: i}
	s.comments = append(s.comments[:i:i], s.comments[i+1:]...)
	s.post.CommentCount = len(s.comments)
	return m, true
}

// Confirm merges the backend's copy of an edited comment. The local edited
// marker survives the merge, and edits made after m stay on display.
func (s *ThreadStore) Confirm(m Mutation, server *models.Comment) {
	if m.Kind != MutationEdit || server == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settle(m) {
		return
	}
	accepted := *server
	accepted.Edited = true
	if len(s.pending[m.CommentID]) > 0 {
		s.base[m.CommentID] = accepted
	}
	s.show(m.CommentID, accepted)
}

// Rollback undoes m: an edit gives way to the latest edit still waiting
// for the backend, or to the comment as it was before any of them. A
// removed comment is reinserted where it was.
func (s *ThreadStore) Rollback(m Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Kind {
	case MutationEdit:
		if !s.settle(m) {
			return
		}
		base, ok := s.base[m.CommentID]
		if !ok {
			base = m.prev
		}
		s.show(m.CommentID, base)
	case MutationRemove:
		if s.indexOf(m.CommentID) >= 0 {
			return
		}
		at := m.index
		if at > len(s.comments) {
			at = len(s.comments)
		}
		s.comments = append(s.comments[:at], append([]models.Comment{m.prev}, s.comments[at:]...)...)
		s.post.CommentCount = len(s.comments)
	}
}

// settle drops edit m from the pending list of its comment. It reports
// false when m was already settled.
func (s *ThreadStore) settle(m Mutation) bool {
	list := s.pending[m.CommentID]
	for i, p := range list {
		if p.seq == m.seq {
			list = append(list[:i:i], list[i+1:]...)
			if len(list) == 0 {
				delete(s.pending, m.CommentID)
			} else {
				s.pending[m.CommentID] = list
			}
			return true
		}
	}
	return false
}

// show displays comment id as base with the newest pending edit on top.
// The base is forgotten once no edit is pending.
func (s *ThreadStore) show(id string, base models.Comment) {
	i := s.indexOf(id)
	list := s.pending[id]
	if len(list) == 0 {
		delete(s.base, id)
		if i >= 0 {
			s.comments[i] = base
		}
		return
	}
	if i >= 0 {
		base.Content = list[len(list)-1].content
		base.Edited = true
		s.comments[i] = base
	}
}

func (s *ThreadStore) indexOf(id string) int {
	for i := range s.comments {
		if s.comments[i].ID == id {
			return i
		}
	}
	return -1
}
