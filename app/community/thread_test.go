package community

import (
	"testing"
	"time"

	"conexa/app/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleThread() *ThreadStore {
	return NewThreadStore(
		models.Post{ID: "p1", Title: "Hi", AuthorID: "u1", CommentCount: 3},
		[]models.Comment{
			{ID: "c1", PostID: "p1", AuthorID: "u1", Content: "uno"},
			{ID: "c2", PostID: "p1", AuthorID: "u2", Content: "dos"},
			{ID: "c3", PostID: "p1", AuthorID: "u1", Content: "tres"},
		},
	)
}

func commentIDs(cs []models.Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestUpdateLocalComment(t *testing.T) {
	t.Run("same content is a no-op", func(t *testing.T) {
		s := sampleThread()
		before := s.Comments()

		_, changed := s.UpdateLocalComment("c2", "  dos ")
		assert.False(t, changed)

		c, _ := s.Comment("c2")
		assert.False(t, c.Edited)
		if diff := cmp.Diff(before, s.Comments()); diff != "" {
			t.Errorf("comments changed (-before +after):\n%s", diff)
		}
	})

	t.Run("new content marks edited", func(t *testing.T) {
		s := sampleThread()
		m, changed := s.UpdateLocalComment("c2", " dos, editado ")
		require.True(t, changed)
		assert.Equal(t, MutationEdit, m.Kind)

		c, _ := s.Comment("c2")
		assert.Equal(t, "dos, editado", c.Content)
		assert.True(t, c.Edited)
		assert.Equal(t, []string{"c1", "c2", "c3"}, commentIDs(s.Comments()), "order is kept")
	})

	t.Run("unknown comment", func(t *testing.T) {
		s := sampleThread()
		_, changed := s.UpdateLocalComment("c9", "x")
		assert.False(t, changed)
	})
}

func TestConfirmKeepsEdited(t *testing.T) {
	s := sampleThread()
	m, _ := s.UpdateLocalComment("c1", "uno bis")

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Confirm(m, &models.Comment{ID: "c1", PostID: "p1", AuthorID: "u1", Content: "uno bis", UpdatedAt: &now})

	c, _ := s.Comment("c1")
	assert.True(t, c.Edited)
	require.NotNil(t, c.UpdatedAt)
	assert.True(t, c.UpdatedAt.Equal(now))
}

func TestRollbackEdit(t *testing.T) {
	s := sampleThread()
	m, _ := s.UpdateLocalComment("c1", "uno bis")
	s.Rollback(m)

	c, _ := s.Comment("c1")
	assert.Equal(t, "uno", c.Content)
	assert.False(t, c.Edited)

	t.Run("an earlier confirmed edit stays marked", func(t *testing.T) {
		s := sampleThread()
		first, _ := s.UpdateLocalComment("c1", "uno bis")
		s.Confirm(first, &models.Comment{ID: "c1", PostID: "p1", AuthorID: "u1", Content: "uno bis"})

		second, _ := s.UpdateLocalComment("c1", "uno ter")
		s.Rollback(second)

		c, _ := s.Comment("c1")
		assert.Equal(t, "uno bis", c.Content)
		assert.True(t, c.Edited)
	})
}

func TestInterleavedEditRejections(t *testing.T) {
	tests := []struct {
		name        string
		order       []int // indexes into the two edits, in rollback order
		wantContent string
		wantEdited  bool
	}{
		{name: "oldest rejected first", order: []int{0, 1}, wantContent: "uno", wantEdited: false},
		{name: "newest rejected first", order: []int{1, 0}, wantContent: "uno", wantEdited: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleThread()
			first, _ := s.UpdateLocalComment("c1", "B")
			second, _ := s.UpdateLocalComment("c1", "C")
			edits := []Mutation{first, second}

			s.Rollback(edits[tt.order[0]])
			c, _ := s.Comment("c1")
			assert.NotEqual(t, "uno", c.Content, "the other edit is still waiting")

			s.Rollback(edits[tt.order[1]])
			c, _ = s.Comment("c1")
			assert.Equal(t, tt.wantContent, c.Content)
			assert.Equal(t, tt.wantEdited, c.Edited)
		})
	}

	t.Run("rejecting the first keeps the second on display", func(t *testing.T) {
		s := sampleThread()
		first, _ := s.UpdateLocalComment("c1", "B")
		_, _ = s.UpdateLocalComment("c1", "C")

		s.Rollback(first)
		c, _ := s.Comment("c1")
		assert.Equal(t, "C", c.Content)
		assert.True(t, c.Edited)
	})

	t.Run("first accepted then second rejected", func(t *testing.T) {
		s := sampleThread()
		first, _ := s.UpdateLocalComment("c1", "B")
		second, _ := s.UpdateLocalComment("c1", "C")

		s.Confirm(first, &models.Comment{ID: "c1", PostID: "p1", AuthorID: "u1", Content: "B"})
		c, _ := s.Comment("c1")
		assert.Equal(t, "C", c.Content, "a later edit stays on display")

		s.Rollback(second)
		c, _ = s.Comment("c1")
		assert.Equal(t, "B", c.Content)
		assert.True(t, c.Edited)
	})

	t.Run("settled twice is a no-op", func(t *testing.T) {
		s := sampleThread()
		first, _ := s.UpdateLocalComment("c1", "B")
		s.Rollback(first)
		second, _ := s.UpdateLocalComment("c1", "C")
		s.Rollback(first)

		c, _ := s.Comment("c1")
		assert.Equal(t, "C", c.Content)
		s.Rollback(second)
		c, _ = s.Comment("c1")
		assert.Equal(t, "uno", c.Content)
	})
}

func TestRemoveAndRollback(t *testing.T) {
	s := sampleThread()

	m, removed := s.RemoveLocalComment("c2")
	require.True(t, removed)
	assert.Equal(t, []string{"c1", "c3"}, commentIDs(s.Comments()))
	assert.Equal(t, 2, s.Post().CommentCount)

	s.Rollback(m)
	assert.Equal(t, []string{"c1", "c2", "c3"}, commentIDs(s.Comments()))
	assert.Equal(t, 3, s.Post().CommentCount)

	s.Rollback(m)
	assert.Len(t, s.Comments(), 3, "rolling back twice does not duplicate")

	_, removed = s.RemoveLocalComment("c9")
	assert.False(t, removed)
}

func TestRollbackRemoveAtEnd(t *testing.T) {
	s := sampleThread()
	m3, _ := s.RemoveLocalComment("c3")
	_, _ = s.RemoveLocalComment("c2")

	s.Rollback(m3)
	assert.Equal(t, []string{"c1", "c3"}, commentIDs(s.Comments()))
}

func TestAppendAndUpdatePost(t *testing.T) {
	s := sampleThread()
	s.AppendComment(models.Comment{ID: "c4", PostID: "p1", Content: "cuatro"})
	assert.Equal(t, 4, s.Post().CommentCount)
	assert.Equal(t, "c4", s.Comments()[3].ID)

	now := time.Now()
	p := s.UpdatePost("Nuevo", "Contenido", &now)
	assert.Equal(t, "Nuevo", p.Title)
	assert.Equal(t, "Contenido", s.Post().Content)
	assert.NotNil(t, s.Post().UpdatedAt)
}
