package community

import (
	"context"
	"errors"
	"strings"
	"testing"

	"conexa/app/backend"
	"conexa/app/backend/backendtest"
	"conexa/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActions(t *testing.T) (*backendtest.Fake, *Actions, *Workspace) {
	t.Helper()
	fake := backendtest.New()
	fake.AddForum(models.Forum{ID: "f1", Title: "Rutas"})
	home := NewHome(fake, nil, nil)
	return fake, NewActions(fake, home, nil), NewRegistry().Get("ws")
}

func TestSubmitPost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		selected  string
		form      PostForm
		wantTopic *string
	}{
		{
			name:      "general discussion carries no forum",
			selected:  models.GeneralTopic,
			form:      PostForm{Title: "Hola", Content: "Primer post"},
			wantTopic: nil,
		},
		{
			name:      "selected forum",
			selected:  "f1",
			form:      PostForm{Title: "Hola", Content: "Sobre rutas"},
			wantTopic: strPtr("f1"),
		},
		{
			name:      "explicit forum wins",
			selected:  models.GeneralTopic,
			form:      PostForm{Title: "Hola", Content: "Sobre rutas", Forum: "f1"},
			wantTopic: strPtr("f1"),
		},
		{
			name:      "explicit general",
			selected:  "f1",
			form:      PostForm{Title: "Hola", Content: "Para todos", Forum: models.GeneralTopic},
			wantTopic: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, actions, ws := newActions(t)
			ws.Feed.Select(tt.selected)

			post, err := actions.SubmitPost(ctx, ws, ana, tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopic, post.TopicID)
			assert.Equal(t, "u1", post.AuthorID)

			stored, ok := fake.Post(post.ID)
			require.True(t, ok)
			assert.Equal(t, tt.wantTopic, stored.TopicID)
			assert.Equal(t, 1, fake.Calls("GetFeed"), "home refetched")
		})
	}
}

func strPtr(s string) *string { return &s }

func TestSubmitPostShowsNewPostInGeneralFeed(t *testing.T) {
	fake, actions, ws := newActions(t)
	post, err := actions.SubmitPost(context.Background(), ws, ana, PostForm{Title: "Hola", Content: "Primer post"})
	require.NoError(t, err)

	assert.Equal(t, []string{post.ID}, ids(ws.Feed.Posts()))
	assert.Equal(t, 1, fake.Calls("SubmitPost"))
}

func TestSubmitPostRejectedWithoutCall(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.SessionUser
		form    PostForm
		wantErr error
	}{
		{"guest", nil, PostForm{Title: "Hola", Content: "x"}, ErrGuest},
		{"empty title", ana, PostForm{Title: "  ", Content: "x"}, ErrEmpty},
		{"empty content", ana, PostForm{Title: "Hola", Content: ""}, ErrEmpty},
		{"title too long", ana, PostForm{Title: strings.Repeat("a", 201), Content: "x"}, backend.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, actions, ws := newActions(t)
			_, err := actions.SubmitPost(context.Background(), ws, tt.user, tt.form)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, fake.Calls("SubmitPost"))
		})
	}
}

func TestSubmitPostInFlight(t *testing.T) {
	fake, actions, ws := newActions(t)
	require.True(t, ws.beginSubmit())

	_, err := actions.SubmitPost(context.Background(), ws, ana, PostForm{Title: "Hola", Content: "x"})
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Zero(t, fake.Calls("SubmitPost"))

	ws.endSubmit()
	_, err = actions.SubmitPost(context.Background(), ws, ana, PostForm{Title: "Hola", Content: "x"})
	assert.NoError(t, err)
	assert.False(t, ws.IsSubmitting())
}

func TestSubmitPostBackendFailure(t *testing.T) {
	fake, actions, ws := newActions(t)
	fake.Fail("SubmitPost", errors.New("timeout"))

	_, err := actions.SubmitPost(context.Background(), ws, ana, PostForm{Title: "Hola", Content: "x"})
	assert.Error(t, err)
	assert.False(t, ws.IsSubmitting())
	assert.Zero(t, fake.Calls("GetFeed"))
}
