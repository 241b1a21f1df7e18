package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conexa/app/community"
	"conexa/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (c *client) do(method, path string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if res := rec.Result(); len(res.Cookies()) > 0 {
		c.cookies = res.Cookies()
	}
	return rec
}

func setup(t *testing.T) (*Manager, *client) {
	t.Helper()
	m := New(Options{Lifetime: time.Hour}, community.NewRegistry())
	t.Cleanup(m.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Login(r, &models.SessionUser{ID: "u1", Name: "Ana Paz", Token: "tok"}))
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Logout(r))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if user := m.CurrentUser(r); user != nil {
			w.Write([]byte(user.ID))
			return
		}
		w.Write([]byte("guest"))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(m.Workspace(r).ID))
	})
	mux.HandleFunc("/flash", func(w http.ResponseWriter, r *http.Request) {
		m.Flash(r, "No se pudo publicar")
	})
	mux.HandleFunc("/pop", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(m.PopFlash(r)))
	})

	return m, &client{t: t, handler: m.LoadAndSave(mux)}
}

func TestLoginLogout(t *testing.T) {
	_, c := setup(t)

	assert.Equal(t, "guest", c.do("GET", "/me").Body.String())

	c.do("POST", "/login")
	assert.Equal(t, "u1", c.do("GET", "/me").Body.String())

	c.do("POST", "/logout")
	assert.Equal(t, "guest", c.do("GET", "/me").Body.String())
}

func TestWorkspaceFollowsSession(t *testing.T) {
	m, c := setup(t)

	first := c.do("GET", "/ws").Body.String()
	require.NotEmpty(t, first)
	assert.Equal(t, first, c.do("GET", "/ws").Body.String())
	assert.Equal(t, 1, m.Workspaces().Len())

	other := &client{t: t, handler: c.handler}
	assert.NotEqual(t, first, other.do("GET", "/ws").Body.String())
	assert.Equal(t, 2, m.Workspaces().Len())

	c.do("POST", "/logout")
	assert.Equal(t, 1, m.Workspaces().Len(), "logout forgets the workspace")
}

func TestFlash(t *testing.T) {
	_, c := setup(t)

	c.do("POST", "/flash")
	assert.Equal(t, "No se pudo publicar", c.do("GET", "/pop").Body.String())
	assert.Empty(t, c.do("GET", "/pop").Body.String())
}
