// Package session keeps the signed-in user, the community workspace id and
// flash messages of each browser session.
package session

import (
	"encoding/gob"
	"net/http"
	"time"

	"conexa/app/community"
	"conexa/app/models"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const (
	userKey      = "user"
	workspaceKey = "workspace"
	flashKey     = "flash"

	cookieName = "conexa_session"
)

func init() {
	gob.Register(&models.SessionUser{})
}

type Options struct {
	Lifetime    time.Duration
	IdleTimeout time.Duration
	Secure      bool
}

// Manager wraps the scs session manager and the workspace registry.
type Manager struct {
	sessions   *scs.SessionManager
	store      *memstore.MemStore
	workspaces *community.Registry
}

// New creates a Manager backed by an in-memory session store.
func New(opts Options, workspaces *community.Registry) *Manager {
	store := memstore.New()

	sm := scs.New()
	sm.Store = store
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.IdleTimeout > 0 {
		sm.IdleTimeout = opts.IdleTimeout
	}

	return &Manager{sessions: sm, store: store, workspaces: workspaces}
}

// LoadAndSave loads the session of each request and saves it afterwards.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.sessions.LoadAndSave(next)
}

// Close stops the store's expiry sweeper.
func (m *Manager) Close() {
	m.store.StopCleanup()
}

// Workspaces returns the registry workspaces are kept in.
func (m *Manager) Workspaces() *community.Registry {
	return m.workspaces
}

// CurrentUser returns the signed-in user, or nil for guests.
func (m *Manager) CurrentUser(r *http.Request) *models.SessionUser {
	user, ok := m.sessions.Get(r.Context(), userKey).(*models.SessionUser)
	if !ok {
		return nil
	}
	return user
}

// Login stores user in a fresh session token.
func (m *Manager) Login(r *http.Request, user *models.SessionUser) error {
	if err := m.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	m.sessions.Put(r.Context(), userKey, user)
	return nil
}

// Logout forgets the session workspace and destroys the session.
func (m *Manager) Logout(r *http.Request) error {
	if id := m.sessions.GetString(r.Context(), workspaceKey); id != "" {
		m.workspaces.Forget(id)
	}
	return m.sessions.Destroy(r.Context())
}

// Workspace returns the workspace of the request's session, creating one
// on first use.
func (m *Manager) Workspace(r *http.Request) *community.Workspace {
	id := m.sessions.GetString(r.Context(), workspaceKey)
	if id == "" {
		id = community.NewID()
		m.sessions.Put(r.Context(), workspaceKey, id)
	}
	return m.workspaces.Get(id)
}

// Flash queues msg for the next rendered page.
func (m *Manager) Flash(r *http.Request, msg string) {
	m.sessions.Put(r.Context(), flashKey, msg)
}

// PopFlash returns and clears the queued message.
func (m *Manager) PopFlash(r *http.Request) string {
	return m.sessions.PopString(r.Context(), flashKey)
}
