package controllers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"conexa/app/backend"
	"conexa/app/session"
)

// LoginView is the login form.
type LoginView struct {
	Email string
}

// SessionController signs users in and out.
type SessionController struct {
	renderer
	backend backend.Backend
}

// NewSessionController creates a new SessionController
func NewSessionController(b backend.Backend, sessions *session.Manager, templates map[string]*template.Template, logger *zap.Logger) *SessionController {
	return &SessionController{
		renderer: newRenderer(templates, sessions, logger),
		backend:  b,
	}
}

// New displays the login form
func (sc *SessionController) New(w http.ResponseWriter, r *http.Request) {
	if sc.sessions.CurrentUser(r) != nil {
		http.Redirect(w, r, "/community", http.StatusSeeOther)
		return
	}
	sc.render(w, r, "login", http.StatusOK, "Iniciar sesión", LoginView{})
}

// Create authenticates against the backend and starts the session.
func (sc *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))

	user, err := sc.backend.Authenticate(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status, msg := http.StatusBadGateway, "No se pudo conectar con el servidor."
		if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrInvalid) {
			status, msg = http.StatusUnauthorized, "Credenciales inválidas."
		} else {
			sc.logger.Error("authenticate", zap.Error(err))
		}
		sc.sessions.Flash(r, msg)
		sc.render(w, r, "login", status, "Iniciar sesión", LoginView{Email: email})
		return
	}

	if err := sc.sessions.Login(r, user); err != nil {
		sc.logger.Error("start session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/community", http.StatusSeeOther)
}

// Delete ends the session. The backend token is revoked on a best-effort
// basis.
func (sc *SessionController) Delete(w http.ResponseWriter, r *http.Request) {
	if user := sc.sessions.CurrentUser(r); user != nil {
		if err := sc.backend.Logout(r.Context(), user); err != nil {
			sc.logger.Warn("revoke token", zap.Error(err))
		}
	}
	if err := sc.sessions.Logout(r); err != nil {
		sc.logger.Error("end session", zap.Error(err))
	}
	http.Redirect(w, r, "/community", http.StatusSeeOther)
}
