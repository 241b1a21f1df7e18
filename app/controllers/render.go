package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"conexa/app/backend"
	"conexa/app/community"
	"conexa/app/models"
	"conexa/app/session"
)

// Page is what every template receives. Data holds the page's own view.
type Page struct {
	Title string
	User  *models.SessionUser
	Flash string
	Data  any
}

// NotFoundView is the fallback message page.
type NotFoundView struct {
	Message string
}

// renderer is shared by all controllers.
type renderer struct {
	templates map[string]*template.Template
	sessions  *session.Manager
	logger    *zap.Logger
}

func newRenderer(templates map[string]*template.Template, sessions *session.Manager, logger *zap.Logger) renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return renderer{templates: templates, sessions: sessions, logger: logger.Named("web")}
}

func (rd *renderer) render(w http.ResponseWriter, r *http.Request, name string, status int, title string, data any) {
	tmpl, ok := rd.templates[name]
	if !ok {
		rd.logger.Error("missing template", zap.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page := Page{
		Title: title,
		User:  rd.sessions.CurrentUser(r),
		Flash: rd.sessions.PopFlash(r),
		Data:  data,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		rd.logger.Error("render", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rd *renderer) notFound(w http.ResponseWriter, r *http.Request, message string) {
	rd.render(w, r, "notfound", http.StatusNotFound, "No encontrado", NotFoundView{Message: message})
}

// fail flashes a message for err and redirects to back. Guests are sent to
// the login page instead.
func (rd *renderer) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, community.ErrGuest) || errors.Is(err, backend.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	rd.sessions.Flash(r, flashMessage(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func flashMessage(err error) string {
	switch {
	case errors.Is(err, community.ErrNotOwner), errors.Is(err, backend.ErrForbidden):
		return "No tienes permiso para modificar este contenido."
	case errors.Is(err, community.ErrSubmitInFlight):
		return "Ya hay una publicación en curso."
	case errors.Is(err, backend.ErrInvalid):
		return "Revisa los datos ingresados."
	case errors.Is(err, backend.ErrNotFound):
		return "El contenido ya no existe."
	default:
		return "No se pudo completar la acción. Intenta nuevamente."
	}
}

// Helper methods for consistent response handling

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}
