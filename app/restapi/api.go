// Package restapi serves the reference backend consumed by the web
// frontend through backend.Client.
package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"conexa/app/models"
	"conexa/app/repositories"
	"conexa/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ctxKey int

const userKey ctxKey = iota

// API handles the /api routes of the reference backend.
type API struct {
	svc    *services.Services
	logger *zap.Logger
}

// New creates an API over svc.
func New(svc *services.Services, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{svc: svc, logger: logger}
}

// Register mounts every route on r.
func (a *API) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/forums", a.ListForums).Methods(http.MethodGet)
	api.HandleFunc("/posts", a.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", a.ShowPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/comments", a.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/market", a.ListMarket).Methods(http.MethodGet)
	api.HandleFunc("/session", a.CreateSession).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(a.RequireUser)
	authed.HandleFunc("/posts", a.CreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/posts/{id}", a.UpdatePost).Methods(http.MethodPut)
	authed.HandleFunc("/posts/{id}", a.DeletePost).Methods(http.MethodDelete)
	authed.HandleFunc("/posts/{id}/comments", a.CreateComment).Methods(http.MethodPost)
	authed.HandleFunc("/comments/{id}", a.UpdateComment).Methods(http.MethodPut)
	authed.HandleFunc("/comments/{id}", a.DeleteComment).Methods(http.MethodDelete)
	authed.HandleFunc("/session", a.DeleteSession).Methods(http.MethodDelete)
}

// RequireUser resolves the bearer token into the request's user.
func (a *API) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.svc.Auth.UserForToken(bearerToken(r))
		if err != nil {
			a.sendError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func userFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.sendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Helper methods for consistent response handling

func (a *API) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Warn("encode response", zap.Error(err))
	}
}

func (a *API) sendJSONError(w http.ResponseWriter, message string, status int) {
	a.sendJSON(w, status, map[string]string{"error": message})
}

// sendError maps service and repository errors to HTTP statuses.
func (a *API) sendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		a.sendJSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		a.sendJSONError(w, "already exists", http.StatusConflict)
	case errors.Is(err, services.ErrForbidden):
		a.sendJSONError(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrUnauthorized):
		a.sendJSONError(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, services.ErrInvalid):
		a.sendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		a.logger.Error("request failed", zap.Error(err))
		a.sendJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
