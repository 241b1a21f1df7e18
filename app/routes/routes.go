// Package routes wires controllers and middleware into the web frontend and
// the reference backend.
package routes

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"conexa/app/backend"
	"conexa/app/community"
	"conexa/app/controllers"
	"conexa/app/market"
	"conexa/app/metrics"
	"conexa/app/middleware"
	"conexa/app/restapi"
	"conexa/app/services"
	"conexa/app/session"
	"conexa/app/views"
)

// Web is what the web frontend is built from.
type Web struct {
	Backend  backend.Backend
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Limiter  *middleware.Limiter
	Logger   *zap.Logger

	// Templates defaults to the embedded views.
	Templates map[string]*template.Template
}

// SetupWebRoutes defines the frontend's routes and returns its handler.
func SetupWebRoutes(web Web) http.Handler {
	logger := web.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	templates := web.Templates
	if templates == nil {
		templates = views.MustLoad()
	}

	home := community.NewHome(web.Backend, web.Metrics, logger)
	actions := community.NewActions(web.Backend, home, logger)
	thread := community.NewThread(web.Backend, actions, web.Metrics, logger)

	communityController := controllers.NewCommunityController(home, actions, web.Sessions, templates, logger)
	postController := controllers.NewPostController(thread, web.Sessions, templates, logger)
	commentController := controllers.NewCommentController(thread, web.Sessions, templates, logger)
	marketController := controllers.NewMarketController(market.NewListings(web.Backend, logger), web.Sessions, templates, logger)
	sessionController := controllers.NewSessionController(web.Backend, web.Sessions, templates, logger)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Metrics(web.Metrics))
	if web.Limiter != nil {
		router.Use(middleware.RateLimit(web.Limiter, sessionKey(web.Sessions), web.Metrics))
	}

	router.PathPrefix("/static/").Handler(views.Static())
	router.Handle("/metrics", web.Metrics.Handler()).Methods("GET")
	router.Handle("/", http.RedirectHandler("/community", http.StatusFound)).Methods("GET")

	// Community web endpoints
	c := router.PathPrefix("/community").Subrouter()
	c.HandleFunc("", communityController.Index).Methods("GET")
	c.HandleFunc("/filter", communityController.Filter).Methods("POST")
	c.HandleFunc("/create", communityController.New).Methods("GET")
	c.HandleFunc("/posts", communityController.Create).Methods("POST")
	c.HandleFunc("/post/{id}", postController.Show).Methods("GET")
	c.HandleFunc("/post/{id}/edit", postController.Update).Methods("POST")
	c.HandleFunc("/post/{id}/delete", postController.Delete).Methods("POST")
	c.HandleFunc("/post/{id}/comments", commentController.Create).Methods("POST")
	c.HandleFunc("/comments/{id}/edit", commentController.Edit).Methods("POST")
	c.HandleFunc("/comments/{id}/delete", commentController.Delete).Methods("POST")

	router.HandleFunc("/marketplace", marketController.Dashboard).Methods("GET")

	router.HandleFunc("/login", sessionController.New).Methods("GET")
	router.HandleFunc("/login", sessionController.Create).Methods("POST")
	router.HandleFunc("/logout", sessionController.Delete).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/community/feed", communityController.Feed).Methods("GET")

	router.NotFoundHandler = notFound()

	return web.Sessions.LoadAndSave(router)
}

// SetupBackendRoutes defines the reference backend's routes.
func SetupBackendRoutes(svc *services.Services, m *metrics.Metrics, origins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ContentTypeJSON)

	restapi.New(svc, logger).Register(router)
	router.Handle("/metrics", m.Handler()).Methods("GET")
	router.NotFoundHandler = notFound()

	return restapi.WithCORS(router, origins)
}

// sessionKey limits signed-in users per account and guests per address.
func sessionKey(sessions *session.Manager) func(*http.Request) string {
	return func(r *http.Request) string {
		if user := sessions.CurrentUser(r); user != nil {
			return "user:" + user.ID
		}
		return "ip:" + middleware.ClientIP(r)
	}
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
			return
		}
		http.NotFound(w, r)
	})
}
