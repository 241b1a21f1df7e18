package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexa/app/backend"
	"conexa/app/community"
	"conexa/app/metrics"
	"conexa/app/middleware"
	"conexa/app/repositories"
	"conexa/app/services"
	"conexa/app/session"
)

type stack struct {
	backendURL string
	web        http.Handler
	svc        *services.Services
	metrics    *metrics.Metrics
}

func setupStack(t *testing.T, limiter *middleware.Limiter) *stack {
	t.Helper()
	store, err := repositories.OpenStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := services.New(services.FromStore(store), time.Hour)
	_, err = svc.Seed()
	require.NoError(t, err)

	backendServer := httptest.NewServer(SetupBackendRoutes(svc, metrics.New(), nil, nil))
	t.Cleanup(backendServer.Close)

	m := metrics.New()
	sessions := session.New(session.Options{Lifetime: time.Hour}, community.NewRegistry())
	t.Cleanup(sessions.Close)

	web := SetupWebRoutes(Web{
		Backend:  backend.NewClient(backendServer.URL, 5*time.Second, m, nil),
		Sessions: sessions,
		Metrics:  m,
		Limiter:  limiter,
	})
	return &stack{backendURL: backendServer.URL, web: web, svc: svc, metrics: m}
}

type browser struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(h http.Handler) *browser {
	return &browser{handler: h, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func TestWebRoutes(t *testing.T) {
	s := setupStack(t, nil)
	b := newBrowser(s.web)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"root redirects", "/", http.StatusFound, ""},
		{"community home", "/community", http.StatusOK, "Paso Cristo Redentor cerrado"},
		{"forum selection", "/community?forum=rutas", http.StatusOK, "<h1>Rutas y Pasos</h1>"},
		{"thread", "/community/post/p1", http.StatusOK, "Gendarmería"},
		{"missing thread", "/community/post/p999", http.StatusNotFound, "El post no fue encontrado."},
		{"marketplace", "/marketplace", http.StatusOK, "Rosario ➝ Córdoba"},
		{"login form", "/login", http.StatusOK, "Iniciar sesión"},
		{"stylesheet", "/static/conexa.css", http.StatusOK, ".community"},
		{"metrics", "/metrics", http.StatusOK, "conexa_backend_calls_total"},
		{"unknown page", "/nope", http.StatusNotFound, ""},
		{"unknown api", "/api/nope", http.StatusNotFound, `"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := b.get(tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPostLifecycle(t *testing.T) {
	s := setupStack(t, nil)
	b := newBrowser(s.web)

	w := b.post("/login", url.Values{"email": {"ana@conexa.test"}, "password": {services.SeedPassword}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.post("/community/filter", url.Values{"forum": {"rutas"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.post("/community/posts", url.Values{"title": {"Desvío en ruta 7"}, "content": {"Tomar la 146."}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	rutas, err := s.svc.Posts.ListByTopic("rutas")
	require.NoError(t, err)
	require.Len(t, rutas, 2)
	created := rutas[0]
	assert.Equal(t, "Desvío en ruta 7", created.Title, "filed under the selected forum")

	path := "/community/post/" + created.ID
	w = b.post(path+"/comments", url.Values{"content": {"Gracias"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, b.get(path).Body.String(), "Gracias")

	w = b.post(path+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/community", w.Header().Get("Location"))

	assert.NotContains(t, b.get("/community").Body.String(), "Desvío en ruta 7")
	assert.Equal(t, http.StatusNotFound, b.get(path).Code)
}

func TestFeedAPI(t *testing.T) {
	s := setupStack(t, nil)

	w := newBrowser(s.web).get("/api/community/feed?forum=rutas")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var feed struct {
		Forum string `json:"forum"`
		Posts []struct {
			Title string `json:"title"`
		} `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&feed))
	assert.Equal(t, "rutas", feed.Forum)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "Paso Cristo Redentor cerrado", feed.Posts[0].Title)
}

func TestMutationsAreRateLimited(t *testing.T) {
	s := setupStack(t, middleware.NewLimiter(0.001, 1))
	b := newBrowser(s.web)

	assert.Equal(t, http.StatusUnauthorized, b.post("/login", url.Values{"email": {"x@y.z"}, "password": {"nope"}}).Code)
	assert.Equal(t, http.StatusTooManyRequests, b.post("/login", url.Values{"email": {"x@y.z"}, "password": {"nope"}}).Code)
	assert.Equal(t, http.StatusOK, b.get("/community").Code)
}

func TestBackendRoutes(t *testing.T) {
	s := setupStack(t, nil)

	res, err := http.Get(s.backendURL + "/api/forums")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))

	var forums []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&forums))
	assert.Len(t, forums, 4)
}
