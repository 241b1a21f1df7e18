package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"conexa/app/backend/backendtest"
	"conexa/app/community"
	"conexa/app/market"
	"conexa/app/metrics"
	"conexa/app/models"
	"conexa/app/session"
	"conexa/app/views"
)

type testApp struct {
	t        *testing.T
	fake     *backendtest.Fake
	sessions *session.Manager
	handler  http.Handler
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	fake := backendtest.New()
	fake.AddUser(models.SessionUser{ID: "u1", Email: "ana@conexa.test", Name: "Ana Paz", Token: "tok-ana", Role: models.RoleDualOperator}, "secreto")
	fake.AddUser(models.SessionUser{ID: "u2", Email: "beto@conexa.test", Name: "Beto Ruiz", Token: "tok-beto", Role: "transportista"}, "secreto")

	m := metrics.New()
	sessions := session.New(session.Options{Lifetime: time.Hour}, community.NewRegistry())
	t.Cleanup(sessions.Close)
	templates := views.MustLoad()

	home := community.NewHome(fake, m, nil)
	actions := community.NewActions(fake, home, nil)
	thread := community.NewThread(fake, actions, m, nil)

	cc := NewCommunityController(home, actions, sessions, templates, nil)
	pc := NewPostController(thread, sessions, templates, nil)
	comments := NewCommentController(thread, sessions, templates, nil)
	mc := NewMarketController(market.NewListings(fake, nil), sessions, templates, nil)
	sc := NewSessionController(fake, sessions, templates, nil)

	router := mux.NewRouter()
	router.HandleFunc("/community", cc.Index).Methods("GET")
	router.HandleFunc("/community/filter", cc.Filter).Methods("POST")
	router.HandleFunc("/api/community/feed", cc.Feed).Methods("GET")
	router.HandleFunc("/community/create", cc.New).Methods("GET")
	router.HandleFunc("/community/posts", cc.Create).Methods("POST")
	router.HandleFunc("/community/post/{id}", pc.Show).Methods("GET")
	router.HandleFunc("/community/post/{id}/edit", pc.Update).Methods("POST")
	router.HandleFunc("/community/post/{id}/delete", pc.Delete).Methods("POST")
	router.HandleFunc("/community/post/{id}/comments", comments.Create).Methods("POST")
	router.HandleFunc("/community/comments/{id}/edit", comments.Edit).Methods("POST")
	router.HandleFunc("/community/comments/{id}/delete", comments.Delete).Methods("POST")
	router.HandleFunc("/marketplace", mc.Dashboard).Methods("GET")
	router.HandleFunc("/login", sc.New).Methods("GET")
	router.HandleFunc("/login", sc.Create).Methods("POST")
	router.HandleFunc("/logout", sc.Delete).Methods("POST")

	return &testApp{t: t, fake: fake, sessions: sessions, handler: sessions.LoadAndSave(router)}
}

// browser keeps the session cookie between requests.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.app.handler.ServeHTTP(w, req)
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

func (b *browser) login(email string) {
	w := b.post("/login", url.Values{"email": {email}, "password": {"secreto"}})
	require.Equal(b.app.t, http.StatusSeeOther, w.Code)
}
