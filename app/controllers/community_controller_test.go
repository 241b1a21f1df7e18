package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexa/app/models"
)

func TestCommunityIndex(t *testing.T) {
	app := setupTestApp(t)
	app.fake.AddForum(models.Forum{ID: "f1", Title: "Roads", PostCount: 1})
	app.fake.AddPost(models.Post{ID: "p1", Title: "Hi", Content: "Ruta libre", AuthorID: "u1", Author: models.AuthorRef{ID: "u1", Name: "Ana Paz"}})

	t.Run("guest sees the feed with creation disabled", func(t *testing.T) {
		w := app.browser().get("/community")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Discusión General")
		assert.Contains(t, body, "Temas varios de la comunidad.")
		assert.Contains(t, body, "Roads")
		assert.Contains(t, body, "Espacio de discusión.")
		assert.Contains(t, body, "Hi")
		assert.Contains(t, body, "1 posts")
		assert.Contains(t, body, `<button class="button" disabled`)
		assert.Contains(t, body, "Novedades de CONEXA")
	})

	t.Run("signed in user may create", func(t *testing.T) {
		b := app.browser()
		b.login("ana@conexa.test")
		body := b.get("/community").Body.String()
		assert.Contains(t, body, `href="/community/create"`)
		assert.Contains(t, body, "Ana Paz")
	})
}

func TestCommunityFilter(t *testing.T) {
	app := setupTestApp(t)
	app.fake.AddForum(models.Forum{ID: "f1", Title: "Roads"})
	f1 := "f1"
	app.fake.AddPost(models.Post{ID: "p1", Title: "InRoadsForum", Content: "x", AuthorID: "u1", TopicID: &f1})
	app.fake.AddPost(models.Post{ID: "p2", Title: "General only", Content: "y", AuthorID: "u1"})

	b := app.browser()
	w := b.post("/community/filter", url.Values{"forum": {"f1"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/community", w.Header().Get("Location"))
	assert.Equal(t, 1, app.fake.Calls("GetPosts"))

	body := b.get("/community").Body.String()
	assert.Contains(t, body, "<h1>Roads</h1>")
	assert.Contains(t, body, "InRoadsForum")
	assert.NotContains(t, body, "General only")
	assert.Equal(t, 1, app.fake.Calls("GetPosts"), "rendering does not fetch again")

	t.Run("query parameter selects once", func(t *testing.T) {
		body := b.get("/community?forum=general").Body.String()
		assert.Contains(t, body, "<h1>Discusión General</h1>")
		assert.Contains(t, body, "General only")
		assert.NotContains(t, body, "InRoadsForum")
		assert.Equal(t, 2, app.fake.Calls("GetPosts"))

		body = b.get("/community").Body.String()
		assert.NotContains(t, body, "InRoadsForum", "reloading keeps the general selection")
	})

	t.Run("failed selection keeps posts and flashes", func(t *testing.T) {
		app.fake.Fail("GetPosts", errors.New("down"))
		defer app.fake.Fail("GetPosts", nil)

		b.post("/community/filter", url.Values{"forum": {"f1"}})
		body := b.get("/community").Body.String()
		assert.Contains(t, body, "No se pudo filtrar por foro.")
		assert.Contains(t, body, "General only")
	})
}

func TestSelectingGeneralShowsOnlyGeneralPosts(t *testing.T) {
	app := setupTestApp(t)
	app.fake.AddForum(models.Forum{ID: "f1", Title: "Roads"})
	f1 := "f1"
	app.fake.AddPost(models.Post{ID: "p1", Title: "InRoadsForum", Content: "x", AuthorID: "u1", TopicID: &f1})
	app.fake.AddPost(models.Post{ID: "p2", Title: "General only", Content: "y", AuthorID: "u1"})

	b := app.browser()
	b.post("/community/filter", url.Values{"forum": {"f1"}})
	b.post("/community/filter", url.Values{"forum": {"general"}})
	assert.Equal(t, 2, app.fake.Calls("GetPosts"))

	body := b.get("/community").Body.String()
	assert.Contains(t, body, "<h1>Discusión General</h1>")
	assert.Contains(t, body, "General only")
	assert.NotContains(t, body, "InRoadsForum")

	t.Run("a new post brings the recent feed back", func(t *testing.T) {
		app.fake.AddPost(models.Post{ID: "p3", Title: "Fresh news", Content: "z", AuthorID: "u1", TopicID: &f1})
		body := b.get("/community").Body.String()
		assert.Contains(t, body, "Fresh news")
	})
}

func TestCommunityFeedJSON(t *testing.T) {
	app := setupTestApp(t)
	f1 := "f1"
	app.fake.AddForum(models.Forum{ID: "f1", Title: "Roads"})
	app.fake.AddPost(models.Post{ID: "p1", Title: "Hi", Content: "x", AuthorID: "u1", TopicID: &f1})

	w := app.browser().get("/api/community/feed?forum=f1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp FeedResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "f1", resp.Forum)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "p1", resp.Posts[0].ID)
	assert.Equal(t, "Hi", resp.Posts[0].Title)

	app.fake.Fail("GetPosts", errors.New("down"))
	w = app.browser().get("/api/community/feed?forum=f1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestCreatePost(t *testing.T) {
	t.Run("creates and shows the post", func(t *testing.T) {
		app := setupTestApp(t)
		b := app.browser()
		b.login("ana@conexa.test")

		w := b.post("/community/posts", url.Values{"title": {"Corte en ruta 9"}, "content": {"Desvío por Tafí"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/community", w.Header().Get("Location"))
		assert.Equal(t, 1, app.fake.Calls("SubmitPost"))

		assert.Contains(t, b.get("/community").Body.String(), "Corte en ruta 9")
	})

	t.Run("empty fields never reach the backend", func(t *testing.T) {
		app := setupTestApp(t)
		b := app.browser()
		b.login("ana@conexa.test")

		w := b.post("/community/posts", url.Values{"title": {"  "}, "content": {"algo"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/community/create", w.Header().Get("Location"))
		w = b.post("/community/posts", url.Values{"title": {"Hola"}, "content": {""}})
		assert.Equal(t, "/community/create", w.Header().Get("Location"))
		assert.Zero(t, app.fake.Calls("SubmitPost"))
	})

	t.Run("guest is sent to login", func(t *testing.T) {
		app := setupTestApp(t)
		w := app.browser().post("/community/posts", url.Values{"title": {"Hola"}, "content": {"x"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Zero(t, app.fake.Calls("SubmitPost"))
	})

	t.Run("backend failure is flashed", func(t *testing.T) {
		app := setupTestApp(t)
		app.fake.Fail("SubmitPost", errors.New("down"))
		b := app.browser()
		b.login("ana@conexa.test")

		w := b.post("/community/posts", url.Values{"title": {"Hola"}, "content": {"x"}})
		assert.Equal(t, "/community/create", w.Header().Get("Location"))
		assert.Contains(t, b.get("/community/create").Body.String(), "No se pudo completar la acción")
	})
}

func TestNewPostForm(t *testing.T) {
	app := setupTestApp(t)
	app.fake.AddForum(models.Forum{ID: "f1", Title: "Roads"})

	body := app.browser().get("/community/create").Body.String()
	assert.Contains(t, body, "<fieldset disabled>")
	assert.Contains(t, body, "Inicia sesión para publicar.")

	b := app.browser()
	b.login("ana@conexa.test")
	body = b.get("/community/create").Body.String()
	assert.NotContains(t, body, "<fieldset disabled>")
	assert.Contains(t, body, `<option value="f1"`)
}
