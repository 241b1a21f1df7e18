package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexa/app/models"
)

func seedThread(app *testApp) {
	app.fake.AddPost(models.Post{ID: "p1", Title: "Hi", Content: "Ruta libre", AuthorID: "u1", Author: models.AuthorRef{ID: "u1", Name: "Ana Paz"}})
	app.fake.AddComment(models.Comment{ID: "c1", PostID: "p1", AuthorID: "u1", Author: models.AuthorRef{ID: "u1", Name: "Ana Paz"}, Content: "primero"})
	app.fake.AddComment(models.Comment{ID: "c2", PostID: "p1", AuthorID: "u2", Author: models.AuthorRef{ID: "u2"}, Content: "segundo"})
}

func TestShowPost(t *testing.T) {
	app := setupTestApp(t)
	seedThread(app)

	t.Run("guest", func(t *testing.T) {
		w := app.browser().get("/community/post/p1")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<h1>Hi</h1>")
		assert.Contains(t, body, "primero")
		assert.Contains(t, body, "Usuario", "anonymous commenter fallback")
		assert.Contains(t, body, `placeholder="Inicia sesión para comentar" disabled`)
		assert.NotContains(t, body, "?edit=1")
	})

	t.Run("author", func(t *testing.T) {
		b := app.browser()
		b.login("ana@conexa.test")
		body := b.get("/community/post/p1").Body.String()
		assert.Contains(t, body, `placeholder="Escribe un comentario…"`)
		assert.Contains(t, body, "?edit=1")
		assert.Contains(t, body, "?comment=c1")
		assert.NotContains(t, body, "?comment=c2")

		body = b.get("/community/post/p1?delete=1").Body.String()
		assert.Contains(t, body, "¿Seguro que deseas eliminar este post?")
	})

	t.Run("not found", func(t *testing.T) {
		w := app.browser().get("/community/post/p404")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "El post no fue encontrado.")
	})

	t.Run("backend down", func(t *testing.T) {
		app.fake.Fail("GetPost", errors.New("down"))
		defer app.fake.Fail("GetPost", nil)
		w := app.browser().get("/community/post/p1")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestUpdatePost(t *testing.T) {
	app := setupTestApp(t)
	seedThread(app)
	b := app.browser()
	b.login("ana@conexa.test")

	w := b.post("/community/post/p1/edit", url.Values{"title": {"Hi again"}, "content": {"Ruta cortada"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/community/post/p1", w.Header().Get("Location"))

	post, _ := app.fake.Post("p1")
	assert.Equal(t, "Hi again", post.Title)

	w = b.post("/community/post/p1/edit", url.Values{"title": {""}, "content": {"x"}})
	assert.Equal(t, "/community/post/p1?edit=1", w.Header().Get("Location"))
	assert.Equal(t, 1, app.fake.Calls("UpdatePost"))

	other := app.browser()
	other.login("beto@conexa.test")
	other.get("/community/post/p1")
	w = other.post("/community/post/p1/edit", url.Values{"title": {"mío"}, "content": {"x"}})
	assert.Equal(t, "/community/post/p1", w.Header().Get("Location"))
	assert.Contains(t, other.get("/community/post/p1").Body.String(), "No tienes permiso")
	assert.Equal(t, 1, app.fake.Calls("UpdatePost"))
}

func TestDeletePost(t *testing.T) {
	app := setupTestApp(t)
	seedThread(app)
	b := app.browser()
	b.login("ana@conexa.test")
	b.get("/community")
	b.get("/community/post/p1")

	w := b.post("/community/post/p1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/community", w.Header().Get("Location"))
	assert.Equal(t, 1, app.fake.Calls("DeletePost"))

	body := b.get("/community").Body.String()
	assert.NotContains(t, body, "/community/post/p1")
	assert.Equal(t, http.StatusNotFound, b.get("/community/post/p1").Code)

	t.Run("guest", func(t *testing.T) {
		w := app.browser().post("/community/post/p1/delete", nil)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, 1, app.fake.Calls("DeletePost"))
	})
}
