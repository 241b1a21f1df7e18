package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"conexa/app/backend"
	"conexa/app/community"
	"conexa/app/models"
	"conexa/app/session"
)

// ThreadView is a post with its comments.
type ThreadView struct {
	Post          *models.Post
	Comments      []CommentView
	Owned         bool
	EditingPost   bool
	ConfirmDelete bool
}

// CommentView is one comment of a thread.
type CommentView struct {
	Comment models.Comment
	PostID  string
	Owned   bool
	Editing bool
}

// PostController handles the thread page and the post's own actions.
type PostController struct {
	renderer
	thread *community.Thread
}

// NewPostController creates a new PostController
func NewPostController(thread *community.Thread, sessions *session.Manager, templates map[string]*template.Template, logger *zap.Logger) *PostController {
	return &PostController{
		renderer: newRenderer(templates, sessions, logger),
		thread:   thread,
	}
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user := pc.sessions.CurrentUser(r)
	ws := pc.sessions.Workspace(r)

	store, err := pc.thread.Open(r.Context(), ws, id)
	if err != nil {
		if backend.IsNotFound(err) {
			pc.notFound(w, r, "El post no fue encontrado.")
			return
		}
		pc.render(w, r, "notfound", http.StatusBadGateway, "Error", NotFoundView{Message: "No se pudo cargar el post."})
		return
	}

	post := store.Post()
	q := r.URL.Query()
	owned := post.IsOwnedBy(user)
	view := ThreadView{
		Post:          &post,
		Owned:         owned,
		EditingPost:   owned && q.Get("edit") != "",
		ConfirmDelete: owned && q.Get("delete") != "",
	}
	for _, c := range store.Comments() {
		mine := c.IsOwnedBy(user)
		view.Comments = append(view.Comments, CommentView{
			Comment: c,
			PostID:  post.ID,
			Owned:   mine,
			Editing: mine && q.Get("comment") == c.ID,
		})
	}

	if wantsJSON(r) {
		sendJSON(w, http.StatusOK, struct {
			Post     models.Post      `json:"post"`
			Comments []models.Comment `json:"comments"`
		}{post, store.Comments()})
		return
	}
	pc.render(w, r, "post", http.StatusOK, post.Title, view)
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	ws := pc.sessions.Workspace(r)
	edit := backend.PostEdit{Title: r.FormValue("title"), Content: r.FormValue("content")}
	_, err := pc.thread.UpdatePostContent(r.Context(), ws, pc.sessions.CurrentUser(r), id, edit)
	switch {
	case err == nil:
		http.Redirect(w, r, postPath(id), http.StatusSeeOther)
	case errors.Is(err, community.ErrEmpty):
		http.Redirect(w, r, postPath(id)+"?edit=1", http.StatusSeeOther)
	default:
		pc.fail(w, r, err, postPath(id))
	}
}

// Delete handles deleting a post. Success goes back to the feed.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ws := pc.sessions.Workspace(r)
	if err := pc.thread.DeletePost(r.Context(), ws, pc.sessions.CurrentUser(r), id); err != nil {
		pc.fail(w, r, err, postPath(id))
		return
	}
	http.Redirect(w, r, "/community", http.StatusSeeOther)
}

func postPath(id string) string {
	return "/community/post/" + id
}
