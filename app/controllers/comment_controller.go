package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"conexa/app/community"
	"conexa/app/session"
)

// CommentController handles comment actions on a thread
type CommentController struct {
	renderer
	thread *community.Thread
}

// NewCommentController creates a new CommentController
func NewCommentController(thread *community.Thread, sessions *session.Manager, templates map[string]*template.Template, logger *zap.Logger) *CommentController {
	return &CommentController{
		renderer: newRenderer(templates, sessions, logger),
		thread:   thread,
	}
}

// Create handles creating a new comment
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	ws := cc.sessions.Workspace(r)
	_, err := cc.thread.SubmitComment(r.Context(), ws, cc.sessions.CurrentUser(r), postID, r.FormValue("content"))
	if err != nil && !errors.Is(err, community.ErrEmpty) {
		cc.fail(w, r, err, postPath(postID))
		return
	}
	http.Redirect(w, r, postPath(postID), http.StatusSeeOther)
}

// Edit handles editing an existing comment
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	postID, ok := cc.postID(w, r)
	if !ok {
		return
	}

	ws := cc.sessions.Workspace(r)
	err := cc.thread.EditComment(r.Context(), ws, cc.sessions.CurrentUser(r), postID, id, r.FormValue("content"))
	if err != nil && !errors.Is(err, community.ErrEmpty) {
		cc.fail(w, r, err, postPath(postID))
		return
	}
	http.Redirect(w, r, postPath(postID)+"#comment-"+id, http.StatusSeeOther)
}

// Delete handles deleting a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	postID, ok := cc.postID(w, r)
	if !ok {
		return
	}

	ws := cc.sessions.Workspace(r)
	if err := cc.thread.DeleteComment(r.Context(), ws, cc.sessions.CurrentUser(r), postID, id); err != nil {
		cc.fail(w, r, err, postPath(postID))
		return
	}
	http.Redirect(w, r, postPath(postID), http.StatusSeeOther)
}

func (cc *CommentController) postID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	postID := r.FormValue("post_id")
	if postID == "" {
		sendError(w, r, "Missing post_id", http.StatusBadRequest)
		return "", false
	}
	return postID, true
}
