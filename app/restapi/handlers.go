package restapi

import (
	"net/http"

	"conexa/app/services"

	"github.com/gorilla/mux"
)

// ListForums handles GET /api/forums
func (a *API) ListForums(w http.ResponseWriter, r *http.Request) {
	forums, err := a.svc.Forums.ListForums()
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, nonNil(forums))
}

// ListPosts handles GET /api/posts. Without a topicId it returns the recent
// feed.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.svc.Posts.ListByTopic(r.URL.Query().Get("topicId"))
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, nonNil(posts))
}

// ShowPost handles GET /api/posts/{id}
func (a *API) ShowPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.svc.Posts.GetPost(mux.Vars(r)["id"])
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /api/posts
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !a.decode(w, r, &in) {
		return
	}
	post, err := a.svc.Posts.CreatePost(userFrom(r), in)
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/posts/{id}
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !a.decode(w, r, &in) {
		return
	}
	post, err := a.svc.Posts.UpdatePost(userFrom(r).ID, mux.Vars(r)["id"], in)
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/{id}
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Posts.DeletePost(userFrom(r).ID, mux.Vars(r)["id"]); err != nil {
		a.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/posts/{id}/comments
func (a *API) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.svc.Comments.ListPostComments(mux.Vars(r)["id"])
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, nonNil(comments))
}

// CreateComment handles POST /api/posts/{id}/comments
func (a *API) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in services.CommentInput
	if !a.decode(w, r, &in) {
		return
	}
	comment, err := a.svc.Comments.CreateComment(userFrom(r), mux.Vars(r)["id"], in)
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusCreated, comment)
}

// UpdateComment handles PUT /api/comments/{id}
func (a *API) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in services.CommentInput
	if !a.decode(w, r, &in) {
		return
	}
	comment, err := a.svc.Comments.UpdateComment(userFrom(r).ID, mux.Vars(r)["id"], in)
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/{id}
func (a *API) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Comments.DeleteComment(userFrom(r).ID, mux.Vars(r)["id"]); err != nil {
		a.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMarket handles GET /api/market
func (a *API) ListMarket(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.Market.ListItems()
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, nonNil(items))
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateSession handles POST /api/session and returns the user with a
// fresh bearer token.
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if !a.decode(w, r, &creds) {
		return
	}
	user, token, err := a.svc.Auth.Authenticate(creds.Email, creds.Password)
	if err != nil {
		a.sendError(w, err)
		return
	}
	a.sendJSON(w, http.StatusCreated, user.Session(token))
}

// DeleteSession handles DELETE /api/session
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Auth.Logout(bearerToken(r)); err != nil {
		a.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}
