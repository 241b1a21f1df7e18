package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"conexa/app/community"
	"conexa/app/models"
	"conexa/app/session"
)

// HomeView is the community home.
type HomeView struct {
	Sidebar     []models.Forum
	Selected    string
	ActiveTitle string
	Posts       []models.Post
	LoadError   string
}

// NewPostView is the new post form.
type NewPostView struct {
	Forums   []models.Forum
	Selected string
	Form     community.PostForm
}

// FeedResponse is the JSON form of the displayed feed.
type FeedResponse struct {
	Forum string        `json:"forum"`
	Posts []models.Post `json:"posts"`
}

// CommunityController serves the community home and post creation.
type CommunityController struct {
	renderer
	home    *community.Home
	actions *community.Actions
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(home *community.Home, actions *community.Actions, sessions *session.Manager, templates map[string]*template.Template, logger *zap.Logger) *CommunityController {
	return &CommunityController{
		renderer: newRenderer(templates, sessions, logger),
		home:     home,
		actions:  actions,
	}
}

// Index renders forums and the displayed feed. A forum query parameter
// selects that forum first.
func (cc *CommunityController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws := cc.sessions.Workspace(r)

	data := cc.home.Refetch(ctx, ws)
	view := HomeView{Sidebar: community.Sidebar(data.Forums)}
	if data.Err != nil {
		view.LoadError = "No se pudieron cargar las publicaciones."
	}

	if forum, ok := r.URL.Query()["forum"]; ok && len(forum) > 0 {
		if err := cc.home.Filter(ctx, ws, forum[0]); err != nil {
			view.LoadError = "No se pudo filtrar por foro."
		}
	}

	view.Selected = ws.Feed.Selector()
	view.ActiveTitle = community.ActiveTitle(data.Forums, view.Selected)
	view.Posts = ws.Feed.Posts()

	cc.render(w, r, "home", http.StatusOK, "Comunidad", view)
}

// Filter selects the posted forum and goes back to the home.
func (cc *CommunityController) Filter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	ws := cc.sessions.Workspace(r)
	if err := cc.home.Filter(r.Context(), ws, r.FormValue("forum")); err != nil {
		cc.sessions.Flash(r, "No se pudo filtrar por foro.")
	}
	http.Redirect(w, r, "/community", http.StatusSeeOther)
}

// Feed answers with the displayed feed as JSON, selecting the forum query
// parameter first when present.
func (cc *CommunityController) Feed(w http.ResponseWriter, r *http.Request) {
	ws := cc.sessions.Workspace(r)
	if forum, ok := r.URL.Query()["forum"]; ok && len(forum) > 0 {
		if err := cc.home.Filter(r.Context(), ws, forum[0]); err != nil {
			sendError(w, r, "Failed to fetch posts: "+err.Error(), http.StatusBadGateway)
			return
		}
	}
	posts := ws.Feed.Posts()
	if posts == nil {
		posts = []models.Post{}
	}
	sendJSON(w, http.StatusOK, FeedResponse{Forum: ws.Feed.Selector(), Posts: posts})
}

// New displays the form for creating a new post
func (cc *CommunityController) New(w http.ResponseWriter, r *http.Request) {
	ws := cc.sessions.Workspace(r)
	data := cc.home.Load(r.Context())
	cc.render(w, r, "new", http.StatusOK, "Nuevo Post", NewPostView{
		Forums:   data.Forums,
		Selected: ws.Feed.Selector(),
	})
}

// Create handles creating a new post
func (cc *CommunityController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	form := community.PostForm{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Forum:   r.FormValue("forum"),
	}

	ws := cc.sessions.Workspace(r)
	_, err := cc.actions.SubmitPost(r.Context(), ws, cc.sessions.CurrentUser(r), form)
	switch {
	case err == nil:
		http.Redirect(w, r, "/community", http.StatusSeeOther)
	case errors.Is(err, community.ErrEmpty):
		http.Redirect(w, r, "/community/create", http.StatusSeeOther)
	default:
		cc.fail(w, r, err, "/community/create")
	}
}
