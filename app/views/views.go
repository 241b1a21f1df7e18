// Package views holds the embedded HTML templates and static assets of the
// web frontend.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"conexa/app/community"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages maps each page to the files it is parsed from, after the layout.
var pages = map[string][]string{
	"home":     {"templates/community_home.html", "templates/post_card.html"},
	"post":     {"templates/post_detail.html", "templates/comment.html"},
	"new":      {"templates/post_new.html"},
	"market":   {"templates/market.html"},
	"login":    {"templates/login.html"},
	"notfound": {"templates/notfound.html"},
}

// Funcs are the helpers every template may call.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(t time.Time) string {
			return community.TimeAgo(t, time.Now())
		},
		"initials": community.Initials,
		"feedName": func(name string) string {
			return community.DisplayName(name, community.FeedAuthorFallback)
		},
		"detailName": func(name string) string {
			return community.DisplayName(name, community.DetailAuthorFallback)
		},
		"avatar": community.AvatarURL,
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"forumDescription": func(desc string) string {
			if desc == "" {
				return "Espacio de discusión."
			}
			return desc
		},
	}
}

// Load parses every page into its own template set. Each set is executed
// through its "layout" template.
func Load() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		patterns := append([]string{"templates/layout.html"}, files...)
		t, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// MustLoad is Load for program start-up.
func MustLoad() map[string]*template.Template {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
