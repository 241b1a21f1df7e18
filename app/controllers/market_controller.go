package controllers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"conexa/app/market"
	"conexa/app/models"
	"conexa/app/session"
)

// ModeOption is one button of the view mode selector.
type ModeOption struct {
	Value string
	Label string
}

// MarketView is the marketplace dashboard.
type MarketView struct {
	Mode         string
	CanSwitch    bool
	Modes        []ModeOption
	Cards        []market.Card
	Selected     *market.Card
	SelectedItem *models.MarketItem
	LoadError    string
}

// MarketController serves the marketplace dashboard.
type MarketController struct {
	renderer
	listings *market.Listings
}

// NewMarketController creates a new MarketController
func NewMarketController(listings *market.Listings, sessions *session.Manager, templates map[string]*template.Template, logger *zap.Logger) *MarketController {
	return &MarketController{
		renderer: newRenderer(templates, sessions, logger),
		listings: listings,
	}
}

// Dashboard lists the listings visible in the requested mode. The item
// query parameter opens a listing's detail panel.
func (mc *MarketController) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := mc.sessions.CurrentUser(r)
	q := r.URL.Query()

	view := MarketView{
		Mode:      market.Mode(q.Get("mode"), user),
		CanSwitch: market.CanSwitchModes(user),
	}
	for _, m := range market.Modes {
		view.Modes = append(view.Modes, ModeOption{Value: m, Label: market.ModeLabel(m)})
	}

	res := mc.listings.Load(r.Context())
	if res.Err != nil {
		view.LoadError = "No se pudieron cargar las publicaciones."
	}
	items := market.Filter(res.Data, view.Mode)
	view.Cards = market.Cards(items)

	if id := q.Get("item"); id != "" {
		if item, ok := market.Find(res.Data, id); ok {
			card := market.NewCard(item)
			view.Selected = &card
			view.SelectedItem = &item
		}
	}

	if wantsJSON(r) {
		sendJSON(w, http.StatusOK, items)
		return
	}
	mc.render(w, r, "market", http.StatusOK, "Mercado", view)
}
