// Package market loads the freight marketplace and shapes its listings for
// the dashboard.
package market

import (
	"context"
	"fmt"

	"conexa/app/backend"
	"conexa/app/models"

	"go.uber.org/zap"
)

// View modes of the dashboard.
const (
	ModeAll      = "all"
	ModeOffers   = "offers"
	ModeRequests = "requests"
)

// Modes lists the view modes in display order.
var Modes = []string{ModeAll, ModeOffers, ModeRequests}

// ModeLabel returns the button label of mode.
func ModeLabel(mode string) string {
	switch mode {
	case ModeOffers:
		return "Ofertas"
	case ModeRequests:
		return "Demandas"
	default:
		return "Todo"
	}
}

// CanSwitchModes reports whether user may choose a view mode. Only dual
// operators see both sides of the market.
func CanSwitchModes(user *models.SessionUser) bool {
	return user != nil && user.Role == models.RoleDualOperator
}

// Mode resolves the requested view mode for user. Unknown modes, and every
// mode requested by someone who cannot switch, fall back to ModeAll.
func Mode(requested string, user *models.SessionUser) string {
	if !CanSwitchModes(user) {
		return ModeAll
	}
	switch requested {
	case ModeOffers, ModeRequests:
		return requested
	default:
		return ModeAll
	}
}

// Filter returns the items visible in mode, keeping their order.
func Filter(items []models.MarketItem, mode string) []models.MarketItem {
	out := make([]models.MarketItem, 0, len(items))
	for _, item := range items {
		switch mode {
		case ModeOffers:
			if !item.IsOffer() {
				continue
			}
		case ModeRequests:
			if !item.IsRequest() {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// Find returns the item with id.
func Find(items []models.MarketItem, id string) (models.MarketItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MarketItem{}, false
}

// Result is one load of the marketplace.
type Result struct {
	Data []models.MarketItem
	Err  error
}

// Listings loads marketplace listings from the backend.
type Listings struct {
	backend backend.Backend
	logger  *zap.Logger
}

// NewListings creates a new Listings
func NewListings(b backend.Backend, logger *zap.Logger) *Listings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listings{backend: b, logger: logger.Named("market")}
}

// Load fetches every listing in the order the backend returns them. On
// failure Data is empty and Err is set.
func (l *Listings) Load(ctx context.Context) Result {
	items, err := l.backend.ListMarket(ctx)
	if err != nil {
		l.logger.Error("load market", zap.Error(err))
		return Result{Data: []models.MarketItem{}, Err: fmt.Errorf("load market: %w", err)}
	}
	if items == nil {
		items = []models.MarketItem{}
	}
	return Result{Data: items}
}

// Refetch loads the listings again.
func (l *Listings) Refetch(ctx context.Context) Result {
	return l.Load(ctx)
}
