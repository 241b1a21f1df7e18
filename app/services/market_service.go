package services

import (
	"fmt"
	"sort"
	"time"

	"conexa/app/models"
	"conexa/app/repositories"
)

// MarketService serves freight marketplace listings.
type MarketService struct {
	marketRepo repositories.MarketRepository
	now        func() time.Time
}

// NewMarketService creates a new MarketService
func NewMarketService(marketRepo repositories.MarketRepository) *MarketService {
	return &MarketService{marketRepo: marketRepo, now: time.Now}
}

// ListItems returns every listing, newest first.
func (s *MarketService) ListItems() ([]*models.MarketItem, error) {
	items, err := s.marketRepo.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// CreateItem stores a listing. It must be either an offer or a request.
func (s *MarketService) CreateItem(item *models.MarketItem) error {
	if item.IsOffer() == item.IsRequest() {
		return fmt.Errorf("%w: listing must set exactly one of vehicle_type and required_vehicle_type", ErrInvalid)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s.marketRepo.Create(item)
}
