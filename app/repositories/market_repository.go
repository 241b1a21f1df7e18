package repositories

import (
	"conexa/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerMarketRepository implements MarketRepository using BadgerDB
type BadgerMarketRepository struct {
	db *badger.DB
}

// NewBadgerMarketRepository creates a new BadgerMarketRepository
func NewBadgerMarketRepository(db *badger.DB) *BadgerMarketRepository {
	return &BadgerMarketRepository{db: db}
}

// Create creates a new listing
func (r *BadgerMarketRepository) Create(item *models.MarketItem) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, MarketSeqKey, "m")
		if err != nil {
			return err
		}
		item.ID = id
		return putEntity(txn, MarketKeyPrefix+item.ID, item)
	})
}

// List retrieves every listing
func (r *BadgerMarketRepository) List() ([]*models.MarketItem, error) {
	var items []*models.MarketItem
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		items, err = scanPrefix[models.MarketItem](txn, MarketKeyPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
