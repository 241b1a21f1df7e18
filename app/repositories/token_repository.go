package repositories

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerTokenRepository implements TokenRepository using BadgerDB entry TTLs
// for expiry.
type BadgerTokenRepository struct {
	db *badger.DB
}

// NewBadgerTokenRepository creates a new BadgerTokenRepository
func NewBadgerTokenRepository(db *badger.DB) *BadgerTokenRepository {
	return &BadgerTokenRepository{db: db}
}

// Issue creates a token for userID that expires after ttl
func (r *BadgerTokenRepository) Issue(userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	err := r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(TokenKeyPrefix+token), []byte(userID)).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user a live token belongs to
func (r *BadgerTokenRepository) Resolve(token string) (string, error) {
	var userID string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(TokenKeyPrefix + token))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		userID = string(val)
		return nil
	})
	return userID, err
}

// Revoke deletes a token
func (r *BadgerTokenRepository) Revoke(token string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(TokenKeyPrefix + token))
	})
}
