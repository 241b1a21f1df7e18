package repositories

import (
	"strings"

	"conexa/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

func emailKey(email string) string {
	return UserEmailKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Create stores a user; emails are unique case-insensitively
func (r *BadgerUserRepository) Create(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := exists(txn, emailKey(user.Email)); err == nil {
			return ErrDuplicate
		}
		id, err := getNextID(txn, UserSeqKey, "u")
		if err != nil {
			return err
		}
		user.ID = id
		if err := putEntity(txn, emailKey(user.Email), user.ID); err != nil {
			return err
		}
		return putEntity(txn, UserKeyPrefix+user.ID, user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, UserKeyPrefix+id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		var id string
		if err := getEntity(txn, emailKey(email), &id); err != nil {
			return err
		}
		return getEntity(txn, UserKeyPrefix+id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
