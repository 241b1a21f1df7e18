package repositories

import (
	"errors"

	"conexa/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerForumRepository implements ForumRepository using BadgerDB
type BadgerForumRepository struct {
	db *badger.DB
}

// NewBadgerForumRepository creates a new BadgerForumRepository
func NewBadgerForumRepository(db *badger.DB) *BadgerForumRepository {
	return &BadgerForumRepository{db: db}
}

// Create stores a forum, assigning an ID when the caller left it empty
func (r *BadgerForumRepository) Create(forum *models.Forum) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if forum.ID == "" {
			// Skip sequence values already taken by explicitly named forums.
			for {
				id, err := getNextID(txn, ForumSeqKey, "f")
				if err != nil {
					return err
				}
				err = exists(txn, ForumKeyPrefix+id)
				if errors.Is(err, ErrNotFound) {
					forum.ID = id
					break
				}
				if err != nil {
					return err
				}
			}
		} else if err := exists(txn, ForumKeyPrefix+forum.ID); err == nil {
			return ErrDuplicate
		}
		return putEntity(txn, ForumKeyPrefix+forum.ID, forum)
	})
}

// GetByID retrieves a forum by ID
func (r *BadgerForumRepository) GetByID(id string) (*models.Forum, error) {
	var forum models.Forum
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, ForumKeyPrefix+id, &forum)
	})
	if err != nil {
		return nil, err
	}
	return &forum, nil
}

// List retrieves every forum
func (r *BadgerForumRepository) List() ([]*models.Forum, error) {
	var forums []*models.Forum
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		forums, err = scanPrefix[models.Forum](txn, ForumKeyPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return forums, nil
}
