package repositories

import (
	"conexa/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns the next post ID and stores the post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey, "p")
		if err != nil {
			return err
		}
		post.ID = id
		return putEntity(txn, PostKeyPrefix+post.ID, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, PostKeyPrefix+id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every stored post in key order
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = scanPrefix[models.Post](txn, PostKeyPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := PostKeyPrefix + post.ID
		if err := exists(txn, key); err != nil {
			return err
		}
		return putEntity(txn, key, post)
	})
}

// Delete deletes a post and every comment filed under it
func (r *BadgerPostRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := PostKeyPrefix + id
		if err := exists(txn, key); err != nil {
			return err
		}

		comments, err := scanPrefix[models.Comment](txn, CommentKeyPrefix+id+":")
		if err != nil {
			return err
		}
		for _, c := range comments {
			if err := txn.Delete([]byte(commentKey(c))); err != nil {
				return err
			}
			if err := txn.Delete([]byte(CommentIndexKeyPrefix + c.ID)); err != nil {
				return err
			}
		}

		return txn.Delete([]byte(key))
	})
}
