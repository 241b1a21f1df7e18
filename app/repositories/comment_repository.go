package repositories

import (
	"conexa/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed by post so a thread lists with one prefix scan; a
// secondary index maps comment IDs back to their post.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

func commentKey(c *models.Comment) string {
	return CommentKeyPrefix + c.PostID + ":" + c.ID
}

// lookup resolves the primary key of a comment through the index.
func (r *BadgerCommentRepository) lookup(txn *badger.Txn, id string) (string, error) {
	var postID string
	if err := getEntity(txn, CommentIndexKeyPrefix+id, &postID); err != nil {
		return "", err
	}
	return CommentKeyPrefix + postID + ":" + id, nil
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey, "c")
		if err != nil {
			return err
		}
		comment.ID = id

		if err := putEntity(txn, CommentIndexKeyPrefix+id, comment.PostID); err != nil {
			return err
		}
		return putEntity(txn, commentKey(comment), comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, id)
		if err != nil {
			return err
		}
		return getEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		comments, err = scanPrefix[models.Comment](txn, CommentKeyPrefix+postID+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update updates an existing comment
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, comment.ID)
		if err != nil {
			return err
		}
		return putEntity(txn, key, comment)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := r.lookup(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(CommentIndexKeyPrefix + id))
	})
}
