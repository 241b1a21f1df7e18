package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix         = "post:"
	CommentKeyPrefix      = "comment:"
	CommentIndexKeyPrefix = "comment-idx:"
	ForumKeyPrefix        = "forum:"
	UserKeyPrefix         = "user:"
	UserEmailKeyPrefix    = "user-email:"
	TokenKeyPrefix        = "token:"
	MarketKeyPrefix       = "market:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	ForumSeqKey   = "seq:forum"
	UserSeqKey    = "seq:user"
	MarketSeqKey  = "seq:market"
)

// getNextID gets the next available ID for a given sequence key and renders
// it with the entity letter, e.g. "p12".
func getNextID(txn *badger.Txn, seqKey, letter string) (string, error) {
	var n int
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		n = 1
	} else if err != nil {
		return "", fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			n, err = strconv.Atoi(string(val))
			if err != nil {
				return fmt.Errorf("failed to parse sequence: %w", err)
			}
			n++
			return nil
		})
		if err != nil {
			return "", err
		}
	}

	if err := txn.Set([]byte(seqKey), []byte(strconv.Itoa(n))); err != nil {
		return "", fmt.Errorf("failed to update sequence: %w", err)
	}

	return letter + strconv.Itoa(n), nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the value stored at key into v.
func getEntity(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, v)
	})
}

// putEntity stores v at key.
func putEntity(txn *badger.Txn, key string, v interface{}) error {
	data, err := marshalEntity(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// exists reports whether key is present.
func exists(txn *badger.Txn, key string) error {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// scanPrefix decodes every value under prefix, in key order.
func scanPrefix[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	var out []*T
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		entity := new(T)
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, entity)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
