package repositories

import (
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Store owns the badger database behind the reference backend and hands out
// the typed repositories that share it.
type Store struct {
	db    *badger.DB
	mutex sync.Mutex
	path  string

	Posts    *BadgerPostRepository
	Comments *BadgerCommentRepository
	Forums   *BadgerForumRepository
	Users    *BadgerUserRepository
	Tokens   *BadgerTokenRepository
	Market   *BadgerMarketRepository
}

// OpenStore opens the database at path. An empty path opens an in-memory
// database, which is what tests use.
func OpenStore(path string, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger.Sugar().Named("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return newStore(db, path), nil
}

func newStore(db *badger.DB, path string) *Store {
	return &Store{
		db:       db,
		path:     path,
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Forums:   NewBadgerForumRepository(db),
		Users:    NewBadgerUserRepository(db),
		Tokens:   NewBadgerTokenRepository(db),
		Market:   NewBadgerMarketRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Close()
}

// Clear drops every key.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Backup writes a full backup to w and returns the version it covers.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup. The database should be empty.
func (s *Store) Restore(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 256)
}

// badgerLogger routes badger's log lines into zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.s.Debugf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(f, v...) }
