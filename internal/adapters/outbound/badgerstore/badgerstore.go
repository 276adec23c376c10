// Package badgerstore persists the audit log in an embedded Badger key-value store.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/skillcoder/coreportal/internal/logic/audit"
)

const dirPerm = 0o750

var ErrPathRequired = errors.New("badger path is required for a persistent store")

// Config selects where the store lives.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// Store keeps the whole audit log as one JSON array under audit.LogKey.
type Store struct {
	logger *slog.Logger
	db     *badger.DB
	key    []byte
}

var _ audit.Repository = (*Store)(nil)

// Open opens or creates the database.
func Open(logger *slog.Logger, cfg Config) (*Store, error) {
	var opts badger.Options

	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, ErrPathRequired
		}

		if err := os.MkdirAll(cfg.Path, dirPerm); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}

		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}

	opts = opts.WithNumVersionsToKeep(1).WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Store{
		logger: logger,
		db:     db,
		key:    []byte(audit.LogKey),
	}, nil
}

func (s *Store) Name() string {
	return "audit-badger"
}

// Ping fails once the database has been closed.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return badger.ErrDBClosed
	}

	return nil
}

func (s *Store) Load(_ context.Context) ([]audit.Entry, error) {
	var entries []audit.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = s.get(txn)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", audit.LogKey, err)
	}

	return entries, nil
}

// Update applies the change inside a single read-write transaction.
func (s *Store) Update(_ context.Context, apply func([]audit.Entry) []audit.Entry) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entries, err := s.get(txn)
		if err != nil {
			return err
		}

		data, err := json.Marshal(apply(entries))
		if err != nil {
			return fmt.Errorf("encode audit entries: %w", err)
		}

		return txn.Set(s.key, data)
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", audit.LogKey, err)
	}

	return nil
}

func (s *Store) get(txn *badger.Txn) ([]audit.Entry, error) {
	item, err := txn.Get(s.key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var entries []audit.Entry

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entries)
	})

	return entries, err
}

func (s *Store) Clear(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key)
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", audit.LogKey, err)
	}

	return nil
}

// Shutdown closes the database.
func (s *Store) Shutdown(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}

	s.logger.InfoContext(ctx, "audit store closed")

	return nil
}

// badgerLogger routes badger's printf-style logs to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
