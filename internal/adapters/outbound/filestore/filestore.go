// Package filestore persists the audit log as a JSON file. An flock on a sidecar
// lock file serializes writers across processes sharing the file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/skillcoder/coreportal/internal/logic/audit"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600

	lockRetryInterval = 50 * time.Millisecond
)

var ErrLockNotAcquired = errors.New("audit file lock not acquired")

type Store struct {
	logger   *slog.Logger
	path     string
	lockPath string
}

var _ audit.Repository = (*Store)(nil)

// New stores entries in dir/<audit.LogKey>.json, creating dir if needed.
func New(logger *slog.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create audit directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, audit.LogKey+".json")

	return &Store{
		logger:   logger,
		path:     path,
		lockPath: path + ".lock",
	}, nil
}

func (s *Store) Name() string {
	return "audit-file"
}

// Ping checks that the audit directory is still reachable.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("stat audit directory: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) ([]audit.Entry, error) {
	var entries []audit.Entry

	err := s.withLock(ctx, func() error {
		var err error
		entries, err = s.read()

		return err
	})

	return entries, err
}

// Update reads, applies and writes under one lock, so a Clear from another
// process never lands between the read and the write.
func (s *Store) Update(ctx context.Context, apply func([]audit.Entry) []audit.Entry) error {
	return s.withLock(ctx, func() error {
		entries, err := s.read()
		if err != nil {
			return err
		}

		return s.write(apply(entries))
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.withLock(ctx, func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", s.path, err)
		}

		return nil
	})
}

func (s *Store) read() ([]audit.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var entries []audit.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	return entries, nil
}

// write replaces the file atomically via rename.
func (s *Store) write(entries []audit.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode audit entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	fl := flock.New(s.lockPath)

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", s.lockPath, err)
	}

	if !locked {
		return fmt.Errorf("%w: %s", ErrLockNotAcquired, s.lockPath)
	}

	// The lock file stays on disk; removing it could invalidate a lock taken concurrently.
	defer func() {
		if err := fl.Close(); err != nil {
			s.logger.DebugContext(ctx, "failed to release audit file lock", "path", s.lockPath, "reason", err)
		}
	}()

	return fn()
}
