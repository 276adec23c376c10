// Package memstore keeps the audit log in process memory. Entries do not survive a restart.
package memstore

import (
	"context"
	"sync"

	"github.com/skillcoder/coreportal/internal/logic/audit"
)

type Store struct {
	mu      sync.Mutex
	entries []audit.Entry
}

// New creates an empty in-memory audit repository.
func New() *Store {
	return &Store{}
}

var _ audit.Repository = (*Store)(nil)

func (s *Store) Load(_ context.Context) ([]audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		return nil, nil
	}

	out := make([]audit.Entry, len(s.entries))
	copy(out, s.entries)

	return out, nil
}

func (s *Store) Update(_ context.Context, apply func([]audit.Entry) []audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]audit.Entry, len(s.entries))
	copy(current, s.entries)

	next := apply(current)
	s.entries = make([]audit.Entry, len(next))
	copy(s.entries, next)

	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	return nil
}
