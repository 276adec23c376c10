package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// Snapshot is an immutable copy of the registry at a version.
type Snapshot struct {
	Version  uint64
	Services []cluster.Service
}

// Event describes a registry change delivered to subscribers.
type Event struct {
	Version uint64
	Reason  string
}

// Transform maps the current services to the next services. It receives a deep copy
// and may mutate it freely; returning an error leaves the registry untouched.
type Transform func(services []cluster.Service) ([]cluster.Service, error)

// Store is the single owner of the in-memory service registry.
// All writes go through Store so that every transform sees the latest snapshot
// and runs to completion before the next one starts.
type Store struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	services    []cluster.Service
	version     uint64
	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]chan Event
}

// New creates a store seeded with a copy of services.
func New(logger *slog.Logger, seed []cluster.Service) *Store {
	return &Store{
		logger:      logger,
		services:    cluster.CloneAll(seed),
		subscribers: make(map[int]chan Event),
	}
}

// Snapshot returns a deep copy of the current services and version.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Version:  s.version,
		Services: cluster.CloneAll(s.services),
	}
}

// Version returns the current registry version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// Get returns a copy of the service named name.
func (s *Store) Get(name string) (cluster.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := cluster.Find(s.services, name)
	if idx < 0 {
		return cluster.Service{}, false
	}

	return s.services[idx].Clone(), true
}

// FindPod returns the name of the service owning podName and the pod's index.
func (s *Store) FindPod(podName string) (string, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svcIdx, podIdx, ok := cluster.FindPod(s.services, podName)
	if !ok {
		return "", -1, false
	}

	return s.services[svcIdx].Name, podIdx, true
}

// Replace swaps the whole registry content and returns the new version.
func (s *Store) Replace(services []cluster.Service) uint64 {
	s.mu.Lock()
	s.services = cluster.CloneAll(services)
	s.version++
	version := s.version
	s.mu.Unlock()

	s.publish(Event{Version: version, Reason: "replace"})

	return version
}

// Update applies transform atomically and returns the new version.
func (s *Store) Update(reason string, transform Transform) (uint64, error) {
	s.mu.Lock()

	next, err := transform(cluster.CloneAll(s.services))
	if err != nil {
		s.mu.Unlock()

		return 0, fmt.Errorf("update registry (%s): %w", reason, err)
	}

	s.services = next
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Debug("registry updated", "reason", reason, "version", version)
	s.publish(Event{Version: version, Reason: reason})

	return version, nil
}

// CompareAndSwap replaces the registry only if it is still at version.
func (s *Store) CompareAndSwap(version uint64, services []cluster.Service) (uint64, error) {
	s.mu.Lock()

	if s.version != version {
		current := s.version
		s.mu.Unlock()

		return current, fmt.Errorf("compare and swap at %d (current %d): %w", version, current, ErrVersionConflict)
	}

	s.services = cluster.CloneAll(services)
	s.version++
	next := s.version
	s.mu.Unlock()

	s.publish(Event{Version: next, Reason: "compare-and-swap"})

	return next, nil
}

// Subscribe registers a change listener. Events are dropped for subscribers whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Debug("registry subscriber lagging, event dropped", "subscriber", id, "version", ev.Version)
		}
	}
}
