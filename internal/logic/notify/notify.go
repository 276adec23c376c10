package notify

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
)

// Level is the display state of a notification.
type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultHistoryLimit bounds the number of operations whose last notification is kept.
const DefaultHistoryLimit = 500

// Notification is the latest user-facing message for a key or an operation.
type Notification struct {
	Key         string    `json:"key"`
	OperationID string    `json:"operationId,omitempty"`
	Level       Level     `json:"level"`
	Message     string    `json:"message"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Sink correlates loading notifications with their resolution by a stable key.
// Every update replaces what is displayed under the key, so a second operation on the
// same key hides the first one's loading message; per-operation outcomes are kept
// separately and are never overwritten by another operation.
type Sink struct {
	logger       *slog.Logger
	mu           sync.RWMutex
	byKey        map[string]Notification
	byOperation  map[string]Notification
	order        []string
	historyLimit int
	now          func() time.Time
}

// New creates a notification sink.
func New(logger *slog.Logger, historyLimit int) *Sink {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	return &Sink{
		logger:       logger.With("component", "notify"),
		byKey:        make(map[string]Notification),
		byOperation:  make(map[string]Notification),
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Loading shows a loading message under key.
func (s *Sink) Loading(ctx context.Context, key, operationID, message string) {
	s.mu.Lock()
	current, ok := s.byKey[key]
	collision := ok && current.Level == LevelLoading && current.OperationID != operationID
	s.setLocked(key, operationID, LevelLoading, message)
	s.mu.Unlock()

	if collision {
		metrics.RecordNotificationKeyCollision()
		s.logger.WarnContext(ctx, "loading notification replaced a pending one",
			"key", key,
			"replacedOperationID", current.OperationID,
			"operationID", operationID,
		)
	}
}

// Success resolves key with a success message.
func (s *Sink) Success(ctx context.Context, key, operationID, message string) {
	s.set(ctx, key, operationID, LevelSuccess, message)
}

// Error resolves key with an error message.
func (s *Sink) Error(ctx context.Context, key, operationID, message string) {
	s.set(ctx, key, operationID, LevelError, message)
}

// Info shows an informational message under key.
func (s *Sink) Info(ctx context.Context, key, operationID, message string) {
	s.set(ctx, key, operationID, LevelInfo, message)
}

// Get returns the notification currently displayed under key.
func (s *Sink) Get(key string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byKey[key]

	return n, ok
}

// Operation returns the latest notification of an operation.
func (s *Sink) Operation(operationID string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byOperation[operationID]

	return n, ok
}

// List returns the displayed notifications, newest first.
func (s *Sink) List() []Notification {
	s.mu.RLock()
	out := make([]Notification, 0, len(s.byKey))

	for _, n := range s.byKey {
		out = append(out, n)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Notification) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.Key, b.Key)
	})

	return out
}

func (s *Sink) set(ctx context.Context, key, operationID string, level Level, message string) {
	s.mu.Lock()
	s.setLocked(key, operationID, level, message)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "notification",
		"key", key,
		"operationID", operationID,
		"level", string(level),
		"message", message,
	)
}

func (s *Sink) setLocked(key, operationID string, level Level, message string) {
	n := Notification{
		Key:         key,
		OperationID: operationID,
		Level:       level,
		Message:     message,
		UpdatedAt:   s.now(),
	}

	s.byKey[key] = n

	if operationID == "" {
		return
	}

	if _, seen := s.byOperation[operationID]; !seen {
		s.order = append(s.order, operationID)
	}

	s.byOperation[operationID] = n

	for len(s.order) > s.historyLimit {
		delete(s.byOperation, s.order[0])
		s.order = s.order[1:]
	}
}
