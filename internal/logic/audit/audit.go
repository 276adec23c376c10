package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
)

// Log is the capped, append-only audit log.
type Log struct {
	logger   *slog.Logger
	repo     Repository
	capacity int
	now      func() time.Time
	mu       sync.Mutex
}

// New creates an audit log retaining the newest capacity entries.
func New(
	logger *slog.Logger,
	repo Repository,
	capacity int,
) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Log{
		logger:   logger.With("component", "audit-log"),
		repo:     repo,
		capacity: capacity,
		now:      time.Now,
	}
}

// Name returns the name of the audit log component.
func (l *Log) Name() string {
	return "audit-log"
}

// Ping checks the backing repository is readable.
func (l *Log) Ping(ctx context.Context) error {
	if _, err := l.repo.Load(ctx); err != nil {
		return fmt.Errorf("ping audit log: %w", err)
	}

	return nil
}

// Record appends an entry and trims the log to capacity.
func (l *Log) Record(
	ctx context.Context,
	action Action,
	target,
	details,
	user string,
) (Entry, error) {
	if user == "" {
		user = DefaultUser
	}

	entry := Entry{
		Timestamp: FormatTimestamp(l.now()),
		Action:    action,
		Target:    target,
		Details:   details,
		User:      user,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var retained int

	err := l.repo.Update(ctx, func(entries []Entry) []Entry {
		entries = append(entries, entry)
		if len(entries) > l.capacity {
			entries = entries[len(entries)-l.capacity:]
		}

		retained = len(entries)

		return entries
	})
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrSave, err)
	}

	metrics.SetAuditEntries(retained)

	l.logger.InfoContext(ctx, "k8s operation",
		"action", string(action),
		"target", target,
		"details", details,
		"user", user,
	)

	return entry, nil
}

// List returns the retained entries, oldest first.
func (l *Log) List(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// Clear removes every entry.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrClear, err)
	}

	metrics.SetAuditEntries(0)
	l.logger.InfoContext(ctx, "audit log cleared")

	return nil
}
