package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/badgerstore"
	"github.com/skillcoder/coreportal/internal/adapters/outbound/filestore"
	"github.com/skillcoder/coreportal/internal/adapters/outbound/memstore"
	"github.com/skillcoder/coreportal/internal/config"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/logic/audit"
)

// AuditStore is the audit repository selected by configuration, together with the
// hooks the application uses to monitor and close it.
type AuditStore struct {
	Repository audit.Repository
	// Pinger is nil for backends without a health check.
	Pinger pinger.Pinger
	close  func(ctx context.Context) error
}

// Close releases the backend.
func (s *AuditStore) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}

	return s.close(ctx)
}

// OpenAuditStore opens the audit backend named by cfg.AuditBackend.
func OpenAuditStore(logger *slog.Logger, cfg *config.Config) (*AuditStore, error) {
	switch cfg.AuditBackend {
	case config.AuditBackendBadger:
		store, err := badgerstore.Open(logger, badgerstore.Config{Path: cfg.AuditPath})
		if err != nil {
			return nil, fmt.Errorf("open badger audit store: %w", err)
		}

		return &AuditStore{Repository: store, Pinger: store, close: store.Shutdown}, nil
	case config.AuditBackendFile:
		store, err := filestore.New(logger, cfg.AuditPath)
		if err != nil {
			return nil, fmt.Errorf("open file audit store: %w", err)
		}

		return &AuditStore{Repository: store, Pinger: store}, nil
	case config.AuditBackendMemory:
		return &AuditStore{Repository: memstore.New()}, nil
	default:
		return nil, fmt.Errorf("%w: audit backend %q", config.ErrInvalidConfig, cfg.AuditBackend)
	}
}

// OpenAuditLog opens the configured backend and wraps it in an audit log.
func OpenAuditLog(logger *slog.Logger, cfg *config.Config) (*audit.Log, *AuditStore, error) {
	store, err := OpenAuditStore(logger, cfg)
	if err != nil {
		return nil, nil, err
	}

	return audit.New(logger, store.Repository, cfg.AuditCapacity), store, nil
}
