package badgerstore_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/badgerstore"
	"github.com/skillcoder/coreportal/internal/logic/audit"
)

func entries() []audit.Entry {
	return []audit.Entry{
		{
			Timestamp: "2025-01-15T10:30:00.000Z",
			Action:    audit.ActionRestartService,
			Target:    "payment-gateway",
			Details:   "Service restarted successfully. Reason: hotfix",
			User:      audit.DefaultUser,
		},
		{
			Timestamp: "2025-01-15T10:31:00.000Z",
			Action:    audit.ActionViewLogs,
			Target:    "payment-gateway-7f8d9c5b6-abc12",
			User:      "alice",
		},
	}
}

func TestStore_InMemory(t *testing.T) {
	t.Parallel()

	store, err := badgerstore.Open(slog.New(slog.DiscardHandler), badgerstore.Config{InMemory: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Shutdown(t.Context()) })

	got, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, store.Update(t.Context(), replaceWith(entries())))

	got, err = store.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, entries(), got)

	require.NoError(t, store.Clear(t.Context()))

	got, err = store.Load(t.Context())
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, store.Ping(t.Context()))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	cfg := badgerstore.Config{Path: t.TempDir()}

	store, err := badgerstore.Open(logger, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Update(t.Context(), replaceWith(entries())))
	require.NoError(t, store.Shutdown(t.Context()))
	require.Error(t, store.Ping(t.Context()))

	reopened, err := badgerstore.Open(logger, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = reopened.Shutdown(t.Context()) })

	got, err := reopened.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, entries(), got)
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := badgerstore.Open(slog.New(slog.DiscardHandler), badgerstore.Config{})
	require.ErrorIs(t, err, badgerstore.ErrPathRequired)
}

func replaceWith(entries []audit.Entry) func([]audit.Entry) []audit.Entry {
	return func([]audit.Entry) []audit.Entry {
		return entries
	}
}
