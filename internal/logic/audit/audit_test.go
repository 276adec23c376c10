package audit_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/memstore"
	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/audit/mocks"
)

func TestLog_Record(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("appends entry with default user", func(t *testing.T) {
		t.Parallel()

		log := audit.New(logger, memstore.New(), audit.DefaultCapacity)

		entry, err := log.Record(t.Context(), audit.ActionRestartService, "payment-gateway",
			"Service restarted successfully. Reason: deploy", "")
		require.NoError(t, err)
		require.Equal(t, audit.DefaultUser, entry.User)
		require.Equal(t, audit.ActionRestartService, entry.Action)
		require.NotEmpty(t, entry.Timestamp)

		entries, err := log.List(t.Context())
		require.NoError(t, err)
		require.Equal(t, []audit.Entry{entry}, entries)
	})

	t.Run("keeps only the newest entries", func(t *testing.T) {
		t.Parallel()

		log := audit.New(logger, memstore.New(), 3)

		for i := range 5 {
			_, err := log.Record(t.Context(), audit.ActionDeletePod, fmt.Sprintf("pod-%d", i), "", "alice")
			require.NoError(t, err)
		}

		entries, err := log.List(t.Context())
		require.NoError(t, err)
		require.Len(t, entries, 3)
		require.Equal(t, "pod-2", entries[0].Target)
		require.Equal(t, "pod-4", entries[2].Target)
	})

	t.Run("update error is returned", func(t *testing.T) {
		t.Parallel()

		repo := mocks.NewMockRepository(t)
		repo.EXPECT().Update(mock.Anything, mock.Anything).Return(context.DeadlineExceeded).Once()

		log := audit.New(logger, repo, audit.DefaultCapacity)

		_, err := log.Record(t.Context(), audit.ActionStopService, "svc", "", "")
		require.ErrorIs(t, err, audit.ErrSave)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("appends to the entries stored at update time", func(t *testing.T) {
		t.Parallel()

		stored := []audit.Entry{{Target: "a"}, {Target: "b"}}

		var written []audit.Entry

		repo := mocks.NewMockRepository(t)
		repo.EXPECT().
			Update(mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, apply func([]audit.Entry) []audit.Entry) error {
				written = apply(stored)

				return nil
			}).
			Once()

		log := audit.New(logger, repo, 2)

		_, err := log.Record(t.Context(), audit.ActionStopService, "svc", "", "")
		require.NoError(t, err)
		require.Len(t, written, 2)
		require.Equal(t, "b", written[0].Target)
		require.Equal(t, "svc", written[1].Target)
	})
}

func TestLog_Clear(t *testing.T) {
	t.Parallel()

	log := audit.New(slog.Default(), memstore.New(), 0)

	_, err := log.Record(t.Context(), audit.ActionViewLogs, "pod-a", "", "")
	require.NoError(t, err)
	require.NoError(t, log.Clear(t.Context()))

	entries, err := log.List(t.Context())
	require.NoError(t, err)
	require.Empty(t, entries)
	require.NotNil(t, entries)
}

func TestLog_Ping(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	log := audit.New(slog.Default(), repo, 0)

	require.Error(t, log.Ping(t.Context()))
	require.Equal(t, "audit-log", log.Name())
}
