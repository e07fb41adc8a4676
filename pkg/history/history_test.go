package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string, startedAt time.Time) Record {
	return Record{
		ID:            id,
		StartedAt:     startedAt,
		FinishedAt:    startedAt.Add(2 * time.Minute),
		TotalTests:    40,
		Passed:        38,
		Failed:        1,
		Errors:        1,
		PassRate:      "95.00%",
		AvgDurationMS: 112.5,
		Verdict:       "failed",
	}
}

func TestOpen(t *testing.T) {
	t.Run("enables WAL mode", func(t *testing.T) {
		store := openTestStore(t)

		var journalMode string
		err := store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", strings.ToLower(journalMode))
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deep", "nested", "history.db")
		store, err := Open(context.Background(), path)
		require.NoError(t, err)
		store.Close()
	})
}

func TestRecordAndQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.RecordRun(ctx, sampleRecord(id, base.Add(time.Duration(i)*time.Hour))))
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := store.RecentRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-1", runs[2].ID)
	})

	t.Run("limit is honored", func(t *testing.T) {
		runs, err := store.RecentRuns(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("fields round trip", func(t *testing.T) {
		runs, err := store.RecentRuns(ctx, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)

		r := runs[0]
		assert.Equal(t, 40, r.TotalTests)
		assert.Equal(t, 38, r.Passed)
		assert.Equal(t, "95.00%", r.PassRate)
		assert.Equal(t, 112.5, r.AvgDurationMS)
		assert.Equal(t, "failed", r.Verdict)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := store.RecordRun(ctx, sampleRecord("run-1", base))
		assert.Error(t, err)
	})
}
