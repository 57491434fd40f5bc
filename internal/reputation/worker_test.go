package reputation

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/txgen"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestWorkerSnapshot_OnlyActiveWallets(t *testing.T) {
	store := NewMemorySnapshotStore()
	service := NewService(seededLedger(), NewCalculator(), txgen.Pool)
	worker := NewWorker(service, store, time.Hour, testLogger())

	worker.Snapshot(context.Background())

	snaps, err := store.Query(context.Background(), HistoryQuery{Address: txgen.Pool[0]})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, RiskHigh, snaps[0].RiskLevel)
	assert.Equal(t, 2, snaps[0].TransactionCount)

	snaps, err = store.Query(context.Background(), HistoryQuery{Address: txgen.Pool[2]})
	require.NoError(t, err)
	assert.Empty(t, snaps, "blocked wallet without history is not snapshotted")
}

func TestWorkerStart_StopsOnCancel(t *testing.T) {
	store := NewMemorySnapshotStore()
	service := NewService(seededLedger(), NewCalculator(), txgen.Pool)
	worker := NewWorker(service, store, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		snaps, _ := store.Query(context.Background(), HistoryQuery{Address: txgen.Pool[0]})
		return len(snaps) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestMemorySnapshotStore_QueryWindowAndRetention(t *testing.T) {
	store := NewMemorySnapshotStore()
	store.maxPerAddress = 3
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var snaps []*Snapshot
	for i := 0; i < 5; i++ {
		snaps = append(snaps, &Snapshot{Address: txgen.Pool[0], TransactionCount: i, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	require.NoError(t, store.SaveBatch(context.Background(), snaps))

	all, err := store.Query(context.Background(), HistoryQuery{Address: txgen.Pool[0]})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 4, all[0].TransactionCount)
	assert.Equal(t, 2, all[2].TransactionCount)

	windowed, err := store.Query(context.Background(), HistoryQuery{
		Address: txgen.Pool[0],
		From:    base.Add(3 * time.Hour),
		To:      base.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, 3, windowed[0].TransactionCount)
}
