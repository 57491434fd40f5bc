package reputation

import (
	"context"
	"log/slog"
	"time"
)

// Worker periodically snapshots the profile of every active wallet.
type Worker struct {
	service  *Service
	store    SnapshotStore
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewWorker creates a reputation snapshot worker.
func NewWorker(service *Service, store SnapshotStore, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		service:  service,
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Start runs the snapshot loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Snapshot(ctx)
		}
	}
}

// Snapshot records one snapshot per wallet with history.
func (w *Worker) Snapshot(ctx context.Context) {
	at := w.now()
	var snaps []*Snapshot
	for _, wallet := range w.service.List(Filter{}) {
		if wallet.TransactionCount == 0 {
			continue
		}
		snaps = append(snaps, SnapshotFromWallet(wallet, at))
	}
	if len(snaps) == 0 {
		return
	}

	if err := w.store.SaveBatch(ctx, snaps); err != nil {
		w.logger.Warn("reputation snapshot failed to save", "error", err, "count", len(snaps))
		return
	}
	w.logger.Debug("reputation snapshot completed", "wallets", len(snaps))
}
