package reputation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Snapshot is a point-in-time wallet profile kept for trend views.
type Snapshot struct {
	ID                  int       `json:"id"`
	Address             string    `json:"address"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	Blocked             bool      `json:"blocked"`
	TransactionCount    int       `json:"transactionCount"`
	AverageRiskScore    float64   `json:"averageRiskScore"`
	FlaggedTransactions int       `json:"flaggedTransactions"`
	CreatedAt           time.Time `json:"createdAt"`
}

// SnapshotFromWallet creates a Snapshot from a computed profile.
func SnapshotFromWallet(w Wallet, at time.Time) *Snapshot {
	return &Snapshot{
		Address:             w.Address,
		RiskLevel:           w.RiskLevel,
		Blocked:             w.Blocked,
		TransactionCount:    w.TransactionCount,
		AverageRiskScore:    w.AverageRiskScore,
		FlaggedTransactions: w.FlaggedTransactions,
		CreatedAt:           at,
	}
}

// HistoryQuery holds query parameters for historical snapshots.
type HistoryQuery struct {
	Address string
	From    time.Time
	To      time.Time
	Limit   int
}

// SnapshotStore keeps reputation snapshots.
type SnapshotStore interface {
	// SaveBatch stores multiple snapshots in one call.
	SaveBatch(ctx context.Context, snaps []*Snapshot) error

	// Query returns snapshots matching the query, newest first.
	Query(ctx context.Context, q HistoryQuery) ([]*Snapshot, error)
}

// MemorySnapshotStore implements SnapshotStore in memory. Each address keeps
// at most maxPerAddress snapshots.
type MemorySnapshotStore struct {
	mu            sync.RWMutex
	snapshots     map[string][]*Snapshot // lower address -> oldest first
	nextID        int
	maxPerAddress int
}

// DefaultMaxSnapshots is the per-address retention of MemorySnapshotStore.
const DefaultMaxSnapshots = 500

// NewMemorySnapshotStore creates an in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots:     make(map[string][]*Snapshot),
		nextID:        1,
		maxPerAddress: DefaultMaxSnapshots,
	}
}

// Compile-time interface check
var _ SnapshotStore = (*MemorySnapshotStore)(nil)

func (m *MemorySnapshotStore) SaveBatch(_ context.Context, snaps []*Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, snap := range snaps {
		snap.ID = m.nextID
		m.nextID++
		if snap.CreatedAt.IsZero() {
			snap.CreatedAt = time.Now()
		}
		k := strings.ToLower(snap.Address)
		list := append(m.snapshots[k], snap)
		if len(list) > m.maxPerAddress {
			list = list[len(list)-m.maxPerAddress:]
		}
		m.snapshots[k] = list
	}
	return nil
}

func (m *MemorySnapshotStore) Query(_ context.Context, q HistoryQuery) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*Snapshot, 0)
	for _, s := range m.snapshots[strings.ToLower(q.Address)] {
		if !q.From.IsZero() && s.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && s.CreatedAt.After(q.To) {
			continue
		}
		cp := *s
		results = append(results, &cp)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
