// Package ledger keeps the wallet state the feed accumulates: which
// addresses are blocked and the recent scored transactions each address sent.
//
// Blocking is an overlay. It never alters history, and history never alters
// the blocked set.
package ledger

import (
	"sort"
	"strings"
	"sync"

	"github.com/mbd888/andromeda/internal/metrics"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/txgen"
)

// DefaultMaxHistory is the per-address history cap.
const DefaultMaxHistory = 100

// Entry is a transaction paired with its analysis.
type Entry struct {
	txgen.Transaction
	Analysis risk.Analysis `json:"analysis"`
}

// Ledger tracks blocked addresses and per-sender history. Addresses compare
// case-insensitively; the form first seen is kept for display.
type Ledger struct {
	mu         sync.RWMutex
	blocked    map[string]string  // lower -> display form
	history    map[string][]Entry // lower -> newest first
	maxHistory int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		blocked:    make(map[string]string),
		history:    make(map[string][]Entry),
		maxHistory: DefaultMaxHistory,
	}
}

// WithMaxHistory overrides the per-address cap. Values below 1 become 1.
func (l *Ledger) WithMaxHistory(n int) *Ledger {
	if n < 1 {
		n = 1
	}
	l.maxHistory = n
	return l
}

func key(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// RecordTransaction prepends tx to its sender's history, dropping the oldest
// entries beyond the cap.
func (l *Ledger) RecordTransaction(tx txgen.Transaction, a risk.Analysis) {
	k := key(tx.From)

	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.history[k]
	n := len(prev) + 1
	if n > l.maxHistory {
		n = l.maxHistory
	}
	next := make([]Entry, 0, n)
	next = append(next, Entry{Transaction: tx, Analysis: a})
	next = append(next, prev[:n-1]...)
	l.history[k] = next
}

// Block adds addr to the blocked set and reports whether it was newly
// blocked. Blocking twice is a no-op that returns false.
func (l *Ledger) Block(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(addr)
	if _, ok := l.blocked[k]; ok {
		return false
	}
	l.blocked[k] = strings.TrimSpace(addr)
	metrics.BlockedWallets.Set(float64(len(l.blocked)))
	return true
}

// Unblock removes addr from the blocked set and reports whether it was
// blocked. Unknown addresses are ignored.
func (l *Ledger) Unblock(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(addr)
	if _, ok := l.blocked[k]; !ok {
		return false
	}
	delete(l.blocked, k)
	metrics.BlockedWallets.Set(float64(len(l.blocked)))
	return true
}

// IsBlocked reports whether addr is blocked.
func (l *Ledger) IsBlocked(addr string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.blocked[key(addr)]
	return ok
}

// Blocked returns the blocked addresses, sorted.
func (l *Ledger) Blocked() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.blocked))
	for _, display := range l.blocked {
		out = append(out, display)
	}
	sort.Strings(out)
	return out
}

// History returns addr's entries newest first. Unknown addresses yield an
// empty slice. The result is a copy.
func (l *Ledger) History(addr string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	h := l.history[key(addr)]
	out := make([]Entry, len(h))
	copy(out, h)
	return out
}

// Addresses returns every sender with recorded history, sorted.
func (l *Ledger) Addresses() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.history))
	for _, entries := range l.history {
		if len(entries) > 0 {
			out = append(out, entries[0].From)
		}
	}
	sort.Strings(out)
	return out
}
