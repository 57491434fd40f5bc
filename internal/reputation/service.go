package reputation

import (
	"sort"
	"strings"

	"github.com/mbd888/andromeda/internal/ledger"
)

// HistorySource supplies the wallet state profiles are computed from.
// *ledger.Ledger implements it.
type HistorySource interface {
	History(addr string) []ledger.Entry
	IsBlocked(addr string) bool
	Addresses() []string
}

// Filter narrows a wallet listing. Zero values match everything.
type Filter struct {
	Search    string    // case-insensitive address substring
	RiskLevel RiskLevel // matched against the display level
}

// Service lists profiles for every known wallet
type Service struct {
	source     HistorySource
	calculator *Calculator
	pool       []string
}

// NewService creates a reputation service. pool lists addresses that are
// always shown, even before they have history.
func NewService(source HistorySource, calc *Calculator, pool []string) *Service {
	return &Service{source: source, calculator: calc, pool: pool}
}

// Get returns the profile for addr. Unknown addresses yield an empty profile.
func (s *Service) Get(addr string) Wallet {
	return s.calculator.Calculate(addr, s.source.History(addr), s.source.IsBlocked(addr))
}

// Known returns the pool plus every address with history, deduplicated
// case-insensitively and sorted.
func (s *Service) Known() []string {
	seen := make(map[string]string)
	for _, a := range s.pool {
		seen[strings.ToLower(a)] = a
	}
	for _, a := range s.source.Addresses() {
		if _, ok := seen[strings.ToLower(a)]; !ok {
			seen[strings.ToLower(a)] = a
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// List returns one profile per known address matching f.
func (s *Service) List(f Filter) []Wallet {
	search := strings.ToLower(f.Search)
	out := make([]Wallet, 0)
	for _, addr := range s.Known() {
		if search != "" && !strings.Contains(strings.ToLower(addr), search) {
			continue
		}
		w := s.Get(addr)
		if f.RiskLevel != "" && w.DisplayRiskLevel != f.RiskLevel {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Counts tallies wallets per display level. Every level is present.
func Counts(wallets []Wallet) map[RiskLevel]int {
	counts := map[RiskLevel]int{
		RiskLow:     0,
		RiskMedium:  0,
		RiskHigh:    0,
		RiskBlocked: 0,
	}
	for _, w := range wallets {
		counts[w.DisplayRiskLevel]++
	}
	return counts
}
