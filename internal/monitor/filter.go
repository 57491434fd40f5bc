package monitor

import (
	"strconv"
	"strings"

	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/risk"
)

// RiskBand is a coarse risk-score range used for filtering.
type RiskBand string

const (
	BandLow    RiskBand = "low"    // < 30
	BandMedium RiskBand = "medium" // 30-69
	BandHigh   RiskBand = "high"   // >= 70
)

// IsValid reports whether b is a known band.
func (b RiskBand) IsValid() bool {
	switch b {
	case BandLow, BandMedium, BandHigh:
		return true
	}
	return false
}

// Contains reports whether score falls inside the band.
func (b RiskBand) Contains(score int) bool {
	switch b {
	case BandLow:
		return score < risk.SuspiciousThreshold
	case BandMedium:
		return score >= risk.SuspiciousThreshold && score < risk.MaliciousThreshold
	case BandHigh:
		return score >= risk.MaliciousThreshold
	}
	return true
}

// Filter narrows the feed. Zero values match everything.
type Filter struct {
	Search         string // hash, from, to or block number substring
	Band           RiskBand
	Classification risk.Classification
	MinGas         uint64 // gasUsed must be strictly greater
	Pattern        string // detected pattern substring
	Limit          int
}

// Matches reports whether e passes every set criterion.
func (f Filter) Matches(e ledger.Entry) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Hash), term) &&
			!strings.Contains(strings.ToLower(e.From), term) &&
			!strings.Contains(strings.ToLower(e.To), term) &&
			!strings.Contains(strconv.FormatUint(e.BlockNumber, 10), f.Search) {
			return false
		}
	}
	if f.Band != "" && !f.Band.Contains(e.Analysis.RiskScore) {
		return false
	}
	if f.Classification != "" && e.Analysis.Classification != f.Classification {
		return false
	}
	if f.MinGas > 0 && e.GasUsed <= f.MinGas {
		return false
	}
	if f.Pattern != "" {
		term := strings.ToLower(f.Pattern)
		found := false
		for _, p := range e.Analysis.DetectedPatterns {
			if strings.Contains(strings.ToLower(p), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
