// Package reputation derives per-wallet risk profiles from ledger history.
//
// A profile is computed from the sender's recent scored transactions:
//   - Average risk score across the history
//   - Flagged transactions (scores at or above the alert threshold)
//   - Share of malicious classifications
//   - Contract interaction ratio and transfer size, which drive tags
//
// Blocking is an overlay: a blocked wallet keeps its computed risk level and
// only its display level changes.
package reputation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/risk"
)

// RiskLevel is a wallet's risk bucket.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskBlocked RiskLevel = "blocked" // display only, never computed
)

// IsValid reports whether l is a known level, blocked included.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskBlocked:
		return true
	}
	return false
}

// Tags attached to wallet profiles.
const (
	TagDeFi        = "DeFi"
	TagHighVolume  = "High Volume"
	TagFlagged     = "Flagged"
	TagUnderReview = "Under Review"
)

// Wallet is the reputation row for one address
type Wallet struct {
	Address             string    `json:"address"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	Blocked             bool      `json:"blocked"`
	DisplayRiskLevel    RiskLevel `json:"displayRiskLevel"`
	TransactionCount    int       `json:"transactionCount"`
	AverageRiskScore    float64   `json:"averageRiskScore"` // 1 decimal place
	FlaggedTransactions int       `json:"flaggedTransactions"`
	LastActivity        int64     `json:"lastActivity"` // unix millis, 0 when idle
	Tags                []string  `json:"tags"`
}

// Thresholds tune the risk-level and tag rules
type Thresholds struct {
	High           float64         // average score for high risk
	Medium         float64         // average score for medium risk
	MaliciousShare float64         // malicious fraction that forces high risk
	Flagged        int             // per-transaction score that counts as flagged
	HighVolume     decimal.Decimal // transfer value that earns the High Volume tag
	DeFiShare      float64         // contract interaction fraction for the DeFi tag
}

// DefaultThresholds mirror the feed's classification and alert thresholds.
var DefaultThresholds = Thresholds{
	High:           risk.MaliciousThreshold,
	Medium:         risk.SuspiciousThreshold,
	MaliciousShare: 0.25,
	Flagged:        50,
	HighVolume:     decimal.NewFromInt(1000),
	DeFiShare:      0.5,
}

// Calculator computes wallet profiles
type Calculator struct {
	thresholds Thresholds
}

// NewCalculator creates a calculator with the default thresholds
func NewCalculator() *Calculator {
	return &Calculator{thresholds: DefaultThresholds}
}

// NewCalculatorWithThresholds creates a calculator with custom thresholds
func NewCalculatorWithThresholds(t Thresholds) *Calculator {
	return &Calculator{thresholds: t}
}

// Calculate builds the profile for address from its newest-first history.
func (c *Calculator) Calculate(address string, history []ledger.Entry, blocked bool) Wallet {
	w := Wallet{
		Address:          address,
		RiskLevel:        RiskLow,
		Blocked:          blocked,
		TransactionCount: len(history),
		Tags:             []string{},
	}

	if len(history) > 0 {
		var sum, malicious, contracts int
		highVolume := false
		for _, e := range history {
			sum += e.Analysis.RiskScore
			if e.Analysis.RiskScore >= c.thresholds.Flagged {
				w.FlaggedTransactions++
			}
			if e.Analysis.Classification == risk.ClassMalicious {
				malicious++
			}
			if e.ContractInteraction {
				contracts++
			}
			if e.Value.GreaterThan(c.thresholds.HighVolume) {
				highVolume = true
			}
			if e.Timestamp > w.LastActivity {
				w.LastActivity = e.Timestamp
			}
		}

		n := float64(len(history))
		avg := float64(sum) / n
		w.AverageRiskScore = math.Round(avg*10) / 10
		w.RiskLevel = c.level(avg, float64(malicious)/n)

		if float64(contracts)/n >= c.thresholds.DeFiShare {
			w.Tags = append(w.Tags, TagDeFi)
		}
		if highVolume {
			w.Tags = append(w.Tags, TagHighVolume)
		}
		if w.FlaggedTransactions > 0 {
			w.Tags = append(w.Tags, TagFlagged)
		}
		if malicious > 0 {
			w.Tags = append(w.Tags, TagUnderReview)
		}
	}

	w.DisplayRiskLevel = w.RiskLevel
	if blocked {
		w.DisplayRiskLevel = RiskBlocked
	}
	return w
}

func (c *Calculator) level(avg, maliciousShare float64) RiskLevel {
	switch {
	case avg >= c.thresholds.High || maliciousShare >= c.thresholds.MaliciousShare:
		return RiskHigh
	case avg >= c.thresholds.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}
