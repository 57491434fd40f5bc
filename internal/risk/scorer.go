package risk

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/txgen"
)

// Score contributions.
const (
	BaseRiskMax         = 30
	HighValueBoost      = 20
	HighGasBoost        = 15
	ContractBoost       = 10
	NoiseSpread         = 20 // noise is uniform in [-10,10)
	HighValueThreshold  = 1000
	HighGasThreshold    = 150000
	MinConfidence       = 70
	MaxConfidence       = 100
	MaxPatternsPerScore = 3
)

var highValue = decimal.NewFromInt(HighValueThreshold)

// Scorer turns transactions into analyses. It never fails.
type Scorer struct {
	src rng.Source
}

// NewScorer creates a scorer drawing from src.
func NewScorer(src rng.Source) *Scorer {
	return &Scorer{src: src}
}

// Score analyses tx. Draw order is fixed: base, noise, patterns (only when
// the score is above PatternThreshold), confidence, then the three model
// predictions.
func (s *Scorer) Score(tx txgen.Transaction) Analysis {
	raw := rng.Uniform(s.src, 0, BaseRiskMax)
	if tx.Value.GreaterThan(highValue) {
		raw += HighValueBoost
	}
	if tx.GasUsed > HighGasThreshold {
		raw += HighGasBoost
	}
	if tx.ContractInteraction {
		raw += ContractBoost
	}
	raw += (s.src.Float64() - 0.5) * NoiseSpread

	score := int(math.Round(math.Min(math.Max(raw, 0), 100)))

	patterns := []string{}
	if score > PatternThreshold {
		n := s.src.Intn(MaxPatternsPerScore) + 1
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			p := rng.Pick(s.src, Patterns)
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
	}

	return Analysis{
		RiskScore:        score,
		Classification:   Classify(score),
		Confidence:       rng.Uniform(s.src, MinConfidence, MaxConfidence),
		DetectedPatterns: patterns,
		ModelPredictions: ModelPredictions{
			Supervised: rng.Uniform(s.src, 0, 100),
			Anomaly:    rng.Uniform(s.src, 0, 100),
			LSTM:       rng.Uniform(s.src, 0, 100),
		},
	}
}
