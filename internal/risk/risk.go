// Package risk scores synthetic transactions.
//
// Scores are pseudo-random draws biased by three observable traits of a
// transaction: a value above 1000, gas above 150000 and contract interaction.
// Scores range from 0 (safe) to 100 (malicious). No model is consulted; the
// "model predictions" are decorative.
package risk

// Classification buckets a risk score.
type Classification string

const (
	ClassNormal     Classification = "normal"
	ClassSuspicious Classification = "suspicious"
	ClassMalicious  Classification = "malicious"
)

// Score thresholds.
const (
	SuspiciousThreshold = 30 // scores at or above are suspicious
	MaliciousThreshold  = 70 // scores at or above are malicious
	PatternThreshold    = 50 // scores above draw attack patterns
)

// Patterns is the attack-pattern vocabulary.
var Patterns = []string{
	"Flash loan attack",
	"Rug pull detected",
	"Sandwich attack",
	"MEV exploitation",
	"Unusual gas pattern",
	"High frequency trading",
	"Pump and dump",
	"Sybil attack pattern",
}

// ModelPredictions holds the three decorative per-model outputs.
type ModelPredictions struct {
	Supervised float64 `json:"supervised"`
	Anomaly    float64 `json:"anomaly"`
	LSTM       float64 `json:"lstm"`
}

// Analysis is the scorer's verdict on one transaction.
type Analysis struct {
	RiskScore        int              `json:"riskScore"`
	Classification   Classification   `json:"classification"`
	Confidence       float64          `json:"confidence"`
	DetectedPatterns []string         `json:"detectedPatterns"`
	ModelPredictions ModelPredictions `json:"modelPredictions"`
}

// Classify maps a score onto its classification.
func Classify(score int) Classification {
	switch {
	case score < SuspiciousThreshold:
		return ClassNormal
	case score < MaliciousThreshold:
		return ClassSuspicious
	default:
		return ClassMalicious
	}
}

// IsValid reports whether c is one of the known classifications.
func (c Classification) IsValid() bool {
	switch c {
	case ClassNormal, ClassSuspicious, ClassMalicious:
		return true
	}
	return false
}
