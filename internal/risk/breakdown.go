package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mbd888/andromeda/internal/txgen"
)

// Factor is one contributor in a risk breakdown.
type Factor struct {
	Name        string `json:"factor"`
	Impact      int    `json:"impact"`
	Description string `json:"description"`
}

// Breakdown explains an analysis in terms of observable factors.
type Breakdown struct {
	TransactionID   string           `json:"transactionId"`
	RiskScore       int              `json:"riskScore"`
	Factors         []Factor         `json:"factors"`
	Total           int              `json:"total"`
	ConfidenceLevel string           `json:"confidenceLevel"`
	Models          ModelPredictions `json:"modelPredictions"`
}

var mediumValue = decimal.NewFromInt(100)

// Explain lists the factors behind an analysis. The factor total is a
// presentation aid capped at 100 and is independent of RiskScore.
func Explain(tx txgen.Transaction, a Analysis) Breakdown {
	var factors []Factor

	switch {
	case tx.Value.GreaterThan(highValue):
		factors = append(factors, Factor{
			Name:        "High Transaction Value",
			Impact:      25,
			Description: fmt.Sprintf("Transaction value of %s ETH is significantly above average", tx.Value.StringFixed(2)),
		})
	case tx.Value.GreaterThan(mediumValue):
		factors = append(factors, Factor{
			Name:        "Medium Transaction Value",
			Impact:      10,
			Description: fmt.Sprintf("Transaction value of %s ETH is above average", tx.Value.StringFixed(2)),
		})
	}

	if tx.GasUsed > 200000 {
		factors = append(factors, Factor{
			Name:        "Unusual Gas Usage",
			Impact:      20,
			Description: fmt.Sprintf("Gas usage of %d is unusually high, suggesting complex operations", tx.GasUsed),
		})
	}

	if tx.ContractInteraction {
		factors = append(factors, Factor{
			Name:        "Smart Contract Interaction",
			Impact:      15,
			Description: "Transaction involves smart contract execution, increasing complexity and risk",
		})
	}

	for _, p := range a.DetectedPatterns {
		factors = append(factors, Factor{
			Name:        "Detected Pattern: " + p,
			Impact:      30,
			Description: "AI models identified suspicious pattern: " + p,
		})
	}

	if hour := tx.Time().UTC().Hour(); hour < 6 || hour > 22 {
		factors = append(factors, Factor{
			Name:        "Off-Hours Activity",
			Impact:      5,
			Description: "Transaction occurred during typical low-activity hours",
		})
	}

	total := 0
	for _, f := range factors {
		total += f.Impact
	}
	if total > 100 {
		total = 100
	}
	if factors == nil {
		factors = []Factor{}
	}

	return Breakdown{
		TransactionID:   tx.ID,
		RiskScore:       a.RiskScore,
		Factors:         factors,
		Total:           total,
		ConfidenceLevel: ConfidenceLevel(a.Confidence),
		Models:          a.ModelPredictions,
	}
}

// ConfidenceLevel labels a confidence percentage.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence > 90:
		return "Very High"
	case confidence > 75:
		return "High"
	case confidence > 60:
		return "Medium"
	default:
		return "Low"
	}
}
