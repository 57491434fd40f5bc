package risk

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func atHour(h int) int64 {
	return time.Date(2024, 3, 1, h, 0, 0, 0, time.UTC).UnixMilli()
}

func TestExplain_NoFactors(t *testing.T) {
	tx := plainTx()
	tx.Timestamp = atHour(12)

	b := Explain(tx, Analysis{RiskScore: 12, Confidence: 72})
	assert.Empty(t, b.Factors)
	assert.Zero(t, b.Total)
	assert.Equal(t, "Medium", b.ConfidenceLevel)
}

func TestExplain_AllFactorsCapped(t *testing.T) {
	tx := plainTx()
	tx.Value = decimal.NewFromInt(7000)
	tx.GasUsed = 400000
	tx.ContractInteraction = true
	tx.Timestamp = atHour(3)

	a := Analysis{RiskScore: 88, Confidence: 95, DetectedPatterns: []string{"Flash loan attack", "MEV exploitation"}}
	b := Explain(tx, a)

	names := make([]string, 0, len(b.Factors))
	for _, f := range b.Factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"High Transaction Value",
		"Unusual Gas Usage",
		"Smart Contract Interaction",
		"Detected Pattern: Flash loan attack",
		"Detected Pattern: MEV exploitation",
		"Off-Hours Activity",
	}, names)
	assert.Equal(t, 100, b.Total)
	assert.Equal(t, "Very High", b.ConfidenceLevel)
	assert.Contains(t, b.Factors[0].Description, "7000.00 ETH")
}

func TestExplain_MediumValue(t *testing.T) {
	tx := plainTx()
	tx.Value = decimal.NewFromInt(500)
	tx.Timestamp = atHour(23)

	b := Explain(tx, Analysis{Confidence: 80})
	assert.Len(t, b.Factors, 2)
	assert.Equal(t, "Medium Transaction Value", b.Factors[0].Name)
	assert.Equal(t, 15, b.Total)
	assert.Equal(t, "High", b.ConfidenceLevel)
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, "Very High", ConfidenceLevel(90.5))
	assert.Equal(t, "High", ConfidenceLevel(90))
	assert.Equal(t, "Medium", ConfidenceLevel(75))
	assert.Equal(t, "Low", ConfidenceLevel(60))
}
