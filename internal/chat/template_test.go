package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UnknownPlaceholder(t *testing.T) {
	_, err := Parse("Blocked {maliciousBlocked} of {totalTxns}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPlaceholder))
	assert.Contains(t, err.Error(), "{totalTxns}")
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("{nope}") })
	assert.NotPanics(t, func() { MustParse("{riskLevel}") })
}

func TestRender_EveryOccurrence(t *testing.T) {
	tmpl := MustParse("{maliciousBlocked} blocked. Again: {maliciousBlocked}!")
	out := tmpl.Render(map[Placeholder]string{MaliciousBlocked: "7"})
	assert.Equal(t, "7 blocked. Again: 7!", out)
	assert.Equal(t, []Placeholder{MaliciousBlocked, MaliciousBlocked}, tmpl.Placeholders())
}

func TestRender_LiteralBraces(t *testing.T) {
	tmpl := MustParse("open { only")
	assert.Equal(t, "open { only", tmpl.Render(nil))
	assert.Empty(t, tmpl.Placeholders())
}

func TestStatsValues(t *testing.T) {
	v := Stats{TotalTransactions: 200, MaliciousBlocked: 15, AverageRiskScore: 42, ActiveAlerts: 3}.Values()
	assert.Equal(t, "200", v[TotalTransactions])
	assert.Equal(t, "15", v[MaliciousBlocked])
	assert.Equal(t, "42", v[AverageRiskScore])
	assert.Equal(t, "3", v[ActiveAlerts])
	assert.Equal(t, "7.5", v[RiskPercentage])
	assert.Equal(t, "185", v[SafeTransactions])
	assert.Equal(t, "Medium 🟡", v[RiskLevel])

	empty := Stats{}.Values()
	assert.Equal(t, "0", empty[RiskPercentage])
	assert.Equal(t, "Low 🟢", empty[RiskLevel])
}

func TestRiskLevelLabel(t *testing.T) {
	assert.Equal(t, "Low 🟢", riskLevelLabel(29))
	assert.Equal(t, "Medium 🟡", riskLevelLabel(30))
	assert.Equal(t, "Medium 🟡", riskLevelLabel(69))
	assert.Equal(t, "High 🔴", riskLevelLabel(70))
}

func TestBuiltInTemplates(t *testing.T) {
	for _, intent := range Intents() {
		require.NotEmpty(t, intent.Responses, intent.Name)
		for _, tmpl := range intent.Responses {
			if !intent.RequiresData {
				assert.Empty(t, tmpl.Placeholders(), "%s has placeholders but no data", intent.Name)
				continue
			}
			rendered := tmpl.Render(Stats{TotalTransactions: 1}.Values())
			assert.False(t, strings.Contains(rendered, "{"), "%s left a placeholder", intent.Name)
		}
	}
}
