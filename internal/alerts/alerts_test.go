package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/txgen"
)

var fixedNow = func() time.Time { return time.UnixMilli(1700000000000) }

func sampleTx() txgen.Transaction {
	return txgen.Transaction{ID: "tx_1700000000000_abcdefghi", From: txgen.Pool[3], To: txgen.Pool[4]}
}

func TestEmit_BelowThreshold(t *testing.T) {
	e := NewEmitter(rng.NewSequence(0.5))
	for _, score := range []int{0, 30, 49} {
		alert, ok := e.Emit(sampleTx(), risk.Analysis{RiskScore: score, Classification: risk.Classify(score)})
		assert.False(t, ok, "score %d", score)
		assert.Nil(t, alert)
	}
}

func TestEmit_AtThreshold(t *testing.T) {
	e := NewEmitter(rng.NewSequence(0.0, 0.99)).WithClock(fixedNow)
	a := risk.Analysis{RiskScore: 50, Classification: risk.ClassSuspicious}

	alert, ok := e.Emit(sampleTx(), a)
	require.True(t, ok)
	assert.Equal(t, TypeHighRisk, alert.Type)
	assert.Equal(t, SeverityCritical, alert.Severity)
	assert.Equal(t, StatusActive, alert.Status)
	assert.Equal(t, "SUSPICIOUS: Suspicious activity detected", alert.Message)
	assert.Equal(t, sampleTx().ID, alert.TransactionID)
	assert.Equal(t, txgen.Pool[3], alert.WalletAddress)
	assert.Equal(t, int64(1700000000000), alert.Timestamp)
	assert.Regexp(t, `^alert_1700000000000_[0-9a-z]{6}$`, alert.ID)
}

func TestEmit_MessageUsesFirstPattern(t *testing.T) {
	e := NewEmitter(rng.NewSequence(0.5))
	a := risk.Analysis{RiskScore: 91, Classification: risk.ClassMalicious, DetectedPatterns: []string{"Rug pull detected", "Pump and dump"}}

	alert, ok := e.Emit(sampleTx(), a)
	require.True(t, ok)
	assert.Equal(t, "MALICIOUS: Rug pull detected", alert.Message)
	assert.NotEqual(t, SeverityLow, alert.Severity)
}

func TestEmit_NeverLowSeverity(t *testing.T) {
	e := NewEmitter(rng.New(rng.Deterministic, 4).Stream("alerts"))
	seen := map[Severity]bool{}
	for i := 0; i < 300; i++ {
		alert, ok := e.Emit(sampleTx(), risk.Analysis{RiskScore: 75, Classification: risk.ClassMalicious})
		require.True(t, ok)
		seen[alert.Severity] = true
	}
	assert.False(t, seen[SeverityLow])
	assert.Len(t, seen, 3)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusInvestigating, true},
		{StatusActive, StatusFalsePositive, true},
		{StatusActive, StatusResolved, false},
		{StatusInvestigating, StatusResolved, true},
		{StatusInvestigating, StatusFalsePositive, true},
		{StatusInvestigating, StatusActive, false},
		{StatusResolved, StatusActive, false},
		{StatusResolved, StatusInvestigating, false},
		{StatusFalsePositive, StatusActive, false},
		{StatusFalsePositive, StatusResolved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusFalsePositive.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Add(ctx, &Alert{ID: "a1", WalletAddress: "0xAbC", Severity: SeverityHigh, Status: StatusActive}))
	require.NoError(t, s.Add(ctx, &Alert{ID: "a2", WalletAddress: "0xdef", Severity: SeverityMedium, Status: StatusActive}))
	assert.Error(t, s.Add(ctx, &Alert{ID: "a1"}))

	list, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].ID, "newest first")

	updated, err := s.UpdateStatus(ctx, "a1", StatusInvestigating)
	require.NoError(t, err)
	assert.Equal(t, StatusInvestigating, updated.Status)

	_, err = s.UpdateStatus(ctx, "a1", StatusActive)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = s.UpdateStatus(ctx, "a1", Status("closed"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateStatus(ctx, "missing", StatusResolved)
	assert.ErrorIs(t, err, ErrAlertNotFound)

	_, err = s.UpdateStatus(ctx, "a1", StatusResolved)
	require.NoError(t, err)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StatusActive])
	assert.Equal(t, 1, counts[StatusResolved])
	assert.Equal(t, 0, counts[StatusInvestigating])

	byWallet, err := s.List(ctx, Filter{Wallet: "0xabc"})
	require.NoError(t, err)
	require.Len(t, byWallet, 1)
	assert.Equal(t, "a1", byWallet[0].ID)

	bySeverity, err := s.List(ctx, Filter{Severity: SeverityMedium, Status: StatusActive})
	require.NoError(t, err)
	require.Len(t, bySeverity, 1)
	assert.Equal(t, "a2", bySeverity[0].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orig := &Alert{ID: "a1", Status: StatusActive}
	require.NoError(t, s.Add(ctx, orig))

	orig.Status = StatusResolved
	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	got.Status = StatusResolved
	again, _ := s.Get(ctx, "a1")
	assert.Equal(t, StatusActive, again.Status)
}
