package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/txgen"
)

const outsider = "0x0000000000000000000000000000000000000001"

func seededLedger() *ledger.Ledger {
	l := ledger.New()
	record := func(from string, score int) {
		tx := txgen.Transaction{From: from, To: txgen.Pool[1]}
		l.RecordTransaction(tx, risk.Analysis{RiskScore: score, Classification: risk.Classify(score)})
	}
	record(txgen.Pool[0], 90)
	record(txgen.Pool[0], 85)
	record(outsider, 40)
	l.Block(txgen.Pool[2])
	return l
}

func TestService_KnownIncludesPoolAndHistory(t *testing.T) {
	s := NewService(seededLedger(), NewCalculator(), txgen.Pool)

	known := s.Known()
	assert.Len(t, known, len(txgen.Pool)+1)
	assert.Contains(t, known, outsider)
	assert.Equal(t, outsider, known[0])
}

func TestService_KnownDeduplicatesCase(t *testing.T) {
	l := ledger.New()
	l.RecordTransaction(txgen.Transaction{From: "0x742D35CC6634C0532925A3B8D4C9DB4C4C4C4C4C"}, risk.Analysis{})
	s := NewService(l, NewCalculator(), txgen.Pool)

	assert.Len(t, s.Known(), len(txgen.Pool))
}

func TestService_List(t *testing.T) {
	s := NewService(seededLedger(), NewCalculator(), txgen.Pool)

	all := s.List(Filter{})
	require.Len(t, all, len(txgen.Pool)+1)

	high := s.List(Filter{RiskLevel: RiskHigh})
	require.Len(t, high, 1)
	assert.Equal(t, txgen.Pool[0], high[0].Address)
	assert.Equal(t, 2, high[0].TransactionCount)

	blocked := s.List(Filter{RiskLevel: RiskBlocked})
	require.Len(t, blocked, 1)
	assert.Equal(t, txgen.Pool[2], blocked[0].Address)

	search := s.List(Filter{Search: "DEADBEEF"})
	require.Len(t, search, 1)
	assert.Equal(t, txgen.Pool[5], search[0].Address)
}

func TestCounts(t *testing.T) {
	s := NewService(seededLedger(), NewCalculator(), txgen.Pool)

	counts := Counts(s.List(Filter{}))
	assert.Equal(t, 1, counts[RiskHigh])
	assert.Equal(t, 1, counts[RiskMedium])
	assert.Equal(t, 1, counts[RiskBlocked])
	assert.Equal(t, len(txgen.Pool)-2, counts[RiskLow])
}
