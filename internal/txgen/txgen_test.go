package txgen

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/rng"
)

type fixedBlocked []string

func (f fixedBlocked) Blocked() []string { return append([]string(nil), f...) }

var fixedNow = func() time.Time { return time.UnixMilli(1700000000000) }

func TestPoolAddressesAreWellFormed(t *testing.T) {
	require.Len(t, Pool, 8)
	for _, addr := range Pool {
		assert.True(t, common.IsHexAddress(addr), addr)
		assert.True(t, strings.HasPrefix(addr, "0x"), addr)
	}
}

func TestNext_ScriptedDraws(t *testing.T) {
	src := rng.NewSequence(
		0.0,  // from -> Pool[0]
		0.5,  // blocked override not taken
		0.99, // to -> Pool[7]
		0.1,  // high-risk profile
		0.5,  // value
		0.5,  // gas
		0.5,  // gas price
		0.1,  // contract interaction
		0.9,  // no token transfer
		0.5,  // block offset
	)
	tx := New(src, nil).WithClock(fixedNow).Next()

	assert.Equal(t, Pool[0], tx.From)
	assert.Equal(t, Pool[7], tx.To)
	assert.True(t, tx.Value.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, uint64(450000), tx.GasUsed)
	assert.InDelta(t, 35.0, tx.GasPrice, 1e-9)
	assert.True(t, tx.ContractInteraction)
	assert.False(t, tx.TokenTransfer)
	assert.Equal(t, uint64(18500000), tx.BlockNumber)
	assert.Equal(t, int64(1700000000000), tx.Timestamp)
	assert.Regexp(t, `^tx_1700000000000_[0-9a-z]{9}$`, tx.ID)
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, tx.Hash)
}

func TestNext_BlockedOverride(t *testing.T) {
	src := rng.NewSequence(
		0.0,  // from -> Pool[0]
		0.1,  // blocked override taken
		0.99, // blocked pick -> last of sorted set
		0.0,  // to
		0.9,  // normal profile
	)
	blocked := fixedBlocked{"0xcccccccccccccccccccccccccccccccccccccccc", "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	tx := New(src, blocked).WithClock(fixedNow).Next()

	assert.Equal(t, "0xcccccccccccccccccccccccccccccccccccccccc", tx.From)
}

func TestNext_OverrideWithEmptyBlockedSet(t *testing.T) {
	src := rng.NewSequence(0.25, 0.1, 0.0, 0.9)
	tx := New(src, fixedBlocked{}).WithClock(fixedNow).Next()
	assert.Equal(t, Pool[2], tx.From)
}

func TestNext_Distributions(t *testing.T) {
	g := New(rng.New(rng.Deterministic, 11).Stream("txgen"), nil)

	const n = 2000
	var highRisk, contract, token int
	seenFrom := map[string]bool{}
	for i := 0; i < n; i++ {
		tx := g.Next()
		v := tx.Value.InexactFloat64()

		if tx.GasUsed >= HighRiskGasMin && v >= HighRiskValueMin {
			highRisk++
			assert.Less(t, v, float64(HighRiskValueMax))
			assert.Less(t, tx.GasUsed, uint64(HighRiskGasMax))
		} else {
			require.GreaterOrEqual(t, v, float64(NormalValueMin))
			require.Less(t, v, float64(NormalValueMax))
			require.GreaterOrEqual(t, tx.GasUsed, uint64(NormalGasMin))
			require.Less(t, tx.GasUsed, uint64(NormalGasMax))
		}
		require.GreaterOrEqual(t, tx.GasPrice, float64(GasPriceMin))
		require.Less(t, tx.GasPrice, float64(GasPriceMax))
		require.GreaterOrEqual(t, tx.BlockNumber, uint64(BlockMin))
		require.Less(t, tx.BlockNumber, uint64(BlockMin+BlockRange))
		require.Contains(t, Pool, tx.To)

		seenFrom[tx.From] = true
		if tx.ContractInteraction {
			contract++
		}
		if tx.TokenTransfer {
			token++
		}
	}

	assert.Len(t, seenFrom, len(Pool))
	assert.InDelta(t, HighRiskChance, float64(highRisk)/n, 0.03)
	assert.InDelta(t, ContractChance, float64(contract)/n, 0.04)
	assert.InDelta(t, TokenTransferChance, float64(token)/n, 0.04)
}

func TestNext_BlockedSenderBias(t *testing.T) {
	outsider := "0x2222222222222222222222222222222222222222"
	g := New(rng.New(rng.Deterministic, 5).Stream("txgen"), fixedBlocked{outsider})

	const n = 2000
	hits := 0
	for i := 0; i < n; i++ {
		if g.Next().From == outsider {
			hits++
		}
	}
	assert.InDelta(t, BlockedSenderChance, float64(hits)/n, 0.04)
}

func TestNext_SeededRunsReplay(t *testing.T) {
	a := New(rng.New(rng.Deterministic, 9).Stream("txgen"), nil).WithClock(fixedNow)
	b := New(rng.New(rng.Deterministic, 9).Stream("txgen"), nil).WithClock(fixedNow)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
