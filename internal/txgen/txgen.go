// Package txgen produces synthetic transactions for the live feed.
//
// Nothing here touches a chain: addresses come from a fixed pool, amounts and
// gas from two fixed profiles, and hashes are Keccak-256 digests of the
// generated fields so they look like real 32-byte transaction hashes.
package txgen

import (
	"sort"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/mbd888/andromeda/internal/idgen"
	"github.com/mbd888/andromeda/internal/rng"
)

// Transaction is one synthetic transfer. Values are immutable once generated.
type Transaction struct {
	ID                  string          `json:"id"`
	Hash                string          `json:"hash"`
	From                string          `json:"from"`
	To                  string          `json:"to"`
	Value               decimal.Decimal `json:"value"`
	GasUsed             uint64          `json:"gasUsed"`
	GasPrice            float64         `json:"gasPrice"`
	Timestamp           int64           `json:"timestamp"` // unix millis
	BlockNumber         uint64          `json:"blockNumber"`
	ContractInteraction bool            `json:"contractInteraction"`
	TokenTransfer       bool            `json:"tokenTransfer"`
}

// Time returns the transaction timestamp.
func (t Transaction) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// Pool is the fixed set of addresses transactions move between.
var Pool = []string{
	"0x742d35Cc6634C0532925a3b8D4C9db4C4C4C4C4C",
	"0x8ba1f109551bD432803012645aC136c22C08a0e1",
	"0x1234567890123456789012345678901234567890",
	"0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
	"0x9876543210987654321098765432109876543210",
	"0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	"0xcafebabecafebabecafebabecafebabecafebabe",
	"0x1111111111111111111111111111111111111111",
}

// Generation parameters.
const (
	BlockedSenderChance = 0.3
	HighRiskChance      = 0.15
	ContractChance      = 0.4
	TokenTransferChance = 0.3

	HighRiskValueMin = 5000
	HighRiskValueMax = 15000
	HighRiskGasMin   = 200000
	HighRiskGasMax   = 700000

	NormalValueMin = 10
	NormalValueMax = 1010
	NormalGasMin   = 21000
	NormalGasMax   = 121000

	GasPriceMin = 10
	GasPriceMax = 60

	BlockMin   = 18000000
	BlockRange = 1000000
)

// BlockedLister reports the currently blocked addresses.
type BlockedLister interface {
	Blocked() []string
}

// Generator creates transactions. It is safe for concurrent use as long as
// its Source is.
type Generator struct {
	src     rng.Source
	blocked BlockedLister
	pool    []string
	now     func() time.Time
}

// New creates a generator. blocked may be nil, in which case no sender bias
// is applied.
func New(src rng.Source, blocked BlockedLister) *Generator {
	return &Generator{
		src:     src,
		blocked: blocked,
		pool:    Pool,
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithPool overrides the address pool. pool must be non-empty.
func (g *Generator) WithPool(pool []string) *Generator {
	g.pool = pool
	return g
}

// Next generates one transaction. Draws happen in a fixed order so a seeded
// source always yields the same sequence.
func (g *Generator) Next() Transaction {
	from := rng.Pick(g.src, g.pool)
	if rng.Chance(g.src, BlockedSenderChance) {
		if blocked := g.blockedSnapshot(); len(blocked) > 0 {
			from = rng.Pick(g.src, blocked)
		}
	}
	to := rng.Pick(g.src, g.pool)

	var value float64
	var gas uint64
	if rng.Chance(g.src, HighRiskChance) {
		value = rng.Uniform(g.src, HighRiskValueMin, HighRiskValueMax)
		gas = uint64(rng.Uniform(g.src, HighRiskGasMin, HighRiskGasMax))
	} else {
		value = rng.Uniform(g.src, NormalValueMin, NormalValueMax)
		gas = uint64(rng.Uniform(g.src, NormalGasMin, NormalGasMax))
	}

	gasPrice := rng.Uniform(g.src, GasPriceMin, GasPriceMax)
	contract := rng.Chance(g.src, ContractChance)
	token := rng.Chance(g.src, TokenTransferChance)
	block := uint64(BlockMin + g.src.Intn(BlockRange))

	at := g.now()
	tx := Transaction{
		ID:                  idgen.Stamped("tx", at, g.src, 9),
		From:                from,
		To:                  to,
		Value:               decimal.NewFromFloat(value),
		GasUsed:             gas,
		GasPrice:            gasPrice,
		Timestamp:           at.UnixMilli(),
		BlockNumber:         block,
		ContractInteraction: contract,
		TokenTransfer:       token,
	}
	tx.Hash = hashOf(tx)
	return tx
}

func (g *Generator) blockedSnapshot() []string {
	if g.blocked == nil {
		return nil
	}
	blocked := g.blocked.Blocked()
	sort.Strings(blocked)
	return blocked
}

func hashOf(tx Transaction) string {
	return crypto.Keccak256Hash(
		[]byte(tx.ID),
		[]byte(tx.From),
		[]byte(tx.To),
		[]byte(tx.Value.String()),
		[]byte(strconv.FormatUint(tx.BlockNumber, 10)),
	).Hex()
}
