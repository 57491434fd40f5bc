// Package monitor drives the live transaction feed.
//
// Each tick generates a transaction, scores it, possibly raises an alert and
// records it in the wallet ledger, all synchronously. The Monitor keeps the
// most recent 50 results and the aggregate counters derived from them.
package monitor

import (
	"context"
	"fmt"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/txgen"
)

// Event is the outcome of one tick.
type Event struct {
	Entry      ledger.Entry  `json:"transaction"`
	Alert      *alerts.Alert `json:"alert,omitempty"`
	Suggestion *Suggestion   `json:"suggestion,omitempty"`
}

// Pipeline wires generator, scorer, emitter and ledger together.
type Pipeline struct {
	gen     *txgen.Generator
	scorer  *risk.Scorer
	emitter *alerts.Emitter
	ledger  *ledger.Ledger
	alerts  alerts.Store
}

// NewPipeline creates a tick pipeline. Alerts are added to store.
func NewPipeline(gen *txgen.Generator, scorer *risk.Scorer, emitter *alerts.Emitter, l *ledger.Ledger, store alerts.Store) *Pipeline {
	return &Pipeline{
		gen:     gen,
		scorer:  scorer,
		emitter: emitter,
		ledger:  l,
		alerts:  store,
	}
}

// Tick runs one generate, score, alert and record cycle.
func (p *Pipeline) Tick(ctx context.Context) (Event, error) {
	tx := p.gen.Next()
	analysis := p.scorer.Score(tx)
	alert, raised := p.emitter.Emit(tx, analysis)

	p.ledger.RecordTransaction(tx, analysis)

	ev := Event{Entry: ledger.Entry{Transaction: tx, Analysis: analysis}}
	if raised {
		if err := p.alerts.Add(ctx, alert); err != nil {
			return ev, fmt.Errorf("failed to store alert %s: %w", alert.ID, err)
		}
		ev.Alert = alert
	}
	return ev, nil
}
