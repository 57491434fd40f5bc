package server

import (
	"context"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/modelperf"
	"github.com/mbd888/andromeda/internal/monitor"
	"github.com/mbd888/andromeda/internal/realtime"
)

// hubPublisher adapts realtime.Hub to monitor.Publisher. One tick fans out
// into up to three websocket events.
type hubPublisher struct {
	hub *realtime.Hub
}

func (p *hubPublisher) PublishTick(_ context.Context, ev monitor.Event) {
	entry := ev.Entry
	p.hub.Broadcast(realtime.NewEvent(realtime.EventTransaction, entry).
		ForWallets(entry.From, entry.To).
		WithRiskScore(entry.Analysis.RiskScore))

	if ev.Alert != nil {
		p.hub.Broadcast(realtime.NewEvent(realtime.EventAlert, ev.Alert).
			ForWallets(ev.Alert.WalletAddress).
			WithRiskScore(entry.Analysis.RiskScore))
	}
	if ev.Suggestion != nil {
		p.hub.Broadcast(realtime.NewEvent(realtime.EventSuggestion, ev.Suggestion).
			ForWallets(entry.From).
			WithRiskScore(ev.Suggestion.RiskScore))
	}
}

// alertEventEmitter adapts realtime.Hub to alerts.EventEmitter
type alertEventEmitter struct {
	hub *realtime.Hub
}

func (e *alertEventEmitter) EmitAlertUpdated(alert *alerts.Alert) {
	e.hub.Broadcast(realtime.NewEvent(realtime.EventAlertUpdated, alert).ForWallets(alert.WalletAddress))
}

// walletEventEmitter adapts realtime.Hub to ledger.EventEmitter
type walletEventEmitter struct {
	hub *realtime.Hub
}

func (e *walletEventEmitter) EmitWalletBlocked(address string, blocked bool) {
	t := realtime.EventWalletUnblocked
	if blocked {
		t = realtime.EventWalletBlocked
	}
	e.hub.Broadcast(realtime.NewEvent(t, map[string]any{
		"address": address,
		"blocked": blocked,
	}).ForWallets(address))
}

// modelEventEmitter adapts realtime.Hub to modelperf.EventEmitter
type modelEventEmitter struct {
	hub *realtime.Hub
}

func (e *modelEventEmitter) EmitModelUpdate(s modelperf.Snapshot) {
	e.hub.Broadcast(realtime.NewEvent(realtime.EventModelUpdate, s))
}
