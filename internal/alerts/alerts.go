// Package alerts turns high-risk analyses into security alerts and tracks
// their review status for the session.
package alerts

import (
	"errors"
	"strings"
	"time"

	"github.com/mbd888/andromeda/internal/idgen"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/rng"
	"github.com/mbd888/andromeda/internal/txgen"
)

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidStatus     = errors.New("invalid alert status")
	ErrInvalidTransition = errors.New("invalid alert status transition")
)

// Type categorizes an alert.
type Type string

const (
	TypeHighRisk          Type = "high_risk"
	TypeSuspiciousPattern Type = "suspicious_pattern"
	TypeBlockedWallet     Type = "blocked_wallet"
)

// Severity ranks an alert. The emitter never produces SeverityLow; it exists
// so filters accept the full range.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status is the review state of an alert.
type Status string

const (
	StatusActive        Status = "active"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusFalsePositive Status = "false_positive"
)

// AlertThreshold is the lowest risk score that raises an alert.
const AlertThreshold = 50

var (
	emittedTypes      = []Type{TypeHighRisk, TypeSuspiciousPattern, TypeBlockedWallet}
	emittedSeverities = []Severity{SeverityMedium, SeverityHigh, SeverityCritical}
)

// transitions lists the statuses reachable from each status.
// Resolved and false_positive are terminal.
var transitions = map[Status][]Status{
	StatusActive:        {StatusInvestigating, StatusFalsePositive},
	StatusInvestigating: {StatusResolved, StatusFalsePositive},
}

// Alert is a security alert raised for one transaction.
type Alert struct {
	ID            string   `json:"id"`
	TransactionID string   `json:"transactionId"`
	WalletAddress string   `json:"walletAddress"`
	Type          Type     `json:"alertType"`
	Severity      Severity `json:"severity"`
	Message       string   `json:"message"`
	Timestamp     int64    `json:"timestamp"` // unix millis
	Status        Status   `json:"status"`
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInvestigating, StatusResolved, StatusFalsePositive:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// CanTransition reports whether an alert may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Emitter raises alerts. Type and severity are drawn uniformly and do not
// depend on the score.
type Emitter struct {
	src rng.Source
	now func() time.Time
}

// NewEmitter creates an emitter drawing from src.
func NewEmitter(src rng.Source) *Emitter {
	return &Emitter{src: src, now: time.Now}
}

// WithClock overrides the timestamp source.
func (e *Emitter) WithClock(now func() time.Time) *Emitter {
	e.now = now
	return e
}

// Emit returns an alert when the analysis scores at least AlertThreshold.
// No deduplication is done: every qualifying transaction raises its own alert.
func (e *Emitter) Emit(tx txgen.Transaction, a risk.Analysis) (*Alert, bool) {
	if a.RiskScore < AlertThreshold {
		return nil, false
	}

	alertType := rng.Pick(e.src, emittedTypes)
	severity := rng.Pick(e.src, emittedSeverities)
	at := e.now()

	return &Alert{
		ID:            idgen.Stamped("alert", at, e.src, 6),
		TransactionID: tx.ID,
		WalletAddress: tx.From,
		Type:          alertType,
		Severity:      severity,
		Message:       Message(a),
		Timestamp:     at.UnixMilli(),
		Status:        StatusActive,
	}, true
}

// Message renders "<CLASSIFICATION>: <first pattern>".
func Message(a risk.Analysis) string {
	detail := "Suspicious activity detected"
	if len(a.DetectedPatterns) > 0 {
		detail = a.DetectedPatterns[0]
	}
	return strings.ToUpper(string(a.Classification)) + ": " + detail
}
