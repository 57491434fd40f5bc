package monitor

import (
	"fmt"
	"strings"

	"github.com/mbd888/andromeda/internal/chat"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/rng"
)

// Suggestion is an assistant-initiated prompt about one transaction.
type Suggestion struct {
	TransactionID string   `json:"transactionId"`
	RiskScore     int      `json:"riskScore"`
	Message       string   `json:"message"`
	QuickReplies  []string `json:"quickReplies"`
}

// PromptAction selects an on-demand prompt.
type PromptAction string

const (
	ActionAnalyze PromptAction = "analyze"
	ActionExplain PromptAction = "explain"
)

func suggestFor(src rng.Source, e ledger.Entry) Suggestion {
	score := e.Analysis.RiskScore
	pattern := "malicious activity"
	if len(e.Analysis.DetectedPatterns) > 0 {
		pattern = e.Analysis.DetectedPatterns[0]
	}
	candidates := []string{
		fmt.Sprintf("🚨 High-risk transaction detected! Risk score: %d%%. Want me to explain what makes this suspicious?", score),
		fmt.Sprintf("⚠️ Potential %s detected. Should I break down the threat?", pattern),
		"🛡️ Our AI blocked a suspicious transaction. Want to see what could have happened if it went through?",
	}
	return newSuggestion(e, rng.Pick(src, candidates))
}

// Prompt builds the assistant prompt for an on-demand action.
func Prompt(e ledger.Entry, action PromptAction) (Suggestion, bool) {
	switch action {
	case ActionAnalyze:
		pattern := "unusual behavior"
		if len(e.Analysis.DetectedPatterns) > 0 {
			pattern = e.Analysis.DetectedPatterns[0]
		}
		hash := e.Hash
		if len(hash) > 10 {
			hash = hash[:10]
		}
		return newSuggestion(e, fmt.Sprintf(
			"📊 Analyzing transaction %s... This transaction shows patterns of %s. Want a detailed breakdown?",
			hash, pattern)), true
	case ActionExplain:
		reasons := strings.Join(e.Analysis.DetectedPatterns, ", ")
		if reasons == "" {
			reasons = "unusual gas patterns and high risk score"
		}
		return newSuggestion(e, fmt.Sprintf(
			"🧠 This transaction was flagged because: %s. Risk score: %d%%. Want me to explain each factor?",
			reasons, e.Analysis.RiskScore)), true
	}
	return Suggestion{}, false
}

func newSuggestion(e ledger.Entry, msg string) Suggestion {
	replies := make([]string, len(chat.SuggestionQuickReplies))
	copy(replies, chat.SuggestionQuickReplies)
	return Suggestion{
		TransactionID: e.ID,
		RiskScore:     e.Analysis.RiskScore,
		Message:       msg,
		QuickReplies:  replies,
	}
}
