package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/rng"
)

func TestResolve_TodaysStats(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), nil)
	resp := r.Resolve(Request{
		Message: "Show me TODAY'S STATS please",
		Stats:   Stats{TotalTransactions: 100, MaliciousBlocked: 10, AverageRiskScore: 20},
	})

	assert.Equal(t, "stats", resp.Intent)
	assert.Equal(t, CategoryStats, resp.Category)
	assert.Contains(t, resp.Reply, "100")
	assert.Contains(t, resp.Reply, "10")
	assert.Contains(t, resp.Reply, "20%")
	assert.Contains(t, resp.Reply, "10 potential attacks prevented")
	assert.Equal(t, []string{"Show recent alerts", "Latest threats", "Security tip"}, resp.QuickReplies)
}

func TestResolve_StatsSecondTemplate(t *testing.T) {
	r := NewResolver(rng.NewSequence(0.99), nil)
	resp := r.Resolve(Request{
		Message: "show stats",
		Stats:   Stats{TotalTransactions: 100, MaliciousBlocked: 10, AverageRiskScore: 75},
	})

	assert.Contains(t, resp.Reply, "Safe Transactions: 90")
	assert.Contains(t, resp.Reply, "Risk Level: High 🔴")
	assert.Equal(t, 2, strings.Count(resp.Reply, "10"))
}

func TestResolve_Fallback(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), nil)
	resp := r.Resolve(Request{Message: "gibberish xyz123"})

	assert.Equal(t, IntentFallback, resp.Intent)
	assert.Equal(t, notUnderstoodText["en"], resp.Reply)
	require.NotEmpty(t, resp.QuickReplies)
	assert.Equal(t, suggestionReplies["en"], resp.QuickReplies)
}

func TestResolve_EmptyMessageFallsBack(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), nil)
	assert.Equal(t, IntentFallback, r.Resolve(Request{}).Intent)
}

func TestResolve_Gamification(t *testing.T) {
	tests := []struct {
		msg        string
		wantIntent string
		wantPrefix string
	}{
		{"Give me a security TIP", IntentSecurityTip, "💡 Security Tip of the Day:\n\n🔐"},
		{"Another tip", IntentSecurityTip, "💡 Security Tip of the Day:"},
		{"did you know anything?", IntentFact, "🤔 Did You Know?\n\n🧠"},
		{"More facts", IntentFact, "🤔 Did You Know?"},
		{"Tell me more", IntentFollowUp, "🔍 Deep Dive"},
		{"  How to stay safe ", IntentFollowUp, "🛡️ Safety Checklist"},
		{"That's amazing!", IntentFollowUp, "🚀 The Power of AI Security"},
		{"How does it work?", IntentFollowUp, "🧠 AI Magic"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			r := NewResolver(rng.NewSequence(0), nil)
			resp := r.Resolve(Request{Message: tt.msg})
			assert.Equal(t, tt.wantIntent, resp.Intent)
			assert.True(t, strings.HasPrefix(resp.Reply, tt.wantPrefix), resp.Reply)
		})
	}
}

func TestResolve_GamificationQuickReplies(t *testing.T) {
	r := NewResolver(rng.NewSequence(0.5), nil)
	tip := r.Resolve(Request{Message: "tip"})
	assert.Equal(t, []string{"Tell me more", "Another tip", "How to stay safe"}, tip.QuickReplies)

	fact := r.Resolve(Request{Message: "fact"})
	assert.Equal(t, []string{"That's amazing!", "How does it work?", "More facts"}, fact.QuickReplies)

	// Follow-ups carry no quick replies.
	assert.Empty(t, r.Resolve(Request{Message: "Tell me more"}).QuickReplies)
}

func TestMatchIntent_FirstMatchWins(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"latest flash loan news", "threat_intel"},
		{"what is flash loan", "flash_loan"},
		{"what is rug pull", "defi_basics"},
		{"explain MEV", "sandwich_attack"},
		{"is this a false positive?", "false_positive"},
		{"why flagged?", "why_flagged"},
		{"I got tokens, what to do", "suspicious_tokens"},
		{"how it works", "ai_detection"},
		{"how many alerts", "stats"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			intent, ok := MatchIntent(tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.want, intent.Name)
		})
	}

	_, ok := MatchIntent("hello there")
	assert.False(t, ok)
}

func TestResolve_KeywordTranslation(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), NewKeywordTranslator())
	resp := r.Resolve(Request{
		Message:  "show stats",
		Language: "es",
		Stats:    Stats{TotalTransactions: 100, MaliciousBlocked: 10, AverageRiskScore: 20},
	})

	assert.Equal(t, "es", resp.Language)
	assert.Contains(t, resp.Reply, "hoy's security statistics")
	assert.Contains(t, resp.Reply, "transaccións monitored: 100")
	assert.NotContains(t, resp.Reply, "Today")
	assert.Equal(t, []string{"show recent alerts", "últimas amenazas", "consejo de seguridad"}, resp.QuickReplies)
	assert.Equal(t, "es-ES", resp.Speech.Lang)
}

func TestResolve_PassthroughKeepsEnglish(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), Passthrough{})
	resp := r.Resolve(Request{Message: "flash loan", Language: "fr"})
	assert.True(t, strings.HasPrefix(resp.Reply, "⚡ Flash Loans Explained"))
	assert.Equal(t, "fr", resp.Language)
}

func TestResolve_LocalizedFallback(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), NewKeywordTranslator())

	resp := r.Resolve(Request{Message: "qwerty", Language: "gu"})
	assert.Equal(t, notUnderstoodText["gu"], resp.Reply)
	assert.Equal(t, suggestionReplies["gu"], resp.QuickReplies)

	resp = r.Resolve(Request{Message: "qwerty", Language: "de"})
	assert.Equal(t, "de", resp.Language)
	assert.Equal(t, notUnderstoodText["en"], resp.Reply)
}

func TestResolve_DetectsScript(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), NewKeywordTranslator())

	resp := r.Resolve(Request{Message: "आज के आंकड़े"})
	assert.Equal(t, "hi", resp.Language)
	assert.Equal(t, notUnderstoodText["hi"], resp.Reply)

	// An explicit non-English choice is kept.
	resp = r.Resolve(Request{Message: "आज के आंकड़े", Language: "fr"})
	assert.Equal(t, "fr", resp.Language)
}

func TestResolve_ModeEchoed(t *testing.T) {
	r := NewResolver(rng.NewSequence(0), nil)
	assert.Equal(t, ModeAssistant, r.Resolve(Request{Message: "x"}).Mode)
	assert.Equal(t, ModeEducation, r.Resolve(Request{Message: "x", Mode: ModeEducation}).Mode)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"show stats", "en"},
		{"आंकड़े", "hi"},
		{"புள்ளிவிவரங்கள்", "ta"},
		{"આંકડા", "gu"},
		{"¿cuántas transacciones?", "es"},
		{"ÑANDÚ", "es"},
		{"sécurité", "fr"},
		{"", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.text), tt.text)
	}
}

func TestKeywordTranslator(t *testing.T) {
	k := NewKeywordTranslator()
	assert.Equal(t, "aide: risque du portefeuille", k.Translate("HELP: risk du wallet", "fr"))
	assert.Equal(t, "Wallet Risk", k.Translate("Wallet Risk", "de"))
	assert.Len(t, k.Languages(), len(keywordTables))
}

func TestTranslatorFor(t *testing.T) {
	assert.IsType(t, &KeywordTranslator{}, TranslatorFor("keyword"))
	assert.IsType(t, Passthrough{}, TranslatorFor("none"))
}

func TestSpeech(t *testing.T) {
	assert.Equal(t, "Hello 1", SpeechText("🛡️ **Hello** #1"))
	assert.Equal(t, "hi-IN", SpeechLang("hi"))
	assert.Equal(t, "ta-IN", SpeechLang("ta"))
	assert.Equal(t, "gu-IN", SpeechLang("gu"))
	assert.Equal(t, "fr-FR", SpeechLang("fr"))
	assert.Equal(t, "en-US", SpeechLang("ja"))

	r := NewResolver(rng.NewSequence(0), nil)
	resp := r.Resolve(Request{Message: "why flagged"})
	assert.NotContains(t, resp.Speech.Text, "🛡")
	assert.True(t, strings.HasPrefix(resp.Speech.Text, "Why Wallets Get Flagged"))
}

func TestWelcome(t *testing.T) {
	fr := Welcome("fr")
	assert.True(t, strings.HasPrefix(fr.Reply, "🛡️ Bienvenue"))
	assert.Equal(t, suggestionReplies["fr"], fr.QuickReplies)
	assert.Equal(t, "fr-FR", fr.Speech.Lang)

	unknown := Welcome("ko")
	assert.Equal(t, welcomeText["en"], unknown.Reply)
	assert.Equal(t, "ko", unknown.Language)

	// Callers cannot mutate the shared tables.
	fr.QuickReplies[0] = "changed"
	assert.NotEqual(t, "changed", suggestionReplies["fr"][0])
}
