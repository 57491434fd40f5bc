// Package chat implements the security assistant: a keyword intent resolver
// with canned, optionally data-bearing replies.
//
// Resolution order for one message:
//
//  1. "tip" anywhere → a random security tip
//  2. "did you know" or "fact" → a random fact
//  3. an exact tip/fact quick-reply label → its follow-up text
//  4. the first intent with a matching pattern
//  5. the localized "not understood" fallback
//
// There is no NLP and no conversation state beyond what the caller sends.
package chat

import (
	"strings"

	"github.com/mbd888/andromeda/internal/rng"
)

// Mode is the conversation mode a client selected. It is echoed, not acted on.
type Mode string

const (
	ModeAssistant Mode = "assistant"
	ModeThreat    Mode = "threat"
	ModeEducation Mode = "education"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeAssistant, ModeThreat, ModeEducation:
		return true
	}
	return false
}

// Intent names reported for the non-table branches.
const (
	IntentSecurityTip = "security_tip"
	IntentFact        = "fact"
	IntentFollowUp    = "follow_up"
	IntentFallback    = "fallback"
	IntentWelcome     = "welcome"
)

// Request is one user turn.
type Request struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
	Stats    Stats  `json:"stats"`
}

// Response is the assistant's answer to one turn.
type Response struct {
	Reply        string   `json:"reply"`
	QuickReplies []string `json:"quickReplies"`
	Intent       string   `json:"intent"`
	Category     Category `json:"category"`
	Language     string   `json:"language"`
	Mode         Mode     `json:"mode"`
	Speech       Speech   `json:"speech"`
}

// SuggestionQuickReplies accompany an assistant-initiated suggestion.
var SuggestionQuickReplies = []string{"Tell me more", "Show me the details", "What should I do?"}

// Resolver maps messages to replies. It never fails.
type Resolver struct {
	src        rng.Source
	translator Translator
}

// NewResolver creates a resolver. A nil translator means Passthrough.
func NewResolver(src rng.Source, translator Translator) *Resolver {
	if translator == nil {
		translator = Passthrough{}
	}
	return &Resolver{src: src, translator: translator}
}

// Resolve answers one message.
func (r *Resolver) Resolve(req Request) Response {
	lang := resolveLanguage(req.Language, req.Message)
	mode := req.Mode
	if mode == "" {
		mode = ModeAssistant
	}

	resp := r.match(req)
	resp.Language = lang
	resp.Mode = mode

	if resp.Intent == IntentFallback {
		resp.Reply = localized(notUnderstoodText, lang)
		resp.QuickReplies = cloneStrings(localized(suggestionReplies, lang))
	} else if lang != DefaultLanguage {
		resp.Reply = r.translator.Translate(resp.Reply, lang)
		for i, q := range resp.QuickReplies {
			resp.QuickReplies[i] = r.translator.Translate(q, lang)
		}
	}
	if resp.QuickReplies == nil {
		resp.QuickReplies = []string{}
	}
	resp.Speech = speechFor(resp.Reply, lang)
	return resp
}

func (r *Resolver) match(req Request) Response {
	text := req.Message
	lower := strings.ToLower(text)

	if strings.Contains(lower, "tip") {
		return r.gamify(securityTips, IntentSecurityTip)
	}
	if strings.Contains(lower, "did you know") || strings.Contains(lower, "fact") {
		return r.gamify(securityFacts, IntentFact)
	}

	label := strings.TrimSpace(text)
	for _, g := range []gamification{securityTips, securityFacts} {
		if reply, ok := g.FollowUps[label]; ok {
			return Response{Reply: reply, Intent: IntentFollowUp, Category: CategoryGeneral}
		}
	}

	if intent, ok := MatchIntent(text); ok {
		tmpl := rng.Pick(r.src, intent.Responses)
		var reply string
		if intent.RequiresData {
			reply = tmpl.Render(req.Stats.Values())
		} else {
			reply = tmpl.String()
		}
		return Response{
			Reply:        reply,
			QuickReplies: cloneStrings(categoryQuickReplies[intent.Category]),
			Intent:       intent.Name,
			Category:     intent.Category,
		}
	}

	return Response{Intent: IntentFallback, Category: CategoryGeneral}
}

func (r *Resolver) gamify(g gamification, intent string) Response {
	item := rng.Pick(r.src, g.Items)
	return Response{
		Reply:        g.Header + "\n\n" + item,
		QuickReplies: cloneStrings(g.Options),
		Intent:       intent,
		Category:     CategoryGeneral,
	}
}

// MatchIntent returns the first intent with a pattern contained in text,
// compared case-insensitively.
func MatchIntent(text string) (Intent, bool) {
	lower := strings.ToLower(text)
	for _, intent := range intents {
		for _, p := range intent.Patterns {
			if strings.Contains(lower, p) {
				return intent, true
			}
		}
	}
	return Intent{}, false
}

// Intents returns the intent table in match order.
func Intents() []Intent {
	out := make([]Intent, len(intents))
	copy(out, intents)
	return out
}

// Welcome is the localized greeting that opens a conversation.
func Welcome(lang string) Response {
	if lang == "" {
		lang = DefaultLanguage
	}
	reply := localized(welcomeText, lang)
	return Response{
		Reply:        reply,
		QuickReplies: cloneStrings(localized(suggestionReplies, lang)),
		Intent:       IntentWelcome,
		Category:     CategoryGeneral,
		Language:     lang,
		Mode:         ModeAssistant,
		Speech:       speechFor(reply, lang),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
