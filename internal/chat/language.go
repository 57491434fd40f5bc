package chat

import (
	"strings"
	"unicode"
)

// DefaultLanguage is used when a request names none.
const DefaultLanguage = "en"

// Languages with localized content. Any other code is passed through to the
// translator unchanged.
var supportedLanguages = map[string]bool{
	"en": true, "hi": true, "es": true, "ta": true, "gu": true, "fr": true,
}

// metricLanguage maps unsupported codes to "other" for metric labels.
func metricLanguage(lang string) string {
	if supportedLanguages[lang] {
		return lang
	}
	return "other"
}

const (
	spanishMarks = "¿¡ñ"
	latinAccents = "àáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ"
)

// DetectLanguage guesses a language code from the script of text.
// Anything unrecognized is English.
func DetectLanguage(text string) string {
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			return "hi"
		case r >= 0x0B80 && r <= 0x0BFF:
			return "ta"
		case r >= 0x0A80 && r <= 0x0AFF:
			return "gu"
		}
	}
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, spanishMarks) {
		return "es"
	}
	if strings.ContainsAny(lower, latinAccents) {
		return "fr"
	}
	return DefaultLanguage
}

// resolveLanguage picks the reply language. A detected non-English script
// overrides an English (or missing) selection, never an explicit other one.
func resolveLanguage(selected, text string) string {
	selected = strings.ToLower(strings.TrimSpace(selected))
	if selected == "" {
		selected = DefaultLanguage
	}
	if selected == DefaultLanguage {
		if detected := DetectLanguage(text); detected != DefaultLanguage {
			return detected
		}
	}
	return selected
}

// Speech is a text-to-speech hint. Clients without a TTS API ignore it.
type Speech struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// SpeechLang maps a language code to the BCP-47 tag used for synthesis.
func SpeechLang(lang string) string {
	switch lang {
	case "hi":
		return "hi-IN"
	case "es":
		return "es-ES"
	case "ta":
		return "ta-IN"
	case "gu":
		return "gu-IN"
	case "fr":
		return "fr-FR"
	default:
		return "en-US"
	}
}

// SpeechText strips emoji and markdown emphasis from a reply.
func SpeechText(reply string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '*', r == '#':
			return -1
		case r == '\uFE0F', r == '\u200D':
			return -1
		case unicode.Is(unicode.So, r):
			return -1
		}
		return r
	}, reply))
}

func speechFor(reply, lang string) Speech {
	return Speech{Text: SpeechText(reply), Lang: SpeechLang(lang)}
}

// localized returns the entry for lang, falling back to English.
func localized[T any](m map[string]T, lang string) T {
	if v, ok := m[lang]; ok {
		return v
	}
	return m[DefaultLanguage]
}
