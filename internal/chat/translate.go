package chat

import "strings"

// Translator rewrites an English reply for a target language.
type Translator interface {
	Translate(text, lang string) string
}

// Passthrough returns text unchanged.
type Passthrough struct{}

func (Passthrough) Translate(text, _ string) string { return text }

type phrase struct {
	english    string
	translated string
}

// KeywordTranslator swaps a small fixed vocabulary per language. It is not a
// translation engine: text for a mapped language is lower-cased and every
// known phrase is replaced, everything else stays English.
type KeywordTranslator struct {
	tables map[string][]phrase
}

// NewKeywordTranslator returns a translator using the built-in tables for
// hi, es, ta, gu and fr.
func NewKeywordTranslator() *KeywordTranslator {
	return &KeywordTranslator{tables: keywordTables}
}

func (k *KeywordTranslator) Translate(text, lang string) string {
	table, ok := k.tables[lang]
	if !ok {
		return text
	}
	out := strings.ToLower(text)
	for _, p := range table {
		out = strings.ReplaceAll(out, p.english, p.translated)
	}
	return out
}

// Languages lists the languages with a keyword table.
func (k *KeywordTranslator) Languages() []string {
	return []string{"hi", "es", "ta", "gu", "fr"}
}

// TranslatorFor maps a configured strategy name to a Translator.
// Unknown names fall back to Passthrough.
func TranslatorFor(name string) Translator {
	if name == "keyword" {
		return NewKeywordTranslator()
	}
	return Passthrough{}
}
