package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownPlaceholder is returned by Parse for a {name} that Values cannot fill.
var ErrUnknownPlaceholder = errors.New("chat: unknown placeholder")

// Placeholder names a value a response template may reference.
type Placeholder string

const (
	TotalTransactions Placeholder = "totalTransactions"
	MaliciousBlocked  Placeholder = "maliciousBlocked"
	AverageRiskScore  Placeholder = "averageRiskScore"
	ActiveAlerts      Placeholder = "activeAlerts"
	RiskPercentage    Placeholder = "riskPercentage"
	SafeTransactions  Placeholder = "safeTransactions"
	RiskLevel         Placeholder = "riskLevel"
)

var knownPlaceholders = map[Placeholder]bool{
	TotalTransactions: true,
	MaliciousBlocked:  true,
	AverageRiskScore:  true,
	ActiveAlerts:      true,
	RiskPercentage:    true,
	SafeTransactions:  true,
	RiskLevel:         true,
}

// Stats are the live aggregate counters a data-bearing reply is rendered with.
type Stats struct {
	TotalTransactions int `json:"totalTransactions"`
	MaliciousBlocked  int `json:"maliciousBlocked"`
	AverageRiskScore  int `json:"averageRiskScore"`
	ActiveAlerts      int `json:"activeAlerts"`
}

// Values derives every placeholder value from s.
func (s Stats) Values() map[Placeholder]string {
	pct := "0"
	if s.TotalTransactions > 0 {
		pct = strconv.FormatFloat(float64(s.MaliciousBlocked)/float64(s.TotalTransactions)*100, 'f', 1, 64)
	}
	return map[Placeholder]string{
		TotalTransactions: strconv.Itoa(s.TotalTransactions),
		MaliciousBlocked:  strconv.Itoa(s.MaliciousBlocked),
		AverageRiskScore:  strconv.Itoa(s.AverageRiskScore),
		ActiveAlerts:      strconv.Itoa(s.ActiveAlerts),
		RiskPercentage:    pct,
		SafeTransactions:  strconv.Itoa(s.TotalTransactions - s.MaliciousBlocked),
		RiskLevel:         riskLevelLabel(s.AverageRiskScore),
	}
}

func riskLevelLabel(avg int) string {
	switch {
	case avg < 30:
		return "Low 🟢"
	case avg < 70:
		return "Medium 🟡"
	default:
		return "High 🔴"
	}
}

type segment struct {
	text string
	ph   Placeholder
}

// Template is a parsed response with named placeholders.
type Template struct {
	raw      string
	segments []segment
}

// Parse splits s into literal text and {placeholder} references.
// A brace without a closing partner is kept as literal text.
func Parse(s string) (*Template, error) {
	t := &Template{raw: s}
	rest := s
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		name := Placeholder(rest[open+1 : open+end])
		if !knownPlaceholders[name] {
			return nil, fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, name)
		}
		if open > 0 {
			t.segments = append(t.segments, segment{text: rest[:open]})
		}
		t.segments = append(t.segments, segment{ph: name})
		rest = rest[open+end+1:]
	}
	if rest != "" {
		t.segments = append(t.segments, segment{text: rest})
	}
	return t, nil
}

// MustParse is Parse that panics on error. Use for built-in content only.
func MustParse(s string) *Template {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes every placeholder occurrence.
func (t *Template) Render(values map[Placeholder]string) string {
	var b strings.Builder
	b.Grow(len(t.raw))
	for _, seg := range t.segments {
		if seg.ph != "" {
			b.WriteString(values[seg.ph])
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String()
}

// Placeholders lists the placeholder references in order of appearance.
func (t *Template) Placeholders() []Placeholder {
	var out []Placeholder
	for _, seg := range t.segments {
		if seg.ph != "" {
			out = append(out, seg.ph)
		}
	}
	return out
}

// String returns the unparsed template text.
func (t *Template) String() string { return t.raw }
