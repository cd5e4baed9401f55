// Package intent classifies grade-book questions.
//
// Parse is the regex layer: an ordered pattern list, first match wins.
// Analyze is the keyword fallback used when no pattern matches.
package intent

import (
	"regexp"
	"strings"

	"github.com/trezcool/gradebook/core"
)

// RegexConfidence is reported for every pattern hit.
const RegexConfidence = 1.0

// Query is a classified message.
type Query struct {
	Intent     Intent            `json:"intent"`
	Entities   map[string]string `json:"entities,omitempty"`
	Confidence float64           `json:"confidence"`
	// Examples is set when the message was not understood.
	Examples []string `json:"examples,omitempty"`
}

// Entity returns the value of a slot, or "" when it is absent.
func (q Query) Entity(slot string) string {
	return q.Entities[slot]
}

var trailingPunct = regexp.MustCompile(`[\s?!.,;:]+$`)

// Clean lowercases the message, normalizes quotes, commas and spacing, then drops trailing punctuation.
func Clean(message string) string {
	s := strings.ToLower(message)
	s = strings.NewReplacer("’", "'", "‘", "'", "`", "'", ",", " ").Replace(s)
	s = core.CollapseSpaces(s)
	return trailingPunct.ReplaceAllString(s, "")
}

// Parse classifies the message against Patterns.
func Parse(message string) Query {
	msg := Clean(message)
	if msg == "" {
		return Query{Intent: Unknown, Examples: Examples}
	}

	for _, g := range Patterns {
		for _, re := range g.Patterns {
			m := re.FindStringSubmatch(msg)
			if m == nil {
				continue
			}
			return Query{Intent: g.Intent, Entities: g.entities(m[1:]), Confidence: RegexConfidence}
		}
	}
	return Query{Intent: Unknown, Examples: Examples}
}

func (g PatternGroup) entities(captures []string) map[string]string {
	out := make(map[string]string, len(g.Slots)+len(g.Fixed))
	for k, v := range g.Fixed {
		out[k] = v
	}
	for i, slot := range g.Slots {
		if i >= len(captures) {
			break
		}
		v := cleanEntity(captures[i])
		if v == "" {
			continue
		}
		if slot == SlotStatus {
			v = NormalizeStatus(v)
		}
		out[slot] = v
	}
	return out
}

func cleanEntity(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "'s")
	return strings.Trim(s, " '\"")
}

// NormalizeStatus maps the phrasings of a status to its canonical value.
func NormalizeStatus(s string) string {
	switch strings.ReplaceAll(strings.TrimSpace(s), " ", "-") {
	case "failing", "failed", "fail":
		return StatusFailing
	case "at-risk", "risk", "struggling":
		return StatusAtRisk
	case "doing-well", "well", "doing-great":
		return StatusDoingWell
	case "missing", "missing-work":
		return StatusMissingWork
	}
	return s
}

// IsGreeting reports whether the message is only a greeting.
func IsGreeting(message string) bool {
	return Parse(message).Intent == Greeting
}
