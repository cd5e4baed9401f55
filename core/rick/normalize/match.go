package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Scoring weights. A candidate agreeing on unit, type and number already scores 90.
const (
	unitWeight          = 40
	typeWeight          = 30
	numberWeight        = 20
	tokenOverlapWeight  = 20
	containmentWeight   = 10
	partialPrefixWeight = 5
	partialPrefixRatio  = 0.7
	exactScore          = 100
)

// Resolution thresholds.
const (
	// DefaultThreshold is the lowest score a candidate needs to be considered at all.
	DefaultThreshold = 50
	// HighConfidence accepts the top candidate outright: it needs at least unit+type+number agreement or an exact match.
	HighConfidence = 90
	// LeadMargin accepts a top candidate that clearly beats the runner-up.
	LeadMargin = 20
	// MaxCandidates caps the clarification list.
	MaxCandidates = 5
	// maxSuggestions and suggestionMinRatio bound the "did you mean" list of a NoMatchError.
	maxSuggestions     = 3
	suggestionMinRatio = 0.4
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Candidate is anything with an identity and a free-text name.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Scored struct {
	Candidate
	Facets Facets `json:"facets"`
	Score  int    `json:"score"`
}

// Describe renders the facets of a candidate, eg. "unit 1, quiz, #2".
func (s Scored) Describe() string {
	parts := make([]string, 0, 3)
	if s.Facets.Unit != "" {
		parts = append(parts, "unit "+s.Facets.Unit)
	}
	if s.Facets.Type != "" {
		parts = append(parts, s.Facets.Type)
	}
	if s.Facets.Number != "" {
		parts = append(parts, "#"+s.Facets.Number)
	}
	return strings.Join(parts, ", ")
}

// Resolution is the outcome of FindBestMatch. Exactly one of Match or NeedsClarification is set.
type Resolution struct {
	Match              *Scored    `json:"match,omitempty"`
	Confidence         Confidence `json:"confidence,omitempty"`
	NeedsClarification bool       `json:"needs_clarification"`
	Candidates         []Scored   `json:"candidates,omitempty"`
}

// NoMatchError is returned when no candidate reaches the threshold.
type NoMatchError struct {
	Input       string
	Suggestions []string
}

func (err *NoMatchError) Error() string {
	return fmt.Sprintf("no assignment matches %q", err.Input)
}

// Score rates how well a candidate's facets match the user's facets.
// Identical search strings score 100; otherwise the facet, token and containment credits add up.
func Score(user, cand Facets) int {
	if user.SearchString != "" && user.SearchString == cand.SearchString {
		return exactScore
	}

	var score float64
	if user.Unit != "" && user.Unit == cand.Unit {
		score += unitWeight
	}
	if user.Type != "" && user.Type == cand.Type {
		score += typeWeight
	}
	if user.Number != "" && user.Number == cand.Number {
		score += numberWeight
	}
	score += tokenOverlap(user.Tokens, cand.Tokens) * tokenOverlapWeight

	if user.Cleaned != "" && cand.Cleaned != "" {
		if strings.Contains(cand.Cleaned, user.Cleaned) || strings.Contains(user.Cleaned, cand.Cleaned) {
			score += containmentWeight
		} else if prefix := runePrefix(user.Cleaned, partialPrefixRatio); prefix != "" && strings.HasPrefix(cand.Cleaned, prefix) {
			score += partialPrefixWeight
		}
	}
	return int(math.Round(score))
}

// tokenOverlap is the fraction of user tokens present in the candidate.
func tokenOverlap(user, cand []string) float64 {
	if len(user) == 0 {
		return 0
	}
	set := make(map[string]bool, len(cand))
	for _, t := range cand {
		set[t] = true
	}
	seen := make(map[string]bool, len(user))
	var common, total int
	for _, t := range user {
		if seen[t] {
			continue
		}
		seen[t] = true
		total++
		if set[t] {
			common++
		}
	}
	return float64(common) / float64(total)
}

func runePrefix(s string, ratio float64) string {
	runes := []rune(s)
	n := int(float64(len(runes)) * ratio)
	if n == 0 {
		return ""
	}
	return string(runes[:n])
}

// FindBestMatch resolves user input against candidate names.
//   - top score >= HighConfidence: high confidence match
//   - top score >= threshold and LeadMargin ahead of the runner-up: medium confidence match
//   - otherwise the candidates >= threshold (at most MaxCandidates): one is a low confidence match,
//     several need clarification, none is a *NoMatchError.
func FindBestMatch(input string, candidates []Candidate, threshold int) (Resolution, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	user := Tokenize(ExpandAbbreviations(input))

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		facets := Tokenize(c.Name)
		scored = append(scored, Scored{Candidate: c, Facets: facets, Score: Score(user, facets)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) == 0 {
		return Resolution{}, &NoMatchError{Input: input}
	}

	top := scored[0]
	if top.Score >= HighConfidence {
		return Resolution{Match: &top, Confidence: ConfidenceHigh}, nil
	}

	var runnerUp int
	if len(scored) > 1 {
		runnerUp = scored[1].Score
	}
	if top.Score >= threshold && top.Score-runnerUp >= LeadMargin {
		return Resolution{Match: &top, Confidence: ConfidenceMedium}, nil
	}

	above := make([]Scored, 0, MaxCandidates)
	for _, s := range scored {
		if s.Score < threshold || len(above) == MaxCandidates {
			break
		}
		above = append(above, s)
	}

	switch len(above) {
	case 0:
		return Resolution{}, &NoMatchError{Input: input, Suggestions: suggest(input, candidates)}
	case 1:
		return Resolution{Match: &above[0], Confidence: ConfidenceLow}, nil
	default:
		return Resolution{NeedsClarification: true, Candidates: above}, nil
	}
}

// suggest ranks candidate names by their character similarity to the input.
func suggest(input string, candidates []Candidate) []string {
	type ranked struct {
		name  string
		ratio float64
	}
	in := strings.Split(strings.ToLower(input), "")

	all := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		ratio := difflib.NewMatcher(in, strings.Split(strings.ToLower(c.Name), "")).Ratio()
		if ratio >= suggestionMinRatio {
			all = append(all, ranked{name: c.Name, ratio: ratio})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ratio > all[j].ratio })

	names := make([]string, 0, maxSuggestions)
	for i := 0; i < len(all) && i < maxSuggestions; i++ {
		names = append(names, all[i].name)
	}
	return names
}
