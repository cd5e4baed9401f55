// Package resolve matches free-text names from a question against a teacher's roster.
//
// Ambiguity is never an error: it comes back as a resolution that needs clarification.
// Only an empty result is an error (*NotFoundError).
package resolve

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick/normalize"
)

// Student matching thresholds, as normalized edit distances (0 = identical, 1 = nothing in common).
const (
	// StudentThreshold is the highest dissimilarity still considered a match.
	StudentThreshold = 0.4
	// ClearMatch is the dissimilarity under which the top result may be returned without asking.
	ClearMatch = 0.2
	// AmbiguityMargin is how far the runner-up must trail a clear match for it to be taken.
	AmbiguityMargin = 0.15
	// MaxStudentCandidates caps the clarification list and the "did you mean" list.
	MaxStudentCandidates = 3
	// SuggestionMinRatio is the lowest character similarity (0..1) a suggested student name needs.
	SuggestionMinRatio = 0.5
)

type Kind string

const (
	KindStudent    Kind = "student"
	KindAssignment Kind = "assignment"
)

// NotFoundError is returned when nothing on the roster resembles the name.
type NotFoundError struct {
	Kind        Kind
	Name        string
	Suggestions []string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", err.Kind, err.Name)
}

// IsNotFound reports whether the cause of err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

type StudentCandidate struct {
	Student gradebook.Student `json:"student"`
	// Score is the dissimilarity of the best matching field.
	Score float64 `json:"score"`
}

type StudentResolution struct {
	Student            *gradebook.Student `json:"student,omitempty"`
	NeedsClarification bool               `json:"needs_clarification"`
	Candidates         []StudentCandidate `json:"candidates,omitempty"`
}

// dissimilarity is the Levenshtein distance normalized by the longer string.
func dissimilarity(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// studentScore scores the name against first name, last name and full name; the best field wins.
func studentScore(name string, s gradebook.Student) float64 {
	best := 1.0
	for _, field := range []string{s.FirstName, s.LastName, s.FullName()} {
		field = core.CollapseSpaces(strings.ToLower(field))
		if field == "" {
			continue
		}
		if d := dissimilarity(name, field); d < best {
			best = d
		}
	}
	return best
}

// suggestStudents ranks the roster by the character similarity of the best matching field.
func suggestStudents(query string, roster []gradebook.Student) []string {
	type ranked struct {
		name  string
		ratio float64
	}
	in := strings.Split(query, "")

	all := make([]ranked, 0)
	for _, s := range roster {
		best := 0.0
		for _, field := range []string{s.FirstName, s.LastName, s.FullName()} {
			field = core.CollapseSpaces(strings.ToLower(field))
			if field == "" {
				continue
			}
			if r := difflib.NewMatcher(in, strings.Split(field, "")).Ratio(); r > best {
				best = r
			}
		}
		if best >= SuggestionMinRatio {
			all = append(all, ranked{name: s.FullName(), ratio: best})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ratio > all[j].ratio })

	names := make([]string, 0, MaxStudentCandidates)
	for i := 0; i < len(all) && i < MaxStudentCandidates; i++ {
		names = append(names, all[i].name)
	}
	return names
}

// FindStudent fuzzy matches name against the roster.
// A single match, or a top match under ClearMatch that leads the runner-up by more than AmbiguityMargin,
// resolves directly; otherwise up to MaxStudentCandidates are returned for clarification.
func FindStudent(name string, roster []gradebook.Student) (StudentResolution, error) {
	query := core.CollapseSpaces(strings.ToLower(name))
	if query == "" {
		return StudentResolution{}, &NotFoundError{Kind: KindStudent, Name: name}
	}

	matches := make([]StudentCandidate, 0)
	for _, s := range roster {
		if score := studentScore(query, s); score <= StudentThreshold {
			matches = append(matches, StudentCandidate{Student: s, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return matches[i].Student.FullName() < matches[j].Student.FullName()
	})

	switch {
	case len(matches) == 0:
		return StudentResolution{}, &NotFoundError{Kind: KindStudent, Name: name, Suggestions: suggestStudents(query, roster)}
	case len(matches) == 1:
		return StudentResolution{Student: &matches[0].Student}, nil
	case matches[0].Score < ClearMatch && matches[1].Score-matches[0].Score > AmbiguityMargin:
		return StudentResolution{Student: &matches[0].Student}, nil
	}

	if len(matches) > MaxStudentCandidates {
		matches = matches[:MaxStudentCandidates]
	}
	return StudentResolution{NeedsClarification: true, Candidates: matches}, nil
}

type AssignmentCandidate struct {
	Assignment gradebook.Assignment `json:"assignment"`
	Facets     normalize.Facets     `json:"facets"`
	Score      int                  `json:"score"`
}

// Describe renders the facets of the candidate, eg. "unit 1, quiz, #2".
func (c AssignmentCandidate) Describe() string {
	return normalize.Scored{Facets: c.Facets}.Describe()
}

type AssignmentResolution struct {
	Assignment         *gradebook.Assignment `json:"assignment,omitempty"`
	Confidence         normalize.Confidence  `json:"confidence,omitempty"`
	NeedsClarification bool                  `json:"needs_clarification"`
	Candidates         []AssignmentCandidate `json:"candidates,omitempty"`
}

// FindAssignment resolves name against the assignments through the facet-aware normalizer,
// since unit/type/number encodings defeat plain edit distance.
func FindAssignment(name string, assignments []gradebook.Assignment, threshold int) (AssignmentResolution, error) {
	byID := make(map[string]gradebook.Assignment, len(assignments))
	candidates := make([]normalize.Candidate, 0, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
		candidates = append(candidates, normalize.Candidate{ID: a.ID, Name: a.Name})
	}

	res, err := normalize.FindBestMatch(name, candidates, threshold)
	if err != nil {
		var noMatch *normalize.NoMatchError
		if errors.As(err, &noMatch) {
			return AssignmentResolution{}, &NotFoundError{Kind: KindAssignment, Name: name, Suggestions: noMatch.Suggestions}
		}
		return AssignmentResolution{}, errors.Wrap(err, "matching assignment")
	}

	if res.Match != nil {
		a := byID[res.Match.ID]
		return AssignmentResolution{Assignment: &a, Confidence: res.Confidence}, nil
	}

	out := AssignmentResolution{NeedsClarification: true}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, AssignmentCandidate{
			Assignment: byID[c.ID],
			Facets:     c.Facets,
			Score:      c.Score,
		})
	}
	return out, nil
}
