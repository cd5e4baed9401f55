package intent

import (
	"math"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

type Action string

const (
	ActionFind    Action = "find"
	ActionAnalyze Action = "analyze"
)

const TargetStudents = "students"

// Confidence increments, one per detected signal. A status word is the strongest hint of
// what a teacher wants, a target word the weakest.
const (
	ActionWeight  = 0.2
	TargetWeight  = 0.1
	StatusWeight  = 0.3
	SubjectWeight = 0.2
	TypeWeight    = 0.2
	InverseWeight = 0.1
	NameWeight    = 0.2

	// MinConfidence rejects low-signal messages rather than guessing at them.
	MinConfidence = 0.5
)

// Components are the slots detected by keyword scanning.
type Components struct {
	Action         Action             `json:"action,omitempty"`
	Target         string             `json:"target,omitempty"`
	Status         string             `json:"status,omitempty"`
	Subject        gradebook.Category `json:"subject,omitempty"`
	AssignmentType gradebook.Type     `json:"assignment_type,omitempty"`
	Inverse        bool               `json:"inverse,omitempty"`
	StudentName    string             `json:"student_name,omitempty"`
	Confidence     float64            `json:"confidence"`
}

type Route string

const (
	RouteNone             Route = ""
	RouteAtRisk           Route = "atRisk"
	RouteDoingWell        Route = "doingWell"
	RouteMissingInSubject Route = "missingInSubject"
	RouteAnalyzeByType    Route = "analyzeByType"
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var (
	findWords    = wordSet("who", "which", "find", "list", "show")
	analyzeWords = wordSet("how", "analyze", "analyse", "tell", "about")
	targetWords  = wordSet("who", "students", "student", "kids", "pupils", "everyone", "anyone")
	inverseWords = wordSet("not", "isn't", "aren't", "never", "no", "nobody")

	// statusWords are checked in order; the first status with a word in the message wins.
	statusWords = []struct {
		status string
		words  map[string]bool
	}{
		{StatusMissingWork, wordSet("missing", "unsubmitted", "incomplete", "late")},
		{StatusFailing, wordSet("failing", "failed", "fail", "flunking")},
		{StatusAtRisk, wordSet("risk", "at-risk", "struggling", "behind")},
		{StatusDoingWell, wordSet("well", "excelling", "thriving", "succeeding", "top", "best")},
	}

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`how(?: is|'s) (\pL[\pL'-]*(?: \pL[\pL'-]*)?) doing`),
		regexp.MustCompile(`what about (\pL[\pL'-]*(?: \pL[\pL'-]*)?)`),
		regexp.MustCompile(`tell me about (\pL[\pL'-]*(?: \pL[\pL'-]*)?)`),
	}
	// nameStops end a captured name; "what about maria in math" names maria.
	nameStops = wordSet("in", "on", "with", "for", "at", "doing", "and", "this", "today", "lately")
	// notNames are phrases the name patterns catch that refer to the whole class.
	notNames = wordSet("the", "the class", "class", "my class", "everyone", "the students", "my students", "students")
)

func splitWords(msg string) []string {
	fields := strings.Fields(msg)
	out := fields[:0]
	for _, f := range fields {
		if w := strings.Trim(f, ".,!?;:\"()"); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func extractName(msg string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		words := strings.Fields(m[1])
		for i, w := range words {
			if nameStops[w] {
				words = words[:i]
				break
			}
			if strings.HasSuffix(w, "'s") {
				words[i] = strings.TrimSuffix(w, "'s")
				words = words[:i+1]
				break
			}
		}
		n := strings.Join(words, " ")
		if n == "" || notNames[n] {
			continue
		}
		return n
	}
	return ""
}

// Analyze scans the message for action, target, status, subject, type, negation and student name.
// It returns nil when the accumulated confidence is under MinConfidence.
func Analyze(message string) *Components {
	msg := Clean(message)
	words := splitWords(msg)
	c := &Components{}
	var score float64

	for _, w := range words {
		if findWords[w] {
			c.Action = ActionFind
			break
		}
	}
	if c.Action == "" {
		for _, w := range words {
			if analyzeWords[w] {
				c.Action = ActionAnalyze
				break
			}
		}
	}
	if c.Action != "" {
		score += ActionWeight
	}

	for _, w := range words {
		if targetWords[w] {
			c.Target = TargetStudents
			score += TargetWeight
			break
		}
	}

statuses:
	for _, sw := range statusWords {
		for _, w := range words {
			if sw.words[w] {
				c.Status = sw.status
				score += StatusWeight
				break statuses
			}
		}
	}

	for _, w := range words {
		if cat, ok := gradebook.CategoryFromSubject(w); ok {
			c.Subject = cat
			score += SubjectWeight
			break
		}
	}

	for _, w := range words {
		if typ, ok := gradebook.TypeFromWord(w); ok {
			c.AssignmentType = typ
			score += TypeWeight
			break
		}
	}

	for _, w := range words {
		if inverseWords[w] {
			c.Inverse = true
			score += InverseWeight
			break
		}
	}

	if c.Action == ActionAnalyze {
		if n := extractName(msg); n != "" {
			c.StudentName = n
			score += NameWeight
		}
	}

	c.Confidence = math.Round(score*10) / 10
	if c.Confidence < MinConfidence {
		return nil
	}
	return c
}

var (
	errNoTarget  = errors.New(`Who should I look for? Try something like "Which students are failing in math?"`)
	errNoStudent = errors.New(`Which student do you mean? Try something like "How is Maria doing on tests?"`)
)

// Validate checks that the slots make sense together; the error message is meant for the teacher.
func (c *Components) Validate() error {
	switch c.Action {
	case ActionFind:
		if c.Target == "" {
			return core.NewValidationError(errNoTarget, core.FieldError{Field: "target", Error: "required"})
		}
	case ActionAnalyze:
		if c.StudentName == "" {
			return core.NewValidationError(errNoStudent, core.FieldError{Field: "student", Error: "required"})
		}
	}
	return nil
}

// EffectiveStatus applies negation: "not doing well" is at risk, "not failing" is doing well.
func (c *Components) EffectiveStatus() string {
	if !c.Inverse {
		return c.Status
	}
	switch c.Status {
	case StatusFailing, StatusAtRisk:
		return StatusDoingWell
	case StatusDoingWell:
		return StatusAtRisk
	}
	return c.Status
}

// Route picks the query answering a validated set of components; RouteNone when none does.
func (c *Components) Route() Route {
	switch c.Action {
	case ActionFind:
		switch c.EffectiveStatus() {
		case StatusFailing, StatusAtRisk:
			return RouteAtRisk
		case StatusDoingWell:
			return RouteDoingWell
		case StatusMissingWork:
			if c.Subject != "" {
				return RouteMissingInSubject
			}
		}
	case ActionAnalyze:
		if c.StudentName != "" && c.AssignmentType != "" {
			return RouteAnalyzeByType
		}
	}
	return RouteNone
}
