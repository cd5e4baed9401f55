package format

import (
	"fmt"
	"strings"

	"github.com/trezcool/gradebook/core/rick/resolve"
)

// Greeting answers a bare hello.
func Greeting(examples []string) string {
	var b strings.Builder
	line(&b, "Hi! I'm Rick. Ask me about your class, for example:")
	for _, ex := range examples {
		bullet(&b, "%s", ex)
	}
	return b.String()
}

// NotUnderstood answers a message no pattern or keyword route could handle.
func NotUnderstood(examples []string) string {
	var b strings.Builder
	line(&b, "Sorry, I don't know how to answer that yet. Try asking:")
	for _, ex := range examples {
		bullet(&b, "%s", ex)
	}
	return b.String()
}

const EmptyMessage = "Please type a question about your class."

// StudentClarification asks which of the candidates the teacher meant.
func StudentClarification(name string, candidates []resolve.StudentCandidate) string {
	var b strings.Builder
	line(&b, "I found %s matching %q. Which one do you mean?", Plural(len(candidates), "student", "students"), name)
	for _, c := range candidates {
		bullet(&b, "%s", c.Student.FullName())
	}
	return b.String()
}

// AssignmentClarification asks which of the candidate assignments the teacher meant.
func AssignmentClarification(name string, candidates []resolve.AssignmentCandidate) string {
	var b strings.Builder
	line(&b, "I found %s matching %q. Which one do you mean?", Plural(len(candidates), "assignment", "assignments"), name)
	for _, c := range candidates {
		if d := c.Describe(); d != "" {
			bullet(&b, "%s (%s)", c.Assignment.Name, d)
			continue
		}
		bullet(&b, "%s", c.Assignment.Name)
	}
	return b.String()
}

// NotFound explains that no student or assignment matched, with suggestions when there are some.
func NotFound(err *resolve.NotFoundError) string {
	msg := fmt.Sprintf("I couldn't find any %s matching %q.", err.Kind, err.Name)
	if len(err.Suggestions) > 0 {
		msg += " Did you mean " + strings.Join(err.Suggestions, ", ") + "?"
	}
	return msg
}
