// Package format renders analysis results as the text Rick answers with.
//
// Every renderer is a pure function of its input. Sections always come in the same order:
// headline, stats, optional warning, then the itemized list.
package format

import (
	"fmt"
	"strings"

	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick/analysis"
)

const (
	// MaxRecentGrades is how many grades a student summary lists before eliding the rest.
	MaxRecentGrades = 10
	// MaxMissingNames is how many assignment names a missing-work line shows before "...".
	MaxMissingNames = 3
)

// Plural renders a count with the matching noun, eg. "1 student", "3 students".
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Pct renders a percentage with one decimal.
func Pct(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

func students(n int) string {
	return Plural(n, "student", "students")
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

func inSubject(subject gradebook.Category) string {
	if subject == "" {
		return ""
	}
	return " in " + string(subject)
}

func bullet(b *strings.Builder, format string, args ...interface{}) {
	b.WriteString("\n- ")
	fmt.Fprintf(b, format, args...)
}

func line(b *strings.Builder, format string, args ...interface{}) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, format, args...)
}

// MissingWork renders the missing submissions of one assignment.
func MissingWork(r analysis.MissingWorkResult) string {
	name := r.Assignment.Name
	if r.Total == 0 {
		return fmt.Sprintf("Nobody has a grade-book entry for %s yet.", name)
	}
	if r.MissingCount == 0 {
		return fmt.Sprintf("Everyone turned in %s. All %s have a grade.", name, students(r.Total))
	}

	var b strings.Builder
	line(&b, "Missing work for %s", name)
	line(&b, "%d of %s (%s) %s not turned it in.", r.MissingCount, students(r.Total), Pct(r.MissingRate), hasHave(r.MissingCount))
	if r.Noteworthy {
		line(&b, "Warning: more than %s of the class is missing this assignment.", Pct(analysis.NoteworthyMissingRate))
	}
	line(&b, "Missing:")
	for _, s := range r.Missing {
		bullet(&b, "%s", s.FullName())
	}
	return b.String()
}

func hasHave(n int) string {
	if n == 1 {
		return "has"
	}
	return "have"
}

// Failures renders the students under the threshold on one assignment.
func Failures(r analysis.FailureResult) string {
	name := r.Assignment.Name
	if r.Graded == 0 {
		return fmt.Sprintf("No graded submissions yet for %s.", name)
	}

	var b strings.Builder
	line(&b, "Results for %s", name)
	line(&b, "Class average: %s (range %s to %s, %s graded)", Pct(r.Stats.Average), Pct(r.Stats.Min), Pct(r.Stats.Max), students(r.Graded))
	if len(r.Failing) == 0 {
		line(&b, "Nobody scored below %s.", Pct(r.Threshold))
		return b.String()
	}
	line(&b, "Below %s: %s (%s)", Pct(r.Threshold), students(len(r.Failing)), Pct(r.FailureRate))
	switch {
	case r.TooHard:
		line(&b, "Warning: more than %s of the class failed. The assignment may be too hard or need reteaching.", Pct(analysis.TooHardFailureRate))
	case r.TargetedIntervention:
		line(&b, "Only a few students failed. They may need targeted intervention.")
	}
	for _, g := range r.Failing {
		bullet(&b, "%s: %s", g.Student.FullName(), Pct(g.Percent))
	}
	return b.String()
}

// AssignmentReport renders failures then missing work.
func AssignmentReport(r analysis.AssignmentReport) string {
	return Failures(r.Failures) + "\n\n" + MissingWork(r.Missing)
}

var tierText = map[analysis.Tier]string{
	analysis.TierExcellent:    "doing excellent work",
	analysis.TierStrong:       "doing strong work",
	analysis.TierSatisfactory: "doing satisfactory work",
	analysis.TierPassing:      "passing but could use some support",
	analysis.TierNeedsSupport: "struggling and needs support",
}

var consistencyText = map[analysis.Consistency]string{
	analysis.ConsistencyVery:     "Grades are very consistent.",
	analysis.ConsistencyVaries:   "Grades vary notably from one assignment to the next.",
	analysis.ConsistencyModerate: "Grades show moderate variation.",
}

func gradeList(b *strings.Builder, grades []analysis.GradeEntry) {
	for i, g := range grades {
		if i == MaxRecentGrades {
			bullet(b, "...and %d more", len(grades)-MaxRecentGrades)
			break
		}
		bullet(b, "%s: %s", g.Name, Pct(g.Percent))
	}
}

// Student renders a per-student performance summary.
func Student(r analysis.StudentResult) string {
	name := r.Student.FullName()
	var b strings.Builder
	if r.Stats.Count == 0 {
		line(&b, "%s has no graded work yet.", name)
		if r.MissingCount > 0 {
			line(&b, "Missing: %s", Plural(r.MissingCount, "assignment", "assignments"))
		}
		return b.String()
	}

	line(&b, "%s is %s with an average of %s.", name, tierText[r.Tier], Pct(r.Stats.Average))
	line(&b, "Graded: %s (range %s to %s, std dev %.1f)",
		Plural(r.Stats.Count, "assignment", "assignments"), Pct(r.Stats.Min), Pct(r.Stats.Max), r.Stats.StdDev)
	if r.MissingCount > 0 {
		line(&b, "Missing: %s", Plural(r.MissingCount, "assignment", "assignments"))
	}
	if len(r.Categories) > 1 {
		line(&b, "Strongest: %s (%s). Weakest: %s (%s).",
			r.Strongest.Category, Pct(r.Strongest.Average), r.Weakest.Category, Pct(r.Weakest.Average))
	}
	if r.SupportNeeded {
		line(&b, "Warning: a %.1f point gap between %s and %s suggests extra support in %s.",
			r.Strongest.Average-r.Weakest.Average, r.Strongest.Category, r.Weakest.Category, r.Weakest.Category)
	}
	if text, ok := consistencyText[r.Consistency]; ok {
		line(&b, "%s", text)
	}
	line(&b, "Recent grades:")
	gradeList(&b, r.Recent)
	return b.String()
}

// ByType renders a student's results on one kind of assignment.
func ByType(r analysis.TypeResult) string {
	name := r.Student.FullName()
	kind := strings.ToLower(string(r.Type))
	var b strings.Builder
	if r.Stats.Count == 0 {
		line(&b, "%s has no graded %s work yet.", name, kind)
		if r.MissingCount > 0 {
			line(&b, "Missing: %s", Plural(r.MissingCount, "assignment", "assignments"))
		}
		return b.String()
	}

	line(&b, "%s on %s work: average %s over %s.", name, kind, Pct(r.Stats.Average), Plural(r.Stats.Count, "assignment", "assignments"))
	line(&b, "Range: %s to %s", Pct(r.Stats.Min), Pct(r.Stats.Max))
	if r.MissingCount > 0 {
		line(&b, "Missing: %s", Plural(r.MissingCount, "assignment", "assignments"))
	}
	gradeList(&b, r.Grades)
	return b.String()
}

// ClassByType renders the class results on one kind of assignment.
func ClassByType(r analysis.ClassTypeResult) string {
	kind := strings.ToLower(string(r.Type))
	if r.Stats.Count == 0 {
		return fmt.Sprintf("No graded %s work yet.", kind)
	}

	var b strings.Builder
	line(&b, "Class on %s work: average %s over %s.", kind, Pct(r.Stats.Average), Plural(r.Stats.Count, "graded submission", "graded submissions"))
	line(&b, "Range: %s to %s", Pct(r.Stats.Min), Pct(r.Stats.Max))
	if r.MissingCount > 0 {
		line(&b, "Missing: %s", Plural(r.MissingCount, "submission", "submissions"))
	}
	line(&b, "By assignment, lowest first:")
	gradeList(&b, r.Assignments)
	return b.String()
}

// Population renders an at-risk or doing-well list.
func Population(r analysis.PopulationResult) string {
	var b strings.Builder
	n := len(r.Students)
	switch r.Status {
	case analysis.StatusDoingWell:
		if n == 0 {
			return fmt.Sprintf("No students are at or above %s%s yet.", Pct(r.Threshold), inSubject(r.Subject))
		}
		line(&b, "%s %s doing well (at or above %s)%s", students(n), isAre(n), Pct(r.Threshold), inSubject(r.Subject))
	default:
		if n == 0 {
			return fmt.Sprintf("Good news: no students are below %s%s.", Pct(r.Threshold), inSubject(r.Subject))
		}
		line(&b, "%s %s at risk (below %s)%s", students(n), isAre(n), Pct(r.Threshold), inSubject(r.Subject))
	}
	line(&b, "Out of %s with graded work.", students(r.Evaluated))
	for _, s := range r.Students {
		bullet(&b, "%s: %s", s.Student.FullName(), Pct(s.Average))
	}
	return b.String()
}

func assignmentNames(names []string) string {
	if len(names) <= MaxMissingNames {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:MaxMissingNames], ", ") + ", ..."
}

// Missing renders students with missing work, across the class or in one subject.
func Missing(r analysis.MissingSummary) string {
	n := len(r.Students)
	var b strings.Builder
	if r.Subject != "" {
		if n == 0 {
			return fmt.Sprintf("No students are missing work in %s.", r.Subject)
		}
		line(&b, "%s %s missing work in %s", students(n), isAre(n), r.Subject)
	} else {
		if n == 0 {
			return fmt.Sprintf("No students have %d or more missing assignments.", r.MinMissing)
		}
		line(&b, "%s %s missing %d or more assignments", students(n), isAre(n), r.MinMissing)
	}
	for _, s := range r.Students {
		bullet(&b, "%s: %d missing (%s): %s", s.Student.FullName(), s.MissingCount, Pct(s.MissingRate), assignmentNames(s.Assignments))
	}
	return b.String()
}

// ClassAverage renders the class-wide aggregate.
func ClassAverage(r analysis.ClassAverageResult) string {
	if r.Stats.Count == 0 {
		return "No graded submissions yet."
	}
	var b strings.Builder
	line(&b, "Class average: %s", Pct(r.Stats.Average))
	line(&b, "Range: %s to %s across %s (std dev %.1f)",
		Pct(r.Stats.Min), Pct(r.Stats.Max), Plural(r.Stats.Count, "graded submission", "graded submissions"), r.Stats.StdDev)
	line(&b, "%s, %s, %s.",
		students(r.Students), Plural(r.Assignments, "assignment", "assignments"), Plural(r.MissingCount, "missing submission", "missing submissions"))
	return b.String()
}

// Digest renders the class digest mailed to a teacher.
func Digest(d analysis.Digest) string {
	sections := []string{
		ClassAverage(d.Class),
		Population(d.AtRisk),
		Missing(d.ChronicMissing),
	}
	return strings.Join(sections, "\n\n")
}
