// Package analysis computes grade-book analytics for one teacher at a time.
package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/gradebook"
)

// Narrative heuristics.
const (
	// NoteworthyMissingRate flags an assignment many students skipped.
	NoteworthyMissingRate = 30.0
	// TooHardFailureRate suggests the assignment itself was the problem.
	TooHardFailureRate = 40.0
	// TargetedFailureRate suggests the few failing students need individual help.
	TargetedFailureRate = 15.0
	// SupportGap is the strongest/weakest category spread that calls for support.
	SupportGap = 10.0
	// ConsistentStdDev and VariedRange bound the consistency comment.
	ConsistentStdDev = 5.0
	VariedRange      = 20.0
)

// Population statuses.
const (
	StatusAtRisk    = "at-risk"
	StatusDoingWell = "doing-well"
)

// Tier cutoffs on a student's average.
const (
	ExcellentCutoff    = 90.0
	StrongCutoff       = 80.0
	SatisfactoryCutoff = 70.0
	PassingCutoff      = 60.0
)

// Engine runs the analyses against a teacher-scoped repository.
type Engine struct {
	repo gradebook.Repository
}

func NewEngine(repo gradebook.Repository) *Engine {
	return &Engine{repo: repo}
}

// grades lists the teacher's rows, dropping any row owned by another teacher.
func (e *Engine) grades(ctx context.Context, teacherID string, filter gradebook.GradeFilter) ([]gradebook.GradeRecord, error) {
	records, err := e.repo.ListGrades(ctx, teacherID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "listing grades")
	}
	scoped := make([]gradebook.GradeRecord, 0, len(records))
	for _, r := range records {
		if r.TeacherID == "" || r.TeacherID == teacherID {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}

func (e *Engine) roster(ctx context.Context, teacherID string) (map[string]gradebook.Student, error) {
	students, err := e.repo.ListStudents(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	byID := make(map[string]gradebook.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return byID, nil
}

func lookup(roster map[string]gradebook.Student, id string) gradebook.Student {
	if s, ok := roster[id]; ok {
		return s
	}
	return gradebook.Student{ID: id}
}

func byName(a, b gradebook.Student) bool {
	an, bn := strings.ToLower(a.FullName()), strings.ToLower(b.FullName())
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return gradebook.Round1(float64(part) / float64(total) * 100)
}

// MissingWork lists the students without a grade for the assignment, out of every student having a row for it.
func (e *Engine) MissingWork(ctx context.Context, teacherID string, a gradebook.Assignment) (MissingWorkResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{AssignmentID: a.ID})
	if err != nil {
		return MissingWorkResult{}, err
	}
	roster, err := e.roster(ctx, teacherID)
	if err != nil {
		return MissingWorkResult{}, err
	}

	res := MissingWorkResult{Assignment: a, Total: len(records), Missing: make([]gradebook.Student, 0)}
	for _, r := range records {
		if r.IsMissing() {
			res.Missing = append(res.Missing, lookup(roster, r.StudentID))
		}
	}
	sort.SliceStable(res.Missing, func(i, j int) bool { return byName(res.Missing[i], res.Missing[j]) })

	res.MissingCount = len(res.Missing)
	res.MissingRate = rate(res.MissingCount, res.Total)
	res.Noteworthy = res.MissingRate > NoteworthyMissingRate
	return res, nil
}

// Failures lists the graded students under threshold percent for the assignment.
func (e *Engine) Failures(ctx context.Context, teacherID string, a gradebook.Assignment, threshold float64) (FailureResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{AssignmentID: a.ID})
	if err != nil {
		return FailureResult{}, err
	}
	roster, err := e.roster(ctx, teacherID)
	if err != nil {
		return FailureResult{}, err
	}

	res := FailureResult{Assignment: a, Threshold: threshold, Failing: make([]StudentGrade, 0)}
	pcts := make([]float64, 0, len(records))
	for _, r := range records {
		pct, ok := r.Percent()
		if !ok {
			continue
		}
		pcts = append(pcts, pct)
		if pct < threshold {
			res.Failing = append(res.Failing, StudentGrade{Student: lookup(roster, r.StudentID), Percent: gradebook.Round1(pct)})
		}
	}
	sort.SliceStable(res.Failing, func(i, j int) bool {
		if res.Failing[i].Percent != res.Failing[j].Percent {
			return res.Failing[i].Percent < res.Failing[j].Percent
		}
		return byName(res.Failing[i].Student, res.Failing[j].Student)
	})

	res.Graded = len(pcts)
	res.Stats = gradebook.CalculateStats(pcts)
	res.FailureRate = rate(len(res.Failing), res.Graded)
	res.TooHard = res.FailureRate > TooHardFailureRate
	res.TargetedIntervention = len(res.Failing) > 0 && res.FailureRate < TargetedFailureRate
	return res, nil
}

// AssignmentReport combines the missing-work and failure analyses of one assignment.
func (e *Engine) AssignmentReport(ctx context.Context, teacherID string, a gradebook.Assignment, threshold float64) (AssignmentReport, error) {
	missing, err := e.MissingWork(ctx, teacherID, a)
	if err != nil {
		return AssignmentReport{}, err
	}
	failures, err := e.Failures(ctx, teacherID, a, threshold)
	if err != nil {
		return AssignmentReport{}, err
	}
	return AssignmentReport{Missing: missing, Failures: failures}, nil
}

func entries(records []gradebook.GradeRecord) ([]GradeEntry, []float64, int) {
	out := make([]GradeEntry, 0, len(records))
	pcts := make([]float64, 0, len(records))
	missing := 0
	for _, r := range records {
		pct, ok := r.Percent()
		if !ok {
			missing++
			continue
		}
		pcts = append(pcts, pct)
		out = append(out, GradeEntry{
			AssignmentID: r.AssignmentID,
			Name:         r.AssignmentName,
			Percent:      gradebook.Round1(pct),
			DueDate:      r.DueDate,
			Category:     gradebook.Categorize(r.AssignmentName),
		})
	}
	// latest due date first; undated entries last
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		if di.Valid != dj.Valid {
			return di.Valid
		}
		if di.Valid && !di.Time.Equal(dj.Time) {
			return di.Time.After(dj.Time)
		}
		return out[i].Name < out[j].Name
	})
	return out, pcts, missing
}

// TierFor bands an average.
func TierFor(average float64) Tier {
	switch {
	case average >= ExcellentCutoff:
		return TierExcellent
	case average >= StrongCutoff:
		return TierStrong
	case average >= SatisfactoryCutoff:
		return TierSatisfactory
	case average >= PassingCutoff:
		return TierPassing
	}
	return TierNeedsSupport
}

// ConsistencyFor comments on the spread of a set of grades.
func ConsistencyFor(s gradebook.Stats) Consistency {
	switch {
	case s.Count < 2:
		return ConsistencyNone
	case s.StdDev < ConsistentStdDev:
		return ConsistencyVery
	case s.Range() > VariedRange:
		return ConsistencyVaries
	}
	return ConsistencyModerate
}

// StudentPerformance analyses every graded assignment of the student.
func (e *Engine) StudentPerformance(ctx context.Context, teacherID string, s gradebook.Student) (StudentResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{StudentID: s.ID})
	if err != nil {
		return StudentResult{}, err
	}

	recent, pcts, missing := entries(records)
	res := StudentResult{
		Student:      s,
		Stats:        gradebook.CalculateStats(pcts),
		Categories:   gradebook.GroupByCategory(records),
		MissingCount: missing,
		Recent:       recent,
	}
	if res.Stats.Count > 0 {
		res.Tier = TierFor(res.Stats.Average)
	}
	res.Consistency = ConsistencyFor(res.Stats)
	if n := len(res.Categories); n > 0 {
		res.Strongest = &res.Categories[0]
		res.Weakest = &res.Categories[n-1]
		res.SupportNeeded = n > 1 && res.Strongest.Average-res.Weakest.Average > SupportGap
	}
	return res, nil
}

// StudentByType analyses the student's assignments of one type.
func (e *Engine) StudentByType(ctx context.Context, teacherID string, s gradebook.Student, typ gradebook.Type) (TypeResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{StudentID: s.ID})
	if err != nil {
		return TypeResult{}, err
	}

	ofType := make([]gradebook.GradeRecord, 0, len(records))
	for _, r := range records {
		if gradebook.AssignmentType(r.AssignmentName) == typ {
			ofType = append(ofType, r)
		}
	}
	grades, pcts, missing := entries(ofType)
	return TypeResult{
		Student:      s,
		Type:         typ,
		Stats:        gradebook.CalculateStats(pcts),
		MissingCount: missing,
		Grades:       grades,
	}, nil
}

// ClassByType aggregates the graded rows on assignments of one type, with the class average of each assignment.
func (e *Engine) ClassByType(ctx context.Context, teacherID string, typ gradebook.Type) (ClassTypeResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{})
	if err != nil {
		return ClassTypeResult{}, err
	}

	type acc struct {
		entry GradeEntry
		pcts  []float64
	}
	order := make([]string, 0)
	per := make(map[string]*acc)
	pcts := make([]float64, 0, len(records))
	missing := 0
	for _, r := range records {
		if gradebook.AssignmentType(r.AssignmentName) != typ {
			continue
		}
		a, seen := per[r.AssignmentID]
		if !seen {
			a = &acc{entry: GradeEntry{
				AssignmentID: r.AssignmentID,
				Name:         r.AssignmentName,
				DueDate:      r.DueDate,
				Category:     gradebook.Categorize(r.AssignmentName),
			}}
			per[r.AssignmentID] = a
			order = append(order, r.AssignmentID)
		}
		pct, ok := r.Percent()
		if !ok {
			missing++
			continue
		}
		pcts = append(pcts, pct)
		a.pcts = append(a.pcts, pct)
	}

	res := ClassTypeResult{Type: typ, Stats: gradebook.CalculateStats(pcts), MissingCount: missing, Assignments: make([]GradeEntry, 0, len(order))}
	for _, id := range order {
		a := per[id]
		if len(a.pcts) == 0 {
			continue
		}
		a.entry.Percent = gradebook.CalculateStats(a.pcts).Average
		res.Assignments = append(res.Assignments, a.entry)
	}
	sort.SliceStable(res.Assignments, func(i, j int) bool {
		ai, aj := res.Assignments[i], res.Assignments[j]
		if ai.Percent != aj.Percent {
			return ai.Percent < aj.Percent
		}
		return ai.Name < aj.Name
	})
	return res, nil
}

// rawAverage is a student's unrounded weighted average; thresholds compare against it.
type rawAverage struct {
	student gradebook.Student
	average float64
	graded  int
}

// averages computes each student's weighted average over the graded rows in subject (all subjects when empty).
// Rows with a positive max_points weigh by it; other rows count as a grade out of 100.
func (e *Engine) averages(ctx context.Context, teacherID string, subject gradebook.Category) ([]rawAverage, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{})
	if err != nil {
		return nil, err
	}
	roster, err := e.roster(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		earned, possible float64
		graded           int
	}
	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, r := range records {
		if subject != "" && gradebook.Categorize(r.AssignmentName) != subject {
			continue
		}
		score, ok := r.Score()
		if !ok {
			continue
		}
		a, seen := accs[r.StudentID]
		if !seen {
			a = &acc{}
			accs[r.StudentID] = a
			order = append(order, r.StudentID)
		}
		if r.MaxPoints.Valid && r.MaxPoints.Float64 > 0 {
			a.earned += score
			a.possible += r.MaxPoints.Float64
		} else {
			a.earned += score
			a.possible += 100
		}
		a.graded++
	}

	out := make([]rawAverage, 0, len(order))
	for _, id := range order {
		a := accs[id]
		out = append(out, rawAverage{
			student: lookup(roster, id),
			average: a.earned / a.possible * 100,
			graded:  a.graded,
		})
	}
	return out, nil
}

// AtRisk lists the students whose weighted average is below threshold, lowest first.
// A subject scopes the average to that subject's assignments; the cutoff stays the same.
func (e *Engine) AtRisk(ctx context.Context, teacherID string, threshold float64, subject gradebook.Category) (PopulationResult, error) {
	return e.population(ctx, teacherID, StatusAtRisk, threshold, subject, func(avg float64) bool { return avg < threshold })
}

// DoingWell lists the students whose weighted average is at least threshold, highest first.
func (e *Engine) DoingWell(ctx context.Context, teacherID string, threshold float64, subject gradebook.Category) (PopulationResult, error) {
	return e.population(ctx, teacherID, StatusDoingWell, threshold, subject, func(avg float64) bool { return avg >= threshold })
}

func (e *Engine) population(ctx context.Context, teacherID, status string, threshold float64, subject gradebook.Category, keep func(float64) bool) (PopulationResult, error) {
	avgs, err := e.averages(ctx, teacherID, subject)
	if err != nil {
		return PopulationResult{}, err
	}

	kept := make([]rawAverage, 0, len(avgs))
	for _, a := range avgs {
		if keep(a.average) {
			kept = append(kept, a)
		}
	}
	ascending := status == StatusAtRisk
	sort.SliceStable(kept, func(i, j int) bool {
		ki, kj := kept[i], kept[j]
		if ki.average != kj.average {
			return (ki.average < kj.average) == ascending
		}
		return byName(ki.student, kj.student)
	})

	res := PopulationResult{Status: status, Threshold: threshold, Subject: subject, Evaluated: len(avgs), Students: make([]StudentAverage, 0, len(kept))}
	for _, a := range kept {
		res.Students = append(res.Students, StudentAverage{Student: a.student, Average: gradebook.Round1(a.average), Graded: a.graded})
	}
	return res, nil
}

// ChronicMissing lists the students with at least minMissing ungraded rows in subject (all subjects when empty),
// most missing first, then highest missing rate.
func (e *Engine) ChronicMissing(ctx context.Context, teacherID string, minMissing int, subject gradebook.Category) (MissingSummary, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{})
	if err != nil {
		return MissingSummary{}, err
	}
	roster, err := e.roster(ctx, teacherID)
	if err != nil {
		return MissingSummary{}, err
	}

	order := make([]string, 0)
	per := make(map[string]*StudentMissing)
	for _, r := range records {
		if subject != "" && gradebook.Categorize(r.AssignmentName) != subject {
			continue
		}
		sm, seen := per[r.StudentID]
		if !seen {
			sm = &StudentMissing{Student: lookup(roster, r.StudentID), Assignments: make([]string, 0)}
			per[r.StudentID] = sm
			order = append(order, r.StudentID)
		}
		sm.Total++
		if r.IsMissing() {
			sm.MissingCount++
			sm.Assignments = append(sm.Assignments, r.AssignmentName)
		}
	}

	res := MissingSummary{MinMissing: minMissing, Subject: subject, Students: make([]StudentMissing, 0)}
	for _, id := range order {
		sm := per[id]
		if sm.MissingCount == 0 || sm.MissingCount < minMissing {
			continue
		}
		sm.MissingRate = rate(sm.MissingCount, sm.Total)
		sort.Strings(sm.Assignments)
		res.Students = append(res.Students, *sm)
	}
	sort.SliceStable(res.Students, func(i, j int) bool {
		si, sj := res.Students[i], res.Students[j]
		if si.MissingCount != sj.MissingCount {
			return si.MissingCount > sj.MissingCount
		}
		if si.MissingRate != sj.MissingRate {
			return si.MissingRate > sj.MissingRate
		}
		return byName(si.Student, sj.Student)
	})
	return res, nil
}

// ClassAverage aggregates every graded row of the teacher.
func (e *Engine) ClassAverage(ctx context.Context, teacherID string) (ClassAverageResult, error) {
	records, err := e.grades(ctx, teacherID, gradebook.GradeFilter{})
	if err != nil {
		return ClassAverageResult{}, err
	}

	students := make(map[string]bool)
	assignments := make(map[string]bool)
	pcts := make([]float64, 0, len(records))
	missing := 0
	for _, r := range records {
		students[r.StudentID] = true
		assignments[r.AssignmentID] = true
		pct, ok := r.Percent()
		if !ok {
			missing++
			continue
		}
		pcts = append(pcts, pct)
	}
	return ClassAverageResult{
		Stats:        gradebook.CalculateStats(pcts),
		Students:     len(students),
		Assignments:  len(assignments),
		MissingCount: missing,
	}, nil
}

// Digest gathers the class average, the at-risk students and the chronically missing students.
func (e *Engine) Digest(ctx context.Context, teacherID string, atRiskThreshold float64, minMissing int) (Digest, error) {
	class, err := e.ClassAverage(ctx, teacherID)
	if err != nil {
		return Digest{}, err
	}
	atRisk, err := e.AtRisk(ctx, teacherID, atRiskThreshold, "")
	if err != nil {
		return Digest{}, err
	}
	chronic, err := e.ChronicMissing(ctx, teacherID, minMissing, "")
	if err != nil {
		return Digest{}, err
	}
	return Digest{Class: class, AtRisk: atRisk, ChronicMissing: chronic}, nil
}
