// Package rick answers teachers' plain-English questions about their grade book.
//
// A question goes through the regex intent parser, then the keyword fallback, has its student
// or assignment names resolved against the teacher's roster, is dispatched to an analytic engine
// and is finally rendered as text. Every step short of a data-access failure ends in a Response.
package rick

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick/analysis"
	"github.com/trezcool/gradebook/core/rick/format"
	"github.com/trezcool/gradebook/core/rick/intent"
	"github.com/trezcool/gradebook/core/rick/resolve"
)

type Service struct {
	repo       gradebook.Repository
	engine     *analysis.Engine
	logger     core.Logger
	thresholds Thresholds
}

func NewService(repo gradebook.Repository, logger core.Logger, thresholds Thresholds) *Service {
	return &Service{
		repo:       repo,
		engine:     analysis.NewEngine(repo),
		logger:     logger,
		thresholds: thresholds,
	}
}

// Thresholds returns the cut-offs the service was built with.
func (svc *Service) Thresholds() Thresholds {
	return svc.thresholds
}

// HandleQuery answers message on behalf of the teacher.
// The error is only set when the grade book could not be read.
func (svc *Service) HandleQuery(ctx context.Context, message, teacherID string) (Response, error) {
	o, err := svc.handle(ctx, message, teacherID)
	if err != nil {
		svc.logger.Error("rick: answering query", err, core.TeacherID(teacherID))
		return Response{}, err
	}
	res := toResponse(o)
	svc.logger.Debug("rick: answered query", map[string]interface{}{
		"intent":              res.Intent,
		"success":             res.Success,
		"needs_clarification": res.NeedsClarification,
	}, core.TeacherID(teacherID))
	return res, nil
}

// Digest computes the class overview mailed to the teacher.
func (svc *Service) Digest(ctx context.Context, teacherID string) (analysis.Digest, error) {
	return svc.engine.Digest(ctx, teacherID, svc.thresholds.AtRisk, svc.thresholds.ChronicMissing)
}

func notUnderstood() outcome {
	return Failure{Intent: intent.Unknown, Text: format.NotUnderstood(intent.Examples)}
}

func (svc *Service) handle(ctx context.Context, message, teacherID string) (outcome, error) {
	if strings.TrimSpace(message) == "" {
		return Failure{Intent: intent.Unknown, Text: format.EmptyMessage}, nil
	}
	if intent.IsGreeting(message) {
		return Answer{Intent: intent.Greeting, Text: format.Greeting(intent.Examples)}, nil
	}

	if q := intent.Parse(message); q.Intent != intent.Unknown {
		return svc.dispatch(ctx, teacherID, q)
	}
	return svc.fallback(ctx, teacherID, message)
}

func (svc *Service) dispatch(ctx context.Context, teacherID string, q intent.Query) (outcome, error) {
	switch q.Intent {
	case intent.Greeting:
		return Answer{Intent: q.Intent, Text: format.Greeting(intent.Examples)}, nil

	case intent.ClassAverage:
		return svc.classAverage(ctx, teacherID)

	case intent.ShowGrades:
		if q.Entity(intent.SlotStudent) == "" {
			return svc.classAverage(ctx, teacherID)
		}
		return svc.showGrades(ctx, teacherID, q.Entity(intent.SlotStudent))

	case intent.AnalyzeStudent:
		return svc.studentPerformance(ctx, teacherID, q.Intent, q.Entity(intent.SlotStudent))

	case intent.AnalyzeByType:
		typ, ok := gradebook.TypeFromWord(q.Entity(intent.SlotType))
		if !ok {
			return Failure{Intent: q.Intent, Text: fmt.Sprintf("I don't know the assignment type %q.", q.Entity(intent.SlotType))}, nil
		}
		if q.Entity(intent.SlotStudent) == "" {
			return svc.classByType(ctx, teacherID, typ)
		}
		return svc.studentByType(ctx, teacherID, q.Entity(intent.SlotStudent), typ)

	case intent.ChronicMissing:
		return svc.missing(ctx, teacherID, q.Intent, svc.thresholds.ChronicMissing, "")

	case intent.MissingWorkBySubject:
		subject, ok := gradebook.CategoryFromSubject(q.Entity(intent.SlotSubject))
		if !ok {
			return unknownSubject(q.Intent, q.Entity(intent.SlotSubject)), nil
		}
		return svc.missing(ctx, teacherID, q.Intent, 1, subject)

	case intent.FilterByStatus:
		var subject gradebook.Category
		if word := q.Entity(intent.SlotSubject); word != "" {
			cat, ok := gradebook.CategoryFromSubject(word)
			if !ok {
				return unknownSubject(q.Intent, word), nil
			}
			subject = cat
		}
		return svc.byStatus(ctx, teacherID, q.Entity(intent.SlotStatus), subject)

	case intent.MissingWork, intent.FailureAnalysis, intent.AnalyzeAssignment:
		return svc.assignment(ctx, teacherID, q.Intent, q.Entity(intent.SlotAssignment))
	}
	return notUnderstood(), nil
}

// fallback routes the message through the keyword analyzer.
func (svc *Service) fallback(ctx context.Context, teacherID, message string) (outcome, error) {
	c := intent.Analyze(message)
	if c == nil {
		return notUnderstood(), nil
	}
	if err := c.Validate(); err != nil {
		if core.IsValidationError(err) {
			return Failure{Intent: intent.Unknown, Text: err.Error()}, nil
		}
		return nil, err
	}

	switch c.Route() {
	case intent.RouteAtRisk, intent.RouteDoingWell:
		return svc.byStatus(ctx, teacherID, c.EffectiveStatus(), c.Subject)
	case intent.RouteMissingInSubject:
		return svc.missing(ctx, teacherID, intent.MissingWorkBySubject, 1, c.Subject)
	case intent.RouteAnalyzeByType:
		return svc.studentByType(ctx, teacherID, c.StudentName, c.AssignmentType)
	}
	return notUnderstood(), nil
}

func unknownSubject(in intent.Intent, word string) outcome {
	return Failure{Intent: in, Text: fmt.Sprintf("I don't know the subject %q.", word)}
}

func (svc *Service) byStatus(ctx context.Context, teacherID, status string, subject gradebook.Category) (outcome, error) {
	var (
		res analysis.PopulationResult
		err error
	)
	switch status {
	case intent.StatusFailing:
		res, err = svc.engine.AtRisk(ctx, teacherID, svc.thresholds.Failure, subject)
	case intent.StatusAtRisk:
		res, err = svc.engine.AtRisk(ctx, teacherID, svc.thresholds.AtRisk, subject)
	case intent.StatusDoingWell:
		res, err = svc.engine.DoingWell(ctx, teacherID, svc.thresholds.DoingWell, subject)
	case intent.StatusMissingWork:
		return svc.missing(ctx, teacherID, intent.FilterByStatus, 1, subject)
	default:
		return notUnderstood(), nil
	}
	if err != nil {
		return nil, err
	}
	return Answer{Intent: intent.FilterByStatus, Text: format.Population(res), Structured: res}, nil
}

func (svc *Service) missing(ctx context.Context, teacherID string, in intent.Intent, minMissing int, subject gradebook.Category) (outcome, error) {
	res, err := svc.engine.ChronicMissing(ctx, teacherID, minMissing, subject)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: in, Text: format.Missing(res), Structured: res}, nil
}

func (svc *Service) classAverage(ctx context.Context, teacherID string) (outcome, error) {
	res, err := svc.engine.ClassAverage(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: intent.ClassAverage, Text: format.ClassAverage(res), Structured: res}, nil
}

// findStudent resolves name; a non-nil outcome means the question ends there.
func (svc *Service) findStudent(ctx context.Context, teacherID string, in intent.Intent, name string) (gradebook.Student, outcome, error) {
	roster, err := svc.repo.ListStudents(ctx, teacherID)
	if err != nil {
		return gradebook.Student{}, nil, errors.Wrap(err, "listing students")
	}

	res, err := resolve.FindStudent(name, roster)
	if err != nil {
		var nf *resolve.NotFoundError
		if errors.As(err, &nf) {
			return gradebook.Student{}, Failure{Intent: in, Text: format.NotFound(nf)}, nil
		}
		return gradebook.Student{}, nil, err
	}
	if res.NeedsClarification {
		return gradebook.Student{}, Clarification{
			Intent:     in,
			Text:       format.StudentClarification(name, res.Candidates),
			Candidates: res.Candidates,
		}, nil
	}
	return *res.Student, nil, nil
}

func (svc *Service) findAssignment(ctx context.Context, teacherID string, in intent.Intent, name string) (gradebook.Assignment, outcome, error) {
	assignments, err := svc.repo.ListAssignments(ctx, teacherID)
	if err != nil {
		return gradebook.Assignment{}, nil, errors.Wrap(err, "listing assignments")
	}

	res, err := resolve.FindAssignment(name, assignments, svc.thresholds.AssignmentMatch)
	if err != nil {
		var nf *resolve.NotFoundError
		if errors.As(err, &nf) {
			return gradebook.Assignment{}, Failure{Intent: in, Text: format.NotFound(nf)}, nil
		}
		return gradebook.Assignment{}, nil, err
	}
	if res.NeedsClarification {
		return gradebook.Assignment{}, Clarification{
			Intent:     in,
			Text:       format.AssignmentClarification(name, res.Candidates),
			Candidates: res.Candidates,
		}, nil
	}
	return *res.Assignment, nil, nil
}

func (svc *Service) studentPerformance(ctx context.Context, teacherID string, in intent.Intent, name string) (outcome, error) {
	s, o, err := svc.findStudent(ctx, teacherID, in, name)
	if err != nil || o != nil {
		return o, err
	}
	res, err := svc.engine.StudentPerformance(ctx, teacherID, s)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: in, Text: format.Student(res), Structured: res}, nil
}

// showGrades answers "show grades for X". X is tried as a student first, then as an assignment;
// when neither matches, the student failure is kept.
func (svc *Service) showGrades(ctx context.Context, teacherID, name string) (outcome, error) {
	o, err := svc.studentPerformance(ctx, teacherID, intent.ShowGrades, name)
	if err != nil {
		return nil, err
	}
	if _, failed := o.(Failure); !failed {
		return o, nil
	}

	alt, err := svc.assignment(ctx, teacherID, intent.AnalyzeAssignment, name)
	if err != nil {
		return nil, err
	}
	if _, failed := alt.(Failure); failed {
		return o, nil
	}
	return alt, nil
}

func (svc *Service) studentByType(ctx context.Context, teacherID, name string, typ gradebook.Type) (outcome, error) {
	s, o, err := svc.findStudent(ctx, teacherID, intent.AnalyzeByType, name)
	if err != nil || o != nil {
		return o, err
	}
	res, err := svc.engine.StudentByType(ctx, teacherID, s, typ)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: intent.AnalyzeByType, Text: format.ByType(res), Structured: res}, nil
}

func (svc *Service) classByType(ctx context.Context, teacherID string, typ gradebook.Type) (outcome, error) {
	res, err := svc.engine.ClassByType(ctx, teacherID, typ)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: intent.AnalyzeByType, Text: format.ClassByType(res), Structured: res}, nil
}

func (svc *Service) assignment(ctx context.Context, teacherID string, in intent.Intent, name string) (outcome, error) {
	a, o, err := svc.findAssignment(ctx, teacherID, in, name)
	if err != nil || o != nil {
		return o, err
	}

	switch in {
	case intent.MissingWork:
		res, err := svc.engine.MissingWork(ctx, teacherID, a)
		if err != nil {
			return nil, err
		}
		return Answer{Intent: in, Text: format.MissingWork(res), Structured: res}, nil
	case intent.FailureAnalysis:
		res, err := svc.engine.Failures(ctx, teacherID, a, svc.thresholds.Failure)
		if err != nil {
			return nil, err
		}
		return Answer{Intent: in, Text: format.Failures(res), Structured: res}, nil
	}

	res, err := svc.engine.AssignmentReport(ctx, teacherID, a, svc.thresholds.Failure)
	if err != nil {
		return nil, err
	}
	return Answer{Intent: intent.AnalyzeAssignment, Text: format.AssignmentReport(res), Structured: res}, nil
}
