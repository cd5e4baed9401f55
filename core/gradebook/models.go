package gradebook

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"
)

type Student struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`
}

// FullName is the identity used for fuzzy matching and display.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type Assignment struct {
	ID        string       `json:"id" db:"id"`
	TeacherID string       `json:"teacher_id" db:"teacher_id"`
	Name      string       `json:"name" db:"name"`
	DueDate   null.Time    `json:"due_date" db:"due_date"`
	MaxPoints null.Float64 `json:"max_points" db:"max_points"`
}

// GradeRecord is one grade-book cell joined with its assignment.
type GradeRecord struct {
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	TeacherID    string `json:"teacher_id"`
	// RawGrade is the cell as read from the store; nil means not submitted / not graded.
	// Always read it through ParseGrade (or Score / Percent).
	RawGrade       interface{}  `json:"raw_grade"`
	AssignmentName string       `json:"assignment_name"`
	MaxPoints      null.Float64 `json:"max_points"`
	DueDate        null.Time    `json:"due_date"`
}

// Score returns the parsed raw grade; ok is false when the grade is missing.
func (r GradeRecord) Score() (float64, bool) {
	return ParseGrade(r.RawGrade)
}

// Percent returns the grade on a 0-100 scale; ok is false when the grade is missing.
func (r GradeRecord) Percent() (float64, bool) {
	score, ok := r.Score()
	if !ok {
		return 0, false
	}
	return Percent(score, r.MaxPoints), true
}

// IsMissing reports whether the student has no usable grade for the assignment.
func (r GradeRecord) IsMissing() bool {
	_, ok := r.Score()
	return !ok
}

// GradeFilter narrows ListGrades; empty fields are ignored.
type GradeFilter struct {
	StudentID    string
	AssignmentID string
}

// Repository is the read side of the grade book, always scoped to one teacher.
type Repository interface {
	// ListStudents returns the students having at least one grade row for the teacher.
	ListStudents(ctx context.Context, teacherID string) ([]Student, error)
	ListAssignments(ctx context.Context, teacherID string) ([]Assignment, error)
	// ListGrades returns the rows whose grade and assignment both belong to the teacher.
	ListGrades(ctx context.Context, teacherID string, filter GradeFilter) ([]GradeRecord, error)
}
