package sqlxrepos

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

const (
	studentsQuery = `
SELECT DISTINCT s.id, s.first_name, s.last_name, s.email
FROM student s
JOIN grade g ON g.student_id = s.id
JOIN assignment a ON a.id = g.assignment_id
WHERE g.teacher_id = ? AND a.teacher_id = ?
ORDER BY s.last_name, s.first_name`

	assignmentsQuery = `
SELECT id, teacher_id, name, due_date, max_points
FROM assignment
WHERE teacher_id = ?
ORDER BY name`

	gradesQuery = `
SELECT g.student_id, g.assignment_id, g.teacher_id, g.grade,
	a.name AS assignment_name, a.max_points, a.due_date
FROM grade g
JOIN assignment a ON a.id = g.assignment_id
WHERE g.teacher_id = ? AND a.teacher_id = ?`
)

// gradeRow is a grade joined with its assignment, as scanned from the database.
type gradeRow struct {
	StudentID      string       `db:"student_id"`
	AssignmentID   string       `db:"assignment_id"`
	TeacherID      string       `db:"teacher_id"`
	Grade          null.String  `db:"grade"`
	AssignmentName string       `db:"assignment_name"`
	MaxPoints      null.Float64 `db:"max_points"`
	DueDate        null.Time    `db:"due_date"`
}

func (r gradeRow) record() gradebook.GradeRecord {
	return gradebook.GradeRecord{
		StudentID:      r.StudentID,
		AssignmentID:   r.AssignmentID,
		TeacherID:      r.TeacherID,
		RawGrade:       r.Grade,
		AssignmentName: r.AssignmentName,
		MaxPoints:      r.MaxPoints,
		DueDate:        r.DueDate,
	}
}

type gradebookRepository struct {
	db core.DBQueryer
}

var _ gradebook.Repository = (*gradebookRepository)(nil)

// NewGradebookRepository returns a gradebook.Repository reading from a SQL database (*sqlx.DB or *sqlx.Tx).
func NewGradebookRepository(db core.DBQueryer) gradebook.Repository {
	return &gradebookRepository{db: db}
}

func (repo *gradebookRepository) ListStudents(ctx context.Context, teacherID string) ([]gradebook.Student, error) {
	students := make([]gradebook.Student, 0)
	if err := repo.db.SelectContext(ctx, &students, repo.db.Rebind(studentsQuery), teacherID, teacherID); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo *gradebookRepository) ListAssignments(ctx context.Context, teacherID string) ([]gradebook.Assignment, error) {
	assignments := make([]gradebook.Assignment, 0)
	if err := repo.db.SelectContext(ctx, &assignments, repo.db.Rebind(assignmentsQuery), teacherID); err != nil {
		return nil, errors.Wrap(err, "selecting assignments")
	}
	return assignments, nil
}

func (repo *gradebookRepository) ListGrades(ctx context.Context, teacherID string, filter gradebook.GradeFilter) ([]gradebook.GradeRecord, error) {
	query, args := gradesFilter(teacherID, filter)

	rows := make([]gradeRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting grades")
	}

	records := make([]gradebook.GradeRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

// gradesFilter appends the filter conditions to gradesQuery.
func gradesFilter(teacherID string, filter gradebook.GradeFilter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(gradesQuery)
	args := []interface{}{teacherID, teacherID}

	if filter.StudentID != "" {
		b.WriteString(" AND g.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.AssignmentID != "" {
		b.WriteString(" AND g.assignment_id = ?")
		args = append(args, filter.AssignmentID)
	}
	b.WriteString(" ORDER BY a.name, g.student_id")
	return b.String(), args
}
