package sqlxrepos

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
)

// recorder is a core.DBQueryer that remembers the last query instead of running it.
type recorder struct {
	query string
	args  []interface{}
	err   error
}

func (r *recorder) SelectContext(_ context.Context, _ interface{}, query string, args ...interface{}) error {
	r.query = query
	r.args = args
	return r.err
}

func (r *recorder) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return r.SelectContext(ctx, dest, query, args...)
}

func (r *recorder) Rebind(query string) string {
	return strings.ReplaceAll(query, "?", "$")
}

func Test_gradesFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     gradebook.GradeFilter
		wantSuffix string
		wantArgs   []interface{}
	}{
		{
			name:       "teacher only",
			wantSuffix: "a.teacher_id = ? ORDER BY a.name, g.student_id",
			wantArgs:   []interface{}{"t1", "t1"},
		},
		{
			name:       "student",
			filter:     gradebook.GradeFilter{StudentID: "s1"},
			wantSuffix: "a.teacher_id = ? AND g.student_id = ? ORDER BY a.name, g.student_id",
			wantArgs:   []interface{}{"t1", "t1", "s1"},
		},
		{
			name:       "student and assignment",
			filter:     gradebook.GradeFilter{StudentID: "s1", AssignmentID: "a1"},
			wantSuffix: "AND g.student_id = ? AND g.assignment_id = ? ORDER BY a.name, g.student_id",
			wantArgs:   []interface{}{"t1", "t1", "s1", "a1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := gradesFilter("t1", tt.filter)
			assert.True(t, strings.HasSuffix(query, tt.wantSuffix), query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_gradeRow_record(t *testing.T) {
	row := gradeRow{
		StudentID:      "s1",
		AssignmentID:   "a1",
		TeacherID:      "t1",
		Grade:          null.StringFrom(" 18 "),
		AssignmentName: "Unit 1 Math Quiz",
		MaxPoints:      null.Float64From(20),
	}
	rec := row.record()
	pct, ok := rec.Percent()
	require.True(t, ok)
	assert.Equal(t, 90.0, pct)
	assert.Equal(t, "Unit 1 Math Quiz", rec.AssignmentName)

	row.Grade = null.String{}
	assert.True(t, row.record().IsMissing())

	row.Grade = null.StringFrom("")
	assert.True(t, row.record().IsMissing())

	row.Grade = null.StringFrom("0")
	assert.False(t, row.record().IsMissing())
}

func Test_gradebookRepository_queries(t *testing.T) {
	ctx := context.Background()
	db := &recorder{}
	repo := NewGradebookRepository(db)

	_, err := repo.ListStudents(ctx, "t1")
	require.NoError(t, err)
	assert.Contains(t, db.query, "WHERE g.teacher_id = $ AND a.teacher_id = $")
	assert.Equal(t, []interface{}{"t1", "t1"}, db.args)

	_, err = repo.ListAssignments(ctx, "t1")
	require.NoError(t, err)
	assert.Contains(t, db.query, "WHERE teacher_id = $")
	assert.Equal(t, []interface{}{"t1"}, db.args)

	records, err := repo.ListGrades(ctx, "t1", gradebook.GradeFilter{AssignmentID: "a1"})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Contains(t, db.query, "g.assignment_id = $")
	assert.NotContains(t, db.query, "?")
}

func Test_gradebookRepository_errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	repo := NewGradebookRepository(&recorder{err: boom})

	_, err := repo.ListStudents(ctx, "t1")
	assert.Equal(t, boom, errors.Cause(err))
	assert.EqualError(t, err, "selecting students: connection refused")

	_, err = repo.ListAssignments(ctx, "t1")
	assert.Equal(t, boom, errors.Cause(err))

	_, err = repo.ListGrades(ctx, "t1", gradebook.GradeFilter{})
	assert.EqualError(t, err, "selecting grades: connection refused")
}
