package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
)

func TestGradebookRepository(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewGradebookRepository(db)
	ctx := context.Background()

	maria := db.AddStudent(gradebook.Student{FirstName: "Maria", LastName: "Garcia"})
	jon := db.AddStudent(gradebook.Student{FirstName: "Jon", LastName: "Smith"})
	loner := db.AddStudent(gradebook.Student{FirstName: "No", LastName: "Grades"})
	assert.NotEmpty(t, maria.ID)

	quiz := db.AddAssignment(gradebook.Assignment{TeacherID: "t1", Name: "Unit 1 Quiz", MaxPoints: null.Float64From(20)})
	essay := db.AddAssignment(gradebook.Assignment{TeacherID: "t1", Name: "Essay"})
	other := db.AddAssignment(gradebook.Assignment{TeacherID: "t2", Name: "Other Quiz"})

	db.SetGrade("t1", maria.ID, quiz.ID, 18)
	db.SetGrade("t1", maria.ID, essay.ID, nil)
	db.SetGrade("t1", maria.ID, essay.ID, "85") // upsert
	db.SetGrade("t2", jon.ID, other.ID, 10)
	// grade row claimed by t1 on an assignment of t2 must not leak
	db.SetGrade("t1", jon.ID, other.ID, 5)

	t.Run("students", func(t *testing.T) {
		students, err := repo.ListStudents(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, []gradebook.Student{maria}, students)

		students, err = repo.ListStudents(ctx, "t2")
		require.NoError(t, err)
		assert.Equal(t, []gradebook.Student{jon}, students)
		assert.NotContains(t, students, loner)
	})

	t.Run("assignments", func(t *testing.T) {
		assignments, err := repo.ListAssignments(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, []gradebook.Assignment{essay, quiz}, assignments)
	})

	t.Run("grades", func(t *testing.T) {
		records, err := repo.ListGrades(ctx, "t1", gradebook.GradeFilter{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		records, err = repo.ListGrades(ctx, "t1", gradebook.GradeFilter{AssignmentID: essay.ID})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "85", records[0].RawGrade)
		assert.Equal(t, "Essay", records[0].AssignmentName)

		records, err = repo.ListGrades(ctx, "t1", gradebook.GradeFilter{StudentID: maria.ID, AssignmentID: quiz.ID})
		require.NoError(t, err)
		require.Len(t, records, 1)
		pct, ok := records[0].Percent()
		assert.True(t, ok)
		assert.Equal(t, 90.0, pct)

		records, err = repo.ListGrades(ctx, "t3", gradebook.GradeFilter{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
