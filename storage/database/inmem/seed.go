package inmemdb

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
)

func due(month time.Month, day int) null.Time {
	return null.TimeFrom(time.Date(2024, month, day, 0, 0, 0, 0, time.UTC))
}

// Seed fills db with a small demo class owned by teacherID.
// Jon Smith and John Smith average below 60%, Maria Garcia has one missing grade.
func Seed(db *DB, teacherID string) {
	students := []gradebook.Student{
		{FirstName: "Maria", LastName: "Garcia", Email: "maria.garcia@example.com"},
		{FirstName: "Jon", LastName: "Smith", Email: "jon.smith@example.com"},
		{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com"},
		{FirstName: "Ana", LastName: "Lopez", Email: "ana.lopez@example.com"},
		{FirstName: "Ben", LastName: "Carter", Email: "ben.carter@example.com"},
	}
	assignments := []gradebook.Assignment{
		{TeacherID: teacherID, Name: "Unit 1 Math Quiz #1", MaxPoints: null.Float64From(20), DueDate: due(time.September, 10)},
		{TeacherID: teacherID, Name: "Unit 1 Science Lab", DueDate: due(time.September, 17)},
		{TeacherID: teacherID, Name: "Reading Essay", MaxPoints: null.Float64From(50), DueDate: due(time.September, 24)},
	}
	grades := [][]interface{}{
		{18, 70, nil},
		{10, 50, 25},
		{11, "58", nil},
		{19, 92.0, 45},
		{14, 75, "40"},
	}

	for i := range assignments {
		assignments[i] = db.AddAssignment(assignments[i])
	}
	for i, s := range students {
		s = db.AddStudent(s)
		for j, a := range assignments {
			db.SetGrade(teacherID, s.ID, a.ID, grades[i][j])
		}
	}
}
