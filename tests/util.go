package testutil

import (
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
)

// Class is an in-memory grade book owned by a single teacher.
type Class struct {
	DB        *inmemdb.DB
	Repo      gradebook.Repository
	TeacherID string
}

func NewClass(t *testing.T, teacherID string) *Class {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("NewClass() failed: %v", err)
	}
	return &Class{DB: db, Repo: inmemdb.NewGradebookRepository(db), TeacherID: teacherID}
}

// NewDemoClass returns the seeded demo class: five students, two of them averaging below 60%.
func NewDemoClass(t *testing.T, teacherID string) *Class {
	c := NewClass(t, teacherID)
	inmemdb.Seed(c.DB, teacherID)
	return c
}

func (c *Class) CreateStudent(first, last string) gradebook.Student {
	return c.DB.AddStudent(gradebook.Student{FirstName: first, LastName: last})
}

func (c *Class) CreateAssignment(name string, maxPoints ...float64) gradebook.Assignment {
	a := gradebook.Assignment{TeacherID: c.TeacherID, Name: name}
	if len(maxPoints) > 0 {
		a.MaxPoints = null.Float64From(maxPoints[0])
	}
	return c.DB.AddAssignment(a)
}

// Grade records raw as the student's grade; nil records a missing submission.
func (c *Class) Grade(s gradebook.Student, a gradebook.Assignment, raw interface{}) {
	c.DB.SetGrade(c.TeacherID, s.ID, a.ID, raw)
}
