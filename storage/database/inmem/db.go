package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/gradebook/core/gradebook"
)

type (
	// DB is a process-local grade book. It backs tests, the demo seed and the admin CLI.
	DB struct {
		gradebook *gradebookTables
	}

	gradeRow struct {
		StudentID    string
		AssignmentID string
		TeacherID    string
		Grade        interface{}
	}

	gradebookTables struct {
		sync.RWMutex
		students    map[string]*gradebook.Student
		assignments map[string]*gradebook.Assignment
		grades      []*gradeRow
	}
)

func Open() (*DB, error) {
	db := &DB{
		gradebook: &gradebookTables{
			students:    make(map[string]*gradebook.Student),
			assignments: make(map[string]*gradebook.Assignment),
		},
	}
	return db, nil
}

func newID() string {
	return uuid.New().String()
}

// AddStudent stores the student, generating its ID when empty.
func (db *DB) AddStudent(s gradebook.Student) gradebook.Student {
	t := db.gradebook
	t.Lock()
	defer t.Unlock()

	if s.ID == "" {
		s.ID = newID()
	}
	t.students[s.ID] = &s
	return s
}

// AddAssignment stores the assignment, generating its ID when empty.
func (db *DB) AddAssignment(a gradebook.Assignment) gradebook.Assignment {
	t := db.gradebook
	t.Lock()
	defer t.Unlock()

	if a.ID == "" {
		a.ID = newID()
	}
	t.assignments[a.ID] = &a
	return a
}

// SetGrade upserts the grade-book cell of a student for an assignment.
// grade is stored as given; nil records a missing submission.
func (db *DB) SetGrade(teacherID, studentID, assignmentID string, grade interface{}) {
	t := db.gradebook
	t.Lock()
	defer t.Unlock()

	for _, g := range t.grades {
		if g.StudentID == studentID && g.AssignmentID == assignmentID && g.TeacherID == teacherID {
			g.Grade = grade
			return
		}
	}
	t.grades = append(t.grades, &gradeRow{StudentID: studentID, AssignmentID: assignmentID, TeacherID: teacherID, Grade: grade})
}
