package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/gradebook/core/gradebook"
)

type gradebookRepository struct {
	db *gradebookTables
}

var _ gradebook.Repository = (*gradebookRepository)(nil)

func NewGradebookRepository(db *DB) gradebook.Repository {
	return &gradebookRepository{db: db.gradebook}
}

// owned returns the rows whose grade and assignment both belong to the teacher.
func (repo *gradebookRepository) owned(teacherID string) []gradebook.GradeRecord {
	records := make([]gradebook.GradeRecord, 0, len(repo.db.grades))
	for _, g := range repo.db.grades {
		a, ok := repo.db.assignments[g.AssignmentID]
		if !ok || g.TeacherID != teacherID || a.TeacherID != teacherID {
			continue
		}
		records = append(records, gradebook.GradeRecord{
			StudentID:      g.StudentID,
			AssignmentID:   g.AssignmentID,
			TeacherID:      g.TeacherID,
			RawGrade:       g.Grade,
			AssignmentName: a.Name,
			MaxPoints:      a.MaxPoints,
			DueDate:        a.DueDate,
		})
	}
	return records
}

func (repo *gradebookRepository) ListStudents(_ context.Context, teacherID string) ([]gradebook.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	students := make([]gradebook.Student, 0)
	for _, r := range repo.owned(teacherID) {
		if seen[r.StudentID] {
			continue
		}
		seen[r.StudentID] = true
		if s, ok := repo.db.students[r.StudentID]; ok {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return strings.ToLower(students[i].LastName) < strings.ToLower(students[j].LastName)
		}
		return strings.ToLower(students[i].FirstName) < strings.ToLower(students[j].FirstName)
	})
	return students, nil
}

func (repo *gradebookRepository) ListAssignments(_ context.Context, teacherID string) ([]gradebook.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]gradebook.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.TeacherID == teacherID {
			assignments = append(assignments, *a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].Name < assignments[j].Name })
	return assignments, nil
}

func (repo *gradebookRepository) ListGrades(_ context.Context, teacherID string, filter gradebook.GradeFilter) ([]gradebook.GradeRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]gradebook.GradeRecord, 0)
	for _, r := range repo.owned(teacherID) {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.AssignmentID != "" && r.AssignmentID != filter.AssignmentID {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
