package analysis

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/gradebook"
)

// Tier is the narrative band of a student's average.
type Tier string

const (
	TierNone         Tier = ""
	TierExcellent    Tier = "excellent"
	TierStrong       Tier = "strong"
	TierSatisfactory Tier = "satisfactory"
	TierPassing      Tier = "passing"
	TierNeedsSupport Tier = "needs-support"
)

// Consistency describes the spread of a student's grades.
type Consistency string

const (
	ConsistencyNone     Consistency = ""
	ConsistencyVery     Consistency = "very-consistent"
	ConsistencyVaries   Consistency = "varies-notably"
	ConsistencyModerate Consistency = "moderate"
)

type StudentGrade struct {
	Student gradebook.Student `json:"student"`
	Percent float64           `json:"percent"`
}

// GradeEntry is one graded assignment of a student.
type GradeEntry struct {
	AssignmentID string             `json:"assignment_id"`
	Name         string             `json:"name"`
	Percent      float64            `json:"percent"`
	DueDate      null.Time          `json:"due_date"`
	Category     gradebook.Category `json:"category"`
}

type MissingWorkResult struct {
	Assignment   gradebook.Assignment `json:"assignment"`
	Total        int                  `json:"total"`
	MissingCount int                  `json:"missing_count"`
	MissingRate  float64              `json:"missing_rate"`
	Noteworthy   bool                 `json:"noteworthy"`
	Missing      []gradebook.Student  `json:"missing"`
}

type FailureResult struct {
	Assignment  gradebook.Assignment `json:"assignment"`
	Threshold   float64              `json:"threshold"`
	Graded      int                  `json:"graded"`
	Stats       gradebook.Stats      `json:"stats"`
	Failing     []StudentGrade       `json:"failing"`
	FailureRate float64              `json:"failure_rate"`
	// TooHard and TargetedIntervention are narrative hints, not statistical tests.
	TooHard              bool `json:"too_hard"`
	TargetedIntervention bool `json:"targeted_intervention"`
}

type AssignmentReport struct {
	Missing  MissingWorkResult `json:"missing"`
	Failures FailureResult     `json:"failures"`
}

type StudentResult struct {
	Student       gradebook.Student         `json:"student"`
	Stats         gradebook.Stats           `json:"stats"`
	Categories    []gradebook.CategoryStats `json:"categories"`
	Strongest     *gradebook.CategoryStats  `json:"strongest,omitempty"`
	Weakest       *gradebook.CategoryStats  `json:"weakest,omitempty"`
	Tier          Tier                      `json:"tier"`
	SupportNeeded bool                      `json:"support_needed"`
	Consistency   Consistency               `json:"consistency"`
	MissingCount  int                       `json:"missing_count"`
	// Recent holds the graded entries, latest due date first.
	Recent []GradeEntry `json:"recent"`
}

type TypeResult struct {
	Student      gradebook.Student `json:"student"`
	Type         gradebook.Type    `json:"type"`
	Stats        gradebook.Stats   `json:"stats"`
	MissingCount int               `json:"missing_count"`
	Grades       []GradeEntry      `json:"grades"`
}

// ClassTypeResult aggregates the whole class on one kind of assignment.
type ClassTypeResult struct {
	Type         gradebook.Type  `json:"type"`
	Stats        gradebook.Stats `json:"stats"`
	MissingCount int             `json:"missing_count"`
	// Assignments carries each assignment's class average in Percent, lowest first.
	Assignments []GradeEntry `json:"assignments"`
}

type StudentAverage struct {
	Student gradebook.Student `json:"student"`
	Average float64           `json:"average"`
	Graded  int               `json:"graded"`
}

// PopulationResult lists the students on one side of a threshold.
type PopulationResult struct {
	Status    string             `json:"status"`
	Threshold float64            `json:"threshold"`
	Subject   gradebook.Category `json:"subject,omitempty"`
	// Evaluated is the number of students with at least one graded row in scope.
	Evaluated int              `json:"evaluated"`
	Students  []StudentAverage `json:"students"`
}

type StudentMissing struct {
	Student      gradebook.Student `json:"student"`
	MissingCount int               `json:"missing_count"`
	Total        int               `json:"total"`
	MissingRate  float64           `json:"missing_rate"`
	Assignments  []string          `json:"assignments"`
}

type MissingSummary struct {
	MinMissing int                `json:"min_missing"`
	Subject    gradebook.Category `json:"subject,omitempty"`
	Students   []StudentMissing   `json:"students"`
}

type ClassAverageResult struct {
	Stats        gradebook.Stats `json:"stats"`
	Students     int             `json:"students"`
	Assignments  int             `json:"assignments"`
	MissingCount int             `json:"missing_count"`
}

// Digest is the periodic class overview mailed to a teacher.
type Digest struct {
	Class          ClassAverageResult `json:"class"`
	AtRisk         PopulationResult   `json:"at_risk"`
	ChronicMissing MissingSummary     `json:"chronic_missing"`
}
