package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestCalculateStats(t *testing.T) {
	tests := []struct {
		name    string
		numbers []float64
		want    Stats
	}{
		{name: "empty", numbers: nil, want: Stats{}},
		{name: "single", numbers: []float64{72}, want: Stats{Average: 72, Min: 72, Max: 72, Count: 1}},
		{name: "three", numbers: []float64{100, 80, 60}, want: Stats{Average: 80, Min: 60, Max: 100, Count: 3, StdDev: 16.3}},
		{name: "rounded average", numbers: []float64{90, 85, 86}, want: Stats{Average: 87, Min: 85, Max: 90, Count: 3, StdDev: 2.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStats(tt.numbers))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Unit 3 Algebra Quiz", CategoryMath},
		{"Fractions worksheet", CategoryMath},
		{"Photosynthesis Lab", CategoryScience},
		{"Persuasive Essay", CategoryEnglish},
		{"World War II timeline", CategorySocialStudies},
		{"Dictée #4", CategoryFrench},
		{"HW 12", CategoryHomework},
		{"Weekly practice", CategoryHomework},
		{"Field trip form", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.name)
			if got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if again := Categorize(tt.name); again != got {
				t.Errorf("Categorize(%q) is not deterministic: %v then %v", tt.name, got, again)
			}
		})
	}
}

func TestAssignmentType(t *testing.T) {
	assert.Equal(t, TypeAssessment, AssignmentType("Unit 1 Quiz #2"))
	assert.Equal(t, TypeAssessment, AssignmentType("Chapter 4 Test"))
	assert.Equal(t, TypeHomework, AssignmentType("HW 3"))
	assert.Equal(t, TypeProject, AssignmentType("Volcano project"))
	assert.Equal(t, TypeOther, AssignmentType("Participation"))
}

func TestCategoryFromSubject(t *testing.T) {
	for word, want := range map[string]Category{
		"Math":     CategoryMath,
		"maths":    CategoryMath,
		"français": CategoryFrench,
		"anglais":  CategoryEnglish,
		"history?": CategorySocialStudies,
	} {
		got, ok := CategoryFromSubject(word)
		assert.True(t, ok, word)
		assert.Equal(t, want, got, word)
	}
	_, ok := CategoryFromSubject("lunch")
	assert.False(t, ok)
}

func TestGroupByCategory(t *testing.T) {
	records := []GradeRecord{
		{AssignmentName: "Algebra quiz", RawGrade: 18, MaxPoints: null.Float64From(20)}, // 90
		{AssignmentName: "Geometry test", RawGrade: "70"},                                // 70
		{AssignmentName: "Reading log", RawGrade: 95},                                    // 95
		{AssignmentName: "Essay draft", RawGrade: nil},                                   // missing
		{AssignmentName: "Lab report", RawGrade: 0},                                      // 0
	}

	groups := GroupByCategory(records)
	if assert.Len(t, groups, 3) {
		assert.Equal(t, CategoryEnglish, groups[0].Category)
		assert.Equal(t, 95.0, groups[0].Average)
		assert.Equal(t, 1, groups[0].Count)

		assert.Equal(t, CategoryMath, groups[1].Category)
		assert.Equal(t, 80.0, groups[1].Average)
		assert.Equal(t, 2, groups[1].Count)

		assert.Equal(t, CategoryScience, groups[2].Category)
		assert.Equal(t, 0.0, groups[2].Average)
	}
}
