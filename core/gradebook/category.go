package gradebook

import (
	"regexp"
	"strings"
)

// Category is the subject bucket of an assignment.
type Category string

const (
	CategoryMath          Category = "Math"
	CategoryScience       Category = "Science"
	CategoryEnglish       Category = "English"
	CategorySocialStudies Category = "Social Studies"
	CategoryFrench        Category = "French"
	CategoryHomework      Category = "Homework"
	CategoryOther         Category = "Other"
)

type categoryRule struct {
	category Category
	pattern  *regexp.Regexp
}

// categoryRules are checked in order; the first match wins.
var categoryRules = []categoryRule{
	{CategoryMath, regexp.MustCompile(`(?i)math|algebra|geometry|calculus|equation|fraction|trig|statistic|arithmetic|integer|decimal|polynomial`)},
	{CategoryScience, regexp.MustCompile(`(?i)science|biology|chemistry|physics|\blab\b|experiment|ecosystem|photosynthesis|atom|molecule`)},
	{CategoryEnglish, regexp.MustCompile(`(?i)english|essay|reading|writing|grammar|literature|vocab|poem|poetry|novel|spelling`)},
	{CategorySocialStudies, regexp.MustCompile(`(?i)social studies|history|geography|civics|government|economics|world war|revolution`)},
	{CategoryFrench, regexp.MustCompile(`(?i)french|français|francais|conjugaison|dictée|dictee|vocabulaire`)},
	{CategoryHomework, regexp.MustCompile(`(?i)homework|\bhw\b|worksheet|practice`)},
}

// Categories lists every category in matching order, Other last.
var Categories = []Category{
	CategoryMath, CategoryScience, CategoryEnglish, CategorySocialStudies, CategoryFrench, CategoryHomework, CategoryOther,
}

// Categorize buckets an assignment name into a subject. It is total: unmatched names are CategoryOther.
func Categorize(name string) Category {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(name) {
			return rule.category
		}
	}
	return CategoryOther
}

// subjectNames maps the words teachers use for a subject (including french spellings) to a Category.
var subjectNames = map[string]Category{
	"math":           CategoryMath,
	"maths":          CategoryMath,
	"mathematics":    CategoryMath,
	"mathématiques":  CategoryMath,
	"mathematiques":  CategoryMath,
	"algebra":        CategoryMath,
	"geometry":       CategoryMath,
	"science":        CategoryScience,
	"sciences":       CategoryScience,
	"biology":        CategoryScience,
	"chemistry":      CategoryScience,
	"physics":        CategoryScience,
	"english":        CategoryEnglish,
	"anglais":        CategoryEnglish,
	"ela":            CategoryEnglish,
	"reading":        CategoryEnglish,
	"writing":        CategoryEnglish,
	"social":         CategorySocialStudies,
	"history":        CategorySocialStudies,
	"histoire":       CategorySocialStudies,
	"geography":      CategorySocialStudies,
	"géographie":     CategorySocialStudies,
	"geographie":     CategorySocialStudies,
	"civics":         CategorySocialStudies,
	"french":         CategoryFrench,
	"français":       CategoryFrench,
	"francais":       CategoryFrench,
	"homework":       CategoryHomework,
	"social-studies": CategorySocialStudies,
}

// CategoryFromSubject looks up a single word in the subject-name table.
func CategoryFromSubject(word string) (Category, bool) {
	cat, ok := subjectNames[strings.ToLower(strings.Trim(word, ".,!?;:'\""))]
	return cat, ok
}

// Type is the kind of work an assignment represents.
type Type string

const (
	TypeAssessment Type = "Assessment"
	TypeHomework   Type = "Homework"
	TypeProject    Type = "Project"
	TypeOther      Type = "Other"
)

var typeRules = []struct {
	typ     Type
	pattern *regexp.Regexp
}{
	{TypeAssessment, regexp.MustCompile(`(?i)\b(quiz|quizzes|qz|test|tests|exam|exams|assessment|assessments|midterm|final)\b`)},
	{TypeHomework, regexp.MustCompile(`(?i)\b(homework|hw|worksheet|worksheets)\b`)},
	{TypeProject, regexp.MustCompile(`(?i)\b(project|projects|lab|labs|presentation|presentations)\b`)},
}

// AssignmentType classifies an assignment name; unmatched names are TypeOther.
func AssignmentType(name string) Type {
	for _, rule := range typeRules {
		if rule.pattern.MatchString(name) {
			return rule.typ
		}
	}
	return TypeOther
}

// typeWords maps the words used in questions to a Type.
var typeWords = map[string]Type{
	"test": TypeAssessment, "tests": TypeAssessment,
	"quiz": TypeAssessment, "quizzes": TypeAssessment,
	"exam": TypeAssessment, "exams": TypeAssessment,
	"assessment": TypeAssessment, "assessments": TypeAssessment,
	"homework": TypeHomework, "hw": TypeHomework, "homeworks": TypeHomework,
	"worksheet": TypeHomework, "worksheets": TypeHomework,
	"project": TypeProject, "projects": TypeProject,
	"lab": TypeProject, "labs": TypeProject,
}

// TypeFromWord looks up a single word in the assignment-type table.
func TypeFromWord(word string) (Type, bool) {
	typ, ok := typeWords[strings.ToLower(strings.Trim(word, ".,!?;:'\""))]
	return typ, ok
}
