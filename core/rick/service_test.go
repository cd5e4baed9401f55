package rick_test

import (
	"context"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick"
	"github.com/trezcool/gradebook/core/rick/analysis"
	"github.com/trezcool/gradebook/core/rick/intent"
	"github.com/trezcool/gradebook/core/rick/resolve"
	logsvc "github.com/trezcool/gradebook/services/logger"
	testutil "github.com/trezcool/gradebook/tests"
)

const teacherID = "teacher-1"

var logger = logsvc.NewConsoleLogger(log.New(io.Discard, "", 0), logsvc.LevelDebug)

func newService(t *testing.T) *rick.Service {
	class := testutil.NewDemoClass(t, teacherID)
	return rick.NewService(class.Repo, logger, rick.DefaultThresholds())
}

func bullets(text string) []string {
	out := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, "- ") {
			out = append(out, strings.TrimPrefix(l, "- "))
		}
	}
	return out
}

func ask(t *testing.T, svc *rick.Service, message string) rick.Response {
	t.Helper()
	res, err := svc.HandleQuery(context.Background(), message, teacherID)
	require.NoError(t, err)
	return res
}

func TestHandleQuery_whoIsFailing(t *testing.T) {
	res := ask(t, newService(t), "Who is failing?")

	assert.True(t, res.Success)
	assert.False(t, res.NeedsClarification)
	assert.Equal(t, "filterByStatus", res.Intent)
	assert.Equal(t, []string{"Jon Smith: 50.0%", "John Smith: 57.5%"}, bullets(res.Response))

	pop, ok := res.Structured.(analysis.PopulationResult)
	require.True(t, ok)
	assert.Len(t, pop.Students, 2)
	assert.Equal(t, 5, pop.Evaluated)
}

func TestHandleQuery_studentAnalysis(t *testing.T) {
	res := ask(t, newService(t), "How is Maria doing?")

	assert.True(t, res.Success)
	assert.Equal(t, "analyzeStudent", res.Intent)
	assert.Contains(t, res.Response, "average of 80.0%")
	assert.Contains(t, res.Response, "Missing: 1 assignment")

	sr, ok := res.Structured.(analysis.StudentResult)
	require.True(t, ok)
	assert.Equal(t, 2, sr.Stats.Count)
	assert.Equal(t, 80.0, sr.Stats.Average)
	assert.Equal(t, 1, sr.MissingCount)
}

func TestHandleQuery(t *testing.T) {
	tests := []struct {
		message     string
		wantSuccess bool
		wantClarify bool
		wantIntent  string
		wantText    []string
		wantBullets []string
	}{
		{
			message:     "Hi!",
			wantSuccess: true,
			wantIntent:  "greeting",
			wantText:    []string{"I'm Rick"},
		},
		{
			message:    "   ",
			wantIntent: "unknown",
			wantText:   []string{"Please type a question"},
		},
		{
			message:    "what is the meaning of life",
			wantIntent: "unknown",
			wantText:   []string{"I don't know how to answer that", "Who is failing?"},
		},
		{
			message:     "How is Jon Smith doing?",
			wantSuccess: true,
			wantClarify: true,
			wantIntent:  "analyzeStudent",
			wantBullets: []string{"Jon Smith", "John Smith"},
		},
		{
			message:    "How is Zed Zimmerman doing?",
			wantIntent: "analyzeStudent",
			wantText:   []string{`I couldn't find any student matching "zed zimmerman".`},
		},
		{
			message:     "How is Maria doing on tests?",
			wantSuccess: true,
			wantIntent:  "analyzeByType",
			wantText:    []string{"Maria Garcia on assessment work: average 90.0% over 1 assignment."},
		},
		{
			message:     "Who is missing the Reading Essay?",
			wantSuccess: true,
			wantIntent:  "missingWork",
			wantText:    []string{"2 of 5 students (40.0%) have not turned it in.", "Warning"},
			wantBullets: []string{"John Smith", "Maria Garcia"},
		},
		{
			message:     "Who failed the math quiz?",
			wantSuccess: true,
			wantIntent:  "failureAnalysis",
			wantText:    []string{"Results for Unit 1 Math Quiz #1", "Below 60.0%: 2 students (40.0%)"},
			wantBullets: []string{"Jon Smith: 50.0%", "John Smith: 55.0%"},
		},
		{
			message:     "Show grades for Unit 1 Science Lab",
			wantSuccess: true,
			wantIntent:  "analyzeAssignment",
			wantText:    []string{"Results for Unit 1 Science Lab", "Everyone turned in Unit 1 Science Lab."},
		},
		{
			message:     "Show grades for Reading Essay",
			wantSuccess: true,
			wantIntent:  "analyzeAssignment",
			wantText:    []string{"Results for Reading Essay", "2 of 5 students (40.0%) have not turned it in."},
		},
		{
			message:    "Show grades for Zed Zimmerman",
			wantIntent: "showGrades",
			wantText:   []string{`I couldn't find any student matching "zed zimmerman".`},
		},
		{
			message:     "Show grades for Ana",
			wantSuccess: true,
			wantIntent:  "showGrades",
			wantText:    []string{"Ana Lopez"},
		},
		{
			message:     "How did the class do on quizzes?",
			wantSuccess: true,
			wantIntent:  "analyzeByType",
			wantText:    []string{"Class on assessment work: average 72.0% over 5 graded submissions.", "Range: 50.0% to 95.0%"},
			wantBullets: []string{"Unit 1 Math Quiz #1: 72.0%"},
		},
		{
			message:    "Who is missing the chemistry final?",
			wantIntent: "missingWork",
			wantText:   []string{`I couldn't find any assignment matching "chemistry final".`},
		},
		{
			message:     "Who is missing work?",
			wantSuccess: true,
			wantIntent:  "filterByStatus",
			wantBullets: []string{"John Smith: 1 missing (33.3%): Reading Essay", "Maria Garcia: 1 missing (33.3%): Reading Essay"},
		},
		{
			message:     "Who has the most missing work?",
			wantSuccess: true,
			wantIntent:  "chronicMissing",
			wantText:    []string{"No students have 3 or more missing assignments."},
		},
		{
			message:     "Who is missing work in English?",
			wantSuccess: true,
			wantIntent:  "missingWorkBySubject",
			wantText:    []string{"2 students are missing work in English"},
		},
		{
			message:    "Who is missing work in astronomy?",
			wantIntent: "missingWorkBySubject",
			wantText:   []string{`I don't know the subject "astronomy".`},
		},
		{
			message:     "Who is doing well?",
			wantSuccess: true,
			wantIntent:  "filterByStatus",
			wantBullets: []string{"Ana Lopez: 91.8%"},
		},
		{
			message:     "What's the class average?",
			wantSuccess: true,
			wantIntent:  "classAverage",
			wantText:    []string{"Class average: 71.2%", "5 students, 3 assignments, 2 missing submissions."},
		},
		{
			message:     "Which kids in science are struggling?",
			wantSuccess: true,
			wantIntent:  "filterByStatus",
			wantText:    []string{"2 students are at risk (below 60.0%) in Science"},
			wantBullets: []string{"Jon Smith: 50.0%", "John Smith: 58.0%"},
		},
		{
			message:     "which students in math are not doing well",
			wantSuccess: true,
			wantIntent:  "filterByStatus",
			wantText:    []string{"in Math"},
			wantBullets: []string{"Jon Smith: 50.0%", "John Smith: 55.0%"},
		},
		{
			message:    "show failing",
			wantIntent: "unknown",
			wantText:   []string{"Who should I look for?"},
		},
	}
	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			res := ask(t, svc, tt.message)
			assert.Equal(t, tt.wantSuccess, res.Success, res.Response)
			assert.Equal(t, tt.wantClarify, res.NeedsClarification)
			assert.Equal(t, tt.wantIntent, res.Intent)
			for _, want := range tt.wantText {
				assert.Contains(t, res.Response, want)
			}
			if tt.wantBullets != nil {
				assert.Equal(t, tt.wantBullets, bullets(res.Response))
			}
		})
	}
}

func TestHandleQuery_clarificationCandidates(t *testing.T) {
	res := ask(t, newService(t), "how's jon smith doing")

	require.True(t, res.NeedsClarification)
	cands, ok := res.Structured.([]resolve.StudentCandidate)
	require.True(t, ok)
	require.Len(t, cands, 2)
	assert.Equal(t, "Jon Smith", cands[0].Student.FullName())
	assert.Equal(t, "John Smith", cands[1].Student.FullName())
}

func TestHandleQuery_teacherScope(t *testing.T) {
	svc := newService(t)

	res, err := svc.HandleQuery(context.Background(), "Who is failing?", "someone-else")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Good news: no students are below 60.0%.", res.Response)

	res, err = svc.HandleQuery(context.Background(), "How is Maria doing?", "someone-else")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestHandleQuery_thresholds(t *testing.T) {
	class := testutil.NewDemoClass(t, teacherID)
	th := rick.DefaultThresholds()
	th.AtRisk = 80
	svc := rick.NewService(class.Repo, logger, th)

	res := ask(t, svc, "Who is at risk?")
	assert.Equal(t, []string{"Jon Smith: 50.0%", "John Smith: 57.5%", "Maria Garcia: 73.3%", "Ben Carter: 75.9%"}, bullets(res.Response))

	// failing keeps its own cut-off
	res = ask(t, svc, "Who is failing?")
	assert.Len(t, bullets(res.Response), 2)
}

func TestHandleQuery_accentedNames(t *testing.T) {
	class := testutil.NewClass(t, teacherID)
	zoe := class.CreateStudent("Zoë", "Martin")
	jose := class.CreateStudent("José", "Núñez")
	quiz := class.CreateAssignment("Unit 1 Quiz", 10)
	class.Grade(zoe, quiz, 9)
	class.Grade(jose, quiz, 5)
	svc := rick.NewService(class.Repo, logger, rick.DefaultThresholds())

	tests := []struct {
		message    string
		wantIntent string
		wantText   string
	}{
		{"How is Zoë doing?", "analyzeStudent", "Zoë Martin"},
		{"How is José doing?", "analyzeStudent", "José Núñez"},
		{"what about josé núñez", "analyzeStudent", "José Núñez"},
		{"Show grades for Zoë Martin", "showGrades", "Zoë Martin"},
		{"How is Zoë doing on quizzes?", "analyzeByType", "Zoë Martin on assessment work: average 90.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			res := ask(t, svc, tt.message)
			assert.True(t, res.Success, res.Response)
			assert.Equal(t, tt.wantIntent, res.Intent)
			assert.Contains(t, res.Response, tt.wantText)
		})
	}
}

func TestHandleQuery_thresholdBoundary(t *testing.T) {
	tests := []struct {
		name        string
		grade       int
		message     string
		wantBullets []string
	}{
		{name: "59.96 is at risk", grade: 5996, message: "Who is at risk?", wantBullets: []string{"Zoë Martin: 60.0%"}},
		{name: "60 is not at risk", grade: 6000, message: "Who is at risk?", wantBullets: []string{}},
		{name: "79.96 is not doing well", grade: 7996, message: "Who is doing well?", wantBullets: []string{}},
		{name: "80 is doing well", grade: 8000, message: "Who is doing well?", wantBullets: []string{"Zoë Martin: 80.0%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := testutil.NewClass(t, teacherID)
			zoe := class.CreateStudent("Zoë", "Martin")
			final := class.CreateAssignment("Final Exam", 10000)
			class.Grade(zoe, final, tt.grade)
			svc := rick.NewService(class.Repo, logger, rick.DefaultThresholds())

			res := ask(t, svc, tt.message)
			assert.True(t, res.Success)
			assert.Equal(t, tt.wantBullets, bullets(res.Response))
		})
	}
}

func TestHandleQuery_concurrent(t *testing.T) {
	svc := newService(t)
	want := ask(t, svc, "Who is failing?").Response

	var wg sync.WaitGroup
	got := make([]string, 20)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.HandleQuery(context.Background(), "Who is failing?", teacherID)
			if err == nil {
				got[i] = res.Response
			}
		}(i)
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

type brokenRepo struct{ err error }

func (r brokenRepo) ListStudents(context.Context, string) ([]gradebook.Student, error) {
	return nil, r.err
}

func (r brokenRepo) ListAssignments(context.Context, string) ([]gradebook.Assignment, error) {
	return nil, r.err
}

func (r brokenRepo) ListGrades(context.Context, string, gradebook.GradeFilter) ([]gradebook.GradeRecord, error) {
	return nil, r.err
}

func TestHandleQuery_repositoryError(t *testing.T) {
	errDown := errors.New("connection refused")
	svc := rick.NewService(brokenRepo{err: errDown}, logger, rick.DefaultThresholds())

	for _, msg := range []string{"Who is failing?", "How is Maria doing?", "Who is missing the quiz?"} {
		t.Run(msg, func(t *testing.T) {
			_, err := svc.HandleQuery(context.Background(), msg, teacherID)
			require.Error(t, err)
			assert.Equal(t, errDown, errors.Cause(err))
		})
	}

	// no data access needed
	res, err := svc.HandleQuery(context.Background(), "hello", teacherID)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestThresholdsFromConfig(t *testing.T) {
	th := rick.ThresholdsFromConfig(core.RickConfig{AtRiskThreshold: 65, ChronicMissingMin: 5})
	assert.Equal(t, rick.Thresholds{AtRisk: 65, DoingWell: 80, Failure: 60, ChronicMissing: 5, AssignmentMatch: 50}, th)
	assert.Equal(t, rick.DefaultThresholds(), rick.ThresholdsFromConfig(core.RickConfig{}))
}

func TestDigest(t *testing.T) {
	svc := newService(t)

	d, err := svc.Digest(context.Background(), teacherID)
	require.NoError(t, err)
	assert.Equal(t, 13, d.Class.Stats.Count)
	assert.Len(t, d.AtRisk.Students, 2)
	assert.Empty(t, d.ChronicMissing.Students)
}

func TestDigestEmail(t *testing.T) {
	d, err := newService(t).Digest(context.Background(), teacherID)
	require.NoError(t, err)

	msg := rick.DigestEmail(mail.Address{Address: "ms.b@test.cd"}, d)
	require.NoError(t, msg.Render())
	assert.Equal(t, rick.DigestSubject, msg.Subject)
	assert.True(t, strings.HasPrefix(msg.TextContent, "Hi there,"))
	assert.Contains(t, msg.TextContent, "Class average: 71.2%")
	assert.Contains(t, msg.TextContent, "2 students are at risk (below 60.0%)")
}

func TestIntentNamesMatchResponse(t *testing.T) {
	res := ask(t, newService(t), "What's the class average?")
	assert.Equal(t, string(intent.ClassAverage), res.Intent)
}
