package resolve

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/rick/normalize"
)

func student(id, first, last string) gradebook.Student {
	return gradebook.Student{ID: id, FirstName: first, LastName: last}
}

func names(cands []StudentCandidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Student.FullName())
	}
	return out
}

func TestFindStudent(t *testing.T) {
	roster := []gradebook.Student{
		student("1", "Jon", "Smith"),
		student("2", "John", "Smith"),
		student("3", "Maria", "Garcia"),
		student("4", "Marco", "Diaz"),
	}

	tests := []struct {
		name        string
		input       string
		wantID      string
		wantClarify []string
		wantErr     bool
		wantSuggest []string
	}{
		{name: "exact first name", input: "Maria", wantID: "3"},
		{name: "typo in full name", input: "Mria Garcia", wantID: "3"},
		{name: "case and spaces", input: "  JON   SMITH ", wantClarify: []string{"Jon Smith", "John Smith"}},
		{name: "near duplicate names", input: "jon smith", wantClarify: []string{"Jon Smith", "John Smith"}},
		{name: "nothing close", input: "Jonathan Smith-Walker", wantErr: true, wantSuggest: []string{"John Smith", "Jon Smith"}},
		{name: "no suggestion", input: "Zed", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := FindStudent(tt.input, roster)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsNotFound(err))
				var nf *NotFoundError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, KindStudent, nf.Kind)
				if tt.wantSuggest != nil {
					assert.Equal(t, tt.wantSuggest, nf.Suggestions)
				} else {
					assert.Empty(t, nf.Suggestions)
				}
				return
			}
			require.NoError(t, err)
			if tt.wantClarify != nil {
				assert.True(t, res.NeedsClarification)
				assert.Nil(t, res.Student)
				assert.Equal(t, tt.wantClarify, names(res.Candidates))
				return
			}
			assert.False(t, res.NeedsClarification)
			require.NotNil(t, res.Student)
			assert.Equal(t, tt.wantID, res.Student.ID)
		})
	}
}

func TestFindStudent_clearLead(t *testing.T) {
	// "marco" is within the threshold of "maria" but trails by more than the ambiguity margin.
	roster := []gradebook.Student{student("3", "Maria", "Garcia"), student("4", "Marco", "Diaz")}

	res, err := FindStudent("maria", roster)
	require.NoError(t, err)
	require.NotNil(t, res.Student)
	assert.Equal(t, "3", res.Student.ID)
}

func TestFindStudent_capsCandidates(t *testing.T) {
	roster := []gradebook.Student{
		student("1", "Dan", "Smith"),
		student("2", "Ann", "Smith"),
		student("3", "Cal", "Smith"),
		student("4", "Bea", "Smith"),
	}

	res, err := FindStudent("smith", roster)
	require.NoError(t, err)
	assert.True(t, res.NeedsClarification)
	assert.Equal(t, []string{"Ann Smith", "Bea Smith", "Cal Smith"}, names(res.Candidates))
}

func TestFindStudent_suggestionsCapped(t *testing.T) {
	roster := []gradebook.Student{
		student("1", "Dana", "Smyth"),
		student("2", "Dana", "Smythe"),
		student("3", "Dina", "Smyth"),
		student("4", "Dena", "Smyth"),
		student("5", "Ben", "Carter"),
	}

	_, err := FindStudent("Smithson", roster)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Len(t, nf.Suggestions, MaxStudentCandidates)
	assert.NotContains(t, nf.Suggestions, "Ben Carter")
}

func TestFindAssignment(t *testing.T) {
	assignments := []gradebook.Assignment{
		{ID: "a1", Name: "Unit 1 Quiz #2"},
		{ID: "a2", Name: "Unit 2 Quiz 1"},
		{ID: "a3", Name: "Unit 3 Quiz"},
		{ID: "a4", Name: "Unit 3 Test"},
		{ID: "a5", Name: "Biology Lab"},
	}

	t.Run("match", func(t *testing.T) {
		res, err := FindAssignment("unit 1 quiz 2", assignments, normalize.DefaultThreshold)
		require.NoError(t, err)
		require.NotNil(t, res.Assignment)
		assert.Equal(t, "a1", res.Assignment.ID)
		assert.Equal(t, normalize.ConfidenceHigh, res.Confidence)
	})

	t.Run("clarification", func(t *testing.T) {
		res, err := FindAssignment("unit 3", assignments, normalize.DefaultThreshold)
		require.NoError(t, err)
		assert.True(t, res.NeedsClarification)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, "a3", res.Candidates[0].Assignment.ID)
		assert.Equal(t, "unit 3, exam", res.Candidates[1].Describe())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := FindAssignment("biologee", assignments, normalize.DefaultThreshold)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, KindAssignment, nf.Kind)
		assert.Contains(t, nf.Suggestions, "Biology Lab")
	})
}
