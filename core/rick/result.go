package rick

import "github.com/trezcool/gradebook/core/rick/intent"

// Response is what a caller gets back for a question.
type Response struct {
	Success            bool        `json:"success"`
	NeedsClarification bool        `json:"needsClarification,omitempty"`
	Response           string      `json:"response"`
	Intent             string      `json:"intent,omitempty"`
	Structured         interface{} `json:"structured,omitempty"`
}

// outcome is one of Answer, Clarification or Failure.
type outcome interface {
	isOutcome()
}

// Answer is a computed result.
type Answer struct {
	Intent     intent.Intent
	Text       string
	Structured interface{}
}

// Clarification asks the teacher to pick one of several candidates.
type Clarification struct {
	Intent     intent.Intent
	Text       string
	Candidates interface{}
}

// Failure is a handled, user visible failure: not understood, not found or incoherent.
type Failure struct {
	Intent intent.Intent
	Text   string
}

func (Answer) isOutcome()        {}
func (Clarification) isOutcome() {}
func (Failure) isOutcome()       {}

func toResponse(o outcome) Response {
	switch o := o.(type) {
	case Answer:
		return Response{Success: true, Response: o.Text, Intent: string(o.Intent), Structured: o.Structured}
	case Clarification:
		return Response{Success: true, NeedsClarification: true, Response: o.Text, Intent: string(o.Intent), Structured: o.Candidates}
	case Failure:
		return Response{Success: false, Response: o.Text, Intent: string(o.Intent)}
	}
	panic("rick: unhandled outcome")
}
