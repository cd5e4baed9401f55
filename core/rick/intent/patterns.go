package intent

import "regexp"

type Intent string

const (
	Greeting             Intent = "greeting"
	ShowGrades           Intent = "showGrades"
	AnalyzeStudent       Intent = "analyzeStudent"
	AnalyzeByType        Intent = "analyzeByType"
	MissingWork          Intent = "missingWork"
	FailureAnalysis      Intent = "failureAnalysis"
	AnalyzeAssignment    Intent = "analyzeAssignment"
	FilterByStatus       Intent = "filterByStatus"
	ChronicMissing       Intent = "chronicMissing"
	ClassAverage         Intent = "classAverage"
	MissingWorkBySubject Intent = "missingWorkBySubject"
	Unknown              Intent = "unknown"
)

// Entity slot names.
const (
	SlotStudent    = "student"
	SlotAssignment = "assignment"
	SlotStatus     = "status"
	SlotSubject    = "subject"
	SlotType       = "type"
)

// Status values carried by the status slot.
const (
	StatusFailing     = "failing"
	StatusAtRisk      = "at-risk"
	StatusMissingWork = "missing-work"
	StatusDoingWell   = "doing-well"
)

// PatternGroup binds regexes to an intent. Capture group i fills Slots[i]; Fixed slots are set on every match.
type PatternGroup struct {
	Intent   Intent
	Slots    []string
	Fixed    map[string]string
	Patterns []*regexp.Regexp
}

const (
	namePart   = `(\pL[\pL' -]*?)`
	typeWord   = `(tests|quizzes|exams|assessments|homework|projects|labs|test|quiz|exam|project|lab)`
	classWord  = `(?:the class|my class|everyone|my students|the students)`
	assignHead = `((?:unit|u\d|quiz|test|exam|hw|homework|project|lab|essay|assessment|midterm|final|exit ticket)\b.*?)`
)

func group(in Intent, slots []string, fixed map[string]string, patterns ...string) PatternGroup {
	g := PatternGroup{Intent: in, Slots: slots, Fixed: fixed}
	for _, p := range patterns {
		g.Patterns = append(g.Patterns, regexp.MustCompile(p))
	}
	return g
}

// Patterns is evaluated top to bottom and the first match wins, so a group must come
// before every group holding a more generic pattern that would also match its messages:
//   - "how is the class doing" before "how is X doing"
//   - "how did the class do on tests" before "how did the class do on X"
//   - "how is X doing on tests" before "how is X doing"
//   - "who is missing work" before "who is missing X"
//   - "show grades for unit 2 quiz" before "show grades for X"
var Patterns = []PatternGroup{
	group(Greeting, nil, nil,
		`^(?:hi|hello|hey|hiya|howdy|yo|good (?:morning|afternoon|evening))(?: there)?(?: rick)?$`,
	),
	group(ClassAverage, nil, nil,
		`^how(?: is|'s) (?:the|my) class doing$`,
		`^how are (?:the|my) students doing$`,
		`^(?:what is|what's) (?:the |my )?class average$`,
		`^(?:show |give me )?(?:the )?class average$`,
	),
	group(ChronicMissing, nil, nil,
		`^who has the most missing (?:work|assignments)$`,
		`^who (?:is|are) (?:chronically|always|often) missing (?:work|assignments)$`,
		`^(?:which|what) students (?:are )?(?:chronically|always|often) missing (?:work|assignments)$`,
	),
	group(MissingWorkBySubject, []string{SlotSubject}, nil,
		`^who (?:is|are) missing (?:work|assignments) in ([a-zà-ÿ-]+)$`,
		`^(?:show |list )?missing (?:work|assignments) in ([a-zà-ÿ-]+)$`,
	),
	group(FilterByStatus, nil, map[string]string{SlotStatus: StatusMissingWork},
		`^who (?:is|are|has|have) missing (?:work|assignments)$`,
		`^(?:which|what) students (?:are|have) missing (?:work|assignments)$`,
		`^(?:show|list) (?:me )?(?:the )?students (?:with )?missing (?:work|assignments)$`,
	),
	group(FilterByStatus, []string{SlotStatus, SlotSubject}, nil,
		`^who (?:is|are) (failing|at[ -]risk|doing well) in ([a-zà-ÿ-]+)$`,
		`^(?:which|what) students are (failing|at[ -]risk|doing well) in ([a-zà-ÿ-]+)$`,
	),
	group(FilterByStatus, nil, map[string]string{SlotStatus: StatusFailing},
		`^who(?: is|'s| are) failing$`,
		`^(?:which|what) students are failing$`,
		`^(?:show|list) (?:me )?(?:the )?failing students$`,
	),
	group(FilterByStatus, nil, map[string]string{SlotStatus: StatusAtRisk},
		`^who(?: is|'s| are) (?:at[ -]risk|struggling)$`,
		`^(?:which|what) students are (?:at[ -]risk|struggling)$`,
		`^(?:show|list) (?:me )?(?:the )?(?:at[ -]risk|struggling) students$`,
	),
	group(FilterByStatus, nil, map[string]string{SlotStatus: StatusDoingWell},
		`^who(?: is|'s| are) doing (?:well|great)$`,
		`^(?:which|what) students are doing (?:well|great)$`,
		`^(?:show|list) (?:me )?(?:the )?top students$`,
	),
	group(MissingWork, []string{SlotAssignment}, nil,
		`^who (?:is|are) missing (?:the )?(.+)$`,
		`^who (?:didn't|did not|hasn't|has not|haven't|have not) (?:submit|submitted|turn in|turned in|hand in|handed in|do|done) (?:the )?(.+)$`,
		`^missing (?:work|submissions) (?:for|on) (?:the )?(.+)$`,
	),
	group(FailureAnalysis, []string{SlotAssignment}, nil,
		`^who failed (?:the )?(.+)$`,
		`^who(?: is|'s) failing (?:the )?(.+)$`,
		`^how many (?:students )?failed (?:the )?(.+)$`,
		`^failures (?:on|for) (?:the )?(.+)$`,
	),
	group(AnalyzeByType, []string{SlotType}, nil,
		`^how did `+classWord+` do on (?:the |their )?`+typeWord+`$`,
		`^how (?:is|are) `+classWord+` doing (?:on|in|with) (?:the |their )?`+typeWord+`$`,
	),
	group(AnalyzeAssignment, []string{SlotAssignment}, nil,
		`^(?:show|give me|list) (?:me )?(?:the )?(?:grades|results|scores) (?:for|on) (?:the )?`+assignHead+`$`,
		`^(?:show|give me|list) (?:me )?(?:the )?`+assignHead+` (?:grades|results|scores)$`,
		`^how did `+classWord+` do on (?:the )?(.+)$`,
		`^(?:analy[sz]e|report on) (?:the )?assignment (.+)$`,
	),
	group(AnalyzeByType, []string{SlotStudent, SlotType}, nil,
		`^how(?: is|'s) `+namePart+` doing (?:on|in|with) (?:their |her |his )?`+typeWord+`$`,
		`^how did `+namePart+` do on (?:their |her |his )?`+typeWord+`$`,
		`^(?:show|give me) (?:me )?`+namePart+`'s `+typeWord+`(?: grades| scores)?$`,
	),
	group(AnalyzeStudent, []string{SlotStudent}, nil,
		`^how(?: is|'s) `+namePart+` doing$`,
		`^how is `+namePart+` performing$`,
		`^(?:tell me about|what about|analy[sz]e) `+namePart+`$`,
		`^(?:show|give me) (?:me )?`+namePart+`'s (?:performance|progress)$`,
	),
	group(ShowGrades, nil, nil,
		`^(?:show|list|give me) (?:me )?(?:all )?(?:the )?grades$`,
	),
	group(ShowGrades, []string{SlotStudent}, nil,
		`^(?:show|list|give me) (?:me )?grades for `+namePart+`$`,
		`^(?:show|list|give me) (?:me )?`+namePart+`(?:'s)? grades$`,
		`^(?:what are|what's) `+namePart+`(?:'s)? grades$`,
	),
}

// Examples are offered when a message is not understood.
var Examples = []string{
	"Who is failing?",
	"Who is at risk in math?",
	"How is Maria doing?",
	"How is Maria doing on tests?",
	"Who is missing the Unit 1 Quiz?",
	"Who failed the Unit 3 Test?",
	"Show grades for Unit 2 Quiz 1",
	"Who has the most missing work?",
	"What's the class average?",
}
