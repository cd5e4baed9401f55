// Package normalize turns free-text assignment names into comparable facets
// (unit, type, sequence number, token set) and scores them against user input.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/trezcool/gradebook/core"
)

// Facets is the structured reading of an assignment name.
type Facets struct {
	Cleaned      string   `json:"cleaned"`
	Unit         string   `json:"unit,omitempty"`
	Type         string   `json:"type,omitempty"`
	Number       string   `json:"number,omitempty"`
	Tokens       []string `json:"tokens"`
	SearchString string   `json:"search_string"`
}

type typeSynonyms struct {
	canonical string
	words     []string
	pattern   *regexp.Regexp // any of words, as whole words
	numbered  *regexp.Regexp // any of words followed by a number
}

func newTypeSynonyms(canonical string, words ...string) typeSynonyms {
	alt := strings.Join(words, "|")
	return typeSynonyms{
		canonical: canonical,
		words:     words,
		pattern:   regexp.MustCompile(`\b(?:` + alt + `)\b`),
		numbered:  regexp.MustCompile(`\b(?:` + alt + `)\s*(\d+)\b`),
	}
}

var (
	// typeTable is checked in order: multi-word types first.
	typeTable = []typeSynonyms{
		newTypeSynonyms("exit-ticket", "exit ticket", "exit tickets", "exitticket"),
		newTypeSynonyms("quiz", "quiz", "quizzes", "qz"),
		newTypeSynonyms("exam", "test", "tests", "exam", "exams", "assessment", "assessments", "midterm", "final"),
		newTypeSynonyms("homework", "homework", "hw"),
		newTypeSynonyms("interview", "interview", "interviews"),
		newTypeSynonyms("project", "project", "projects"),
		newTypeSynonyms("lab", "lab", "labs"),
		newTypeSynonyms("essay", "essay", "essays"),
		newTypeSynonyms("presentation", "presentation", "presentations"),
	}

	// canonicalTokens maps single words to their canonical token.
	canonicalTokens = buildCanonicalTokens()

	stopWords = map[string]bool{
		"the": true, "a": true, "an": true, "of": true, "on": true, "for": true,
		"and": true, "to": true, "in": true, "my": true,
	}

	unitArabic = regexp.MustCompile(`\bunit\s*(\d+)\b`)
	unitShort  = regexp.MustCompile(`\bu\s*(\d+)\b`)
	unitRoman  = regexp.MustCompile(`\bunit\s+(viii|vii|vi|iv|ix|iii|ii|i|v|x)\b`)

	numberHash     = regexp.MustCompile(`#\s*(\d+)`)
	numberPart     = regexp.MustCompile(`\b(?:part|pt|no|number)\s*(\d+)\b`)
	numberTrailing = regexp.MustCompile(`(\d+)\s*$`)

	letterDigit = regexp.MustCompile(`(\pL)(\d)`)
	digitLetter = regexp.MustCompile(`(\d)(\pL)`)

	romanValues = map[string]string{
		"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5",
		"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
	}
)

func buildCanonicalTokens() map[string]string {
	m := map[string]string{"u": "unit", "units": "unit"}
	for _, ts := range typeTable {
		for _, w := range ts.words {
			if !strings.Contains(w, " ") {
				m[w] = ts.canonical
			}
		}
	}
	return m
}

// clean lowercases s, drops emoji and punctuation (keeping '#'), splits glued letters and digits and
// collapses whitespace.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '#':
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)
	s = letterDigit.ReplaceAllString(s, "${1} ${2}")
	s = digitLetter.ReplaceAllString(s, "${1} ${2}")
	return core.CollapseSpaces(s)
}

// Tokenize extracts the facets of an assignment name.
func Tokenize(name string) Facets {
	hashed := clean(name)
	cleaned := core.CollapseSpaces(strings.ReplaceAll(hashed, "#", " "))

	f := Facets{Cleaned: cleaned}

	// unit: "unit N", "uN", or roman numerals after "unit"
	rest := hashed
	for _, re := range []*regexp.Regexp{unitArabic, unitShort, unitRoman} {
		if loc := re.FindStringSubmatchIndex(hashed); loc != nil {
			unit := hashed[loc[2]:loc[3]]
			if arabic, ok := romanValues[unit]; ok {
				unit = arabic
			}
			f.Unit = strings.TrimLeft(unit, "0")
			if f.Unit == "" {
				f.Unit = "0"
			}
			rest = hashed[:loc[0]] + " " + hashed[loc[1]:]
			break
		}
	}

	var typ *typeSynonyms
	for i := range typeTable {
		if typeTable[i].pattern.MatchString(cleaned) {
			typ = &typeTable[i]
			f.Type = typ.canonical
			break
		}
	}

	// number: "#N", "part N", "<type> N", then a trailing N (unit already removed)
	numberPatterns := []*regexp.Regexp{numberHash, numberPart}
	if typ != nil {
		numberPatterns = append(numberPatterns, typ.numbered)
	}
	numberPatterns = append(numberPatterns, numberTrailing)
	for _, re := range numberPatterns {
		if m := re.FindStringSubmatch(rest); m != nil {
			f.Number = strings.TrimLeft(m[1], "0")
			if f.Number == "" {
				f.Number = "0"
			}
			break
		}
	}

	for _, word := range strings.Fields(cleaned) {
		if stopWords[word] {
			continue
		}
		if canon, ok := canonicalTokens[word]; ok {
			word = canon
		}
		f.Tokens = append(f.Tokens, word)
	}
	f.SearchString = strings.Join(f.Tokens, " ")
	return f
}

// abbreviations are expanded in user input only; stored names are never rewritten.
var abbreviations = map[string]string{
	"u":      "unit",
	"hw":     "homework",
	"qz":     "quiz",
	"q":      "quiz",
	"asmt":   "assessment",
	"assess": "assessment",
	"proj":   "project",
	"pres":   "presentation",
	"ch":     "chapter",
	"chap":   "chapter",
	"pt":     "part",
	"wk":     "week",
	"et":     "exit ticket",
}

// ExpandAbbreviations rewrites known abbreviations in user input as whole words ("u1 qz2" -> "unit 1 quiz 2").
func ExpandAbbreviations(text string) string {
	words := strings.Fields(clean(text))
	for i, w := range words {
		if full, ok := abbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}
