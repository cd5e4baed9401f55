package gradebook

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/volatiletech/null/v8"
)

func TestParseGrade(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name   string
		raw    interface{}
		want   float64
		wantOk bool
	}{
		{name: "nil", raw: nil},
		{name: "empty string", raw: ""},
		{name: "whitespace", raw: "   \t"},
		{name: "non numeric", raw: "absent"},
		{name: "nan string", raw: "NaN"},
		{name: "nil string pointer", raw: (*string)(nil)},
		{name: "unsupported type", raw: []int{1}},
		{name: "bool", raw: true},
		{name: "null string", raw: null.String{}},
		{name: "null float", raw: null.Float64{}},
		{name: "zero int", raw: 0, want: 0, wantOk: true},
		{name: "zero string", raw: "0", want: 0, wantOk: true},
		{name: "int", raw: 87, want: 87, wantOk: true},
		{name: "float", raw: 92.5, want: 92.5, wantOk: true},
		{name: "padded string", raw: " 73.25 ", want: 73.25, wantOk: true},
		{name: "string pointer", raw: strPtr("12"), want: 12, wantOk: true},
		{name: "bytes", raw: []byte("45"), want: 45, wantOk: true},
		{name: "json number", raw: json.Number("18"), want: 18, wantOk: true},
		{name: "valid null string", raw: null.StringFrom("66"), want: 66, wantOk: true},
		{name: "valid null float", raw: null.Float64From(0), want: 0, wantOk: true},
		{name: "infinite", raw: math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseGrade(tt.raw)
			if ok != tt.wantOk {
				t.Fatalf("ParseGrade() ok = %v, wantOk %v", ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("ParseGrade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		max   null.Float64
		want  float64
	}{
		{name: "scaled", score: 8, max: null.Float64From(10), want: 80},
		{name: "no max", score: 73, max: null.Float64{}, want: 73},
		{name: "zero max", score: 73, max: null.Float64From(0), want: 73},
		{name: "negative max", score: 73, max: null.Float64From(-5), want: 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.score, tt.max); got != tt.want {
				t.Errorf("Percent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeRecord_Percent(t *testing.T) {
	missing := GradeRecord{RawGrade: nil, MaxPoints: null.Float64From(20)}
	if _, ok := missing.Percent(); ok {
		t.Error("Percent() on a missing grade should not be ok")
	}
	if !missing.IsMissing() {
		t.Error("IsMissing() = false, want true")
	}

	zero := GradeRecord{RawGrade: "0", MaxPoints: null.Float64From(20)}
	if pct, ok := zero.Percent(); !ok || pct != 0 {
		t.Errorf("Percent() = %v, %v; want 0, true", pct, ok)
	}
	if zero.IsMissing() {
		t.Error("a zero grade is not missing")
	}
}
