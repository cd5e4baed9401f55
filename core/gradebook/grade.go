package gradebook

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// ParseGrade turns a raw grade cell into a number.
// ok is false (MISSING) for nil, empty or whitespace-only strings, non-numeric strings, NaN/Inf and unknown types.
// 0 is a valid grade.
func ParseGrade(raw interface{}) (value float64, ok bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		return parseGradeString(v)
	case *string:
		if v == nil {
			return 0, false
		}
		return parseGradeString(*v)
	case []byte:
		return parseGradeString(string(v))
	case json.Number:
		return parseGradeString(v.String())
	case null.String:
		if !v.Valid {
			return 0, false
		}
		return parseGradeString(v.String)
	case null.Float64:
		if !v.Valid {
			return 0, false
		}
		return finite(v.Float64)
	case null.Int:
		if !v.Valid {
			return 0, false
		}
		return float64(v.Int), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return finite(*v)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func parseGradeString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Percent converts a score to a 0-100 scale.
// Without a positive maxPoints the score is taken to already be a percentage.
func Percent(score float64, maxPoints null.Float64) float64 {
	if maxPoints.Valid && maxPoints.Float64 > 0 {
		return score * 100 / maxPoints.Float64
	}
	return score
}

// Round1 rounds f to one decimal place.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}
