// Package coerce converts loosely typed values decoded from JSON request bodies
// into Go scalars, following the conversion rules browsers and the web client apply
// (Number(x), String(x), truthiness, new Date(x)).
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// maxDateMillis is the largest absolute epoch offset a browser Date accepts
const maxDateMillis = 8.64e15

// extraDateLayouts are accepted in addition to cast's own list
var extraDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
}

// Number converts v to a float64. Values with no numeric reading produce NaN.
// nil, false and blank strings convert to 0.
func Number(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return numberFromString(x)
	case json.Number:
		return numberFromString(x.String())
	case map[string]any, []any:
		return math.NaN()
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return math.NaN()
	}
	return f
}

func numberFromString(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// strconv accepts spellings like "inf" and "nan" that are not numbers here
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	f, err := cast.ToFloat64E(s)
	if err != nil {
		return math.NaN()
	}
	return f
}

// IsFinite reports whether f is neither NaN nor infinite
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Truthy reports whether v would pass an `if (v)` check
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f := numberFromString(x.String())
		return f != 0 && !math.IsNaN(f)
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToInt64(x) != 0
	default:
		return true
	}
}

// String converts v to its string form
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return formatNumber(x)
	case json.Number:
		return x.String()
	case map[string]any:
		return "[object Object]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e != nil {
				parts[i] = String(e)
			}
		}
		return strings.Join(parts, ",")
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Date converts v to a point in time. Strings are parsed as calendar dates,
// numbers are epoch milliseconds. ok is false when v has no date reading.
func Date(v any) (t time.Time, ok bool) {
	switch x := v.(type) {
	case string:
		return dateFromString(x)
	case map[string]any, []any:
		return time.Time{}, false
	}

	ms := Number(v)
	if !IsFinite(ms) || math.Abs(ms) > maxDateMillis {
		return time.Time{}, false
	}
	return inYearRange(time.UnixMilli(int64(ms)))
}

func dateFromString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range extraDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return inYearRange(t)
		}
	}

	t, err := cast.StringToDate(s)
	if err != nil {
		return time.Time{}, false
	}
	// Clock-only layouts ("3:04PM") carry no calendar date
	if t.Year() == 0 {
		return time.Time{}, false
	}
	return inYearRange(t)
}

// inYearRange normalises t to UTC and rejects years outside [0, 9999],
// which have no RFC 3339 rendering
func inYearRange(t time.Time) (time.Time, bool) {
	t = t.UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}
