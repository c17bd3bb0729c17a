package match

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
)

// ValuesEqual compares two loosely typed values:
//   - identical values, and nil against nil, are equal;
//   - a number equals its string representation;
//   - a bool equals "true"/"false" (case-insensitive, trimmed);
//   - anything else compares by string representation.
func ValuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	an, aNum := toNumber(a)
	bn, bNum := toNumber(b)
	if aNum && bNum {
		return an == bn
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
		if bs, ok := b.(string); ok {
			return boolMatchesString(ab, bs)
		}
	}
	if bb, ok := b.(bool); ok {
		if as, ok := a.(string); ok {
			return boolMatchesString(bb, as)
		}
	}

	if aNum {
		if bs, ok := b.(string); ok {
			return numberMatchesString(an, bs)
		}
	}
	if bNum {
		if as, ok := a.(string); ok {
			return numberMatchesString(bn, as)
		}
	}

	return Stringify(a) == Stringify(b)
}

func boolMatchesString(b bool, s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return b
	case "false":
		return !b
	default:
		return false
	}
}

// numberMatchesString compares against the exact rendering; only booleans
// tolerate surrounding whitespace.
func numberMatchesString(n float64, s string) bool {
	return s == formatNumber(n)
}

// Stringify renders v the way a JSON client would print it in a form field:
// nil is "null", numbers drop trailing zeros, objects and arrays are JSON.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if n, ok := toNumber(v); ok {
		return formatNumber(n)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return models.IDString(v)
	}
	return string(b)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return models.IDString(n)
}

// toNumber reports whether v is a Go numeric value and returns it as float64.
// Strings are never treated as numbers here.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
