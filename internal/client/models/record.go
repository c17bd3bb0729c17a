// Package models defines the client-side data shapes shared by the mirror,
// the transport and the entity services.
package models

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	FieldID          = "id"
	FieldCreatedDate = "created_date"
	FieldUpdatedDate = "updated_date"

	// TempIDPrefix marks identifiers assigned locally while offline.
	TempIDPrefix = "tmp_"

	tempIDRandomChars = 8
	timestampLayout   = "2006-01-02T15:04:05.000Z"
)

// Record is an open-ended JSON object as exchanged with the backend.
type Record map[string]any

// ID returns the record identifier in its string form ("" when absent).
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	return IDString(r[FieldID])
}

// HasID reports whether the record carries a non-empty identifier.
func (r Record) HasID() bool {
	return r.ID() != ""
}

// Clone returns a deep copy; nested maps and slices are copied as well.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]any(r)).(map[string]any)
}

// Merge returns a copy of r overlaid with the fields of other.
func (r Record) Merge(other Record) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	for k, v := range other {
		out[k] = cloneValue(v)
	}
	return out
}

// AsRecord reports whether v is a plain JSON object and returns it as a Record.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return Record(m), m != nil
	default:
		return nil, false
	}
}

// IDString normalizes an identifier of any JSON type to the string used for
// comparisons. Numeric ids format without exponent or trailing zeros so that
// 42 and "42" compare equal.
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return formatFloat(id)
	case float32:
		return formatFloat(float64(id))
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case bool:
		return strconv.FormatBool(id)
	default:
		return fmt.Sprint(id)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Timestamp renders t the way the backend stores record dates
// (UTC, millisecond precision, trailing Z).
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewTempID returns an offline identifier: tmp_<base36 millis><8 base36 chars>.
func NewTempID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString(TempIDPrefix)
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	sb.WriteString(randomBase36(tempIDRandomChars))
	return sb.String()
}

// IsTempID reports whether id was generated by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	n36 := big.NewInt(int64(len(base36Alphabet)))
	b := make([]byte, n)
	for i := range b {
		x, err := rand.Int(rand.Reader, n36)
		if err != nil {
			// crypto/rand does not fail on supported platforms; keep the id well-formed anyway.
			b[i] = base36Alphabet[time.Now().UnixNano()%36]
			continue
		}
		b[i] = base36Alphabet[x.Int64()]
	}
	return string(b)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = cloneValue(vv)
		}
		return out
	case Record:
		return Record(cloneValue(map[string]any(x)).(map[string]any))
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return x
	}
}
