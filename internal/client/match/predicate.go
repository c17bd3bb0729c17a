package match

import (
	"reflect"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
)

// ConditionKind tells how a predicate field is matched.
type ConditionKind int

const (
	// Equals matches when the field equals Values[0].
	Equals ConditionKind = iota
	// In matches when the field equals any of Values.
	In
)

func (k ConditionKind) String() string {
	if k == In {
		return "in"
	}
	return "equals"
}

// Condition is a single field test.
type Condition struct {
	Kind   ConditionKind
	Values []any
}

// Eq builds an equality condition.
func Eq(v any) Condition {
	return Condition{Kind: Equals, Values: []any{v}}
}

// OneOf builds an IN condition.
func OneOf(vs ...any) Condition {
	return Condition{Kind: In, Values: vs}
}

// Matches tests a single value against the condition.
func (c Condition) Matches(v any) bool {
	if c.Kind == Equals {
		if len(c.Values) == 0 {
			return v == nil
		}
		return ValuesEqual(v, c.Values[0])
	}
	for _, want := range c.Values {
		if ValuesEqual(v, want) {
			return true
		}
	}
	return false
}

// Predicate maps field names to conditions; all conditions must hold.
type Predicate map[string]Condition

// ParsePredicate converts loosely typed filter state into a Predicate.
// Slice values (of any element type) become IN conditions; everything else
// is an equality test.
func ParsePredicate(raw map[string]any) Predicate {
	p := make(Predicate, len(raw))
	for field, v := range raw {
		if vs, ok := asSlice(v); ok {
			p[field] = OneOf(vs...)
			continue
		}
		p[field] = Eq(v)
	}
	return p
}

func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Matches reports whether rec satisfies every condition. A missing field
// is treated as nil.
func (p Predicate) Matches(rec models.Record) bool {
	for field, cond := range p {
		if !cond.Matches(rec[field]) {
			return false
		}
	}
	return true
}

// Filter returns the records matching p, keeping their original order.
func Filter(records []models.Record, p Predicate) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
