package match

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wmsclient/internal/client/models"
)

// Sort orders records in place by a single field and returns them.
// orderBy is a field name, optionally prefixed with "-" for descending.
// Missing and nil values sort last ascending and first descending.
// The sort is stable; an empty orderBy leaves the order untouched.
func Sort(records []models.Record, orderBy string) []models.Record {
	field, desc := parseOrder(orderBy)
	if field == "" {
		return records
	}

	dir := 1
	if desc {
		dir = -1
	}

	sort.SliceStable(records, func(i, j int) bool {
		return compareField(records[i][field], records[j][field], dir) < 0
	})
	return records
}

func parseOrder(orderBy string) (string, bool) {
	orderBy = strings.TrimSpace(orderBy)
	if strings.HasPrefix(orderBy, "-") {
		return strings.TrimSpace(orderBy[1:]), true
	}
	return orderBy, false
}

func compareField(a, b any, dir int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return dir
	case b == nil:
		return -dir
	}
	switch {
	case greater(a, b):
		return dir
	case greater(b, a):
		return -dir
	default:
		return 0
	}
}

// greater follows the relational semantics of loosely typed JSON values:
// two strings compare lexically, any other pair compares numerically after
// primitive conversion, and incomparable values (NaN) are never greater.
func greater(a, b any) bool {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as > bs
		}
	}
	an, bn := relNumber(a), relNumber(b)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false
	}
	return an > bn
}

func relNumber(v any) float64 {
	if n, ok := toNumber(v); ok {
		return n
	}
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Limit truncates records to n entries; n <= 0 means no limit.
func Limit(records []models.Record, n int) []models.Record {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}
