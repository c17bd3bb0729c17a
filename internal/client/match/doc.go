// Package match implements the client-side query engine used when the entity
// API is answered from the local mirror (and for filtering remote lists):
// loose cross-type equality, conjunctive field predicates with IN-clauses,
// and single-field ordering.
//
// Predicates arrive as loosely typed UI state, e.g. {"active": "true",
// "status": []any{"open", "held"}}; ParsePredicate turns them into a tagged
// Predicate so that scalar equality and IN-clauses are distinguished once,
// not on every comparison.
package match
