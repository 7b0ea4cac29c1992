package core

import "strings"

// FilterAll disables a category or input-type predicate.
const FilterAll = "all"

// Query describes the user-driven transaction filters. The zero value with
// Category and InputType set to FilterAll matches everything.
type Query struct {
	Search    string
	Category  string
	InputType string
}

// NewQuery returns a query that matches every transaction.
func NewQuery() Query {
	return Query{Category: FilterAll, InputType: FilterAll}
}

// Matches reports whether a single transaction satisfies the query. All three
// predicates are combined with AND; none has side effects.
func (q Query) Matches(t Transaction) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Merchant), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	if q.Category != FilterAll && q.Category != "" && t.Category != q.Category {
		return false
	}
	if q.InputType != FilterAll && q.InputType != "" && string(t.InputType) != q.InputType {
		return false
	}
	return true
}

// FilterTransactions returns the transactions matching q, preserving input
// order. An empty or fully-unmatched input yields an empty (non-nil) slice so
// callers can render an explicit empty state.
func FilterTransactions(transactions []Transaction, q Query) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
