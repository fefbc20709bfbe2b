// Package search turns a filter specification into WHERE clauses, ordering,
// and pagination on a Bun select query. Each filter field is an independent
// predicate rule guarded by presence of its input; an absent filter is a true
// no-op, never a default-true or default-false clause.
package search
