// Package library is the user-facing data layer of the saved-item store:
// filtered and paginated search, point lookups with eager-loaded relations,
// single-item mutations with state-derived timestamp handling, and bulk
// actions over a filter's working set.
package library
