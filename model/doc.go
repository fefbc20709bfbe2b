// Package model defines the Bun models for the library item store: items,
// labels, highlights, recommendations, and their join rows, plus the state
// transition rules for item lifecycle timestamps.
package model
