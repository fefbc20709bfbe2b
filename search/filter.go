/*
 * Copyright 2025 The Omnivore Authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package search

import "time"

// Scope selects the logical folder a query runs against.
type Scope string

const (
	ScopeAll          Scope = "ALL"
	ScopeInbox        Scope = "INBOX"
	ScopeArchive      Scope = "ARCHIVE"
	ScopeTrash        Scope = "TRASH"
	ScopeSubscription Scope = "SUBSCRIPTION"
	ScopeLibrary      Scope = "LIBRARY"
)

// ReadState filters on reading progress.
type ReadState string

const (
	ReadAll    ReadState = "ALL"
	ReadRead   ReadState = "READ"
	ReadUnread ReadState = "UNREAD"
)

// HasFilter is an existence check against a derived array column.
type HasFilter string

const (
	HasHighlights HasFilter = "HIGHLIGHTS"
	HasLabels     HasFilter = "LABELS"
)

// LabelFilter matches items whose combined item and highlight label names
// overlap Labels. Exclude entries are unioned into a single forbidden set;
// include entries each form their own conjunctive clause.
type LabelFilter struct {
	Labels  []string
	Exclude bool
}

// DateFilter is an inclusive range on a date field. A nil Start defaults to
// the Unix epoch, a nil End to the query time.
type DateFilter struct {
	Field string
	Start *time.Time
	End   *time.Time
}

// FieldFilter is a (field, value) pair used by term and match filters.
type FieldFilter struct {
	Field string
	Value string
}

// SortOrder is the requested sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Sort names the result ordering. NULLs always sort last regardless of
// direction.
type Sort struct {
	By    string
	Order SortOrder
}

// RecommendedByAny matches every item with at least one recommender.
const RecommendedByAny = "*"

// Filter is the full filter specification consumed by the predicate builder.
// Every field is optional; a zero field contributes no clause. Only the
// default visibility exclusions (no PROCESSING, no DELETED) apply to a zero
// Filter.
type Filter struct {
	Query string

	Scope Scope
	Read  ReadState
	Type  string

	LabelFilters []LabelFilter
	HasFilters   []HasFilter
	DateFilters  []DateFilter
	TermFilters  []FieldFilter
	MatchFilters []FieldFilter
	NoFilters    []string

	IDs []string

	IncludePending bool
	IncludeDeleted bool

	RecommendedBy string

	Sort *Sort
	From int
	Size int
}
