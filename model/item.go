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

package model

import (
	"strings"
	"time"

	"github.com/prof18/omnivore/types"

	"github.com/uptrace/bun"
)

// ItemState is the lifecycle state of a library item. ARCHIVED and DELETED
// carry a companion timestamp; transitioning back to PROCESSING or SUCCEEDED
// clears both.
type ItemState string

const (
	StateProcessing ItemState = "PROCESSING"
	StateSucceeded  ItemState = "SUCCEEDED"
	StateArchived   ItemState = "ARCHIVED"
	StateDeleted    ItemState = "DELETED"
)

var itemStateNumbers = map[ItemState]int{
	StateProcessing: 0,
	StateSucceeded:  1,
	StateArchived:   2,
	StateDeleted:    3,
}

func (s ItemState) IsValid() bool {
	_, ok := itemStateNumbers[s]
	return ok
}

func (s ItemState) Number() int {
	if n, ok := itemStateNumbers[s]; ok {
		return n
	}
	return types.IllegalValue
}

func (s ItemState) String() string { return s.Name() }

func (s ItemState) Name() string {
	if s.IsValid() {
		return string(s)
	}
	return types.IllegalName
}

func (s ItemState) Desc() string {
	switch s {
	case StateProcessing:
		return "content ingestion in progress"
	case StateSucceeded:
		return "active item"
	case StateArchived:
		return "archived item"
	case StateDeleted:
		return "soft-deleted item"
	default:
		return types.IllegalDesc
	}
}

var _ types.BaseEnum = StateSucceeded

// ItemType classifies the saved content unit.
type ItemType string

const (
	ItemTypeArticle ItemType = "ARTICLE"
	ItemTypeBook    ItemType = "BOOK"
	ItemTypeFile    ItemType = "FILE"
	ItemTypeProfile ItemType = "PROFILE"
	ItemTypeWebsite ItemType = "WEBSITE"
	ItemTypeTweet   ItemType = "TWEET"
	ItemTypeVideo   ItemType = "VIDEO"
	ItemTypeImage   ItemType = "IMAGE"
	ItemTypeUnknown ItemType = "UNKNOWN"
)

// LibraryItem is a saved article/page/content unit owned by a user.
//
// The label_names, highlight_labels, highlight_annotations and
// recommender_names array columns are denormalized copies of the join tables,
// kept in sync by database triggers outside this module. search_tsv is a
// generated full-text vector and is never written from Go.
type LibraryItem struct {
	bun.BaseModel `bun:"table:library_items,alias:li"`

	ID              string    `bun:"id,pk,type:uuid" json:"id"`
	UserID          string    `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Title           string    `bun:"title,notnull" json:"title"`
	Author          string    `bun:"author" json:"author,omitempty"`
	Description     string    `bun:"description" json:"description,omitempty"`
	URL             string    `bun:"url,notnull" json:"url"`
	SiteName        string    `bun:"site_name" json:"site_name,omitempty"`
	SiteIcon        string    `bun:"site_icon" json:"site_icon,omitempty"`
	Subscription    string    `bun:"subscription,nullzero" json:"subscription,omitempty"`
	Folder          string    `bun:"folder" json:"folder,omitempty"`
	ItemType        ItemType  `bun:"item_type,notnull,default:'UNKNOWN'" json:"item_type"`
	ReadableContent string    `bun:"readable_content" json:"readable_content,omitempty"`
	State           ItemState `bun:"state,notnull,default:'SUCCEEDED'" json:"state"`

	SavedAt     time.Time  `bun:"saved_at,nullzero,notnull,default:current_timestamp" json:"saved_at"`
	ArchivedAt  *time.Time `bun:"archived_at" json:"archived_at,omitempty"`
	DeletedAt   *time.Time `bun:"deleted_at" json:"deleted_at,omitempty"`
	ReadAt      *time.Time `bun:"read_at" json:"read_at,omitempty"`
	PublishedAt *time.Time `bun:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	ReadingProgressTopPercent    float64 `bun:"reading_progress_top_percent" json:"reading_progress_top_percent"`
	ReadingProgressBottomPercent float64 `bun:"reading_progress_bottom_percent" json:"reading_progress_bottom_percent"`
	ReadingProgressAnchorIndex   int     `bun:"reading_progress_anchor_index" json:"reading_progress_anchor_index"`
	WordCount                    *int    `bun:"word_count" json:"word_count,omitempty"`

	LabelNames           []string `bun:"label_names,array" json:"label_names,omitempty"`
	HighlightLabels      []string `bun:"highlight_labels,array" json:"highlight_labels,omitempty"`
	HighlightAnnotations []string `bun:"highlight_annotations,array" json:"highlight_annotations,omitempty"`
	RecommenderNames     []string `bun:"recommender_names,array" json:"recommender_names,omitempty"`

	SearchTSV string `bun:"search_tsv,type:tsvector,scanonly" json:"-"`

	Labels          []*Label          `bun:"m2m:entity_labels,join:LibraryItem=Label" json:"labels,omitempty"`
	Highlights      []*Highlight      `bun:"rel:has-many,join:id=library_item_id" json:"highlights,omitempty"`
	Recommendations []*Recommendation `bun:"rel:has-many,join:id=library_item_id" json:"recommendations,omitempty"`
}

// TimestampPatch reports which lifecycle timestamps a state transition sets.
// A field is written only when its Set flag is true; a true flag with a nil
// value means "reset to NULL".
type TimestampPatch struct {
	ArchivedAt    *time.Time
	SetArchivedAt bool
	DeletedAt     *time.Time
	SetDeletedAt  bool
}

// DeriveTimestamps maps a target state to its timestamp side effects:
// ARCHIVED stamps archived_at, DELETED stamps deleted_at, and the two active
// states clear both. Timestamps the transition does not own are left alone.
func DeriveTimestamps(state ItemState, now time.Time) TimestampPatch {
	switch state {
	case StateArchived:
		return TimestampPatch{ArchivedAt: &now, SetArchivedAt: true}
	case StateDeleted:
		return TimestampPatch{DeletedAt: &now, SetDeletedAt: true}
	case StateProcessing, StateSucceeded:
		return TimestampPatch{SetArchivedAt: true, SetDeletedAt: true}
	default:
		return TimestampPatch{}
	}
}

// CountWords tokenizes readable content on whitespace boundaries and returns
// the token count.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
