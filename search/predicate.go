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

import (
	"fmt"
	"strings"
	"time"

	"github.com/prof18/omnivore/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	tsLanguage = "english"

	// readThreshold is the top reading-progress percentage at which an item
	// counts as read.
	readThreshold = 98

	// trashRetention is how long soft-deleted items stay visible in TRASH.
	trashRetention = 14 * 24 * time.Hour
)

// labelArrayExpr is the case-folded union of an item's own label names and
// the label names of its highlights. NULL arrays fold to empty so array_cat
// never swallows the other side.
const labelArrayExpr = "lower(array_cat(coalesce(li.label_names, '{}'), coalesce(li.highlight_labels, '{}'))::text)::text[]"

// Column whitelists. Filters naming an unknown field contribute no clause,
// matching the absence semantics of unset filters.
var (
	dateColumns = map[string]string{
		"savedAt":     "saved_at",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
		"publishedAt": "published_at",
		"readAt":      "read_at",
		"archivedAt":  "archived_at",
		"deletedAt":   "deleted_at",
	}

	termColumns = map[string]string{
		"title":        "title",
		"author":       "author",
		"site":         "site_name",
		"url":          "url",
		"subscription": "subscription",
		"folder":       "folder",
	}

	matchColumns = map[string]string{
		"title":       "title",
		"author":      "author",
		"description": "description",
		"content":     "readable_content",
		"site":        "site_name",
	}

	noColumns = map[string]string{
		"label":       "label_names",
		"highlight":   "highlight_annotations",
		"recommender": "recommender_names",
	}

	sortColumns = map[string]string{
		"savedAt":     "saved_at",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
		"publishedAt": "published_at",
		"readAt":      "read_at",
		"wordCount":   "word_count",
	}
)

// rule is one independent predicate: a presence guard plus a clause builder.
// Rules never see each other's state, so they can run in any order; only the
// free-text relevance ordering is special-cased in ApplyOrder.
type rule struct {
	name    string
	present func(f *Filter) bool
	attach  func(q *bun.SelectQuery, f *Filter, now time.Time) *bun.SelectQuery
}

var rules = []rule{
	{
		name:    "free-text query",
		present: func(f *Filter) bool { return f.Query != "" },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			return q.Where("li.search_tsv @@ websearch_to_tsquery('"+tsLanguage+"', ?)", f.Query)
		},
	},
	{
		name:    "type",
		present: func(f *Filter) bool { return f.Type != "" },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			return q.Where("LOWER(li.item_type) = LOWER(?)", f.Type)
		},
	},
	{
		name:    "scope",
		present: func(f *Filter) bool { return f.Scope != "" && f.Scope != ScopeAll },
		attach:  attachScope,
	},
	{
		name:    "read state",
		present: func(f *Filter) bool { return f.Read == ReadRead || f.Read == ReadUnread },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			if f.Read == ReadRead {
				return q.Where("li.reading_progress_top_percent >= ?", readThreshold)
			}
			return q.Where("li.reading_progress_top_percent < ?", readThreshold)
		},
	},
	{
		name:    "has",
		present: func(f *Filter) bool { return len(f.HasFilters) > 0 },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			for _, h := range f.HasFilters {
				switch h {
				case HasHighlights:
					q = q.Where("array_length(li.highlight_annotations, 1) > 0")
				case HasLabels:
					q = q.Where("array_length(li.label_names, 1) > 0")
				}
			}
			return q
		},
	},
	{
		name:    "labels",
		present: func(f *Filter) bool { return len(f.LabelFilters) > 0 },
		attach:  attachLabels,
	},
	{
		name:    "dates",
		present: func(f *Filter) bool { return len(f.DateFilters) > 0 },
		attach:  attachDates,
	},
	{
		name:    "terms",
		present: func(f *Filter) bool { return len(f.TermFilters) > 0 },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			for _, t := range f.TermFilters {
				col, ok := termColumns[t.Field]
				if !ok {
					continue
				}
				q = q.Where("LOWER(li."+col+") = LOWER(?)", t.Value)
			}
			return q
		},
	},
	{
		name:    "matches",
		present: func(f *Filter) bool { return len(f.MatchFilters) > 0 },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			for _, m := range f.MatchFilters {
				col, ok := matchColumns[m.Field]
				if !ok {
					continue
				}
				q = q.Where("to_tsvector('"+tsLanguage+"', li."+col+") @@ websearch_to_tsquery('"+tsLanguage+"', ?)", m.Value)
			}
			return q
		},
	},
	{
		name:    "ids",
		present: func(f *Filter) bool { return len(f.IDs) > 0 },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			return q.Where("li.id IN (?)", bun.In(f.IDs))
		},
	},
	{
		name:    "no",
		present: func(f *Filter) bool { return len(f.NoFilters) > 0 },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			for _, n := range f.NoFilters {
				col, ok := noColumns[n]
				if !ok {
					continue
				}
				q = q.Where("li." + col + " = '{}'")
			}
			return q
		},
	},
	{
		name:    "recommended by",
		present: func(f *Filter) bool { return f.RecommendedBy != "" },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			if f.RecommendedBy == RecommendedByAny {
				return q.Where("array_length(li.recommender_names, 1) > 0")
			}
			who := []string{strings.ToLower(f.RecommendedBy)}
			return q.Where("lower(li.recommender_names::text)::text[] && ?", pgdialect.Array(who))
		},
	},
	{
		name:    "pending visibility",
		present: func(f *Filter) bool { return !f.IncludePending },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			return q.Where("li.state <> ?", model.StateProcessing)
		},
	},
	{
		name:    "deleted visibility",
		present: func(f *Filter) bool { return !f.IncludeDeleted && f.Scope != ScopeTrash },
		attach: func(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
			return q.Where("li.state <> ?", model.StateDeleted)
		},
	},
}

// Apply attaches every predicate the filter specifies to the select query.
// now anchors the TRASH retention window and open-ended date ranges, so the
// count and page passes of one search share the same instant. Apply adds
// WHERE clauses only; ordering and paging live in ApplyOrder and
// ApplyPagination.
func Apply(q *bun.SelectQuery, f *Filter, now time.Time) *bun.SelectQuery {
	if f == nil {
		f = &Filter{}
	}
	for _, r := range rules {
		if r.present(f) {
			q = r.attach(q, f, now)
		}
	}
	return q
}

func attachScope(q *bun.SelectQuery, f *Filter, now time.Time) *bun.SelectQuery {
	library := pgdialect.Array([]string{model.ReservedLibraryLabel})
	switch f.Scope {
	case ScopeInbox:
		return q.Where("li.archived_at IS NULL")
	case ScopeArchive:
		return q.Where("li.archived_at IS NOT NULL")
	case ScopeTrash:
		// Retention window, not a full trash listing: items deleted before
		// the window fell out of TRASH for good.
		return q.Where("li.state = ? AND li.deleted_at BETWEEN ? AND ?",
			model.StateDeleted, now.Add(-trashRetention), now)
	case ScopeSubscription:
		return q.Where("li.subscription IS NOT NULL AND NOT ("+labelArrayExpr+" && ?) AND li.archived_at IS NULL", library)
	case ScopeLibrary:
		return q.Where("(li.subscription IS NULL OR "+labelArrayExpr+" && ?) AND li.archived_at IS NULL", library)
	default:
		return q
	}
}

// attachLabels ANDs one overlap clause per include entry and merges all
// exclude entries into a single forbidden set.
func attachLabels(q *bun.SelectQuery, f *Filter, _ time.Time) *bun.SelectQuery {
	var excluded []string
	for _, lf := range f.LabelFilters {
		if len(lf.Labels) == 0 {
			continue
		}
		if lf.Exclude {
			excluded = append(excluded, foldLabels(lf.Labels)...)
			continue
		}
		q = q.Where(labelArrayExpr+" && ?", pgdialect.Array(foldLabels(lf.Labels)))
	}
	if len(excluded) > 0 {
		q = q.Where("NOT ("+labelArrayExpr+" && ?)", pgdialect.Array(excluded))
	}
	return q
}

func attachDates(q *bun.SelectQuery, f *Filter, now time.Time) *bun.SelectQuery {
	for _, df := range f.DateFilters {
		col, ok := dateColumns[df.Field]
		if !ok {
			continue
		}
		start := time.Unix(0, 0).UTC()
		if df.Start != nil {
			start = *df.Start
		}
		end := now
		if df.End != nil {
			end = *df.End
		}
		q = q.Where("li."+col+" BETWEEN ? AND ?", start, end)
	}
	return q
}

func foldLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(l)
	}
	return out
}

// ApplyOrder attaches result ordering. Relevance rank for a free-text query
// is attached first and therefore wins over any requested sort; the
// requested (or default save-time descending) sort follows as a tie
// breaker. NULLs sort last in both directions.
func ApplyOrder(q *bun.SelectQuery, f *Filter) *bun.SelectQuery {
	if f == nil {
		f = &Filter{}
	}
	if f.Query != "" {
		q = q.OrderExpr("ts_rank_cd(li.search_tsv, websearch_to_tsquery('"+tsLanguage+"', ?)) DESC", f.Query)
	}
	col, dir := "saved_at", SortDesc
	if f.Sort != nil {
		if c, ok := sortColumns[f.Sort.By]; ok {
			col = c
		}
		if f.Sort.Order == SortAsc {
			dir = SortAsc
		}
	}
	return q.OrderExpr(fmt.Sprintf("li.%s %s NULLS LAST", col, dir))
}

// ApplyPagination attaches offset/limit with the documented defaults
// (from 0, size 10).
func ApplyPagination(q *bun.SelectQuery, f *Filter) *bun.SelectQuery {
	from, size := 0, 10
	if f != nil {
		if f.From > 0 {
			from = f.From
		}
		if f.Size > 0 {
			size = f.Size
		}
	}
	return q.Offset(from).Limit(size)
}
