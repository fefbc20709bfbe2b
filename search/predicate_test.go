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
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/prof18/omnivore/model"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// newRenderDB returns a Bun handle that is never connected; it only renders
// SQL strings for assertion.
func newRenderDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("postgres", "postgres://localhost:5432/render?sslmode=disable")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel((*model.EntityLabel)(nil))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func render(t *testing.T, db *bun.DB, f *Filter, now time.Time) string {
	t.Helper()
	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	return Apply(q, f, now).String()
}

func TestApplyDefaultVisibility(t *testing.T) {
	db := newRenderDB(t)
	sqlStr := render(t, db, &Filter{}, time.Now())

	if !strings.Contains(sqlStr, "li.state <> 'PROCESSING'") {
		t.Errorf("missing pending exclusion: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "li.state <> 'DELETED'") {
		t.Errorf("missing deleted exclusion: %s", sqlStr)
	}
	if strings.Contains(sqlStr, "websearch_to_tsquery") {
		t.Errorf("empty filter must not add full-text clause: %s", sqlStr)
	}
}

func TestApplyNilFilter(t *testing.T) {
	db := newRenderDB(t)
	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr := Apply(q, nil, time.Now()).String()

	if !strings.Contains(sqlStr, "li.state <> 'PROCESSING'") ||
		!strings.Contains(sqlStr, "li.state <> 'DELETED'") {
		t.Errorf("nil filter should behave like an empty one: %s", sqlStr)
	}
}

func TestApplyIncludeFlags(t *testing.T) {
	db := newRenderDB(t)
	sqlStr := render(t, db, &Filter{IncludePending: true, IncludeDeleted: true}, time.Now())

	if strings.Contains(sqlStr, "li.state <>") {
		t.Errorf("include flags should drop visibility exclusions: %s", sqlStr)
	}
}

func TestApplyFreeTextQuery(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{Query: "quantum computing"}
	sqlStr := render(t, db, f, time.Now())

	if !strings.Contains(sqlStr, "li.search_tsv @@ websearch_to_tsquery('english', 'quantum computing')") {
		t.Errorf("missing tsquery clause: %s", sqlStr)
	}
}

func TestApplyOrderRankWinsOverSort(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{Query: "golang", Sort: &Sort{By: "savedAt", Order: SortAsc}}
	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr := ApplyOrder(Apply(q, f, time.Now()), f).String()

	rankIdx := strings.Index(sqlStr, "ts_rank_cd")
	sortIdx := strings.Index(sqlStr, "li.saved_at ASC NULLS LAST")
	if rankIdx < 0 || sortIdx < 0 {
		t.Fatalf("expected both rank and sort terms: %s", sqlStr)
	}
	if rankIdx > sortIdx {
		t.Errorf("rank must come before the requested sort: %s", sqlStr)
	}
}

func TestApplyOrderDefaults(t *testing.T) {
	db := newRenderDB(t)
	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr := ApplyOrder(q, &Filter{}).String()

	if !strings.Contains(sqlStr, "ORDER BY li.saved_at DESC NULLS LAST") {
		t.Errorf("missing default order: %s", sqlStr)
	}
}

func TestApplyOrderWhitelist(t *testing.T) {
	db := newRenderDB(t)

	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr := ApplyOrder(q, &Filter{Sort: &Sort{By: "wordCount", Order: SortAsc}}).String()
	if !strings.Contains(sqlStr, "li.word_count ASC NULLS LAST") {
		t.Errorf("mapped sort column missing: %s", sqlStr)
	}

	q = db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr = ApplyOrder(q, &Filter{Sort: &Sort{By: "evil; DROP TABLE", Order: SortAsc}}).String()
	if strings.Contains(sqlStr, "DROP TABLE") {
		t.Fatalf("unknown sort field leaked into SQL: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "li.saved_at ASC NULLS LAST") {
		t.Errorf("unknown sort field should fall back to saved_at: %s", sqlStr)
	}
}

func TestApplyPagination(t *testing.T) {
	db := newRenderDB(t)

	q := db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr := ApplyPagination(q, &Filter{}).String()
	if !strings.Contains(sqlStr, "LIMIT 10") {
		t.Errorf("missing default page size: %s", sqlStr)
	}

	q = db.NewSelect().Model((*model.LibraryItem)(nil))
	sqlStr = ApplyPagination(q, &Filter{From: 10, Size: 5}).String()
	if !strings.Contains(sqlStr, "LIMIT 5") || !strings.Contains(sqlStr, "OFFSET 10") {
		t.Errorf("missing requested window: %s", sqlStr)
	}
}

func TestApplyScopeTrash(t *testing.T) {
	db := newRenderDB(t)
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	sqlStr := render(t, db, &Filter{Scope: ScopeTrash}, now)

	if !strings.Contains(sqlStr, "li.state = 'DELETED' AND li.deleted_at BETWEEN") {
		t.Errorf("missing trash retention window: %s", sqlStr)
	}
	if strings.Contains(sqlStr, "li.state <> 'DELETED'") {
		t.Errorf("trash scope must lift the deleted exclusion: %s", sqlStr)
	}
	// the window opens 14 days before the query instant
	if !strings.Contains(sqlStr, "2025-03-01") {
		t.Errorf("window start not anchored to now-14d: %s", sqlStr)
	}
}

func TestApplyScopeInboxArchive(t *testing.T) {
	db := newRenderDB(t)

	sqlStr := render(t, db, &Filter{Scope: ScopeInbox}, time.Now())
	if !strings.Contains(sqlStr, "li.archived_at IS NULL") {
		t.Errorf("inbox must exclude archived: %s", sqlStr)
	}

	sqlStr = render(t, db, &Filter{Scope: ScopeArchive}, time.Now())
	if !strings.Contains(sqlStr, "li.archived_at IS NOT NULL") {
		t.Errorf("archive must require archived_at: %s", sqlStr)
	}
}

func TestApplyScopeSubscriptionLibrary(t *testing.T) {
	db := newRenderDB(t)

	sqlStr := render(t, db, &Filter{Scope: ScopeSubscription}, time.Now())
	if !strings.Contains(sqlStr, "li.subscription IS NOT NULL") ||
		!strings.Contains(sqlStr, "NOT (lower(array_cat") {
		t.Errorf("subscription scope wrong: %s", sqlStr)
	}

	sqlStr = render(t, db, &Filter{Scope: ScopeLibrary}, time.Now())
	if !strings.Contains(sqlStr, "li.subscription IS NULL OR") {
		t.Errorf("library scope wrong: %s", sqlStr)
	}
}

func TestApplyReadState(t *testing.T) {
	db := newRenderDB(t)

	sqlStr := render(t, db, &Filter{Read: ReadRead}, time.Now())
	if !strings.Contains(sqlStr, "li.reading_progress_top_percent >= 98") {
		t.Errorf("read filter wrong: %s", sqlStr)
	}

	sqlStr = render(t, db, &Filter{Read: ReadUnread}, time.Now())
	if !strings.Contains(sqlStr, "li.reading_progress_top_percent < 98") {
		t.Errorf("unread filter wrong: %s", sqlStr)
	}

	sqlStr = render(t, db, &Filter{Read: ReadAll}, time.Now())
	if strings.Contains(sqlStr, "reading_progress_top_percent") {
		t.Errorf("ALL must not constrain progress: %s", sqlStr)
	}
}

func TestApplyLabelFilters(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{
		LabelFilters: []LabelFilter{
			{Labels: []string{"News", "tech"}},
			{Labels: []string{"Longform"}},
			{Labels: []string{"Spam"}, Exclude: true},
			{Labels: []string{"ads"}, Exclude: true},
		},
	}
	sqlStr := render(t, db, f, time.Now())

	// two include clauses plus one merged exclude clause
	if got := strings.Count(sqlStr, "array_cat"); got != 3 {
		t.Errorf("expected 3 label overlap clauses, got %d: %s", got, sqlStr)
	}
	if got := strings.Count(sqlStr, "NOT (lower(array_cat"); got != 1 {
		t.Errorf("excludes must merge into one clause, got %d: %s", got, sqlStr)
	}
	// label names are folded to lowercase before binding
	if strings.Contains(sqlStr, "News") || strings.Contains(sqlStr, "Spam") {
		t.Errorf("label names must be lowercased: %s", sqlStr)
	}
}

func TestApplyHasFilters(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{HasFilters: []HasFilter{HasHighlights, HasLabels}}
	sqlStr := render(t, db, f, time.Now())

	if !strings.Contains(sqlStr, "array_length(li.highlight_annotations, 1) > 0") {
		t.Errorf("missing highlights existence clause: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "array_length(li.label_names, 1) > 0") {
		t.Errorf("missing labels existence clause: %s", sqlStr)
	}
}

func TestApplyDateDefaults(t *testing.T) {
	db := newRenderDB(t)
	now := time.Date(2025, 7, 4, 18, 30, 0, 0, time.UTC)
	f := &Filter{DateFilters: []DateFilter{{Field: "savedAt"}}}
	sqlStr := render(t, db, f, now)

	if !strings.Contains(sqlStr, "li.saved_at BETWEEN '1970-01-01") {
		t.Errorf("open start must default to epoch: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "2025-07-04") {
		t.Errorf("open end must default to now: %s", sqlStr)
	}
}

func TestApplyDateUnknownFieldIgnored(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{DateFilters: []DateFilter{{Field: "bogusAt"}}}
	sqlStr := render(t, db, f, time.Now())

	if strings.Contains(sqlStr, "BETWEEN") {
		t.Errorf("unknown date field must contribute nothing: %s", sqlStr)
	}
}

func TestApplyTermAndMatchFilters(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{
		TermFilters:  []FieldFilter{{Field: "site", Value: "Example.com"}},
		MatchFilters: []FieldFilter{{Field: "title", Value: "deep dive"}},
	}
	sqlStr := render(t, db, f, time.Now())

	if !strings.Contains(sqlStr, "LOWER(li.site_name) = LOWER('Example.com')") {
		t.Errorf("missing term clause: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "to_tsvector('english', li.title) @@ websearch_to_tsquery('english', 'deep dive')") {
		t.Errorf("missing match clause: %s", sqlStr)
	}
}

func TestApplyIDs(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{IDs: []string{"a1", "b2"}}
	sqlStr := render(t, db, f, time.Now())

	if !strings.Contains(sqlStr, "li.id IN ('a1', 'b2')") {
		t.Errorf("missing id set clause: %s", sqlStr)
	}
}

func TestApplyNoFilters(t *testing.T) {
	db := newRenderDB(t)
	f := &Filter{NoFilters: []string{"label", "highlight", "bogus"}}
	sqlStr := render(t, db, f, time.Now())

	if !strings.Contains(sqlStr, "li.label_names = '{}'") {
		t.Errorf("missing no-label clause: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "li.highlight_annotations = '{}'") {
		t.Errorf("missing no-highlight clause: %s", sqlStr)
	}
	if strings.Contains(sqlStr, "bogus") {
		t.Errorf("unknown no-filter leaked: %s", sqlStr)
	}
}

func TestApplyRecommendedBy(t *testing.T) {
	db := newRenderDB(t)

	sqlStr := render(t, db, &Filter{RecommendedBy: RecommendedByAny}, time.Now())
	if !strings.Contains(sqlStr, "array_length(li.recommender_names, 1) > 0") {
		t.Errorf("wildcard should require any recommender: %s", sqlStr)
	}

	sqlStr = render(t, db, &Filter{RecommendedBy: "Alice"}, time.Now())
	if !strings.Contains(sqlStr, "lower(li.recommender_names::text)::text[] &&") {
		t.Errorf("missing recommender overlap clause: %s", sqlStr)
	}
	if strings.Contains(sqlStr, "Alice") {
		t.Errorf("recommender name must be lowercased: %s", sqlStr)
	}
}

func TestApplyTypeFilter(t *testing.T) {
	db := newRenderDB(t)
	sqlStr := render(t, db, &Filter{Type: "ARTICLE"}, time.Now())

	if !strings.Contains(sqlStr, "LOWER(li.item_type) = LOWER('ARTICLE')") {
		t.Errorf("missing type clause: %s", sqlStr)
	}
}
