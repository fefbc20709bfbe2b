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

// Live-database suite. It needs a reachable Postgres instance and is skipped
// unless OMNIVORE_TEST_DB_HOST is set, e.g.:
//
//	OMNIVORE_TEST_DB_HOST=127.0.0.1 OMNIVORE_TEST_DB_NAME=omnivore_test go test ./tests/
package tests

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/prof18/omnivore"
	"github.com/prof18/omnivore/database"
	"github.com/prof18/omnivore/library"
	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/search"

	"github.com/google/uuid"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func (c *Config) ConfigLoader() *database.Config {
	return &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:     c.Database.Type,
			Host:     c.Database.Host,
			Port:     c.Database.Port,
			Username: c.Database.Username,
			Password: c.Database.Password,
			DBName:   c.Database.DBName,
		},
		DataMigrateConfig: database.DataMigrateConfig{
			EnableMigrateOnStartup: true,
		},
	}
}

func setup(t *testing.T) (context.Context, *library.Service) {
	t.Helper()
	host := os.Getenv("OMNIVORE_TEST_DB_HOST")
	if host == "" {
		t.Skip("OMNIVORE_TEST_DB_HOST not set, skipping live database suite")
	}
	port := 5432
	if p := os.Getenv("OMNIVORE_TEST_DB_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	cfg := Config{
		Database: DatabaseConfig{
			Type:     "postgres",
			Host:     host,
			Port:     port,
			Username: envDefault("OMNIVORE_TEST_DB_USER", "postgres"),
			Password: os.Getenv("OMNIVORE_TEST_DB_PASSWORD"),
			DBName:   envDefault("OMNIVORE_TEST_DB_NAME", "omnivore_test"),
		},
	}

	_, err := database.InitDB(cfg.ConfigLoader())
	if err != nil {
		t.Fatalf("init database error: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })

	return context.Background(), omnivore.NewLibraryService(nil)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newUser(t *testing.T, ctx context.Context) string {
	t.Helper()
	id := uuid.NewString()
	u := &model.User{
		ID:       id,
		Name:     "Test User",
		Username: "user-" + id,
	}
	if err := omnivore.NewUserService().Save(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func newItem(t *testing.T, ctx context.Context, svc *library.Service, userID, title string) *model.LibraryItem {
	t.Helper()
	item, err := svc.Create(ctx, &model.LibraryItem{
		UserID: userID,
		Title:  title,
		URL:    fmt.Sprintf("https://example.com/%s", uuid.NewString()),
	})
	if err != nil {
		t.Fatalf("create item %q: %v", title, err)
	}
	return item
}

func TestSearchPagination(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	for i := 0; i < 12; i++ {
		newItem(t, ctx, svc, userID, fmt.Sprintf("Item %02d", i))
	}

	res, err := svc.Search(ctx, userID, &search.Filter{From: 10, Size: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 12 {
		t.Errorf("total = %d, want 12", res.Total)
	}
	if len(res.Items) != 2 {
		t.Errorf("page size = %d, want 2", len(res.Items))
	}
}

func TestSearchDefaultSort(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		saved := base.Add(time.Duration(i) * time.Minute)
		_, err := svc.Create(ctx, &model.LibraryItem{
			UserID:  userID,
			Title:   fmt.Sprintf("Sorted %d", i),
			URL:     fmt.Sprintf("https://example.com/sorted/%d-%s", i, uuid.NewString()),
			SavedAt: saved,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	res, err := svc.Search(ctx, userID, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items", len(res.Items))
	}
	if res.Items[0].Title != "Sorted 2" {
		t.Errorf("newest save should come first, got %q", res.Items[0].Title)
	}
}

func TestBulkMarkAsRead(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	a := newItem(t, ctx, svc, userID, "Read Me")
	b := newItem(t, ctx, svc, userID, "Read Me Too")
	c := newItem(t, ctx, svc, userID, "Leave Me")

	err := svc.BulkApply(ctx, userID, library.BulkActionMarkAsRead,
		&search.Filter{IDs: []string{a.ID, b.ID}}, nil)
	if err != nil {
		t.Fatalf("bulk mark-as-read: %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, err := svc.GetByID(ctx, id)
		if err != nil || got == nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got.ReadingProgressTopPercent != 100 || got.ReadingProgressBottomPercent != 100 {
			t.Errorf("%s: progress = %v/%v, want 100/100",
				id, got.ReadingProgressTopPercent, got.ReadingProgressBottomPercent)
		}
		if got.ReadAt == nil {
			t.Errorf("%s: read_at not set", id)
		}
	}

	got, err := svc.GetByID(ctx, c.ID)
	if err != nil || got == nil {
		t.Fatalf("get %s: %v", c.ID, err)
	}
	if got.ReadAt != nil || got.ReadingProgressTopPercent != 0 {
		t.Errorf("unmatched item was touched: %+v", got)
	}
}

func TestBulkAddLabelsSkipsExisting(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)
	item := newItem(t, ctx, svc, userID, "Labeled")

	labelA := &model.Label{ID: uuid.NewString(), UserID: userID, Name: "alpha"}
	labelB := &model.Label{ID: uuid.NewString(), UserID: userID, Name: "beta"}
	if err := omnivore.NewLabelService().Save(ctx, labelA, labelB); err != nil {
		t.Fatalf("create labels: %v", err)
	}

	filter := &search.Filter{IDs: []string{item.ID}}
	if err := svc.BulkApply(ctx, userID, library.BulkActionAddLabels, filter,
		[]*model.Label{labelA}); err != nil {
		t.Fatalf("first add-labels: %v", err)
	}
	// second run includes an already attached label; it must be skipped, not
	// violate the join table uniqueness
	if err := svc.BulkApply(ctx, userID, library.BulkActionAddLabels, filter,
		[]*model.Label{labelA, labelB}); err != nil {
		t.Fatalf("second add-labels: %v", err)
	}

	got, err := svc.GetByID(ctx, item.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Labels) != 2 {
		t.Errorf("labels = %d, want 2", len(got.Labels))
	}
}

func TestUpdateStateTransitions(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)
	item := newItem(t, ctx, svc, userID, "Lifecycle")

	archived := model.StateArchived
	got, err := svc.Update(ctx, userID, item.ID, &library.ItemPatch{State: &archived})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if got.State != model.StateArchived || got.ArchivedAt == nil {
		t.Errorf("after archive: state=%s archived_at=%v", got.State, got.ArchivedAt)
	}
	if got.DeletedAt != nil {
		t.Errorf("archiving must not touch deleted_at: %v", got.DeletedAt)
	}

	got, err = svc.Restore(ctx, userID, item.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.State != model.StateSucceeded || got.ArchivedAt != nil || got.DeletedAt != nil {
		t.Errorf("after restore: state=%s archived_at=%v deleted_at=%v",
			got.State, got.ArchivedAt, got.DeletedAt)
	}
}

func TestTrashScope(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)
	item := newItem(t, ctx, svc, userID, "Trashed")

	deleted := model.StateDeleted
	if _, err := svc.Update(ctx, userID, item.ID, &library.ItemPatch{State: &deleted}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	res, err := svc.Search(ctx, userID, nil)
	if err != nil {
		t.Fatalf("default search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("deleted item visible in default scope: total=%d", res.Total)
	}

	res, err = svc.Search(ctx, userID, &search.Filter{Scope: search.ScopeTrash})
	if err != nil {
		t.Fatalf("trash search: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("trash total = %d, want 1", res.Total)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	title := "nope"
	_, err := svc.Update(ctx, userID, uuid.NewString(), &library.ItemPatch{Title: &title})
	if !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByPrefix(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	newItem(t, ctx, svc, userID, "World News")
	newItem(t, ctx, svc, userID, "Wonder Times")
	newItem(t, ctx, svc, userID, "Daily Digest")

	items, err := svc.FindByPrefix(ctx, userID, "Wo", 0)
	if err != nil {
		t.Fatalf("find by prefix: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("matches = %d, want 2", len(items))
	}
}

func TestGetByURL(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	url := fmt.Sprintf("https://example.com/url/%s", uuid.NewString())
	if _, err := svc.Create(ctx, &model.LibraryItem{UserID: userID, Title: "By URL", URL: url}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetByURL(ctx, userID, url)
	if err != nil {
		t.Fatalf("get by url: %v", err)
	}
	if got == nil || got.Title != "By URL" {
		t.Errorf("got = %+v", got)
	}

	missing, err := svc.GetByURL(ctx, userID, "https://example.com/missing")
	if err != nil {
		t.Fatalf("missing url: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown url, got %+v", missing)
	}
}

func TestCountByDateRange(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	newItem(t, ctx, svc, userID, "Counted 1")
	newItem(t, ctx, svc, userID, "Counted 2")

	n, err := svc.CountByDateRange(ctx, userID,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestCreateDefaults(t *testing.T) {
	ctx, svc := setup(t)
	userID := newUser(t, ctx)

	item, err := svc.Create(ctx, &model.LibraryItem{
		UserID:          userID,
		Title:           "Word Count",
		URL:             fmt.Sprintf("https://example.com/wc/%s", uuid.NewString()),
		ReadableContent: "five words of readable content",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if item.ID == "" {
		t.Error("id not assigned")
	}
	if item.State != model.StateSucceeded {
		t.Errorf("state = %s", item.State)
	}
	if item.WordCount == nil || *item.WordCount != 5 {
		t.Errorf("word_count = %v, want 5", item.WordCount)
	}
}
