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

package library

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prof18/omnivore/database"
	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/pubsub"
	"github.com/prof18/omnivore/types"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemPatch is a partial field update. Nil fields are untouched. A State
// change additionally derives the lifecycle timestamps through
// model.DeriveTimestamps.
type ItemPatch struct {
	Title                        *string
	Author                       *string
	Description                  *string
	Folder                       *string
	State                        *model.ItemState
	SavedAt                      *time.Time
	ReadAt                       *time.Time
	PublishedAt                  *time.Time
	ReadingProgressTopPercent    *float64
	ReadingProgressBottomPercent *float64
	ReadingProgressAnchorIndex   *int
	WordCount                    *int
}

// Payload renders the patch as the update-notification body: the changed
// fields plus the item id.
func (p *ItemPatch) Payload(id string) types.JsonObject {
	out := types.JsonObject{"id": id}
	if p == nil {
		return out
	}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Author != nil {
		out["author"] = *p.Author
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Folder != nil {
		out["folder"] = *p.Folder
	}
	if p.State != nil {
		out["state"] = string(*p.State)
	}
	if p.SavedAt != nil {
		out["saved_at"] = *p.SavedAt
	}
	if p.ReadAt != nil {
		out["read_at"] = *p.ReadAt
	}
	if p.PublishedAt != nil {
		out["published_at"] = *p.PublishedAt
	}
	if p.ReadingProgressTopPercent != nil {
		out["reading_progress_top_percent"] = *p.ReadingProgressTopPercent
	}
	if p.ReadingProgressBottomPercent != nil {
		out["reading_progress_bottom_percent"] = *p.ReadingProgressBottomPercent
	}
	if p.ReadingProgressAnchorIndex != nil {
		out["reading_progress_anchor_index"] = *p.ReadingProgressAnchorIndex
	}
	if p.WordCount != nil {
		out["word_count"] = *p.WordCount
	}
	return out
}

// Create persists a new library item. Missing id, state, type, and save time
// get defaults; a missing word count is computed from the readable content.
// The creation notification goes out after commit.
func (s *Service) Create(ctx context.Context, item *model.LibraryItem) (*model.LibraryItem, error) {
	now := time.Now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.State == "" {
		item.State = model.StateSucceeded
	}
	if item.ItemType == "" {
		item.ItemType = model.ItemTypeUnknown
	}
	if item.SavedAt.IsZero() {
		item.SavedAt = now
	}
	if item.WordCount == nil && item.ReadableContent != "" {
		wc := model.CountWords(item.ReadableContent)
		item.WordCount = &wc
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return s.items.CreateWithTx(ctx, &tx, item)
	})
	if err != nil {
		if ok, code := database.IsSqlError(err); ok && code == database.DuplicateKeyErr {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	s.notifyCreated(ctx, pubsub.EntityLibraryItem, item, item.UserID)
	return item, nil
}

// Update applies a partial patch to the user's item. A state change stamps
// or clears archived_at/deleted_at per the transition rules. The row must
// still exist when re-fetched after the write; otherwise the transaction is
// rolled back with ErrNotFound. The update notification (patch + id) goes
// out after commit.
func (s *Service) Update(ctx context.Context, userID, itemID string, patch *ItemPatch) (*model.LibraryItem, error) {
	if patch == nil {
		patch = &ItemPatch{}
	}
	now := time.Now()
	updated := new(model.LibraryItem)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		upd := tx.NewUpdate().
			Model((*model.LibraryItem)(nil)).
			Set("updated_at = ?", now).
			Where("li.id = ?", itemID).
			Where("li.user_id = ?", userID)
		upd = applyPatch(upd, patch, now)
		if _, err := upd.Exec(ctx); err != nil {
			return err
		}

		err := tx.NewSelect().
			Model(updated).
			Where("li.id = ?", itemID).
			Where("li.user_id = ?", userID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyUpdated(ctx, pubsub.EntityLibraryItem, patch.Payload(itemID), userID)
	return updated, nil
}

// Restore brings a soft-deleted or archived item back to the active state:
// SUCCEEDED, saved now, both lifecycle timestamps cleared.
func (s *Service) Restore(ctx context.Context, userID, itemID string) (*model.LibraryItem, error) {
	state := model.StateSucceeded
	now := time.Now()
	return s.Update(ctx, userID, itemID, &ItemPatch{State: &state, SavedAt: &now})
}

func applyPatch(upd *bun.UpdateQuery, patch *ItemPatch, now time.Time) *bun.UpdateQuery {
	if patch.Title != nil {
		upd = upd.Set("title = ?", *patch.Title)
	}
	if patch.Author != nil {
		upd = upd.Set("author = ?", *patch.Author)
	}
	if patch.Description != nil {
		upd = upd.Set("description = ?", *patch.Description)
	}
	if patch.Folder != nil {
		upd = upd.Set("folder = ?", *patch.Folder)
	}
	if patch.SavedAt != nil {
		upd = upd.Set("saved_at = ?", *patch.SavedAt)
	}
	if patch.ReadAt != nil {
		upd = upd.Set("read_at = ?", *patch.ReadAt)
	}
	if patch.PublishedAt != nil {
		upd = upd.Set("published_at = ?", *patch.PublishedAt)
	}
	if patch.ReadingProgressTopPercent != nil {
		upd = upd.Set("reading_progress_top_percent = ?", *patch.ReadingProgressTopPercent)
	}
	if patch.ReadingProgressBottomPercent != nil {
		upd = upd.Set("reading_progress_bottom_percent = ?", *patch.ReadingProgressBottomPercent)
	}
	if patch.ReadingProgressAnchorIndex != nil {
		upd = upd.Set("reading_progress_anchor_index = ?", *patch.ReadingProgressAnchorIndex)
	}
	if patch.WordCount != nil {
		upd = upd.Set("word_count = ?", *patch.WordCount)
	}
	if patch.State != nil {
		upd = upd.Set("state = ?", *patch.State)
		ts := model.DeriveTimestamps(*patch.State, now)
		if ts.SetArchivedAt {
			upd = upd.Set("archived_at = ?", ts.ArchivedAt)
		}
		if ts.SetDeletedAt {
			upd = upd.Set("deleted_at = ?", ts.DeletedAt)
		}
	}
	return upd
}

// DeleteByID physically removes the user's item. Join rows and highlights go
// with it by cascade.
func (s *Service) DeleteByID(ctx context.Context, userID, itemID string) error {
	_, err := s.db.NewDelete().
		Model((*model.LibraryItem)(nil)).
		Where("li.id = ?", itemID).
		Where("li.user_id = ?", userID).
		Exec(ctx)
	return err
}

// DeleteByURL physically removes the user's item saved from the given URL.
func (s *Service) DeleteByURL(ctx context.Context, userID, url string) error {
	_, err := s.db.NewDelete().
		Model((*model.LibraryItem)(nil)).
		Where("li.url = ?", url).
		Where("li.user_id = ?", userID).
		Exec(ctx)
	return err
}

// DeleteByUser physically removes every item the user owns.
func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.db.NewDelete().
		Model((*model.LibraryItem)(nil)).
		Where("li.user_id = ?", userID).
		Exec(ctx)
	return err
}
