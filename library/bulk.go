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
	"fmt"
	"time"

	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/search"
	"github.com/prof18/omnivore/types"

	"github.com/uptrace/bun"
)

// BulkAction is a set-wide operation applied to every item matching a
// filter.
type BulkAction string

const (
	BulkActionArchive    BulkAction = "ARCHIVE"
	BulkActionDelete     BulkAction = "DELETE"
	BulkActionAddLabels  BulkAction = "ADD_LABELS"
	BulkActionMarkAsRead BulkAction = "MARK_AS_READ"
)

var bulkActionNumbers = map[BulkAction]int{
	BulkActionArchive:    0,
	BulkActionDelete:     1,
	BulkActionAddLabels:  2,
	BulkActionMarkAsRead: 3,
}

func (a BulkAction) IsValid() bool {
	_, ok := bulkActionNumbers[a]
	return ok
}

func (a BulkAction) Number() int {
	if n, ok := bulkActionNumbers[a]; ok {
		return n
	}
	return types.IllegalValue
}

func (a BulkAction) String() string { return a.Name() }

func (a BulkAction) Name() string {
	if a.IsValid() {
		return string(a)
	}
	return types.IllegalName
}

func (a BulkAction) Desc() string {
	switch a {
	case BulkActionArchive:
		return "archive every matching item"
	case BulkActionDelete:
		return "soft-delete every matching item"
	case BulkActionAddLabels:
		return "attach labels to every matching item"
	case BulkActionMarkAsRead:
		return "mark every matching item as read"
	default:
		return types.IllegalDesc
	}
}

var _ types.BaseEnum = BulkActionArchive

// BulkApply runs the action against every item of the user matching the
// filter. Archive, delete, and mark-as-read are one UPDATE over the
// predicate's id set; add-labels fetches the working set and bulk-inserts
// the missing join rows. Validation failures happen before any write, and
// there are no partial results: the whole action commits or rolls back.
func (s *Service) BulkApply(ctx context.Context, userID string, action BulkAction, f *search.Filter, labels []*model.Label) error {
	if !action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}
	if action == BulkActionAddLabels && len(labels) == 0 {
		return fmt.Errorf("%w: add-labels requires a label set", ErrInvalidAction)
	}

	now := time.Now()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if action == BulkActionAddLabels {
			return s.bulkAddLabels(ctx, tx, userID, f, labels, now)
		}

		matching := tx.NewSelect().
			Model((*model.LibraryItem)(nil)).
			Column("li.id").
			Where("li.user_id = ?", userID)
		matching = search.Apply(matching, f, now)

		upd := tx.NewUpdate().
			Model((*model.LibraryItem)(nil)).
			Set("updated_at = ?", now).
			Where("li.id IN (?)", matching)

		switch action {
		case BulkActionArchive:
			upd = upd.
				Set("state = ?", model.StateArchived).
				Set("archived_at = ?", now)
		case BulkActionDelete:
			upd = upd.
				Set("state = ?", model.StateDeleted).
				Set("deleted_at = ?", now)
		case BulkActionMarkAsRead:
			upd = upd.
				Set("read_at = ?", now).
				Set("reading_progress_top_percent = ?", 100.0).
				Set("reading_progress_bottom_percent = ?", 100.0)
		}

		_, err := upd.Exec(ctx)
		return err
	})
}

// bulkAddLabels attaches the requested labels to every matching item,
// skipping pairs that already exist so the join table's uniqueness holds.
func (s *Service) bulkAddLabels(ctx context.Context, tx bun.Tx, userID string, f *search.Filter, labels []*model.Label, now time.Time) error {
	var items []*model.LibraryItem
	q := tx.NewSelect().
		Model(&items).
		Relation("Labels").
		Where("li.user_id = ?", userID)
	if err := search.Apply(q, f, now).Scan(ctx); err != nil {
		return err
	}

	rows := missingLabelRows(items, labels)
	if len(rows) == 0 {
		return nil
	}

	_, err := tx.NewInsert().Model(&rows).Exec(ctx)
	return err
}

// missingLabelRows returns one join row per (item, label) pair that is not
// already attached. Labels repeated in the request collapse to a single pair
// so the insert cannot violate the join table's uniqueness.
func missingLabelRows(items []*model.LibraryItem, labels []*model.Label) []*model.EntityLabel {
	var rows []*model.EntityLabel
	for _, item := range items {
		attached := make(map[string]struct{}, len(item.Labels)+len(labels))
		for _, l := range item.Labels {
			attached[l.ID] = struct{}{}
		}
		for _, l := range labels {
			if _, ok := attached[l.ID]; ok {
				continue
			}
			attached[l.ID] = struct{}{}
			rows = append(rows, &model.EntityLabel{
				LabelID:       l.ID,
				LibraryItemID: item.ID,
			})
		}
	}
	return rows
}
