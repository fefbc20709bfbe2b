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
	"errors"
	"testing"

	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/types"
)

func TestBulkApplyRejectsUnknownAction(t *testing.T) {
	svc := NewService(nil, nil)

	err := svc.BulkApply(context.Background(), "user-1", BulkAction("EXPLODE"), nil, nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestBulkApplyRejectsAddLabelsWithoutLabels(t *testing.T) {
	svc := NewService(nil, nil)

	err := svc.BulkApply(context.Background(), "user-1", BulkActionAddLabels, nil, nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestMissingLabelRowsSkipsAttached(t *testing.T) {
	items := []*model.LibraryItem{
		{ID: "item-1", Labels: []*model.Label{{ID: "lb-a"}}},
		{ID: "item-2"},
	}
	labels := []*model.Label{{ID: "lb-a"}, {ID: "lb-b"}}

	rows := missingLabelRows(items, labels)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, r := range rows {
		if r.LibraryItemID == "item-1" && r.LabelID == "lb-a" {
			t.Error("attached pair (item-1, lb-a) should be skipped")
		}
	}
}

func TestMissingLabelRowsDedupesRequest(t *testing.T) {
	items := []*model.LibraryItem{
		{ID: "item-1", Labels: []*model.Label{{ID: "lb-a"}}},
	}
	labels := []*model.Label{{ID: "lb-a"}, {ID: "lb-b"}, {ID: "lb-b"}}

	rows := missingLabelRows(items, labels)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].LabelID != "lb-b" || rows[0].LibraryItemID != "item-1" {
		t.Errorf("row = (%s, %s), want (item-1, lb-b)", rows[0].LibraryItemID, rows[0].LabelID)
	}
}

func TestBulkActionEnum(t *testing.T) {
	actions := []BulkAction{
		BulkActionArchive,
		BulkActionDelete,
		BulkActionAddLabels,
		BulkActionMarkAsRead,
	}
	seen := map[int]bool{}
	for _, a := range actions {
		if !a.IsValid() {
			t.Errorf("%s should be valid", a)
		}
		n := a.Number()
		if seen[n] {
			t.Errorf("duplicate number %d for %s", n, a)
		}
		seen[n] = true
		if a.Desc() == types.IllegalDesc {
			t.Errorf("%s should have a description", a)
		}
	}

	bad := BulkAction("EXPLODE")
	if bad.IsValid() {
		t.Error("unexpected valid action")
	}
	if bad.Number() != types.IllegalValue {
		t.Errorf("invalid action number = %d", bad.Number())
	}
	if bad.Name() != types.IllegalName {
		t.Errorf("invalid action name = %q", bad.Name())
	}
}
