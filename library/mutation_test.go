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
	"testing"
	"time"

	"github.com/prof18/omnivore/model"
)

func TestItemPatchPayload(t *testing.T) {
	title := "Updated Title"
	state := model.StateArchived
	progress := 42.5
	p := &ItemPatch{
		Title:                     &title,
		State:                     &state,
		ReadingProgressTopPercent: &progress,
	}

	got := p.Payload("item-1")

	if got["id"] != "item-1" {
		t.Errorf("id = %v", got["id"])
	}
	if got["title"] != "Updated Title" {
		t.Errorf("title = %v", got["title"])
	}
	if got["state"] != "ARCHIVED" {
		t.Errorf("state = %v", got["state"])
	}
	if got["reading_progress_top_percent"] != 42.5 {
		t.Errorf("progress = %v", got["reading_progress_top_percent"])
	}
	if _, ok := got["author"]; ok {
		t.Error("unset fields must not appear in the payload")
	}
	if len(got) != 4 {
		t.Errorf("payload has %d entries, want 4: %v", len(got), got)
	}
}

func TestItemPatchPayloadEmpty(t *testing.T) {
	got := (&ItemPatch{}).Payload("item-2")
	if len(got) != 1 || got["id"] != "item-2" {
		t.Errorf("empty patch payload = %v, want only the id", got)
	}

	var nilPatch *ItemPatch
	got = nilPatch.Payload("item-3")
	if len(got) != 1 || got["id"] != "item-3" {
		t.Errorf("nil patch payload = %v, want only the id", got)
	}
}

func TestItemPatchPayloadTimes(t *testing.T) {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	p := &ItemPatch{ReadAt: &at, SavedAt: &at}

	got := p.Payload("item-4")

	if got["read_at"] != at {
		t.Errorf("read_at = %v, want %v", got["read_at"], at)
	}
	if got["saved_at"] != at {
		t.Errorf("saved_at = %v, want %v", got["saved_at"], at)
	}
}
