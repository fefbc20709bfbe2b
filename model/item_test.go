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
	"testing"
	"time"

	"github.com/prof18/omnivore/types"
)

func TestDeriveTimestampsArchived(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := DeriveTimestamps(StateArchived, now)

	if !ts.SetArchivedAt {
		t.Fatal("expected archived_at to be written")
	}
	if ts.ArchivedAt == nil || !ts.ArchivedAt.Equal(now) {
		t.Fatalf("archived_at = %v, want %v", ts.ArchivedAt, now)
	}
	if ts.SetDeletedAt {
		t.Fatal("archiving must not touch deleted_at")
	}
}

func TestDeriveTimestampsDeleted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := DeriveTimestamps(StateDeleted, now)

	if !ts.SetDeletedAt {
		t.Fatal("expected deleted_at to be written")
	}
	if ts.DeletedAt == nil || !ts.DeletedAt.Equal(now) {
		t.Fatalf("deleted_at = %v, want %v", ts.DeletedAt, now)
	}
	if ts.SetArchivedAt {
		t.Fatal("deleting must not touch archived_at")
	}
}

func TestDeriveTimestampsActiveStatesClearBoth(t *testing.T) {
	now := time.Now()
	for _, state := range []ItemState{StateProcessing, StateSucceeded} {
		ts := DeriveTimestamps(state, now)
		if !ts.SetArchivedAt || ts.ArchivedAt != nil {
			t.Fatalf("%s: expected archived_at reset to NULL, got %+v", state, ts)
		}
		if !ts.SetDeletedAt || ts.DeletedAt != nil {
			t.Fatalf("%s: expected deleted_at reset to NULL, got %+v", state, ts)
		}
	}
}

func TestDeriveTimestampsUnknownState(t *testing.T) {
	ts := DeriveTimestamps(ItemState("NOPE"), time.Now())
	if ts.SetArchivedAt || ts.SetDeletedAt {
		t.Fatalf("unknown state must not write timestamps, got %+v", ts)
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"   \n\t  ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced\tout\nwords  here ", 4},
	}
	for _, c := range cases {
		if got := CountWords(c.content); got != c.want {
			t.Errorf("CountWords(%q) = %d, want %d", c.content, got, c.want)
		}
	}
}

func TestItemStateEnum(t *testing.T) {
	states := []ItemState{StateProcessing, StateSucceeded, StateArchived, StateDeleted}
	seen := map[int]bool{}
	for _, s := range states {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
		n := s.Number()
		if n == types.IllegalValue {
			t.Errorf("%s should have a number", s)
		}
		if seen[n] {
			t.Errorf("duplicate number %d for %s", n, s)
		}
		seen[n] = true
		if s.Name() != string(s) {
			t.Errorf("Name() = %q, want %q", s.Name(), string(s))
		}
		if s.Desc() == types.IllegalDesc {
			t.Errorf("%s should have a description", s)
		}
	}

	bad := ItemState("UNKNOWN_STATE")
	if bad.IsValid() {
		t.Error("unexpected valid state")
	}
	if bad.Number() != types.IllegalValue {
		t.Errorf("invalid state number = %d", bad.Number())
	}
	if bad.Name() != types.IllegalName {
		t.Errorf("invalid state name = %q", bad.Name())
	}
}
