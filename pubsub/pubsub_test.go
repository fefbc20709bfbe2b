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

package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prof18/omnivore/types"
)

func TestNopClient(t *testing.T) {
	var c Client = NopClient{}
	ctx := context.Background()

	if err := c.EntityCreated(ctx, EntityLibraryItem, map[string]string{"id": "x"}, "u1"); err != nil {
		t.Fatalf("EntityCreated: %v", err)
	}
	if err := c.EntityUpdated(ctx, EntityLibraryItem, types.JsonObject{"id": "x"}, "u1"); err != nil {
		t.Fatalf("EntityUpdated: %v", err)
	}
}

func TestEventJSON(t *testing.T) {
	ev := Event{
		Entity:    EntityLibraryItem,
		Action:    ActionUpdated,
		UserID:    "u1",
		Data:      types.JsonObject{"id": "item-1", "title": "t"},
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["entity"] != "LIBRARY_ITEM" || decoded["action"] != "UPDATED" {
		t.Errorf("unexpected envelope: %v", decoded)
	}
	if decoded["user_id"] != "u1" {
		t.Errorf("user_id = %v", decoded["user_id"])
	}
	data, ok := decoded["data"].(map[string]interface{})
	if !ok || data["id"] != "item-1" {
		t.Errorf("data = %v", decoded["data"])
	}
}

func TestDefaultChannelPrefix(t *testing.T) {
	c := NewRedisClient(nil, "")
	if c.channelPrefix != defaultChannelPrefix {
		t.Errorf("channelPrefix = %q, want %q", c.channelPrefix, defaultChannelPrefix)
	}

	c = NewRedisClient(nil, "custom.events")
	if c.channelPrefix != "custom.events" {
		t.Errorf("channelPrefix = %q", c.channelPrefix)
	}
}
