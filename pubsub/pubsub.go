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
	"time"

	"github.com/prof18/omnivore/types"
)

// EntityType names the kind of record an event is about.
type EntityType string

const (
	EntityLibraryItem EntityType = "LIBRARY_ITEM"
	EntityLabel       EntityType = "LABEL"
	EntityHighlight   EntityType = "HIGHLIGHT"
)

// Action is what happened to the entity.
type Action string

const (
	ActionCreated Action = "CREATED"
	ActionUpdated Action = "UPDATED"
)

// Event is the published change-notification payload. For updates, Data is
// the applied patch plus the entity id, not the full row.
type Event struct {
	Entity    EntityType  `json:"entity"`
	Action    Action      `json:"action"`
	UserID    string      `json:"user_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client delivers change notifications after a mutation commits. Delivery is
// best effort: callers log a returned error and move on, it never rolls back
// the committed write.
type Client interface {
	EntityCreated(ctx context.Context, kind EntityType, entity interface{}, userID string) error
	EntityUpdated(ctx context.Context, kind EntityType, patch types.JsonObject, userID string) error
}

// NopClient drops every notification. Useful for tests and for deployments
// without a broker.
type NopClient struct{}

func (NopClient) EntityCreated(context.Context, EntityType, interface{}, string) error {
	return nil
}

func (NopClient) EntityUpdated(context.Context, EntityType, types.JsonObject, string) error {
	return nil
}

var _ Client = NopClient{}
