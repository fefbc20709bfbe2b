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
	"time"

	"github.com/uptrace/bun"
)

// ReservedLibraryLabel marks subscription items the user promoted into the
// library scope.
const ReservedLibraryLabel = "library"

// Label is a user-defined tag, many-to-many with library items.
type Label struct {
	bun.BaseModel `bun:"table:labels,alias:lb"`

	ID          string    `bun:"id,pk,type:uuid" json:"id"`
	UserID      string    `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Color       string    `bun:"color" json:"color,omitempty"`
	Description string    `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// EntityLabel attaches a label to a library item. Rows are inserted by the
// add-labels bulk action and only ever removed by cascade; the
// (label_id, library_item_id) pair is unique.
type EntityLabel struct {
	bun.BaseModel `bun:"table:entity_labels,alias:el"`

	LabelID       string    `bun:"label_id,pk,type:uuid" json:"label_id"`
	LibraryItemID string    `bun:"library_item_id,pk,type:uuid" json:"library_item_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Label       *Label       `bun:"rel:belongs-to,join:label_id=id" json:"label,omitempty"`
	LibraryItem *LibraryItem `bun:"rel:belongs-to,join:library_item_id=id" json:"library_item,omitempty"`
}
