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

// Highlight is a user-authored annotation attached to a library item. It
// carries its own label-name list; the parent item's highlight_labels array
// is the denormalized union of these.
type Highlight struct {
	bun.BaseModel `bun:"table:highlights,alias:hl"`

	ID            string     `bun:"id,pk,type:uuid" json:"id"`
	UserID        string     `bun:"user_id,notnull,type:uuid" json:"user_id"`
	LibraryItemID string     `bun:"library_item_id,notnull,type:uuid" json:"library_item_id"`
	Quote         string     `bun:"quote" json:"quote,omitempty"`
	Annotation    string     `bun:"annotation" json:"annotation,omitempty"`
	Patch         string     `bun:"patch" json:"patch,omitempty"`
	LabelNames    []string   `bun:"label_names,array" json:"label_names,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     *time.Time `bun:"updated_at" json:"updated_at,omitempty"`

	User        *User        `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	LibraryItem *LibraryItem `bun:"rel:belongs-to,join:library_item_id=id" json:"library_item,omitempty"`
}
