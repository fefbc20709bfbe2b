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

// User is a minimal account record, present so highlight authors and
// recommender profiles can be eagerly attached to item lookups.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	PictureID string    `bun:"picture_id" json:"picture_id,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Group is a sharing circle a recommendation can originate from.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Recommendation is an edge recording that a user (optionally through a
// group) recommended an item to its owner.
type Recommendation struct {
	bun.BaseModel `bun:"table:recommendations,alias:rc"`

	ID            string    `bun:"id,pk,type:uuid" json:"id"`
	LibraryItemID string    `bun:"library_item_id,notnull,type:uuid" json:"library_item_id"`
	RecommenderID string    `bun:"recommender_id,notnull,type:uuid" json:"recommender_id"`
	GroupID       *string   `bun:"group_id,type:uuid" json:"group_id,omitempty"`
	Note          string    `bun:"note" json:"note,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Recommender *User  `bun:"rel:belongs-to,join:recommender_id=id" json:"recommender,omitempty"`
	Group       *Group `bun:"rel:belongs-to,join:group_id=id" json:"group,omitempty"`
}
