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
	"time"

	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/pubsub"
	"github.com/prof18/omnivore/repository"
	"github.com/prof18/omnivore/search"
	"github.com/prof18/omnivore/types"
	"github.com/prof18/omnivore/utils"

	"github.com/uptrace/bun"
)

// Service implements filtered search, point lookups, single-item mutations,
// and bulk actions over the library item table, scoped to an owning user.
// Every public operation is one synchronous unit of work inside a single
// transaction; change notifications go out only after commit.
type Service struct {
	db     *bun.DB
	items  repository.Repository[model.LibraryItem]
	pub    pubsub.Client
	logger *utils.Logger
}

// NewService builds a library service on the given Bun database. A nil
// notification client falls back to the no-op client.
func NewService(db *bun.DB, pub pubsub.Client) *Service {
	if pub == nil {
		pub = pubsub.NopClient{}
	}
	return &Service{
		db:     db,
		items:  repository.NewRepository[model.LibraryItem](db),
		pub:    pub,
		logger: utils.NewLogger("LIBRARY"),
	}
}

// SearchResult is one page of matching items plus the total match count
// under the same snapshot.
type SearchResult struct {
	Items []*model.LibraryItem
	Total int
}

// Search runs the filter against the user's items and returns the requested
// page together with the total count. Both reads execute inside one
// transaction so the count is consistent with the page; both share one
// reference instant for the retention-window and open-ended date predicates.
func (s *Service) Search(ctx context.Context, userID string, f *search.Filter) (*SearchResult, error) {
	now := time.Now()
	result := &SearchResult{Items: make([]*model.LibraryItem, 0)}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		countQ := tx.NewSelect().
			Model((*model.LibraryItem)(nil)).
			Where("li.user_id = ?", userID)
		total, err := search.Apply(countQ, f, now).Count(ctx)
		if err != nil {
			return err
		}
		result.Total = total

		pageQ := tx.NewSelect().
			Model(&result.Items).
			Where("li.user_id = ?", userID)
		pageQ = search.Apply(pageQ, f, now)
		pageQ = search.ApplyOrder(pageQ, f)
		pageQ = search.ApplyPagination(pageQ, f)
		return pageQ.Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// notifyCreated and notifyUpdated run after a successful commit. Failures
// are logged and swallowed: the mutation is already durable.
func (s *Service) notifyCreated(ctx context.Context, kind pubsub.EntityType, entity interface{}, userID string) {
	if err := s.pub.EntityCreated(ctx, kind, entity, userID); err != nil {
		s.logger.Warnf("entity-created notification dropped: %v", err)
	}
}

func (s *Service) notifyUpdated(ctx context.Context, kind pubsub.EntityType, patch types.JsonObject, userID string) {
	if err := s.pub.EntityUpdated(ctx, kind, patch, userID); err != nil {
		s.logger.Warnf("entity-updated notification dropped: %v", err)
	}
}
