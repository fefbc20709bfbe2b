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
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/prof18/omnivore/model"
)

const defaultPrefixLimit = 5

// GetByID returns the item with its labels, highlights, and each highlight's
// author attached. A missing row is a normal (nil, nil) result.
func (s *Service) GetByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	item := new(model.LibraryItem)
	err := s.db.NewSelect().
		Model(item).
		Relation("Labels").
		Relation("Highlights").
		Relation("Highlights.User").
		Where("li.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByURL returns the user's item for the given URL with labels,
// highlights, and recommendations (including recommender profile and group)
// attached. A missing row is a normal (nil, nil) result.
func (s *Service) GetByURL(ctx context.Context, userID, url string) (*model.LibraryItem, error) {
	item := new(model.LibraryItem)
	err := s.db.NewSelect().
		Model(item).
		Relation("Labels").
		Relation("Highlights").
		Relation("Recommendations").
		Relation("Recommendations.Recommender").
		Relation("Recommendations.Group").
		Where("li.user_id = ?", userID).
		Where("li.url = ?", url).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// likeEscaper neutralizes LIKE metacharacters so a prefix matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func prefixPattern(prefix string) string {
	return likeEscaper.Replace(strings.ToLower(prefix)) + "%"
}

// FindByPrefix returns up to limit items whose title or site name starts
// with prefix, case-insensitively, newest saves first. limit <= 0 falls back
// to the default of 5.
func (s *Service) FindByPrefix(ctx context.Context, userID, prefix string, limit int) ([]*model.LibraryItem, error) {
	if limit <= 0 {
		limit = defaultPrefixLimit
	}
	pattern := prefixPattern(prefix)

	items := make([]*model.LibraryItem, 0, limit)
	err := s.db.NewSelect().
		Model(&items).
		Where("li.user_id = ?", userID).
		Where("(LOWER(li.title) LIKE ? OR LOWER(li.site_name) LIKE ?)", pattern, pattern).
		OrderExpr("li.saved_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByDateRange counts the user's items created within [start, end].
func (s *Service) CountByDateRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return s.db.NewSelect().
		Model((*model.LibraryItem)(nil)).
		Where("li.user_id = ?", userID).
		Where("li.created_at BETWEEN ? AND ?", start, end).
		Count(ctx)
}
