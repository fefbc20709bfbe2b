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

// Package omnivore wires the saved-item store together: typed services for
// the domain models on top of the generic repository, and the library
// service for search, mutations, and bulk actions.
package omnivore

import (
	"github.com/prof18/omnivore/database"
	"github.com/prof18/omnivore/library"
	"github.com/prof18/omnivore/model"
	"github.com/prof18/omnivore/pubsub"
)

// NewLibraryService returns the library data layer backed by the global
// database connection. pub may be nil when change notifications are not
// wanted.
func NewLibraryService(pub pubsub.Client) *library.Service {
	return library.NewService(database.GetDB(), pub)
}

// Typed generic services for the satellite models. Item search and
// mutations go through the library service instead; these cover plain
// record CRUD for resolvers and maintenance jobs.

func NewLabelService() Service[model.Label] { return NewService[model.Label]() }

func NewHighlightService() Service[model.Highlight] { return NewService[model.Highlight]() }

func NewUserService() Service[model.User] { return NewService[model.User]() }

func NewGroupService() Service[model.Group] { return NewService[model.Group]() }

func NewRecommendationService() Service[model.Recommendation] {
	return NewService[model.Recommendation]()
}
