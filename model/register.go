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

import "github.com/prof18/omnivore/database"

// Registration order follows reference dependencies: parents before the
// tables that point at them. EntityLabel must be registered so Bun resolves
// the m2m relation on LibraryItem.Labels.
func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Group)(nil), 11))
	database.RegisteredModel(database.NewModelAdapter((*Label)(nil), 12))
	database.RegisteredModel(database.NewModelAdapter((*LibraryItem)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*EntityLabel)(nil), 30))
	database.RegisteredModel(database.NewModelAdapter((*Highlight)(nil), 31))
	database.RegisteredModel(database.NewModelAdapter((*Recommendation)(nil), 32))
}
