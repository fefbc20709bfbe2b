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

import "errors"

var (
	// ErrNotFound is returned by update paths when the target row does not
	// exist at re-fetch time. The surrounding transaction is rolled back.
	ErrNotFound = errors.New("library item not found")

	// ErrInvalidAction is returned for an unknown bulk action kind or an
	// add-labels action without labels, before any write happens.
	ErrInvalidAction = errors.New("invalid bulk action")

	// ErrAlreadyExists is returned when an insert violates a unique
	// constraint, e.g. creating an item with an id already in use.
	ErrAlreadyExists = errors.New("library item already exists")
)
