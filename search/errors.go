// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrClientRequired is returned when an index client is not provided.
	ErrClientRequired = errors.New("index client required")

	// ErrIndexNameRequired is returned when an index name is not provided.
	ErrIndexNameRequired = errors.New("index name required")

	// ErrInvalidQuery is returned for an empty or whitespace-only query.
	// The request is rejected before any upstream call is made.
	ErrInvalidQuery = errors.New("invalid query")
)
