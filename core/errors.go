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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSegment indicates a Segment failed validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNegativeTime indicates a negative start or end offset.
	ErrNegativeTime = errors.New("time offset cannot be negative")

	// ErrSpanOrder indicates a segment whose end precedes its start.
	ErrSpanOrder = errors.New("segment end must not precede start")

	// ErrNegativeSequence indicates a negative intra-group sequence number.
	ErrNegativeSequence = errors.New("sequence cannot be negative")

	// ErrUnknownMode indicates an unrecognized search mode label.
	ErrUnknownMode = errors.New("unknown search mode")
)
