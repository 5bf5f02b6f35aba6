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

import "fmt"

// ValidateSegment validates a Segment according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Start and End must be non-negative
//   - End must not precede Start
//   - Sequence must be non-negative
//
// NOT validated (populated elsewhere):
//   - Vector (can be empty until the enrichment pass runs)
//   - DocID (assigned at ingestion)
//   - ProcessedText (derived at ingestion)
func ValidateSegment(segment *Segment) error {
	if segment == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if segment.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrEmptyText)
	}

	if segment.Start < 0 || segment.End < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrNegativeTime)
	}

	if segment.End < segment.Start {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrSpanOrder)
	}

	if segment.Sequence < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrNegativeSequence)
	}

	return nil
}

// ValidateMode validates that a Mode has a recognized value.
func ValidateMode(mode Mode) error {
	switch mode {
	case ModeLexical, ModeEnhanced, ModeSemantic:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrUnknownMode, mode)
}
