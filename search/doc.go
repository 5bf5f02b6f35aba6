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


// Package search orchestrates ranked retrieval over indexed transcript
// segments.
//
// The Searcher runs one of three strategies per request:
//   - lexical: plain term match
//   - enhanced: multi-clause boosted query with phrase, fuzzy, synonym,
//     cross-field and wildcard signals
//   - semantic: the enhanced query combined with a vector-similarity
//     clause over stored segment embeddings
//
// Failures walk a degradation ladder. An embedding failure inside
// semantic mode silently falls back to enhanced; a transient index
// failure degrades one mode and retries once; authentication and
// missing-index failures surface immediately. The response always
// reports the mode that actually produced the results.
package search
