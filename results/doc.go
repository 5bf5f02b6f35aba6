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


// Package results turns raw ranked hits into presentation records.
//
// It owns three concerns: formatting elapsed seconds as MM:SS timestamps,
// deriving deep links that jump to a segment's start offset inside its
// source video, and reconstructing ordered conversation groups from
// independently indexed segments that share a group identifier.
//
// Formatting is idempotent over stored attributes: the same segment always
// yields the same record regardless of which query retrieved it.
package results
