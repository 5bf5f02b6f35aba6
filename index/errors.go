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


package index

import "errors"

// Failure taxonomy for index service calls. Adapters wrap their native
// errors with exactly one of these sentinels so callers can decide
// between degrading, retrying and surfacing.
var (
	// ErrConnectivity indicates the service is unreachable.
	ErrConnectivity = errors.New("index service unreachable")

	// ErrAuthentication indicates rejected credentials. Never retried.
	ErrAuthentication = errors.New("index authentication failed")

	// ErrNotFound indicates the index does not exist. Never retried.
	ErrNotFound = errors.New("index not found")

	// ErrTimeout indicates the per-call deadline elapsed. Transient.
	ErrTimeout = errors.New("index call timed out")

	// ErrMalformedResponse indicates an unparseable service response.
	ErrMalformedResponse = errors.New("malformed index response")
)

// Transient reports whether an error may succeed under a simpler search
// mode and therefore justifies one degradation retry.
func Transient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnectivity)
}
