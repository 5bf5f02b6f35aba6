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


// Package index defines the contract with the external document index
// service: ranked search, counting, bulk ingestion and health probes over
// a fixed transcript schema. The service itself is a black box; the
// elastic subpackage adapts Elasticsearch to this contract and the mock
// subpackage provides a test double.
package index
