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


// Package index maintains the per-team vector indexes and token weight
// tables that routing queries against.
//
// Each team owns one HNSW graph whose node keys are chunk positions: key i
// is chunks[i]. That alignment is the load-bearing invariant of the whole
// search path and is established at build time, never mutated after.
//
// Initialization is all-or-nothing: either every team loads from storage
// with a matching corpus fingerprint, or every team is rebuilt from chunks
// and re-persisted. There is no per-team partial reuse.
package index
