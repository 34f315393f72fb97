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


// Package storage provides the persistence abstraction for per-team index
// snapshots.
//
// The unit of persistence is the whole team: its chunk list, its exported
// vector index, its token weight table and the corpus fingerprint the
// snapshot was built from. A team record is written and read atomically;
// a reader never observes partial state.
//
// Public constructors of backend packages return the IndexStorage interface
// so consumers never couple to a concrete backend:
//
//	store, err := badger.NewIndexStorage(path)  // returns storage.IndexStorage
//
// All implementations must be safe for concurrent use.
package storage
