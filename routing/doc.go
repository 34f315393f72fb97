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


// Package routing implements the query path: two-stage team routing with
// hybrid scoring, reranker fusion, sentence-window context expansion and
// the final auto-assign decision.
//
// Stage 1 ranks teams by reranking each team's nearest chunks against the
// query. Stage 2 runs hybrid scoring (semantic + keyword + weight boost)
// inside the winning team only, then fuses reranker scores on the reduced
// candidate set. Stage 3 widens each surviving chunk into a passage by
// taking a sentence window over the team's flattened sentence sequence.
//
// The engine is read-only against an index snapshot; concurrent queries
// need no locking.
package routing
