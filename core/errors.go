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
	// ErrEmptyChunkText indicates a chunk with no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrEmptyTeam indicates a chunk without an owning team.
	ErrEmptyTeam = errors.New("chunk team cannot be empty")

	// ErrInvalidConfidence indicates a confidence outside the 5-100 range.
	ErrInvalidConfidence = errors.New("confidence must be between 5 and 100")
)
