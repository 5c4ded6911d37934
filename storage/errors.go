// Copyright 2026 Poiesic Systems
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


package storage

import "errors"

var (
	// ErrAlreadyEnriched indicates a conditional enrichment write matched no
	// row: the column was already filled, or the row vanished, since the
	// record was selected.
	ErrAlreadyEnriched = errors.New("enrichment column already written")

	// ErrEmptyDSN indicates a store was constructed without a database URL.
	ErrEmptyDSN = errors.New("database url is required")

	// ErrNoEmbeddingColumn indicates the artwork table lacks its vector
	// column, so the schema predates pgvector setup.
	ErrNoEmbeddingColumn = errors.New("artwork.embedding column not found")
)
