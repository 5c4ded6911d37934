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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidArtwork indicates an Artwork failed validation.
	ErrInvalidArtwork = errors.New("invalid artwork")

	// ErrMissingObjectID indicates the catalog object number is absent.
	ErrMissingObjectID = errors.New("object id must be positive")

	// ErrEmptyCaption indicates a blank caption was produced.
	ErrEmptyCaption = errors.New("caption cannot be empty")

	// ErrEmptySummary indicates a blank summary was produced.
	ErrEmptySummary = errors.New("summary cannot be empty")

	// ErrEmptyEmbedding indicates an empty embedding vector was produced.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrDimensionMismatch indicates an embedding of the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
