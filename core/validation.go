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

import (
	"fmt"
	"strings"
)

// ValidateArtwork validates an Artwork before it is inserted into the catalog.
//
// Validation rules:
//   - ObjectID must be positive
//
// NOT validated (populated by pipeline stages):
//   - ImageCaption, EmbeddingSummary, Embedding, ProcessedAt
//   - ID (a zero UUID is replaced by IDFromObjectID at load time)
func ValidateArtwork(artwork *Artwork) error {
	if artwork == nil {
		return fmt.Errorf("%w: artwork is nil", ErrInvalidArtwork)
	}

	if artwork.ObjectID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArtwork, ErrMissingObjectID)
	}

	return nil
}

// ValidateCaption validates stage output before it is persisted.
// A caption may degrade to nothing after lead-in stripping; such records
// count as failures rather than writing blank text.
func ValidateCaption(caption string) error {
	if strings.TrimSpace(caption) == "" {
		return ErrEmptyCaption
	}
	return nil
}

// ValidateSummary validates stage output before it is persisted.
func ValidateSummary(summary string) error {
	if strings.TrimSpace(summary) == "" {
		return ErrEmptySummary
	}
	return nil
}

// ValidateEmbedding checks the dimensionality contract. A vector of the
// wrong length is a consistency error and must never be persisted.
// A dimensions value of 0 disables the length check.
func ValidateEmbedding(vector []float32, dimensions int) error {
	if len(vector) == 0 {
		return ErrEmptyEmbedding
	}
	if dimensions > 0 && len(vector) != dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dimensions)
	}
	return nil
}
