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


package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/poiesic/curio/core"
)

// CatalogObject is one record of a museum catalog dump. The dump carries
// display fields the enrichment pipeline never reads; they survive
// filtering and export but only the artwork table's columns are loaded.
type CatalogObject struct {
	ID                string   `json:"id"`
	ObjectID          int64    `json:"object_id"`
	Title             string   `json:"title"`
	Artist            string   `json:"artist"`
	Date              string   `json:"date"`
	Medium            string   `json:"medium"`
	PrimaryImage      string   `json:"primary_image"`
	Department        string   `json:"department"`
	Culture           string   `json:"culture"`
	CreatedAt         string   `json:"created_at"`
	AdditionalImages  []string `json:"additional_images"`
	ObjectURL         string   `json:"object_url"`
	IsHighlight       bool     `json:"is_highlight"`
	ArtistDisplayBio  string   `json:"artist_display_bio"`
	ObjectBeginDate   int64    `json:"object_begin_date"`
	ObjectEndDate     int64    `json:"object_end_date"`
	CreditLine        string   `json:"credit_line"`
	Classification    string   `json:"classification"`
	ArtistNationality string   `json:"artist_nationality"`
	PrimaryImageSmall string   `json:"primary_image_small"`
	Description       string   `json:"description"`
}

// HasImage reports whether the object carries a usable primary image URL.
func (o CatalogObject) HasImage() bool {
	return strings.TrimSpace(o.PrimaryImage) != ""
}

// ToArtwork maps the catalog object onto the artwork table's columns.
// Dumps without row IDs get a deterministic one derived from the object
// number, so reloading the same dump never forks identities.
func (o CatalogObject) ToArtwork() core.Artwork {
	id, err := uuid.Parse(o.ID)
	if err != nil {
		id = core.IDFromObjectID(o.ObjectID)
	}

	return core.Artwork{
		ID:           id,
		ObjectID:     o.ObjectID,
		Title:        o.Title,
		Artist:       o.Artist,
		Date:         o.Date,
		Medium:       o.Medium,
		Culture:      o.Culture,
		Department:   o.Department,
		CreditLine:   o.CreditLine,
		Description:  o.Description,
		PrimaryImage: strings.TrimSpace(o.PrimaryImage),
	}
}

// ReadCatalog decodes a catalog dump: a single JSON array of objects.
func ReadCatalog(r io.Reader) ([]CatalogObject, error) {
	var objects []CatalogObject
	if err := json.NewDecoder(r).Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return objects, nil
}

// WriteCatalog encodes objects in the same indented form the dumps use.
func WriteCatalog(w io.Writer, objects []CatalogObject) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(objects); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// FilterWithImages keeps only the objects the caption stage can work on.
func FilterWithImages(objects []CatalogObject) []CatalogObject {
	filtered := make([]CatalogObject, 0, len(objects))
	for _, obj := range objects {
		if obj.HasImage() {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}
