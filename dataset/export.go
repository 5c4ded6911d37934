package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// csvFields is the canonical export column order. Downstream loaders key on
// these names, so the order is part of the format.
var csvFields = []string{
	"id",
	"object_id",
	"title",
	"artist",
	"date",
	"medium",
	"primary_image",
	"department",
	"culture",
	"created_at",
	"additional_images",
	"object_url",
	"is_highlight",
	"artist_display_bio",
	"object_begin_date",
	"object_end_date",
	"credit_line",
	"classification",
	"artist_nationality",
	"primary_image_small",
	"description",
}

// ExportCSV writes objects as CSV with the canonical header. Image URL
// lists are encoded as JSON inside their cell.
func ExportCSV(w io.Writer, objects []CatalogObject) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, obj := range objects {
		row, err := csvRow(obj)
		if err != nil {
			return fmt.Errorf("encode object %d: %w", obj.ObjectID, err)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRow(obj CatalogObject) ([]string, error) {
	images := "[]"
	if len(obj.AdditionalImages) > 0 {
		encoded, err := json.Marshal(obj.AdditionalImages)
		if err != nil {
			return nil, err
		}
		images = string(encoded)
	}

	return []string{
		obj.ID,
		strconv.FormatInt(obj.ObjectID, 10),
		obj.Title,
		obj.Artist,
		obj.Date,
		obj.Medium,
		obj.PrimaryImage,
		obj.Department,
		obj.Culture,
		obj.CreatedAt,
		images,
		obj.ObjectURL,
		strconv.FormatBool(obj.IsHighlight),
		obj.ArtistDisplayBio,
		strconv.FormatInt(obj.ObjectBeginDate, 10),
		strconv.FormatInt(obj.ObjectEndDate, 10),
		obj.CreditLine,
		obj.Classification,
		obj.ArtistNationality,
		obj.PrimaryImageSmall,
		obj.Description,
	}, nil
}
