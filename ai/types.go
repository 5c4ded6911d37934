package ai

// ArtworkContext carries the catalog fields a summarizer may draw on.
// Values are passed through as stored; prompt assembly decides which of
// them are meaningful enough to include.
type ArtworkContext struct {
	// ImageCaption is the literal visual description from the caption stage.
	ImageCaption string

	// Title is the artwork title, possibly a placeholder like "Untitled".
	Title string

	// Artist is the attributed creator.
	Artist string

	// Date is the display date, free text.
	Date string

	// Medium describes materials and technique.
	Medium string

	// Culture is the originating culture or region.
	Culture string

	// Department is the curatorial department holding the work.
	Department string

	// Description is long-form catalog text, often empty.
	Description string
}
