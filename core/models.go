package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// artworkNamespace scopes deterministic artwork IDs so they cannot collide
// with IDs minted for other entity kinds.
var artworkNamespace = uuid.MustParse("9d2c1f6a-74e8-4c3b-8f21-5b0a6e4d9c37")

// IDFromObjectID derives a stable UUID for an artwork from its catalog object
// number using BLAKE2b hashing. Loading the same catalog dump twice therefore
// produces the same primary keys.
func IDFromObjectID(objectID int64) uuid.UUID {
	h, _ := blake2b.New(16, nil) // 16 bytes = one UUID
	return uuid.NewHash(h, artworkNamespace, []byte(strconv.FormatInt(objectID, 10)), 5)
}

// Stage identifies one enrichment stage of the pipeline.
type Stage int

const (
	// StageCaption turns the primary image into a literal description.
	StageCaption Stage = iota + 1
	// StageSummary turns the caption plus catalog metadata into curatorial prose.
	StageSummary
	// StageEmbedding turns the summary into a fixed-dimension vector.
	StageEmbedding
)

// String returns the stage name used in logs and command names.
func (s Stage) String() string {
	switch s {
	case StageCaption:
		return "caption"
	case StageSummary:
		return "summarize"
	case StageEmbedding:
		return "embed"
	default:
		return "unknown"
	}
}

// Artwork represents one row of the artwork catalog.
// The three enrichment attributes start out NULL and are each written
// exactly once by their stage.
type Artwork struct {
	ID               uuid.UUID
	ObjectID         int64 // stable catalog object number
	Title            string
	Artist           string
	Date             string // display date, free text ("ca. 1660")
	Medium           string
	Culture          string
	Department       string
	CreditLine       string
	Description      string
	PrimaryImage     string    // image URL; empty means no image available
	ImageCaption     string    // stage 1 output
	EmbeddingSummary string    // stage 2 output
	Embedding        []float32 // stage 3 output
	ProcessedAt      time.Time // set together with Embedding
	CreatedAt        time.Time
}

// HasImage reports whether the artwork has a usable primary image URL.
func (a *Artwork) HasImage() bool {
	return strings.TrimSpace(a.PrimaryImage) != ""
}

// NeedsCaption reports whether the artwork is eligible for the caption stage.
func (a *Artwork) NeedsCaption() bool {
	return a.HasImage() && a.ImageCaption == ""
}

// NeedsSummary reports whether the artwork is eligible for the summary stage.
func (a *Artwork) NeedsSummary() bool {
	return strings.TrimSpace(a.ImageCaption) != "" && a.EmbeddingSummary == ""
}

// NeedsEmbedding reports whether the artwork is eligible for the embedding stage.
func (a *Artwork) NeedsEmbedding() bool {
	return strings.TrimSpace(a.EmbeddingSummary) != "" && len(a.Embedding) == 0
}

// SearchHit is one nearest-neighbor match for a search query.
type SearchHit struct {
	Artwork *Artwork
	Score   float32 // cosine similarity, 1.0 is identical
}
