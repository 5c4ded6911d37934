package core

import (
	"testing"
)

func TestIDFromObjectID(t *testing.T) {
	tests := []struct {
		name     string
		objectID int64
	}{
		{
			name:     "small object number",
			objectID: 42,
		},
		{
			name:     "large object number",
			objectID: 436535,
		},
		{
			name:     "single digit",
			objectID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromObjectID(tt.objectID)
			id2 := IDFromObjectID(tt.objectID)

			if id1 != id2 {
				t.Errorf("IDFromObjectID() produced different IDs for same object: %s vs %s", id1, id2)
			}
		})
	}
}

func TestIDFromObjectID_Different(t *testing.T) {
	id1 := IDFromObjectID(100)
	id2 := IDFromObjectID(101)

	if id1 == id2 {
		t.Errorf("IDFromObjectID() produced same ID for different objects")
	}
}

func TestIDFromObjectID_Version(t *testing.T) {
	id := IDFromObjectID(436535)

	if id.Version() != 5 {
		t.Errorf("IDFromObjectID() version = %d, want 5", id.Version())
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageCaption, "caption"},
		{StageSummary, "summarize"},
		{StageEmbedding, "embed"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.stage.String(); got != tt.want {
				t.Errorf("Stage.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArtwork_Eligibility(t *testing.T) {
	tests := []struct {
		name           string
		artwork        Artwork
		needsCaption   bool
		needsSummary   bool
		needsEmbedding bool
	}{
		{
			name:         "fresh row with image",
			artwork:      Artwork{PrimaryImage: "https://images.example.org/1.jpg"},
			needsCaption: true,
		},
		{
			name:    "no image",
			artwork: Artwork{PrimaryImage: ""},
		},
		{
			name:    "whitespace image url",
			artwork: Artwork{PrimaryImage: "   "},
		},
		{
			name: "captioned, awaiting summary",
			artwork: Artwork{
				PrimaryImage: "https://images.example.org/1.jpg",
				ImageCaption: "A bronze statue of a horse.",
			},
			needsSummary: true,
		},
		{
			name: "summarized, awaiting embedding",
			artwork: Artwork{
				PrimaryImage:     "https://images.example.org/1.jpg",
				ImageCaption:     "A bronze statue of a horse.",
				EmbeddingSummary: "This bronze equestrian figure reflects Tang dynasty casting.",
			},
			needsEmbedding: true,
		},
		{
			name: "fully enriched",
			artwork: Artwork{
				PrimaryImage:     "https://images.example.org/1.jpg",
				ImageCaption:     "A bronze statue of a horse.",
				EmbeddingSummary: "This bronze equestrian figure reflects Tang dynasty casting.",
				Embedding:        []float32{0.1, 0.2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.artwork.NeedsCaption(); got != tt.needsCaption {
				t.Errorf("NeedsCaption() = %v, want %v", got, tt.needsCaption)
			}
			if got := tt.artwork.NeedsSummary(); got != tt.needsSummary {
				t.Errorf("NeedsSummary() = %v, want %v", got, tt.needsSummary)
			}
			if got := tt.artwork.NeedsEmbedding(); got != tt.needsEmbedding {
				t.Errorf("NeedsEmbedding() = %v, want %v", got, tt.needsEmbedding)
			}
		})
	}
}
