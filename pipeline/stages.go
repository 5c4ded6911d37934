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


package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/core"
	"github.com/poiesic/curio/storage"
)

// Default per-run batch limits. Captioning is the most expensive stage, so
// it runs in bounded batches; embedding is cheap enough to drain unbounded.
const (
	DefaultCaptionLimit   = 1000
	DefaultSummaryLimit   = 200
	DefaultEmbeddingLimit = 0
)

// NewCaptionStage wires the captioning stage: artworks with an image but no
// caption are described by the vision model, cleaned up, and written back.
func NewCaptionStage(store storage.RecordStore, captioner ai.Captioner, progress io.Writer) (*Runner[string], error) {
	return New(Config[string]{
		Name:   core.StageCaption.String(),
		Select: store.SelectCaptionCandidates,
		Transform: func(ctx context.Context, art *core.Artwork) (string, error) {
			return captioner.CaptionImage(ctx, art.PrimaryImage)
		},
		PostProcess: CleanCaption,
		Validate:    core.ValidateCaption,
		Persist: func(ctx context.Context, art *core.Artwork, caption string) error {
			return store.SaveCaption(ctx, art.ID, caption)
		},
		Delay:          500 * time.Millisecond,
		ReportInterval: 25,
		Retry:          DefaultRetryPolicy(),
	}, progress)
}

// NewSummaryStage wires the summarization stage: captioned artworks get a
// curator-style description built from the caption and catalog metadata.
func NewSummaryStage(store storage.RecordStore, summarizer ai.Summarizer, progress io.Writer) (*Runner[string], error) {
	return New(Config[string]{
		Name:   core.StageSummary.String(),
		Select: store.SelectSummaryCandidates,
		Transform: func(ctx context.Context, art *core.Artwork) (string, error) {
			return summarizer.Summarize(ctx, ai.ArtworkContext{
				ImageCaption: art.ImageCaption,
				Title:        art.Title,
				Artist:       art.Artist,
				Date:         art.Date,
				Medium:       art.Medium,
				Culture:      art.Culture,
				Department:   art.Department,
				Description:  art.Description,
			})
		},
		PostProcess: TrimSummaryPrefix,
		Validate:    core.ValidateSummary,
		Persist: func(ctx context.Context, art *core.Artwork, summary string) error {
			return store.SaveSummary(ctx, art.ID, summary)
		},
		ReportInterval: 25,
		Retry:          DefaultRetryPolicy(),
	}, progress)
}

// NewEmbeddingStage wires the embedding stage: summarized artworks get a
// vector, with the processed timestamp written in the same statement.
func NewEmbeddingStage(store storage.RecordStore, embedder ai.Embedder, progress io.Writer) (*Runner[[]float32], error) {
	return New(Config[[]float32]{
		Name:   core.StageEmbedding.String(),
		Select: store.SelectEmbeddingCandidates,
		Transform: func(ctx context.Context, art *core.Artwork) ([]float32, error) {
			return embedder.EmbedText(ctx, art.EmbeddingSummary)
		},
		Validate: func(vector []float32) error {
			return core.ValidateEmbedding(vector, embedder.Dimensions())
		},
		Persist: func(ctx context.Context, art *core.Artwork, vector []float32) error {
			return store.SaveEmbedding(ctx, art.ID, vector, time.Now().UTC())
		},
		Delay:          100 * time.Millisecond,
		ReportInterval: 10,
		Retry:          DefaultRetryPolicy(),
		ShowETA:        true,
	}, progress)
}
