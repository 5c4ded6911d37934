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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/curio"
	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/dataset"
	"github.com/poiesic/curio/graceful"
	"github.com/poiesic/curio/pipeline"
	"github.com/poiesic/curio/preflight"
	"github.com/poiesic/curio/search"
	"github.com/poiesic/curio/storage/postgres"
)

func main() {
	app := &cli.App{
		Name:  "curio",
		Usage: "Museum artwork enrichment and semantic search pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Env file with DATABASE_URL and API keys",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "caption",
				Usage:  "Generate image captions for artworks that have none",
				Action: captionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "ollama-host",
						Usage:   "Ollama server URL",
						EnvVars: []string{"OLLAMA_HOST"},
						Value:   "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:    "vision-model",
						Usage:   "Vision model for image captioning",
						EnvVars: []string{"VISION_MODEL"},
						Value:   "llava",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum artworks to caption this run (0 for all)",
						Value: pipeline.DefaultCaptionLimit,
					},
				},
			},
			{
				Name:   "summarize",
				Usage:  "Generate curator summaries for captioned artworks",
				Action: summarizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "ollama-host",
						Usage:   "Ollama server URL",
						EnvVars: []string{"OLLAMA_HOST"},
						Value:   "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:    "llm-model",
						Usage:   "Text model for summary generation",
						EnvVars: []string{"LLM_MODEL"},
						Value:   "llama3.1:8b",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum artworks to summarize this run (0 for all)",
						Value: pipeline.DefaultSummaryLimit,
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Generate embeddings for summarized artworks",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service base URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"EMBEDDING_MODEL"},
						Value:   "text-embedding-3-large",
					},
					&cli.StringFlag{
						Name:    "openai-api-key",
						Usage:   "API key for the embedding service",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Expected embedding vector length",
						Value: 3072,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum artworks to embed this run (0 for all)",
						Value: pipeline.DefaultEmbeddingLimit,
					},
				},
			},
			{
				Name:   "run",
				Usage:  "Run all enrichment stages in order: caption, summarize, embed",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "ollama-host",
						Usage:   "Ollama server URL",
						EnvVars: []string{"OLLAMA_HOST"},
						Value:   "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:    "vision-model",
						Usage:   "Vision model for image captioning",
						EnvVars: []string{"VISION_MODEL"},
						Value:   "llava",
					},
					&cli.StringFlag{
						Name:    "llm-model",
						Usage:   "Text model for summary generation",
						EnvVars: []string{"LLM_MODEL"},
						Value:   "llama3.1:8b",
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service base URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"EMBEDDING_MODEL"},
						Value:   "text-embedding-3-large",
					},
					&cli.StringFlag{
						Name:    "openai-api-key",
						Usage:   "API key for the embedding service",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Expected embedding vector length",
						Value: 3072,
					},
					&cli.IntFlag{
						Name:  "caption-limit",
						Usage: "Maximum artworks to caption (0 for all)",
						Value: pipeline.DefaultCaptionLimit,
					},
					&cli.IntFlag{
						Name:  "summary-limit",
						Usage: "Maximum artworks to summarize (0 for all)",
						Value: pipeline.DefaultSummaryLimit,
					},
					&cli.IntFlag{
						Name:  "embed-limit",
						Usage: "Maximum artworks to embed (0 for all)",
						Value: pipeline.DefaultEmbeddingLimit,
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Check configuration, database, schema, and models before a run",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "ollama-host",
						Usage:   "Ollama server URL",
						EnvVars: []string{"OLLAMA_HOST"},
						Value:   "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:    "vision-model",
						Usage:   "Vision model for image captioning",
						EnvVars: []string{"VISION_MODEL"},
						Value:   "llava",
					},
					&cli.StringFlag{
						Name:    "llm-model",
						Usage:   "Text model for summary generation",
						EnvVars: []string{"LLM_MODEL"},
						Value:   "llama3.1:8b",
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service base URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"EMBEDDING_MODEL"},
						Value:   "text-embedding-3-large",
					},
					&cli.StringFlag{
						Name:    "openai-api-key",
						Usage:   "API key for the embedding service",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Expected embedding vector length",
						Value: 3072,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the embedded catalog with a natural-language query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Aliases:  []string{"d"},
						Usage:    "PostgreSQL connection URL",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service base URL",
						EnvVars: []string{"EMBEDDING_HOST"},
						Value:   "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"EMBEDDING_MODEL"},
						Value:   "text-embedding-3-large",
					},
					&cli.StringFlag{
						Name:    "openai-api-key",
						Usage:   "API key for the embedding service",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Expected embedding vector length",
						Value: 3072,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results to return",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Drop hits scoring below this similarity",
						Value: 0,
					},
				},
			},
			{
				Name:  "dataset",
				Usage: "Prepare and load museum catalog dumps",
				Subcommands: []*cli.Command{
					{
						Name:   "filter",
						Usage:  "Keep only catalog objects with a primary image",
						Action: datasetFilterCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "Catalog dump to read (JSON array)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "output",
								Aliases:  []string{"o"},
								Usage:    "Filtered dump to write",
								Required: true,
							},
						},
					},
					{
						Name:   "export",
						Usage:  "Export a catalog dump as CSV",
						Action: datasetExportCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "Catalog dump to read (JSON array)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "output",
								Aliases:  []string{"o"},
								Usage:    "CSV file to write",
								Required: true,
							},
						},
					},
					{
						Name:   "load",
						Usage:  "Load a catalog dump into the artwork table",
						Action: datasetLoadCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "database-url",
								Aliases:  []string{"d"},
								Usage:    "PostgreSQL connection URL",
								EnvVars:  []string{"DATABASE_URL"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "Catalog dump to read (JSON array)",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "batch-size",
								Usage: "Rows per insert batch",
								Value: 100,
							},
							&cli.IntFlag{
								Name:  "pool-size",
								Usage: "Concurrent insert workers (0 for auto)",
								Value: 0,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func captionCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	aiConfig := ai.NewConfig(
		ai.WithOllamaHost(c.String("ollama-host")),
		ai.WithVisionModel(c.String("vision-model")),
	)

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(aiConfig))
	if err != nil {
		return err
	}

	stage, err := catalog.NewCaptionStage(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Vision host: %s\n", aiConfig.VisionHost)
	fmt.Fprintf(os.Stderr, "Vision model: %s\n", aiConfig.VisionModel)
	fmt.Fprintln(os.Stderr)

	stats, err := stage.Run(ctx, c.Int("limit"))
	return finishRun(stats, err)
}

func summarizeCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	aiConfig := ai.NewConfig(
		ai.WithOllamaHost(c.String("ollama-host")),
		ai.WithLLMModel(c.String("llm-model")),
	)

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(aiConfig))
	if err != nil {
		return err
	}

	stage, err := catalog.NewSummaryStage(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "LLM host: %s\n", aiConfig.LLMHost)
	fmt.Fprintf(os.Stderr, "LLM model: %s\n", aiConfig.LLMModel)
	fmt.Fprintln(os.Stderr)

	stats, err := stage.Run(ctx, c.Int("limit"))
	return finishRun(stats, err)
}

func embedCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingAPIKey(c.String("openai-api-key")),
		ai.WithEmbeddingDimensions(c.Int("dimensions")),
	)

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(aiConfig))
	if err != nil {
		return err
	}

	stage, err := catalog.NewEmbeddingStage(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	stats, err := stage.Run(ctx, c.Int("limit"))
	return finishRun(stats, err)
}

func runCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(fullModelConfig(c)))
	if err != nil {
		return err
	}

	caption, err := catalog.NewCaptionStage(os.Stderr)
	if err != nil {
		return err
	}
	summary, err := catalog.NewSummaryStage(os.Stderr)
	if err != nil {
		return err
	}
	embed, err := catalog.NewEmbeddingStage(os.Stderr)
	if err != nil {
		return err
	}

	driver := pipeline.NewDriver()
	driver.Add(caption, c.Int("caption-limit"))
	driver.Add(summary, c.Int("summary-limit"))
	driver.Add(embed, c.Int("embed-limit"))

	return finishPipeline(driver.Run(ctx))
}

func verifyCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(fullModelConfig(c)))
	if err != nil {
		return err
	}

	results := catalog.NewVerifier().Run(ctx)
	for _, res := range results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %-18s %s\n", status, res.Name, res.Detail)
	}

	if !preflight.AllPassed(results) {
		return cli.Exit("\nSetup is not ready; fix the failed checks above.", 1)
	}

	fmt.Println("\nAll checks passed.")
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required: curio search <query>")
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingAPIKey(c.String("openai-api-key")),
		ai.WithEmbeddingDimensions(c.Int("dimensions")),
	)

	catalog, err := curio.NewCatalog(c.String("database-url"), curio.WithAIConfig(aiConfig))
	if err != nil {
		return err
	}

	searcher, err := catalog.NewSearcher(search.WithMinScore(float32(c.Float64("min-score"))))
	if err != nil {
		return err
	}

	hits, err := searcher.FindSimilar(ctx, query, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%2d. %.3f  %s", i+1, hit.Score, hit.Artwork.Title)
		if hit.Artwork.Artist != "" {
			fmt.Printf(" (%s)", hit.Artwork.Artist)
		}
		fmt.Println()
		if hit.Artwork.EmbeddingSummary != "" {
			fmt.Printf("           %s\n", truncate(hit.Artwork.EmbeddingSummary, 160))
		}
	}

	return nil
}

func datasetFilterCommand(c *cli.Context) error {
	objects, err := readCatalogFile(c.String("input"))
	if err != nil {
		return err
	}

	filtered := dataset.FilterWithImages(objects)

	out, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := dataset.WriteCatalog(out, filtered); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Kept %d of %d objects with images\n", len(filtered), len(objects))
	return nil
}

func datasetExportCommand(c *cli.Context) error {
	objects, err := readCatalogFile(c.String("input"))
	if err != nil {
		return err
	}

	out, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := dataset.ExportCSV(out, objects); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(objects), c.String("output"))
	return nil
}

func datasetLoadCommand(c *cli.Context) error {
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	objects, err := readCatalogFile(c.String("input"))
	if err != nil {
		return err
	}

	store, err := postgres.New(c.String("database-url"))
	if err != nil {
		return err
	}

	opts := []dataset.LoaderOption{dataset.WithBatchSize(c.Int("batch-size"))}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, dataset.WithPoolSize(size))
	}

	loader, err := dataset.NewLoader(store, opts...)
	if err != nil {
		return err
	}
	defer loader.Release()

	stats, err := loader.Load(ctx, objects)
	fmt.Fprintf(os.Stderr, "Read %d, inserted %d, skipped %d, failed %d\n",
		stats.Read, stats.Inserted, stats.Skipped, stats.Failed)

	if errors.Is(err, context.Canceled) {
		return cli.Exit("interrupted", 130)
	}
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d objects failed to load", stats.Failed), 1)
	}
	return nil
}

// fullModelConfig builds the model configuration for commands that touch
// all three models.
func fullModelConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithOllamaHost(c.String("ollama-host")),
		ai.WithVisionModel(c.String("vision-model")),
		ai.WithLLMModel(c.String("llm-model")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingAPIKey(c.String("openai-api-key")),
		ai.WithEmbeddingDimensions(c.Int("dimensions")),
	)
}

// finishRun maps a stage outcome to the process exit code: 0 when every
// record succeeded, 1 on partial failure, 2 when nothing succeeded, 130 on
// interrupt.
func finishRun(stats pipeline.RunStats, err error) error {
	if errors.Is(err, context.Canceled) {
		return cli.Exit("interrupted", 130)
	}
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if stats.Processed > 0 && stats.Succeeded == 0 {
		return cli.Exit(fmt.Sprintf("all %d records failed", stats.Failed), 2)
	}
	if stats.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records failed", stats.Failed, stats.Processed), 1)
	}
	return nil
}

// finishPipeline maps a full pipeline run to the process exit code using
// the same scheme as single stages.
func finishPipeline(results []pipeline.StageResult) error {
	if pipeline.Interrupted(results) {
		return cli.Exit("interrupted", 130)
	}

	var processed, succeeded, failed int
	stageErrs := 0
	for _, res := range results {
		processed += res.Stats.Processed
		succeeded += res.Stats.Succeeded
		failed += res.Stats.Failed
		if res.Err != nil {
			stageErrs++
		}
	}

	if stageErrs == len(results) && len(results) > 0 {
		return cli.Exit("all stages failed", 2)
	}
	if processed > 0 && succeeded == 0 {
		return cli.Exit(fmt.Sprintf("all %d records failed", failed), 2)
	}
	if failed > 0 || stageErrs > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records failed", failed, processed), 1)
	}
	return nil
}

func readCatalogFile(path string) ([]dataset.CatalogObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return dataset.ReadCatalog(f)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func setup(c *cli.Context) error {
	// Missing env files are fine; flags and the environment still apply.
	if path := c.String("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
