// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/index/elastic"
	"github.com/poiesic/lectern/ingestion"
)

func main() {
	app := &cli.App{
		Name:  "indexer",
		Usage: "Index and enrich transcribed speech segments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringSliceFlag{
				Name:  "es-address",
				Usage: "Index service node URL (repeatable)",
				Value: cli.NewStringSlice("http://localhost:9200"),
			},
			&cli.StringFlag{
				Name:    "es-api-key",
				Usage:   "Index service API key",
				EnvVars: []string{"LECTERN_ES_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "es-username",
				Usage:   "Index service username",
				EnvVars: []string{"LECTERN_ES_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "es-password",
				Usage:   "Index service password",
				EnvVars: []string{"LECTERN_ES_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Segment index name",
				Value: lectern.DefaultIndexName,
			},
			&cli.StringFlag{
				Name:  "state-path",
				Usage: "Directory for the resumable checkpoint database",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "setup-index",
				Usage:  "Create the segment index with its mapping",
				Action: setupIndexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "dimensions",
						Usage: "Embedding vector width for the dense vector field",
						Value: 768,
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest transcript files into the index",
				ArgsUsage: "<transcript.json...>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Documents per bulk request",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent bulk workers",
						Value: 4,
					},
					&cli.Float64Flag{
						Name:  "min-span",
						Usage: "Minimum span duration in seconds before merging",
						Value: ingestion.DefaultMinSpanDuration,
					},
					&cli.Float64Flag{
						Name:  "max-span",
						Usage: "Maximum merged span duration in seconds",
						Value: ingestion.DefaultMaxSpanDuration,
					},
				},
			},
			{
				Name:   "enrich",
				Usage:  "Backfill embeddings for segments without vectors",
				Action: enrichCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "aubmindlab/bert-base-arabertv2",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Segments per enrichment batch",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Embedding attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay between embedding retries",
						Value: 2 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newEngine(c *cli.Context, opts ...lectern.EngineOption) (*lectern.Engine, error) {
	base := []lectern.EngineOption{
		lectern.WithElasticConfig(elastic.NewConfig(
			elastic.WithAddresses(c.StringSlice("es-address")...),
			elastic.WithAPIKey(c.String("es-api-key")),
			elastic.WithBasicAuth(c.String("es-username"), c.String("es-password")),
		)),
		lectern.WithIndexName(c.String("index")),
	}
	if path := c.String("state-path"); path != "" {
		base = append(base, lectern.WithStatePath(path))
	}
	return lectern.NewEngine(append(base, opts...)...)
}

func setupIndexCommand(c *cli.Context) error {
	engine, err := newEngine(c, lectern.WithoutEmbeddings())
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	if err := pipeline.EnsureIndex(context.Background(), c.Int("dimensions")); err != nil {
		return fmt.Errorf("error creating index %q: %w", c.String("index"), err)
	}
	fmt.Printf("index %q is ready\n", c.String("index"))
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one transcript file is required")
	}

	engine, err := newEngine(c, lectern.WithoutEmbeddings())
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithSpanBounds(c.Float64("min-span"), c.Float64("max-span")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		transcript, err := ingestion.LoadTranscript(path)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", path, err)
		}

		result, err := pipeline.IngestTranscript(ctx, transcript)
		if err != nil {
			return fmt.Errorf("error ingesting %s: %w", path, err)
		}
		fmt.Printf("%s: indexed %d segments\n", path, result.Indexed)
	}
	return nil
}

func enrichCommand(c *cli.Context) error {
	engine, err := newEngine(c,
		lectern.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	enricher, err := engine.NewEnricher(
		ingestion.WithEnrichBatchSize(c.Int("batch-size")),
		ingestion.WithEnrichRetries(c.Int("max-retries"), c.Duration("retry-delay")),
		ingestion.WithProgressWriter(os.Stderr),
	)
	if err != nil {
		return err
	}

	processed, err := enricher.Enrich(context.Background())
	if err != nil {
		return fmt.Errorf("enrichment stopped after %d segments: %w", processed, err)
	}
	fmt.Printf("enriched %d segments\n", processed)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
