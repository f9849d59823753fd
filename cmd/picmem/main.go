// Copyright 2025 The picmem Authors
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
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/picmem/picmem/ai"
	"github.com/picmem/picmem/ai/openai"
	"github.com/picmem/picmem/blob"
	"github.com/picmem/picmem/exifdata"
	"github.com/picmem/picmem/geo"
	"github.com/picmem/picmem/index/badgeridx"
	"github.com/picmem/picmem/ingest"
	"github.com/picmem/picmem/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "picmem",
		Usage: "Semantic picture memory: ingest, index, and search images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Process pending images into the search index",
				Action: ingestCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "inbox",
						Usage:    "Directory of images awaiting ingestion",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "processed",
						Usage:    "Directory claimed images are moved into",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "geocoder-url",
						Usage:   "Nominatim base URL for reverse geocoding",
						EnvVars: []string{"PICMEM_GEOCODER_URL"},
						Value:   "https://nominatim.openstreetmap.org",
					},
					&cli.StringFlag{
						Name:  "container",
						Usage: "Blob container images are uploaded into",
						Value: "images",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents per index flush",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "list-limit",
						Usage: "Maximum images pulled per pass",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts for a failed pass",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search indexed images by natural-language query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "snippets",
						Usage: "Render results as prompt-ready snippets",
					},
					&cli.IntFlag{
						Name:  "token-budget",
						Usage: "Approximate token budget for snippet output",
						Value: 1024,
					},
				),
			},
			{
				Name:   "serve-image",
				Usage:  "Serve stored images over HTTP",
				Action: serveImageCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "blob-dir",
						Usage:    "Blob storage root directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "container",
						Usage: "Blob container to serve",
						Value: "images",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are shared by commands that reach the index and the AI
// services.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB index directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "blob-dir",
			Usage:   "Blob storage root directory",
			Value:   "blobs",
			EnvVars: []string{"PICMEM_BLOB_DIR"},
		},
		&cli.StringFlag{
			Name:    "blob-base-url",
			Usage:   "Public base URL for stored blobs",
			EnvVars: []string{"PICMEM_BLOB_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			EnvVars: []string{"PICMEM_AI_HOST"},
			Value:   "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI service",
			EnvVars: []string{"PICMEM_AI_TOKEN"},
			Value:   "none",
		},
		&cli.StringFlag{
			Name:    "caption-model",
			Usage:   "Vision model used for image captioning",
			EnvVars: []string{"PICMEM_CAPTION_MODEL"},
			Value:   "llava",
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"PICMEM_EMBEDDING_MODEL"},
			Value:   "embeddinggemma",
		},
	}
}

// setup loads the optional .env file and configures logging. It runs
// before any command action.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return setupLogger(c)
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

func newAIProvider(c *cli.Context) (ai.Provider, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("ai-token")),
		ai.WithCaptionModel(c.String("caption-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return openai.NewProvider(aiConfig)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	// Fail on bad configuration before any image is claimed.
	config := &ingest.Config{
		Container:   c.String("container"),
		BatchSize:   c.Int("batch-size"),
		ListLimit:   c.Int("list-limit"),
		MaxAttempts: c.Int("max-attempts"),
		RetryDelay:  c.Duration("retry-delay"),
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid ingestion configuration: %w", err)
	}

	idx, err := badgeridx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer idx.Close()

	if err := idx.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to provision index schema: %w", err)
	}

	store, err := blob.NewFileStore(c.String("blob-dir"), c.String("blob-base-url"))
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	provider, err := newAIProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	geocoder := geo.NewNominatimGeocoder(geo.WithBaseURL(c.String("geocoder-url")))
	extractor, err := exifdata.NewExtractor(geocoder)
	if err != nil {
		return fmt.Errorf("failed to create metadata extractor: %w", err)
	}

	source, err := ingest.NewDirectorySource(c.String("inbox"), c.String("processed"), config.ListLimit)
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}

	pipeline, err := ingest.NewPipeline(source, extractor, store, idx, provider, config)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Close()

	driver, err := ingest.NewDriver(pipeline, config)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.Run(ctx); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	idx, err := badgeridx.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer idx.Close()

	if err := idx.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to provision index schema: %w", err)
	}

	provider, err := newAIProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	searcher, err := search.NewSearcher(idx, provider)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	matches, err := searcher.Search(ctx, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("snippets") {
		fmt.Println(search.BuildSnippets(matches, c.Int("token-budget")))
		return nil
	}

	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("%.4f  %s  %s\n", match.Score, match.Record.Id, match.Record.StorageRef)
		fmt.Printf("        %s\n", strings.ReplaceAll(match.Record.Text, "\n", "\n        "))
	}

	return nil
}

func serveImageCommand(c *cli.Context) error {
	store, err := blob.NewFileStore(c.String("blob-dir"), "")
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	container := c.String("container")
	mux := http.NewServeMux()
	mux.HandleFunc("/images/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/images/")
		if key == "" {
			http.Error(w, "image key required", http.StatusBadRequest)
			return
		}

		reader, err := store.Open(r.Context(), container, key)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.Error("failed to open blob", "key", key, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer reader.Close()

		if _, err := io.Copy(w, reader); err != nil {
			slog.Warn("failed to stream image", "key", key, "err", err)
		}
	})

	slog.Info("serving images", "addr", c.String("addr"), "container", container)
	return http.ListenAndServe(c.String("addr"), mux)
}
