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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/picmem/picmem/ai"
	"github.com/picmem/picmem/blob"
	"github.com/picmem/picmem/core"
	"github.com/picmem/picmem/index"
)

// defaultWorkers sizes the stage pool. Upload, captioning, and metadata
// extraction run concurrently per image, so three workers keep a single
// image fully parallel.
const defaultWorkers = 3

// MetadataExtractor derives a place name and capture date from raw
// image bytes. Absent metadata yields nil results, never an error.
type MetadataExtractor interface {
	Extract(ctx context.Context, image []byte) (location *string, takenAt *time.Time)
}

// Pipeline runs one ingestion pass: list pending images, claim them,
// process each through upload, captioning, metadata extraction and
// embedding, and upsert the results into the search index in batches.
type Pipeline struct {
	source    Source
	extractor MetadataExtractor
	store     blob.Store
	captioner ai.Captioner
	embedder  ai.Embedder
	batcher   *Batcher
	container string

	stagePool *ants.Pool
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	source Source,
	extractor MetadataExtractor,
	store blob.Store,
	idx index.Index,
	provider ai.Provider,
	config *Config,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingestion config: %w", err)
	}

	p := &Pipeline{
		source:    source,
		extractor: extractor,
		store:     store,
		captioner: provider.Captioner(),
		embedder:  provider.Embedder(),
		container: config.Container,
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	batcher, err := NewBatcher(idx, config.BatchSize, p.logger)
	if err != nil {
		return nil, err
	}
	p.batcher = batcher

	pool, err := ants.NewPool(defaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage pool: %w", err)
	}
	p.stagePool = pool

	return p, nil
}

// ProcessPass runs a single ingestion pass and returns the number of
// images the listing produced. Zero means the source is drained.
//
// Every listed image is claimed before any processing starts, so a
// failing image is never re-attempted by a later pass. On error the
// pass aborts immediately and pending batch documents are discarded.
func (p *Pipeline) ProcessPass(ctx context.Context) (int, error) {
	images, err := p.source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source: %w", err)
	}
	if len(images) == 0 {
		return 0, nil
	}

	// Leftovers from an aborted pass must not leak into this one.
	p.batcher.Reset()

	claimed := make([]SourceImage, 0, len(images))
	for _, img := range images {
		c, err := p.source.Claim(img)
		if err != nil {
			return len(images), err
		}
		claimed = append(claimed, c)
	}
	p.logger.Info("claimed images for processing", "count", len(claimed))

	for _, img := range claimed {
		record, err := p.processImage(ctx, img)
		if err != nil {
			return len(images), fmt.Errorf("failed to process %s: %w", img.Name, err)
		}
		if err := p.batcher.Add(ctx, record); err != nil {
			return len(images), err
		}
	}

	if err := p.batcher.Flush(ctx); err != nil {
		return len(images), err
	}

	return len(images), nil
}

// processImage turns one claimed image into a validated index record.
// Upload, captioning, and metadata extraction run concurrently; the
// embedding waits for all three because it consumes the composite text.
func (p *Pipeline) processImage(ctx context.Context, img SourceImage) (*core.ImageRecord, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", img.Path, err)
	}

	var (
		storageRef string
		uploadErr  error

		caption    string
		captionErr error

		location *string
		takenAt  *time.Time
	)

	stages := []func(){
		func() {
			ref, err := p.store.Upload(ctx, p.container, img.Name, data)
			storageRef, uploadErr = ref, newServiceError("storage", err)
		},
		func() {
			text, err := p.captioner.Caption(ctx, data)
			caption, captionErr = text, newServiceError("captioning", err)
		},
		func() {
			location, takenAt = p.extractor.Extract(ctx, data)
		},
	}

	var wg sync.WaitGroup
	for _, stage := range stages {
		stage := stage
		wg.Add(1)
		if err := p.stagePool.Submit(func() {
			defer wg.Done()
			stage()
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit stage: %w", err)
		}
	}
	wg.Wait()

	if uploadErr != nil {
		return nil, uploadErr
	}
	if captionErr != nil {
		return nil, captionErr
	}

	record := BuildRecord(img.Name, storageRef, caption, location, takenAt)

	vector, err := p.embedder.EmbedText(ctx, record.Text)
	if err != nil {
		return nil, newServiceError("embedding", err)
	}
	record.Vector = vector

	if err := core.ValidateImageRecord(record); err != nil {
		return nil, err
	}

	p.logger.Debug("image processed",
		"name", img.Name,
		"id", record.Id,
		"hasLocation", location != nil,
		"hasDate", takenAt != nil)

	return record, nil
}

// Close releases the stage pool.
func (p *Pipeline) Close() error {
	p.stagePool.Release()
	return nil
}
