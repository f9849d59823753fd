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

	"github.com/picmem/picmem/core"
	"github.com/picmem/picmem/index"
)

// Batcher accumulates index documents and flushes them in batches.
// Not safe for concurrent use; it is owned by a single processing pass.
type Batcher struct {
	index     index.Index
	threshold int
	pending   []index.Document
	logger    *slog.Logger
}

// NewBatcher creates a batcher flushing to idx whenever the pending set
// reaches threshold documents.
func NewBatcher(idx index.Index, threshold int, logger *slog.Logger) (*Batcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("batch threshold must be greater than 0, got %d", threshold)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Batcher{
		index:     idx,
		threshold: threshold,
		pending:   make([]index.Document, 0, threshold),
		logger:    logger.With("component", "batcher"),
	}, nil
}

// Add queues a record for indexing, flushing when the threshold is hit.
func (b *Batcher) Add(ctx context.Context, record *core.ImageRecord) error {
	b.pending = append(b.pending, index.FromRecord(record))
	if len(b.pending) >= b.threshold {
		return b.Flush(ctx)
	}
	return nil
}

// Flush sends the pending batch to the index. The pending set is
// cleared whether or not the upsert succeeds, so a retried pass starts
// from a fresh listing instead of replaying stale documents.
//
// Per-document rejections are logged and dropped; only a failed index
// call is an error.
func (b *Batcher) Flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}

	batch := b.pending
	b.pending = make([]index.Document, 0, b.threshold)

	statuses, err := b.index.UpsertBatch(ctx, batch)
	if err != nil {
		return newServiceError("index", err)
	}

	for _, status := range statuses {
		if status.Succeeded {
			b.logger.Debug("document indexed", "key", status.Key, "status", status.StatusCode)
			continue
		}
		b.logger.Warn("document rejected by index",
			"key", status.Key,
			"status", status.StatusCode,
			"message", status.Message)
	}

	return nil
}

// Reset discards any pending documents without flushing them.
func (b *Batcher) Reset() {
	b.pending = b.pending[:0]
}

// Pending returns the number of queued documents.
func (b *Batcher) Pending() int {
	return len(b.pending)
}
