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


package badgeridx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/picmem/picmem/core"
	"github.com/picmem/picmem/index"
)

const schemaVersion = 1

// schemaRecord is the provisioning marker written at EnsureSchema.
type schemaRecord struct {
	Version    int `json:"version"`
	Dimensions int `json:"dimensions"`
}

// Index implements index.Index on BadgerDB. Documents are stored as JSON
// values keyed by id; similarity queries are cosine-ranked scans.
type Index struct {
	db         *badger.DB
	dimensions int
	logger     *slog.Logger
}

var _ index.Index = (*Index)(nil)

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// Open opens a badger-backed index at the given path, creating the
// directory if needed.
func Open(path string, opts ...Option) (*Index, error) {
	return open(path, false, opts...)
}

// OpenInMemory opens a transient index for testing.
func OpenInMemory(opts ...Option) (*Index, error) {
	return open("", true, opts...)
}

func open(path string, inMemory bool, opts ...Option) (*Index, error) {
	db, err := openDB(path, inMemory)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		db:         db,
		dimensions: core.EmbeddingDimensions,
		logger:     slog.Default().With("component", "badger-index"),
	}

	for _, opt := range opts {
		if optErr := opt(idx); optErr != nil {
			db.Close()
			return nil, optErr
		}
	}

	return idx, nil
}

// EnsureSchema provisions the index marker if absent. An existing marker
// with different vector dimensions is an error: the database belongs to
// an incompatible index.
func (idx *Index) EnsureSchema(ctx context.Context) error {
	tx := idx.db.NewTransaction(true)
	defer tx.Discard()

	item, err := tx.Get([]byte(schemaKey))
	if err == nil {
		var existing schemaRecord
		if valErr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		}); valErr != nil {
			return fmt.Errorf("failed to read index schema: %w", valErr)
		}
		if existing.Dimensions != idx.dimensions {
			return fmt.Errorf("index has %d-dimension vectors, want %d",
				existing.Dimensions, idx.dimensions)
		}
		idx.logger.Debug("index schema already exists")
		return nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	idx.logger.Info("provisioning index schema", "dimensions", idx.dimensions)
	value, err := json.Marshal(schemaRecord{Version: schemaVersion, Dimensions: idx.dimensions})
	if err != nil {
		return err
	}
	if err := tx.Set([]byte(schemaKey), value); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertBatch writes documents keyed by id in a single transaction and
// reports a per-document status. Invalid documents are rejected
// individually; they do not fail the call.
func (idx *Index) UpsertBatch(ctx context.Context, docs []index.Document) ([]index.DocumentStatus, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	statuses := make([]index.DocumentStatus, len(docs))

	tx := idx.db.NewTransaction(true)
	defer tx.Discard()

	for i, doc := range docs {
		statuses[i].Key = doc.Id

		if reason := rejectDocument(&doc, idx.dimensions); reason != "" {
			statuses[i].Succeeded = false
			statuses[i].StatusCode = http.StatusBadRequest
			statuses[i].Message = reason
			continue
		}

		key := makeDocumentKey(doc.Id)
		statusCode := http.StatusCreated
		if _, err := tx.Get(key); err == nil {
			statusCode = http.StatusOK // overwrite of an existing document
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return nil, err
		}

		value, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document %s: %w", doc.Id, err)
		}
		if err := tx.Set(key, value); err != nil {
			return nil, err
		}

		statuses[i].Succeeded = true
		statuses[i].StatusCode = statusCode
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return statuses, nil
}

// rejectDocument returns a non-empty reason when a document must not
// reach the index.
func rejectDocument(doc *index.Document, dimensions int) string {
	if doc.Id == "" {
		return "document key is empty"
	}
	if doc.Text == "" {
		return "document text is empty"
	}
	if len(doc.Vector) != dimensions {
		return fmt.Sprintf("vector has %d dimensions, want %d", len(doc.Vector), dimensions)
	}
	return ""
}

// Query returns up to limit documents ranked by cosine similarity to the
// given vector, highest score first.
func (idx *Index) Query(ctx context.Context, vector []float32, limit int) ([]core.Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	var matches []core.Match

	tx := idx.db.NewTransaction(false)
	defer tx.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = documentKeyPrefix()
	it := tx.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var doc index.Document
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return nil, err
		}

		matches = append(matches, core.Match{
			Record: doc.ToRecord(),
			Score:  index.CosineSimilarity(vector, doc.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
