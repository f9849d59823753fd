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


// Package search answers natural-language queries against the image
// index and renders the results as prompt-ready snippets.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/picmem/picmem/ai"
	"github.com/picmem/picmem/core"
	"github.com/picmem/picmem/index"
)

// Searcher embeds a query and ranks indexed images against it.
type Searcher struct {
	embedder ai.Embedder
	index    index.Index
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over the given index.
func NewSearcher(idx index.Index, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		embedder: provider.Embedder(),
		index:    idx,
		logger:   slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit images ranked by similarity to the query.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]core.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	s.logger.Debug("search complete", "query", query, "matches", len(matches))
	return matches, nil
}
