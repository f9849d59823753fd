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
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/picmem/picmem/ai/mock"
	"github.com/picmem/picmem/blob"
	"github.com/picmem/picmem/core"
	"github.com/picmem/picmem/index/badgeridx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor returns fixed metadata for every image.
type stubExtractor struct {
	location *string
	takenAt  *time.Time
}

func (s *stubExtractor) Extract(ctx context.Context, image []byte) (*string, *time.Time) {
	return s.location, s.takenAt
}

type pipelineFixture struct {
	inbox     string
	processed string
	source    *DirectorySource
	provider  *mock.MockProvider
	extractor *stubExtractor
	idx       *badgeridx.Index
	config    *Config
	pipeline  *Pipeline
}

func setupPipeline(t *testing.T, config *Config) *pipelineFixture {
	t.Helper()

	if config == nil {
		config = DefaultConfig()
		config.RetryDelay = time.Millisecond
	}

	inbox := t.TempDir()
	processed := t.TempDir()
	source, err := NewDirectorySource(inbox, processed, config.ListLimit)
	require.NoError(t, err)

	store, err := blob.NewFileStore(t.TempDir(), "http://blobs")
	require.NoError(t, err)

	idx, err := badgeridx.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	require.NoError(t, idx.EnsureSchema(context.Background()))

	provider := mock.NewMockProvider().(*mock.MockProvider)
	extractor := &stubExtractor{}

	pipeline, err := NewPipeline(source, extractor, store, idx, provider, config)
	require.NoError(t, err)
	t.Cleanup(func() { pipeline.Close() })

	return &pipelineFixture{
		inbox:     inbox,
		processed: processed,
		source:    source,
		provider:  provider,
		extractor: extractor,
		idx:       idx,
		config:    config,
		pipeline:  pipeline,
	}
}

func (f *pipelineFixture) indexedCount(t *testing.T) int {
	t.Helper()
	matches, err := f.idx.Query(context.Background(),
		make([]float32, core.EmbeddingDimensions), f.config.ListLimit*10)
	require.NoError(t, err)
	return len(matches)
}

func inboxNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPipeline_ProcessPassIndexesAllImages(t *testing.T) {
	f := setupPipeline(t, nil)
	for _, name := range []string{"a.jpg", "b.jpg", "c.png"} {
		writeFile(t, f.inbox, name)
	}

	listed, err := f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, listed)

	assert.Empty(t, inboxNames(t, f.inbox), "all images must be claimed")
	assert.Len(t, inboxNames(t, f.processed), 3)
	assert.Equal(t, 3, f.indexedCount(t))
}

func TestPipeline_EmptyInboxReturnsZero(t *testing.T) {
	f := setupPipeline(t, nil)

	listed, err := f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, listed)
}

func TestPipeline_EmbedsCompositeText(t *testing.T) {
	f := setupPipeline(t, nil)
	writeFile(t, f.inbox, "a.jpg")

	location := "Porto, Portugal"
	takenAt := time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
	f.extractor.location = &location
	f.extractor.takenAt = &takenAt

	var embedded []string
	f.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = append(embedded, text)
		return mock.DeterministicVector(text, core.EmbeddingDimensions), nil
	}

	_, err := f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)

	require.Len(t, embedded, 1)
	text := embedded[0]
	assert.True(t, strings.HasPrefix(text, "URL: http://blobs/images/a.jpg\n"),
		"the full composite text is embedded, got %q", text)
	assert.Contains(t, text, "\nImage description: ")
	assert.Contains(t, text, "\nLocation: Porto, Portugal")
	assert.Contains(t, text, "\nDate: 2022-03-04")
}

func TestPipeline_MissingMetadataStillIndexed(t *testing.T) {
	f := setupPipeline(t, nil)
	writeFile(t, f.inbox, "plain.jpg")

	_, err := f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)

	matches, err := f.idx.Query(context.Background(),
		make([]float32, core.EmbeddingDimensions), 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].Record.Location)
	assert.Nil(t, matches[0].Record.CreatedAt)
	assert.Contains(t, matches[0].Record.Text, "Location: unknown")
}

func TestPipeline_CaptionFailureAbortsPassButKeepsClaims(t *testing.T) {
	f := setupPipeline(t, nil)
	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"} {
		writeFile(t, f.inbox, name)
	}

	calls := 0
	f.provider.GetMockCaptioner().CaptionFunc = func(ctx context.Context, image []byte) (string, error) {
		calls++
		if calls == 3 {
			return "", errors.New("vision model unavailable")
		}
		return "a caption", nil
	}

	listed, err := f.pipeline.ProcessPass(context.Background())
	require.Error(t, err)
	assert.True(t, IsServiceError(err))
	assert.Equal(t, 5, listed)

	assert.Empty(t, inboxNames(t, f.inbox), "every listed image stays claimed after the failure")
	assert.Len(t, inboxNames(t, f.processed), 5)
	assert.Zero(t, f.indexedCount(t), "an aborted pass indexes nothing below the batch threshold")

	// The failing images are consumed: a retry sees an empty inbox.
	listed, err = f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, listed)
	assert.Zero(t, f.indexedCount(t), "discarded batch leftovers must not resurface")
}

func TestPipeline_EmbeddingFailureIsServiceError(t *testing.T) {
	f := setupPipeline(t, nil)
	writeFile(t, f.inbox, "a.jpg")

	f.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding model unavailable")
	}

	_, err := f.pipeline.ProcessPass(context.Background())
	require.Error(t, err)
	assert.True(t, IsServiceError(err))
	assert.Zero(t, f.indexedCount(t))
}

func TestPipeline_BatchesAcrossThreshold(t *testing.T) {
	config := DefaultConfig()
	config.BatchSize = 5
	config.ListLimit = 10
	f := setupPipeline(t, config)

	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg", "7.jpg"} {
		writeFile(t, f.inbox, name)
	}

	listed, err := f.pipeline.ProcessPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, listed)
	assert.Equal(t, 7, f.indexedCount(t), "mid-pass flush plus final flush must cover every record")
}
