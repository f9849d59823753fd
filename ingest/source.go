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
	"os"
	"path/filepath"
	"strings"
)

// SourceImage is a single image file awaiting ingestion.
type SourceImage struct {
	// Name is the bare file name, stable across a claim.
	Name string
	// Path is the file's current location on disk.
	Path string
}

// Source lists pending images and claims them for processing.
type Source interface {
	// List returns up to the source's limit of pending images in
	// deterministic name order. An empty result means the source is
	// drained.
	List(ctx context.Context) ([]SourceImage, error)

	// Claim moves an image out of the pending set before processing
	// begins. The move is not undone on a later failure, so each image
	// is attempted at most once.
	Claim(img SourceImage) (SourceImage, error)
}

// imageExtensions are the file extensions treated as ingestable images.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// DirectorySource feeds images from an inbox directory. Claiming an
// image renames it into the processed directory, which doubles as the
// checkpoint: a crashed run never re-attempts a claimed file.
type DirectorySource struct {
	inboxDir     string
	processedDir string
	limit        int
}

var _ Source = (*DirectorySource)(nil)

// NewDirectorySource creates a source reading from inboxDir and
// checkpointing claims into processedDir. limit bounds a single listing.
func NewDirectorySource(inboxDir, processedDir string, limit int) (*DirectorySource, error) {
	if inboxDir == "" {
		return nil, fmt.Errorf("inbox directory must not be empty")
	}
	if processedDir == "" {
		return nil, fmt.Errorf("processed directory must not be empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("list limit must be greater than 0, got %d", limit)
	}

	return &DirectorySource{
		inboxDir:     inboxDir,
		processedDir: processedDir,
		limit:        limit,
	}, nil
}

// List returns up to limit image files from the inbox, sorted by name.
func (s *DirectorySource) List(ctx context.Context) ([]SourceImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list inbox %s: %w", s.inboxDir, err)
	}

	// os.ReadDir returns entries sorted by name already.
	images := make([]SourceImage, 0, s.limit)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		images = append(images, SourceImage{
			Name: entry.Name(),
			Path: filepath.Join(s.inboxDir, entry.Name()),
		})
		if len(images) == s.limit {
			break
		}
	}

	return images, nil
}

// Claim moves the image into the processed directory and returns its
// new location. The rename is the point of no return for the file.
func (s *DirectorySource) Claim(img SourceImage) (SourceImage, error) {
	if err := os.MkdirAll(s.processedDir, 0o755); err != nil {
		return SourceImage{}, fmt.Errorf("failed to create processed directory: %w", err)
	}

	dest := filepath.Join(s.processedDir, img.Name)
	if err := os.Rename(img.Path, dest); err != nil {
		return SourceImage{}, fmt.Errorf("failed to claim %s: %w", img.Name, err)
	}

	return SourceImage{Name: img.Name, Path: dest}, nil
}
