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


package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store on the local filesystem. Containers are
// subdirectories of the base path; the returned reference is a stable
// URL built from the configured base URL, so the index can refer to
// blobs without knowing where they live on disk.
type FileStore struct {
	basePath string
	baseURL  string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a filesystem-backed store rooted at basePath.
// baseURL is the public prefix for returned references, e.g.
// "http://localhost:8080/images". An empty baseURL yields file:// URLs.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &FileStore{
		basePath: absPath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// EnsureContainer creates the container directory if absent.
func (fs *FileStore) EnsureContainer(ctx context.Context, container string) error {
	path, err := fs.containerPath(container)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create container %q: %w", container, err)
	}
	return nil
}

// Upload writes data under container/key, overwriting any previous blob.
func (fs *FileStore) Upload(ctx context.Context, container, key string, data []byte) (string, error) {
	if err := fs.EnsureContainer(ctx, container); err != nil {
		return "", err
	}

	path, err := fs.blobPath(container, key)
	if err != nil {
		return "", err
	}

	// Write to a temp file and rename for an atomic overwrite
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	return fs.URL(container, key), nil
}

// Open returns a reader over the stored blob.
func (fs *FileStore) Open(ctx context.Context, container, key string) (io.ReadCloser, error) {
	path, err := fs.blobPath(container, key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// URL returns the stable reference for a (container, key) pair.
// The same pair always yields the same URL.
func (fs *FileStore) URL(container, key string) string {
	if fs.baseURL == "" {
		return "file://" + filepath.Join(fs.basePath, container, key)
	}
	return fmt.Sprintf("%s/%s/%s", fs.baseURL, container, url.PathEscape(key))
}

func (fs *FileStore) containerPath(container string) (string, error) {
	if container == "" || strings.ContainsAny(container, `/\`) {
		return "", fmt.Errorf("invalid container name %q", container)
	}
	return filepath.Join(fs.basePath, container), nil
}

func (fs *FileStore) blobPath(container, key string) (string, error) {
	dir, err := fs.containerPath(container)
	if err != nil {
		return "", err
	}
	clean := filepath.Clean(key)
	if clean == "" || clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(dir, clean), nil
}
