// Package blob provides durable object storage for raw image bytes.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Store persists raw blobs and serves them back by key.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// EnsureContainer creates the named container if it does not exist.
	// Idempotent: an existing container is not an error.
	EnsureContainer(ctx context.Context, container string) error

	// Upload durably persists data under the given key and returns a
	// stable reference URL. Idempotent under the same key: re-uploading
	// overwrites, it never errors on "already exists".
	Upload(ctx context.Context, container, key string, data []byte) (string, error)

	// Open returns a reader over a stored blob.
	// Returns ErrNotFound if no blob exists under the key.
	Open(ctx context.Context, container, key string) (io.ReadCloser, error)
}
