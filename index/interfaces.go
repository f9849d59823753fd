package index

import (
	"context"

	"github.com/picmem/picmem/core"
)

// Index is the search index collaborator: it accepts typed documents and
// serves vector queries. Implementations must be thread-safe.
type Index interface {
	// EnsureSchema provisions the index if it does not exist yet.
	// Idempotent; called once at startup. An existing index with an
	// incompatible schema is an error.
	EnsureSchema(ctx context.Context) error

	// UpsertBatch writes a batch of documents keyed by Id, inserting new
	// documents and overwriting existing ones. The returned slice holds
	// one status per submitted document, in submission order. A non-nil
	// error means the call itself failed and no statuses are available.
	UpsertBatch(ctx context.Context, docs []Document) ([]DocumentStatus, error)

	// Query returns up to limit records ranked by vector similarity
	// (highest score first).
	Query(ctx context.Context, vector []float32, limit int) ([]core.Match, error)

	// Close releases the index backend.
	Close() error
}
