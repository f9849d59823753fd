package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceRequired is returned when a file source is not provided.
	ErrSourceRequired = errors.New("source required")

	// ErrExtractorRequired is returned when a metadata extractor is not provided.
	ErrExtractorRequired = errors.New("metadata extractor required")

	// ErrStoreRequired is returned when a blob store is not provided.
	ErrStoreRequired = errors.New("blob store required")

	// ErrIndexRequired is returned when a search index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

// ServiceError marks a failure originating from a blocking call to an
// external collaborator (captioning, embedding, storage, index). The
// driver treats these as recoverable: the current pass aborts and the
// outer loop retries from a fresh listing.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err as a ServiceError for the named collaborator.
// A nil err stays nil.
func newServiceError(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Err: err}
}

// IsServiceError reports whether err originates from an external collaborator.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
