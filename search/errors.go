package search

import "errors"

var (
	// ErrIndexRequired is returned when a search index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuery is returned when the query text is empty.
	ErrEmptyQuery = errors.New("query text is empty")
)
