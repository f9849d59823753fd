package ingest

import (
	"fmt"
	"time"
)

// Config carries every tunable of the ingestion run. All collaborators
// receive it explicitly; there is no package-level state.
type Config struct {
	// Container is the blob container images are uploaded into.
	Container string

	// BatchSize is the pending-document threshold that triggers an
	// index flush mid-pass. The final flush at the end of a pass is
	// unconditional.
	BatchSize int

	// ListLimit bounds how many files a single pass pulls from the
	// source directory.
	ListLimit int

	// MaxAttempts bounds how many times a failed pass is retried
	// before the run gives up.
	MaxAttempts int

	// RetryDelay is the base delay between retried passes. It doubles
	// on each consecutive failure.
	RetryDelay time.Duration
}

// DefaultConfig returns the standard ingestion settings.
func DefaultConfig() *Config {
	return &Config{
		Container:   "images",
		BatchSize:   5,
		ListLimit:   10,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Container == "" {
		return fmt.Errorf("container name must not be empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than 0, got %d", c.BatchSize)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("list limit must be greater than 0, got %d", c.ListLimit)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxAttempts, c.MaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}
