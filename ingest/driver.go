package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Driver owns the outer ingestion loop. It runs passes until the
// source is drained, retrying failed passes with exponential backoff up
// to a configured attempt limit. A successful pass resets the limit.
type Driver struct {
	pipeline    *Pipeline
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver) error

// WithDriverLogger sets a custom logger.
// Default is slog.Default().
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDriver creates a driver running the given pipeline under the
// config's retry policy.
func NewDriver(pipeline *Pipeline, config *Config, opts ...DriverOption) (*Driver, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingestion config: %w", err)
	}

	d := &Driver{
		pipeline:    pipeline,
		maxAttempts: config.MaxAttempts,
		retryDelay:  config.RetryDelay,
		logger:      slog.Default().With("component", "driver"),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Run processes passes until the source reports an empty listing.
// Each pass gets up to maxAttempts tries; if they are all spent the run
// returns the last error. Claimed files from a failed attempt stay
// claimed, so the retried pass sees only what is still pending.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var listed int
		pass := func() error {
			n, err := d.pipeline.ProcessPass(ctx)
			listed = n
			return err
		}

		if err := RetryWithBackoff(ctx, pass, d.maxAttempts, d.retryDelay); err != nil {
			return fmt.Errorf("ingestion failed after %d attempts: %w", d.maxAttempts, err)
		}

		if listed == 0 {
			d.logger.Info("source drained, ingestion complete")
			return nil
		}

		d.logger.Info("pass complete", "listed", listed)
	}
}
