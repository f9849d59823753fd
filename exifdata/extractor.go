package exifdata

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/picmem/picmem/geo"
)

// LocationNotFound is the fixed sentinel returned when an image carries
// coordinates but the reverse-geocoding lookup fails or has no result.
// It is distinct from a nil location, which means no geotag at all.
const LocationNotFound = "Location not found"

// Extractor derives a place name and capture date from an image's
// embedded metadata. Missing metadata and geocoding failures are
// recoverable conditions and never fail a record.
type Extractor struct {
	geocoder geo.Geocoder
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExtractor creates a metadata extractor.
func NewExtractor(geocoder geo.Geocoder, opts ...Option) (*Extractor, error) {
	if geocoder == nil {
		return nil, ErrGeocoderRequired
	}

	e := &Extractor{
		geocoder: geocoder,
		logger:   slog.Default().With("component", "exif-extractor"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Extract returns the resolved location and capture date for an image.
//
// Either result may be nil when the image carries no usable metadata.
// When coordinates exist but the lookup fails, the location is the
// LocationNotFound sentinel rather than nil or an error.
func (e *Extractor) Extract(ctx context.Context, image []byte) (location *string, takenAt *time.Time) {
	return e.Resolve(ctx, Parse(bytes.NewReader(image)))
}

// Resolve turns parsed metadata into a place name and capture date.
func (e *Extractor) Resolve(ctx context.Context, meta Metadata) (location *string, takenAt *time.Time) {
	takenAt = meta.TakenAt

	if meta.Coordinates == nil {
		return nil, takenAt
	}

	place, err := e.geocoder.Lookup(ctx, meta.Coordinates.Lat, meta.Coordinates.Lon)
	if err != nil {
		e.logger.Warn("reverse geocoding failed",
			"lat", meta.Coordinates.Lat,
			"lon", meta.Coordinates.Lon,
			"err", err)
		sentinel := LocationNotFound
		return &sentinel, takenAt
	}

	return &place, takenAt
}
