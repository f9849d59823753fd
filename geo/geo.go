// Package geo resolves coordinates to human-readable place names.
package geo

import (
	"context"
	"errors"
)

// ErrNoResult indicates the geocoding service returned no place name for
// the given coordinates.
var ErrNoResult = errors.New("no geocoding result")

// Geocoder resolves a coordinate pair to a free-text place description.
// Implementations must be thread-safe for concurrent use.
type Geocoder interface {
	// Lookup returns a place name for the given signed decimal coordinates.
	// Returns ErrNoResult when the service has no answer for the location;
	// any other error is a transport or service failure.
	Lookup(ctx context.Context, lat, lon float64) (string, error)
}
