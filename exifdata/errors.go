package exifdata

import "errors"

var (
	// ErrGeocoderRequired is returned when a geocoder is not provided.
	ErrGeocoderRequired = errors.New("geocoder required")
)
