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


package exifdata

import (
	"io"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Coordinates is a signed decimal degree pair, rounded to 5 decimal places.
// South and west hemispheres are negative.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Metadata holds the fields derivable from an image's embedded metadata.
// Absence is explicit: a nil field means the image carried no usable tag,
// which is an expected outcome and never an error.
type Metadata struct {
	Coordinates *Coordinates
	TakenAt     *time.Time
}

// Parse reads EXIF metadata from an image. Missing or malformed metadata
// yields zero-value fields; Parse never fails the caller.
func Parse(r io.Reader) Metadata {
	var meta Metadata

	x, err := exif.Decode(r)
	if err != nil {
		return meta
	}

	meta.Coordinates = parseCoordinates(x)
	meta.TakenAt = parseTakenAt(x)
	return meta
}

// parseCoordinates reads the GPS degree/minute/second tags plus hemisphere
// references and converts them to signed decimal degrees.
func parseCoordinates(x *exif.Exif) *Coordinates {
	lat, ok := decimalFromTags(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if !ok {
		return nil
	}
	lon, ok := decimalFromTags(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if !ok {
		return nil
	}
	return &Coordinates{Lat: lat, Lon: lon}
}

func decimalFromTags(x *exif.Exif, field, refField exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return 0, false
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return 0, false
	}

	dms := make([]*big.Rat, 3)
	for i := range dms {
		rat, err := tag.Rat(i)
		if err != nil {
			return 0, false
		}
		dms[i] = rat
	}

	return decimalFromDMS(dms[0], dms[1], dms[2], ref), true
}

// decimalFromDMS converts degrees, minutes, and seconds with a hemisphere
// reference into signed decimal degrees rounded to 5 decimal places.
// "S" and "W" references negate the result.
func decimalFromDMS(degrees, minutes, seconds *big.Rat, ref string) float64 {
	deg, _ := degrees.Float64()
	min, _ := minutes.Float64()
	sec, _ := seconds.Float64()

	value := deg + min/60.0 + sec/3600.0
	if ref == "S" || ref == "W" {
		value = -value
	}

	return math.Round(value*1e5) / 1e5
}

// parseTakenAt extracts the capture date from the DateTime tag,
// ignoring the time-of-day portion.
func parseTakenAt(x *exif.Exif) *time.Time {
	tag, err := x.Get(exif.DateTime)
	if err != nil {
		return nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return nil
	}

	takenAt, ok := parseExifDate(value)
	if !ok {
		return nil
	}
	return &takenAt
}

// parseExifDate parses the date portion of an EXIF DateTime value
// ("2006:01:02 15:04:05") into a calendar date.
func parseExifDate(value string) (time.Time, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return time.Time{}, false
	}

	datePart := strings.ReplaceAll(fields[0], ":", "-")
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
