package exifdata

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rat(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func TestDecimalFromDMS_Hemispheres(t *testing.T) {
	// 48° 51' 29.6", the Eiffel Tower latitude
	deg, min, sec := rat(48, 1), rat(51, 1), rat(296, 10)

	north := decimalFromDMS(deg, min, sec, "N")
	south := decimalFromDMS(deg, min, sec, "S")
	assert.InDelta(t, 48.85822, north, 1e-9)
	assert.InDelta(t, -48.85822, south, 1e-9)

	east := decimalFromDMS(rat(2, 1), rat(17, 1), rat(401, 10), "E")
	west := decimalFromDMS(rat(2, 1), rat(17, 1), rat(401, 10), "W")
	assert.True(t, east >= 0, "E must be non-negative")
	assert.True(t, west < 0, "W must be negative")
	assert.Equal(t, east, -west)
}

func TestDecimalFromDMS_Rounding(t *testing.T) {
	// 1/3 of a second produces a long fraction; result must carry at
	// most 5 decimal places.
	value := decimalFromDMS(rat(10, 1), rat(0, 1), rat(1, 3), "N")
	assert.Equal(t, 10.00009, value)
}

func TestDecimalFromDMS_Idempotent(t *testing.T) {
	deg, min, sec := rat(37, 1), rat(46, 1), rat(2940, 100)
	first := decimalFromDMS(deg, min, sec, "W")
	second := decimalFromDMS(deg, min, sec, "W")
	assert.Equal(t, first, second, "conversion must be deterministic")
	// Inputs must not be mutated
	assert.Equal(t, rat(37, 1), deg)
}

func TestDecimalFromDMS_Zero(t *testing.T) {
	assert.Equal(t, 0.0, decimalFromDMS(rat(0, 1), rat(0, 1), rat(0, 1), "S"))
}

func TestParseExifDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"full datetime", "2023:06:01 14:22:33", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"date only", "2019:12:31", time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"wrong separators", "2023-06-01 10:00:00", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseExifDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got))
			}
		})
	}
}

func TestParse_NoExif(t *testing.T) {
	// Plain bytes with no EXIF segment: both fields absent, no panic
	meta := Parse(bytes.NewReader([]byte("definitely not a jpeg")))
	assert.Nil(t, meta.Coordinates)
	assert.Nil(t, meta.TakenAt)
}

func TestParse_EmptyInput(t *testing.T) {
	meta := Parse(bytes.NewReader(nil))
	require.Nil(t, meta.Coordinates)
	require.Nil(t, meta.TakenAt)
}
