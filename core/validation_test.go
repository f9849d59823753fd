package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *ImageRecord {
	return &ImageRecord{
		Id:             IDFromName("IMG_0001.jpg"),
		Text:           "URL: http://blobs/images/IMG_0001.jpg\nImage description: a dog\nLocation: unknown\nDate: unknown",
		Caption:        "a dog",
		StorageRef:     "http://blobs/images/IMG_0001.jpg",
		Vector:         make([]float32, EmbeddingDimensions),
		ExternalSource: ExternalSourceName,
	}
}

func TestValidateImageRecord_Valid(t *testing.T) {
	require.NoError(t, ValidateImageRecord(validRecord()))
}

func TestValidateImageRecord_OptionalFieldsMayBeNil(t *testing.T) {
	record := validRecord()
	record.Location = nil
	record.CreatedAt = nil
	assert.NoError(t, ValidateImageRecord(record))

	location := "Paris, France"
	createdAt := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	record.Location = &location
	record.CreatedAt = &createdAt
	assert.NoError(t, ValidateImageRecord(record))
}

func TestValidateImageRecord_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ImageRecord)
		wantErr error
	}{
		{"empty id", func(r *ImageRecord) { r.Id = "" }, ErrEmptyId},
		{"empty text", func(r *ImageRecord) { r.Text = "" }, ErrEmptyText},
		{"missing vector", func(r *ImageRecord) { r.Vector = nil }, ErrMissingVector},
		{"short vector", func(r *ImageRecord) { r.Vector = make([]float32, 384) }, ErrVectorDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)
			err := ValidateImageRecord(record)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImageRecord)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateImageRecord_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateImageRecord(nil), ErrInvalidImageRecord)
}
