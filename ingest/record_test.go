package ingest

import (
	"testing"
	"time"

	"github.com/picmem/picmem/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeText_AllFields(t *testing.T) {
	location := "Lisbon, Portugal"
	takenAt := time.Date(2021, 6, 15, 14, 30, 0, 0, time.UTC)

	text := ComposeText("http://blobs/images/p.jpg", "a tram on a hill", &location, &takenAt)

	assert.Equal(t,
		"URL: http://blobs/images/p.jpg\nImage description: a tram on a hill\nLocation: Lisbon, Portugal\nDate: 2021-06-15",
		text)
}

func TestComposeText_MissingMetadataRendersUnknown(t *testing.T) {
	text := ComposeText("http://blobs/images/p.jpg", "a tram", nil, nil)

	assert.Contains(t, text, "Location: unknown")
	assert.Contains(t, text, "Date: unknown")
}

func TestBuildRecord(t *testing.T) {
	location := "somewhere"
	takenAt := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	record := BuildRecord("photo.jpg", "http://blobs/images/photo.jpg", "a dog", &location, &takenAt)

	assert.Equal(t, core.IDFromName("photo.jpg"), record.Id)
	assert.Equal(t, "a dog", record.Caption)
	assert.Equal(t, core.ExternalSourceName, record.ExternalSource)
	require.NotNil(t, record.CreatedAt)
	assert.True(t, takenAt.Equal(*record.CreatedAt))
	require.NotNil(t, record.Location)
	assert.Equal(t, location, *record.Location)
	assert.Contains(t, record.Text, "Date: 2020-01-02")
	assert.Nil(t, record.Vector, "vector is attached after embedding")
}

func TestBuildRecord_IdStableAcrossMetadata(t *testing.T) {
	a := BuildRecord("photo.jpg", "url-a", "caption-a", nil, nil)
	loc := "x"
	b := BuildRecord("photo.jpg", "url-b", "caption-b", &loc, nil)

	assert.Equal(t, a.Id, b.Id, "id depends only on the file name")
}
