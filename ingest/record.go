package ingest

import (
	"fmt"
	"time"

	"github.com/picmem/picmem/core"
)

// unknownField renders optional metadata that is absent from an image.
const unknownField = "unknown"

// ComposeText assembles the searchable composite text for an image.
// The layout is fixed; missing location or date render as "unknown" so
// the text shape stays uniform across records.
func ComposeText(storageRef, caption string, location *string, takenAt *time.Time) string {
	locationText := unknownField
	if location != nil {
		locationText = *location
	}

	dateText := unknownField
	if takenAt != nil {
		dateText = takenAt.Format("2006-01-02")
	}

	return fmt.Sprintf("URL: %s\nImage description: %s\nLocation: %s\nDate: %s",
		storageRef, caption, locationText, dateText)
}

// BuildRecord assembles a complete image record from the outputs of the
// processing stages. The vector is attached separately after embedding.
func BuildRecord(name, storageRef, caption string, location *string, takenAt *time.Time) *core.ImageRecord {
	return &core.ImageRecord{
		Id:             core.IDFromName(name),
		Text:           ComposeText(storageRef, caption, location, takenAt),
		Caption:        caption,
		CreatedAt:      takenAt,
		StorageRef:     storageRef,
		Location:       location,
		ExternalSource: core.ExternalSourceName,
	}
}
