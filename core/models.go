package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDimensions is the fixed length of every record vector.
// The index is provisioned for text-embedding-ada-002 output.
const EmbeddingDimensions = 1536

// ExternalSourceName tags every record with its originating system.
const ExternalSourceName = "Custom"

// IDFromName generates a deterministic record ID from a source file name
// using BLAKE2b hashing. The same name always yields the same ID, so
// re-ingesting a file overwrites its document instead of duplicating it.
func IDFromName(name string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(name))
	return hex.EncodeToString(h.Sum(nil))
}

// ImageRecord is the unit of pipeline output: one indexable document per
// ingested image. Location and CreatedAt are nil when the source image
// carries no usable embedded metadata.
type ImageRecord struct {
	Id                 string
	Text               string     // Composite content: storage URL, caption, location, date
	Caption            string     // Raw captioner output, also folded into Text
	CreatedAt          *time.Time // Capture date, date precision only
	StorageRef         string     // Stable URL of the uploaded blob
	Location           *string    // Human-readable place name
	Vector             []float32  // Embedding of Text, EmbeddingDimensions long
	ExternalSource     string
	AdditionalMetadata string
}

// Match is a hit from vector similarity search over the index.
type Match struct {
	Record *ImageRecord
	Score  float32
}
