package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromName_Deterministic(t *testing.T) {
	id1 := IDFromName("IMG_0001.jpg")
	id2 := IDFromName("IMG_0001.jpg")
	assert.Equal(t, id1, id2, "same name must always yield the same id")
	assert.Len(t, id1, 32, "id should be a 128-bit hex digest")
}

func TestIDFromName_DistinctNames(t *testing.T) {
	assert.NotEqual(t, IDFromName("IMG_0001.jpg"), IDFromName("IMG_0002.jpg"))
}

func TestIDFromName_EmptyName(t *testing.T) {
	// Degenerate but still deterministic
	assert.Equal(t, IDFromName(""), IDFromName(""))
}
