package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080/blobs")
	require.NoError(t, err)
	return store
}

func TestFileStore_UploadAndOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Upload(ctx, "images", "IMG_0001.jpg", []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/blobs/images/IMG_0001.jpg", url)

	r, err := store.Open(ctx, "images", "IMG_0001.jpg")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestFileStore_UploadIdempotentOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url1, err := store.Upload(ctx, "images", "a.jpg", []byte("first"))
	require.NoError(t, err)

	url2, err := store.Upload(ctx, "images", "a.jpg", []byte("second"))
	require.NoError(t, err, "re-upload under the same key must not error")
	assert.Equal(t, url1, url2, "reference must be stable per key")

	r, err := store.Open(ctx, "images", "a.jpg")
	require.NoError(t, err)
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.Equal(t, []byte("second"), data, "overwrite must win")
}

func TestFileStore_EnsureContainerIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureContainer(ctx, "images"))
	require.NoError(t, store.EnsureContainer(ctx, "images"))
}

func TestFileStore_LazyContainerCreation(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "images", "x.jpg", []byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_OpenMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Open(context.Background(), "images", "nope.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "images", "../escape.jpg", []byte("x"))
	assert.Error(t, err)

	_, err = store.Upload(ctx, "bad/container", "x.jpg", []byte("x"))
	assert.Error(t, err)
}
