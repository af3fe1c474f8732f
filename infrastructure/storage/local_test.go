package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-attendance/domain/services"
)

const testBaseURL = "http://localhost:8888"

func newTestStore(t *testing.T) (services.ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, testBaseURL)
	require.NoError(t, err)
	return store, dir
}

func TestSaveBytesAndPathFromURL(t *testing.T) {
	store, dir := newTestStore(t)

	url, err := store.SaveBytes(services.CategoryUploads, "42", "face.jpg", []byte("image data"))
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/uploads/42/face.jpg", url)

	path, err := store.PathFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uploads", "42", "face.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image data"), data)
}

func TestPathFromURLIgnoresBasePrefix(t *testing.T) {
	store, dir := newTestStore(t)

	// URLs persisted under an older public base still resolve.
	path, err := store.PathFromURL("http://old-host:3000/histories/alice/snap.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "histories", "alice", "snap.jpg"), path)
}

func TestPathFromURLRejectsUnknownCategory(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.PathFromURL(testBaseURL + "/secrets/alice/snap.jpg")
	assert.ErrorIs(t, err, ErrBadImageURL)

	_, err = store.PathFromURL(testBaseURL + "/face.jpg")
	assert.ErrorIs(t, err, ErrBadImageURL)
}

func TestSaveBytesRejectsUnsafeSegments(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.SaveBytes(services.CategoryUploads, "..", "face.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsafeSegment)

	_, err = store.SaveBytes(services.CategoryUploads, "42", "../../etc/passwd", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsafeSegment)
}

func TestCopyFile(t *testing.T) {
	store, _ := newTestStore(t)

	src := filepath.Join(t.TempDir(), "source.jpg")
	require.NoError(t, os.WriteFile(src, []byte("processed bytes"), 0644))

	url, err := store.CopyFile(services.CategoryProcess, "42", "processed_face.jpg", src)
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/process/42/processed_face.jpg", url)

	path, err := store.PathFromURL(url)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("processed bytes"), data)
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)

	url, err := store.SaveBytes(services.CategoryHistories, "bob", "snap.jpg", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(url))

	path, err := store.PathFromURL(url)
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing a missing file is not an error.
	assert.NoError(t, store.Remove(url))
}

func TestList(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.SaveBytes(services.CategoryUploads, "1", "a.jpg", []byte("a"))
	require.NoError(t, err)
	_, err = store.SaveBytes(services.CategoryUploads, "2", "b.jpg", []byte("b"))
	require.NoError(t, err)

	files, err := store.List(services.CategoryUploads)
	require.NoError(t, err)
	require.Len(t, files, 2)

	urls := []string{files[0].URL, files[1].URL}
	assert.Contains(t, urls, testBaseURL+"/uploads/1/a.jpg")
	assert.Contains(t, urls, testBaseURL+"/uploads/2/b.jpg")
}

func TestListEmptyCategory(t *testing.T) {
	store, _ := newTestStore(t)

	files, err := store.List(services.CategoryProcess)
	require.NoError(t, err)
	assert.Empty(t, files)
}
