package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDownload(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	content := []byte("certificate contents")
	path, err := store.Upload(ctx, bytes.NewReader(content), "leave-documents/101/cert.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("leave-documents", "101", "cert.pdf"), path)

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	_, err = store.Upload(ctx, bytes.NewReader([]byte("x")), "../escape.txt", "text/plain")
	assert.Error(t, err)

	_, err = store.Download(ctx, "../../etc/passwd")
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_Delete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	path, err := store.Upload(ctx, bytes.NewReader([]byte("x")), "doc.pdf", "application/pdf")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	// Deleting a missing file is a no-op
	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.Error(t, err)
}

func TestLocalStorage_GetURL(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := store.GetURL(ctx, "leave-documents/101/cert.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/leave-documents/101/cert.pdf", url)
}
