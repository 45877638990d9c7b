package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageServiceSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)
	require.NoError(t, storage.EnsureUploadDir())

	name, path, err := storage.SaveFile("Jane Doe CV.PDF", []byte("%PDF-1.4"), "cv")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "cv_"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.Equal(t, storage.GetFilePath(name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestStorageServiceSameNameDoesNotOverwrite(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	first, _, err := storage.SaveFile("cv.docx", []byte("one"), "cv")
	require.NoError(t, err)
	second, _, err := storage.SaveFile("cv.docx", []byte("two"), "cv")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
