// Copyright (c) 2026 Vidora. All rights reserved.

package media_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/media"
)

// multipartHeader builds a real *multipart.FileHeader by round-tripping a
// form through the standard library parser.
func multipartHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/register", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, request.ParseMultipartForm(1<<20))

	return request.MultipartForm.File[field][0]
}

func TestSaveUpload_SpoolsContent(t *testing.T) {
	dir := t.TempDir()
	header := multipartHeader(t, "avatar", "me.PNG", []byte("fake-png-bytes"))

	spooled, err := media.SaveUpload(header, dir)
	require.NoError(t, err)
	defer spooled.Cleanup()

	content, err := os.ReadFile(spooled.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), content)

	// Extension survives lowercased; the rest of the name is regenerated.
	assert.Equal(t, ".png", filepath.Ext(spooled.Path))
	assert.NotContains(t, filepath.Base(spooled.Path), "me")
}

func TestSaveUpload_CreatesSpoolDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "spool")
	header := multipartHeader(t, "avatar", "me.png", []byte("x"))

	spooled, err := media.SaveUpload(header, dir)
	require.NoError(t, err)
	defer spooled.Cleanup()

	assert.FileExists(t, spooled.Path)
}

func TestTempFile_Cleanup(t *testing.T) {
	dir := t.TempDir()
	header := multipartHeader(t, "avatar", "me.png", []byte("x"))

	spooled, err := media.SaveUpload(header, dir)
	require.NoError(t, err)
	require.FileExists(t, spooled.Path)

	spooled.Cleanup()
	assert.NoFileExists(t, spooled.Path)

	// Idempotent: a second Cleanup is a no-op.
	spooled.Cleanup()
}

func TestTempFile_CleanupNil(t *testing.T) {
	var spooled *media.TempFile
	spooled.Cleanup()
}
