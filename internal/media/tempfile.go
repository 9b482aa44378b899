// Copyright (c) 2026 Vidora. All rights reserved.

package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidora/vidora/pkg/uuid"
)

// TempFile is a scoped handle for a multipart upload spooled to local disk.
//
// # Lifecycle
//
// A TempFile is created by [SaveUpload] and must be released with [Cleanup],
// typically via defer, so the spool file is removed on every exit path —
// success, upload failure, or validation failure alike.
type TempFile struct {
	// Path is the absolute or working-dir-relative spool location.
	Path string

	removed bool
}

/*
SaveUpload copies an uploaded multipart file into the spool directory.

Parameters:
  - header: *multipart.FileHeader from the parsed form
  - dir: Spool directory (created if absent)

Returns:
  - *TempFile: Handle that must be Cleanup()-ed by the caller
  - error: Filesystem failures
*/
func SaveUpload(header *multipart.FileHeader, dir string) (*TempFile, error) {
	source, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("media: failed to open upload: %w", err)
	}
	defer func() { _ = source.Close() }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: failed to create spool dir: %w", err)
	}

	// Unique spool name; the original extension is kept so the uploader can
	// infer a content type later.
	extension := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(dir, uuid.New()+extension)

	destination, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("media: failed to create spool file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("media: failed to spool upload: %w", err)
	}

	if err := destination.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("media: failed to flush spool file: %w", err)
	}

	return &TempFile{Path: path}, nil
}

// Cleanup removes the spool file. It is idempotent and safe to defer
// immediately after SaveUpload.
func (file *TempFile) Cleanup() {
	if file == nil || file.removed {
		return
	}
	file.removed = true
	_ = os.Remove(file.Path)
}
