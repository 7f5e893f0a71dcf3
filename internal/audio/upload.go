package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrUploadTooLarge is returned when an upload exceeds the configured size cap
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// SaveUpload writes an uploaded recording to a uniquely named file under dir,
// enforcing the size cap, and returns its path. The file is a scoped temporary
// resource: the caller must remove it once the analysis run finishes,
// regardless of outcome.
func SaveUpload(dir, name string, r io.Reader, maxBytes int64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := filepath.Ext(name)
	path := filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	// Read one byte past the cap so an at-limit upload is distinguishable
	// from an over-limit one.
	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if n > maxBytes {
		os.Remove(path)
		return "", ErrUploadTooLarge
	}

	return path, nil
}
