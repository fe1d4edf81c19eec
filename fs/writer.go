// Package fs writes export artifacts to the local filesystem.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/dumpchat"
)

// Ensure Writer implements dumpchat.ArtifactWriter at compile time.
var _ dumpchat.ArtifactWriter = (*Writer)(nil)

// Writer writes artifacts as files in a directory. Each file is written to
// a temporary name and renamed into place, so a reader never sees a partial
// export.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteArtifact writes a to baseDir and returns the file's path. An existing
// file of the same name is replaced.
func (w *Writer) WriteArtifact(ctx context.Context, a *dumpchat.Artifact) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if strings.ContainsAny(a.Name, `/\`) || a.Name == "." || a.Name == ".." {
		return "", dumpchat.Errorf(dumpchat.EINVALID, "artifact name must be a plain file name: %q", a.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.baseDir, "."+a.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(a.Content); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing %s: %w", a.Name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("setting permissions on %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", a.Name, err)
	}

	fullPath := filepath.Join(w.baseDir, a.Name)
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("moving %s into place: %w", a.Name, err)
	}
	return fullPath, nil
}
