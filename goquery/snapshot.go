package goquery

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/fwojciec/dumpchat"
)

// Ensure SnapshotBrowser implements dumpchat.Browser at compile time.
var _ dumpchat.Browser = (*SnapshotBrowser)(nil)

// SnapshotBrowser serves a saved HTML file as the page at any URL. It lets
// an export run offline against a page saved from a logged-in browser.
type SnapshotBrowser struct {
	path string
}

// NewSnapshotBrowser creates a SnapshotBrowser reading the file at path.
func NewSnapshotBrowser(path string) *SnapshotBrowser {
	return &SnapshotBrowser{path: path}
}

// OpenPage parses the snapshot as the page at pageURL.
// Returns ENOTFOUND if the snapshot file does not exist.
func (b *SnapshotBrowser) OpenPage(ctx context.Context, pageURL string) (dumpchat.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, dumpchat.Errorf(dumpchat.ENOTFOUND, "snapshot not found: %s", b.path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewDocument(f, pageURL)
}

// Close is a no-op.
func (b *SnapshotBrowser) Close() error {
	return nil
}
