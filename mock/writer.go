package mock

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

var _ dumpchat.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter is a mock implementation of dumpchat.ArtifactWriter.
type ArtifactWriter struct {
	WriteArtifactFn func(ctx context.Context, a *dumpchat.Artifact) (string, error)
}

func (w *ArtifactWriter) WriteArtifact(ctx context.Context, a *dumpchat.Artifact) (string, error) {
	return w.WriteArtifactFn(ctx, a)
}
