package dumpchat

import "context"

// Artifact is a named output file.
type Artifact struct {
	Name    string
	Content []byte
}

// Validate returns an error if the artifact cannot be written.
func (a *Artifact) Validate() error {
	if a.Name == "" {
		return Errorf(EINVALID, "artifact name required")
	}
	return nil
}

// ArtifactWriter stores artifacts.
type ArtifactWriter interface {
	// WriteArtifact stores a and returns the location it was written to.
	WriteArtifact(ctx context.Context, a *Artifact) (string, error)
}
