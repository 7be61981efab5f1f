package upstream

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the CSV from a local file. Used by the CLI for offline runs.
type FileSource struct {
	Path string
}

// Fetch returns the file contents.
func (f FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("upstream: %w: %v", ErrUnavailable, err)
	}
	return body, nil
}
