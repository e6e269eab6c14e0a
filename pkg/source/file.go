package source

import (
	"context"
	"fmt"
	"os"

	"github.com/elonfeng/techcast/pkg/trend"
)

// File reads trends from a JSON document on disk, in the same shape the
// analytics service serves.
type File struct {
	path string
}

// NewFile creates a file source.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() Kind { return KindFile }

func (f *File) Fetch(ctx context.Context) ([]trend.Record, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open trends file %s: %w", f.path, err)
	}
	defer fh.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(fh)
}
