// Package filesystem provides stream sources and change watching for local files.
package filesystem

import (
	"context"
	"io"
	"os"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// Ensure FileSource implements the interface.
var _ domain.RandomAccessSource = (*FileSource)(nil)

// FileSource serves a regular file. Files can be opened any number of times
// concurrently, so the source is Parallel.
type FileSource struct {
	path string
	size int64
}

// NewFileSource creates a source for path. size is the length reported by
// Stat; pass domain.UnknownLength to stat lazily on first use.
func NewFileSource(path string, size int64) *FileSource {
	return &FileSource{path: path, size: size}
}

// Open implements domain.StreamSource.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.path)
}

// OpenReaderAt implements domain.RandomAccessSource.
func (s *FileSource) OpenReaderAt(ctx context.Context) (io.ReaderAt, io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// Length implements domain.StreamSource.
func (s *FileSource) Length() int64 {
	if s.size < 0 {
		if info, err := os.Stat(s.path); err == nil {
			s.size = info.Size()
		}
	}
	return s.size
}

// AccessMode implements domain.StreamSource.
func (s *FileSource) AccessMode() domain.AccessMode { return domain.AccessParallel }

// Name implements domain.StreamSource.
func (s *FileSource) Name() string { return s.path }

// Path returns the file path.
func (s *FileSource) Path() string { return s.path }
