package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// spillBuffer keeps a re-readable copy of single-pass content for format
// matching. It buffers in memory until threshold bytes, then moves to a
// temporary file.
type spillBuffer struct {
	threshold int64
	dir       string

	mem  bytes.Buffer
	file *os.File
	size int64
}

func newSpillBuffer(threshold int64, dir string, lengthHint int64) (*spillBuffer, error) {
	s := &spillBuffer{threshold: threshold, dir: dir}
	if lengthHint > threshold {
		if err := s.toFile(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Write implements io.Writer.
func (s *spillBuffer) Write(p []byte) (int, error) {
	if s.file == nil && s.size+int64(len(p)) > s.threshold {
		if err := s.toFile(); err != nil {
			return 0, err
		}
	}
	var n int
	var err error
	if s.file != nil {
		n, err = s.file.Write(p)
	} else {
		n, err = s.mem.Write(p)
	}
	s.size += int64(n)
	return n, err
}

func (s *spillBuffer) toFile() error {
	f, err := os.CreateTemp(s.dir, "sercha-spill-*")
	if err != nil {
		return fmt.Errorf("create spill file: %w", err)
	}
	if _, err := f.Write(s.mem.Bytes()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write spill file: %w", err)
	}
	s.mem = bytes.Buffer{}
	s.file = f
	return nil
}

// OnDisk reports whether the buffer moved to a temporary file.
func (s *spillBuffer) OnDisk() bool {
	return s.file != nil
}

// Source returns a Parallel source over everything written so far.
// The buffer must not be written to afterwards.
func (s *spillBuffer) Source(name string) domain.RandomAccessSource {
	if s.file != nil {
		return &spillSource{name: name, ra: s.file, size: s.size}
	}
	return &spillSource{name: name, ra: bytes.NewReader(s.mem.Bytes()), size: s.size}
}

// Close releases the buffer, removing the temporary file if any.
func (s *spillBuffer) Close() error {
	if s.file == nil {
		s.mem = bytes.Buffer{}
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}
	s.file = nil
	return err
}

// spillSource serves independent readers over a spill buffer.
type spillSource struct {
	name string
	ra   io.ReaderAt
	size int64
}

func (s *spillSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(io.NewSectionReader(s.ra, 0, s.size)), nil
}

func (s *spillSource) OpenReaderAt(ctx context.Context) (io.ReaderAt, io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return io.NewSectionReader(s.ra, 0, s.size), io.NopCloser(nil), nil
}

func (s *spillSource) Length() int64 { return s.size }

func (s *spillSource) AccessMode() domain.AccessMode { return domain.AccessParallel }

func (s *spillSource) Name() string { return s.name }
