// Package stream provides in-memory and one-shot StreamSource implementations.
package stream

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// Ensure the sources implement the interfaces.
var (
	_ domain.RandomAccessSource = (*BytesSource)(nil)
	_ domain.StreamSource       = (*ReaderSource)(nil)
	_ domain.StreamSource       = (*OpenerSource)(nil)
)

// BytesSource serves an in-memory buffer. It is safe to open concurrently.
type BytesSource struct {
	name string
	data []byte
}

// NewBytesSource creates a source over data. The buffer must not be modified
// while the source is in use.
func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: data}
}

// Open implements domain.StreamSource.
func (s *BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// OpenReaderAt implements domain.RandomAccessSource.
func (s *BytesSource) OpenReaderAt(ctx context.Context) (io.ReaderAt, io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return bytes.NewReader(s.data), io.NopCloser(nil), nil
}

// Length implements domain.StreamSource.
func (s *BytesSource) Length() int64 { return int64(len(s.data)) }

// AccessMode implements domain.StreamSource.
func (s *BytesSource) AccessMode() domain.AccessMode { return domain.AccessParallel }

// Name implements domain.StreamSource.
func (s *BytesSource) Name() string { return s.name }

// Bytes returns the underlying buffer.
func (s *BytesSource) Bytes() []byte { return s.data }

// ReaderSource wraps a reader that can only be consumed once (a pipe, stdin,
// a decompressor). The second Open fails with domain.ErrSourceConsumed.
type ReaderSource struct {
	name   string
	length int64

	mu     sync.Mutex
	r      io.Reader
	opened bool
}

// NewReaderSource creates a single-access source. length may be domain.UnknownLength.
func NewReaderSource(name string, r io.Reader, length int64) *ReaderSource {
	return &ReaderSource{name: name, r: r, length: length}
}

// Open implements domain.StreamSource.
func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil, domain.ErrSourceConsumed
	}
	s.opened = true
	if rc, ok := s.r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(s.r), nil
}

// Consumed reports whether Open has been called.
func (s *ReaderSource) Consumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Length implements domain.StreamSource.
func (s *ReaderSource) Length() int64 { return s.length }

// AccessMode implements domain.StreamSource.
func (s *ReaderSource) AccessMode() domain.AccessMode { return domain.AccessSingle }

// Name implements domain.StreamSource.
func (s *ReaderSource) Name() string { return s.name }

// Opener produces a fresh stream over the same content.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// OpenerSource re-opens content through a function but never hands out two
// live streams at once. Opening while a stream is live fails with
// domain.ErrConcurrentOpen.
type OpenerSource struct {
	name   string
	length int64
	open   Opener

	mu   sync.Mutex
	live bool
}

// NewOpenerSource creates a sequential-access source.
func NewOpenerSource(name string, length int64, open Opener) *OpenerSource {
	return &OpenerSource{name: name, length: length, open: open}
}

// Open implements domain.StreamSource.
func (s *OpenerSource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	if s.live {
		s.mu.Unlock()
		return nil, domain.ErrConcurrentOpen
	}
	s.live = true
	s.mu.Unlock()

	rc, err := s.open(ctx)
	if err != nil {
		s.release()
		return nil, err
	}
	return &sequentialStream{ReadCloser: rc, release: s.release}, nil
}

func (s *OpenerSource) release() {
	s.mu.Lock()
	s.live = false
	s.mu.Unlock()
}

// Length implements domain.StreamSource.
func (s *OpenerSource) Length() int64 { return s.length }

// AccessMode implements domain.StreamSource.
func (s *OpenerSource) AccessMode() domain.AccessMode { return domain.AccessSequential }

// Name implements domain.StreamSource.
func (s *OpenerSource) Name() string { return s.name }

type sequentialStream struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (s *sequentialStream) Close() error {
	err := s.ReadCloser.Close()
	s.once.Do(s.release)
	return err
}
