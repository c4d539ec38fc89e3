package domain

import (
	"context"
	"io"
)

// AccessMode describes how a StreamSource may be read.
type AccessMode int

const (
	// AccessSingle sources produce one stream, consumed once.
	AccessSingle AccessMode = iota

	// AccessSequential sources can be re-opened, but not while a stream is live.
	AccessSequential

	// AccessParallel sources can be re-opened concurrently. Every stream
	// yields identical bytes.
	AccessParallel
)

// String returns the string representation.
func (m AccessMode) String() string {
	switch m {
	case AccessSingle:
		return "single"
	case AccessSequential:
		return "sequential"
	case AccessParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// UnknownLength is returned by StreamSource.Length when the size is not known up front.
const UnknownLength int64 = -1

// StreamSource produces readable streams for the same logical content.
type StreamSource interface {
	// Open returns a new stream positioned at the start of the content.
	// Single sources return ErrSourceConsumed on the second call.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Length returns the content size in bytes, or UnknownLength.
	Length() int64

	// AccessMode reports how the source may be re-opened.
	AccessMode() AccessMode

	// Name is a human readable label used in logs.
	Name() string
}

// RandomAccessSource is implemented by sources that can serve random reads,
// which formats such as zip require.
type RandomAccessSource interface {
	StreamSource

	// OpenReaderAt returns a ReaderAt over the whole content and a closer
	// releasing it.
	OpenReaderAt(ctx context.Context) (io.ReaderAt, io.Closer, error)
}
