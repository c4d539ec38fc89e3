// Package descriptor holds what the built-in format descriptors share:
// their static metadata and bounded ways of reading a matched source.
package descriptor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// ReadLimit bounds how much content a descriptor buffers in memory to decode.
const ReadLimit = 64 << 20

// ErrTooLarge is returned when content exceeds the read limit.
var ErrTooLarge = errors.New("content too large to decode")

// Info is the static part of a format descriptor. Descriptors embed it.
type Info struct {
	FormatName string
	Media      string
	Ext        string
	Kind       domain.Kind
	Header     int
}

// Name returns the format name.
func (i Info) Name() string { return i.FormatName }

// MediaType returns the IANA media type.
func (i Info) MediaType() string { return i.Media }

// Extension returns the usual file extension.
func (i Info) Extension() string { return i.Ext }

// ValueKind returns the kind of decoded values.
func (i Info) ValueKind() domain.Kind { return i.Kind }

// HeaderLength returns the prefix length CheckHeader needs.
func (i Info) HeaderLength() int { return i.Header }

// ReadAll returns the whole content of src, failing with ErrTooLarge when it
// exceeds limit bytes.
func ReadAll(ctx context.Context, src domain.StreamSource, limit int64) ([]byte, error) {
	if n := src.Length(); n > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	if b, ok := src.(*stream.BytesSource); ok {
		return b.Bytes(), nil
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// OpenReaderAt returns random access to src and its size. Sources that do
// not support random access with a known length are buffered in memory,
// up to limit bytes.
func OpenReaderAt(ctx context.Context, src domain.StreamSource, limit int64) (io.ReaderAt, int64, io.Closer, error) {
	if ra, ok := src.(domain.RandomAccessSource); ok && src.Length() >= 0 {
		r, closer, err := ra.OpenReaderAt(ctx)
		if err != nil {
			return nil, 0, nil, err
		}
		return r, src.Length(), closer, nil
	}
	data, err := ReadAll(ctx, src, limit)
	if err != nil {
		return nil, 0, nil, err
	}
	return bytes.NewReader(data), int64(len(data)), io.NopCloser(nil), nil
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// TrimText strips a UTF-8 byte order mark and leading whitespace from a
// text header.
func TrimText(header []byte) []byte {
	return bytes.TrimLeft(bytes.TrimPrefix(header, bomUTF8), " \t\r\n")
}
