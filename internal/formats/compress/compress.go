// Package compress provides descriptors for compressed streams. A match
// decodes to a domain.Decompressed whose source is the single-pass
// decompressed stream, which the engine classifies like any other stream.
package compress

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// maxZstdWindow bounds the decoder memory a single frame may ask for.
const maxZstdWindow = 256 << 20

// decoder wraps a compressed stream. The returned name is the original
// file name recorded in the stream header, if any.
type decoder func(r io.Reader) (rc io.ReadCloser, name string, err error)

// frameSize returns the length of the smallest complete frame that starts
// with head, which holds the magic and up to frameHead following bytes.
type frameSize func(head []byte) int

// frameHead is how many bytes past the magic frameSize may inspect.
const frameHead = 1

// Descriptor recognises one compression format by its magic number.
type Descriptor struct {
	descriptor.Info
	magic    []byte
	decode   decoder
	minFrame frameSize
}

// Ensure Descriptor implements the interface.
var _ driven.FormatDescriptor = (*Descriptor)(nil)

// NewGzip creates the gzip descriptor.
func NewGzip() *Descriptor {
	return &Descriptor{
		Info:  info("gzip", "application/gzip", "gz", 3),
		magic: []byte{0x1f, 0x8b, 0x08},
		decode: func(r io.Reader) (io.ReadCloser, string, error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, "", err
			}
			return zr, zr.Name, nil
		},
		// 10 byte header, 2 byte empty deflate block, 8 byte trailer.
		minFrame: fixedFrame(20),
	}
}

// NewZstd creates the zstd descriptor.
func NewZstd() *Descriptor {
	return &Descriptor{
		Info:  info("zstd", "application/zstd", "zst", 4),
		magic: []byte{0x28, 0xb5, 0x2f, 0xfd},
		decode: func(r io.Reader) (io.ReadCloser, string, error) {
			zr, err := zstd.NewReader(r,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderMaxMemory(maxZstdWindow))
			if err != nil {
				return nil, "", err
			}
			return zr.IOReadCloser(), "", nil
		},
		// Magic, frame header descriptor, one descriptor byte, last block header.
		minFrame: fixedFrame(9),
	}
}

// NewLZ4 creates the lz4 frame descriptor.
func NewLZ4() *Descriptor {
	return &Descriptor{
		Info:  info("lz4", "application/x-lz4", "lz4", 4),
		magic: []byte{0x04, 0x22, 0x4d, 0x18},
		decode: func(r io.Reader) (io.ReadCloser, string, error) {
			return io.NopCloser(lz4.NewReader(r)), "", nil
		},
		minFrame: lz4Frame,
	}
}

func fixedFrame(n int) frameSize {
	return func([]byte) int { return n }
}

// lz4Frame sizes an empty lz4 frame: magic, FLG, BD, the optional content
// size and dictionary ID, the header checksum and the end mark.
func lz4Frame(head []byte) int {
	n := 4 + 1 + 1 + 1 + 4
	if len(head) > 4 {
		flg := head[4]
		if flg&0x08 != 0 {
			n += 8
		}
		if flg&0x01 != 0 {
			n += 4
		}
	}
	return n
}

// countingReader counts the compressed bytes a decoder consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func info(name, mediaType, ext string, header int) descriptor.Info {
	return descriptor.Info{
		FormatName: name,
		Media:      mediaType,
		Ext:        ext,
		Kind:       domain.KindDecompressed,
		Header:     header,
	}
}

// CheckHeader compares the magic number.
func (d *Descriptor) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	return bytes.HasPrefix(header, d.magic), nil
}

// Match opens the decompressor and hands the decompressed stream to next.
// The stream is single-access and only readable until next returns.
func (d *Descriptor) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer rc.Close()

	raw := bufio.NewReader(rc)
	head, _ := raw.Peek(len(d.magic) + frameHead)
	head = bytes.Clone(head)
	counted := &countingReader{r: raw}

	dr, name, err := d.decode(counted)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%s: %w", d.FormatName, err)
	}
	defer dr.Close()

	// Decoders that read lazily report a corrupt frame on first read. Some
	// report a frame cut short inside its header as a clean end of stream,
	// so empty output is only trusted once a whole frame was consumed.
	br := bufio.NewReader(dr)
	if _, err := br.Peek(1); err != nil {
		if !errors.Is(err, io.EOF) {
			return domain.AnalysisResult{}, fmt.Errorf("%s: %w", d.FormatName, err)
		}
		if counted.n < int64(d.minFrame(head)) {
			return domain.AnalysisResult{}, fmt.Errorf("%s: %w: truncated frame (%d bytes)", d.FormatName, domain.ErrInvalidInput, counted.n)
		}
	}

	return next(ctx, domain.Decompressed{
		Algorithm: d.FormatName,
		Name:      name,
		Source:    stream.NewReaderSource(label(src.Name(), name, d.Ext), br, domain.UnknownLength),
	})
}

// label names the decompressed stream after the recorded file name, or the
// compressed name with its extension dropped.
func label(srcName, recorded, ext string) string {
	if recorded != "" {
		return recorded
	}
	base := path.Base(srcName)
	if trimmed := strings.TrimSuffix(base, "."+ext); trimmed != base && trimmed != "" {
		return trimmed
	}
	return base + "!"
}
