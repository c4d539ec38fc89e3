package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure Zip implements the interface.
var _ driven.FormatDescriptor = (*Zip)(nil)

var (
	zipLocalHeader = []byte("PK\x03\x04")
	zipEmptyEnd    = []byte("PK\x05\x06")
)

// Zip recognises zip archives. The central directory needs random access,
// so non-seekable sources are buffered up to descriptor.ReadLimit.
type Zip struct {
	descriptor.Info
}

// NewZip creates the zip descriptor.
func NewZip() *Zip {
	return &Zip{Info: descriptor.Info{
		FormatName: "zip",
		Media:      "application/zip",
		Ext:        "zip",
		Kind:       domain.KindArchive,
		Header:     4,
	}}
}

// CheckHeader accepts a local file header or the end record of an empty archive.
func (z *Zip) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	return bytes.HasPrefix(header, zipLocalHeader) || bytes.HasPrefix(header, zipEmptyEnd), nil
}

// Match reads the central directory and hands a zip Archive to next. The
// archive is only valid until next returns.
func (z *Zip) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	ra, size, closer, err := descriptor.OpenReaderAt(ctx, src, descriptor.ReadLimit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer closer.Close()

	r, err := zip.NewReader(ra, size)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("zip: %w", err)
	}
	return next(ctx, &zipArchive{name: src.Name(), reader: r})
}

type zipArchive struct {
	name   string
	reader *zip.Reader
}

func (a *zipArchive) Format() string { return "zip" }

// Walk yields entries in central directory order. Each file entry is a
// sequential source re-opened from the archive.
func (a *zipArchive) Walk(ctx context.Context, fn func(domain.EntryEntity) error) error {
	for _, f := range a.reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := domain.EntryEntity{
			Archive: "zip",
			Path:    f.Name,
			Size:    int64(f.UncompressedSize64),
			ModTime: f.Modified,
			IsDir:   f.FileInfo().IsDir(),
		}
		if !entry.IsDir {
			entry.Source = stream.NewOpenerSource(a.name+"/"+f.Name, entry.Size, func(context.Context) (io.ReadCloser, error) {
				return f.Open()
			})
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}
