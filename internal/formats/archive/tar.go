package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure Tar implements the interface.
var _ driven.FormatDescriptor = (*Tar)(nil)

const tarMagicOffset = 257

var tarMagic = []byte("ustar")

// Tar recognises POSIX (ustar and GNU) tar archives.
type Tar struct {
	descriptor.Info
}

// NewTar creates the tar descriptor.
func NewTar() *Tar {
	return &Tar{Info: descriptor.Info{
		FormatName: "tar",
		Media:      "application/x-tar",
		Ext:        "tar",
		Kind:       domain.KindArchive,
		Header:     tarMagicOffset + len(tarMagic),
	}}
}

// CheckHeader looks for the ustar magic in the first header block.
func (t *Tar) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	if len(header) < tarMagicOffset+len(tarMagic) {
		return false, nil
	}
	return bytes.Equal(header[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic), nil
}

// Match validates the first header and hands a tar Archive to next.
func (t *Tar) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	_, err = tar.NewReader(rc).Next()
	rc.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.AnalysisResult{}, fmt.Errorf("tar: %w", err)
	}
	return next(ctx, &tarArchive{src: src})
}

// tarArchive re-reads the archive stream on every Walk.
type tarArchive struct {
	src domain.StreamSource
}

func (a *tarArchive) Format() string { return "tar" }

// Walk yields regular files and directories in stream order. Entry sources
// read straight from the archive and are only valid inside fn.
func (a *tarArchive) Walk(ctx context.Context, fn func(domain.EntryEntity) error) error {
	rc, err := a.src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	tr := tar.NewReader(rc)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}

		entry := domain.EntryEntity{
			Archive: "tar",
			Path:    hdr.Name,
			Size:    hdr.Size,
			ModTime: hdr.ModTime,
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			entry.IsDir = true
			entry.Size = 0
		case tar.TypeReg:
			entry.Source = stream.NewReaderSource(a.src.Name()+"/"+hdr.Name, tr, hdr.Size)
		default:
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
}
