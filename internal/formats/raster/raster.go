// Package raster provides descriptors for raster image formats. Matching
// decodes only the image header, yielding a domain.ImageInfo.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure Descriptor implements the interface.
var _ driven.FormatDescriptor = (*Descriptor)(nil)

// Descriptor recognises one image format by its signature.
type Descriptor struct {
	descriptor.Info
	signatures [][]byte
	decode     func(io.Reader) (image.Config, error)
}

// NewPNG creates the png descriptor.
func NewPNG() *Descriptor {
	return &Descriptor{
		Info:       info("png", "image/png", "png", 8),
		signatures: [][]byte{[]byte("\x89PNG\r\n\x1a\n")},
		decode:     png.DecodeConfig,
	}
}

// NewGIF creates the gif descriptor.
func NewGIF() *Descriptor {
	return &Descriptor{
		Info:       info("gif", "image/gif", "gif", 6),
		signatures: [][]byte{[]byte("GIF87a"), []byte("GIF89a")},
		decode:     gif.DecodeConfig,
	}
}

// NewJPEG creates the jpeg descriptor.
func NewJPEG() *Descriptor {
	return &Descriptor{
		Info:       info("jpeg", "image/jpeg", "jpg", 3),
		signatures: [][]byte{{0xff, 0xd8, 0xff}},
		decode:     jpeg.DecodeConfig,
	}
}

func info(name, mediaType, ext string, header int) descriptor.Info {
	return descriptor.Info{
		FormatName: name,
		Media:      mediaType,
		Ext:        ext,
		Kind:       domain.KindImage,
		Header:     header,
	}
}

// CheckHeader compares the signature.
func (d *Descriptor) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	for _, sig := range d.signatures {
		if bytes.HasPrefix(header, sig) {
			return true, nil
		}
	}
	return false, nil
}

// Match decodes the image header.
func (d *Descriptor) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	cfg, err := d.decode(rc)
	rc.Close()
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%s: %w", d.FormatName, err)
	}

	return next(ctx, domain.ImageInfo{
		Format:     d.FormatName,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ColorModel: ColorModelName(cfg.ColorModel),
	})
}

// ColorModelName names the standard library color models.
func ColorModelName(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.AlphaModel:
		return "alpha"
	case color.Alpha16Model:
		return "alpha16"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.YCbCrModel:
		return "ycbcr"
	case color.NYCbCrAModel:
		return "nycbcra"
	case color.CMYKModel:
		return "cmyk"
	default:
		return "unknown"
	}
}
