package formats

import (
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/archive"
	"github.com/custodia-labs/sercha-inspect/internal/formats/compress"
	"github.com/custodia-labs/sercha-inspect/internal/formats/document"
	"github.com/custodia-labs/sercha-inspect/internal/formats/raster"
	"github.com/custodia-labs/sercha-inspect/internal/formats/xmldoc"
)

// RegisterDefaults registers all built-in formats with the registry.
// Containers come first, then compression, images and text documents.
func RegisterDefaults(r *Registry) {
	r.Register("zip", wrap(archive.NewZip()))
	r.Register("tar", wrap(archive.NewTar()))
	r.Register("gzip", wrap(compress.NewGzip()))
	r.Register("zstd", wrap(compress.NewZstd()))
	r.Register("lz4", wrap(compress.NewLZ4()))
	r.Register("png", wrap(raster.NewPNG()))
	r.Register("gif", wrap(raster.NewGIF()))
	r.Register("jpeg", wrap(raster.NewJPEG()))
	r.Register("cbor", wrap(document.NewCBOR()))
	r.Register("json", wrap(document.NewJSON()))
	r.Register("yaml", wrap(document.NewYAML()))
	r.Register("toml", wrap(document.NewTOML()))
	r.Register("xml", wrap(xmldoc.New()))
}

// wrap turns a stateless descriptor into a builder.
func wrap(f driven.FormatDescriptor) BuilderFunc {
	return func() (driven.FormatDescriptor, error) {
		return f, nil
	}
}
