package domain

import "context"

// Streamer is implemented by entities and values that expose raw content.
type Streamer interface {
	Stream() StreamSource
}

// Stream implements Streamer.
func (e StreamEntity) Stream() StreamSource { return e.Source }

// Stream implements Streamer.
func (e EntryEntity) Stream() StreamSource { return e.Source }

// Stream implements Streamer when the wrapped value does.
func (v FormatValue) Stream() StreamSource {
	if s, ok := v.Value.(Streamer); ok {
		return s.Stream()
	}
	return nil
}

// SourceOf returns the stream behind an entity, if it has one.
func SourceOf(entity Entity) (StreamSource, bool) {
	s, ok := entity.(Streamer)
	if !ok {
		return nil, false
	}
	src := s.Stream()
	return src, src != nil
}

// Archive is a decoded archive whose members can be enumerated.
type Archive interface {
	// Format returns the archive format name (zip, tar).
	Format() string

	// Walk calls fn for each entry in archive order. Entry sources may only
	// be valid for the duration of the callback.
	Walk(ctx context.Context, fn func(EntryEntity) error) error
}

// Decompressed is the payload of a compressed stream.
type Decompressed struct {
	// Algorithm is the compression format (gzip, zstd, lz4).
	Algorithm string

	// Name is the original file name recorded in the header, if any.
	Name string

	Source StreamSource
}

// Stream implements Streamer.
func (d Decompressed) Stream() StreamSource { return d.Source }

// ImageInfo is decoded image metadata.
type ImageInfo struct {
	Format     string
	Width      int
	Height     int
	ColorModel string
}

// StructuredDocument is a decoded data document.
type StructuredDocument struct {
	// Syntax is the source notation (json, yaml, toml, cbor).
	Syntax string

	// Root is the decoded document tree.
	Root any
}

// XMLDocument describes the root of an XML document.
type XMLDocument struct {
	RootName      string
	RootNamespace string
	Version       string
	Encoding      string
	// Namespaces maps declared prefixes to namespace URIs on the root element.
	Namespaces map[string]string
	Elements   int
}
