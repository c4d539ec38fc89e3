package domain

import (
	"io/fs"
	"strings"
	"time"
)

// Kind is a hierarchical type tag. Segments are separated by '/', and a kind
// specialises every prefix of itself: "stream/entry" is a "stream".
// The empty kind (KindAny) is the root of the hierarchy.
type Kind string

// Well-known kinds.
const (
	// KindAny matches every entity.
	KindAny Kind = ""

	// KindFile is a regular file on a filesystem.
	KindFile Kind = "fs/file"

	// KindDirectory is a directory on a filesystem.
	KindDirectory Kind = "fs/dir"

	// KindStream is raw bytes of unknown type.
	KindStream Kind = "stream"

	// KindEntry is a member of an archive.
	KindEntry Kind = "stream/entry"

	// KindDecompressed is the output of a decompressing format.
	KindDecompressed Kind = "stream/decompressed"

	// KindArchive is a decoded archive listing.
	KindArchive Kind = "archive"

	// KindImage is decoded image metadata.
	KindImage Kind = "image"

	// KindDocument is a decoded structured document (JSON, YAML, TOML, CBOR).
	KindDocument Kind = "document"

	// KindXML is a decoded XML document.
	KindXML Kind = "document/xml"
)

// String returns the string representation.
func (k Kind) String() string {
	if k == KindAny {
		return "*"
	}
	return string(k)
}

// Depth returns the number of segments in the kind. KindAny has depth 0.
func (k Kind) Depth() int {
	if k == KindAny {
		return 0
	}
	return strings.Count(string(k), "/") + 1
}

// Parent returns the next more general kind. The parent of KindAny is KindAny.
func (k Kind) Parent() Kind {
	i := strings.LastIndexByte(string(k), '/')
	if i < 0 {
		return KindAny
	}
	return k[:i]
}

// Lineage returns k followed by each of its ancestors, most specific first,
// ending with KindAny.
func (k Kind) Lineage() []Kind {
	lineage := make([]Kind, 0, k.Depth()+1)
	for {
		lineage = append(lineage, k)
		if k == KindAny {
			return lineage
		}
		k = k.Parent()
	}
}

// Is reports whether k equals other or specialises it.
func (k Kind) Is(other Kind) bool {
	if other == KindAny || k == other {
		return true
	}
	return strings.HasPrefix(string(k), string(other)+"/")
}

// Entity is anything the engine can analyse.
type Entity interface {
	// Kind returns the type tag used to route the entity to analyzers.
	Kind() Kind
}

// FileEntity is a regular file on a filesystem.
type FileEntity struct {
	Path string
	Info fs.FileInfo
}

// Kind implements Entity.
func (FileEntity) Kind() Kind { return KindFile }

// DirectoryEntity is a directory on a filesystem.
type DirectoryEntity struct {
	Path string
	Info fs.FileInfo
}

// Kind implements Entity.
func (DirectoryEntity) Kind() Kind { return KindDirectory }

// StreamEntity is raw content of unknown type.
type StreamEntity struct {
	// Name is a human readable label (file name, "stdin"); it carries no identity.
	Name   string
	Source StreamSource
}

// Kind implements Entity.
func (StreamEntity) Kind() Kind { return KindStream }

// EntryEntity is one member of an archive.
type EntryEntity struct {
	// Archive is the format name of the containing archive (zip, tar).
	Archive string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
	// Source is nil for directory entries.
	Source StreamSource
}

// Kind implements Entity.
func (EntryEntity) Kind() Kind { return KindEntry }

// FormatValue is the typed value a format produced from a content object.
// It is routed by the kind the format declared for its values.
type FormatValue struct {
	Match *FormatMatch
	Value any
	// ValueKind is the routing tag. Falls back to KindAny when unset.
	ValueKind Kind
}

// Kind implements Entity.
func (v FormatValue) Kind() Kind { return v.ValueKind }
