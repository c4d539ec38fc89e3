package domain

// Property names recorded on graph nodes.
const (
	PropType       = "type"
	PropLabel      = "label"
	PropName       = "name"
	PropPath       = "path"
	PropSize       = "size"
	PropModified   = "modified"
	PropMediaType  = "mediaType"
	PropExtension  = "extension"
	PropCharset    = "charset"
	PropBinary     = "binary"
	PropText       = "text"
	PropKind       = "kind"
	PropDigest     = "digest"
	PropFormat     = "format"
	PropEntries    = "entries"
	PropWidth      = "width"
	PropHeight     = "height"
	PropColorModel = "colorModel"
	PropSyntax     = "syntax"
	PropRootType   = "rootType"
	PropMembers    = "members"
	PropRootName   = "rootName"
	PropNamespace  = "namespace"
	PropVersion    = "version"
	PropEncoding   = "encoding"
	PropElements   = "elements"
	PropAlgorithm  = "algorithm"
)

// Node types recorded under PropType.
const (
	TypeFile         = "file"
	TypeDirectory    = "directory"
	TypeContent      = "content"
	TypeArchive      = "archive"
	TypeEntry        = "archive-entry"
	TypeDecompressed = "decompressed"
	TypeImage        = "image"
	TypeDocument     = "document"
	TypeXML          = "xml-document"
	TypeUnclassified = "unclassified"
)

// Relations recorded between graph nodes.
const (
	// RelContains links a directory or archive to its members.
	RelContains = "contains"

	// RelContent links a file, entry or stream to its content object.
	RelContent = "content"

	// RelFormat links a content object to a decoded interpretation of it.
	RelFormat = "format"

	// RelInArchive links an archive entry back to its archive.
	RelInArchive = "inArchive"

	// RelDerivedFrom links content to the content it was decoded from.
	RelDerivedFrom = "derivedFrom"
)
