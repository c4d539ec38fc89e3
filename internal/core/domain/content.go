package domain

import "sort"

// HashID identifies a hash algorithm (e.g. "sha256").
type HashID string

// String returns the string representation.
func (id HashID) String() string {
	return string(id)
}

// ContentIdentity holds the two keys used to deduplicate identical content.
type ContentIdentity struct {
	// ReferenceKey groups content by algorithm-independent identity. For
	// complete content it is the content itself.
	ReferenceKey string

	// DataKey is a content fingerprint.
	DataKey string
}

// ContentObject is the result of classifying one StreamSource.
type ContentObject struct {
	// IsBinary is true when the content is not text. Empty content is binary.
	IsBinary bool

	// IsComplete is true when the whole content fits in Prefix.
	IsComplete bool

	// Prefix holds the first bytes of the content, up to PrefixCapacity.
	Prefix []byte

	// PrefixCapacity is the size the prefix buffer was allowed to grow to.
	PrefixCapacity int

	// MaxInlineLength is the size under which embedding content beats hashing it.
	MaxInlineLength int

	// Charset is the detected text encoding. Empty for binary content.
	Charset string

	// Text is the decoded content. Only set when HasText is true.
	Text string

	// HasText is true when the content is complete text and was decoded.
	HasText bool

	// ActualLength is the number of bytes read from the source.
	ActualLength int64

	// MediaType and Extension are sniffed from the prefix regardless of
	// registered formats.
	MediaType string
	Extension string

	// Hashes holds one digest per algorithm that accepted the source.
	Hashes map[HashID][]byte

	// Formats lists successful format matches in declaration order.
	Formats []*FormatMatch

	// Identity is used for deduplication.
	Identity ContentIdentity

	// Node is the identity of the content in the output graph.
	Node Node

	// Duplicate is true when identical content was already classified in
	// this run. Its formats were matched but not analysed again.
	Duplicate bool
}

// HashIDs returns the computed hash algorithms in sorted order.
func (c *ContentObject) HashIDs() []HashID {
	ids := make([]HashID, 0, len(c.Hashes))
	for id := range c.Hashes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FormatMatch associates a content object with a recognised format and the
// typed value decoding produced.
type FormatMatch struct {
	// Format is the descriptor name.
	Format    string
	Extension string
	MediaType string
	Label     string

	// Value is the decoded value handed to nested analysis.
	Value any

	// Result is the outcome of analysing Value.
	Result AnalysisResult
}
