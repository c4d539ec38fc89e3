package driven

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// FormatDescriptor recognises one format from a header prefix and decodes it.
type FormatDescriptor interface {
	// Name identifies the format (e.g. "zip").
	Name() string

	// MediaType returns the IANA media type of the format.
	MediaType() string

	// Extension returns the usual file extension, without the dot.
	Extension() string

	// ValueKind is the kind of the values Match hands to its continuation.
	ValueKind() domain.Kind

	// HeaderLength is the number of leading bytes CheckHeader needs.
	HeaderLength() int

	// CheckHeader is a cheap predicate over the content prefix. header may be
	// shorter than HeaderLength when the content is. An error marks the
	// format as broken for the rest of the run.
	CheckHeader(header []byte, isBinary bool, charset string) (bool, error)

	// Match fully decodes src. On success it passes the decoded value to next
	// and returns next's result. A recoverable error discards the match.
	Match(ctx context.Context, src domain.StreamSource, mc MatchContext, next MatchContinuation) (domain.AnalysisResult, error)
}

// MatchContext carries what a format may need besides the stream.
type MatchContext struct {
	// Content is the content object under construction. Its identity and
	// hashes are not final while Match runs.
	Content *domain.ContentObject

	// Analysis is the context of the content being matched.
	Analysis domain.AnalysisContext
}

// MatchContinuation receives the decoded value and returns the result of
// analysing it.
type MatchContinuation func(ctx context.Context, value any) (domain.AnalysisResult, error)
