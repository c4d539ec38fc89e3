package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// HashAlgorithm computes a digest over content.
// Implementations must support both a pull-style stream (used for parallel
// sources, one stream per algorithm) and a push-style chunk channel (used when
// a single read pass feeds every algorithm at once).
type HashAlgorithm interface {
	// ID returns the algorithm identifier (e.g. "sha256").
	ID() domain.HashID

	// AcceptsSource reports whether the algorithm wants to hash src.
	// An error marks the algorithm as broken for the rest of the run.
	AcceptsSource(src domain.StreamSource) (bool, error)

	// Sum hashes everything r yields.
	Sum(ctx context.Context, r io.Reader) ([]byte, error)

	// SumChunks hashes chunks in order until the channel is closed.
	// Implementations must not retain or modify chunks.
	SumChunks(ctx context.Context, chunks <-chan []byte) ([]byte, error)

	// HashSize returns the digest size for content of lengthHint bytes
	// (domain.UnknownLength when not known).
	HashSize(lengthHint int64) int

	// EstimateURISize returns the length of a node URI naming a digest of
	// hashSize bytes, or false when the algorithm has no URI form.
	EstimateURISize(hashSize int) (int, bool)

	// NodeFor returns the node URI naming digest.
	NodeFor(digest []byte) domain.Node
}
