package hashes

import (
	"context"
	"encoding/base64"
	"hash"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure Algorithm implements the interface.
var _ driven.HashAlgorithm = (*Algorithm)(nil)

// Algorithm adapts a hash.Hash constructor to driven.HashAlgorithm.
type Algorithm struct {
	id     domain.HashID
	niName string
	size   int
	newFn  func() hash.Hash
}

// New creates an algorithm. niName is the name used in node URIs (the
// RFC 6920 registry name where one exists).
func New(id domain.HashID, niName string, newFn func() hash.Hash) *Algorithm {
	return &Algorithm{
		id:     id,
		niName: niName,
		size:   newFn().Size(),
		newFn:  newFn,
	}
}

// ID implements driven.HashAlgorithm.
func (a *Algorithm) ID() domain.HashID { return a.id }

// AcceptsSource implements driven.HashAlgorithm.
func (a *Algorithm) AcceptsSource(domain.StreamSource) (bool, error) { return true, nil }

// Sum implements driven.HashAlgorithm.
func (a *Algorithm) Sum(ctx context.Context, r io.Reader) ([]byte, error) {
	h := a.newFn()
	if _, err := io.Copy(h, &contextReader{ctx: ctx, r: r}); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// SumChunks implements driven.HashAlgorithm.
func (a *Algorithm) SumChunks(ctx context.Context, chunks <-chan []byte) ([]byte, error) {
	h := a.newFn()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				return h.Sum(nil), nil
			}
			h.Write(chunk)
		}
	}
}

// HashSize implements driven.HashAlgorithm. The digest size does not depend
// on the content length.
func (a *Algorithm) HashSize(int64) int { return a.size }

// EstimateURISize implements driven.HashAlgorithm.
func (a *Algorithm) EstimateURISize(hashSize int) (int, bool) {
	return len(niPrefix) + len(a.niName) + 1 + base64.RawURLEncoding.EncodedLen(hashSize), true
}

// NodeFor implements driven.HashAlgorithm.
func (a *Algorithm) NodeFor(digest []byte) domain.Node {
	return domain.Node(niPrefix + a.niName + ";" + base64.RawURLEncoding.EncodeToString(digest))
}

const niPrefix = "ni:///"

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
