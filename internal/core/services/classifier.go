package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// Ensure Classifier implements the interface.
var _ driven.ContentClassifier = (*Classifier)(nil)

// Classifier turns one stream into a ContentObject: binary/text verdict,
// prefix, charset, hashes, identity and matched formats.
//
// Single and Sequential sources are read exactly once; the one read feeds
// the prefix, every hash and, when a format header matched, a spill buffer
// the format matchers re-read. Parallel sources are re-opened once per hash
// and matched in place.
type Classifier struct {
	hashes    *HashSet
	formats   *FormatSet
	encoding  driven.EncodingDetectorFactory
	preferred []domain.HashID
	settings  domain.AnalysisSettings
	cache     *IdentityCache
	stats     *runStats
	log       *slog.Logger
}

// NewClassifier creates a classifier. encoding and cache may be nil.
func NewClassifier(hashes *HashSet, formats *FormatSet, encoding driven.EncodingDetectorFactory, settings domain.Settings, cache *IdentityCache) *Classifier {
	preferred := make([]domain.HashID, len(settings.Hash.Preferred))
	for i, name := range settings.Hash.Preferred {
		preferred[i] = domain.HashID(name)
	}
	return &Classifier{
		hashes:    hashes,
		formats:   formats,
		encoding:  encoding,
		preferred: preferred,
		settings:  settings.Analysis,
		cache:     cache,
		log:       logger.For("classifier"),
	}
}

// MaxInlineLength returns the size under which embedding content in a data:
// URI is no longer than naming it by every hash in algorithms. A positive
// configured value takes precedence.
func (c *Classifier) MaxInlineLength(algorithms []driven.HashAlgorithm, lengthHint int64) int {
	if c.settings.MaxInlineLength > 0 {
		return c.settings.MaxInlineLength
	}
	budget := 0
	for _, a := range algorithms {
		if size, ok := a.EstimateURISize(a.HashSize(lengthHint)); ok {
			budget += size
		}
	}
	return inlineThreshold(budget)
}

// Classify implements driven.ContentClassifier.
func (c *Classifier) Classify(ctx context.Context, src domain.StreamSource, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (*domain.ContentObject, error) {
	algorithms := c.hashes.Accepting(src)
	maxInline := c.MaxInlineLength(algorithms, src.Length())
	capacity := max(maxInline+1, c.formats.MaxHeaderLength())

	p := &pass{
		c:            c,
		src:          src,
		capacity:     capacity,
		matchFormats: actx.Depth() <= c.settings.MaxDepth,
	}
	if c.encoding != nil {
		p.detector = c.encoding.NewDetector()
	}
	defer p.close()

	var err error
	if src.AccessMode() == domain.AccessParallel {
		err = p.readParallel(ctx, algorithms)
	} else {
		err = p.readSequential(ctx, algorithms)
	}
	if err != nil {
		return nil, err
	}
	if !p.matchFormats {
		c.log.Debug("depth limit, formats skipped", "source", src.Name(), "depth", actx.Depth())
	}
	if c.stats != nil {
		c.stats.bytesRead.Add(p.length)
	}

	complete := p.length <= int64(capacity)
	if complete && int64(len(p.prefix)) != p.length {
		return nil, domain.Internal(fmt.Errorf("prefix of %s holds %d of %d bytes", src.Name(), len(p.prefix), p.length))
	}

	content := &domain.ContentObject{
		IsBinary:        p.isBinary,
		IsComplete:      complete,
		Prefix:          p.prefix,
		PrefixCapacity:  capacity,
		MaxInlineLength: maxInline,
		Charset:         p.charset,
		ActualLength:    p.length,
	}
	mt := mimetype.Detect(p.prefix)
	content.MediaType = mt.String()
	content.Extension = strings.TrimPrefix(mt.Extension(), ".")
	if complete && !p.isBinary {
		content.Text, content.HasText = c.decode(p.charset, p.prefix)
	}

	ident := newIdentityFuture()
	go func() {
		hashes := p.wait(ctx)
		node, identity, duplicate := c.identify(complete, p.prefix, content.MediaType, algorithms, hashes)
		ident.resolve(hashes, node, identity, duplicate)
	}()

	var matchSrc domain.StreamSource
	switch {
	case complete:
		matchSrc = stream.NewBytesSource(src.Name(), p.prefix)
	case src.AccessMode() == domain.AccessParallel:
		matchSrc = src
	case p.spill != nil:
		matchSrc = p.spill.Source(src.Name())
	}

	matches, err := c.match(ctx, p.candidates, matchSrc, content, actx, dispatcher, ident)
	if err != nil {
		return nil, err
	}

	if err := ident.wait(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content.Formats = matches
	content.Hashes = ident.hashes
	content.Node = ident.node
	content.Identity = ident.identity
	content.Duplicate = ident.duplicate

	c.log.Debug("classified",
		"source", src.Name(),
		"mode", src.AccessMode().String(),
		"length", content.ActualLength,
		"binary", content.IsBinary,
		"complete", content.IsComplete,
		"formats", len(content.Formats),
		"node", content.Node.String(),
	)
	return content, nil
}

// decode converts complete text content to a string.
func (c *Classifier) decode(charset string, data []byte) (string, bool) {
	if c.encoding == nil {
		if utf8.Valid(data) {
			return string(data), true
		}
		return "", false
	}
	if charset == "" {
		return "", false
	}
	text, err := c.encoding.Decode(charset, data)
	if err != nil {
		c.log.Debug("decode failed", "charset", charset, "error", err)
		return "", false
	}
	return text, true
}

// identify picks the node of the content: a data: URI when complete, else
// the first preferred hash that was computed, else a fresh UUID. Identical
// content seen earlier in the run resolves to the node it got then.
func (c *Classifier) identify(complete bool, prefix []byte, mediaType string, algorithms []driven.HashAlgorithm, hashes map[domain.HashID][]byte) (domain.Node, domain.ContentIdentity, bool) {
	var node domain.Node
	var identity domain.ContentIdentity

	if complete {
		node = DataURI(mediaType, prefix)
		identity = domain.ContentIdentity{ReferenceKey: string(prefix), DataKey: node.String()}
	} else {
		byID := make(map[domain.HashID]driven.HashAlgorithm, len(algorithms))
		for _, a := range algorithms {
			byID[a.ID()] = a
			if digest, ok := hashes[a.ID()]; ok && identity.DataKey == "" {
				identity.DataKey = a.NodeFor(digest).String()
			}
		}
		for _, id := range c.preferred {
			digest, ok := hashes[id]
			if !ok || byID[id] == nil {
				continue
			}
			node = byID[id].NodeFor(digest)
			break
		}
		if node.IsZero() {
			node = UUIDNode()
		}
	}

	if c.cache == nil {
		return node, identity, false
	}
	resolved, seen := c.cache.Resolve(identity.DataKey, node)
	return resolved, identity, seen
}

// match runs the full match of every candidate concurrently and returns the
// successful matches in declaration order.
func (c *Classifier) match(ctx context.Context, candidates []driven.FormatDescriptor, src domain.StreamSource, content *domain.ContentObject, actx domain.AnalysisContext, dispatcher driven.Dispatcher, ident *identityFuture) ([]*domain.FormatMatch, error) {
	if len(candidates) == 0 || src == nil {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.settings.FormatWorkers))
	slots := make([]*domain.FormatMatch, len(candidates))
	mc := driven.MatchContext{Content: content, Analysis: actx}

	for i, f := range candidates {
		g.Go(func() error {
			m, err := c.matchOne(gctx, f, src, mc, dispatcher, ident)
			if err != nil {
				return err
			}
			slots[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []*domain.FormatMatch
	for _, m := range slots {
		if m != nil {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// matchOne decodes one format and analyses the decoded value as a child of
// the content. Only internal and cancellation errors are returned.
func (c *Classifier) matchOne(ctx context.Context, f driven.FormatDescriptor, src domain.StreamSource, mc driven.MatchContext, dispatcher driven.Dispatcher, ident *identityFuture) (*domain.FormatMatch, error) {
	match := &domain.FormatMatch{
		Format:    f.Name(),
		Extension: f.Extension(),
		MediaType: f.MediaType(),
		Label:     f.Name(),
	}

	matched := false
	next := func(ctx context.Context, value any) (domain.AnalysisResult, error) {
		matched = true
		match.Value = value
		if err := ident.wait(ctx); err != nil {
			return domain.AnalysisResult{}, err
		}
		if ident.duplicate {
			return domain.AnalysisResult{}, nil
		}

		entity := domain.FormatValue{Match: match, Value: value, ValueKind: f.ValueKind()}
		child := mc.Analysis.Child(ident.node).
			WithService(domain.ServiceContent, mc.Content).
			WithService(domain.ServiceSource, src)
		if c.encoding != nil {
			child = child.WithService(domain.ServiceEncodingDetector, c.encoding)
		}
		return dispatcher.Dispatch(ctx, entity, child)
	}

	result, err := f.Match(ctx, src, mc, next)
	if err != nil {
		if domain.IsInternal(err) || ctx.Err() != nil {
			return nil, err
		}
		c.log.Warn("format match failed", "format", f.Name(), "source", src.Name(), "error", err)
		return nil, nil
	}
	if !matched {
		c.log.Debug("format declined", "format", f.Name(), "source", src.Name())
		return nil, nil
	}

	match.Result = result
	if c.stats != nil {
		c.stats.formatMatches.Add(1)
	}
	return match, nil
}

// identityFuture publishes the content identity once hashing finishes.
type identityFuture struct {
	done      chan struct{}
	hashes    map[domain.HashID][]byte
	node      domain.Node
	identity  domain.ContentIdentity
	duplicate bool
}

func newIdentityFuture() *identityFuture {
	return &identityFuture{done: make(chan struct{})}
}

func (f *identityFuture) resolve(hashes map[domain.HashID][]byte, node domain.Node, identity domain.ContentIdentity, duplicate bool) {
	f.hashes = hashes
	f.node = node
	f.identity = identity
	f.duplicate = duplicate
	close(f.done)
}

func (f *identityFuture) wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
