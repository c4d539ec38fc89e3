package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/hashes"
)

// stubAnalyzer is an EntityAnalyzer driven by a function.
type stubAnalyzer struct {
	name     string
	kind     domain.Kind
	priority int
	fn       func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, d driven.Dispatcher) (domain.AnalysisResult, error)

	mu    sync.Mutex
	calls int
}

func (a *stubAnalyzer) Name() string      { return a.name }
func (a *stubAnalyzer) Kind() domain.Kind { return a.kind }
func (a *stubAnalyzer) Priority() int     { return a.priority }

func (a *stubAnalyzer) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, d driven.Dispatcher) (domain.AnalysisResult, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.fn == nil {
		return domain.AnalysisResult{Node: domain.Node("urn:" + a.name)}, nil
	}
	return a.fn(ctx, entity, actx, d)
}

func (a *stubAnalyzer) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// stubProvider is a ContainerProvider driven by functions.
type stubProvider struct {
	name  string
	match func(entity domain.Entity, actx domain.AnalysisContext) (bool, error)
	child func(ctx context.Context, parent, entity domain.Entity, actx domain.AnalysisContext, next driven.ChildContinuation) (domain.AnalysisResult, error)
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) MatchRoot(_ context.Context, entity domain.Entity, actx domain.AnalysisContext) (driven.ContainerAnalyzer, error) {
	ok, err := p.match(entity, actx)
	if err != nil || !ok {
		return nil, err
	}
	return p, nil
}

func (p *stubProvider) AnalyzeChild(ctx context.Context, parent, entity domain.Entity, actx domain.AnalysisContext, next driven.ChildContinuation) (domain.AnalysisResult, error) {
	return p.child(ctx, parent, entity, actx, next)
}

// stubFormat recognises content starting with magic. Match reads the whole
// source and hands the bytes to next.
type stubFormat struct {
	name     string
	magic    []byte
	kind     domain.Kind
	checkErr error
	matchErr error

	mu      sync.Mutex
	matched int
}

func (f *stubFormat) Name() string           { return f.name }
func (f *stubFormat) MediaType() string      { return "application/x-" + f.name }
func (f *stubFormat) Extension() string      { return f.name }
func (f *stubFormat) ValueKind() domain.Kind { return f.kind }
func (f *stubFormat) HeaderLength() int      { return len(f.magic) }

func (f *stubFormat) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return bytes.HasPrefix(header, f.magic), nil
}

func (f *stubFormat) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	f.mu.Lock()
	f.matched++
	f.mu.Unlock()
	if f.matchErr != nil {
		return domain.AnalysisResult{}, f.matchErr
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return next(ctx, data)
}

func (f *stubFormat) Matched() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matched
}

// brokenHash fails its source check.
type brokenHash struct {
	driven.HashAlgorithm
	err error
}

func (h brokenHash) ID() domain.HashID { return "broken" }

func (h brokenHash) AcceptsSource(domain.StreamSource) (bool, error) { return false, h.err }

func sha256Algorithm() driven.HashAlgorithm {
	return hashes.New("sha256", "sha-256", sha256.New)
}

// recordingDispatcher answers every dispatch with a node derived from the
// parent and remembers what it saw.
type recordingDispatcher struct {
	mu       sync.Mutex
	entities []domain.Entity
	contexts []domain.AnalysisContext
}

func (d *recordingDispatcher) Dispatch(_ context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entities = append(d.entities, entity)
	d.contexts = append(d.contexts, actx)
	node := domain.Node(actx.Parent().String() + "#value")
	return domain.AnalysisResult{Node: node}, nil
}

// oneShot is a Single source over data that counts opens.
func oneShot(name string, data []byte) *countingSource {
	return &countingSource{name: name, data: data, mode: domain.AccessSingle, length: domain.UnknownLength}
}

// countingSource serves data in the given access mode and counts opens.
type countingSource struct {
	name   string
	data   []byte
	mode   domain.AccessMode
	length int64

	mu    sync.Mutex
	opens int
}

func (s *countingSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	if s.mode == domain.AccessSingle && s.opens > 1 {
		return nil, domain.ErrSourceConsumed
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *countingSource) Length() int64                 { return s.length }
func (s *countingSource) AccessMode() domain.AccessMode { return s.mode }
func (s *countingSource) Name() string                  { return s.name }

func (s *countingSource) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}
