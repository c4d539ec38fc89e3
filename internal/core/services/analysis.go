package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-inspect/internal/connectors/stream"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// GraphFactory creates the store a run describes its input into.
type GraphFactory func() driven.GraphStore

// AnalysisService runs the engine over inputs. Each call is an independent
// run with its own graph, dispatcher, container tree and identity cache;
// the registry and the format and hash sets are shared, so a format
// disabled in one run stays disabled for the life of the service.
type AnalysisService struct {
	registry *AnalyzerRegistry
	hashes   *HashSet
	formats  *FormatSet
	encoding driven.EncodingDetectorFactory
	newGraph GraphFactory
	settings domain.Settings
}

// NewAnalysisService creates the service and freezes registry.
// encoding may be nil, in which case only UTF-8 text is decoded.
func NewAnalysisService(
	registry *AnalyzerRegistry,
	hashes []driven.HashAlgorithm,
	formats []driven.FormatDescriptor,
	encoding driven.EncodingDetectorFactory,
	newGraph GraphFactory,
	settings domain.Settings,
) (*AnalysisService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	registry.Freeze()
	return &AnalysisService{
		registry: registry,
		hashes:   NewHashSet(hashes),
		formats:  NewFormatSet(formats),
		encoding: encoding,
		newGraph: newGraph,
		settings: settings,
	}, nil
}

// Formats returns the active format descriptors.
func (s *AnalysisService) Formats() []driven.FormatDescriptor {
	return s.formats.Snapshot()
}

// HashAlgorithms returns the active hash algorithms.
func (s *AnalysisService) HashAlgorithms() []driven.HashAlgorithm {
	return s.hashes.Snapshot()
}

// AnalyzePath analyses a file or directory tree.
func (s *AnalysisService) AnalyzePath(ctx context.Context, path string) (*driving.AnalysisReport, error) {
	entity, err := filesystem.EntityFor(path)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, entity)
}

// AnalyzeReader analyses a one-shot stream.
func (s *AnalysisService) AnalyzeReader(ctx context.Context, name string, r io.Reader) (*driving.AnalysisReport, error) {
	return s.run(ctx, domain.StreamEntity{Name: name, Source: stream.NewReaderSource(name, r, domain.UnknownLength)})
}

// AnalyzeBytes analyses an in-memory buffer.
func (s *AnalysisService) AnalyzeBytes(ctx context.Context, name string, data []byte) (*driving.AnalysisReport, error) {
	return s.run(ctx, domain.StreamEntity{Name: name, Source: stream.NewBytesSource(name, data)})
}

func (s *AnalysisService) run(ctx context.Context, entity domain.Entity) (*driving.AnalysisReport, error) {
	stats := &runStats{}
	graph := s.newGraph()

	cache, err := NewIdentityCache(s.settings.Analysis.CacheSize)
	if err != nil {
		return nil, err
	}
	defer cache.Purge()

	classifier := NewClassifier(s.hashes, s.formats, s.encoding, s.settings, cache)
	classifier.stats = stats

	dispatcher := NewEntityDispatcher(s.registry)
	dispatcher.stats = stats
	dispatcher.SetFallback(describeUnclassified(graph))

	tree := NewContainerTree(s.registry, dispatcher)

	actx := domain.NewAnalysisContext().
		WithService(domain.ServiceGraph, graph).
		WithService(domain.ServiceClassifier, classifier)
	if s.encoding != nil {
		actx = actx.WithService(domain.ServiceEncodingDetector, s.encoding)
	}

	logger.Section("Analyzing " + entity.Kind().String())
	result, err := tree.Analyze(ctx, entity, actx)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	return &driving.AnalysisReport{
		Root:  result,
		Nodes: graph.Snapshot(ctx),
		Stats: stats.snapshot(),
	}, nil
}

// describeUnclassified annotates entities no analyzer described.
func describeUnclassified(graph driven.GraphStore) FallbackFunc {
	return func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
		node := actx.Node()
		if node.IsZero() {
			node = UUIDNode()
		}
		if err := graph.Describe(ctx, node, domain.PropType, domain.TypeUnclassified); err != nil {
			return domain.AnalysisResult{}, err
		}
		if err := graph.Describe(ctx, node, domain.PropKind, entity.Kind().String()); err != nil {
			return domain.AnalysisResult{}, err
		}
		return domain.AnalysisResult{Node: node, Label: domain.TypeUnclassified}, nil
	}
}
