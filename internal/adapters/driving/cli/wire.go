package cli

import (
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/encoding"
	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-inspect/internal/analyzers"
	"github.com/custodia-labs/sercha-inspect/internal/containers"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/core/services"
	"github.com/custodia-labs/sercha-inspect/internal/formats"
	"github.com/custodia-labs/sercha-inspect/internal/hashes"
)

// override is a command-line value layered over the config file.
type override struct {
	key   string
	value any
}

// openConfig opens the config file named by --config.
func openConfig() (*file.ConfigStore, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// loadSettings reads the effective settings: config file, then overrides.
// Overrides live in an in-memory overlay and are never written back.
func loadSettings(overrides ...override) (*domain.Settings, error) {
	store, err := openConfig()
	if err != nil {
		return nil, err
	}
	config := memory.NewOverlay(store)
	for _, o := range overrides {
		if err := config.Set(o.key, o.value); err != nil {
			return nil, fmt.Errorf("override %s: %w", o.key, err)
		}
	}
	return services.NewSettingsService(config).Get()
}

// buildAnalysisService wires the engine with every bundled analyzer,
// container provider, format and the configured hash algorithms.
func buildAnalysisService(settings *domain.Settings) (*services.AnalysisService, error) {
	hashRegistry := hashes.NewRegistry()
	hashes.RegisterDefaults(hashRegistry)
	algorithms, err := hashRegistry.BuildAll(settings.Hash.Algorithms)
	if err != nil {
		return nil, err
	}

	descriptors, err := buildFormats()
	if err != nil {
		return nil, err
	}

	registry := services.NewAnalyzerRegistry()
	if err := analyzers.RegisterDefaults(registry); err != nil {
		return nil, err
	}
	if err := containers.RegisterDefaults(registry, settings.Analysis.Exclude); err != nil {
		return nil, err
	}

	return services.NewAnalysisService(
		registry,
		algorithms,
		descriptors,
		encoding.NewFactory(),
		func() driven.GraphStore { return memory.NewGraphStore() },
		*settings,
	)
}

func buildFormats() ([]driven.FormatDescriptor, error) {
	formatRegistry := formats.NewRegistry()
	formats.RegisterDefaults(formatRegistry)
	return formatRegistry.BuildAll(nil)
}
