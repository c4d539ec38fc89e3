package containers_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-inspect/internal/analyzers"
	"github.com/custodia-labs/sercha-inspect/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-inspect/internal/containers"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-inspect/internal/core/services"
	"github.com/custodia-labs/sercha-inspect/internal/formats"
	"github.com/custodia-labs/sercha-inspect/internal/hashes"
)

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range []string{"c.txt", "d.log"} {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(members[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func newService(t *testing.T, exclude []string) *services.AnalysisService {
	t.Helper()
	registry := services.NewAnalyzerRegistry()
	require.NoError(t, analyzers.RegisterDefaults(registry))
	require.NoError(t, containers.RegisterDefaults(registry, exclude))

	hashRegistry := hashes.NewRegistry()
	hashes.RegisterDefaults(hashRegistry)
	algorithms, err := hashRegistry.BuildAll([]string{"sha256"})
	require.NoError(t, err)

	formatRegistry := formats.NewRegistry()
	formats.RegisterDefaults(formatRegistry)
	descriptors, err := formatRegistry.BuildAll([]string{"zip"})
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Hash.Algorithms = []string{"sha256"}
	svc, err := services.NewAnalysisService(registry, algorithms, descriptors, nil,
		func() driven.GraphStore { return memory.NewGraphStore() }, settings)
	require.NoError(t, err)
	return svc
}

func find(report *driving.AnalysisReport, typ, path string) (domain.GraphNode, bool) {
	for _, n := range report.Nodes {
		if v, _ := n.First(domain.PropType); v != typ {
			continue
		}
		if v, _ := n.First(domain.PropPath); v == path {
			return n, true
		}
	}
	return domain.GraphNode{}, false
}

func TestDefaults_DirectoryWithArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.log"), []byte("noise"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("beta"), 0o644))
	writeZip(t, filepath.Join(dir, "bundle.zip"), map[string]string{"c.txt": "gamma", "d.log": "delta"})

	report, err := newService(t, []string{"*.log"}).AnalyzePath(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filesystem.NodeForPath(dir), report.Root.Node)

	root, ok := find(report, domain.TypeDirectory, dir)
	require.True(t, ok)
	assert.ElementsMatch(t, []domain.Node{
		filesystem.NodeForPath(filepath.Join(dir, "a.txt")),
		filesystem.NodeForPath(filepath.Join(dir, "bundle.zip")),
		filesystem.NodeForPath(filepath.Join(dir, "sub")),
	}, root.Targets(domain.RelContains))

	_, ok = find(report, domain.TypeFile, filepath.Join(dir, "skip.log"))
	assert.False(t, ok, "excluded file must not be described")

	sub, ok := find(report, domain.TypeDirectory, filepath.Join(dir, "sub"))
	require.True(t, ok)
	assert.Equal(t, []domain.Node{filesystem.NodeForPath(filepath.Join(dir, "sub", "b.txt"))}, sub.Targets(domain.RelContains))

	entry, ok := find(report, domain.TypeEntry, "c.txt")
	require.True(t, ok)
	archives := entry.Targets(domain.RelInArchive)
	require.Len(t, archives, 1)
	assert.True(t, strings.HasSuffix(archives[0].String(), "#zip"), archives[0])
	assert.Equal(t, archives[0].String()+"/c.txt", entry.ID.String())

	_, ok = find(report, domain.TypeEntry, "d.log")
	assert.False(t, ok, "excluded entry must not be described")
}

func TestDefaults_NoExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.log"), []byte("noise"), 0o644))

	report, err := newService(t, nil).AnalyzePath(context.Background(), dir)
	require.NoError(t, err)

	_, ok := find(report, domain.TypeFile, filepath.Join(dir, "skip.log"))
	assert.True(t, ok)
}
