package filesystem

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// NodeForPath returns the file: URI naming path. Relative paths are made
// absolute; if that fails the path is used as given.
func NodeForPath(path string) domain.Node {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return domain.Node(u.String())
}

// PathFromNode converts a file: node back to a local path.
// Other nodes and bare paths pass through unchanged.
func PathFromNode(node domain.Node) string {
	uri := string(node)
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return filepath.FromSlash(u.Path)
}
