package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// EntityFor stats path and returns the matching entity: a DirectoryEntity
// for directories and a FileEntity for everything else.
func EntityFor(path string) (domain.Entity, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: path does not exist: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.DirectoryEntity{Path: path, Info: info}, nil
	}
	return domain.FileEntity{Path: path, Info: info}, nil
}

// Walk calls fn for each immediate child of dir in lexical order.
// Symlinks and special files are skipped.
func Walk(ctx context.Context, dir string, fn func(domain.Entity) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}

		path := filepath.Join(dir, entry.Name())
		var child domain.Entity
		switch {
		case info.IsDir():
			child = domain.DirectoryEntity{Path: path, Info: info}
		case info.Mode().IsRegular():
			child = domain.FileEntity{Path: path, Info: info}
		default:
			continue
		}

		if err := fn(child); err != nil {
			return err
		}
	}
	return nil
}

// isHidden checks if any component of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == filepath.Separator }) {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
