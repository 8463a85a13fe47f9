// Package discovery locates CI configuration files under a root directory
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches .yml and .yaml files at any depth
const DefaultPattern = "**/*.y*ml"

// Finder returns the candidate files under root
type Finder interface {
	Find(ctx context.Context, root string) ([]string, error)
}

// GlobFinder implements Finder with a doublestar glob pattern
type GlobFinder struct {
	pattern string
}

// NewGlobFinder creates a GlobFinder, using DefaultPattern when pattern is empty
func NewGlobFinder(pattern string) (*GlobFinder, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %s", pattern)
	}
	return &GlobFinder{pattern: pattern}, nil
}

// Find returns the absolute paths of all regular files under root matching the
// pattern, in lexical walk order
func (f *GlobFinder) Find(ctx context.Context, root string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	matches, err := doublestar.Glob(os.DirFS(abs), f.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(abs, filepath.FromSlash(m)))
	}
	return paths, nil
}
