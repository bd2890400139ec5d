// Package source abstracts where spec files are read from.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when a local source root is not a directory.
var ErrNotDirectory = errors.New("source: not a directory")

// ErrOutsideRoot is returned when a path escapes the source root.
var ErrOutsideRoot = errors.New("source: path outside root")

// Source provides read access to a tree of files.
type Source interface {
	// Root returns the absolute root path used for discovery.
	Root() string
	// Open opens a file by path relative to Root.
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Close releases resources held by the source.
	Close() error
}

// LocalSource reads files from a local directory.
type LocalSource struct {
	root string
}

// NewLocalSource returns a Source rooted at path.
func NewLocalSource(path string) (*LocalSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return &LocalSource{root: abs}, nil
}

func (s *LocalSource) Root() string {
	return s.root
}

func (s *LocalSource) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, relPath)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, relPath)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", relPath, err)
	}
	return f, nil
}

// Close is a no-op for local directories.
func (s *LocalSource) Close() error {
	return nil
}
