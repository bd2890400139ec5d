package parser

import (
	"log/slog"
	"time"
)

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// ExcludePatterns specifies directory names to skip during file discovery.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// ImportPath is the package a file must import to be parsed.
	// Empty means DefaultImportPath.
	ImportPath string

	// Logger receives discovery and parse diagnostics.
	// If nil, records are discarded.
	Logger *slog.Logger

	// MaxFileSize is the maximum file size in bytes to process.
	// Files larger than this are skipped.
	MaxFileSize int64

	// Patterns specifies doublestar glob patterns, relative to the source
	// root, to filter candidate files. Empty means all .go files.
	Patterns []string

	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// ScanOption is a functional option for configuring Scanner.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
// Negative values are ignored.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithPatterns sets glob patterns to filter candidate files.
func WithPatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithImportPath sets the import path that marks a file as a spec file.
func WithImportPath(path string) ScanOption {
	return func(o *ScanOptions) {
		o.ImportPath = path
	}
}

// WithLogger sets the logger used by the scanner.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.ImportPath == "" {
		opts.ImportPath = DefaultImportPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}
