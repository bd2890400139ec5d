package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/behave/pkg/domain"
	"github.com/specvital/behave/pkg/source"
)

const (
	// DefaultImportPath is the package whose importers are parsed for specs.
	DefaultImportPath = "github.com/specvital/behave/pkg/bdd"
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	".git",
	"vendor",
	"testdata",
	"node_modules",
	".cache",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner discovers Go files that declare behave specs and extracts their
// declaration trees.
type Scanner struct {
	logger  *slog.Logger
	options *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Inventory contains all parsed spec files.
	Inventory *domain.Inventory

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "parsing"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of .go candidates discovered.
	FilesScanned int

	// FilesMatched is the number of files that import the bdd package.
	FilesMatched int

	// FilesFailed is the number of files that failed to read or parse.
	FilesFailed int

	// FilesSkipped is the number of candidates that do not declare specs.
	FilesSkipped int

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{
		logger:  options.Logger.With(slog.String("component", "scanner")),
		options: options,
	}
}

// Scan discovers candidate files under the source root and parses them in
// parallel.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	files, errs := s.discoverSpecFiles(ctx, src)
	scanErrs := make([]ScanError, 0, len(errs))
	for _, err := range errs {
		scanErrs = append(scanErrs, ScanError{Err: err, Phase: "discovery"})
	}

	s.logger.Debug("discovery finished",
		slog.String("root", src.Root()),
		slog.Int("candidates", len(files)),
		slog.Int("errors", len(errs)),
	)

	return s.scan(ctx, src, files, scanErrs)
}

// ScanFiles scans specific files (for incremental/watch mode).
// This bypasses file discovery and directly scans the provided file paths.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) ScanFiles(ctx context.Context, src source.Source, files []string) (*ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	return s.scan(ctx, src, files, nil)
}

func (s *Scanner) scan(ctx context.Context, src source.Source, files []string, discoveryErrs []ScanError) (*ScanResult, error) {
	startTime := time.Now()

	result := &ScanResult{
		Inventory: &domain.Inventory{
			RootPath: src.Root(),
			Files:    []domain.TestFile{},
		},
		Errors: append([]ScanError{}, discoveryErrs...),
		Stats: ScanStats{
			FilesScanned: len(files),
		},
	}

	if len(files) > 0 {
		parsed, scanErrors := s.parseFilesParallel(ctx, src, files)
		result.Inventory.Files = parsed
		result.Errors = append(result.Errors, scanErrors...)

		result.Stats.FilesMatched = len(parsed)
		result.Stats.FilesFailed = len(scanErrors)
		result.Stats.FilesSkipped = result.Stats.FilesScanned - result.Stats.FilesMatched - result.Stats.FilesFailed
	}
	result.Stats.Duration = time.Since(startTime)

	s.logger.Info("scan finished",
		slog.Int("scanned", result.Stats.FilesScanned),
		slog.Int("matched", result.Stats.FilesMatched),
		slog.Int("failed", result.Stats.FilesFailed),
		slog.Int("tests", result.Inventory.CountTests()),
		slog.Duration("duration", result.Stats.Duration),
	)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverSpecFiles walks the source root to find .go candidates.
// Returns relative paths from the source root for consistent Source.Open() usage.
func (s *Scanner) discoverSpecFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet := buildSkipSet(slices.Concat(DefaultSkipPatterns, s.options.ExcludePatterns))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, rootPath, skipSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isSpecFileCandidate(path) {
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(path, rootPath, s.options.Patterns) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", path, err))
			return nil
		}
		if info.Size() > s.options.MaxFileSize {
			s.logger.Debug("skipping large file", slog.String("path", path), slog.Int64("size", info.Size()))
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

func (s *Scanner) parseFilesParallel(ctx context.Context, src source.Source, files []string) ([]domain.TestFile, []ScanError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		specFiles  = make([]domain.TestFile, 0, len(files))
		scanErrors = make([]ScanError, 0)
	)

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				mu.Lock()
				scanErrors = append(scanErrors, ScanError{Err: err, Path: file, Phase: "parsing"})
				mu.Unlock()
				return nil
			}
			defer sem.Release(1)

			specFile, scanErr := s.parseFile(gCtx, src, file)

			mu.Lock()
			defer mu.Unlock()

			if scanErr != nil {
				scanErrors = append(scanErrors, *scanErr)
				return nil
			}
			if specFile != nil {
				specFiles = append(specFiles, *specFile)
			}
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order.
	sort.Slice(specFiles, func(i, j int) bool {
		return specFiles[i].Path < specFiles[j].Path
	})

	return specFiles, scanErrors
}

func (s *Scanner) parseFile(ctx context.Context, src source.Source, path string) (*domain.TestFile, *ScanError) {
	content, err := readFileFromSource(ctx, src, path)
	if err != nil {
		return nil, &ScanError{Err: err, Path: path, Phase: "parsing"}
	}

	specFile, err := ParseFile(ctx, content, filepath.ToSlash(path), s.options.ImportPath)
	if err != nil {
		s.logger.Warn("parse failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, &ScanError{Err: fmt.Errorf("parse: %w", err), Path: path, Phase: "parsing"}
	}

	return specFile, nil
}

// readFileFromSource reads a file from source using relative path.
// The relPath must be relative to src.Root().
func readFileFromSource(ctx context.Context, src source.Source, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}

	return content, nil
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func shouldSkipDir(path, rootPath string, skipSet map[string]bool) bool {
	if path == rootPath {
		return false
	}
	return skipSet[filepath.Base(path)]
}

func isSpecFileCandidate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

func matchesAnyPattern(path, rootPath string, patterns []string) bool {
	relPath, err := filepath.Rel(rootPath, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan is a convenience wrapper around NewScanner(opts...).Scan.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	return NewScanner(opts...).Scan(ctx, src)
}
