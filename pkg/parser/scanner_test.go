package parser_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specvital/behave/pkg/parser"
	"github.com/specvital/behave/pkg/source"
)

const stackSpec = `package stack_test

import (
	"testing"

	"github.com/specvital/behave/pkg/bdd"
)

func TestStack(t *testing.T) {
	runner := bdd.Describe("Stack", func(ctx *bdd.Context) {
		ctx.Before(func() {})
		ctx.Test("starts empty", func() error { return nil })
		ctx.Group("push", func(ctx *bdd.Context) {
			ctx.Test("grows", func() error { return nil })
		})
	})
	_ = runner.Run()
}
`

const plainGo = `package stack

func Push() {}
`

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newSource(t *testing.T, dir string) source.Source {
	t.Helper()
	src, err := source.NewLocalSource(dir)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestScan(t *testing.T) {
	t.Run("should return empty inventory for empty directory", func(t *testing.T) {
		src := newSource(t, t.TempDir())

		result, err := parser.Scan(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Inventory == nil {
			t.Fatal("inventory should not be nil")
		}
		if len(result.Inventory.Files) != 0 {
			t.Errorf("expected 0 files, got %d", len(result.Inventory.Files))
		}
	})

	t.Run("should scan spec files and skip other go files", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "stack", "stack_test.go"), stackSpec)
		writeFile(t, filepath.Join(tmpDir, "stack", "stack.go"), plainGo)
		writeFile(t, filepath.Join(tmpDir, "README.md"), "# stack")

		src := newSource(t, tmpDir)
		result, err := parser.Scan(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 2 {
			t.Errorf("expected 2 candidates, got %d", result.Stats.FilesScanned)
		}
		if result.Stats.FilesMatched != 1 {
			t.Errorf("expected 1 matched file, got %d", result.Stats.FilesMatched)
		}
		if result.Stats.FilesSkipped != 1 {
			t.Errorf("expected 1 skipped file, got %d", result.Stats.FilesSkipped)
		}
		if got := result.Inventory.CountTests(); got != 2 {
			t.Errorf("expected 2 tests, got %d", got)
		}
		if got := result.Inventory.Files[0].Path; got != "stack/stack_test.go" {
			t.Errorf("unexpected path %s", got)
		}
		if result.Inventory.RootPath != src.Root() {
			t.Errorf("expected rootPath %s, got %s", src.Root(), result.Inventory.RootPath)
		}
	})

	t.Run("should sort files by path", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, name := range []string{"c_test.go", "a_test.go", "b_test.go"} {
			writeFile(t, filepath.Join(tmpDir, name), stackSpec)
		}

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir), parser.WithWorkers(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"a_test.go", "b_test.go", "c_test.go"}
		if len(result.Inventory.Files) != len(want) {
			t.Fatalf("expected %d files, got %d", len(want), len(result.Inventory.Files))
		}
		for i, f := range result.Inventory.Files {
			if f.Path != want[i] {
				t.Errorf("file %d: expected %s, got %s", i, want[i], f.Path)
			}
		}
	})

	t.Run("should skip default directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "vendor", "x", "x_test.go"), stackSpec)
		writeFile(t, filepath.Join(tmpDir, "testdata", "x_test.go"), stackSpec)

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 0 {
			t.Errorf("expected 0 candidates, got %d", result.Stats.FilesScanned)
		}
	})

	t.Run("should respect exclude patterns", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "custom_exclude", "excluded_test.go"), stackSpec)

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir),
			parser.WithExcludePatterns([]string{"custom_exclude"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Inventory.Files) != 0 {
			t.Errorf("expected 0 files, got %d", len(result.Inventory.Files))
		}
	})

	t.Run("should filter with glob patterns", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "pkg", "deep", "a_test.go"), stackSpec)
		writeFile(t, filepath.Join(tmpDir, "cmd", "b_test.go"), stackSpec)

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir),
			parser.WithPatterns([]string{"pkg/**/*_test.go"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Inventory.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Inventory.Files))
		}
		if got := result.Inventory.Files[0].Path; got != "pkg/deep/a_test.go" {
			t.Errorf("unexpected path %s", got)
		}
	})

	t.Run("should skip files above max size", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "big_test.go"), stackSpec)

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir), parser.WithMaxFileSize(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 0 {
			t.Errorf("expected 0 candidates, got %d", result.Stats.FilesScanned)
		}
	})

	t.Run("should honor a custom import path", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "a_test.go"), stackSpec)

		result, err := parser.Scan(context.Background(), newSource(t, tmpDir),
			parser.WithImportPath("example.com/other/bdd"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesMatched != 0 {
			t.Errorf("expected 0 matched files, got %d", result.Stats.FilesMatched)
		}
	})

	t.Run("should respect timeout option", func(t *testing.T) {
		result, err := parser.Scan(context.Background(), newSource(t, t.TempDir()), parser.WithTimeout(30*time.Second))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result == nil {
			t.Fatal("result should not be nil")
		}
	})

	t.Run("should return ErrScanCancelled on context cancellation", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "a_test.go"), stackSpec)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := parser.Scan(ctx, newSource(t, tmpDir))
		if !errors.Is(err, parser.ErrScanCancelled) {
			t.Errorf("expected ErrScanCancelled, got %v", err)
		}
	})
}

func TestScanner_ScanFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a_test.go"), stackSpec)
	writeFile(t, filepath.Join(tmpDir, "b_test.go"), stackSpec)

	scanner := parser.NewScanner()

	t.Run("should scan only the given files", func(t *testing.T) {
		result, err := scanner.ScanFiles(context.Background(), newSource(t, tmpDir), []string{"b_test.go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Inventory.Files) != 1 || result.Inventory.Files[0].Path != "b_test.go" {
			t.Errorf("unexpected files: %+v", result.Inventory.Files)
		}
	})

	t.Run("should report missing files as parse errors", func(t *testing.T) {
		result, err := scanner.ScanFiles(context.Background(), newSource(t, tmpDir), []string{"missing_test.go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesFailed != 1 {
			t.Errorf("expected 1 failed file, got %d", result.Stats.FilesFailed)
		}
		if len(result.Errors) != 1 || result.Errors[0].Phase != "parsing" {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("should return empty result for no files", func(t *testing.T) {
		result, err := scanner.ScanFiles(context.Background(), newSource(t, tmpDir), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.FilesScanned != 0 {
			t.Errorf("expected 0 scanned, got %d", result.Stats.FilesScanned)
		}
	})
}

func TestScanError_Error(t *testing.T) {
	base := errors.New("boom")

	withPath := parser.ScanError{Err: base, Path: "a.go", Phase: "parsing"}
	if got := withPath.Error(); got != "[parsing] a.go: boom" {
		t.Errorf("unexpected message %q", got)
	}

	noPath := parser.ScanError{Err: base, Phase: "discovery"}
	if got := noPath.Error(); got != "[discovery] boom" {
		t.Errorf("unexpected message %q", got)
	}

	if !errors.Is(withPath, base) {
		t.Error("ScanError should unwrap to its cause")
	}
}
