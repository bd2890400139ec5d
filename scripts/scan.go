//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/specvital/behave/pkg/parser"
	"github.com/specvital/behave/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := source.NewLocalSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	result, err := parser.Scan(ctx, src, parser.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"filesScanned": result.Stats.FilesScanned,
		"filesMatched": result.Stats.FilesMatched,
		"suiteCount":   result.Inventory.CountSuites(),
		"testCount":    result.Inventory.CountTests(),
		"hookCount":    countHooks(result),
		"duration":     result.Stats.Duration.String(),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countHooks(result *parser.ScanResult) int {
	count := 0
	for _, file := range result.Inventory.Files {
		count += file.CountHooks()
	}
	return count
}
