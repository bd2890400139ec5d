package parser_test

import (
	"context"
	"fmt"
	"time"

	"github.com/specvital/behave/pkg/parser"
	"github.com/specvital/behave/pkg/source"
)

func Example() {
	ctx := context.Background()

	src, err := source.NewLocalSource("/path/to/project")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer src.Close()

	result, err := parser.Scan(ctx, src)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, file := range result.Inventory.Files {
		fmt.Printf("File: %s\n", file.Path)
		fmt.Printf("  Tests: %d, hooks: %d\n", file.CountTests(), file.CountHooks())
	}

	for _, scanErr := range result.Errors {
		fmt.Printf("Warning: %v\n", scanErr)
	}
}

func Example_withOptions() {
	ctx := context.Background()

	src, err := source.NewLocalSource("/path/to/project")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer src.Close()

	result, err := parser.Scan(ctx, src,
		parser.WithWorkers(4),
		parser.WithTimeout(time.Minute),
		parser.WithExcludePatterns([]string{"fixtures"}),
		parser.WithPatterns([]string{"pkg/**/*_test.go"}),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Suites: %d, tests: %d\n", result.Inventory.CountSuites(), result.Inventory.CountTests())
}
