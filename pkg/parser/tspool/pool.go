// Package tspool provides tree-sitter parsers for concurrent parsing of Go
// sources.
//
// Parsers are created fresh on every call. Reusing a parser after ParseCtx
// was cancelled leaves its internal cancel flag set and makes every later
// parse fail with "operation limit was hit".
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/specvital/behave/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	goLang   *sitter.Language
	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		goLang = golang.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given domain language.
// Go is the only grammar bundled.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	return goLang
}

// Get returns a parser for the given language.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(GetLanguage(lang))
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser := Get(lang)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
