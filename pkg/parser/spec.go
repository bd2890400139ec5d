package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/behave/pkg/domain"
	"github.com/specvital/behave/pkg/parser/tspool"
)

const (
	nodeArgumentList             = "argument_list"
	nodeCallExpression           = "call_expression"
	nodeFuncLiteral              = "func_literal"
	nodeIdentifier               = "identifier"
	nodeInterpretedStringLiteral = "interpreted_string_literal"
	nodeParameterDeclaration     = "parameter_declaration"
	nodeRawStringLiteral         = "raw_string_literal"
	nodeSelectorExpression       = "selector_expression"

	callBefore   = "Before"
	callDescribe = "Describe"
	callGroup    = "Group"
	callTest     = "Test"
)

// Go import query: captures import path from both single and grouped imports.
const goImportQuery = `(import_spec path: (interpreted_string_literal) @import)`

// ParseFile extracts the Describe/Group/Test/Before declarations of a Go
// source file. It returns a nil file and no error when the source does not
// import importPath.
func ParseFile(ctx context.Context, source []byte, filename, importPath string) (*domain.TestFile, error) {
	tree, err := tspool.Parse(ctx, domain.LanguageGo, source)
	if err != nil {
		return nil, fmt.Errorf("spec parser: failed to parse %s: %w", filename, err)
	}
	defer tree.Close()
	root := tree.RootNode()

	imported, err := importsPath(root, source, importPath)
	if err != nil {
		return nil, fmt.Errorf("spec parser: imports of %s: %w", filename, err)
	}
	if !imported {
		return nil, nil
	}

	return &domain.TestFile{
		Language: domain.LanguageGo,
		Path:     filename,
		Suites:   extractSuites(root, source, filename),
	}, nil
}

func importsPath(root *sitter.Node, source []byte, importPath string) (bool, error) {
	results, err := tspool.QueryWithCache(root, source, domain.LanguageGo, goImportQuery)
	if err != nil {
		return false, err
	}

	for _, r := range results {
		node, ok := r.Captures["import"]
		if !ok {
			continue
		}
		if trimQuotes(GetNodeText(node, source)) == importPath {
			return true, nil
		}
	}
	return false, nil
}

func extractSuites(root *sitter.Node, source []byte, filename string) []domain.TestSuite {
	var suites []domain.TestSuite

	WalkTree(root, func(node *sitter.Node) bool {
		if node.Type() != nodeCallExpression {
			return true
		}
		if calleeName(node, source) != callDescribe {
			return true
		}

		suite, ok := parseBlock(node, source, filename)
		if !ok {
			return true
		}
		suites = append(suites, suite)
		return false
	})

	return suites
}

// parseBlock turns a Describe or Group call into a suite. The call must pass
// a string literal name and a builder func literal taking the context.
func parseBlock(call *sitter.Node, source []byte, filename string) (domain.TestSuite, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != nodeArgumentList {
		return domain.TestSuite{}, false
	}

	name, ok := firstStringArg(args, source)
	if !ok {
		return domain.TestSuite{}, false
	}

	builder := builderFunc(args)
	if builder == nil {
		return domain.TestSuite{}, false
	}

	suite := domain.TestSuite{
		Name:     name,
		Location: GetLocation(call, filename),
	}

	if body := builder.ChildByFieldName("body"); body != nil {
		collect(body, source, filename, &suite)
	}

	return suite, true
}

func collect(body *sitter.Node, source []byte, filename string, suite *domain.TestSuite) {
	WalkTree(body, func(node *sitter.Node) bool {
		if node.Type() != nodeCallExpression {
			return true
		}

		fn := node.ChildByFieldName("function")
		if fn == nil || fn.Type() != nodeSelectorExpression {
			return true
		}

		switch calleeName(node, source) {
		case callGroup:
			child, ok := parseBlock(node, source, filename)
			if !ok {
				return true
			}
			suite.Suites = append(suite.Suites, child)
			return false

		case callTest:
			args := node.ChildByFieldName("arguments")
			if args == nil {
				return true
			}
			name, ok := firstStringArg(args, source)
			if !ok {
				return true
			}
			suite.Tests = append(suite.Tests, domain.Test{
				Name:     name,
				Location: GetLocation(node, filename),
			})
			return false

		case callBefore:
			suite.Hooks++
			return false
		}

		return true
	})
}

// calleeName returns the called identifier, or the field of a selector call.
func calleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}

	switch fn.Type() {
	case nodeIdentifier:
		return GetNodeText(fn, source)
	case nodeSelectorExpression:
		field := fn.ChildByFieldName("field")
		if field == nil {
			return ""
		}
		return GetNodeText(field, source)
	default:
		return ""
	}
}

func firstStringArg(args *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case nodeInterpretedStringLiteral, nodeRawStringLiteral:
			return trimQuotes(GetNodeText(child, source)), true
		}
	}
	return "", false
}

// builderFunc returns the first func literal argument that declares a
// parameter. Parameterless literals belong to other DSLs (e.g. Ginkgo).
func builderFunc(args *sitter.Node) *sitter.Node {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() != nodeFuncLiteral {
			continue
		}
		params := child.ChildByFieldName("parameters")
		if params != nil && FindNamedChildByType(params, nodeParameterDeclaration) != nil {
			return child
		}
	}
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return s[1 : len(s)-1]
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return strings.Trim(s, `"`)
}
