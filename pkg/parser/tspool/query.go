package tspool

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/behave/pkg/domain"
)

// QueryResult contains the result of a tree-sitter query match.
type QueryResult struct {
	// Node is the first captured node in this match.
	Node *sitter.Node
	// Captures maps capture names to their corresponding nodes.
	Captures map[string]*sitter.Node
}

type queryCacheKey struct {
	lang     domain.Language
	queryStr string
}

type cachedQuery struct {
	once  sync.Once
	query *sitter.Query
	err   error
}

var queryCache sync.Map

// getCachedQuery returns a compiled query. The returned query must NOT be closed.
func getCachedQuery(lang domain.Language, queryStr string) (*sitter.Query, error) {
	key := queryCacheKey{lang: lang, queryStr: queryStr}

	val, _ := queryCache.LoadOrStore(key, &cachedQuery{})
	cached, ok := val.(*cachedQuery)
	if !ok {
		return nil, fmt.Errorf("invalid cache entry type")
	}

	cached.once.Do(func() {
		cached.query, cached.err = sitter.NewQuery([]byte(queryStr), GetLanguage(lang))
	})

	return cached.query, cached.err
}

// QueryWithCache executes a tree-sitter query with cached compilation.
func QueryWithCache(root *sitter.Node, source []byte, lang domain.Language, queryStr string) ([]QueryResult, error) {
	query, err := getCachedQuery(lang, queryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, root)

	var results []QueryResult
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		result := QueryResult{
			Captures: make(map[string]*sitter.Node, len(match.Captures)),
		}
		for _, capture := range match.Captures {
			name := query.CaptureNameForId(capture.Index)
			result.Captures[name] = capture.Node
			if result.Node == nil {
				result.Node = capture.Node
			}
		}

		results = append(results, result)
	}

	return results, nil
}
