// Package queries loads the structural pattern sets shipped with the tool
// and materializes their capture groups against a parsed tree.
package queries

import (
	"embed"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed *.scm
var patternFS embed.FS

// Capture group names produced by the shipped pattern sets.
const (
	CaptureFunctionBody  = "function.body"
	CaptureKeywordParens = "keyword.parens"
	CaptureCallArgs      = "call.args"
)

// CaptureSet maps a capture name to the ordered nodes it matched.
// A missing key means zero matches for that pattern and must be tolerated
// by every consumer.
type CaptureSet map[string][]*sitter.Node

// Get returns the nodes for a capture name, nil when the pattern matched
// nothing.
func (cs CaptureSet) Get(name string) []*sitter.Node {
	return cs[name]
}

// Source returns the raw pattern text for a set name ("c" -> c.scm).
// A missing pattern set is a setup error and fatal for the run.
func Source(set string) ([]byte, error) {
	data, err := patternFS.ReadFile(set + ".scm")
	if err != nil {
		return nil, fmt.Errorf("pattern set %q not found: %w", set, err)
	}
	return data, nil
}

// Compile loads and compiles a pattern set against a language.
func Compile(set string, lang *sitter.Language) (*sitter.Query, error) {
	src, err := Source(set)
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery(src, lang)
	if err != nil {
		return nil, fmt.Errorf("pattern set %q failed to compile: %w", set, err)
	}
	return q, nil
}

// Match runs a compiled query over the tree rooted at root and groups the
// captured nodes by capture name, preserving match order.
func Match(q *sitter.Query, root *sitter.Node) CaptureSet {
	out := make(CaptureSet)

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			name := q.CaptureNameForId(c.Index)
			out[name] = append(out[name], c.Node)
		}
	}
	return out
}
