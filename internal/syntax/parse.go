// Package syntax wraps the tree-sitter parser behind the small surface the
// checker needs: parse bytes into an immutable concrete syntax tree and
// navigate its nodes.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// Tree holds a parsed syntax tree together with the source it was built
// from. The tree is immutable for the duration of one check run.
type Tree struct {
	raw *sitter.Tree
	src []byte
}

// CLanguage returns the tree-sitter grammar for C.
func CLanguage() *sitter.Language {
	return c.GetLanguage()
}

// ParseC parses C source bytes into a syntax tree.
func ParseC(ctx context.Context, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	raw, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return &Tree{raw: raw, src: src}, nil
}

// RootNode returns the root of the parse tree.
func (t *Tree) RootNode() *sitter.Node {
	if t == nil || t.raw == nil {
		return nil
	}
	return t.raw.RootNode()
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// Close releases the tree-sitter resources.
func (t *Tree) Close() {
	if t != nil && t.raw != nil {
		t.raw.Close()
	}
}
