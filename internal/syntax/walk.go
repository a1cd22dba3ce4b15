package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Walk visits every node under root depth-first in pre-order, including
// anonymous keyword and punctuation tokens. The visit callback returns
// false to stop the walk early.
//
// Statement handlers navigate by field and sibling directly; this cursor
// walk exists for the generic helpers that need to see the whole subtree.
func Walk(root *sitter.Node, visit func(*sitter.Node) bool) {
	if root == nil {
		return
	}

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	visitedChildren := false
	for {
		if !visitedChildren {
			if !visit(cursor.CurrentNode()) {
				return
			}
			if !cursor.GoToFirstChild() {
				visitedChildren = true
			}
		} else if cursor.GoToNextSibling() {
			visitedChildren = false
		} else if !cursor.GoToParent() {
			return
		}
	}
}

// NamedChildren collects the named children of a node. Named children are
// statements and expressions; raw keyword and punctuation tokens are not
// included.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	count := int(node.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, node.NamedChild(i))
	}
	return out
}

// Children collects every child of a node, tokens included.
func Children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	count := int(node.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, node.Child(i))
	}
	return out
}
