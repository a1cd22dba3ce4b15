package checker

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"cstyle/internal/diag"
	"cstyle/internal/queries"
	"cstyle/internal/source"
	"cstyle/internal/syntax"
)

// Layout constants of the enforced style. Statement bodies indent four
// columns past their statement; braces sit two columns past it.
const (
	baseIndent  = 2
	braceIndent = 2
	bodyIndent  = 4
	exprIndent  = 2
)

// Diagnostic messages. These are part of the output contract and must not
// be reworded without a schema bump in the result cache.
const (
	msgWrongIndent  = "Wrong indentation"
	msgLeftBracket  = "Left bracket not on separate line"
	msgRightBracket = "Right bracket not on separate line"
	msgEmptyBody    = "Empty body should be inline with last node"
)

// CChecker enforces the C layout and spacing rules over one parsed file.
type CChecker struct {
	file     *source.File
	tree     *syntax.Tree
	src      []byte
	captures queries.CaptureSet
	rep      diag.Reporter
}

// NewCChecker parses the file and materializes the capture groups of the
// named pattern set. Parse and pattern failures are setup errors; style
// findings never surface here.
func NewCChecker(ctx context.Context, file *source.File, patternSet string, rep diag.Reporter) (*CChecker, error) {
	tree, err := syntax.ParseC(ctx, file.Content)
	if err != nil {
		return nil, err
	}

	q, err := queries.Compile(patternSet, syntax.CLanguage())
	if err != nil {
		tree.Close()
		return nil, err
	}
	defer q.Close()

	return &CChecker{
		file:     file,
		tree:     tree,
		src:      file.Content,
		captures: queries.Match(q, tree.RootNode()),
		rep:      rep,
	}, nil
}

// Check runs every rule group: the indentation recursion from each function
// body, spacing rules on each captured controlling expression, and spacing
// rules on each call argument list.
func (c *CChecker) Check() {
	for _, body := range c.captures.Get(queries.CaptureFunctionBody) {
		for _, stmt := range syntax.NamedChildren(body) {
			c.checkIndents(baseIndent, stmt)
		}
	}
	for _, parens := range c.captures.Get(queries.CaptureKeywordParens) {
		c.checkSpacing(parens, true)
	}
	for _, args := range c.captures.Get(queries.CaptureCallArgs) {
		c.checkSpacing(args, false)
	}
}

// Close releases the parse tree.
func (c *CChecker) Close() {
	c.tree.Close()
}

// styleAssert reports one diagnostic at node when the violation condition
// holds. Every rule in this file funnels through here.
func (c *CChecker) styleAssert(violated bool, code diag.Code, node *sitter.Node, msg string) {
	if !violated || node == nil {
		return
	}
	span := source.Span{
		File:  c.file.ID,
		Start: node.StartByte(),
		End:   node.EndByte(),
	}
	c.rep.Report(code, diag.SevError, span, msg, nil)
}

// checkIndents dispatches one statement node at its expected indentation
// column. Compound statements get their dedicated handler plus the column
// assertion; simple statements assert their column and recurse into their
// named children two columns deeper. Unlisted node kinds pass untouched.
func (c *CChecker) checkIndents(indent uint32, node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "if_statement":
		c.checkIfStatement(indent, node)
	case "for_statement":
		c.checkForStatement(indent, node)
	case "while_statement", "do_statement":
		c.checkWhileStatement(indent, node)
	case "switch_statement":
		c.checkSwitchStatement(indent, node)
	case "return_statement", "expression_statement", "declaration", "break_statement":
		for _, child := range syntax.NamedChildren(node) {
			c.checkIndents(indent+exprIndent, child)
		}
	default:
		return
	}

	c.styleAssert(node.StartPoint().Column != indent, diag.StyleWrongIndent, node, msgWrongIndent)
}

// checkBlock enforces the shared block contract: the opening brace ends the
// header row, the closing brace sits alone on its own row at indent+2, and
// every named child is dispatched through visit.
func (c *CChecker) checkBlock(indent, headerRow uint32, block *sitter.Node, visit func(*sitter.Node)) {
	if block == nil || block.ChildCount() == 0 {
		return
	}
	open := block.Child(0)
	closing := block.Child(int(block.ChildCount()) - 1)

	c.styleAssert(open.StartPoint().Row != headerRow, diag.StyleBracketPlacement, open, msgLeftBracket)

	for _, child := range syntax.NamedChildren(block) {
		visit(child)
	}

	// An empty block keeps both braces on one row; only a block with
	// statements pins the closing brace to its own row.
	if block.ChildCount() > 2 {
		if prev := closing.PrevSibling(); prev != nil {
			c.styleAssert(closing.StartPoint().Row == prev.EndPoint().Row, diag.StyleBracketPlacement, closing, msgRightBracket)
		}
		c.styleAssert(closing.StartPoint().Column != indent+braceIndent, diag.StyleWrongIndent, closing, msgWrongIndent)
	}
}

// checkBody applies the block contract to a statement body when it is a
// compound statement, and handles the bare-body forms of loops otherwise:
// an empty body (lone semicolon) must stay on the header row, a single
// unbraced statement indents four columns deeper.
func (c *CChecker) checkBody(indent, headerRow uint32, body *sitter.Node) {
	if body == nil {
		return
	}

	switch body.Type() {
	case "compound_statement":
		c.checkBlock(indent, headerRow, body, func(n *sitter.Node) {
			c.checkIndents(indent+bodyIndent, n)
		})
	case "expression_statement":
		if body.NamedChildCount() == 0 {
			if prev := body.PrevSibling(); prev != nil {
				c.styleAssert(body.StartPoint().Row != prev.EndPoint().Row, diag.StyleEmptyBody, body, msgEmptyBody)
			}
			return
		}
		c.checkIndents(indent+bodyIndent, body)
	default:
		c.checkIndents(indent+bodyIndent, body)
	}
}

// checkIfStatement verifies the consequence block and walks the else chain.
// The alternative of an else-if re-enters this handler at the same column
// so chained branches do not accumulate indentation.
func (c *CChecker) checkIfStatement(indent uint32, node *sitter.Node) {
	consequence := node.ChildByFieldName("consequence")
	if consequence == nil {
		return
	}
	c.checkBody(indent, node.StartPoint().Row, consequence)

	alternative := node.ChildByFieldName("alternative")
	if alternative == nil {
		return
	}

	// The else clause starts with the keyword token; the branch body is
	// its second child.
	elseTok := alternative.Child(0)
	c.styleAssert(elseTok != nil && elseTok.StartPoint().Column != indent,
		diag.StyleWrongIndent, alternative, msgWrongIndent)

	body := alternative.Child(1)
	if body == nil {
		return
	}
	if body.Type() == "if_statement" {
		c.checkIfStatement(indent, body)
		return
	}
	c.checkBody(indent, alternative.StartPoint().Row, body)
}

func (c *CChecker) checkForStatement(indent uint32, node *sitter.Node) {
	c.checkBody(indent, node.StartPoint().Row, node.ChildByFieldName("body"))
}

// checkWhileStatement covers both while and do statements: in either form
// the body hangs off the keyword that opens the statement.
func (c *CChecker) checkWhileStatement(indent uint32, node *sitter.Node) {
	c.checkBody(indent, node.StartPoint().Row, node.ChildByFieldName("body"))
}

// checkSwitchStatement applies the block contract to the switch body and
// dispatches each case label four columns deeper. Non-case children inside
// a switch body are left to the grammar.
func (c *CChecker) checkSwitchStatement(indent uint32, node *sitter.Node) {
	body := node.ChildByFieldName("body")
	c.checkBlock(indent, node.StartPoint().Row, body, func(n *sitter.Node) {
		if n.Type() == "case_statement" {
			c.checkCaseStatement(indent+bodyIndent, n)
		}
	})
}

// checkCaseStatement asserts the label column, then checks the statements
// after the label. "case VALUE:" occupies three tokens, "default:" two;
// everything past the colon is the body. A body that is one compound block
// follows the block contract, otherwise each statement indents two columns
// past the label.
func (c *CChecker) checkCaseStatement(indent uint32, node *sitter.Node) {
	c.styleAssert(node.StartPoint().Column != indent, diag.StyleWrongIndent, node, msgWrongIndent)

	label := node.Child(0)
	if label == nil {
		return
	}
	offset := 2
	if label.Type() == "case" {
		offset = 3
	}

	children := syntax.Children(node)
	if len(children) <= offset {
		return
	}
	rest := children[offset:]

	if len(rest) == 1 && rest[0].Type() == "compound_statement" {
		c.checkBlock(indent, node.StartPoint().Row, rest[0], func(n *sitter.Node) {
			c.checkIndents(indent+bodyIndent, n)
		})
		return
	}
	for _, stmt := range rest {
		c.checkIndents(indent+exprIndent, stmt)
	}
}
