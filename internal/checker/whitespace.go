package checker

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"cstyle/internal/diag"
)

const (
	msgKeywordSpace     = "Missing whitespace after keyword"
	msgSpaceAfterParen  = "Whitespace after opening parenthesis"
	msgSpaceBeforeParen = "Whitespace before closing parenthesis"
	msgOpSpaceBefore    = "Missing whitespace before operator"
	msgOpSpaceAfter     = "Missing whitespace after operator"
	msgCommaSpace       = "Missing whitespace after comma"
)

// Multi-character operators that must be padded on both sides. Alternation
// order matters: three-character forms have to win over their two-character
// prefixes.
var multiCharOp = regexp.MustCompile(`\|\||&&|<<=|>>=|[+\-*/%&|^<>=!]=`)

// String literals, backslash escapes included. Their bytes are blanked out
// before the comma rule so a comma in quoted text is never flagged.
var stringLit = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)

// checkSpacing applies the token-gap rules to one captured parenthesized
// region: a controlling expression of a branching keyword (keywordParen)
// or a call argument list. The keyword-gap rule only applies to the former;
// an argument list legitimately hugs its callee.
func (c *CChecker) checkSpacing(node *sitter.Node, keywordParen bool) {
	if node == nil {
		return
	}
	text := node.Content(c.src)
	if len(text) < 2 {
		return
	}

	if keywordParen {
		c.checkKeywordGap(node)
	}

	c.styleAssert(text[0] == '(' && isSpaceByte(text[1]),
		diag.StyleSpaceInsideParen, node, msgSpaceAfterParen)
	c.styleAssert(text[len(text)-1] == ')' && isSpaceByte(text[len(text)-2]),
		diag.StyleSpaceBeforeParen, node, msgSpaceBeforeParen)

	c.checkOperatorSpacing(node, text)
	c.checkCommaSpacing(node, text)
}

// checkKeywordGap requires exactly one space between a branching keyword
// and its opening parenthesis. A parenthesis on another row counts as a
// malformed gap too.
func (c *CChecker) checkKeywordGap(node *sitter.Node) {
	kw := node.PrevSibling()
	if kw == nil {
		return
	}
	if kw.EndPoint().Row != node.StartPoint().Row {
		c.styleAssert(true, diag.StyleKeywordSpace, node, msgKeywordSpace)
		return
	}
	gap := node.StartPoint().Column - kw.EndPoint().Column
	c.styleAssert(gap != 1, diag.StyleKeywordSpace, node, msgKeywordSpace)
}

// checkOperatorSpacing flags every multi-character operator occurrence that
// is not padded with a space on a given side. The two sides are independent
// violations.
func (c *CChecker) checkOperatorSpacing(node *sitter.Node, text string) {
	for _, loc := range multiCharOp.FindAllStringIndex(text, -1) {
		before := loc[0] == 0 || !isSpaceByte(text[loc[0]-1])
		after := loc[1] >= len(text) || !isSpaceByte(text[loc[1]])
		c.styleAssert(before, diag.StyleOperatorSpacing, node, msgOpSpaceBefore)
		c.styleAssert(after, diag.StyleOperatorSpacing, node, msgOpSpaceAfter)
	}
}

// checkCommaSpacing requires whitespace after every comma outside string
// literals.
func (c *CChecker) checkCommaSpacing(node *sitter.Node, text string) {
	blanked := stringLit.ReplaceAllStringFunc(text, func(m string) string {
		buf := make([]byte, len(m))
		for i := range buf {
			buf[i] = '_'
		}
		return string(buf)
	})

	for i := 0; i < len(blanked); i++ {
		if blanked[i] != ',' {
			continue
		}
		c.styleAssert(i+1 >= len(blanked) || !isSpaceByte(blanked[i+1]),
			diag.StyleCommaSpacing, node, msgCommaSpace)
	}
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
