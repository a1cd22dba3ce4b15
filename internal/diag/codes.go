package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// I/O and setup (1000-1999)
	IOLoadFileError Code = 1000

	// Layout: indentation recursion findings (2000-2999)
	StyleWrongIndent      Code = 2000
	StyleBracketPlacement Code = 2001
	StyleEmptyBody        Code = 2002

	// Spacing: whitespace and operator findings (3000-3999)
	StyleKeywordSpace      Code = 3000
	StyleSpaceInsideParen  Code = 3001
	StyleSpaceBeforeParen  Code = 3002
	StyleOperatorSpacing   Code = 3003
	StyleCommaSpacing      Code = 3004
)

var codeDescription = map[Code]string{
	UnknownCode:           "unknown diagnostic",
	IOLoadFileError:       "file could not be read",
	StyleWrongIndent:      "statement starts at an unexpected column",
	StyleBracketPlacement: "brace placement violates the block layout",
	StyleEmptyBody:        "empty loop body placed on its own line",
	StyleKeywordSpace:     "keyword must be separated from its expression by one space",
	StyleSpaceInsideParen: "no whitespace allowed just inside parentheses",
	StyleSpaceBeforeParen: "no whitespace allowed before a closing parenthesis",
	StyleOperatorSpacing:  "operators must be surrounded by spaces",
	StyleCommaSpacing:     "comma must be followed by whitespace",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SPC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
