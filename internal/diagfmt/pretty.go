package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	noteColor = color.New(color.FgBlue)
)

// Pretty formats diagnostics into a human-readable report. It walks
// bag.Items() (call bag.Sort() beforehand for stable output). Each
// diagnostic prints the contract line, then the offending source line with
// a caret underline covering the span, then notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printOne(w, d, fs, opts)
	}
}

func printOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := file.FormatPath(opts.PathMode.format(), fs.BaseDir())

	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: [%s] %s\n", path, start.Line, start.Col, sev, d.Message)

	line := file.GetLine(start.Line)
	if line != "" {
		fmt.Fprintf(w, "  %s\n", line)
		fmt.Fprintf(w, "  %s\n", underline(line, start, end))
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nstart, _ := fs.Resolve(n.Span)
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			fmt.Fprintf(w, "  %s: %d:%d: %s\n", label, nstart.Line, nstart.Col, n.Msg)
		}
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// underline builds a ^~~~ marker aligned under the span, accounting for
// tabs and wide runes in the prefix.
func underline(line string, start, end source.LineCol) string {
	prefix := sliceCols(line, 0, start.Col)
	span := uint32(1)
	if end.Line == start.Line && end.Col > start.Col {
		span = end.Col - start.Col
	}

	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	b.WriteByte('^')
	for i := uint32(1); i < span; i++ {
		b.WriteByte('~')
	}
	return b.String()
}

// sliceCols returns the bytes of line between two byte columns, clamped.
func sliceCols(line string, from, to uint32) string {
	if from > uint32(len(line)) {
		from = uint32(len(line))
	}
	if to > uint32(len(line)) {
		to = uint32(len(line))
	}
	if from > to {
		from = to
	}
	return line[from:to]
}
