package diagfmt

import (
	"encoding/json"
	"io"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// DiagnosticJSON is the wire form of a single finding.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Path     string     `json:"path"`
	Line     uint32     `json:"line"`
	Column   uint32     `json:"column"`
	Message  string     `json:"message"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// NoteJSON is the wire form of a diagnostic note.
type NoteJSON struct {
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
	Message string `json:"message"`
}

// DiagnosticsOutput is the top-level JSON document.
type DiagnosticsOutput struct {
	Count       int              `json:"count"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// BuildDiagnosticsOutput converts a Bag into the JSON document form.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}

	out := DiagnosticsOutput{
		Count:       len(items),
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
	}
	for _, d := range items {
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Path:     file.FormatPath(opts.PathMode.format(), fs.BaseDir()),
			Line:     start.Line,
			Column:   start.Col,
			Message:  d.Message,
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				nstart, _ := fs.Resolve(n.Span)
				dj.Notes = append(dj.Notes, NoteJSON{
					Line:    nstart.Line,
					Column:  nstart.Col,
					Message: n.Msg,
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes the Bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
