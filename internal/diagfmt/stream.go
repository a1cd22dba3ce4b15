package diagfmt

import (
	"fmt"
	"io"
	"sync"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// Stream is a diag.Reporter that prints each finding the moment it is
// reported, one line per finding:
//
//	<path>:<line>:<column>: [<SEVERITY>] <message>
//
// line is 1-based, column is 0-based. Streaming means a crash mid-file
// still surfaces prior findings.
type Stream struct {
	mu       sync.Mutex
	w        io.Writer
	fs       *source.FileSet
	pathMode PathMode
	count    int
	max      int
}

// NewStream builds a streaming reporter. max <= 0 means unlimited.
func NewStream(w io.Writer, fs *source.FileSet, pathMode PathMode, max int) *Stream {
	return &Stream{w: w, fs: fs, pathMode: pathMode, max: max}
}

// Report implements diag.Reporter.
func (s *Stream) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevNone {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && s.count >= s.max {
		return
	}
	s.count++
	fmt.Fprintln(s.w, FormatLine(s.fs, primary, sev, msg, s.pathMode))
}

// Count returns the number of findings printed so far.
func (s *Stream) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// FormatLine renders the single-line diagnostic contract for a span.
func FormatLine(fs *source.FileSet, primary source.Span, sev diag.Severity, msg string, pathMode PathMode) string {
	file := fs.Get(primary.File)
	start, _ := fs.Resolve(primary)
	path := file.FormatPath(pathMode.format(), fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d: [%s] %s", path, start.Line, start.Col, sev, msg)
}
