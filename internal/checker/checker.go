// Package checker implements the structural style analysis: it walks a
// concrete syntax tree and verifies the layout contract of every statement
// form, reporting deviations as diagnostics.
package checker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// Checker analyzes one file and streams findings through its reporter.
// A checker's lifetime is exactly one file-check invocation; no state
// survives across files or runs.
type Checker interface {
	// Check runs the full analysis. Style findings are reported, never
	// returned: traversal is total over the grammar and does not fail.
	Check()
	// Close releases parser resources.
	Close()
}

// ErrUnsupportedFile marks a file suffix no checker exists for.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ForFile selects the checker implementation for a loaded file based on
// its suffix. Header files are recognized by the dispatcher but carry no
// statement-level rules, so they check clean.
func ForFile(ctx context.Context, file *source.File, rep diag.Reporter) (Checker, error) {
	switch filepath.Ext(file.Path) {
	case ".c":
		return NewCChecker(ctx, file, "c", rep)
	case ".h":
		return nopChecker{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, file.Path)
	}
}

// Supported reports whether a path would dispatch to some checker.
func Supported(path string) bool {
	switch filepath.Ext(path) {
	case ".c", ".h":
		return true
	}
	return false
}

type nopChecker struct{}

func (nopChecker) Check() {}
func (nopChecker) Close() {}
