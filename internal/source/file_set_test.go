package source

import (
	"testing"
)

func TestFileSet_AddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	content := []byte("while (1)\n{\n  break;\n}\n")
	id := fs.AddVirtual("test.c", content)

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Errorf("expected FileVirtual flag, got %v", f.Flags)
	}
	if f.Path != "test.c" {
		t.Errorf("Path = %q, want %q", f.Path, "test.c")
	}

	// Span over "break;" on line 3, columns 2..8.
	start, end := fs.Resolve(Span{File: id, Start: 14, End: 20})
	if start != (LineCol{Line: 3, Col: 2}) {
		t.Errorf("start = %+v, want line 3 col 2", start)
	}
	if end != (LineCol{Line: 3, Col: 8}) {
		t.Errorf("end = %+v, want line 3 col 8", end)
	}
}

func TestFileSet_GetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("dir/a.c", []byte("x"))

	if _, ok := fs.GetByPath("dir/a.c"); !ok {
		t.Fatal("expected to find dir/a.c")
	}
	if _, ok := fs.GetByPath("dir/b.c"); ok {
		t.Fatal("did not expect to find dir/b.c")
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.c", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		name     string
		line     uint32
		expected string
	}{
		{name: "first line", line: 1, expected: "first"},
		{name: "middle line", line: 2, expected: "second"},
		{name: "last line without newline", line: 3, expected: "third"},
		{name: "line zero", line: 0, expected: ""},
		{name: "out of range", line: 4, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.GetLine(tt.line); got != tt.expected {
				t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}
