package queries

import (
	"context"
	"testing"

	"cstyle/internal/syntax"
)

func TestSource_MissingSetIsError(t *testing.T) {
	if _, err := Source("fortran"); err == nil {
		t.Fatal("expected an error for an unknown pattern set")
	}
}

func TestCompileAndMatch_C(t *testing.T) {
	src := []byte("int main(void) {\n  if (x) {\n    foo(1, 2);\n  }\n  return 0;\n}\n")

	tree, err := syntax.ParseC(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseC: %v", err)
	}
	defer tree.Close()

	q, err := Compile("c", syntax.CLanguage())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	captures := Match(q, tree.RootNode())

	if got := len(captures.Get(CaptureFunctionBody)); got != 1 {
		t.Errorf("function.body captures = %d, want 1", got)
	}
	if got := len(captures.Get(CaptureKeywordParens)); got != 1 {
		t.Errorf("keyword.parens captures = %d, want 1", got)
	}
	if got := len(captures.Get(CaptureCallArgs)); got != 1 {
		t.Errorf("call.args captures = %d, want 1", got)
	}
}

func TestCaptureSet_AbsentKeyYieldsNil(t *testing.T) {
	cs := CaptureSet{}
	if nodes := cs.Get(CaptureCallArgs); nodes != nil {
		t.Errorf("expected nil for absent capture, got %v", nodes)
	}
	// Iterating a nil capture group must be a harmless no-op.
	for range cs.Get(CaptureFunctionBody) {
		t.Fatal("unreachable")
	}
}
