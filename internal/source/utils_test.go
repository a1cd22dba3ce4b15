package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		expected    []byte
		wantChanged bool
	}{
		{
			name:        "no carriage returns",
			input:       []byte("int main(void)\n{\n}\n"),
			expected:    []byte("int main(void)\n{\n}\n"),
			wantChanged: false,
		},
		{
			name:        "windows line endings",
			input:       []byte("a\r\nb\r\n"),
			expected:    []byte("a\nb\n"),
			wantChanged: true,
		},
		{
			name:        "lone carriage return preserved",
			input:       []byte("a\rb"),
			expected:    []byte("a\rb"),
			wantChanged: false,
		},
		{
			name:        "mixed endings",
			input:       []byte("a\r\nb\nc\r\n"),
			expected:    []byte("a\nb\nc\n"),
			wantChanged: true,
		},
		{
			name:        "empty input",
			input:       []byte{},
			expected:    []byte{},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := normalizeCRLF(tt.input)
			if !bytes.Equal(out, tt.expected) {
				t.Errorf("normalizeCRLF() = %q, want %q", out, tt.expected)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := []byte{0xEF, 0xBB, 0xBF, 'x'}
	out, had := removeBOM(withBOM)
	if !had || !bytes.Equal(out, []byte{'x'}) {
		t.Errorf("removeBOM(withBOM) = %q, %v", out, had)
	}

	plain := []byte("xyz")
	out, had = removeBOM(plain)
	if had || !bytes.Equal(out, plain) {
		t.Errorf("removeBOM(plain) = %q, %v", out, had)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("if (x)\n{\n  foo();\n}\n")
	lineIdx := buildLineIndex(content)

	tests := []struct {
		name     string
		off      uint32
		expected LineCol
	}{
		{name: "start of file", off: 0, expected: LineCol{Line: 1, Col: 0}},
		{name: "inside first line", off: 4, expected: LineCol{Line: 1, Col: 4}},
		{name: "start of second line", off: 7, expected: LineCol{Line: 2, Col: 0}},
		{name: "statement on third line", off: 11, expected: LineCol{Line: 3, Col: 2}},
		{name: "closing brace", off: 18, expected: LineCol{Line: 4, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toLineCol(lineIdx, tt.off)
			if got != tt.expected {
				t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.expected)
			}
		})
	}
}

func TestToLineCol_NoNewlines(t *testing.T) {
	got := toLineCol(nil, 5)
	if got != (LineCol{Line: 1, Col: 5}) {
		t.Errorf("toLineCol(nil, 5) = %+v", got)
	}
}
