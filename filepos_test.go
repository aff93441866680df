// filepos_test.go
package jingo

import "testing"

func Test_Locate(t *testing.T) {
	src := "let x = 5\nlet y = 10\n"
	cases := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{9, 1, 10}, // the newline itself
		{10, 2, 1}, // first byte of line two
		{14, 2, 5},
		{21, 3, 1}, // one past the trailing newline
	}
	for _, c := range cases {
		got := Locate(src, c.offset)
		if got.Line != c.line || got.Col != c.col {
			t.Fatalf("offset %d: want %d:%d, got %d:%d", c.offset, c.line, c.col, got.Line, got.Col)
		}
	}
}

func Test_Locate_Counts_Runes(t *testing.T) {
	// the pi sign is two bytes; the column must not drift past it
	src := "let π = 1\nlet σ = 2"
	if got := Locate(src, 7); got != (Position{Line: 1, Col: 7}) {
		t.Fatalf("line one `=`: %+v", got)
	}
	if got := Locate(src, 18); got != (Position{Line: 2, Col: 7}) {
		t.Fatalf("line two `=`: %+v", got)
	}
}

func Test_Locate_Clamps(t *testing.T) {
	if got := Locate("ab", -5); got != (Position{Line: 1, Col: 1}) {
		t.Fatalf("negative offset: %+v", got)
	}
	if got := Locate("ab", 99); got != (Position{Line: 1, Col: 3}) {
		t.Fatalf("oversized offset: %+v", got)
	}
}

func Test_FilePos_String(t *testing.T) {
	src := "let x = §"
	fp := NewFilePos("scripts/main.jno", src, 8)
	if fp.String() != "scripts/main.jno:1:9" {
		t.Fatalf("with path: %q", fp)
	}
	fp = NewFilePos("", src, 8)
	if fp.String() != "unknown file 1:9" {
		t.Fatalf("without path: %q", fp)
	}
}
