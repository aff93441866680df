// filepos.go: byte offset to line/column translation.
//
// The parser reports positions as byte offsets; nothing here runs unless a
// diagnostic is actually rendered.
package jingo

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line/column pair in the source.
type Position struct {
	Line int
	Col  int
}

// Locate maps a byte offset into the source to its line and column. The
// column counts runes, not bytes, so the caret lands right even after
// multibyte source earlier on the line. The offset is clamped to the
// source bounds, so a position can always be rendered.
func Locate(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := 1 + strings.Count(before, "\n")
	lastNL := strings.LastIndex(before, "\n")
	return Position{Line: line, Col: utf8.RuneCountInString(before[lastNL+1:]) + 1}
}

// FilePos is a Position tied to an optional file path for display.
type FilePos struct {
	Path string
	Position
}

// NewFilePos locates offset within src and attaches the given path.
func NewFilePos(path, src string, offset int) FilePos {
	return FilePos{Path: path, Position: Locate(src, offset)}
}

func (f FilePos) String() string {
	if f.Path == "" {
		return fmt.Sprintf("unknown file %d:%d", f.Line, f.Col)
	}
	return fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Col)
}
