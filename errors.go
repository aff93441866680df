// errors.go: the closed parse-stop taxonomy and caret-snippet rendering.
//
// Every parsing routine propagates a *ParseStop immediately to its caller;
// there is no recovery and no partial-AST mode. The one benign kind is
// FileEnded, which the top-level driver uses as its clean stop signal. The
// core never prints: WrapErrorWithSource is for callers that want a
// human-readable snippet with a caret under the offending column.
package jingo

import (
	"fmt"
	"strings"
)

// StopKind enumerates every way a parse can stop.
type StopKind int

const (
	// FileEnded is not a failure: input ran out at the top level, the
	// expected way a program ends.
	FileEnded StopKind = iota

	// UnexpectedToken: a token no active construct can consume at that
	// position. Stray closing braces surface this way and are reclaimed by
	// block routines as their normal terminator.
	UnexpectedToken

	// UnknownToken: the tokenizer could not classify the input; the
	// offending slice is in Tok.Lexeme.
	UnknownToken

	// NoLeftExpr: a binary operator with nothing buffered as its left
	// operand.
	NoLeftExpr

	// UnexpectedEof: input ended while a construct expected more tokens.
	UnexpectedEof

	// MultipleExpressions: a single-expression position received a second
	// complete expression before its terminator.
	MultipleExpressions

	// ClassNameIsPath: a class was declared with a scoped path instead of a
	// bare identifier.
	ClassNameIsPath
)

// ParseStop is the single error type returned by parsing routines. Offset
// is a byte offset into the source; Tok is the offending token when one
// exists.
type ParseStop struct {
	Kind   StopKind
	Offset int
	Tok    Token

	// Nested marks a stop that has crossed a construct boundary. Block and
	// condition routines reclaim their terminator token only from unmarked
	// stops, so an incomplete inner construct can never be silently closed
	// by an outer brace.
	Nested bool
}

func (s *ParseStop) Error() string {
	switch s.Kind {
	case FileEnded:
		return "file ended"
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token %q", s.Tok.Lexeme)
	case UnknownToken:
		return fmt.Sprintf("input %q is not a known token", s.Tok.Lexeme)
	case NoLeftExpr:
		return fmt.Sprintf("operator %q has no left-hand expression", s.Tok.Lexeme)
	case UnexpectedEof:
		return "file ended abruptly, unexpected eof"
	case MultipleExpressions:
		return "expected a single expression before the block"
	case ClassNameIsPath:
		return "class name must be a bare identifier, not a path"
	}
	return "unknown parse stop"
}

// Benign reports whether the stop is the clean end-of-program signal
// rather than a real failure.
func (s *ParseStop) Benign() bool { return s.Kind == FileEnded }

// IsIncomplete reports whether err means the input ran out mid-construct,
// so more lines could still complete it. Interactive readers use this to
// decide between a continuation prompt and a real diagnostic.
func IsIncomplete(err error) bool {
	stop := asStop(err)
	return stop != nil && stop.Kind == UnexpectedEof
}

// WrapErrorWithSource augments a *ParseStop with a caret-annotated snippet
// of the source. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (usually the
// file path) in the header.
func WrapErrorWithName(err error, srcName, src string) error {
	stop, ok := err.(*ParseStop)
	if !ok || stop.Benign() {
		return err
	}
	pos := Locate(src, stop.Offset)
	return fmt.Errorf("%s", snippet(src, srcName, pos.Line, pos.Col, stop.Error()))
}

// snippet builds the header plus up to one line of context either side of
// the error line, with a caret under the 1-based column.
func snippet(src, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "PARSE ERROR in %s at %d:%d: %s\n\n", name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "PARSE ERROR at %d:%d: %s\n\n", line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
