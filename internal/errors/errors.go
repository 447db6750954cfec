// Package errors implements algoscript's four lexer/parser error kinds plus
// the runtime error type, each formatting a source excerpt with a caret
// span.
package errors

import (
	"fmt"
	"strings"

	"github.com/algoscript/algoscript/internal/token"
)

// Error is the common shape of every algoscript diagnostic: a name, a
// one-line detail message, and the source span it applies to.
type Error struct {
	Name    string
	Details string
	Start   token.Position
	End     token.Position
}

func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders "Name: details", the "File f, line N" header, and a
// caret-annotated source excerpt. If color is true, the caret span is
// wrapped in ANSI red-bold codes.
func (e *Error) Format(color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", e.Name, e.Details)
	fmt.Fprintf(&sb, "File %s, line %d\n\n", e.Start.File, e.Start.Line)
	sb.WriteString(sourceExcerpt(e.Start, e.End, color))
	return sb.String()
}

// sourceExcerpt extracts the line containing start and underlines the
// span [start, end) with carets: at least one caret even for a
// zero-width span.
func sourceExcerpt(start, end token.Position, color bool) string {
	text := start.Source
	idxStart := strings.LastIndex(text[:min(start.Offset, len(text))], "\n") + 1
	idxEnd := strings.Index(text[idxStart:], "\n")
	if idxEnd < 0 {
		idxEnd = len(text)
	} else {
		idxEnd += idxStart
	}
	line := text[idxStart:idxEnd]

	colStart := start.Column - 1
	colEnd := end.Column - 1
	if start.Line != end.Line || colEnd < colStart {
		colEnd = len([]rune(line))
	}
	width := colEnd - colStart
	if width < 1 {
		width = 1
	}

	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(line, "\t", " "))
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", max(0, colStart)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(strings.Repeat("^", width))
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NewIllegalChar reports an unrecognized character in the lexer.
func NewIllegalChar(start, end token.Position, details string) *Error {
	return &Error{Name: "Illegal Character", Details: details, Start: start, End: end}
}

// NewExpectedChar reports a missing required character (second '=' after
// '=' or '!', an unterminated string literal).
func NewExpectedChar(start, end token.Position, details string) *Error {
	return &Error{Name: "Expected Character", Details: details, Start: start, End: end}
}

// NewInvalidSyntax reports a grammar violation.
func NewInvalidSyntax(start, end token.Position, details string) *Error {
	return &Error{Name: "Invalid Syntax", Details: details, Start: start, End: end}
}

// NewIndentation reports indentation that is not a multiple of four spaces,
// or a block whose statements disagree with the expected indent level.
func NewIndentation(start, end token.Position, details string) *Error {
	return &Error{Name: "Indentation Error", Details: details, Start: start, End: end}
}

// Frame is one call-stack entry contributed to a RuntimeError traceback:
// "File F, line L, in N".
type Frame struct {
	Pos         token.Position
	DisplayName string
}

// RuntimeError is any failure raised while walking the AST: undefined
// variable, type mismatch, division by zero, out-of-range index, illegal
// operation, cancellation, host I/O failure, or arity mismatch. It carries
// a traceback of call frames, most-recent last, rendered in that same
// order like a Python traceback.
type RuntimeError struct {
	Details string
	Start   token.Position
	End     token.Position
	Stack   []Frame
}

// NewRuntimeError builds a RuntimeError anchored at [start,end] with the
// given call-frame stack (innermost frame last, matching how interpreters
// naturally accumulate frames while unwinding).
func NewRuntimeError(start, end token.Position, details string, stack []Frame) *RuntimeError {
	return &RuntimeError{Details: details, Start: start, End: end, Stack: append([]Frame(nil), stack...)}
}

func (e *RuntimeError) Error() string {
	return e.Format(false)
}

// Format renders the traceback, the error line, and the caret-annotated
// excerpt.
func (e *RuntimeError) Format(color bool) string {
	var sb strings.Builder
	sb.WriteString("Traceback (most recent call last):\n")
	for _, f := range e.Stack {
		fmt.Fprintf(&sb, "   File %s, line %d, in %s\n", f.Pos.File, f.Pos.Line, f.DisplayName)
	}
	fmt.Fprintf(&sb, "RunTime error: %s\n\n", e.Details)
	sb.WriteString(sourceExcerpt(e.Start, e.End, color))
	return sb.String()
}
