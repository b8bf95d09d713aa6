// Package errs defines the engine's error kinds. Each kind is a concrete
// type implementing error, not a sentinel string, so callers can
// type-switch on the failure and hosts can render rich diagnostics.
package errs

import (
	"fmt"
	"strings"

	"github.com/rillscript/rill/internal/lexer"
)

// LexError is a malformed token or an unterminated string/comment.
type LexError struct {
	Msg    string
	Pos    lexer.Position
	Source string
}

func (e *LexError) Error() string { return format("lex error", e.Msg, e.Pos, e.Source) }

// ParseError is an unexpected token, a missing closer, or a bad lvalue shape.
type ParseError struct {
	Msg    string
	Pos    lexer.Position
	Source string
}

func (e *ParseError) Error() string { return format("parse error", e.Msg, e.Pos, e.Source) }

// UnboundName is raised when an identifier is neither bound in scope nor
// resolvable as a callable in the registry.
type UnboundName struct {
	Name string
}

func (e *UnboundName) Error() string { return "unbound name: " + e.Name }

// FunctionNotFound is raised when no registry overload matches the call's
// argument type signature (or, for `.method()` syntax, no method/getter/
// setter overload matches).
type FunctionNotFound struct {
	Name string
	Args []string // type identities in argument order, for diagnostics
}

func (e *FunctionNotFound) Error() string {
	return fmt.Sprintf("no overload of %q for argument types (%s)", e.Name, strings.Join(e.Args, ", "))
}

// TypeMismatch is raised by unwrap<T> of a dynamic value whose type
// identity is not T, and by `if`/`while` conditions that are not boolean.
type TypeMismatch struct {
	Want string
	Got  string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
}

// IndexOutOfBounds is raised when an integer array index falls outside
// [0, len).
type IndexOutOfBounds struct {
	Index int64
	Len   int
}

func (e *IndexOutOfBounds) Error() string {
	return fmt.Sprintf("index %d out of bounds for array of length %d", e.Index, e.Len)
}

// ArithmeticError is raised for a divide-by-zero, or for overflow when the
// engine is configured with WithOverflowChecked.
type ArithmeticError struct {
	Reason string
}

func (e *ArithmeticError) Error() string { return "arithmetic error: " + e.Reason }

// ModuleError covers a load failure, a parse failure inside a loaded module,
// or an import cycle.
type ModuleError struct {
	Path   string
	Reason string
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module error loading %q: %s", e.Path, e.Reason)
}

// ControlFlowLeak is raised when `break` or `return` reaches the top of an
// evaluation without a matching enclosing while/loop or function body.
type ControlFlowLeak struct {
	Keyword string // "break" or "return"
}

func (e *ControlFlowLeak) Error() string {
	return fmt.Sprintf("%s used outside of a matching enclosing construct", e.Keyword)
}

// StackOverflow is raised when script-function recursion exceeds the
// engine's configured call-depth limit.
type StackOverflow struct {
	MaxDepth int
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("call stack exceeded maximum depth of %d", e.MaxDepth)
}

// format renders an error with a source line and a caret.
func format(kind, msg string, pos lexer.Position, source string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %s: %s", kind, pos, msg)
	line := sourceLine(source, pos.Line)
	if line != "" {
		sb.WriteString("\n")
		prefix := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+pos.Column-1))
		sb.WriteString("^")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
