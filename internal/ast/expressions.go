package ast

import (
	"bytes"
	"strings"

	"github.com/rillscript/rill/internal/lexer"
)

// IntegerLiteral is a 64-bit signed decimal integer literal.
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (l *IntegerLiteral) expressionNode()      {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *IntegerLiteral) String() string       { return l.Token.Literal }

// FloatLiteral is a 64-bit floating point literal.
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (l *FloatLiteral) expressionNode()      {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *FloatLiteral) String() string       { return l.Token.Literal }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Token lexer.Token
	Value bool
}

func (l *BoolLiteral) expressionNode()      {}
func (l *BoolLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *BoolLiteral) String() string       { return l.Token.Literal }

// StringLiteral is a double-quoted string with escapes already resolved by
// the lexer.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (l *StringLiteral) expressionNode()      {}
func (l *StringLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *StringLiteral) String() string       { return `"` + l.Value + `"` }

// CharLiteral is a single-quoted, single-codepoint literal.
type CharLiteral struct {
	Token lexer.Token
	Value rune
}

func (l *CharLiteral) expressionNode()      {}
func (l *CharLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *CharLiteral) String() string       { return "'" + string(l.Value) + "'" }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Token    lexer.Token // the '['
	Elements []Expression
}

func (l *ArrayLiteral) expressionNode()      {}
func (l *ArrayLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ArrayLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UnaryExpr is a prefix operator applied to a single operand: `-x`, `+x`, `!x`.
type UnaryExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpr) String() string {
	return "(" + u.Operator + u.Operand.String() + ")"
}

// BinaryExpr is an infix operator applied to two operands.
type BinaryExpr struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpr) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(b.Left.String())
	buf.WriteString(" " + b.Operator + " ")
	buf.WriteString(b.Right.String())
	buf.WriteString(")")
	return buf.String()
}

// AssignExpr is `lvalue = expr`. Target must be an lvalue shape: Ident,
// IndexExpr, or PropertyExpr, or a chain thereof.
// Compound assignment (`+=` etc.) is desugared by the parser into this node
// with Operator set to the base operator ("+", "-", ...), or "" for plain `=`.
type AssignExpr struct {
	Token    lexer.Token
	Target   Expression
	Operator string // "" for '=', else the compound operator's base op
	Value    Expression
}

func (a *AssignExpr) expressionNode()      {}
func (a *AssignExpr) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpr) String() string {
	if a.Operator != "" {
		return "(" + a.Target.String() + " = (" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + "))"
	}
	return "(" + a.Target.String() + " = " + a.Value.String() + ")"
}

// CallExpr is `callee(args...)`. Callee is always an Ident naming either a
// script-defined function or a registry entry.
type CallExpr struct {
	Token    lexer.Token // '('
	Callee   *Ident
	Args     []Expression
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Token  lexer.Token // '['
	Target Expression
	Index  Expression
}

func (e *IndexExpr) expressionNode()      {}
func (e *IndexExpr) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpr) String() string {
	return "(" + e.Target.String() + "[" + e.Index.String() + "])"
}

// PropertyExpr is `target.name`, a getter/setter access.
type PropertyExpr struct {
	Token  lexer.Token // '.'
	Target Expression
	Name   string
}

func (e *PropertyExpr) expressionNode()      {}
func (e *PropertyExpr) TokenLiteral() string { return e.Token.Literal }
func (e *PropertyExpr) String() string {
	return "(" + e.Target.String() + "." + e.Name + ")"
}

// MethodCallExpr is `target.name(args...)`.
type MethodCallExpr struct {
	Token  lexer.Token // '.'
	Target Expression
	Name   string
	Args   []Expression
}

func (e *MethodCallExpr) expressionNode()      {}
func (e *MethodCallExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MethodCallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return "(" + e.Target.String() + "." + e.Name + "(" + strings.Join(parts, ", ") + "))"
}

// PathExpr is `module::name`, a module-qualified symbol lookup.
type PathExpr struct {
	Token  lexer.Token // '::'
	Module *Ident
	Name   string
}

func (e *PathExpr) expressionNode()      {}
func (e *PathExpr) TokenLiteral() string { return e.Token.Literal }
func (e *PathExpr) String() string       { return e.Module.String() + "::" + e.Name }

// ImportExpr is `import <expr>`; Path evaluates to the string the module
// loader resolves.
type ImportExpr struct {
	Token lexer.Token // 'import'
	Path  Expression
}

func (e *ImportExpr) expressionNode()      {}
func (e *ImportExpr) TokenLiteral() string { return e.Token.Literal }
func (e *ImportExpr) String() string       { return "import " + e.Path.String() }
