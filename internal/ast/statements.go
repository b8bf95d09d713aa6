package ast

import (
	"bytes"
	"strings"

	"github.com/rillscript/rill/internal/lexer"
)

// ExpressionStatement wraps an expression used in statement position;
// terminated by ';' unless it is the trailing (implicit-return) expression
// of a block.
type ExpressionStatement struct {
	Token lexer.Token
	Expr  Expression
	// NoSemi is true when the expression had no trailing semicolon, meaning
	// (if this is the last statement of its block) its value is the
	// block's implicit value.
	NoSemi bool
}

func (s *ExpressionStatement) statementNode()     {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string {
	if s.Expr == nil {
		return ""
	}
	return s.Expr.String()
}

// LetStatement is `let name = expr;`.
type LetStatement struct {
	Token lexer.Token // 'let'
	Name  *Ident
	Value Expression
}

func (s *LetStatement) statementNode()      {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LetStatement) String() string {
	return "let " + s.Name.String() + " = " + s.Value.String() + ";"
}

// BlockStatement is `{ stmt* }`. If the last statement is an
// ExpressionStatement with no trailing semicolon, its value is the block's
// value (used for function-body implicit return and if/else branch values).
type BlockStatement struct {
	Token      lexer.Token // '{'
	Statements []Statement
}

func (s *BlockStatement) statementNode()      {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) String() string {
	var buf bytes.Buffer
	buf.WriteString("{ ")
	for _, st := range s.Statements {
		buf.WriteString(st.String())
		buf.WriteString(" ")
	}
	buf.WriteString("}")
	return buf.String()
}

// IfStatement is `if cond { ... } else { ... }`; Alternative is nil when absent,
// or itself an *IfStatement wrapped in a BlockStatement for `else if` chains.
type IfStatement struct {
	Token       lexer.Token // 'if'
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil, or a block containing a single nested IfStatement for `else if`
}

func (s *IfStatement) statementNode()      {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) String() string {
	var buf bytes.Buffer
	buf.WriteString("if ")
	buf.WriteString(s.Condition.String())
	buf.WriteString(" ")
	buf.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		buf.WriteString(" else ")
		buf.WriteString(s.Alternative.String())
	}
	return buf.String()
}

// WhileStatement is `while cond { ... }`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()      {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) String() string {
	return "while " + s.Condition.String() + " " + s.Body.String()
}

// LoopStatement is `loop { ... }`, an unconditional repeat exited only by
// `break` or `return`.
type LoopStatement struct {
	Token lexer.Token
	Body  *BlockStatement
}

func (s *LoopStatement) statementNode()      {}
func (s *LoopStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LoopStatement) String() string       { return "loop " + s.Body.String() }

// BreakStatement is `break;`; only legal inside a While/Loop body.
type BreakStatement struct {
	Token lexer.Token
}

func (s *BreakStatement) statementNode()      {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStatement) String() string       { return "break;" }

// ReturnStatement is `return expr?;`; Value is nil for a bare `return;`.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression
}

func (s *ReturnStatement) statementNode()      {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// UseStatement is `use module::name;`: read `name` out of the module value
// bound to `module` and bind it into the current scope.
type UseStatement struct {
	Token  lexer.Token // 'use'
	Module *Ident
	Name   string
}

func (s *UseStatement) statementNode()      {}
func (s *UseStatement) TokenLiteral() string { return s.Token.Literal }
func (s *UseStatement) String() string {
	return "use " + s.Module.String() + "::" + s.Name + ";"
}

// FunctionDecl is a script-defined function: `fn name(p1, p2) { ... }`.
// Function declarations are collected into a separate function table, not
// the variable scope.
type FunctionDecl struct {
	Token      lexer.Token // 'fn'
	Name       string
	Parameters []*Ident
	Body       *BlockStatement
}

func (s *FunctionDecl) statementNode()      {}
func (s *FunctionDecl) TokenLiteral() string { return s.Token.Literal }
func (s *FunctionDecl) String() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = p.String()
	}
	return "fn " + s.Name + "(" + strings.Join(params, ", ") + ") " + s.Body.String()
}
