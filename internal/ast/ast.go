// Package ast defines the abstract syntax tree node types produced by
// internal/parser from rill source text.
package ast

import (
	"bytes"

	"github.com/rillscript/rill/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression is any node that produces a dynamic value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing a
// value (though a trailing expression statement's value may escape a block,
// see BlockStatement).
type Statement interface {
	Node
	statementNode()
}

// Program is the root of a parsed source file: a flat list of top-level
// statements (which may include FunctionDecl).
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var buf bytes.Buffer
	for _, s := range p.Statements {
		buf.WriteString(s.String())
		buf.WriteString("\n")
	}
	return buf.String()
}

// Ident is an identifier used both as an expression and as an lvalue leaf.
type Ident struct {
	Token lexer.Token
	Name  string
}

func (i *Ident) expressionNode()      {}
func (i *Ident) TokenLiteral() string { return i.Token.Literal }
func (i *Ident) String() string       { return i.Name }
