// Package eval implements the tree-walking evaluator: it executes a parsed
// Program against a persistent Scope, dispatching operators and free
// functions through a Registry and resolving `import` through a
// module.Loader.
package eval

import (
	"strconv"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/module"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/scope"
	"github.com/rillscript/rill/internal/value"
)

// signalKind distinguishes normal fall-through completion from a `break` or
// `return` unwinding through enclosing blocks.
type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigReturn
)

type signal struct {
	kind  signalKind
	value value.Value
}

// Evaluator holds all the engine state needed to run a program: the variable
// scope, the script-function table, the native registry, type registry, and
// module loader. One Evaluator belongs to one engine instance; pkg/rill's
// EvalWithScope reuses the same Evaluator (and its Scope) across calls to
// give scripts persistent top-level state.
type Evaluator struct {
	Scope  *scope.Scope
	Reg    *registry.Registry
	Types  *value.TypeRegistry
	Loader *module.Loader

	// funcs holds script-defined functions keyed "name/arity"; function
	// declarations live in their own table, not the variable scope.
	funcs map[string]*ast.FunctionDecl

	topLevelMark int
	callDepth    int
	MaxCallDepth int
}

// New creates an Evaluator with an empty scope and function table. reg,
// types and loader are normally shared across every Evaluator a single
// engine instance creates (one per module plus the top-level one).
func New(reg *registry.Registry, types *value.TypeRegistry, loader *module.Loader, maxCallDepth int) *Evaluator {
	return &Evaluator{
		Scope:        scope.New(),
		Reg:          reg,
		Types:        types,
		Loader:       loader,
		funcs:        make(map[string]*ast.FunctionDecl),
		MaxCallDepth: maxCallDepth,
	}
}

// MarkTopLevel records the scope's current length as the top-level baseline
// a script function call snapshots from. Callers that push bindings
// directly into Scope before the first Run (e.g. host-supplied config
// values) must call this afterward so those bindings are visible inside
// script functions too.
func (e *Evaluator) MarkTopLevel() {
	e.topLevelMark = e.Scope.Len()
}

// funcKey is the "name/arity" key script functions are filed and called
// under, matching the key format module.Module.Funcs also uses.
func funcKey(name string, arity int) string {
	return name + "/" + strconv.Itoa(arity)
}

// Run executes prog's statements in order against the Evaluator's current
// scope, returning the value of a trailing semicolon-less expression
// statement (mirroring block semantics at the top level), or unit.
func (e *Evaluator) Run(prog *ast.Program) (value.Value, error) {
	result := value.NewUnit()
	for i, stmt := range prog.Statements {
		v, sig, err := e.evalStatement(stmt)
		if err != nil {
			return value.Value{}, err
		}
		switch sig.kind {
		case sigBreak:
			return value.Value{}, &errs.ControlFlowLeak{Keyword: "break"}
		case sigReturn:
			return value.Value{}, &errs.ControlFlowLeak{Keyword: "return"}
		}
		e.topLevelMark = e.Scope.Len()
		if i == len(prog.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok && es.NoSemi {
				result = v
			}
		}
	}
	return result, nil
}

// AsModuleEvalFunc adapts an Evaluator-producing factory into a
// module.EvalFunc: each imported file runs in its own fresh Evaluator that
// shares this one's registry, type registry and loader, then reports back
// its top-level bindings and functions for the importer to read.
func (e *Evaluator) AsModuleEvalFunc() module.EvalFunc {
	return func(prog *ast.Program) (map[string]value.Value, map[string]*ast.FunctionDecl, error) {
		child := New(e.Reg, e.Types, e.Loader, e.MaxCallDepth)
		if _, err := child.Run(prog); err != nil {
			return nil, nil, err
		}
		return child.Scope.Bindings(), child.funcs, nil
	}
}

func (e *Evaluator) evalStatement(stmt ast.Statement) (value.Value, signal, error) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		v, err := e.evalExpression(s.Value)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		e.Scope.Push(s.Name.Name, v)
		return value.NewUnit(), signal{}, nil

	case *ast.ExpressionStatement:
		if s.Expr == nil {
			return value.NewUnit(), signal{}, nil
		}
		v, err := e.evalExpression(s.Expr)
		return v, signal{}, err

	case *ast.BlockStatement:
		return e.evalBlock(s)

	case *ast.IfStatement:
		return e.evalIf(s)

	case *ast.WhileStatement:
		return e.evalWhile(s)

	case *ast.LoopStatement:
		return e.evalLoop(s)

	case *ast.BreakStatement:
		return value.NewUnit(), signal{kind: sigBreak}, nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			return value.Value{}, signal{kind: sigReturn, value: value.NewUnit()}, nil
		}
		v, err := e.evalExpression(s.Value)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		return value.Value{}, signal{kind: sigReturn, value: v}, nil

	case *ast.FunctionDecl:
		e.funcs[funcKey(s.Name, len(s.Parameters))] = s
		return value.NewUnit(), signal{}, nil

	case *ast.UseStatement:
		return value.NewUnit(), signal{}, e.evalUse(s)

	default:
		return value.NewUnit(), signal{}, nil
	}
}

// evalBlock runs a block's statements under a fresh scope mark, truncating
// every binding pushed inside it on exit. Its value is that of a trailing
// semicolon-less expression statement.
func (e *Evaluator) evalBlock(block *ast.BlockStatement) (value.Value, signal, error) {
	mark := e.Scope.Mark()
	defer e.Scope.Truncate(mark)

	result := value.NewUnit()
	for i, stmt := range block.Statements {
		v, sig, err := e.evalStatement(stmt)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		if sig.kind != sigNone {
			return v, sig, nil
		}
		if i == len(block.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok && es.NoSemi {
				result = v
			}
		}
	}
	return result, signal{}, nil
}

func (e *Evaluator) evalIf(s *ast.IfStatement) (value.Value, signal, error) {
	cond, err := e.evalExpression(s.Condition)
	if err != nil {
		return value.Value{}, signal{}, err
	}
	b, err := value.Unwrap[bool](cond)
	if err != nil {
		return value.Value{}, signal{}, &errs.TypeMismatch{Want: "bool", Got: string(cond.TypeID())}
	}
	if b {
		return e.evalBlock(s.Consequence)
	}
	if s.Alternative != nil {
		return e.evalBlock(s.Alternative)
	}
	return value.NewUnit(), signal{}, nil
}

func (e *Evaluator) evalWhile(s *ast.WhileStatement) (value.Value, signal, error) {
	for {
		cond, err := e.evalExpression(s.Condition)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		b, err := value.Unwrap[bool](cond)
		if err != nil {
			return value.Value{}, signal{}, &errs.TypeMismatch{Want: "bool", Got: string(cond.TypeID())}
		}
		if !b {
			return value.NewUnit(), signal{}, nil
		}
		v, sig, err := e.evalBlock(s.Body)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return value.NewUnit(), signal{}, nil
		case sigReturn:
			return v, sig, nil
		}
	}
}

func (e *Evaluator) evalLoop(s *ast.LoopStatement) (value.Value, signal, error) {
	for {
		v, sig, err := e.evalBlock(s.Body)
		if err != nil {
			return value.Value{}, signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return value.NewUnit(), signal{}, nil
		case sigReturn:
			return v, sig, nil
		}
	}
}

// evalUse resolves `use module::name;`: name must be either a variable
// exported by the module bound to module's identifier, or one or more
// script-function overloads, and is bound into the current scope/function
// table accordingly.
func (e *Evaluator) evalUse(s *ast.UseStatement) error {
	mv, ok := e.Scope.Lookup(s.Module.Name)
	if !ok {
		return &errs.UnboundName{Name: s.Module.Name}
	}
	mod, err := value.Unwrap[*module.Module](mv)
	if err != nil {
		return &errs.TypeMismatch{Want: "module", Got: string(mv.TypeID())}
	}
	imported := false
	if v, ok := mod.Vars[s.Name]; ok {
		e.Scope.Push(s.Name, v.Clone())
		imported = true
	}
	prefix := s.Name + "/"
	for key, fn := range mod.Funcs {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			e.funcs[key] = fn
			imported = true
		}
	}
	if !imported {
		return &errs.UnboundName{Name: s.Module.Name + "::" + s.Name}
	}
	return nil
}
