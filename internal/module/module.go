// Package module implements the import/module loader: it resolves an
// import path to source text, parses and evaluates it exactly once, caches
// the result, and rejects import cycles. It does not import internal/eval
// directly — the evaluator is injected as a callback at construction time,
// breaking the circular dependency between the two packages.
package module

import (
	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/parser"
	"github.com/rillscript/rill/internal/value"
)

// EvalFunc runs a parsed program in a fresh evaluation and reports back the
// bindings and function declarations it leaves behind, for the importer to
// read via `module::name` or pull in with `use module::name;`. Function
// declarations are keyed "name/arity", matching internal/eval's own
// script-function table so a `use` can copy every overload of a name.
type EvalFunc func(prog *ast.Program) (vars map[string]value.Value, funcs map[string]*ast.FunctionDecl, err error)

// FileReader abstracts module source retrieval, so tests and embedders can
// supply an in-memory map instead of touching a filesystem.
type FileReader func(path string) (string, error)

// Module is one successfully loaded and evaluated source file.
type Module struct {
	Path  string
	Vars  map[string]value.Value
	Funcs map[string]*ast.FunctionDecl
}

// Loader resolves import paths to Modules, caching each path's result and
// detecting cycles.
type Loader struct {
	Evaluate EvalFunc
	Read     FileReader

	cache   map[string]*Module
	loading map[string]bool
}

// New constructs a Loader. read must be non-nil. evaluate may be nil here
// as long as Evaluate is set before the first Load; pkg/rill does this,
// since the evaluator it installs needs the Loader first.
func New(evaluate EvalFunc, read FileReader) *Loader {
	return &Loader{
		Evaluate: evaluate,
		Read:     read,
		cache:    make(map[string]*Module),
		loading:  make(map[string]bool),
	}
}

// Load resolves path to a *Module, reusing a prior load if path was already
// imported anywhere in this evaluation. A path found still mid-load means
// an import cycle.
func (l *Loader) Load(path string) (*Module, error) {
	if m, ok := l.cache[path]; ok {
		return m, nil
	}
	if l.loading[path] {
		return nil, &errs.ModuleError{Path: path, Reason: "import cycle detected"}
	}
	src, err := l.Read(path)
	if err != nil {
		return nil, &errs.ModuleError{Path: path, Reason: err.Error()}
	}
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, &errs.ModuleError{Path: path, Reason: err.Error()}
	}

	l.loading[path] = true
	defer delete(l.loading, path)

	vars, funcs, err := l.Evaluate(prog)
	if err != nil {
		return nil, &errs.ModuleError{Path: path, Reason: err.Error()}
	}
	m := &Module{Path: path, Vars: vars, Funcs: funcs}
	l.cache[path] = m
	return m, nil
}
