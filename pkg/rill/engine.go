// Package rill is the host-facing embedding API for the rill scripting
// engine: create an Engine, register Go functions and types, and evaluate
// script source against it (spec.md §1, §4).
package rill

import (
	"os"
	"path/filepath"
	"reflect"

	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/eval"
	"github.com/rillscript/rill/internal/module"
	"github.com/rillscript/rill/internal/parser"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/stdlib"
	"github.com/rillscript/rill/internal/value"
)

// DefaultMaxCallDepth bounds script-function recursion when no
// WithMaxCallDepth option is given (ambient safety valve, SPEC_FULL.md §2).
const DefaultMaxCallDepth = 1024

// Engine owns the registry, type registry and module loader shared by every
// script it evaluates, plus the top-level evaluator whose scope
// EvalWithScope keeps between calls. Eval and EvalFile replace that
// evaluator with a fresh one. Like the teacher's own
// dwscript.Engine, one Engine is not safe for concurrent use by multiple
// goroutines at once.
type Engine struct {
	reg      *registry.Registry
	types    *value.TypeRegistry
	overflow *eval.OverflowMode
	loader   *module.Loader
	topEval  *eval.Evaluator

	maxCallDepth int
	baseDir      string
	customTypes  map[reflect.Type]value.TypeID
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	maxCallDepth    int
	overflowChecked bool
	baseDir         string
}

// WithOverflowChecked makes integer `+`, `-` and `*` return an
// *ArithmeticError on overflow instead of silently wrapping (spec.md §9
// open question; default is wrapping, matching Go's own int64 arithmetic).
func WithOverflowChecked() Option {
	return func(c *engineConfig) { c.overflowChecked = true }
}

// WithMaxCallDepth overrides DefaultMaxCallDepth, the recursion limit past
// which a script function call fails with *StackOverflow.
func WithMaxCallDepth(n int) Option {
	return func(c *engineConfig) { c.maxCallDepth = n }
}

// WithModuleBaseDir sets the directory `import` paths are resolved against.
// Defaults to the current working directory.
func WithModuleBaseDir(dir string) Option {
	return func(c *engineConfig) { c.baseDir = dir }
}

// New constructs an Engine ready to register functions/types and evaluate
// scripts.
func New(opts ...Option) *Engine {
	cfg := engineConfig{maxCallDepth: DefaultMaxCallDepth}
	for _, o := range opts {
		o(&cfg)
	}

	reg := registry.New()
	overflow := &eval.OverflowMode{Checked: cfg.overflowChecked}
	eval.Bootstrap(reg, overflow)
	stdlib.Register(reg)
	types := value.NewTypeRegistry()

	e := &Engine{
		reg:          reg,
		types:        types,
		overflow:     overflow,
		maxCallDepth: cfg.maxCallDepth,
		baseDir:      cfg.baseDir,
	}
	e.loader = module.New(nil, e.readModuleFile)
	e.topEval = eval.New(reg, types, e.loader, e.maxCallDepth)
	e.loader.Evaluate = e.topEval.AsModuleEvalFunc()
	return e
}

func (e *Engine) readModuleFile(path string) (string, error) {
	full := path
	if e.baseDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(e.baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Eval parses and runs source against a fresh top-level scope, returning its
// trailing expression's value as a value.Value. Use Unwrap[T] on the
// result to recover a concrete Go value.
func (e *Engine) Eval(source string) (value.Value, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return value.Value{}, err
	}
	e.topEval = eval.New(e.reg, e.types, e.loader, e.maxCallDepth)
	e.loader.Evaluate = e.topEval.AsModuleEvalFunc()
	return e.topEval.Run(prog)
}

// EvalFile reads path and evaluates it as if passed to Eval. If a
// "<path>.rill.yaml" sidecar exists, its scalar entries are bound into the
// script's top-level scope before the first statement runs (SPEC_FULL.md
// "DOMAIN STACK" config layer).
func (e *Engine) EvalFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, &errs.ModuleError{Path: path, Reason: err.Error()}
	}
	prog, err := parser.Parse(string(data))
	if err != nil {
		return value.Value{}, err
	}
	cfg, err := stdlib.LoadSidecarConfig(path)
	if err != nil {
		return value.Value{}, &errs.ModuleError{Path: path, Reason: err.Error()}
	}
	e.topEval = eval.New(e.reg, e.types, e.loader, e.maxCallDepth)
	e.loader.Evaluate = e.topEval.AsModuleEvalFunc()
	for name, v := range cfg {
		e.topEval.Scope.Push(name, v)
	}
	e.topEval.MarkTopLevel()
	return e.topEval.Run(prog)
}

// EvalWithScope parses and runs source against the Engine's persistent
// top-level scope: bindings and function declarations from one call remain
// visible to the next (spec.md §4.F "eval_with_scope"). Unlike Eval, which
// starts fresh every time, this is how a host runs a script incrementally —
// a REPL, or successive setup/update/teardown phases of one session. The
// persistent scope lives inside the Engine, not in a value the host holds;
// a call to Eval or EvalFile replaces it, and later EvalWithScope calls
// continue from the scope that call left behind.
func (e *Engine) EvalWithScope(source string) (value.Value, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return value.Value{}, err
	}
	return e.topEval.Run(prog)
}

// Unwrap extracts a concrete Go value of type T from a dynamic Value
// produced by Eval/EvalFile/EvalWithScope.
func Unwrap[T any](v value.Value) (T, error) {
	return value.Unwrap[T](v)
}
