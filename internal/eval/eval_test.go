package eval

import (
	"testing"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/module"
	"github.com/rillscript/rill/internal/parser"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

// noModules is a FileReader that always fails, for tests that don't exercise
// import/use.
func noModules(path string) (string, error) {
	return "", &fakeNotFound{path}
}

type fakeNotFound struct{ path string }

func (e *fakeNotFound) Error() string { return "no such module: " + e.path }

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	reg := registry.New()
	Bootstrap(reg, &OverflowMode{})
	types := value.NewTypeRegistry()
	loader := module.New(nil, noModules)
	e := New(reg, types, loader, 1024)
	loader.Evaluate = e.AsModuleEvalFunc()
	return e
}

func mustRun(t *testing.T, e *Evaluator, src string) value.Value {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	v, err := e.Run(prog)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func TestUnboundNameFails(t *testing.T) {
	e := newEvaluator(t)
	_, err := e.Run(mustParseProg(t, "x"))
	if err == nil {
		t.Fatalf("expected an UnboundName error")
	}
}

func mustParseProg(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestBlockScopeTruncatesOnExit(t *testing.T) {
	e := newEvaluator(t)
	mustRun(t, e, `let x = 1; { let y = 2; }`)
	if e.Scope.Len() != 1 {
		t.Fatalf("expected scope to hold only x after block exit, got len %d", e.Scope.Len())
	}
}

func TestIfRequiresBooleanCondition(t *testing.T) {
	e := newEvaluator(t)
	_, err := e.Run(mustParseProg(t, `if 1 { }`))
	if err == nil {
		t.Fatalf("expected a TypeMismatch error for a non-bool if condition")
	}
}

func TestLoopBreak(t *testing.T) {
	e := newEvaluator(t)
	v := mustRun(t, e, `let n = 0; loop { n = n + 1; if n == 3 { break; } } n`)
	n, _ := value.Unwrap[int64](v)
	if n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}

func TestReturnInsideWhilePropagatesOutOfFunction(t *testing.T) {
	e := newEvaluator(t)
	v := mustRun(t, e, `fn f() { while true { return 7; } 0 } f()`)
	n, _ := value.Unwrap[int64](v)
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
}

func TestScriptFunctionHasNoClosureOverCaller(t *testing.T) {
	// secret is a block-local, not a top-level binding, so it must not be
	// visible inside a script function declared and called afterward.
	e := newEvaluator(t)
	_, err := e.Run(mustParseProg(t, `{ let secret = 99; } fn leak() { secret } leak()`))
	if err == nil {
		t.Fatalf("expected UnboundName: script functions must not see caller block-locals")
	}
}

func TestMethodCallWriteBackThroughIndexChain(t *testing.T) {
	e := newEvaluator(t)
	e.Reg.RegisterMethod("double", value.Int64, nil, func(self value.Value, args []value.Value) (value.Value, value.Value, error) {
		n := self.Raw().(int64)
		doubled := value.Int(n * 2)
		return doubled, doubled, nil
	})
	v := mustRun(t, e, `let arr = [1, 2, 3]; arr[1].double(); arr[1]`)
	n, _ := value.Unwrap[int64](v)
	if n != 4 {
		t.Errorf("expected the mutated element to be written back into the array, got %d", n)
	}
}

func TestPropertySetterWriteBack(t *testing.T) {
	e := newEvaluator(t)
	e.Reg.RegisterGetSet("value", value.Int64,
		func(args []value.Value) (value.Value, error) { return args[0], nil },
		func(self, val value.Value) (value.Value, error) { return val, nil },
	)
	v := mustRun(t, e, `let x = 1; x.value = 9; x.value`)
	n, _ := value.Unwrap[int64](v)
	if n != 9 {
		t.Errorf("expected 9, got %d", n)
	}
}

func TestControlFlowLeakAtTopLevel(t *testing.T) {
	e := newEvaluator(t)
	if _, err := e.Run(mustParseProg(t, `return 1;`)); err == nil {
		t.Fatalf("expected a ControlFlowLeak error for a top-level return")
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	e := newEvaluator(t)
	if _, err := e.Run(mustParseProg(t, `let a = [1]; a[5]`)); err == nil {
		t.Fatalf("expected an IndexOutOfBounds error")
	}
}

// TestHostTypeIndexable exercises spec.md §4.F's indexing contract: a host
// type other than the built-in array can register its own `[index]` get/set
// pair through the same reserved dispatch, with write-back through the
// lvalue chain working identically to arrays.
func TestHostTypeIndexable(t *testing.T) {
	const gridType value.TypeID = "grid"
	e := newEvaluator(t)
	e.Types.Register(gridType, func(a any) any {
		src := a.([]int64)
		cp := make([]int64, len(src))
		copy(cp, src)
		return cp
	})
	grid, err := e.Types.Wrap(gridType, []int64{10, 20, 30})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	e.Scope.Push("g", grid)
	e.MarkTopLevel()

	e.Reg.RegisterIndexGet(gridType, func(self, index value.Value) (value.Value, error) {
		row := self.Raw().([]int64)
		i, _ := value.Unwrap[int64](index)
		return value.Int(row[i]), nil
	})
	e.Reg.RegisterIndexSet(gridType, func(self, index, val value.Value) (value.Value, error) {
		row := self.Raw().([]int64)
		i, _ := value.Unwrap[int64](index)
		n, _ := value.Unwrap[int64](val)
		row[i] = n
		return e.Types.Wrap(gridType, row)
	})

	v := mustRun(t, e, `g[1] = 99; g[1]`)
	n, _ := value.Unwrap[int64](v)
	if n != 99 {
		t.Errorf("expected 99, got %d", n)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := newEvaluator(t)
	if _, err := e.Run(mustParseProg(t, `1 / 0`)); err == nil {
		t.Fatalf("expected an ArithmeticError for division by zero")
	}
}

func TestShadowingInnerLet(t *testing.T) {
	e := newEvaluator(t)
	v := mustRun(t, e, `let x = 1; { let x = 2; } x`)
	n, _ := value.Unwrap[int64](v)
	if n != 1 {
		t.Errorf("expected outer x to be unaffected by inner shadow, got %d", n)
	}
}
