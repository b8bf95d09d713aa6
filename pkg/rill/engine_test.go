package rill

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rillscript/rill/internal/value"
)

// The scenarios below are the end-to-end properties spec.md §8 lists as
// testable; each is reproduced here almost verbatim against the public
// embedding API.

func TestEvalIntegerArithmetic(t *testing.T) {
	e := New()
	v, err := e.Eval(`40 + 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 42 {
		t.Fatalf("expected 42, got %v (err=%v)", n, err)
	}
}

func TestEvalRegisteredFunction(t *testing.T) {
	e := New()
	if err := e.RegisterFunction("add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	v, err := e.Eval(`add(40, 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 42 {
		t.Fatalf("expected 42, got %v (err=%v)", n, err)
	}
}

func TestEvalArrayIndexAssignment(t *testing.T) {
	e := New()
	v, err := e.Eval(`let y = [1, 2, 3]; y[1] = 5; y[1]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 5 {
		t.Fatalf("expected 5, got %v (err=%v)", n, err)
	}
}

func TestEvalWhileBreak(t *testing.T) {
	e := New()
	v, err := e.Eval(`
		let x = 10;
		while x > 0 { if x == 5 { break; } x = x - 1; }
		x
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 5 {
		t.Fatalf("expected 5, got %v (err=%v)", n, err)
	}
}

func TestEvalScriptFunction(t *testing.T) {
	e := New()
	v, err := e.Eval(`fn add(x,y){ x+y } add(2,3)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 5 {
		t.Fatalf("expected 5, got %v (err=%v)", n, err)
	}
}

func TestEvalWithScopePersistsAcrossCalls(t *testing.T) {
	e := New()
	if _, err := e.EvalWithScope(`let x = 4 + 5;`); err != nil {
		t.Fatalf("first call: %v", err)
	}
	v, err := e.EvalWithScope(`x`)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 9 {
		t.Fatalf("expected 9, got %v (err=%v)", n, err)
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	e := New()
	v, err := e.Eval(`"abc" + "ABC"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := Unwrap[string](v)
	if err != nil || s != "abcABC" {
		t.Fatalf("expected abcABC, got %q (err=%v)", s, err)
	}
}

func TestEvalNestedBlockComment(t *testing.T) {
	e := New()
	v, err := e.Eval(`let /*a/*b*/c*/ n = 1; n`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 1 {
		t.Fatalf("expected 1, got %v (err=%v)", n, err)
	}
}

// Scope balance: a fresh Eval call never leaks bindings from a previous one
// (Eval, unlike EvalWithScope, always starts from a clean scope).
func TestEvalStartsFreshEachCall(t *testing.T) {
	e := New()
	if _, err := e.Eval(`let x = 1;`); err != nil {
		t.Fatalf("first eval: %v", err)
	}
	if _, err := e.Eval(`x`); err == nil {
		t.Fatalf("expected UnboundName since Eval does not persist state")
	}
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	e := New()
	called := false
	if err := e.RegisterFunction("mark_called", func() bool { called = true; return true }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	v, err := e.Eval(`false && mark_called()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Unwrap[bool](v)
	if err != nil || b {
		t.Fatalf("expected false, got %v (err=%v)", b, err)
	}
	if called {
		t.Errorf("right operand of && was evaluated despite a false left operand")
	}
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	e := New()
	called := false
	if err := e.RegisterFunction("mark_called", func() bool { called = true; return false }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	v, err := e.Eval(`true || mark_called()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Unwrap[bool](v)
	if err != nil || !b {
		t.Fatalf("expected true, got %v (err=%v)", b, err)
	}
	if called {
		t.Errorf("right operand of || was evaluated despite a true left operand")
	}
}

func TestFunctionNotFoundOnUnregisteredOverload(t *testing.T) {
	e := New()
	if err := e.RegisterFunction("add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	if _, err := e.Eval(`add(1.0, 2.0)`); err == nil {
		t.Fatalf("expected FunctionNotFound for a float overload that was never registered")
	}
}

func TestBreakOutsideLoopIsControlFlowLeak(t *testing.T) {
	e := New()
	if _, err := e.Eval(`break;`); err == nil {
		t.Fatalf("expected a ControlFlowLeak error")
	}
}

func TestOverflowWrapsByDefault(t *testing.T) {
	e := New()
	v, err := e.Eval(`9223372036854775807 + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != math.MinInt64 {
		t.Fatalf("expected wraparound to math.MinInt64, got %v (err=%v)", n, err)
	}
}

func TestOverflowErrorsWhenChecked(t *testing.T) {
	e := New(WithOverflowChecked())
	if _, err := e.Eval(`9223372036854775807 + 1`); err == nil {
		t.Fatalf("expected an ArithmeticError with WithOverflowChecked")
	}
}

func TestMaxCallDepthStopsRunawayRecursion(t *testing.T) {
	e := New(WithMaxCallDepth(8))
	_, err := e.Eval(`fn loop_forever(n) { loop_forever(n + 1) } loop_forever(0)`)
	if err == nil {
		t.Fatalf("expected a StackOverflow error")
	}
}

func TestRegisterGetSetRoundTrips(t *testing.T) {
	e := New()
	e.RegisterType(value.TypeID("counter"), int64(0), func(a any) any { return a })
	e.RegisterGetSet("n", value.TypeID("counter"),
		func(self value.Value) (value.Value, error) { return self, nil },
		func(self, val value.Value) (value.Value, error) { return val, nil },
	)
	e.topEval.Scope.Push("c", e.types.MustWrap(value.TypeID("counter"), int64(3)))
	e.topEval.MarkTopLevel()
	v, err := e.EvalWithScope(`c.n = c.n; c.n`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 3 {
		t.Fatalf("expected 3, got %v (err=%v)", n, err)
	}
}

func TestEvalFileWithSidecarConfig(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "greet.rill")
	if err := os.WriteFile(scriptPath, []byte("greeting"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if err := os.WriteFile(scriptPath+".rill.yaml", []byte("greeting: \"hi\"\n"), 0o644); err != nil {
		t.Fatalf("write sidecar config: %v", err)
	}

	e := New()
	v, err := e.EvalFile(scriptPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := Unwrap[string](v)
	if err != nil || s != "hi" {
		t.Fatalf("expected \"hi\" from sidecar config, got %q (err=%v)", s, err)
	}
}

func TestModuleImportAndUse(t *testing.T) {
	dir := t.TempDir()
	mathPath := filepath.Join(dir, "math.rill")
	if err := os.WriteFile(mathPath, []byte("let pi = 3; fn square(x) { x * x }"), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}

	e := New(WithModuleBaseDir(dir))
	v, err := e.Eval(`let m = import "math.rill"; use m::square; m::pi + square(4)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := Unwrap[int64](v)
	if err != nil || n != 19 {
		t.Fatalf("expected 19, got %v (err=%v)", n, err)
	}
}

func TestModuleImportCycleFails(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.rill")
	bPath := filepath.Join(dir, "b.rill")
	if err := os.WriteFile(aPath, []byte(`import "b.rill";`), 0o644); err != nil {
		t.Fatalf("write a.rill: %v", err)
	}
	if err := os.WriteFile(bPath, []byte(`import "a.rill";`), 0o644); err != nil {
		t.Fatalf("write b.rill: %v", err)
	}

	e := New(WithModuleBaseDir(dir))
	if _, err := e.Eval(`import "a.rill"`); err == nil {
		t.Fatalf("expected a ModuleError for the import cycle")
	}
}
