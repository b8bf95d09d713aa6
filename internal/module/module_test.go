package module

import (
	"testing"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/value"
)

// inMemoryReader backs a Loader with a fixed path->source map, so tests don't
// touch a filesystem (module.go's FileReader doc comment promises this).
func inMemoryReader(files map[string]string) FileReader {
	return func(path string) (string, error) {
		src, ok := files[path]
		if !ok {
			return "", &notFoundError{path}
		}
		return src, nil
	}
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "no such file: " + e.path }

// countingEval is a trivial EvalFunc stand-in for internal/eval: it reports
// back one variable ("n", counting how many times it ran) and no functions,
// letting tests assert caching without depending on the real evaluator.
func countingEval(calls *int) EvalFunc {
	return func(prog *ast.Program) (map[string]value.Value, map[string]*ast.FunctionDecl, error) {
		*calls++
		return map[string]value.Value{"n": value.Int(int64(*calls))}, map[string]*ast.FunctionDecl{}, nil
	}
}

func TestLoadReturnsModuleWithEvaluatedVars(t *testing.T) {
	calls := 0
	l := New(countingEval(&calls), inMemoryReader(map[string]string{
		"a.rill": `let x = 1;`,
	}))
	m, err := l.Load("a.rill")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := value.Unwrap[int64](m.Vars["n"])
	if err != nil || n != 1 {
		t.Fatalf("expected n=1, got %v (err=%v)", n, err)
	}
}

func TestLoadCachesByPath(t *testing.T) {
	calls := 0
	l := New(countingEval(&calls), inMemoryReader(map[string]string{
		"a.rill": `let x = 1;`,
	}))
	if _, err := l.Load("a.rill"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := l.Load("a.rill"); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly one evaluation for a cached re-import, got %d", calls)
	}
}

func TestLoadUnknownPathFails(t *testing.T) {
	calls := 0
	l := New(countingEval(&calls), inMemoryReader(nil))
	if _, err := l.Load("missing.rill"); err == nil {
		t.Fatalf("expected a ModuleError for an unreadable path")
	}
}

func TestLoadBadSourceFailsToParse(t *testing.T) {
	calls := 0
	l := New(countingEval(&calls), inMemoryReader(map[string]string{
		"bad.rill": `let = ;`,
	}))
	if _, err := l.Load("bad.rill"); err == nil {
		t.Fatalf("expected a ModuleError wrapping a parse failure")
	}
}

// TestImportCycleDetected simulates a module whose own top-level evaluation tries
// to re-import itself before finishing, which is exactly how a real cycle
// would be discovered: the evaluator callback calls back into Loader.Load
// for the same path while it is still marked as loading.
func TestImportCycleDetected(t *testing.T) {
	var l *Loader
	calls := 0
	l = New(func(prog *ast.Program) (map[string]value.Value, map[string]*ast.FunctionDecl, error) {
		calls++
		if _, err := l.Load("self.rill"); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}, inMemoryReader(map[string]string{
		"self.rill": `let x = 1;`,
	}))

	if _, err := l.Load("self.rill"); err == nil {
		t.Fatalf("expected a ModuleError for the import cycle")
	}
}
