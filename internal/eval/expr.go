package eval

import (
	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/module"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

func (e *Evaluator) evalExpression(expr ast.Expression) (value.Value, error) {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return value.Int(ex.Value), nil
	case *ast.FloatLiteral:
		return value.Flt(ex.Value), nil
	case *ast.BoolLiteral:
		return value.Bln(ex.Value), nil
	case *ast.StringLiteral:
		return value.Str(ex.Value), nil
	case *ast.CharLiteral:
		return value.Chr(ex.Value), nil

	case *ast.ArrayLiteral:
		elems := make([]value.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := e.evalExpression(el)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Arr(elems), nil

	case *ast.Ident:
		v, ok := e.Scope.Lookup(ex.Name)
		if !ok {
			return value.Value{}, &errs.UnboundName{Name: ex.Name}
		}
		return v.Clone(), nil

	case *ast.UnaryExpr:
		return e.evalUnary(ex)

	case *ast.BinaryExpr:
		return e.evalBinary(ex)

	case *ast.AssignExpr:
		return e.evalAssign(ex)

	case *ast.CallExpr:
		return e.evalCall(ex)

	case *ast.IndexExpr:
		get, _, err := e.resolveLValue(ex)
		if err != nil {
			return value.Value{}, err
		}
		return get()

	case *ast.PropertyExpr:
		get, _, err := e.resolveLValue(ex)
		if err != nil {
			return value.Value{}, err
		}
		return get()

	case *ast.MethodCallExpr:
		return e.evalMethodCall(ex)

	case *ast.PathExpr:
		return e.evalPath(ex)

	case *ast.ImportExpr:
		return e.evalImport(ex)

	default:
		return value.Value{}, &errs.TypeMismatch{Want: "expression", Got: "unknown"}
	}
}

func (e *Evaluator) evalArgs(exprs []ast.Expression) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.evalExpression(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Evaluator) evalUnary(ex *ast.UnaryExpr) (value.Value, error) {
	operand, err := e.evalExpression(ex.Operand)
	if err != nil {
		return value.Value{}, err
	}
	fn, ok := e.Reg.Lookup(ex.Operator, []value.TypeID{operand.TypeID()})
	if !ok {
		return value.Value{}, &errs.FunctionNotFound{Name: ex.Operator, Args: []string{string(operand.TypeID())}}
	}
	return fn([]value.Value{operand})
}

func (e *Evaluator) evalBinary(ex *ast.BinaryExpr) (value.Value, error) {
	if ex.Operator == "&&" || ex.Operator == "||" {
		return e.evalShortCircuit(ex)
	}
	left, err := e.evalExpression(ex.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.evalExpression(ex.Right)
	if err != nil {
		return value.Value{}, err
	}
	fn, ok := e.Reg.Lookup(ex.Operator, []value.TypeID{left.TypeID(), right.TypeID()})
	if !ok {
		return value.Value{}, &errs.FunctionNotFound{Name: ex.Operator, Args: []string{string(left.TypeID()), string(right.TypeID())}}
	}
	return fn([]value.Value{left, right})
}

// evalShortCircuit evaluates `&&`/`||` without invoking the registry,
// because the right operand must not be evaluated at all when the left
// operand already decides the result.
func (e *Evaluator) evalShortCircuit(ex *ast.BinaryExpr) (value.Value, error) {
	left, err := e.evalExpression(ex.Left)
	if err != nil {
		return value.Value{}, err
	}
	lb, err := value.Unwrap[bool](left)
	if err != nil {
		return value.Value{}, &errs.TypeMismatch{Want: "bool", Got: string(left.TypeID())}
	}
	if ex.Operator == "&&" && !lb {
		return value.Bln(false), nil
	}
	if ex.Operator == "||" && lb {
		return value.Bln(true), nil
	}
	right, err := e.evalExpression(ex.Right)
	if err != nil {
		return value.Value{}, err
	}
	rb, err := value.Unwrap[bool](right)
	if err != nil {
		return value.Value{}, &errs.TypeMismatch{Want: "bool", Got: string(right.TypeID())}
	}
	return value.Bln(rb), nil
}

func (e *Evaluator) evalCall(ex *ast.CallExpr) (value.Value, error) {
	args, err := e.evalArgs(ex.Args)
	if err != nil {
		return value.Value{}, err
	}
	if fn, ok := e.funcs[funcKey(ex.Callee.Name, len(args))]; ok {
		return e.callScriptFunction(fn, args)
	}
	if inv, ok := e.Reg.Lookup(ex.Callee.Name, registry.TypeIDs(args)); ok {
		return inv(args)
	}
	argTypes := make([]string, len(args))
	for i, a := range args {
		argTypes[i] = string(a.TypeID())
	}
	return value.Value{}, &errs.FunctionNotFound{Name: ex.Callee.Name, Args: argTypes}
}

// callScriptFunction invokes a script-defined function in a fresh call
// scope derived from a snapshot of the top-level bindings visible so far,
// plus its parameters — never the caller's block-local bindings, since rill
// script functions have no closures.
func (e *Evaluator) callScriptFunction(fn *ast.FunctionDecl, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.Parameters) {
		argTypes := make([]string, len(args))
		for i, a := range args {
			argTypes[i] = string(a.TypeID())
		}
		return value.Value{}, &errs.FunctionNotFound{Name: fn.Name, Args: argTypes}
	}
	e.callDepth++
	if e.MaxCallDepth > 0 && e.callDepth > e.MaxCallDepth {
		e.callDepth--
		return value.Value{}, &errs.StackOverflow{MaxDepth: e.MaxCallDepth}
	}
	defer func() { e.callDepth-- }()

	callerScope := e.Scope
	e.Scope = callerScope.Snapshot(e.topLevelMark)
	for i, p := range fn.Parameters {
		e.Scope.Push(p.Name, args[i])
	}

	result, sig, err := e.evalBlock(fn.Body)
	e.Scope = callerScope
	if err != nil {
		return value.Value{}, err
	}
	if sig.kind == sigBreak {
		return value.Value{}, &errs.ControlFlowLeak{Keyword: "break"}
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	return result, nil
}

func (e *Evaluator) evalMethodCall(ex *ast.MethodCallExpr) (value.Value, error) {
	get, set, err := e.resolveLValue(ex.Target)
	if err != nil {
		return value.Value{}, err
	}
	self, err := get()
	if err != nil {
		return value.Value{}, err
	}
	args, err := e.evalArgs(ex.Args)
	if err != nil {
		return value.Value{}, err
	}
	inv, ok := e.Reg.LookupMethod(ex.Name, self.TypeID(), registry.TypeIDs(args))
	if !ok {
		argTypes := make([]string, len(args)+1)
		argTypes[0] = string(self.TypeID())
		for i, a := range args {
			argTypes[i+1] = string(a.TypeID())
		}
		return value.Value{}, &errs.FunctionNotFound{Name: ex.Name, Args: argTypes}
	}
	result, newSelf, err := inv(self, args)
	if err != nil {
		return value.Value{}, err
	}
	if set != nil {
		if err := set(newSelf); err != nil {
			return value.Value{}, err
		}
	}
	return result, nil
}

func (e *Evaluator) evalPath(ex *ast.PathExpr) (value.Value, error) {
	mv, ok := e.Scope.Lookup(ex.Module.Name)
	if !ok {
		return value.Value{}, &errs.UnboundName{Name: ex.Module.Name}
	}
	mod, err := value.Unwrap[*module.Module](mv)
	if err != nil {
		return value.Value{}, &errs.TypeMismatch{Want: "module", Got: string(mv.TypeID())}
	}
	v, ok := mod.Vars[ex.Name]
	if !ok {
		return value.Value{}, &errs.UnboundName{Name: ex.Module.Name + "::" + ex.Name}
	}
	return v.Clone(), nil
}

func (e *Evaluator) evalImport(ex *ast.ImportExpr) (value.Value, error) {
	pathVal, err := e.evalExpression(ex.Path)
	if err != nil {
		return value.Value{}, err
	}
	path, err := value.Unwrap[string](pathVal)
	if err != nil {
		return value.Value{}, &errs.TypeMismatch{Want: "string", Got: string(pathVal.TypeID())}
	}
	mod, err := e.Loader.Load(path)
	if err != nil {
		return value.Value{}, err
	}
	return e.Types.Wrap(value.Module, mod)
}

func (e *Evaluator) evalAssign(ex *ast.AssignExpr) (value.Value, error) {
	get, set, err := e.resolveLValue(ex.Target)
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := e.evalExpression(ex.Value)
	if err != nil {
		return value.Value{}, err
	}
	newVal := rhs
	if ex.Operator != "" {
		cur, err := get()
		if err != nil {
			return value.Value{}, err
		}
		fn, ok := e.Reg.Lookup(ex.Operator, []value.TypeID{cur.TypeID(), rhs.TypeID()})
		if !ok {
			return value.Value{}, &errs.FunctionNotFound{Name: ex.Operator, Args: []string{string(cur.TypeID()), string(rhs.TypeID())}}
		}
		newVal, err = fn([]value.Value{cur, rhs})
		if err != nil {
			return value.Value{}, err
		}
	}
	if err := set(newVal); err != nil {
		return value.Value{}, err
	}
	return newVal, nil
}

// lvalueGetter reads the current value an lvalue expression denotes.
type lvalueGetter func() (value.Value, error)

// lvalueSetter writes a new value into the slot an lvalue expression
// denotes.
type lvalueSetter func(value.Value) error

// resolveLValue builds a get/set pair for the recognized lvalue shapes: a
// bare identifier, or a chain of index/property steps ending at one. Writes
// go through the chain by reading the whole containing value, mutating a
// private copy, and writing it back through the parent's own setter — a
// two-phase design so that a `.method()` or `.field = x` mutation on a
// nested value is visible after the statement even though every Value read
// is an independent clone.
func (e *Evaluator) resolveLValue(expr ast.Expression) (lvalueGetter, lvalueSetter, error) {
	switch ex := expr.(type) {
	case *ast.Ident:
		name := ex.Name
		get := func() (value.Value, error) {
			v, ok := e.Scope.Lookup(name)
			if !ok {
				return value.Value{}, &errs.UnboundName{Name: name}
			}
			return v.Clone(), nil
		}
		set := func(v value.Value) error {
			if !e.Scope.Assign(name, v) {
				return &errs.UnboundName{Name: name}
			}
			return nil
		}
		return get, set, nil

	case *ast.IndexExpr:
		targetGet, targetSet, err := e.resolveLValue(ex.Target)
		if err != nil {
			return nil, nil, err
		}
		idxVal, err := e.evalExpression(ex.Index)
		if err != nil {
			return nil, nil, err
		}
		get := func() (value.Value, error) {
			containerVal, err := targetGet()
			if err != nil {
				return value.Value{}, err
			}
			getIdx, ok := e.Reg.LookupIndexGet(containerVal.TypeID())
			if !ok {
				return value.Value{}, &errs.TypeMismatch{Want: "indexable", Got: string(containerVal.TypeID())}
			}
			return getIdx(containerVal, idxVal)
		}
		set := func(v value.Value) error {
			containerVal, err := targetGet()
			if err != nil {
				return err
			}
			setIdx, ok := e.Reg.LookupIndexSet(containerVal.TypeID())
			if !ok {
				return &errs.TypeMismatch{Want: "indexable", Got: string(containerVal.TypeID())}
			}
			newContainer, err := setIdx(containerVal, idxVal, v)
			if err != nil {
				return err
			}
			return targetSet(newContainer)
		}
		return get, set, nil

	case *ast.PropertyExpr:
		targetGet, targetSet, err := e.resolveLValue(ex.Target)
		if err != nil {
			return nil, nil, err
		}
		name := ex.Name
		get := func() (value.Value, error) {
			self, err := targetGet()
			if err != nil {
				return value.Value{}, err
			}
			getter, ok := e.Reg.LookupGetter(name, self.TypeID())
			if !ok {
				return value.Value{}, &errs.FunctionNotFound{Name: name, Args: []string{string(self.TypeID())}}
			}
			return getter([]value.Value{self})
		}
		set := func(v value.Value) error {
			self, err := targetGet()
			if err != nil {
				return err
			}
			setter, ok := e.Reg.LookupSetter(name, self.TypeID())
			if !ok {
				return &errs.FunctionNotFound{Name: name, Args: []string{string(self.TypeID())}}
			}
			newSelf, err := setter(self, v)
			if err != nil {
				return err
			}
			return targetSet(newSelf)
		}
		return get, set, nil

	default:
		return nil, nil, &errs.TypeMismatch{Want: "lvalue", Got: "expression"}
	}
}
