package eval

import (
	"github.com/rillscript/rill/internal/errs"
	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

// OverflowMode toggles integer-arithmetic overflow behavior for the
// operators Bootstrap installs. Go's arithmetic already wraps silently, so
// the default (Checked == false) needs no special handling; WithOverflowChecked
// flips this on and the add/sub/mul operators below start checking for a
// sign-rule violation and returning *errs.ArithmeticError.
type OverflowMode struct {
	Checked bool
}

// Bootstrap installs rill's built-in operators into reg: arithmetic,
// comparison, logical negation, and shifts over the primitive types.
// Short-circuit `&&`/`||` are handled directly by the evaluator and are not
// registered here.
func Bootstrap(reg *registry.Registry, overflow *OverflowMode) {
	registerArithmetic(reg, overflow)
	registerComparisons(reg)
	registerLogical(reg)
	registerShifts(reg)
	registerArrayIndexing(reg)
}

// registerArrayIndexing installs the array's own `[index]` get/set pair
// through the same reserved indexing dispatch (spec.md §4.F) that lets a
// host-registered type become indexable alongside the built-in array, kept
// here since it is one more built-in-type overload rather than a host
// extension.
func registerArrayIndexing(reg *registry.Registry) {
	reg.RegisterIndexGet(value.Array, func(self, index value.Value) (value.Value, error) {
		arr, err := value.Unwrap[[]value.Value](self)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := value.Unwrap[int64](index)
		if err != nil {
			return value.Value{}, &errs.TypeMismatch{Want: "int64", Got: string(index.TypeID())}
		}
		if idx < 0 || int(idx) >= len(arr) {
			return value.Value{}, &errs.IndexOutOfBounds{Index: idx, Len: len(arr)}
		}
		return arr[idx].Clone(), nil
	})
	reg.RegisterIndexSet(value.Array, func(self, index, val value.Value) (value.Value, error) {
		arr, err := value.Unwrap[[]value.Value](self)
		if err != nil {
			return value.Value{}, err
		}
		idx, err := value.Unwrap[int64](index)
		if err != nil {
			return value.Value{}, &errs.TypeMismatch{Want: "int64", Got: string(index.TypeID())}
		}
		if idx < 0 || int(idx) >= len(arr) {
			return value.Value{}, &errs.IndexOutOfBounds{Index: idx, Len: len(arr)}
		}
		arr[idx] = val
		return value.Arr(arr), nil
	})
}

func registerArithmetic(reg *registry.Registry, overflow *OverflowMode) {
	reg.Override("+", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		a, b := args[0].Raw().(int64), args[1].Raw().(int64)
		sum := a + b
		if overflow.Checked && ((a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0)) {
			return value.Value{}, &errs.ArithmeticError{Reason: "integer overflow in +"}
		}
		return value.Int(sum), nil
	})
	reg.Override("+", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Flt(args[0].Raw().(float64) + args[1].Raw().(float64)), nil
	})
	reg.Override("+", []value.TypeID{value.String, value.String}, func(args []value.Value) (value.Value, error) {
		return value.Str(args[0].Raw().(string) + args[1].Raw().(string)), nil
	})

	reg.Override("-", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		a, b := args[0].Raw().(int64), args[1].Raw().(int64)
		diff := a - b
		if overflow.Checked && ((b > 0 && diff > a) || (b < 0 && diff < a)) {
			return value.Value{}, &errs.ArithmeticError{Reason: "integer overflow in -"}
		}
		return value.Int(diff), nil
	})
	reg.Override("-", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Flt(args[0].Raw().(float64) - args[1].Raw().(float64)), nil
	})

	reg.Override("*", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		a, b := args[0].Raw().(int64), args[1].Raw().(int64)
		prod := a * b
		if overflow.Checked && a != 0 && prod/a != b {
			return value.Value{}, &errs.ArithmeticError{Reason: "integer overflow in *"}
		}
		return value.Int(prod), nil
	})
	reg.Override("*", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Flt(args[0].Raw().(float64) * args[1].Raw().(float64)), nil
	})

	reg.Override("/", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		a, b := args[0].Raw().(int64), args[1].Raw().(int64)
		if b == 0 {
			return value.Value{}, &errs.ArithmeticError{Reason: "division by zero"}
		}
		return value.Int(a / b), nil
	})
	reg.Override("/", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Flt(args[0].Raw().(float64) / args[1].Raw().(float64)), nil
	})

	reg.Override("%", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		a, b := args[0].Raw().(int64), args[1].Raw().(int64)
		if b == 0 {
			return value.Value{}, &errs.ArithmeticError{Reason: "modulo by zero"}
		}
		return value.Int(a % b), nil
	})

	reg.Override("-", []value.TypeID{value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Int(-args[0].Raw().(int64)), nil
	})
	reg.Override("-", []value.TypeID{value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Flt(-args[0].Raw().(float64)), nil
	})
	reg.Override("+", []value.TypeID{value.Int64}, func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	reg.Override("+", []value.TypeID{value.Float}, func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
}

func registerComparisons(reg *registry.Registry) {
	numeric := []value.TypeID{value.Int64, value.Float, value.Char, value.String}
	for _, t := range numeric {
		t := t
		reg.Override("==", []value.TypeID{t, t}, func(args []value.Value) (value.Value, error) {
			return value.Bln(args[0].Raw() == args[1].Raw()), nil
		})
		reg.Override("!=", []value.TypeID{t, t}, func(args []value.Value) (value.Value, error) {
			return value.Bln(args[0].Raw() != args[1].Raw()), nil
		})
	}
	reg.Override("==", []value.TypeID{value.Bool, value.Bool}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(bool) == args[1].Raw().(bool)), nil
	})
	reg.Override("!=", []value.TypeID{value.Bool, value.Bool}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(bool) != args[1].Raw().(bool)), nil
	})

	reg.Override("<", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(int64) < args[1].Raw().(int64)), nil
	})
	reg.Override("<=", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(int64) <= args[1].Raw().(int64)), nil
	})
	reg.Override(">", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(int64) > args[1].Raw().(int64)), nil
	})
	reg.Override(">=", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(int64) >= args[1].Raw().(int64)), nil
	})

	reg.Override("<", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(float64) < args[1].Raw().(float64)), nil
	})
	reg.Override("<=", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(float64) <= args[1].Raw().(float64)), nil
	})
	reg.Override(">", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(float64) > args[1].Raw().(float64)), nil
	})
	reg.Override(">=", []value.TypeID{value.Float, value.Float}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(float64) >= args[1].Raw().(float64)), nil
	})

	reg.Override("<", []value.TypeID{value.String, value.String}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(string) < args[1].Raw().(string)), nil
	})
	reg.Override("<=", []value.TypeID{value.String, value.String}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(string) <= args[1].Raw().(string)), nil
	})
	reg.Override(">", []value.TypeID{value.String, value.String}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(string) > args[1].Raw().(string)), nil
	})
	reg.Override(">=", []value.TypeID{value.String, value.String}, func(args []value.Value) (value.Value, error) {
		return value.Bln(args[0].Raw().(string) >= args[1].Raw().(string)), nil
	})
}

func registerLogical(reg *registry.Registry) {
	reg.Override("!", []value.TypeID{value.Bool}, func(args []value.Value) (value.Value, error) {
		return value.Bln(!args[0].Raw().(bool)), nil
	})
}

func registerShifts(reg *registry.Registry) {
	reg.Override("<<", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Int(args[0].Raw().(int64) << uint(args[1].Raw().(int64))), nil
	})
	reg.Override(">>", []value.TypeID{value.Int64, value.Int64}, func(args []value.Value) (value.Value, error) {
		return value.Int(args[0].Raw().(int64) >> uint(args[1].Raw().(int64))), nil
	})
}
