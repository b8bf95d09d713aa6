package rill

import (
	"fmt"
	"reflect"

	"github.com/rillscript/rill/internal/registry"
	"github.com/rillscript/rill/internal/value"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// builtinGoTypes maps the built-in Go types to the TypeIDs they round-trip
// through at the script boundary. Types a host registers with RegisterType
// are kept per Engine in customTypes.
var builtinGoTypes = map[reflect.Type]value.TypeID{
	reflect.TypeOf(int64(0)):   value.Int64,
	reflect.TypeOf(float64(0)): value.Float,
	reflect.TypeOf(false):      value.Bool,
	reflect.TypeOf(""):         value.String,
}

// RegisterType declares a Go type usable as an opaque value inside scripts,
// along with the clone function called whenever a binding holding one is
// read (spec.md §4.A "register_type"). zero is any value of the type being
// registered, used only to recover its reflect.Type.
func (e *Engine) RegisterType(id value.TypeID, zero any, cloneFn func(any) any) {
	e.types.Register(id, cloneFn)
	e.goTypes()[reflect.TypeOf(zero)] = id
}

func (e *Engine) goTypes() map[reflect.Type]value.TypeID {
	if e.customTypes == nil {
		e.customTypes = make(map[reflect.Type]value.TypeID)
	}
	return e.customTypes
}

func (e *Engine) typeIDFor(t reflect.Type) (value.TypeID, error) {
	if id, ok := builtinGoTypes[t]; ok {
		return id, nil
	}
	if id, ok := e.customTypes[t]; ok {
		return id, nil
	}
	if t.Kind() == reflect.Slice {
		if _, err := e.typeIDFor(t.Elem()); err != nil {
			return "", err
		}
		return value.Array, nil
	}
	return "", fmt.Errorf("rill: unsupported Go type %s in function signature", t)
}

// RegisterFunction exposes a Go function to scripts under name, deriving its
// script-visible signature from fn's parameter and return types via
// reflection (spec.md §4.B). fn may optionally return a trailing error,
// which surfaces to the script as a runtime failure; a panic inside fn is
// recovered and reported the same way, so a misbehaving native function
// cannot crash the host (SPEC_FULL.md's ambient safety valves). Registering
// nil, a non-function value, or a function with an unsupported parameter or
// return type fails with an error.
func (e *Engine) RegisterFunction(name string, fn any) error {
	if fn == nil {
		return fmt.Errorf("rill: RegisterFunction(%q): function is nil", name)
	}
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return fmt.Errorf("rill: RegisterFunction(%q): %T is not a function", name, fn)
	}

	sig := make([]value.TypeID, rt.NumIn())
	for i := 0; i < rt.NumIn(); i++ {
		id, err := e.typeIDFor(rt.In(i))
		if err != nil {
			return fmt.Errorf("rill: RegisterFunction(%q): parameter %d: %w", name, i, err)
		}
		sig[i] = id
	}

	returnsErr := rt.NumOut() > 0 && rt.Out(rt.NumOut()-1) == errType
	valueOuts := rt.NumOut()
	if returnsErr {
		valueOuts--
	}
	if valueOuts > 1 {
		return fmt.Errorf("rill: RegisterFunction(%q): at most one value return (plus a trailing error) is supported", name)
	}
	var outID value.TypeID
	if valueOuts == 1 {
		id, err := e.typeIDFor(rt.Out(0))
		if err != nil {
			return fmt.Errorf("rill: RegisterFunction(%q): return value: %w", name, err)
		}
		outID = id
	}

	invoker := func(args []value.Value) (result value.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("rill: panic in native function %q: %v", name, r)
			}
		}()
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			gv, cerr := toGoValue(a, rt.In(i))
			if cerr != nil {
				return value.Value{}, fmt.Errorf("rill: calling %q: %w", name, cerr)
			}
			in[i] = gv
		}
		out := rv.Call(in)
		if returnsErr {
			if e, ok := out[len(out)-1].Interface().(error); ok && e != nil {
				return value.Value{}, e
			}
		}
		if valueOuts == 0 {
			return value.NewUnit(), nil
		}
		return toValue(out[0], outID, e.types)
	}

	return e.reg.Register(name, sig, registry.Invoker(invoker))
}

// RegisterMethod exposes fn as `target.name(args...)` for receivers of
// selfType and argument types argTypes. Unlike RegisterFunction, no
// reflection is involved: fn receives the receiver and the other arguments
// as dynamic values and returns the call's result plus the receiver's
// post-call state as newSelf. Since dynamic values are copies, the
// evaluator writes newSelf back into the lvalue the method was called on
// (spec.md §4.B "Mutability"); a non-mutating method returns self unchanged.
func (e *Engine) RegisterMethod(name string, selfType value.TypeID, argTypes []value.TypeID, fn func(self value.Value, args []value.Value) (result, newSelf value.Value, err error)) {
	e.reg.RegisterMethod(name, selfType, argTypes, registry.MethodInvoker(fn))
}

// RegisterGetSet exposes a Go getter/setter pair as `target.field` property
// access for receivers of selfType (spec.md §4.B "register_get_set").
func (e *Engine) RegisterGetSet(field string, selfType value.TypeID, getter func(self value.Value) (value.Value, error), setter func(self, val value.Value) (newSelf value.Value, err error)) {
	e.reg.RegisterGetSet(field, selfType, registry.Invoker(func(args []value.Value) (value.Value, error) {
		return getter(args[0])
	}), registry.SetterInvoker(setter))
}

// toGoValue converts a dynamic Value into the reflect.Value a native
// function's parameter of type want expects.
func toGoValue(v value.Value, want reflect.Type) (reflect.Value, error) {
	if want.Kind() == reflect.Slice {
		elems, err := value.Unwrap[[]value.Value](v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(want, len(elems), len(elems))
		for i, el := range elems {
			gv, err := toGoValue(el, want.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(gv)
		}
		return out, nil
	}
	raw := v.Raw()
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || !rv.Type().AssignableTo(want) {
		return reflect.Value{}, &value.TypeMismatchError{Want: value.TypeID(want.String()), Got: v.TypeID()}
	}
	return rv, nil
}

// toValue converts a native function's Go return value back into a dynamic
// Value under id.
func toValue(rv reflect.Value, id value.TypeID, types *value.TypeRegistry) (value.Value, error) {
	if id == value.Array {
		elemID, err := elemTypeID(rv.Type().Elem())
		if err != nil {
			return value.Value{}, err
		}
		elems := make([]value.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := toValue(rv.Index(i), elemID, types)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = ev
		}
		return value.Arr(elems), nil
	}
	return types.Wrap(id, rv.Interface())
}

func elemTypeID(t reflect.Type) (value.TypeID, error) {
	if id, ok := builtinGoTypes[t]; ok {
		return id, nil
	}
	return "", fmt.Errorf("rill: unsupported slice element type %s", t)
}
