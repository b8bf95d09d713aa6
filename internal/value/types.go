package value

// TypeRegistry tracks which host types have been declared usable inside the
// engine, and how to clone each one. One TypeRegistry belongs to exactly
// one engine instance.
type TypeRegistry struct {
	clone map[TypeID]func(any) any
}

// NewTypeRegistry creates a registry pre-loaded with the engine's built-in
// primitive types: 64-bit integer, float, bool, char, string, unit, and
// array-of-dynamic-value.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{clone: make(map[TypeID]func(any) any)}
	r.clone[Int64] = func(a any) any { return a }
	r.clone[Float] = func(a any) any { return a }
	r.clone[Bool] = func(a any) any { return a }
	r.clone[Char] = func(a any) any { return a }
	r.clone[String] = func(a any) any { return a }
	r.clone[Unit] = func(a any) any { return a }
	r.clone[Array] = func(a any) any {
		src := a.([]Value)
		dst := make([]Value, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return dst
	}
	r.clone[Module] = func(a any) any { return a } // modules are immutable after load; shared by reference
	return r
}

// Register declares a host type as usable with the given TypeID, supplying
// its clone capability. Re-registering an existing id replaces its clone
// function (used by pkg/rill when a host re-registers the same Go type).
func (r *TypeRegistry) Register(id TypeID, cloneFn func(any) any) {
	r.clone[id] = cloneFn
}

// Registered reports whether id has a clone function on file.
func (r *TypeRegistry) Registered(id TypeID) bool {
	_, ok := r.clone[id]
	return ok
}

// Wrap boxes payload as a dynamic Value under id. Fails with
// *UnregisteredTypeError if id was never declared via Register.
func (r *TypeRegistry) Wrap(id TypeID, payload any) (Value, error) {
	fn, ok := r.clone[id]
	if !ok {
		return Value{}, &UnregisteredTypeError{Type: id}
	}
	return New(id, payload, fn), nil
}

// MustWrap is Wrap for callers (typically built-in bootstrap code) that know
// the type is registered and want to avoid a spurious error check.
func (r *TypeRegistry) MustWrap(id TypeID, payload any) Value {
	v, err := r.Wrap(id, payload)
	if err != nil {
		panic(err)
	}
	return v
}

// UnregisteredTypeError is returned when the host asks to wrap a value of a
// type it never declared with register_type.
type UnregisteredTypeError struct {
	Type TypeID
}

func (e *UnregisteredTypeError) Error() string {
	return "type not registered: " + string(e.Type)
}

// Int wraps a plain int64 as a dynamic value.
func Int(n int64) Value { return New(Int64, n, func(a any) any { return a }) }

// Flt wraps a plain float64 as a dynamic value.
func Flt(f float64) Value { return New(Float, f, func(a any) any { return a }) }

// Bln wraps a plain bool as a dynamic value.
func Bln(b bool) Value { return New(Bool, b, func(a any) any { return a }) }

// Chr wraps a single rune as a dynamic value.
func Chr(c rune) Value { return New(Char, c, func(a any) any { return a }) }

// Str wraps a plain string as a dynamic value.
func Str(s string) Value { return New(String, s, func(a any) any { return a }) }

// Arr wraps a slice of dynamic values as an array value. The clone function
// deep-clones each element, matching NewTypeRegistry's Array registration.
func Arr(elems []Value) Value {
	return New(Array, elems, func(a any) any {
		src := a.([]Value)
		dst := make([]Value, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return dst
	})
}
