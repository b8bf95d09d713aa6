// Package value implements the engine's dynamic value: a type-erased
// container holding any clonable host value plus a stable type identity.
// It is the one place a statically-typed host value crosses into the
// dynamically-typed script world.
package value

import "fmt"

// TypeID is a stable token uniquely identifying a registered host type.
// Two values interoperate (may be compared, passed to the same registry
// overload, etc.) only when their TypeIDs are equal.
type TypeID string

// Pre-registered primitive type identities.
const (
	Int64  TypeID = "int64"
	Float  TypeID = "float64"
	Bool   TypeID = "bool"
	Char   TypeID = "char"
	String TypeID = "string"
	Unit   TypeID = "unit"
	Array  TypeID = "array"
	Module TypeID = "module"
)

// Value is a dynamic value: a type identity token plus an opaque payload
// that can be cloned and moved. Every registered host type must supply a
// clone function; reads from a binding always produce an independent copy.
type Value struct {
	typeID  TypeID
	payload any
	cloneFn func(any) any
}

// New wraps a payload under the given type identity with the clone function
// the type was registered with. Host code should not call this directly;
// use a *TypeRegistry (or the pkg/rill embedding API), which looks
// up cloneFn from the registration.
func New(id TypeID, payload any, cloneFn func(any) any) Value {
	return Value{typeID: id, payload: payload, cloneFn: cloneFn}
}

// TypeID returns the value's stable type identity.
func (v Value) TypeID() TypeID { return v.typeID }

// Raw returns the underlying payload, for use by the evaluator and registry
// dispatch machinery. Host code should prefer Unwrap.
func (v Value) Raw() any { return v.payload }

// IsUnit reports whether v is the unit value (the result of statements and
// void-returning calls).
func (v Value) IsUnit() bool { return v.typeID == Unit }

// Clone produces an independent copy of v using the clone function supplied
// at registration. Types registered without a clone function (which should
// not happen for anything reachable from script code) are returned as-is.
func (v Value) Clone() Value {
	if v.cloneFn == nil {
		return v
	}
	return Value{typeID: v.typeID, payload: v.cloneFn(v.payload), cloneFn: v.cloneFn}
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.typeID, v.payload)
}

// unitValue is the canonical empty-tuple value returned by statements and
// functions declared without a result.
var unitValue = Value{typeID: Unit, payload: struct{}{}}

// NewUnit returns the canonical unit value.
func NewUnit() Value { return unitValue }

// TypeMismatchError is returned by Unwrap when a dynamic value's runtime
// type identity does not match the type requested by the caller.
type TypeMismatchError struct {
	Want TypeID
	Got  TypeID
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
}

// Unwrap extracts the Go value of type T from v, failing with
// *TypeMismatchError if the payload is not a T.
func Unwrap[T any](v Value) (T, error) {
	t, ok := v.payload.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Want: TypeID(fmt.Sprintf("%T", zero)), Got: v.typeID}
	}
	return t, nil
}
