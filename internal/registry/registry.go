// Package registry implements the function registry (spec.md §4.B): a
// mapping from (name, argument-type-signature) to an invoker, the engine's
// mechanism for overload resolution. Dispatch is exact-match only — no
// implicit numeric coercions (spec.md §9).
package registry

import (
	"strings"

	"github.com/rillscript/rill/internal/value"
)

// Invoker is a native callable that has already had its dynamic arguments
// unwrapped to the host types it expects (or, for built-in operators,
// operates directly on dynamic values). Used for free functions, operators,
// getters, and the array indexing primitives.
type Invoker func(args []value.Value) (value.Value, error)

// MethodInvoker is a native callable registered for `target.name(args...)`.
// It receives the (already looked-up) receiver separately from the other
// arguments and returns both the call's result and the receiver's
// post-call state. The evaluator writes newSelf back into the lvalue slot
// that produced the receiver (spec.md §4.B "Mutability", §9 design notes).
// A non-mutating method simply returns its own self argument unchanged.
type MethodInvoker func(self value.Value, args []value.Value) (result value.Value, newSelf value.Value, err error)

// SetterInvoker is the binary half of register_get_set: it receives the
// receiver and the new field value and returns the receiver's post-call
// state, for the same write-back reason as MethodInvoker.
type SetterInvoker func(self, val value.Value) (newSelf value.Value, err error)

// IndexGetInvoker backs `target[index]` for a given receiver type (spec.md
// §4.F: "dispatch as a binary indexing name... so array and other
// indexable host types can register").
type IndexGetInvoker func(self, index value.Value) (value.Value, error)

// IndexSetInvoker backs `target[index] = value`, returning the receiver's
// post-call state for the same write-back reason as SetterInvoker.
type IndexSetInvoker func(self, index, val value.Value) (newSelf value.Value, err error)

// Registry is the (name, signature) -> invoker table described in
// spec.md §4.B. It is not safe for concurrent use by multiple goroutines
// without external synchronization (spec.md §5: one engine instance is
// single-threaded within one evaluation).
type Registry struct {
	funcs     map[string]map[string]Invoker
	methods   map[string]map[string]MethodInvoker
	getters   map[string]map[value.TypeID]Invoker
	setters   map[string]map[value.TypeID]SetterInvoker
	indexGets map[value.TypeID]IndexGetInvoker
	indexSets map[value.TypeID]IndexSetInvoker
}

// New creates an empty registry. Built-in primitive operators are installed
// separately by internal/eval's bootstrap (they are ordinary registrations,
// not special-cased by this package).
func New() *Registry {
	return &Registry{
		funcs:     make(map[string]map[string]Invoker),
		methods:   make(map[string]map[string]MethodInvoker),
		getters:   make(map[string]map[value.TypeID]Invoker),
		setters:   make(map[string]map[value.TypeID]SetterInvoker),
		indexGets: make(map[value.TypeID]IndexGetInvoker),
		indexSets: make(map[value.TypeID]IndexSetInvoker),
	}
}

func sigKey(sig []value.TypeID) string {
	parts := make([]string, len(sig))
	for i, t := range sig {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// AlreadyRegisteredError is returned by Register when the exact (name,
// signature) key already has an entry and the caller did not ask to
// override it (spec.md §9: "Reject ambiguous registrations... unless the
// intent is override").
type AlreadyRegisteredError struct {
	Name string
	Sig  []value.TypeID
}

func (e *AlreadyRegisteredError) Error() string {
	return "function already registered: " + e.Name + "(" + sigKey(e.Sig) + ")"
}

// Register adds a function overload under (name, sig). Multiple callables
// may share a name provided their signatures differ — this is the overload
// mechanism (spec.md §4.B).
func (r *Registry) Register(name string, sig []value.TypeID, fn Invoker) error {
	return r.register(name, sig, fn, false)
}

// Override behaves like Register but replaces an existing (name, sig) entry
// instead of failing.
func (r *Registry) Override(name string, sig []value.TypeID, fn Invoker) {
	_ = r.register(name, sig, fn, true)
}

func (r *Registry) register(name string, sig []value.TypeID, fn Invoker, override bool) error {
	byName, ok := r.funcs[name]
	if !ok {
		byName = make(map[string]Invoker)
		r.funcs[name] = byName
	}
	key := sigKey(sig)
	if _, exists := byName[key]; exists && !override {
		return &AlreadyRegisteredError{Name: name, Sig: sig}
	}
	byName[key] = fn
	return nil
}

// Lookup resolves (name, sig) to its invoker. Dispatch is exact-match only
// on the full signature; there is no partial match or coercion (spec.md
// §4.B "Dispatch").
func (r *Registry) Lookup(name string, sig []value.TypeID) (Invoker, bool) {
	byName, ok := r.funcs[name]
	if !ok {
		return nil, false
	}
	fn, ok := byName[sigKey(sig)]
	return fn, ok
}

// RegisterMethod adds a method overload for `target.name(args...)`.
func (r *Registry) RegisterMethod(name string, selfType value.TypeID, argTypes []value.TypeID, fn MethodInvoker) {
	byName, ok := r.methods[name]
	if !ok {
		byName = make(map[string]MethodInvoker)
		r.methods[name] = byName
	}
	sig := append([]value.TypeID{selfType}, argTypes...)
	byName[sigKey(sig)] = fn
}

// LookupMethod resolves `target.name(args...)` by (name, selfType, argTypes).
func (r *Registry) LookupMethod(name string, selfType value.TypeID, argTypes []value.TypeID) (MethodInvoker, bool) {
	byName, ok := r.methods[name]
	if !ok {
		return nil, false
	}
	sig := append([]value.TypeID{selfType}, argTypes...)
	fn, ok := byName[sigKey(sig)]
	return fn, ok
}

// RegisterGetSet registers the getter/setter pair backing `target.field`
// and `target.field = value` for a given receiver type (spec.md §4.B
// "register_get_set").
func (r *Registry) RegisterGetSet(field string, selfType value.TypeID, getter Invoker, setter SetterInvoker) {
	byType, ok := r.getters[field]
	if !ok {
		byType = make(map[value.TypeID]Invoker)
		r.getters[field] = byType
	}
	byType[selfType] = getter

	setByType, ok := r.setters[field]
	if !ok {
		setByType = make(map[value.TypeID]SetterInvoker)
		r.setters[field] = setByType
	}
	setByType[selfType] = setter
}

// LookupGetter resolves `target.field` for a given receiver type.
func (r *Registry) LookupGetter(field string, selfType value.TypeID) (Invoker, bool) {
	byType, ok := r.getters[field]
	if !ok {
		return nil, false
	}
	fn, ok := byType[selfType]
	return fn, ok
}

// LookupSetter resolves `target.field = value` for a given receiver type.
func (r *Registry) LookupSetter(field string, selfType value.TypeID) (SetterInvoker, bool) {
	byType, ok := r.setters[field]
	if !ok {
		return nil, false
	}
	fn, ok := byType[selfType]
	return fn, ok
}

// RegisterIndexGet installs the `target[index]` handler for selfType.
func (r *Registry) RegisterIndexGet(selfType value.TypeID, fn IndexGetInvoker) {
	r.indexGets[selfType] = fn
}

// RegisterIndexSet installs the `target[index] = value` handler for
// selfType.
func (r *Registry) RegisterIndexSet(selfType value.TypeID, fn IndexSetInvoker) {
	r.indexSets[selfType] = fn
}

// LookupIndexGet resolves `target[index]` for a given receiver type.
func (r *Registry) LookupIndexGet(selfType value.TypeID) (IndexGetInvoker, bool) {
	fn, ok := r.indexGets[selfType]
	return fn, ok
}

// LookupIndexSet resolves `target[index] = value` for a given receiver type.
func (r *Registry) LookupIndexSet(selfType value.TypeID) (IndexSetInvoker, bool) {
	fn, ok := r.indexSets[selfType]
	return fn, ok
}

// TypeIDs maps a slice of values to their type identities, the key used for
// every dispatch in this package (spec.md §4.A "Rationale").
func TypeIDs(vals []value.Value) []value.TypeID {
	out := make([]value.TypeID, len(vals))
	for i, v := range vals {
		out[i] = v.TypeID()
	}
	return out
}
