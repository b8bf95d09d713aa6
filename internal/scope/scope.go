// Package scope implements the engine's lexical variable stack (spec.md
// §3, §4.E): an ordered sequence of (name, value) bindings with block marks,
// innermost-wins lookup, and shadowing. Unlike a chain of per-block map
// environments, this is a single flat stack for the whole evaluation, which
// is what makes the "scope depth balances across every statement" invariant
// (spec.md §8) simple to state and check.
package scope

import "github.com/rillscript/rill/internal/value"

// Scope is the ordered stack of bindings backing one evaluation.
type Scope struct {
	names  []string
	values []value.Value
}

// New creates an empty scope.
func New() *Scope {
	return &Scope{}
}

// Len returns the current number of live bindings.
func (s *Scope) Len() int { return len(s.names) }

// Mark returns the current depth, to be passed to Truncate when the
// enclosing block exits.
func (s *Scope) Mark() int { return len(s.names) }

// Truncate discards every binding pushed since mark, releasing their
// values (spec.md §5 "Resource policy": scope truncation on block exit
// releases all block-local values).
func (s *Scope) Truncate(mark int) {
	s.names = s.names[:mark]
	s.values = s.values[:mark]
}

// Push appends a new binding at the current depth (`let name = v`). This is
// the only operation that grows the stack; Snapshot builds a new Scope.
func (s *Scope) Push(name string, v value.Value) {
	s.names = append(s.names, name)
	s.values = append(s.values, v)
}

// Lookup scans from innermost (end) to outermost (start), returning the
// first binding named name. This is what makes shadowing "last write wins"
// for a given name.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return s.values[i], true
		}
	}
	return value.Value{}, false
}

// Assign overwrites the innermost binding named name in place. It does not
// create a new binding; use Push for that. Returns false if no such binding
// exists (spec.md §7: UnboundName).
func (s *Scope) Assign(name string, v value.Value) bool {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			s.values[i] = v
			return true
		}
	}
	return false
}

// Bindings returns the current top-level view of the scope as a
// name-to-value map, applying shadowing (a later push of the same name wins).
// Used to harvest a module's exported variables after it finishes running
// (spec.md §4.G).
func (s *Scope) Bindings() map[string]value.Value {
	out := make(map[string]value.Value, len(s.names))
	for i, name := range s.names {
		out[name] = s.values[i]
	}
	return out
}

// Snapshot copies the first n bindings into a fresh, independent Scope,
// cloning each value. It is how the evaluator derives a script function's
// call scope from "the engine's top-level scope" without closing over the
// caller's block-local bindings (spec.md §4.F, §9 "Script functions have no
// closures"; see DESIGN.md for the rationale).
func (s *Scope) Snapshot(n int) *Scope {
	out := &Scope{
		names:  make([]string, n),
		values: make([]value.Value, n),
	}
	copy(out.names, s.names[:n])
	for i := 0; i < n; i++ {
		out.values[i] = s.values[i].Clone()
	}
	return out
}
