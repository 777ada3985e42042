package table

import (
	"sync"
)

// VarRegistry keeps one canonical Variable per (name, kind), so that a
// named discrete variable parsed from several files keeps a single
// index space: the first-established value ordering wins, and values
// unseen by it are appended rather than renumbered.
//
// The process-wide registry is shared between loads; a fresh registry
// can be scoped to a read batch to keep unrelated concurrent loads from
// cross-talking. All methods are safe for concurrent use.
type VarRegistry struct {
	mu   sync.Mutex
	vars map[varKey]*Variable
}

type varKey struct {
	name string
	kind VarKind
}

// NewVarRegistry creates an empty registry.
func NewVarRegistry() *VarRegistry {
	return &VarRegistry{vars: make(map[varKey]*Variable)}
}

var globalRegistry = NewVarRegistry()

// Global returns the process-wide registry.
func Global() *VarRegistry {
	return globalRegistry
}

// Make returns the canonical Variable for (name, kind), creating it on
// first use. For discrete variables with an inferred (unordered) value
// list, an existing registration keeps its established ordering and
// absorbs any new values at the end. An explicitly ordered value list
// reuses the registration only when the orderings agree exactly;
// otherwise the declared order wins in a standalone variable.
func (r *VarRegistry) Make(name string, kind VarKind, values []string, ordered bool) *Variable {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := varKey{name: name, kind: kind}
	existing, ok := r.vars[key]

	if kind != Discrete {
		if ok {
			return existing
		}
		v := &Variable{Name: name, Kind: kind}
		r.vars[key] = v
		return v
	}

	if ok {
		if ordered && !sameValues(existing.Values, values) {
			return NewDiscrete(name, values, true)
		}
		for _, val := range values {
			existing.AddValue(val)
		}
		return existing
	}

	v := NewDiscrete(name, append([]string(nil), values...), ordered)
	r.vars[key] = v
	return v
}

// Clear drops all registrations (mainly for tests).
func (r *VarRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars = make(map[varKey]*Variable)
}

func sameValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
