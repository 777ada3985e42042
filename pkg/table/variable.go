// Package table defines the typed column-major table model produced by
// the format readers: Variable descriptors, their Domain partition, and
// the Table holding the converted column arrays.
package table

import (
	"sort"
)

// VarKind is the kind of a column variable.
type VarKind int

const (
	// Continuous variables hold floating-point values; missing is NaN.
	Continuous VarKind = iota
	// Discrete variables hold zero-based indices into an ordered value
	// list; missing is NaN.
	Discrete
	// String variables hold free text; missing is the empty string.
	String
)

// String returns the header tag for the kind.
func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	case String:
		return "string"
	}
	return "unknown"
}

// Variable describes one named, typed column. For Discrete variables,
// Values is the ordered domain and Ordered records whether that order
// was explicitly declared (as opposed to inferred and sorted).
//
// Name uniqueness is not enforced here; duplicate names are tolerated
// and disambiguated by callers.
type Variable struct {
	Name       string
	Kind       VarKind
	Values     []string
	Ordered    bool
	Attributes map[string]string
}

// NewContinuous creates a continuous variable.
func NewContinuous(name string) *Variable {
	return &Variable{Name: name, Kind: Continuous}
}

// NewString creates a string variable.
func NewString(name string) *Variable {
	return &Variable{Name: name, Kind: String}
}

// NewDiscrete creates a discrete variable over the given value list.
// ordered marks the order as explicitly declared.
func NewDiscrete(name string, values []string, ordered bool) *Variable {
	return &Variable{Name: name, Kind: Discrete, Values: values, Ordered: ordered}
}

// ValueIndex returns the zero-based index of v in the discrete domain.
func (v *Variable) ValueIndex(value string) (int, bool) {
	for i, existing := range v.Values {
		if existing == value {
			return i, true
		}
	}
	return 0, false
}

// AddValue appends a value to the discrete domain if not yet present and
// returns its index.
func (v *Variable) AddValue(value string) int {
	if i, ok := v.ValueIndex(value); ok {
		return i
	}
	v.Values = append(v.Values, value)
	return len(v.Values) - 1
}

// SetAttribute stores a key=value annotation on the variable.
func (v *Variable) SetAttribute(key, value string) {
	if v.Attributes == nil {
		v.Attributes = make(map[string]string)
	}
	v.Attributes[key] = value
}

// AttributeKeys returns the attribute keys in sorted order, for
// deterministic header output.
func (v *Variable) AttributeKeys() []string {
	keys := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
