package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarKindString(t *testing.T) {
	assert.Equal(t, "continuous", Continuous.String())
	assert.Equal(t, "discrete", Discrete.String())
	assert.Equal(t, "string", String.String())
}

func TestVariableValues(t *testing.T) {
	v := NewDiscrete("grade", []string{"low", "high"}, false)

	idx, ok := v.ValueIndex("high")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = v.ValueIndex("medium")
	assert.False(t, ok)

	assert.Equal(t, 2, v.AddValue("medium"))
	assert.Equal(t, 2, v.AddValue("medium"))
	assert.Equal(t, []string{"low", "high", "medium"}, v.Values)
}

func TestVariableAttributes(t *testing.T) {
	v := NewContinuous("size")
	v.SetAttribute("unit", "cm")
	v.SetAttribute("align", "left")

	assert.Equal(t, []string{"align", "unit"}, v.AttributeKeys())
	assert.Equal(t, "cm", v.Attributes["unit"])
}

func TestDomainVariablesOrder(t *testing.T) {
	a := NewContinuous("a")
	y := NewDiscrete("y", []string{"0", "1"}, false)
	m := NewString("m")
	d := NewDomain([]*Variable{a}, []*Variable{y}, []*Variable{m})

	assert.Equal(t, []*Variable{a, y, m}, d.Variables())
	assert.True(t, d.HasClass())
	assert.False(t, NewDomain(nil, nil, nil).HasClass())
}

func TestTableNewInvariants(t *testing.T) {
	domain := NewDomain(
		[]*Variable{NewContinuous("a"), NewContinuous("b")},
		nil,
		[]*Variable{NewString("m")},
	)

	tab, err := New(domain,
		[][]float64{{1, 2}, {3, 4}},
		nil,
		[][]string{{"x", "y"}},
		[][]float64{{1, 1}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tab.NRows())
	assert.Equal(t, 3, tab.NCols())

	_, err = New(domain, [][]float64{{1}}, nil, [][]string{{"x"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute columns")

	_, err = New(domain, [][]float64{{1}, {2, 3}}, nil, [][]string{{"x"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestTableEmpty(t *testing.T) {
	domain := NewDomain([]*Variable{NewContinuous("a")}, nil, []*Variable{NewString("m")})
	tab := Empty(domain)

	assert.Equal(t, 0, tab.NRows())
	require.Len(t, tab.X, 1)
	assert.Empty(t, tab.X[0])
	require.Len(t, tab.Metas, 1)
}

func TestRegistryReusesNonDiscrete(t *testing.T) {
	reg := NewVarRegistry()

	a := reg.Make("size", Continuous, nil, false)
	b := reg.Make("size", Continuous, nil, false)
	assert.Same(t, a, b)

	// Same name, different kind: a distinct variable.
	s := reg.Make("size", String, nil, false)
	assert.NotSame(t, a, s)
}

func TestRegistryDiscreteFirstOrderingWins(t *testing.T) {
	reg := NewVarRegistry()

	first := reg.Make("grade", Discrete, []string{"b", "a"}, false)
	assert.Equal(t, []string{"b", "a"}, first.Values)

	second := reg.Make("grade", Discrete, []string{"a", "c"}, false)
	assert.Same(t, first, second)
	assert.Equal(t, []string{"b", "a", "c"}, second.Values)
}

func TestRegistryOrderedMismatchStandsAlone(t *testing.T) {
	reg := NewVarRegistry()

	first := reg.Make("grade", Discrete, []string{"low", "high"}, true)

	same := reg.Make("grade", Discrete, []string{"low", "high"}, true)
	assert.Same(t, first, same)

	other := reg.Make("grade", Discrete, []string{"high", "low"}, true)
	assert.NotSame(t, first, other)
	assert.Equal(t, []string{"high", "low"}, other.Values)
	// The registration keeps its established ordering.
	assert.Equal(t, []string{"low", "high"}, first.Values)
}

func TestRegistryClear(t *testing.T) {
	reg := NewVarRegistry()
	a := reg.Make("x", Continuous, nil, false)
	reg.Clear()
	b := reg.Make("x", Continuous, nil, false)
	assert.NotSame(t, a, b)
}

func TestNameGen(t *testing.T) {
	g := NewNameGen("Feature ", 1)
	assert.Equal(t, "Feature 1", g.Next())
	assert.Equal(t, "Feature 2", g.Next())
}
