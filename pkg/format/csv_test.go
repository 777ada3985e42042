package format

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabulario/tabular/pkg/table"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		fallback rune
		want     rune
	}{
		{"semicolons", "a;b;c\n1;2;3\n4;5;6\n", ',', ';'},
		{"tabs", "a\tb\n1\t2\n", ',', '\t'},
		{"commas beat fallback", "a,b,c\n1,2,3\n", '\t', ','},
		{"inconsistent counts fall back", "a;b\n1;2;3\n", ',', ','},
		{"no delimiter", "abc\ndef\n", ',', ','},
		{"empty sample", "", '\t', '\t'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffDelimiter(tt.sample, tt.fallback))
		})
	}
}

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	reg := table.NewVarRegistry()
	tab, err := DataTable(NewSliceRows([][]string{
		{"size", "grade", "name", "w"},
		{"continuous", "small big", "string", "continuous"},
		{"", "class", "meta", "weight"},
		{"1.5", "big", "Ann", "1"},
		{"?", "small", "", "2"},
	}), &BuildOptions{Registry: reg})
	require.NoError(t, err)
	return tab
}

func assertSampleTable(t *testing.T, tab *table.Table) {
	t.Helper()
	assert.Equal(t, 2, tab.NRows())

	require.Len(t, tab.Domain.Attributes, 1)
	assert.Equal(t, "size", tab.Domain.Attributes[0].Name)
	assert.Equal(t, 1.5, tab.X[0][0])
	assert.True(t, math.IsNaN(tab.X[0][1]))

	require.Len(t, tab.Domain.ClassVars, 1)
	grade := tab.Domain.ClassVars[0]
	assert.Equal(t, []string{"small", "big"}, grade.Values)
	assert.True(t, grade.Ordered)
	assert.Equal(t, []float64{1, 0}, tab.Y[0])

	require.Len(t, tab.Metas, 1)
	assert.Equal(t, []string{"Ann", ""}, tab.Metas[0])

	require.Len(t, tab.W, 1)
	assert.Equal(t, []float64{1, 2}, tab.W[0])
}

func TestCSVRoundTrip(t *testing.T) {
	tab := sampleTable(t)

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, Write(path, tab))

	got, err := Read(path)
	require.NoError(t, err)
	assertSampleTable(t, got)
}

func TestCSVRoundTripCompressed(t *testing.T) {
	tab := sampleTable(t)

	for _, ext := range []string{".gz", ".bz2", ".xz"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv"+ext)
			require.NoError(t, Write(path, tab))

			got, err := Read(path)
			require.NoError(t, err)
			assertSampleTable(t, got)
		})
	}
}

func TestTabRoundTrip(t *testing.T) {
	tab := sampleTable(t)

	path := filepath.Join(t.TempDir(), "data.tab")
	require.NoError(t, Write(path, tab))

	f, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(f), "weights_0\tsize\tgrade\tname")

	got, err := Read(path)
	require.NoError(t, err)
	assertSampleTable(t, got)
}

func TestReadPlainHeaderWithClassInference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,cls\n1,2,x\n3,4,y\n"), 0o644))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, got.NRows())
	require.Len(t, got.Domain.Attributes, 2)
	assert.Equal(t, "a", got.Domain.Attributes[0].Name)
	assert.Equal(t, table.Continuous, got.Domain.Attributes[0].Kind)
	assert.Equal(t, table.Continuous, got.Domain.Attributes[1].Kind)
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, got.X)

	require.Len(t, got.Domain.ClassVars, 1)
	cls := got.Domain.ClassVars[0]
	assert.Equal(t, "cls", cls.Name)
	assert.Equal(t, table.Discrete, cls.Kind)
	assert.Equal(t, []string{"x", "y"}, cls.Values)
	assert.Equal(t, []float64{0, 1}, got.Y[0])
}

func TestReadSniffsNonDefaultDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "size;grade\ncontinuous;small big\n;class\n1.5;big\n2.5;small\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NRows())
	require.Len(t, got.Domain.Attributes, 1)
	assert.Equal(t, "size", got.Domain.Attributes[0].Name)
	assert.True(t, got.Domain.HasClass())
}

func TestCSVRoundTripSingleValueDiscrete(t *testing.T) {
	domain := table.NewDomain(
		[]*table.Variable{table.NewContinuous("amount")},
		[]*table.Variable{table.NewDiscrete("outcome", []string{"only"}, true)},
		nil)
	tab, err := table.New(domain, [][]float64{{1, 2}}, [][]float64{{0, 0}}, nil, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, Write(path, tab))

	// A one-token value list would not survive the trip, so the writer
	// falls back to the plain type tag for degenerate domains.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "continuous,discrete")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NRows())
	require.Len(t, got.Domain.ClassVars, 1)
	assert.Equal(t, []string{"only"}, got.Domain.ClassVars[0].Values)
	assert.Equal(t, []float64{0, 0}, got.Y[0])
}
