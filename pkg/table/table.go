package table

import (
	"github.com/tabulario/tabular/pkg/errors"
)

// Table owns a Domain and four column-major arrays: X (attributes,
// float), Y (class vars, float), Metas (text), W (weights, float).
// Each outer slice holds one column; every column of every partition
// has NRows entries. NaN is the numeric missing marker, "" the string
// one.
//
// A Table is a value object constructed once per successful parse.
type Table struct {
	Domain *Domain
	X      [][]float64
	Y      [][]float64
	Metas  [][]string
	W      [][]float64

	rows int
}

// New assembles a table and verifies the partition invariants: column
// counts match the domain and all columns share one row count.
func New(domain *Domain, x, y [][]float64, metas [][]string, w [][]float64) (*Table, error) {
	if len(x) != len(domain.Attributes) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"attribute columns (%d) do not match domain (%d)", len(x), len(domain.Attributes))
	}
	if len(y) != len(domain.ClassVars) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"class columns (%d) do not match domain (%d)", len(y), len(domain.ClassVars))
	}
	if len(metas) != len(domain.Metas) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"meta columns (%d) do not match domain (%d)", len(metas), len(domain.Metas))
	}

	rows := -1
	check := func(n int) bool {
		if rows == -1 {
			rows = n
		}
		return n == rows
	}
	for _, col := range x {
		if !check(len(col)) {
			return nil, errors.New(errors.ErrorTypeData, "ragged attribute columns")
		}
	}
	for _, col := range y {
		if !check(len(col)) {
			return nil, errors.New(errors.ErrorTypeData, "ragged class columns")
		}
	}
	for _, col := range metas {
		if !check(len(col)) {
			return nil, errors.New(errors.ErrorTypeData, "ragged meta columns")
		}
	}
	for _, col := range w {
		if !check(len(col)) {
			return nil, errors.New(errors.ErrorTypeData, "ragged weight columns")
		}
	}
	if rows == -1 {
		rows = 0
	}

	return &Table{Domain: domain, X: x, Y: y, Metas: metas, W: w, rows: rows}, nil
}

// Empty creates a zero-row table over the given domain.
func Empty(domain *Domain) *Table {
	x := make([][]float64, len(domain.Attributes))
	for i := range x {
		x[i] = []float64{}
	}
	y := make([][]float64, len(domain.ClassVars))
	for i := range y {
		y[i] = []float64{}
	}
	metas := make([][]string, len(domain.Metas))
	for i := range metas {
		metas[i] = []string{}
	}
	return &Table{Domain: domain, X: x, Y: y, Metas: metas, rows: 0}
}

// NRows returns the number of data rows.
func (t *Table) NRows() int {
	return t.rows
}

// NCols returns the number of domain columns (attributes + class vars +
// metas), excluding weights.
func (t *Table) NCols() int {
	return len(t.X) + len(t.Y) + len(t.Metas)
}
