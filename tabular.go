package tabular

import (
	"github.com/tabulario/tabular/pkg/format"
	"github.com/tabulario/tabular/pkg/table"
)

// Read loads a typed table from filename. The format adapter is chosen
// by extension; compressed variants (.gz, .bz2, .xz) resolve to the
// underlying format when it supports transparent compression.
func Read(filename string) (*table.Table, error) {
	return format.Read(filename)
}

// Write stores a typed table to filename, choosing the adapter by
// extension just like Read.
func Write(filename string, t *table.Table) error {
	return format.Write(filename, t)
}
