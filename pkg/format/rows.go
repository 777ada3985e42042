// Package format implements the header grammar, per-column type
// inference, and the file format adapters plus their extension
// registry. Adapters produce raw row streams; the builder in this
// package turns them into typed tables.
package format

import (
	"io"
)

// RowReader yields raw rows (one []string of cell tokens per row) and
// returns io.EOF when exhausted. Implementations need not be safe for
// concurrent use.
type RowReader interface {
	Next() ([]string, error)
}

// sliceRows serves rows from an in-memory slice.
type sliceRows struct {
	rows [][]string
	pos  int
}

// NewSliceRows wraps materialized rows as a RowReader.
func NewSliceRows(rows [][]string) RowReader {
	return &sliceRows{rows: rows}
}

func (s *sliceRows) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// spliceRows replays peeked rows before continuing with the remaining
// stream; the header parser uses it to push a non-header row back.
type spliceRows struct {
	head [][]string
	rest RowReader
}

func (s *spliceRows) Next() ([]string, error) {
	if len(s.head) > 0 {
		row := s.head[0]
		s.head = s.head[1:]
		return row, nil
	}
	return s.rest.Next()
}
