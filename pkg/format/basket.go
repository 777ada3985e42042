package format

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/tabulario/tabular/pkg/encoding"
	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/table"
)

// basketFormat reads the sparse basket encoding: each line holds
// comma-separated "name" or "name=value" items (a bare name counts 1).
// Items prefixed "class:" or "meta:" go to the class/meta partition;
// everything else is an attribute. The attribute/class/meta index maps
// are embedded in the file — indices are assigned in order of first
// appearance — and Variables are built continuous directly from them,
// bypassing type inference. Cells for absent items are zero.
type basketFormat struct{}

// NewBasketFormat creates the sparse basket adapter.
func NewBasketFormat() Format {
	return &basketFormat{}
}

func (b *basketFormat) Name() string             { return "basket" }
func (b *basketFormat) Description() string      { return "Basket file" }
func (b *basketFormat) Extensions() []string     { return []string{".basket", ".bsk"} }
func (b *basketFormat) SupportsCompressed() bool { return true }

type basketSection struct {
	index map[string]int
	names []string
	// cells maps (row, column index) to the item value.
	cells map[[2]int]float64
	// raw keeps the textual value for the meta partition.
	raw map[[2]int]string
}

func newBasketSection() *basketSection {
	return &basketSection{
		index: make(map[string]int),
		cells: make(map[[2]int]float64),
		raw:   make(map[[2]int]string),
	}
}

func (s *basketSection) add(row int, name string, value float64, raw string) {
	idx, ok := s.index[name]
	if !ok {
		idx = len(s.names)
		s.index[name] = idx
		s.names = append(s.names, name)
	}
	s.cells[[2]int{row, idx}] = value
	s.raw[[2]int{row, idx}] = raw
}

func (s *basketSection) variables() []*table.Variable {
	vars := make([]*table.Variable, len(s.names))
	for i, name := range s.names {
		vars[i] = table.NewContinuous(name)
	}
	return vars
}

func (s *basketSection) floatColumns(rows int) [][]float64 {
	cols := make([][]float64, len(s.names))
	for j := range cols {
		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = s.cells[[2]int{i, j}]
		}
		cols[j] = col
	}
	return cols
}

func (s *basketSection) stringColumns(rows int) [][]string {
	cols := make([][]string, len(s.names))
	for j := range cols {
		col := make([]string, rows)
		for i := 0; i < rows; i++ {
			col[i] = s.raw[[2]int{i, j}]
		}
		cols[j] = col
	}
	return cols
}

// ReadTable parses a basket file.
func (b *basketFormat) ReadTable(filename string) (*table.Table, error) {
	rc, err := encoding.OpenCompressed(filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	attrs := newBasketSection()
	classes := newBasketSection()
	metas := newBasketSection()

	rows := 0
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, item := range strings.Split(line, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			section := attrs
			switch {
			case strings.HasPrefix(item, "class:"):
				section, item = classes, strings.TrimSpace(item[len("class:"):])
			case strings.HasPrefix(item, "meta:"):
				section, item = metas, strings.TrimSpace(item[len("meta:"):])
			}

			name, raw := item, "1"
			value := 1.0
			if idx := strings.Index(item, "="); idx >= 0 {
				name, raw = strings.TrimSpace(item[:idx]), strings.TrimSpace(item[idx+1:])
				if section != metas {
					value, err = strconv.ParseFloat(raw, 64)
					if err != nil {
						return nil, errors.Newf(errors.ErrorTypeParse,
							"invalid basket value %q at line %d of %s", raw, rows+1, filename)
					}
				}
			}
			if name == "" {
				return nil, errors.Newf(errors.ErrorTypeParse,
					"empty basket item at line %d of %s", rows+1, filename)
			}
			section.add(rows, name, value, raw)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot read "+filename)
	}
	if rows == 0 {
		return nil, errors.New(errors.ErrorTypeData, "file contains no usable columns")
	}

	domain := table.NewDomain(attrs.variables(), classes.variables(), metas.variables())
	return table.New(domain,
		attrs.floatColumns(rows),
		classes.floatColumns(rows),
		metas.stringColumns(rows),
		nil)
}
