package format

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/table"
)

// missingSentinels are the cell tokens normalized to the missing
// marker: NaN for numeric columns, "" for string columns.
var missingSentinels = map[string]bool{
	"": true, "?": true, ".": true, "~": true, "nan": true, "NA": true,
}

// IsMissing reports whether a trimmed cell token denotes a missing
// value.
func IsMissing(cell string) bool {
	return missingSentinels[cell]
}

// BuildOptions tunes DataTable.
type BuildOptions struct {
	// Headers supplies pre-parsed header rows; when nil they are split
	// off the row stream.
	Headers [][]string
	// Registry is the variable registry for canonical discrete
	// orderings; nil uses the process-wide one.
	Registry *table.VarRegistry
}

// DataTable converts a stream of raw rows into a typed table: header
// rows are split off and normalized, each column's flags decoded, its
// kind inferred or taken from the type tag, and the converted column
// routed into the X/Y/metas/W partition its role selects.
func DataTable(rows RowReader, opts *BuildOptions) (*table.Table, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	reg := opts.Registry
	if reg == nil {
		reg = table.Global()
	}

	headers := opts.Headers
	var err error
	if headers == nil {
		headers, rows, err = ParseHeaders(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "cannot read header rows")
		}
	}

	data, err := collectRows(rows)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	for _, h := range headers {
		if len(h) > width {
			width = len(h)
		}
	}
	if width == 0 {
		return nil, errors.New(errors.ErrorTypeData, "file contains no usable columns")
	}

	names, types, flags := NormalizeHeaders(headers, width)
	for i, row := range data {
		for len(row) < width {
			row = append(row, "")
		}
		data[i] = row
	}

	b := &builder{
		reg:     reg,
		nameGen: table.NewNameGen("Feature ", 1),
		data:    data,
	}

	for col := 0; col < width; col++ {
		if err := b.buildColumn(col, names[col], types[col], flags[col]); err != nil {
			return nil, err
		}
	}

	// Single-header convention: with at most one header row and no
	// explicit class column, the rightmost default attribute becomes the
	// class variable — but never the sole feature.
	if len(headers) <= 1 && len(b.classVars) == 0 && len(b.attrs) > 1 {
		last := len(b.attrs) - 1
		b.classVars = append(b.classVars, b.attrs[last])
		b.yCols = append(b.yCols, b.xCols[last])
		b.attrs = b.attrs[:last]
		b.xCols = b.xCols[:last]
	}

	domain := table.NewDomain(b.attrs, b.classVars, b.metaVars)
	if len(data) == 0 {
		return table.Empty(domain), nil
	}
	return table.New(domain, b.xCols, b.yCols, b.metaCols, b.wCols)
}

// collectRows materializes the data rows, trimming cells and dropping
// fully blank rows.
func collectRows(rows RowReader) ([][]string, error) {
	var data [][]string
	for {
		row, err := rows.Next()
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "cannot read data row")
		}

		blank := true
		trimmed := make([]string, len(row))
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
			if trimmed[i] != "" {
				blank = false
			}
		}
		if !blank {
			data = append(data, trimmed)
		}
	}
}

type builder struct {
	reg     *table.VarRegistry
	nameGen *table.NameGen
	data    [][]string

	attrs     []*table.Variable
	classVars []*table.Variable
	metaVars  []*table.Variable

	xCols    [][]float64
	yCols    [][]float64
	metaCols [][]string
	wCols    [][]float64
}

// column holds one column's cleaned raw values.
type column struct {
	index   int
	values  []string
	missing []bool
}

func (b *builder) extract(col int) *column {
	c := &column{
		index:   col,
		values:  make([]string, len(b.data)),
		missing: make([]bool, len(b.data)),
	}
	for i, row := range b.data {
		cell := row[col]
		if IsMissing(cell) {
			c.missing[i] = true
		} else {
			c.values[i] = cell
		}
	}
	return c
}

func (b *builder) buildColumn(col int, name, typeTag, flagStr string) error {
	flag := ParseFlags(SplitFlags(flagStr))
	if flag.Ignore {
		return nil
	}

	c := b.extract(col)
	typeTag = strings.TrimSpace(typeTag)
	tag := strings.ToLower(typeTag)

	var (
		kind     table.VarKind
		valuemap []string
		ordered  bool
		floats   []float64
	)

	switch {
	case stringTags[tag]:
		kind = table.String

	case continuousTags[tag]:
		kind = table.Continuous
		var err error
		if floats, err = c.toFloats(); err != nil {
			return err
		}

	case reDiscreteList.MatchString(typeTag):
		// Explicit value list: order is declared, taken verbatim.
		kind = table.Discrete
		valuemap = SplitFlags(typeTag)
		ordered = true

	case discreteTags[tag]:
		kind = table.Discrete
		valuemap = c.sortedDistinct()

	default:
		if vm, ok := c.looksCategorical(); ok {
			kind = table.Discrete
			valuemap = vm
		} else if f, err := c.toFloats(); err == nil {
			kind = table.Continuous
			floats = f
		} else {
			kind = table.String
		}
	}

	if name == "" {
		name = b.nameGen.Next()
	}

	// Weight columns feed W directly and never become Variables.
	if flag.Weight && kind != table.String && !flag.Meta {
		if floats == nil {
			var err error
			if floats, err = c.toFloats(); err != nil {
				return errors.Newf(errors.ErrorTypeParse,
					"weight column %d must be numeric", col+1)
			}
		}
		b.wCols = append(b.wCols, floats)
		return nil
	}

	v := b.reg.Make(name, kind, valuemap, ordered)
	for k, val := range flag.Attributes {
		v.SetAttribute(k, val)
	}

	// Routing precedence: meta or string kind, then class, then default
	// attribute.
	switch {
	case flag.Meta || kind == table.String:
		b.metaVars = append(b.metaVars, v)
		b.metaCols = append(b.metaCols, c.toStrings())
	case flag.Class:
		b.classVars = append(b.classVars, v)
		b.yCols = append(b.yCols, c.numeric(v, kind, floats))
	default:
		b.attrs = append(b.attrs, v)
		b.xCols = append(b.xCols, c.numeric(v, kind, floats))
	}
	return nil
}

// numeric returns the converted float column: parsed floats for
// continuous columns, indices into the canonical value ordering for
// discrete ones. Remapping against the registered variable keeps a
// single index space per named discrete variable across reads.
func (c *column) numeric(v *table.Variable, kind table.VarKind, floats []float64) []float64 {
	if kind == table.Continuous {
		return floats
	}
	out := make([]float64, len(c.values))
	for i, val := range c.values {
		if c.missing[i] {
			out[i] = math.NaN()
			continue
		}
		if idx, ok := v.ValueIndex(val); ok {
			out[i] = float64(idx)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func (c *column) toStrings() []string {
	out := make([]string, len(c.values))
	for i, val := range c.values {
		if c.missing[i] {
			out[i] = ""
		} else {
			out[i] = val
		}
	}
	return out
}

func (c *column) toFloats() ([]float64, error) {
	out := make([]float64, len(c.values))
	for i, val := range c.values {
		if c.missing[i] {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeParse,
				"invalid number %q at row %d, column %d", val, i+1, c.index+1)
		}
		out[i] = f
	}
	return out, nil
}

func (c *column) sortedDistinct() []string {
	seen := make(map[string]bool)
	var distinct []string
	for i, val := range c.values {
		if c.missing[i] || seen[val] {
			continue
		}
		seen[val] = true
		distinct = append(distinct, val)
	}
	sort.Strings(distinct)
	return distinct
}

// looksCategorical is the type heuristic for untyped columns. A column
// whose first few non-missing cells parse as floats is numeric-looking
// and counts as categorical only when its distinct value set is a
// subset of {0,1} or {1,2}; a non-numeric column is categorical when
// its distinct count is at most round(n^0.7). Returns the sorted
// distinct values on success.
func (c *column) looksCategorical() ([]string, bool) {
	var nonMissing []string
	for i, val := range c.values {
		if !c.missing[i] {
			nonMissing = append(nonMissing, val)
		}
	}
	if len(nonMissing) == 0 {
		return nil, false
	}

	numeric := true
	for i := 0; i < len(nonMissing) && i < 3; i++ {
		if _, err := strconv.ParseFloat(nonMissing[i], 64); err != nil {
			numeric = false
			break
		}
	}

	distinct := c.sortedDistinct()

	if numeric {
		zeroOne, oneTwo := true, true
		for _, val := range distinct {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, false
			}
			if f != 0 && f != 1 {
				zeroOne = false
			}
			if f != 1 && f != 2 {
				oneTwo = false
			}
		}
		if zeroOne || oneTwo {
			return distinct, true
		}
		return nil, false
	}

	maxValues := int(math.Round(math.Pow(float64(len(nonMissing)), 0.7)))
	if len(distinct) > maxValues {
		return nil, false
	}
	return distinct, true
}
