package format

import (
	stdcsv "encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tabulario/tabular/pkg/encoding"
	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/table"
)

// sniffSampleSize is how much of the decoded lead of a file the dialect
// sniffer inspects.
const sniffSampleSize = 1024

// sniffCandidates are the delimiters the sniffer considers, in
// preference order on ties.
var sniffCandidates = []rune{',', ';', ':', '$', ' ', '\t'}

// delimitedFormat reads and writes delimiter-separated text files. The
// delimiter is sniffed from a lead sample and falls back to the
// format's declared default.
type delimitedFormat struct {
	name        string
	description string
	exts        []string
	delimiter   rune
}

// NewCSVFormat creates the comma-separated values adapter.
func NewCSVFormat() Format {
	return &delimitedFormat{
		name:        "csv",
		description: "Comma-separated values",
		exts:        []string{".csv"},
		delimiter:   ',',
	}
}

// NewTabFormat creates the tab-separated values adapter.
func NewTabFormat() Format {
	return &delimitedFormat{
		name:        "tab",
		description: "Tab-separated values",
		exts:        []string{".tab", ".tsv"},
		delimiter:   '\t',
	}
}

func (d *delimitedFormat) Name() string             { return d.name }
func (d *delimitedFormat) Description() string      { return d.description }
func (d *delimitedFormat) Extensions() []string     { return d.exts }
func (d *delimitedFormat) SupportsCompressed() bool { return true }

// csvRows adapts encoding/csv to the RowReader interface.
type csvRows struct {
	r *stdcsv.Reader
}

func (c *csvRows) Next() ([]string, error) {
	row, err := c.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	return row, err
}

// ReadTable loads a delimited text file: detect the text encoding,
// sniff the dialect from a lead sample, then reopen from the start for
// the real parse.
func (d *delimitedFormat) ReadTable(filename string) (*table.Table, error) {
	return d.ReadTableWith(filename, Options{})
}

// ReadTableWith is ReadTable with per-call overrides: a forced encoding
// skips detection, a forced delimiter skips sniffing.
func (d *delimitedFormat) ReadTableWith(filename string, opts Options) (*table.Table, error) {
	enc := opts.Encoding
	if enc == "" {
		enc = encoding.DetectFile(filename)
	}

	delim := opts.Delimiter
	if delim == 0 {
		var err error
		delim, err = d.sniff(filename, enc)
		if err != nil {
			return nil, err
		}
	}

	rc, err := encoding.OpenCompressed(filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := stdcsv.NewReader(encoding.DecodingReader(rc, enc))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	t, err := DataTable(&csvRows{r: reader}, &BuildOptions{Registry: opts.Registry})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "cannot parse dataset "+filename)
	}
	return t, nil
}

// sniff reads the decoded lead sample and picks the delimiter that
// occurs a consistent, nonzero number of times per line. Falls back to
// the format default.
func (d *delimitedFormat) sniff(filename, enc string) (rune, error) {
	rc, err := encoding.OpenCompressed(filename)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	sample := make([]byte, sniffSampleSize)
	n, _ := io.ReadFull(encoding.DecodingReader(rc, enc), sample)
	return sniffDelimiter(string(sample[:n]), d.delimiter), nil
}

func sniffDelimiter(sample string, fallback rune) rune {
	lines := strings.Split(sample, "\n")
	// The last line of the sample is likely cut off mid-row.
	if len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}
	var complete []string
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			complete = append(complete, line)
		}
	}
	if len(complete) == 0 {
		return fallback
	}

	best, bestCount := fallback, 0
	for _, cand := range sniffCandidates {
		count := strings.Count(complete[0], string(cand))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range complete[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = cand, count
		}
	}
	return best
}

// WriteTable stores the table with the full three-row header (names,
// types, flags), weight columns first, mirroring the read grammar so
// that reading the result reconstructs the same table.
func (d *delimitedFormat) WriteTable(filename string, t *table.Table) error {
	return d.WriteTableWith(filename, t, Options{})
}

// WriteTableWith is WriteTable with an optional delimiter override.
func (d *delimitedFormat) WriteTableWith(filename string, t *table.Table, opts Options) error {
	delim := opts.Delimiter
	if delim == 0 {
		delim = d.delimiter
	}

	wc, err := encoding.CreateCompressed(filename)
	if err != nil {
		return err
	}
	defer wc.Close()

	w := stdcsv.NewWriter(wc)
	w.Comma = delim

	for _, header := range [][]string{headerNames(t), headerTypes(t), headerFlags(t)} {
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "cannot write "+filename)
		}
	}

	for i := 0; i < t.NRows(); i++ {
		if err := w.Write(dataRow(t, i)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "cannot write "+filename)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot write "+filename)
	}
	return nil
}

func headerNames(t *table.Table) []string {
	row := make([]string, 0, len(t.W)+t.NCols())
	for i := range t.W {
		row = append(row, "weights_"+strconv.Itoa(i))
	}
	for _, v := range t.Domain.Variables() {
		row = append(row, v.Name)
	}
	return row
}

func headerTypes(t *table.Table) []string {
	row := make([]string, 0, len(t.W)+t.NCols())
	for range t.W {
		row = append(row, "continuous")
	}
	for _, v := range t.Domain.Variables() {
		// A value list needs two or more tokens to read back as one;
		// degenerate domains fall back to the plain tag.
		if v.Kind == table.Discrete && v.Ordered && len(v.Values) > 1 {
			row = append(row, JoinFlags(v.Values...))
		} else {
			row = append(row, v.Kind.String())
		}
	}
	return row
}

func headerFlags(t *table.Table) []string {
	row := make([]string, 0, len(t.W)+t.NCols())
	for range t.W {
		row = append(row, "weight")
	}
	appendVars := func(role string, vars []*table.Variable) {
		for _, v := range vars {
			tokens := []string{role}
			for _, k := range v.AttributeKeys() {
				tokens = append(tokens, k+"="+v.Attributes[k])
			}
			row = append(row, JoinFlags(tokens...))
		}
	}
	appendVars("", t.Domain.Attributes)
	appendVars("class", t.Domain.ClassVars)
	appendVars("meta", t.Domain.Metas)
	return row
}

func dataRow(t *table.Table, i int) []string {
	row := make([]string, 0, len(t.W)+t.NCols())
	for _, col := range t.W {
		row = append(row, formatFloat(col[i]))
	}
	for j, col := range t.X {
		row = append(row, formatCell(t.Domain.Attributes[j], col[i]))
	}
	for j, col := range t.Y {
		row = append(row, formatCell(t.Domain.ClassVars[j], col[i]))
	}
	for _, col := range t.Metas {
		row = append(row, col[i])
	}
	return row
}

// formatCell renders one numeric cell: discrete indices become their
// value string, NaN the empty missing marker.
func formatCell(v *table.Variable, f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if v.Kind == table.Discrete {
		idx := int(f)
		if idx >= 0 && idx < len(v.Values) {
			return v.Values[idx]
		}
		return ""
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
