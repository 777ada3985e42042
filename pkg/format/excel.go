package format

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/table"
)

// SplitSheetSuffix splits an optional ":sheetname" selector off a
// spreadsheet path. The selector is only recognized after the file
// extension, so drive letters and plain paths pass through untouched.
func SplitSheetSuffix(filename string) (base, sheet string, ok bool) {
	idx := strings.LastIndex(filename, ":")
	if idx <= 0 {
		return filename, "", false
	}
	base, sheet = filename[:idx], filename[idx+1:]
	if sheet == "" || !strings.Contains(base, ".") || strings.ContainsAny(sheet, `/\`) {
		return filename, "", false
	}
	return base, sheet, true
}

// excelFormat reads OOXML spreadsheet files. The path may carry a
// ":sheetname" suffix; without one, the first sheet with nonempty
// leading data is used. Legacy BIFF (.xls) workbooks are not
// supported.
type excelFormat struct{}

// NewExcelFormat creates the spreadsheet adapter.
func NewExcelFormat() Format {
	return &excelFormat{}
}

func (e *excelFormat) Name() string             { return "excel" }
func (e *excelFormat) Description() string      { return "Microsoft Excel spreadsheet" }
func (e *excelFormat) Extensions() []string     { return []string{".xlsx"} }
func (e *excelFormat) SupportsCompressed() bool { return false }

// ReadTable scans the workbook for the requested (or first usable)
// sheet, trims leading empty rows and columns, and feeds the cell text
// through the regular header/type pipeline.
func (e *excelFormat) ReadTable(filename string) (*table.Table, error) {
	return e.ReadTableWith(filename, Options{})
}

// ReadTableWith is ReadTable with per-call overrides; Options.Sheet
// applies only when the path carries no ":sheetname" selector.
func (e *excelFormat) ReadTableWith(filename string, opts Options) (*table.Table, error) {
	path, sheetName, ok := SplitSheetSuffix(filename)
	if !ok && opts.Sheet != "" {
		sheetName = opts.Sheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot open "+path)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		if sheetName != "" && sheet != sheetName {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		cells, ok := trimSheet(rows)
		if !ok {
			if sheetName != "" {
				break
			}
			continue
		}

		t, err := DataTable(NewSliceRows(cells), &BuildOptions{Registry: opts.Registry})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "cannot parse sheet "+sheet+" of "+path)
		}
		return t, nil
	}

	return nil, errors.New(errors.ErrorTypeParse, "no usable sheets in "+filename)
}

// trimSheet drops leading empty rows/columns and fully blank rows,
// returning false when no data remains.
func trimSheet(rows [][]string) ([][]string, bool) {
	firstRow := -1
	for i, row := range rows {
		if !blankRow(row) {
			firstRow = i
			break
		}
	}
	if firstRow < 0 {
		return nil, false
	}

	firstCol := -1
	for j, cell := range rows[firstRow] {
		if strings.TrimSpace(cell) != "" {
			firstCol = j
			break
		}
	}
	if firstCol < 0 {
		return nil, false
	}

	var out [][]string
	for _, row := range rows[firstRow:] {
		if firstCol < len(row) {
			row = row[firstCol:]
		} else {
			row = nil
		}
		if !blankRow(row) {
			out = append(out, row)
		}
	}
	return out, len(out) > 0
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
