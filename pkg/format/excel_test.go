package format

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSplitSheetSuffix(t *testing.T) {
	tests := []struct {
		filename string
		base     string
		sheet    string
		ok       bool
	}{
		{"data.xlsx:Sheet1", "data.xlsx", "Sheet1", true},
		{"dir/data.xlsx:My Sheet", "dir/data.xlsx", "My Sheet", true},
		{"data.xlsx", "data.xlsx", "", false},
		{"data.xlsx:", "data.xlsx:", "", false},
		{"noext:sheet", "noext:sheet", "", false},
		{"data.xlsx:a/b", "data.xlsx:a/b", "", false},
	}
	for _, tt := range tests {
		base, sheet, ok := SplitSheetSuffix(tt.filename)
		assert.Equal(t, tt.ok, ok, "filename %q", tt.filename)
		assert.Equal(t, tt.base, base, "filename %q", tt.filename)
		assert.Equal(t, tt.sheet, sheet, "filename %q", tt.filename)
	}
}

func TestTrimSheet(t *testing.T) {
	cells, ok := trimSheet([][]string{
		{"", "", ""},
		{"", "a", "b"},
		{"", "", ""},
		{"", "1.5", "x"},
	})
	require.True(t, ok)
	assert.Equal(t, [][]string{{"a", "b"}, {"1.5", "x"}}, cells)

	_, ok = trimSheet([][]string{{"", ""}, {"  "}})
	assert.False(t, ok)
}

func writeWorkbook(t *testing.T, rows map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for sheet, sheetRows := range rows {
		if sheet != "Sheet1" {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for i, row := range sheetRows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelRead(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"size", "label"},
			{1.5, "x"},
			{2.5, "y"},
		},
	})

	tab, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tab.NRows())
	require.Len(t, tab.Domain.Attributes, 1)
	assert.Equal(t, "size", tab.Domain.Attributes[0].Name)
	require.Len(t, tab.Domain.ClassVars, 1)
	assert.Equal(t, "label", tab.Domain.ClassVars[0].Name)
}

func TestExcelReadNamedSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"other"},
			{1.5},
		},
		"measurements": {
			{"size", "label"},
			{1.5, "x"},
			{2.5, "y"},
		},
	})

	tab, err := Read(path + ":measurements")
	require.NoError(t, err)
	assert.Equal(t, "size", tab.Domain.Attributes[0].Name)
}

func TestExcelReadMissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet1": {{"a"}, {"1.5"}},
	})

	_, err := Read(path + ":nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable sheets")
}
