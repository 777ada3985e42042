package format

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	stringpool "github.com/tabulario/tabular/pkg/strings"
)

// Recognized type tags per kind. A row-2 cell holding two or more
// space-separated tokens is an explicit discrete value list instead.
var (
	continuousTags = map[string]bool{"continuous": true, "c": true}
	discreteTags   = map[string]bool{"discrete": true, "d": true}
	stringTags     = map[string]bool{"string": true, "s": true}

	reDiscreteList = regexp.MustCompile(`^\s*\S+(\s\S+)+\s*$`)
	reKeyValue     = regexp.MustCompile(`^.+?=.*$`)
	reAllDigits    = regexp.MustCompile(`^[0-9]+$`)
)

// isTypeCell reports whether a cell is valid in a type-tag header row:
// empty, a recognized tag, or a space-separated discrete value list.
func isTypeCell(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true
	}
	tag := strings.ToLower(cell)
	if continuousTags[tag] || discreteTags[tag] || stringTags[tag] {
		return true
	}
	return reDiscreteList.MatchString(cell)
}

// isFlagCell reports whether a cell is valid in a flag header row:
// empty, or every space-separated token a recognized role flag or a
// key=value attribute.
func isFlagCell(cell string) bool {
	for _, tok := range strings.Fields(cell) {
		if !isFlagToken(tok) && !reKeyValue.MatchString(tok) {
			return false
		}
	}
	return true
}

// numericLooking reports whether a cell consists of digits, commas and
// periods only.
func numericLooking(cell string) bool {
	stripped := strings.NewReplacer(".", "", ",", "").Replace(cell)
	return stripped != "" && reAllDigits.MatchString(stripped)
}

// headerTests are the positional row tests: all rows before the first
// failing row are headers.
var headerTests = []func(row []string) bool{
	// Row 1 is a header unless it is dominated by numeric-looking cells.
	func(row []string) bool {
		if len(row) == 0 {
			return false
		}
		numeric := 0
		for _, cell := range row {
			if numericLooking(strings.TrimSpace(cell)) {
				numeric++
			}
		}
		return float64(numeric)/float64(len(row)) < 0.9
	},
	// Row 2 only if every cell is a type identifier.
	func(row []string) bool {
		for _, cell := range row {
			if !isTypeCell(cell) {
				return false
			}
		}
		return true
	},
	// Row 3 only if every cell is a flag/attribute cell.
	func(row []string) bool {
		for _, cell := range row {
			if !isFlagCell(cell) {
				return false
			}
		}
		return true
	},
}

// ParseHeaders splits 0-3 leading header rows off the row stream. Only
// up to three rows are peeked; the first non-header row is spliced back
// onto the returned remainder. Header cells come back trimmed.
func ParseHeaders(rows RowReader) ([][]string, RowReader, error) {
	var headers [][]string

	for _, test := range headerTests {
		row, err := rows.Next()
		if err == io.EOF {
			return headers, NewSliceRows(nil), nil
		}
		if err != nil {
			return nil, nil, err
		}
		if !test(row) {
			return headers, &spliceRows{head: [][]string{row}, rest: rows}, nil
		}
		trimmed := make([]string, len(row))
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
		}
		headers = append(headers, trimmed)
	}

	return headers, rows, nil
}

// header1Sep separates the optional typeflags prefix from the name in
// single-row headers (e.g. "d#sex", "cC#IQ").
const header1Sep = "#"

// NormalizeHeaders derives the (names, types, flags) triple from 0-3
// header rows. All three lists are right-padded with empty strings to
// width, which must be at least the observed data row width.
//
// Shapes: 3 rows are used directly; 2 rows hold names plus a combined
// type+flag cell whose uppercase characters form the type tag and
// lowercase characters the flag string; 1 row optionally prefixes each
// name with "typeflags#"; 0 rows leave everything to inference.
func NormalizeHeaders(headers [][]string, width int) (names, types, flags []string) {
	switch len(headers) {
	case 3:
		names = append(names, headers[0]...)
		types = append(types, headers[1]...)
		flags = append(flags, headers[2]...)
	case 2:
		names = append(names, headers[0]...)
		for _, combined := range headers[1] {
			t, f := splitCombined(combined)
			types = append(types, t)
			flags = append(flags, f)
		}
	case 1:
		for _, cell := range headers[0] {
			var combined string
			name := cell
			if idx := strings.Index(cell, header1Sep); idx >= 0 {
				combined, name = cell[:idx], cell[idx+len(header1Sep):]
			}
			names = append(names, name)
			t, f := splitCombined(combined)
			types = append(types, t)
			flags = append(flags, f)
		}
	}

	for _, lst := range []*[]string{&names, &types, &flags} {
		for len(*lst) < width {
			*lst = append(*lst, "")
		}
	}
	return names, types, flags
}

// splitCombined separates a combined type+flag string: uppercase
// characters are filtered out and lowered into the type tag, lowercase
// characters become space-separated flag tokens. Characters are
// reassembled, never positionally sliced. A cell that is already a
// whole-word type tag or an explicit value list stays a pure type.
func splitCombined(combined string) (typeTag, flagStr string) {
	if whole := strings.ToLower(strings.TrimSpace(combined)); len(whole) > 1 {
		if continuousTags[whole] || discreteTags[whole] || stringTags[whole] ||
			reDiscreteList.MatchString(combined) {
			return strings.TrimSpace(combined), ""
		}
	}
	tb := stringpool.GetBuilder()
	defer stringpool.PutBuilder(tb)

	var flagTokens []string
	for _, r := range combined {
		switch {
		case unicode.IsUpper(r):
			tb.WriteString(strings.ToLower(string(r)))
		case unicode.IsLower(r):
			flagTokens = append(flagTokens, string(r))
		}
	}
	return stringpool.Clone(tb.String()), JoinFlags(flagTokens...)
}
