package format

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, rows RowReader) [][]string {
	t.Helper()
	var out [][]string
	for {
		row, err := rows.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, row)
	}
}

func TestParseHeadersThreeRows(t *testing.T) {
	rows := NewSliceRows([][]string{
		{"age", "grade"},
		{"continuous", "discrete"},
		{"", "class"},
		{"21", "a"},
		{"35", "b"},
	})

	headers, rest, err := ParseHeaders(rows)
	require.NoError(t, err)
	require.Len(t, headers, 3)
	assert.Equal(t, []string{"age", "grade"}, headers[0])
	assert.Equal(t, []string{"continuous", "discrete"}, headers[1])
	assert.Equal(t, []string{"", "class"}, headers[2])

	data := drain(t, rest)
	require.Len(t, data, 2)
	assert.Equal(t, []string{"21", "a"}, data[0])
}

func TestParseHeadersExactlyTwoRows(t *testing.T) {
	// A type-tag row as row 2 followed by a data row that fails the flag
	// pattern must yield exactly 2 header rows.
	rows := NewSliceRows([][]string{
		{"age", "grade"},
		{"continuous", "low med high"},
		{"21", "low"},
	})

	headers, rest, err := ParseHeaders(rows)
	require.NoError(t, err)
	require.Len(t, headers, 2)

	data := drain(t, rest)
	require.Len(t, data, 1)
	assert.Equal(t, []string{"21", "low"}, data[0])
}

func TestParseHeadersOneRow(t *testing.T) {
	rows := NewSliceRows([][]string{
		{"age", "name"},
		{"21", "Ann"},
	})

	headers, rest, err := ParseHeaders(rows)
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Len(t, drain(t, rest), 1)
}

func TestParseHeadersNoneWhenNumeric(t *testing.T) {
	first := []string{"1", "2,5", "3.25"}
	rows := NewSliceRows([][]string{first, {"4", "5", "6"}})

	headers, rest, err := ParseHeaders(rows)
	require.NoError(t, err)
	assert.Empty(t, headers)

	data := drain(t, rest)
	require.Len(t, data, 2)
	assert.Equal(t, first, data[0])
}

func TestParseHeadersEmptyStream(t *testing.T) {
	headers, rest, err := ParseHeaders(NewSliceRows(nil))
	require.NoError(t, err)
	assert.Empty(t, headers)
	assert.Empty(t, drain(t, rest))
}

func TestNormalizeHeadersThreeRows(t *testing.T) {
	names, types, flags := NormalizeHeaders([][]string{
		{"a", "b"},
		{"continuous", "d"},
		{"", "class"},
	}, 3)

	assert.Equal(t, []string{"a", "b", ""}, names)
	assert.Equal(t, []string{"continuous", "d", ""}, types)
	assert.Equal(t, []string{"", "class", ""}, flags)
}

func TestNormalizeHeadersTwoRowsCombined(t *testing.T) {
	names, types, flags := NormalizeHeaders([][]string{
		{"age", "sex", "size", "grade"},
		{"C", "Dc", "continuous", "low high"},
	}, 4)

	assert.Equal(t, []string{"age", "sex", "size", "grade"}, names)
	assert.Equal(t, []string{"c", "d", "continuous", "low high"}, types)
	assert.Equal(t, []string{"", "c", "", ""}, flags)
}

func TestNormalizeHeadersOneRow(t *testing.T) {
	names, types, flags := NormalizeHeaders([][]string{
		{"cD#sex", "age", "mS#notes"},
	}, 3)

	assert.Equal(t, []string{"sex", "age", "notes"}, names)
	assert.Equal(t, []string{"d", "", "s"}, types)
	assert.Equal(t, []string{"c", "", "m"}, flags)
}

func TestNormalizeHeadersZeroRowsPadded(t *testing.T) {
	names, types, flags := NormalizeHeaders(nil, 2)
	assert.Equal(t, []string{"", ""}, names)
	assert.Equal(t, []string{"", ""}, types)
	assert.Equal(t, []string{"", ""}, flags)
}

func TestNumericLooking(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{"123", true},
		{"1,024", true},
		{"3.14", true},
		{"", false},
		{".", false},
		{"12a", false},
		{"-1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numericLooking(tt.cell), "cell %q", tt.cell)
	}
}
