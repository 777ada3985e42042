package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabulario/tabular/pkg/table"
)

func writeBasket(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.basket")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBasketRead(t *testing.T) {
	path := writeBasket(t, "a=2, b, class:y=1\nb=3, meta:id=7\n")

	tab, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tab.NRows())

	require.Len(t, tab.Domain.Attributes, 2)
	assert.Equal(t, "a", tab.Domain.Attributes[0].Name)
	assert.Equal(t, "b", tab.Domain.Attributes[1].Name)
	assert.Equal(t, table.Continuous, tab.Domain.Attributes[0].Kind)

	// Absent items are zero, bare names count one.
	assert.Equal(t, []float64{2, 0}, tab.X[0])
	assert.Equal(t, []float64{1, 3}, tab.X[1])

	require.Len(t, tab.Domain.ClassVars, 1)
	assert.Equal(t, "y", tab.Domain.ClassVars[0].Name)
	assert.Equal(t, []float64{1, 0}, tab.Y[0])

	require.Len(t, tab.Domain.Metas, 1)
	assert.Equal(t, "id", tab.Domain.Metas[0].Name)
	assert.Equal(t, []string{"", "7"}, tab.Metas[0])
}

func TestBasketSkipsBlanksAndComments(t *testing.T) {
	path := writeBasket(t, "# store 12\n\na=1\n\n# trailing\nb\n")

	tab, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tab.NRows())
	assert.Len(t, tab.Domain.Attributes, 2)
}

func TestBasketInvalidValue(t *testing.T) {
	path := writeBasket(t, "a=notanumber\n")

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid basket value")
}

func TestBasketEmptyFile(t *testing.T) {
	path := writeBasket(t, "\n# nothing here\n")

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable columns")
}
