package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/daqmerge/table"
)

func chartTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New([]string{"time", "a", "b"})
	for i := 0; i < 5; i++ {
		require.NoError(t, tbl.AppendRow([]float64{float64(i), float64(i * 2), float64(i * 3)}))
	}
	return tbl
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	t.Run("renders all non-time columns by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, WriteHTML(&buf, chartTable(t), "time", nil, "session"))

		html := buf.String()
		assert.Contains(t, html, "session")
		assert.Contains(t, html, `"a"`)
		assert.Contains(t, html, `"b"`)
	})

	t.Run("explicit column selection", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, WriteHTML(&buf, chartTable(t), "time", []string{"b"}, "session"))
		assert.Contains(t, buf.String(), `"b"`)
	})

	t.Run("missing time column", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := WriteHTML(&buf, chartTable(t), "nope", nil, "session")
		assert.ErrorIs(t, err, table.ErrNoColumn)
	})
}

func TestSavePNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.png")
	require.NoError(t, SavePNG(path, chartTable(t), "time", nil, "session"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
