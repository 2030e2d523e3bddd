package daqmerge

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/daqmerge/header"
	"github.com/banshee-data/daqmerge/internal/fsutil"
	"github.com/banshee-data/daqmerge/internal/logging"
	"github.com/banshee-data/daqmerge/sequence"
	"github.com/banshee-data/daqmerge/table"
)

// sessionEpoch is the fixture header instant in the host's local zone.
func sessionEpoch() float64 {
	return float64(time.Date(2013, 12, 9, 19, 28, 6, 0, time.Local).Unix())
}

// writeSegment writes a fixture segment file: the two header lines, ten
// preamble lines, then the given rows tab-separated with CRLF endings.
func writeSegment(t *testing.T, mem *fsutil.MemoryFileSystem, path string, rows [][]float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("12/9/2013\r\n7:28:06 PM\r\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "preamble %d\r\n", i)
	}
	for _, r := range rows {
		fields := make([]string, len(r))
		for i, v := range r {
			fields[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		b.WriteString(strings.Join(fields, "\t") + "\r\n")
	}
	require.NoError(t, mem.WriteFile(path, []byte(b.String()), 0o644))
}

// threeColOptions is a compact format for fixtures: time, rel, v.
func threeColOptions(mem *fsutil.MemoryFileSystem) Options {
	return Options{
		ColumnNames: []string{"time", "rel", "v"},
		FileSystem:  mem,
	}
}

func TestMerge(t *testing.T) {
	// Several subtests drive a real rename pass; keep it off the test output.
	logging.SetLogger(func(string, ...interface{}) {})
	defer logging.SetLogger(nil)

	t.Run("two segments concatenate with derived absolute time", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{0, 0, 10}, {1, 1, 11}, {2, 2, 12}})
		writeSegment(t, mem, "/data/run_02.dat", [][]float64{{3, 3, 13}, {4, 4, 14}, {5, 5, 15}})

		tbl, err := Merge("/data", threeColOptions(mem))
		require.NoError(t, err)

		assert.Equal(t, []string{"time", "rel", "v", "unix_time"}, tbl.Columns())
		require.Equal(t, 6, tbl.Len())

		unix, err := tbl.Column("unix_time")
		require.NoError(t, err)
		for i, got := range unix {
			assert.Equal(t, float64(i)+sessionEpoch(), got, "row %d", i)
			if i > 0 {
				assert.Greater(t, got, unix[i-1], "absolute time must increase")
			}
		}
	})

	t.Run("unpadded names are normalized and merge in numeric order", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		for i := 1; i <= 12; i++ {
			rel := float64(i - 1)
			writeSegment(t, mem, fmt.Sprintf("/data/run_%d.dat", i), [][]float64{{rel, rel, 0}})
		}

		tbl, err := Merge("/data", threeColOptions(mem))
		require.NoError(t, err)
		require.Equal(t, 12, tbl.Len())

		rel, err := tbl.Column("rel")
		require.NoError(t, err)
		for i, v := range rel {
			assert.Equal(t, float64(i), v, "segment order must be numeric, not lexical")
		}

		// The rename pass mutated the directory.
		assert.True(t, mem.Exists("/data/run_01.dat"))
		assert.False(t, mem.Exists("/data/run_1.dat"))
	})

	t.Run("default column names", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		row := make([]float64, 13)
		for i := range row {
			row[i] = float64(i)
		}
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{row})

		tbl, err := Merge("/data", Options{FileSystem: mem})
		require.NoError(t, err)
		require.Equal(t, 1, tbl.Len())
		assert.Equal(t, append(DefaultColumnNames(), "unix_time"), tbl.Columns())

		// Derived column uses column index 1 by recorder convention.
		unix, err := tbl.Column("unix_time")
		require.NoError(t, err)
		assert.Equal(t, 1+sessionEpoch(), unix[0])
	})

	t.Run("partial format falls back to default naming", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{0, 0, 10}})

		opts := threeColOptions(mem)
		opts.Format = Format{HeaderSkipLines: 12, TimeColumnIndex: 1}
		tbl, err := Merge("/data", opts)
		require.NoError(t, err, "zero Naming must not silently match no files")
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("sort by time restores global monotonicity", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{1, 1, 0}, {3, 3, 0}})
		writeSegment(t, mem, "/data/run_02.dat", [][]float64{{0, 0, 0}, {2, 2, 0}})

		opts := threeColOptions(mem)
		opts.SortByTime = true
		tbl, err := Merge("/data", opts)
		require.NoError(t, err)

		rel, err := tbl.Column("rel")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 2, 3}, rel)
	})

	t.Run("without sort rows keep file order", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{1, 1, 0}, {3, 3, 0}})
		writeSegment(t, mem, "/data/run_02.dat", [][]float64{{0, 0, 0}, {2, 2, 0}})

		tbl, err := Merge("/data", threeColOptions(mem))
		require.NoError(t, err)

		rel, err := tbl.Column("rel")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3, 0, 2}, rel)
	})

	t.Run("empty file set", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		require.NoError(t, mem.WriteFile("/data/notes.txt", []byte("x"), 0o644))

		_, err := Merge("/data", threeColOptions(mem))
		assert.ErrorIs(t, err, ErrEmptyFileSet)
	})

	t.Run("column count mismatch names the file and line", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{0, 0, 10, 99}})

		_, err := Merge("/data", threeColOptions(mem))
		require.Error(t, err)
		assert.ErrorIs(t, err, table.ErrColumnCountMismatch)
		assert.Contains(t, err.Error(), "run_01.dat")
		assert.Contains(t, err.Error(), "line 13")
	})

	t.Run("sequence overflow", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_100.dat", [][]float64{{0, 0, 0}})

		_, err := Merge("/data", threeColOptions(mem))
		assert.ErrorIs(t, err, sequence.ErrSequenceOverflow)
	})

	t.Run("dry run leaves names untouched", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_1.dat", [][]float64{{0, 0, 10}})

		opts := threeColOptions(mem)
		opts.DryRun = true
		tbl, err := Merge("/data", opts)
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.Len())
		assert.True(t, mem.Exists("/data/run_1.dat"))
		assert.False(t, mem.Exists("/data/run_01.dat"))
	})

	t.Run("suffix error policy propagates", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		writeSegment(t, mem, "/data/run_01.dat", [][]float64{{0, 0, 0}})
		require.NoError(t, mem.WriteFile("/data/run_final.dat", []byte("x"), 0o644))

		opts := threeColOptions(mem)
		opts.SuffixPolicy = sequence.SuffixError
		_, err := Merge("/data", opts)
		assert.ErrorIs(t, err, sequence.ErrBadSuffix)
	})

	t.Run("truncated header propagates file too short", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		require.NoError(t, mem.WriteFile("/data/run_01.dat", []byte("12/9/2013\n"), 0o644))

		_, err := Merge("/data", threeColOptions(mem))
		assert.ErrorIs(t, err, header.ErrFileTooShort)
	})

	t.Run("non-numeric data field", func(t *testing.T) {
		mem := fsutil.NewMemoryFileSystem()
		var b strings.Builder
		b.WriteString("12/9/2013\n7:28:06 PM\n")
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&b, "preamble %d\n", i)
		}
		b.WriteString("0\tnan-sense\t1\n")
		require.NoError(t, mem.WriteFile("/data/run_01.dat", []byte(b.String()), 0o644))

		_, err := Merge("/data", threeColOptions(mem))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 13")
	})
}
