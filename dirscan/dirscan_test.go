package dirscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/daqmerge/internal/fsutil"
)

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("sorted files and dirs with absolute paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{"run_2.dat", "run_1.dat", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

		files, dirs, err := Scan(fsutil.OSFileSystem{}, dir)
		require.NoError(t, err)

		wantFiles := []string{
			filepath.Join(dir, "notes.txt"),
			filepath.Join(dir, "run_1.dat"),
			filepath.Join(dir, "run_2.dat"),
		}
		if diff := cmp.Diff(wantFiles, files); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}

		wantDirs := []string{filepath.Join(dir, "archive")}
		if diff := cmp.Diff(wantDirs, dirs); diff != "" {
			t.Errorf("dirs mismatch (-want +got):\n%s", diff)
		}

		for _, f := range files {
			assert.True(t, filepath.IsAbs(f), "path %q should be absolute", f)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		files, dirs, err := Scan(fsutil.OSFileSystem{}, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, files)
		assert.Empty(t, dirs)
	})

	t.Run("missing directory is unreadable", func(t *testing.T) {
		t.Parallel()

		_, _, err := Scan(fsutil.OSFileSystem{}, filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnreadable)
	})

	t.Run("memory filesystem", func(t *testing.T) {
		t.Parallel()

		mem := fsutil.NewMemoryFileSystem()
		require.NoError(t, mem.WriteFile("/data/run_1.dat", []byte("x"), 0o644))
		require.NoError(t, mem.WriteFile("/data/run_2.dat", []byte("x"), 0o644))
		require.NoError(t, mem.MkdirAll("/data/old", 0o755))

		files, dirs, err := Scan(mem, "/data")
		require.NoError(t, err)
		assert.Equal(t, []string{"/data/run_1.dat", "/data/run_2.dat"}, files)
		assert.Equal(t, []string{"/data/old"}, dirs)
	})
}
