// Package dirscan lists the contents of a recording session directory.
// The listing is read-only; ordering of data files is repaired later by the
// sequence package.
package dirscan

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/banshee-data/daqmerge/internal/fsutil"
)

// ErrUnreadable reports that the root path could not be listed: it does not
// exist, is not a directory, or permission was denied.
var ErrUnreadable = errors.New("directory unreadable")

// Scan lists the regular files and subdirectories directly under root,
// returning both as lexically sorted absolute paths.
func Scan(fsys fsutil.FileSystem, root string) (files, dirs []string, err error) {
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, root, err)
	}

	entries, err := fsys.ReadDir(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, abs, err)
	}

	for _, e := range entries {
		p := filepath.Join(abs, e.Name())
		if e.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
	}

	// ReadDir already sorts by name, but the contract is lexical order of
	// the full paths, so sort explicitly.
	sort.Strings(files)
	sort.Strings(dirs)

	return files, dirs, nil
}
