package sequence

import (
	"github.com/banshee-data/daqmerge/dirscan"
	"github.com/banshee-data/daqmerge/internal/fsutil"
)

// Normalize scans root, renames any data files whose suffix is not in
// canonical zero-padded form, and returns the resulting data-file list in
// chronological (= lexical) order. Running it again on the same directory
// plans no further renames.
func Normalize(fsys fsutil.FileSystem, root string, naming Naming, policy SuffixPolicy) ([]string, error) {
	files, _, err := dirscan.Scan(fsys, root)
	if err != nil {
		return nil, err
	}

	plan, err := Plan(files, naming, policy)
	if err != nil {
		return nil, err
	}
	if err := Apply(fsys, plan); err != nil {
		return nil, err
	}

	// Re-scan after renaming so the returned list reflects what is actually
	// on disk.
	files, _, err = dirscan.Scan(fsys, root)
	if err != nil {
		return nil, err
	}
	return DataFiles(files, naming, policy)
}

// DryRun scans root and returns the renames Normalize would perform, without
// touching the filesystem.
func DryRun(fsys fsutil.FileSystem, root string, naming Naming, policy SuffixPolicy) ([]Rename, error) {
	files, _, err := dirscan.Scan(fsys, root)
	if err != nil {
		return nil, err
	}
	return Plan(files, naming, policy)
}
