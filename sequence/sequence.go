// Package sequence repairs the ordering of sequentially numbered data-logger
// files. The recorder appends an un-padded integer suffix to each segment it
// writes, so lexical name order disagrees with recording order once a session
// passes segment 9. Renaming the files with zero-padded suffixes makes a
// plain lexical sort chronological.
//
// Planning which renames are needed is pure; applying them mutates
// caller-owned storage and is kept separate so it can be dry-run.
package sequence

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/daqmerge/internal/fsutil"
	"github.com/banshee-data/daqmerge/internal/logging"
)

var (
	// ErrSequenceOverflow reports a sequence suffix too large for the
	// configured pad width. Padding cannot fix lexical order past that
	// point, so the session is rejected rather than silently mis-ordered.
	ErrSequenceOverflow = errors.New("sequence suffix overflow")

	// ErrBadSuffix reports a data file whose suffix is not an integer.
	ErrBadSuffix = errors.New("unparsable sequence suffix")
)

// Naming describes how the recorder names its segment files:
// <prefix><Separator><n><Extension>.
type Naming struct {
	// Extension identifies data files, including the dot.
	Extension string

	// Separator delimits the numeric suffix from the file prefix.
	Separator string

	// PadWidth is the zero-padded suffix width. Two digits covers the
	// recorder's maximum session length of 99 segments.
	PadWidth int
}

// DefaultNaming returns the recorder's stock naming scheme.
func DefaultNaming() Naming {
	return Naming{
		Extension: ".dat",
		Separator: "_",
		PadWidth:  2,
	}
}

// limit returns the first suffix value that no longer fits the pad width.
func (n Naming) limit() int {
	lim := 1
	for i := 0; i < n.PadWidth; i++ {
		lim *= 10
	}
	return lim
}

// SuffixPolicy selects what happens to data files whose suffix cannot be
// parsed as an integer.
type SuffixPolicy int

const (
	// SuffixSkip excludes the file from the session with a logged warning.
	SuffixSkip SuffixPolicy = iota

	// SuffixError fails the whole run.
	SuffixError
)

// Entry is a parsed segment file name.
type Entry struct {
	Path   string
	Dir    string
	Prefix string
	Seq    int    // numeric suffix value
	Suffix string // suffix exactly as written, e.g. "7" or "07"
	Ext    string
}

// Matches reports whether path carries the data-file extension.
func Matches(path string, naming Naming) bool {
	return strings.HasSuffix(path, naming.Extension)
}

// ParseEntry splits a data-file path into prefix, numeric suffix and
// extension. It returns ErrBadSuffix (wrapped) when the portion after the
// last separator is not a non-negative integer.
func ParseEntry(path string, naming Naming) (Entry, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, naming.Extension)

	i := strings.LastIndex(stem, naming.Separator)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s: no %q separator", ErrBadSuffix, path, naming.Separator)
	}

	prefix, suffix := stem[:i], stem[i+len(naming.Separator):]
	if suffix == "" || strings.IndexFunc(suffix, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return Entry{}, fmt.Errorf("%w: %s: suffix %q is not an integer", ErrBadSuffix, path, suffix)
	}

	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %v", ErrBadSuffix, path, err)
	}

	return Entry{
		Path:   path,
		Dir:    filepath.Dir(path),
		Prefix: prefix,
		Seq:    seq,
		Suffix: suffix,
		Ext:    naming.Extension,
	}, nil
}

// PaddedPath returns the canonical zero-padded path for the entry.
func (e Entry) PaddedPath(naming Naming) string {
	name := fmt.Sprintf("%s%s%0*d%s", e.Prefix, naming.Separator, naming.PadWidth, e.Seq, e.Ext)
	return filepath.Join(e.Dir, name)
}

// Rename is one planned file rename.
type Rename struct {
	From string
	To   string
}

// Plan computes the renames needed so a lexical sort of the data files in
// files equals recording order. It is pure: nothing on disk is touched.
// Files without the data extension are ignored; files with an unparsable
// suffix follow policy. A suffix that cannot fit PadWidth digits fails with
// ErrSequenceOverflow.
func Plan(files []string, naming Naming, policy SuffixPolicy) ([]Rename, error) {
	var renames []Rename
	for _, f := range files {
		if !Matches(f, naming) {
			continue
		}
		e, err := ParseEntry(f, naming)
		if err != nil {
			if policy == SuffixError {
				return nil, err
			}
			logging.Logf("skipping data file with unparsable suffix: %s", f)
			continue
		}
		if e.Seq >= naming.limit() {
			return nil, fmt.Errorf("%w: %s: suffix %d exceeds %d-digit pad width",
				ErrSequenceOverflow, f, e.Seq, naming.PadWidth)
		}
		if to := e.PaddedPath(naming); to != f {
			renames = append(renames, Rename{From: f, To: to})
		}
	}
	return renames, nil
}

// Apply executes a rename plan. Each rename mutates caller-owned storage and
// is logged.
func Apply(fsys fsutil.FileSystem, plan []Rename) error {
	for _, r := range plan {
		if err := fsys.Rename(r.From, r.To); err != nil {
			return fmt.Errorf("renaming %s to %s: %w", r.From, r.To, err)
		}
		logging.Logf("renamed file %s to %s", r.From, r.To)
	}
	return nil
}

// DataFiles filters a listing to parseable data files and sorts it lexically.
func DataFiles(files []string, naming Naming, policy SuffixPolicy) ([]string, error) {
	var out []string
	for _, f := range files {
		if !Matches(f, naming) {
			continue
		}
		if _, err := ParseEntry(f, naming); err != nil {
			if policy == SuffixError {
				return nil, err
			}
			logging.Logf("skipping data file with unparsable suffix: %s", f)
			continue
		}
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}
