// Package daqmerge ingests a directory of sequentially numbered,
// tab-delimited data-logger files recorded by a fixed-format streaming
// recorder, repairs their file-name ordering, and merges them into one
// time-ordered table with a derived absolute (Unix epoch) timestamp column.
//
// The recorder splits one recording session across segment files named
// <prefix><sep><n><ext> with an un-padded integer suffix, writes a two-line
// wall-clock header plus a device preamble at the top of each file, then one
// tab-separated numeric row per line. Merge normalizes the file names in
// place (a destructive, logged rename pass), reads the session start from
// the first file's header, concatenates every file's rows in segment order,
// and appends an absolute-time column = relative time + session start.
package daqmerge

import (
	"errors"
	"fmt"

	"github.com/banshee-data/daqmerge/dirscan"
	"github.com/banshee-data/daqmerge/header"
	"github.com/banshee-data/daqmerge/internal/fsutil"
	"github.com/banshee-data/daqmerge/internal/logging"
	"github.com/banshee-data/daqmerge/sequence"
	"github.com/banshee-data/daqmerge/table"
)

// ErrEmptyFileSet reports a directory whose data-file filter matched nothing.
var ErrEmptyFileSet = errors.New("no data files in directory")

// Format captures the recorder's fixed file format. The zero value is not
// usable; start from DefaultFormat.
type Format struct {
	// Naming is the segment file naming scheme.
	Naming sequence.Naming

	// HeaderSkipLines is the number of leading metadata lines in each file
	// (two header lines plus the device preamble).
	HeaderSkipLines int

	// TimeColumnIndex designates the relative-time column used for the
	// optional re-sort and for deriving absolute time. The recorder's
	// convention is the second column.
	TimeColumnIndex int
}

// DefaultFormat returns the recorder's stock format: ".dat" files with a
// two-digit "_"-separated suffix, a 12-line header block, and relative time
// in column 1.
func DefaultFormat() Format {
	return Format{
		Naming:          sequence.DefaultNaming(),
		HeaderSkipLines: 12,
		TimeColumnIndex: 1,
	}
}

// DefaultColumnNames returns the stock column-name list: an implicit leading
// relative-time column followed by the recorder's twelve data channels.
func DefaultColumnNames() []string {
	return []string{"time", "a", "b", "c", "d", "e", "f", "y0", "y1", "y2", "y3", "y4", "y5"}
}

// Options configures a merge. The zero value selects the recorder defaults.
type Options struct {
	// Format overrides the recorder file format. Zero means DefaultFormat;
	// a Format whose Naming is zero keeps its other fields and falls back
	// to DefaultNaming for the naming scheme.
	Format Format

	// ColumnNames names the columns of each data row and must match the
	// file's field count. Nil means DefaultColumnNames.
	ColumnNames []string

	// SortByTime re-sorts all rows by the relative-time column after
	// concatenation, guaranteeing global monotonicity even if segment
	// boundaries do not align perfectly with time order.
	SortByTime bool

	// SuffixPolicy selects the handling of data files with unparsable
	// sequence suffixes. The default skips them with a logged warning.
	SuffixPolicy sequence.SuffixPolicy

	// DryRun logs the renames normalization would perform instead of
	// executing them, and merges the files under their current names. Row
	// order is only guaranteed chronological after a real rename pass.
	DryRun bool

	// DerivedColumn names the appended absolute-time column.
	// Empty means "unix_time".
	DerivedColumn string

	// FileSystem lets tests substitute an in-memory filesystem.
	// Nil means the OS filesystem.
	FileSystem fsutil.FileSystem
}

func (o Options) withDefaults() Options {
	if o.Format == (Format{}) {
		o.Format = DefaultFormat()
	} else if o.Format.Naming == (sequence.Naming{}) {
		// A partially populated Format keeps its explicit fields, but an
		// empty naming scheme would match no files at all.
		o.Format.Naming = sequence.DefaultNaming()
	}
	if o.ColumnNames == nil {
		o.ColumnNames = DefaultColumnNames()
	}
	if o.DerivedColumn == "" {
		o.DerivedColumn = "unix_time"
	}
	if o.FileSystem == nil {
		o.FileSystem = fsutil.OSFileSystem{}
	}
	return o
}

// Merge runs the whole pipeline over one session directory and returns the
// merged table. Side effects are limited to the rename pass (skipped under
// DryRun); source file contents are never modified.
func Merge(root string, opts Options) (*table.Table, error) {
	opts = opts.withDefaults()
	fsys := opts.FileSystem
	naming := opts.Format.Naming

	var files []string
	var err error
	if opts.DryRun {
		plan, err := sequence.DryRun(fsys, root, naming, opts.SuffixPolicy)
		if err != nil {
			return nil, err
		}
		for _, r := range plan {
			logging.Logf("dry-run: would rename %s to %s", r.From, r.To)
		}
		listing, _, err := dirscan.Scan(fsys, root)
		if err != nil {
			return nil, err
		}
		files, err = sequence.DataFiles(listing, naming, opts.SuffixPolicy)
		if err != nil {
			return nil, err
		}
	} else {
		files, err = sequence.Normalize(fsys, root, naming, opts.SuffixPolicy)
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFileSet, root)
	}

	// The session start comes from the earliest file: all segments share
	// one recording start instant.
	epoch, err := header.SessionStart(fsys, files[0])
	if err != nil {
		return nil, err
	}

	tbl := table.New(opts.ColumnNames)
	for _, f := range files {
		if err := appendFileRows(fsys, f, opts.Format.HeaderSkipLines, tbl); err != nil {
			return nil, err
		}
	}

	if opts.SortByTime {
		if err := tbl.SortBy(opts.Format.TimeColumnIndex); err != nil {
			return nil, err
		}
	}

	if err := tbl.DeriveOffset(opts.DerivedColumn, opts.Format.TimeColumnIndex, epoch); err != nil {
		return nil, err
	}

	return tbl, nil
}
