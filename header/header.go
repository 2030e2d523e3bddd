// Package header extracts the session start time from a recorder data file.
//
// Every segment file begins with a two-line textual header: a calendar date
// ("12/9/2013") followed by a 12-hour clock time ("7:28:06 PM"). Together
// they are the wall-clock instant recording began. The header carries no
// time zone, so the text is interpreted in the host's local zone — the same
// header parsed on machines in different zones yields different epoch
// values.
package header

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/daqmerge/internal/fsutil"
)

var (
	// ErrFileTooShort reports a data file with fewer than two lines.
	ErrFileTooShort = errors.New("file too short for session header")

	// ErrHeaderFormat reports header lines that do not match the recorder's
	// date/time layout.
	ErrHeaderFormat = errors.New("malformed session header")
)

// Reference layouts for the recorder's header, in Go time syntax.
// The date line has no zero padding ("12/9/2013"); neither does the hour.
const (
	dateLayout = "1/2/2006"
	timeLayout = "3:04:05 PM"
)

// SessionStart reads the two-line header of the named file and returns the
// session start as Unix seconds. Sub-second precision is preserved in the
// float even though the recorder writes whole seconds. The file handle is
// released on every exit path.
func SessionStart(fsys fsutil.FileSystem, path string) (float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	epoch, err := parseHeader(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return epoch, nil
}

// parseHeader consumes the first two lines of r and converts them to Unix
// seconds in the host's local time zone.
func parseHeader(r io.Reader) (float64, error) {
	scan := bufio.NewScanner(r)

	lines := make([]string, 0, 2)
	for len(lines) < 2 && scan.Scan() {
		lines = append(lines, strings.TrimSpace(scan.Text()))
	}
	if err := scan.Err(); err != nil {
		return 0, err
	}
	if len(lines) < 2 {
		return 0, ErrFileTooShort
	}

	t, err := time.ParseInLocation(dateLayout+timeLayout, lines[0]+lines[1], time.Local)
	if err != nil {
		return 0, fmt.Errorf("%w: %q / %q: %v", ErrHeaderFormat, lines[0], lines[1], err)
	}

	return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
}
