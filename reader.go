package daqmerge

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/daqmerge/internal/fsutil"
	"github.com/banshee-data/daqmerge/table"
)

// appendFileRows reads one segment file, skips its header block, and appends
// every data row to tbl. The file handle is released on every exit path.
func appendFileRows(fsys fsutil.FileSystem, path string, skipLines int, tbl *table.Table) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	lineno := 0
	for scan.Scan() {
		lineno++
		if lineno <= skipLines {
			continue
		}

		// The recorder writes CRLF line endings; Scanner strips only the LF.
		line := strings.TrimRight(scan.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row, err := parseRow(line)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineno, err)
		}
		if err := tbl.AppendRow(row); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineno, err)
		}
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// parseRow splits one tab-separated line into float64 fields.
func parseRow(line string) ([]float64, error) {
	fields := strings.Split(line, "\t")
	row := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d %q: %v", i, field, err)
		}
		row[i] = v
	}
	return row, nil
}
