// Package report renders a merged session table as time-series charts: an
// interactive HTML page via go-echarts, or a static PNG via gonum/plot.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/daqmerge/table"
)

// seriesColumns resolves the column selection: nil means every column except
// the time column.
func seriesColumns(tbl *table.Table, timeCol string, cols []string) []string {
	if cols != nil {
		return cols
	}
	var out []string
	for _, c := range tbl.Columns() {
		if c != timeCol {
			out = append(out, c)
		}
	}
	return out
}

// WriteHTML renders a line chart of the selected columns against the time
// column and writes a self-contained HTML page to w.
func WriteHTML(w io.Writer, tbl *table.Table, timeCol string, cols []string, title string) error {
	times, err := tbl.Column(timeCol)
	if err != nil {
		return err
	}

	xlabels := make([]string, len(times))
	for i, v := range times {
		xlabels[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("rows=%d", tbl.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: timeCol}),
	)
	line.SetXAxis(xlabels)

	for _, name := range seriesColumns(tbl, timeCol, cols) {
		vals, err := tbl.Column(name)
		if err != nil {
			return err
		}
		data := make([]opts.LineData, len(vals))
		for i, v := range vals {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}

	return line.Render(w)
}
