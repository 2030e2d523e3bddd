package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/daqmerge/table"
)

// SavePNG plots the selected columns against the time column and saves the
// result as a PNG at path.
func SavePNG(path string, tbl *table.Table, timeCol string, cols []string, title string) error {
	times, err := tbl.Column(timeCol)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = timeCol
	p.Y.Label.Text = "value"

	for _, name := range seriesColumns(tbl, timeCol, cols) {
		vals, err := tbl.Column(name)
		if err != nil {
			return err
		}

		pts := make(plotter.XYs, len(vals))
		for i := range vals {
			pts[i] = plotter.XY{X: times[i], Y: vals[i]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
