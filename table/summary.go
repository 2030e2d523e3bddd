package table

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary is descriptive statistics for one column.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary computes per-column descriptive statistics over all rows. An empty
// table yields summaries with zero counts.
func (t *Table) Summary() []ColumnSummary {
	out := make([]ColumnSummary, len(t.cols))
	for i, name := range t.cols {
		s := ColumnSummary{Name: name, Count: len(t.rows)}
		if len(t.rows) > 0 {
			vals := make([]float64, len(t.rows))
			for j, r := range t.rows {
				vals[j] = r[i]
			}
			s.Mean = stat.Mean(vals, nil)
			s.Min = floats.Min(vals)
			s.Max = floats.Max(vals)
			if len(vals) > 1 {
				s.StdDev = stat.StdDev(vals, nil)
			}
		}
		out[i] = s
	}
	return out
}
