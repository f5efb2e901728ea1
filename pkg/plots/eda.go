package plots

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/plot/vg"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
)

// MaxCountPlots caps the number of categorical count plots.
const MaxCountPlots = 50

// Histograms saves one histogram per named numeric column.
func (s *Saver) Histograms(f *frame.Frame, names []string, log *slog.Logger) ([]string, error) {
	var paths []string
	for _, name := range names {
		c, err := f.Col(name)
		if err != nil {
			return paths, err
		}
		p, err := Histogram(c.Floats, "Distribution of "+name, HistogramBins)
		if errors.Is(err, ErrNoData) {
			log.Warn("skipping empty histogram", "column", name)
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("histogram %s: %w", name, err)
		}
		path, err := s.Save(p, "hist_"+name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CountPlots saves a frequency-ordered bar chart for the first
// MaxCountPlots named categorical columns.
func (s *Saver) CountPlots(f *frame.Frame, names []string) ([]string, error) {
	if len(names) > MaxCountPlots {
		names = names[:MaxCountPlots]
	}
	var paths []string
	for _, name := range names {
		c, err := f.Col(name)
		if err != nil {
			return paths, err
		}
		labels, counts := profile.ValueCounts(c)
		if len(labels) == 0 {
			continue
		}
		p, err := CountPlot(labels, counts, name)
		if err != nil {
			return paths, fmt.Errorf("count plot %s: %w", name, err)
		}
		path, err := s.Save(p, "count_"+name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CorrelationHeatmap saves the lower triangle of a Pearson matrix.
func (s *Saver) CorrelationHeatmap(m profile.Matrix) (string, error) {
	p, err := Heatmap(m, "Correlation of numeric columns", CorrelationPalette(), -1, 1, true)
	if err != nil {
		return "", err
	}
	return s.SaveSize(p, "correlation", squareSide(len(m.Names)), squareSide(len(m.Names)))
}

// AssociationHeatmap saves the lower triangle of a Cramér's V matrix.
func (s *Saver) AssociationHeatmap(m profile.Matrix) (string, error) {
	pal, err := AssociationPalette()
	if err != nil {
		return "", err
	}
	p, err := Heatmap(m, "Cramér's V between categorical columns", pal, 0, 1, true)
	if err != nil {
		return "", err
	}
	return s.SaveSize(p, "cramers_v", squareSide(len(m.Names)), squareSide(len(m.Names)))
}

// squareSide grows the canvas with the matrix so annotations stay legible.
func squareSide(k int) vg.Length {
	return max(6*vg.Inch, vg.Length(k)*0.35*vg.Inch)
}
