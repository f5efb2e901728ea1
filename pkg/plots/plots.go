// Package plots renders the exploratory charts as PNG files with gonum/plot.
package plots

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/stats"
)

// HistogramBins matches the bin count of the exploratory histograms.
const HistogramBins = 30

var ErrNoData = errors.New("plots: no values to plot")

// Histogram draws a histogram of the present values with a Gaussian KDE
// overlay scaled to counts.
func Histogram(values []float64, title string, bins int) (*plot.Plot, error) {
	v := stats.DropNaN(values)
	if len(v) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(v), bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	p.Add(h)

	width := h.Bins[0].Max - h.Bins[0].Min
	if kde := KDE(v); kde != nil && width > 0 {
		scale := float64(len(v)) * width
		f := plotter.NewFunction(func(x float64) float64 { return scale * kde(x) })
		f.XMin, f.XMax = h.Bins[0].Min, h.Bins[len(h.Bins)-1].Max
		f.Samples = 200
		f.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
		f.Width = vg.Points(1.5)
		p.Add(f)
	}
	return p, nil
}

// KDE returns a Gaussian kernel density estimate using Scott's rule for the
// bandwidth. It is nil when the values have no spread.
func KDE(values []float64) func(float64) float64 {
	n := float64(len(values))
	sd := stats.SampleStd(values)
	if n < 2 || sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(n, -1.0/5)
	norm := 1 / (n * bw * math.Sqrt(2*math.Pi))
	return func(x float64) float64 {
		s := 0.0
		for _, v := range values {
			z := (x - v) / bw
			s += math.Exp(-0.5 * z * z)
		}
		return s * norm
	}
}

// CountPlot draws one bar per category in the given order.
func CountPlot(labels []string, counts []int, title string) (*plot.Plot, error) {
	if len(labels) == 0 {
		return nil, ErrNoData
	}
	vals := make(plotter.Values, len(counts))
	for i, c := range counts {
		vals[i] = float64(c)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"
	bars, err := plotter.NewBarChart(vals, vg.Points(12))
	if err != nil {
		return nil, err
	}
	bars.Color = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	rotateX(p)
	return p, nil
}

// grid adapts a square matrix to plotter.GridXYZ. Row 0 is drawn at the
// top. With lower set, cells on or above the diagonal are NaN.
type grid struct {
	m     profile.Matrix
	lower bool
}

func (g grid) Dims() (c, r int) { return len(g.m.Names), len(g.m.Names) }
func (g grid) X(c int) float64  { return float64(c) }
func (g grid) Y(r int) float64  { return float64(r) }
func (g grid) Z(c, r int) float64 {
	row := len(g.m.Names) - 1 - r
	if g.lower && c >= row {
		return math.NaN()
	}
	return g.m.Values[row][c]
}

// Heatmap draws m with one annotated cell per pair. Values outside
// [min, max] use the end colours of the palette.
func Heatmap(m profile.Matrix, title string, pal palette.Palette, min, max float64, lower bool) (*plot.Plot, error) {
	k := len(m.Names)
	if k == 0 {
		return nil, ErrNoData
	}
	g := grid{m: m, lower: lower}
	hm := plotter.NewHeatMap(g, pal)
	hm.Min, hm.Max = min, max
	cols := pal.Colors()
	hm.Underflow, hm.Overflow = cols[0], cols[len(cols)-1]
	hm.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)

	var xys plotter.XYs
	var text []string
	for r := 0; r < k; r++ {
		for c := 0; c < k; c++ {
			z := g.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			text = append(text, fmt.Sprintf("%.2f", z))
		}
	}
	if len(xys) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(6)
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	xt := make([]plot.Tick, k)
	yt := make([]plot.Tick, k)
	for i, name := range m.Names {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[i] = plot.Tick{Value: float64(k - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Min, p.X.Max = -0.5, float64(k)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(k)-0.5
	rotateX(p)
	return p, nil
}

// CorrelationPalette is a blue to red diverging palette for [-1, 1].
func CorrelationPalette() palette.Palette {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm.Palette(255)
}

// AssociationPalette is the sequential yellow-green-blue palette.
func AssociationPalette() (palette.Palette, error) {
	return brewer.GetPalette(brewer.TypeSequential, "YlGnBu", 9)
}

func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// Saver writes plots into a directory.
type Saver struct {
	Dir           string
	Width, Height vg.Length
}

// NewSaver creates dir if needed.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	return &Saver{Dir: dir, Width: 6 * vg.Inch, Height: 4 * vg.Inch}, nil
}

// Save writes p as <name>.png and returns the path.
func (s *Saver) Save(p *plot.Plot, name string) (string, error) {
	return s.SaveSize(p, name, s.Width, s.Height)
}

// SaveSize is Save with an explicit canvas size.
func (s *Saver) SaveSize(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	path := filepath.Join(s.Dir, fileName(name)+".png")
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}
