// Package viz provides small save-to-PNG plotting helpers over gonum/plot
// for the example programs. Every helper builds a complete figure and
// writes it to the given path.
package viz

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// Points converts parallel x and y slices to plotter.XYs.
func Points(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// Series is one named line in a LineChart.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// sortedClasses returns the distinct labels in ascending order.
func sortedClasses(labels []int) []int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Ints(classes)
	return classes
}

// classPoints groups the coordinates by label.
func classPoints(x, y []float64, labels []int) map[int]plotter.XYs {
	groups := make(map[int]plotter.XYs)
	for i := range x {
		groups[labels[i]] = append(groups[labels[i]], plotter.XY{X: x[i], Y: y[i]})
	}
	return groups
}

// addClassScatters adds one scatter per class with distinct colors and
// glyph shapes, plus legend entries.
func addClassScatters(p *plot.Plot, x, y []float64, labels []int, radius vg.Length) error {
	groups := classPoints(x, y, labels)
	for k, cls := range sortedClasses(labels) {
		sc, err := plotter.NewScatter(groups[cls])
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(k)
		sc.GlyphStyle.Shape = plotutil.Shape(k)
		sc.GlyphStyle.Radius = radius
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("class %d", cls), sc)
	}
	p.Legend.Top = true
	return nil
}

// Scatter saves a single-series scatter plot.
func Scatter(path, title, xLabel, yLabel string, x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("viz.Scatter", len(x), len(y), 0)
	}

	p := newPlot(title, xLabel, yLabel)
	sc, err := plotter.NewScatter(Points(x, y))
	if err != nil {
		return errors.Wrap(err, "viz.Scatter")
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc)

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.Scatter")
}

// ScatterClasses saves a scatter plot with one colored series per class.
func ScatterClasses(path, title, xLabel, yLabel string, x, y []float64, labels []int) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("viz.ScatterClasses", len(x), len(y), 0)
	}
	if len(labels) != len(x) {
		return errors.NewDimensionError("viz.ScatterClasses", len(x), len(labels), 0)
	}

	p := newPlot(title, xLabel, yLabel)
	if err := addClassScatters(p, x, y, labels, vg.Points(2.5)); err != nil {
		return errors.Wrap(err, "viz.ScatterClasses")
	}

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.ScatterClasses")
}

// ScatterHighlight saves a class-colored scatter with a subset of points
// overlaid as large crosses, e.g. misclassified samples.
func ScatterHighlight(path, title, xLabel, yLabel string, x, y []float64, labels []int, highlight []int, highlightName string) error {
	if len(x) != len(y) || len(labels) != len(x) {
		return errors.NewDimensionError("viz.ScatterHighlight", len(x), len(y), 0)
	}

	p := newPlot(title, xLabel, yLabel)
	if err := addClassScatters(p, x, y, labels, vg.Points(2.5)); err != nil {
		return errors.Wrap(err, "viz.ScatterHighlight")
	}

	marked := make(plotter.XYs, 0, len(highlight))
	for _, i := range highlight {
		if i < 0 || i >= len(x) {
			return errors.NewValueError("viz.ScatterHighlight", fmt.Sprintf("highlight index %d out of range", i))
		}
		marked = append(marked, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(marked) > 0 {
		sc, err := plotter.NewScatter(marked)
		if err != nil {
			return errors.Wrap(err, "viz.ScatterHighlight")
		}
		sc.GlyphStyle.Color = color.NRGBA{R: 200, A: 255}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(5)
		p.Add(sc)
		p.Legend.Add(highlightName, sc)
	}

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.ScatterHighlight")
}

// ScatterWithCenters saves a class-colored scatter with cluster centers
// drawn as large black crosses. Only the first two coordinates of each
// center are used.
func ScatterWithCenters(path, title, xLabel, yLabel string, x, y []float64, labels []int, centers [][]float64) error {
	if len(x) != len(y) || len(labels) != len(x) {
		return errors.NewDimensionError("viz.ScatterWithCenters", len(x), len(y), 0)
	}

	p := newPlot(title, xLabel, yLabel)
	if err := addClassScatters(p, x, y, labels, vg.Points(2.5)); err != nil {
		return errors.Wrap(err, "viz.ScatterWithCenters")
	}

	pts := make(plotter.XYs, 0, len(centers))
	for _, c := range centers {
		if len(c) < 2 {
			return errors.NewValueError("viz.ScatterWithCenters", "centers need at least 2 coordinates")
		}
		pts = append(pts, plotter.XY{X: c[0], Y: c[1]})
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "viz.ScatterWithCenters")
	}
	sc.GlyphStyle.Color = color.Black
	sc.GlyphStyle.Shape = draw.CrossGlyph{}
	sc.GlyphStyle.Radius = vg.Points(6)
	p.Add(sc)
	p.Legend.Add("centers", sc)

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.ScatterWithCenters")
}

// LineChart saves a chart with one line per series and a legend.
func LineChart(path, title, xLabel, yLabel string, series ...Series) error {
	if len(series) == 0 {
		return errors.NewValueError("viz.LineChart", "at least one series is required")
	}

	p := newPlot(title, xLabel, yLabel)
	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return errors.NewDimensionError("viz.LineChart", len(s.X), len(s.Y), 0)
		}
		args = append(args, s.Name, Points(s.X, s.Y))
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrap(err, "viz.LineChart")
	}
	p.Legend.Top = true

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.LineChart")
}

// Histogram saves a histogram of the values with the given number of bins.
func Histogram(path, title, xLabel string, values []float64, bins int) error {
	if len(values) == 0 {
		return errors.NewValueError("viz.Histogram", "no values to plot")
	}

	p := newPlot(title, xLabel, "count")
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "viz.Histogram")
	}
	h.FillColor = color.NRGBA{R: 100, G: 140, B: 210, A: 255}
	p.Add(h)

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.Histogram")
}

// HistogramByClass saves overlaid per-class histograms with translucent
// fills so the distributions can be compared.
func HistogramByClass(path, title, xLabel string, values []float64, labels []int, bins int) error {
	if len(values) != len(labels) {
		return errors.NewDimensionError("viz.HistogramByClass", len(values), len(labels), 0)
	}
	if len(values) == 0 {
		return errors.NewValueError("viz.HistogramByClass", "no values to plot")
	}

	p := newPlot(title, xLabel, "count")

	groups := make(map[int][]float64)
	for i, v := range values {
		groups[labels[i]] = append(groups[labels[i]], v)
	}
	for k, cls := range sortedClasses(labels) {
		h, err := plotter.NewHist(plotter.Values(groups[cls]), bins)
		if err != nil {
			return errors.Wrap(err, "viz.HistogramByClass")
		}
		r, g, b, _ := plotutil.Color(k).RGBA()
		h.FillColor = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 110}
		h.LineStyle.Color = plotutil.Color(k)
		p.Add(h)

		// Histograms have no legend thumbnail, so use an unadded line
		// with the matching color.
		thumb, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}})
		if err != nil {
			return errors.Wrap(err, "viz.HistogramByClass")
		}
		thumb.Color = plotutil.Color(k)
		p.Legend.Add(fmt.Sprintf("class %d", cls), thumb)
	}
	p.Legend.Top = true

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "viz.HistogramByClass")
}
