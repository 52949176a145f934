package viz

import (
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// imageGrid adapts a row-major pixel matrix to plotter.GridXYZ with row 0
// rendered at the top.
type imageGrid struct {
	pixels [][]float64
}

func (g imageGrid) Dims() (c, r int) {
	r = len(g.pixels)
	if r > 0 {
		c = len(g.pixels[0])
	}
	return c, r
}

func (g imageGrid) Z(c, r int) float64 { return g.pixels[len(g.pixels)-1-r][c] }
func (g imageGrid) X(c int) float64    { return float64(c) }
func (g imageGrid) Y(r int) float64    { return float64(r) }

// pixelRange returns the smallest and largest value over a set of images.
func pixelRange(images [][][]float64) (min, max float64) {
	first := true
	for _, img := range images {
		for _, row := range img {
			for _, v := range row {
				if first {
					min, max = v, v
					first = false
					continue
				}
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

// Heatmap saves a single heatmap of the row-major matrix. Row 0 appears
// at the top, matching how fold masks and images are usually read.
func Heatmap(path, title string, data [][]float64) error {
	if len(data) == 0 || len(data[0]) == 0 {
		return errors.NewValueError("viz.Heatmap", "no data to plot")
	}

	p := plot.New()
	p.Title.Text = title

	hm := plotter.NewHeatMap(imageGrid{pixels: data}, palette.Heat(12, 1))
	min, max := pixelRange([][][]float64{data})
	hm.Min, hm.Max = min, max
	p.Add(hm)

	return errors.Wrap(p.Save(6*vg.Inch, 3*vg.Inch, path), "viz.Heatmap")
}

// ImageGrid saves a tiled gallery of small images, e.g. digit glyphs or
// cluster centers reshaped to 2-D. All tiles share one color scale.
func ImageGrid(path string, images [][][]float64, titles []string, cols int) error {
	if len(images) == 0 {
		return errors.NewValueError("viz.ImageGrid", "no images to plot")
	}
	if cols < 1 {
		return errors.NewValueError("viz.ImageGrid", "cols must be at least 1")
	}

	rows := (len(images) + cols - 1) / cols
	min, max := pixelRange(images)
	pal := palette.Heat(16, 1)

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}
	for i, img := range images {
		p := plot.New()
		if titles != nil && i < len(titles) {
			p.Title.Text = titles[i]
		}
		hm := plotter.NewHeatMap(imageGrid{pixels: img}, pal)
		hm.Min, hm.Max = min, max
		p.Add(hm)
		p.HideAxes()
		plots[i/cols][i%cols] = p
	}

	width := vg.Length(cols) * 1.2 * vg.Inch
	height := vg.Length(rows) * 1.2 * vg.Inch
	return saveTiled(path, plots, rows, cols, width, height)
}

// ScatterMatrix saves a d x d matrix of pairwise feature scatters colored
// by class, with per-feature histograms on the diagonal.
func ScatterMatrix(path string, columns [][]float64, names []string, labels []int) error {
	d := len(columns)
	if d == 0 {
		return errors.NewValueError("viz.ScatterMatrix", "no columns to plot")
	}
	if len(names) != d {
		return errors.NewDimensionError("viz.ScatterMatrix", d, len(names), 0)
	}
	for _, col := range columns {
		if len(col) != len(labels) {
			return errors.NewDimensionError("viz.ScatterMatrix", len(labels), len(col), 0)
		}
	}

	plots := make([][]*plot.Plot, d)
	for i := range plots {
		plots[i] = make([]*plot.Plot, d)
	}

	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			p := plot.New()
			if i == d-1 {
				p.X.Label.Text = names[j]
			}
			if j == 0 {
				p.Y.Label.Text = names[i]
			}

			if i == j {
				h, err := plotter.NewHist(plotter.Values(columns[i]), 12)
				if err != nil {
					return errors.Wrap(err, "viz.ScatterMatrix")
				}
				h.FillColor = plotutil.Color(0)
				p.Add(h)
			} else {
				groups := classPoints(columns[j], columns[i], labels)
				for k, cls := range sortedClasses(labels) {
					sc, err := plotter.NewScatter(groups[cls])
					if err != nil {
						return errors.Wrap(err, "viz.ScatterMatrix")
					}
					sc.GlyphStyle.Color = plotutil.Color(k)
					sc.GlyphStyle.Radius = vg.Points(1.5)
					p.Add(sc)
				}
			}
			plots[i][j] = p
		}
	}

	size := vg.Length(d) * 2 * vg.Inch
	return saveTiled(path, plots, d, d, size, size)
}

// saveTiled lays the plots out on one canvas and writes it as PNG.
func saveTiled(path string, plots [][]*plot.Plot, rows, cols int, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "viz.saveTiled")
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(err, "viz.saveTiled")
	}
	return nil
}
