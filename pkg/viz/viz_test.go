package viz

import (
	"os"
	"path/filepath"
	"testing"
)

// fileWritten fails the test unless path exists and is non-empty.
func fileWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected plot file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file at %s is empty", path)
	}
}

func TestScatterClassesWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")

	x := []float64{0, 1, 2, 5, 6, 7}
	y := []float64{0, 1, 0, 5, 6, 5}
	labels := []int{0, 0, 0, 1, 1, 1}

	if err := ScatterClasses(path, "blobs", "x0", "x1", x, y, labels); err != nil {
		t.Fatalf("ScatterClasses failed: %v", err)
	}
	fileWritten(t, path)
}

func TestScatterClassesLengthMismatch(t *testing.T) {
	err := ScatterClasses("unused.png", "t", "x", "y", []float64{1, 2}, []float64{1}, []int{0, 0})
	if err == nil {
		t.Error("mismatched x and y lengths should fail")
	}
	err = ScatterClasses("unused.png", "t", "x", "y", []float64{1, 2}, []float64{1, 2}, []int{0})
	if err == nil {
		t.Error("mismatched label length should fail")
	}
}

func TestScatterHighlight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highlight.png")

	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2, 3}
	labels := []int{0, 0, 1, 1}

	if err := ScatterHighlight(path, "errors", "x", "y", x, y, labels, []int{2}, "misclassified"); err != nil {
		t.Fatalf("ScatterHighlight failed: %v", err)
	}
	fileWritten(t, path)

	if err := ScatterHighlight(path, "errors", "x", "y", x, y, labels, []int{9}, "bad"); err == nil {
		t.Error("highlight index out of range should fail")
	}
}

func TestScatterWithCenters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "centers.png")

	x := []float64{0, 1, 5, 6}
	y := []float64{0, 1, 5, 6}
	labels := []int{0, 0, 1, 1}
	centers := [][]float64{{0.5, 0.5}, {5.5, 5.5}}

	if err := ScatterWithCenters(path, "kmeans", "x", "y", x, y, labels, centers); err != nil {
		t.Fatalf("ScatterWithCenters failed: %v", err)
	}
	fileWritten(t, path)
}

func TestLineChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.png")

	err := LineChart(path, "curves", "k", "inertia",
		Series{Name: "train", X: []float64{1, 2, 3}, Y: []float64{0.9, 0.95, 0.99}},
		Series{Name: "test", X: []float64{1, 2, 3}, Y: []float64{0.85, 0.9, 0.8}},
	)
	if err != nil {
		t.Fatalf("LineChart failed: %v", err)
	}
	fileWritten(t, path)

	if err := LineChart(path, "t", "x", "y"); err == nil {
		t.Error("LineChart without series should fail")
	}
	bad := Series{Name: "bad", X: []float64{1, 2}, Y: []float64{1}}
	if err := LineChart(path, "t", "x", "y", bad); err == nil {
		t.Error("LineChart with mismatched series lengths should fail")
	}
}

func TestHistograms(t *testing.T) {
	dir := t.TempDir()

	values := []float64{1, 1.2, 1.1, 3.4, 3.5, 3.3, 3.6, 5.1}
	if err := Histogram(filepath.Join(dir, "hist.png"), "wages", "wage", values, 5); err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	fileWritten(t, filepath.Join(dir, "hist.png"))

	labels := []int{0, 0, 0, 1, 1, 1, 1, 2}
	if err := HistogramByClass(filepath.Join(dir, "class_hist.png"), "by class", "value", values, labels, 5); err != nil {
		t.Fatalf("HistogramByClass failed: %v", err)
	}
	fileWritten(t, filepath.Join(dir, "class_hist.png"))

	if err := Histogram(filepath.Join(dir, "empty.png"), "t", "x", nil, 5); err == nil {
		t.Error("Histogram without values should fail")
	}
}

func TestHeatmapAndImageGrid(t *testing.T) {
	dir := t.TempDir()

	mask := [][]float64{
		{1, 1, 0, 0, 0},
		{0, 0, 1, 1, 0},
		{0, 0, 0, 0, 1},
	}
	if err := Heatmap(filepath.Join(dir, "mask.png"), "folds", mask); err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	fileWritten(t, filepath.Join(dir, "mask.png"))

	images := [][][]float64{
		{{0, 8, 0}, {8, 0, 8}, {0, 8, 0}},
		{{8, 0, 8}, {0, 8, 0}, {8, 0, 8}},
		{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
	}
	titles := []string{"0", "1", "2"}
	if err := ImageGrid(filepath.Join(dir, "digits.png"), images, titles, 2); err != nil {
		t.Fatalf("ImageGrid failed: %v", err)
	}
	fileWritten(t, filepath.Join(dir, "digits.png"))

	if err := Heatmap(filepath.Join(dir, "bad.png"), "t", nil); err == nil {
		t.Error("Heatmap without data should fail")
	}
	if err := ImageGrid(filepath.Join(dir, "bad.png"), images, nil, 0); err == nil {
		t.Error("ImageGrid with zero columns should fail")
	}
}

func TestScatterMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.png")

	columns := [][]float64{
		{1, 2, 3, 7, 8, 9},
		{2, 1, 2, 8, 9, 8},
		{0.5, 0.7, 0.6, 2.5, 2.4, 2.6},
	}
	names := []string{"sepal", "petal", "width"}
	labels := []int{0, 0, 0, 1, 1, 1}

	if err := ScatterMatrix(path, columns, names, labels); err != nil {
		t.Fatalf("ScatterMatrix failed: %v", err)
	}
	fileWritten(t, path)

	if err := ScatterMatrix(path, columns, []string{"only one"}, labels); err == nil {
		t.Error("ScatterMatrix with wrong name count should fail")
	}
}
