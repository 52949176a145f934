// Package dataset provides the bundled datasets and synthetic data
// generators used throughout the lessons.
//
// The bundled files live in the datasets/ directory at the repository
// root. Loaders take the directory path explicitly or fall back to
// DefaultDir, which assumes the process runs from the repository root.
package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// DefaultDir is the directory the loaders read from when no path is given.
const DefaultDir = "datasets"

// Dataset is a numeric dataset with feature matrix X and target vector Y.
//
// For classification datasets Y holds class indices into TargetNames.
// For regression datasets TargetNames is empty and Y holds raw values.
type Dataset struct {
	X            *mat.Dense
	Y            *mat.VecDense
	FeatureNames []string
	TargetNames  []string
}

// NSamples returns the number of rows in X.
func (d *Dataset) NSamples() int {
	r, _ := d.X.Dims()
	return r
}

// NFeatures returns the number of columns in X.
func (d *Dataset) NFeatures() int {
	_, c := d.X.Dims()
	return c
}

// Labels returns Y as an int slice of class indices.
func (d *Dataset) Labels() []int {
	labels := make([]int, d.Y.Len())
	for i := range labels {
		labels[i] = int(d.Y.AtVec(i))
	}
	return labels
}

// YMatrix returns Y as an n×1 matrix, the shape estimators consume.
func (d *Dataset) YMatrix() *mat.Dense {
	n := d.Y.Len()
	m := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		m.Set(i, 0, d.Y.AtVec(i))
	}
	return m
}

// TextDataset is a collection of documents with integer labels.
type TextDataset struct {
	Texts       []string
	Labels      []int
	TargetNames []string
}

// NSamples returns the number of documents.
func (t *TextDataset) NSamples() int {
	return len(t.Texts)
}
