package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// MakeBlobs generates isotropic Gaussian blobs in 2D for clustering.
//
// Samples are assigned round-robin to nCenters cluster centers drawn
// uniformly from [-10, 10]^2, then perturbed with N(0, clusterStd).
// The returned label slice holds the generating center of each sample.
func MakeBlobs(nSamples, nCenters int, clusterStd float64, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))

	centers := make([][2]float64, nCenters)
	for i := range centers {
		centers[i] = [2]float64{
			rng.Float64()*20 - 10,
			rng.Float64()*20 - 10,
		}
	}

	X := mat.NewDense(nSamples, 2, nil)
	labels := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		c := i % nCenters
		labels[i] = c
		X.Set(i, 0, centers[c][0]+rng.NormFloat64()*clusterStd)
		X.Set(i, 1, centers[c][1]+rng.NormFloat64()*clusterStd)
	}

	return X, labels
}

// MakeNoisySine generates a 1D regression problem y = sin(4x) + x + noise
// with x drawn uniformly from [-3, 3]. The curve is non-linear enough
// that a straight line underfits while high-degree polynomials overfit,
// which is what the model complexity lessons need.
func MakeNoisySine(nSamples int, noise float64, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(nSamples, 1, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		x := rng.Float64()*6 - 3
		X.Set(i, 0, x)
		y.SetVec(i, math.Sin(4*x)+x+rng.NormFloat64()*noise)
	}

	return X, y
}

// MakeSCurve generates points on a 3D S-shaped manifold.
//
// The returned position slice holds each sample's coordinate along the
// curve, which the manifold learning lesson uses for coloring.
func MakeSCurve(nSamples int, noise float64, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(nSamples, 3, nil)
	position := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		t := 3 * math.Pi * (rng.Float64() - 0.5)
		sign := 1.0
		if t < 0 {
			sign = -1.0
		}

		X.Set(i, 0, math.Sin(t)+rng.NormFloat64()*noise)
		X.Set(i, 1, 2*rng.Float64()+rng.NormFloat64()*noise)
		X.Set(i, 2, sign*(math.Cos(t)-1)+rng.NormFloat64()*noise)
		position[i] = t
	}

	return X, position
}
