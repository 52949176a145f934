package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/linear"
	"github.com/YuminosukeSato/goml-tutorials/modelselection"
	"github.com/YuminosukeSato/goml-tutorials/preprocessing"
)

func makeRegressionData(n int, seed uint64) (*mat.Dense, *mat.Dense) {
	r := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x0 := r.Float64() * 100 // deliberately unscaled
		x1 := r.Float64()
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		y.Set(i, 0, 0.05*x0+4*x1+r.NormFloat64()*0.1)
	}
	return X, y
}

func TestPipelineFitPredict(t *testing.T) {
	X, y := makeRegressionData(60, 42)

	p := New(
		Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
		Step{Name: "ridge", Component: linear.NewRidge(linear.WithAlpha(0.1))},
	)

	require.NoError(t, p.Fit(X, y))
	assert.True(t, p.IsFitted())

	pred, err := p.Predict(X)
	require.NoError(t, err)
	rows, cols := pred.Dims()
	assert.Equal(t, 60, rows)
	assert.Equal(t, 1, cols)

	score, err := p.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)
}

func TestPipelineNamedSteps(t *testing.T) {
	p := New(
		Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
		Step{Name: "ridge", Component: linear.NewRidge()},
	)

	steps := p.NamedSteps()
	require.Equal(t, 2, len(steps))

	if _, ok := steps["scaler"].(*preprocessing.StandardScaler); !ok {
		t.Error("scaler step has wrong type")
	}
	if _, ok := steps["ridge"].(*linear.Ridge); !ok {
		t.Error("ridge step has wrong type")
	}
}

func TestPipelineParamRouting(t *testing.T) {
	p := New(
		Step{Name: "poly", Component: preprocessing.NewPolynomialFeatures(2, false)},
		Step{Name: "ridge", Component: linear.NewRidge(linear.WithAlpha(1.0))},
	)

	err := p.SetParams(map[string]interface{}{
		"poly__degree": 3,
		"ridge__alpha": 5.0,
	})
	require.NoError(t, err)

	params := p.GetParams(true)
	assert.Equal(t, 3, params["poly__degree"])
	assert.Equal(t, 5.0, params["ridge__alpha"])

	// Unknown step
	err = p.SetParams(map[string]interface{}{"missing__alpha": 1.0})
	assert.Error(t, err)

	// Bare parameter name without a step prefix
	err = p.SetParams(map[string]interface{}{"alpha": 1.0})
	assert.Error(t, err)
}

func TestPipelineValidation(t *testing.T) {
	X, y := makeRegressionData(10, 1)

	t.Run("No steps", func(t *testing.T) {
		p := New()
		assert.Error(t, p.Fit(X, y))
	})

	t.Run("Duplicate names", func(t *testing.T) {
		p := New(
			Step{Name: "s", Component: preprocessing.NewStandardScalerDefault()},
			Step{Name: "s", Component: linear.NewRidge()},
		)
		assert.Error(t, p.Fit(X, y))
	})

	t.Run("Estimator in the middle", func(t *testing.T) {
		p := New(
			Step{Name: "ridge", Component: linear.NewRidge()},
			Step{Name: "ridge2", Component: linear.NewRidge()},
		)
		assert.Error(t, p.Fit(X, y))
	})

	t.Run("Name containing separator", func(t *testing.T) {
		p := New(
			Step{Name: "bad__name", Component: linear.NewRidge()},
		)
		assert.Error(t, p.Fit(X, y))
	})
}

func TestPipelineTransformOnly(t *testing.T) {
	X, _ := makeRegressionData(20, 9)

	p := New(
		Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
		Step{Name: "minmax", Component: preprocessing.NewMinMaxScalerDefault()},
	)

	out, err := p.FitTransform(X)
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 2, cols)

	// All values inside the min-max range
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := out.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	// A transformer-only pipeline cannot predict
	_, err = p.Predict(X)
	assert.Error(t, err)

	// Transform on new data works after fitting
	out2, err := p.Transform(X)
	require.NoError(t, err)
	r2, c2 := out2.Dims()
	assert.Equal(t, 20, r2)
	assert.Equal(t, 2, c2)
}

func TestPipelineClone(t *testing.T) {
	X, y := makeRegressionData(30, 5)

	p := New(
		Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
		Step{Name: "ridge", Component: linear.NewRidge(linear.WithAlpha(2.0))},
	)
	require.NoError(t, p.Fit(X, y))

	clone, ok := p.Clone().(*Pipeline)
	require.True(t, ok)
	assert.False(t, clone.IsFitted())

	// Changing the clone's parameters leaves the original untouched
	require.NoError(t, clone.SetParams(map[string]interface{}{"ridge__alpha": 99.0}))
	assert.Equal(t, 2.0, p.GetParams(true)["ridge__alpha"])
	assert.Equal(t, 99.0, clone.GetParams(true)["ridge__alpha"])
}

func TestMakePipeline(t *testing.T) {
	p := MakePipeline(
		preprocessing.NewStandardScalerDefault(),
		linear.NewRidge(),
	)

	require.Equal(t, 2, len(p.Steps))
	assert.Equal(t, "standardscaler", p.Steps[0].Name)
	assert.Equal(t, "ridge", p.Steps[1].Name)

	// Duplicate types are disambiguated with suffixes
	p2 := MakePipeline(
		preprocessing.NewStandardScalerDefault(),
		preprocessing.NewStandardScalerDefault(),
	)
	assert.Equal(t, "standardscaler-1", p2.Steps[0].Name)
	assert.Equal(t, "standardscaler-2", p2.Steps[1].Name)
}

func TestPipelineInsideGridSearch(t *testing.T) {
	// Quadratic data: the right polynomial degree must win the search
	n := 60
	r := rand.New(rand.NewPCG(17, 17))
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := r.Float64()*6 - 3
		X.Set(i, 0, x)
		y.Set(i, 0, x*x-3*x+2+r.NormFloat64()*0.2)
	}

	p := New(
		Step{Name: "poly", Component: preprocessing.NewPolynomialFeatures(1, false)},
		Step{Name: "ridge", Component: linear.NewRidge(linear.WithAlpha(0.001))},
	)

	grid := modelselection.ParamGrid{
		"poly__degree": {1, 2},
		"ridge__alpha": {0.001, 1.0},
	}
	search := modelselection.NewGridSearchCV(p, grid, modelselection.NewKFold(5, true, 42))

	require.NoError(t, search.Fit(X, y))

	assert.Equal(t, 2, search.BestParams_["poly__degree"])
	assert.Greater(t, search.BestScore_, 0.95)

	// The refit search predicts through the whole pipeline
	score, err := search.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)
}
