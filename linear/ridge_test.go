package linear

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
)

func TestRidgeZeroAlphaMatchesOLS(t *testing.T) {
	// alpha=0 のRidgeは通常の最小二乗法と一致する
	X := mat.NewDense(5, 2, []float64{
		1, 2,
		2, 1,
		3, 4,
		4, 3,
		5, 6,
	})
	y := mat.NewDense(5, 1, []float64{5, 4, 11, 10, 17})

	ridge := NewRidge(WithAlpha(0))
	if err := ridge.Fit(X, y); err != nil {
		t.Fatalf("Ridge Fit failed: %v", err)
	}

	ols := NewLinearRegression()
	if err := ols.Fit(X, y); err != nil {
		t.Fatalf("OLS Fit failed: %v", err)
	}

	olsWeights := ols.GetWeights()
	for j, w := range ridge.Coef_ {
		if math.Abs(w-olsWeights[j]) > 1e-6 {
			t.Errorf("coef[%d] = %f, OLS gives %f", j, w, olsWeights[j])
		}
	}
	if math.Abs(ridge.Intercept_-ols.GetIntercept()) > 1e-6 {
		t.Errorf("intercept = %f, OLS gives %f", ridge.Intercept_, ols.GetIntercept())
	}
}

func TestRidgeShrinksCoefficients(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{2.1, 3.9, 6.2, 7.8, 10.1, 11.9})

	small := NewRidge(WithAlpha(0.01))
	large := NewRidge(WithAlpha(1000.0))

	if err := small.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := large.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// alphaが大きいほど係数は0に近づく
	if math.Abs(large.Coef_[0]) >= math.Abs(small.Coef_[0]) {
		t.Errorf("large alpha coef %f should be smaller than %f",
			large.Coef_[0], small.Coef_[0])
	}
}

func TestRidgeHandlesCollinearFeatures(t *testing.T) {
	// 2列目が1列目の完全なコピー（OLSでは特異行列になる）
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	ridge := NewRidge(WithAlpha(1.0))
	if err := ridge.Fit(X, y); err != nil {
		t.Fatalf("Ridge should handle collinear features: %v", err)
	}

	pred, err := ridge.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// 正則化のおかげで妥当な予測が得られる
	for i := 0; i < 4; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 1.0 {
			t.Errorf("prediction[%d] = %f, want close to %f", i, pred.At(i, 0), y.At(i, 0))
		}
	}
}

func TestRidgeWithoutIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 6, 9, 12})

	ridge := NewRidge(WithAlpha(0.001), WithFitIntercept(false))
	if err := ridge.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if ridge.Intercept_ != 0 {
		t.Errorf("intercept = %f, want 0 when fit_intercept=false", ridge.Intercept_)
	}
	if math.Abs(ridge.Coef_[0]-3.0) > 0.01 {
		t.Errorf("coef = %f, want approximately 3.0", ridge.Coef_[0])
	}
}

func TestRidgeValidation(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "row mismatch",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(2, 1, []float64{1, 2}),
		},
		{
			name: "y not column vector",
			X:    mat.NewDense(2, 1, []float64{1, 2}),
			y:    mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ridge := NewRidge()
			if err := ridge.Fit(tt.X, tt.y); err == nil {
				t.Error("expected an error")
			}
		})
	}

	// 負のalpha
	bad := NewRidge(WithAlpha(-1.0))
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})
	if err := bad.Fit(X, y); err == nil {
		t.Error("negative alpha should be rejected")
	}
}

func TestRidgeParams(t *testing.T) {
	ridge := NewRidge(WithAlpha(5.0))

	params := ridge.GetParams(false)
	if params["alpha"].(float64) != 5.0 {
		t.Errorf("alpha = %v, want 5.0", params["alpha"])
	}

	if err := ridge.SetParams(map[string]interface{}{"alpha": 2.5}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	if ridge.Alpha() != 2.5 {
		t.Errorf("alpha = %f, want 2.5", ridge.Alpha())
	}

	if err := ridge.SetParams(map[string]interface{}{"alpha": -1.0}); err == nil {
		t.Error("negative alpha should be rejected by SetParams")
	}
}

func TestRidgeClone(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	ridge := NewRidge(WithAlpha(7.0))
	if err := ridge.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone, ok := ridge.Clone().(*Ridge)
	if !ok {
		t.Fatal("Clone should return *Ridge")
	}
	if clone.IsFitted() {
		t.Error("clone should not be fitted")
	}
	if clone.Alpha() != 7.0 {
		t.Errorf("clone alpha = %f, want 7.0", clone.Alpha())
	}
}

func TestRidgeString(t *testing.T) {
	ridge := NewRidge(WithAlpha(10.0))
	s := ridge.String()
	if !strings.Contains(s, "Ridge") || !strings.Contains(s, "10") {
		t.Errorf("unexpected representation: %s", s)
	}
}

func TestRegressorsShareMixinInterface(t *testing.T) {
	// RegressorMixin 経由で回帰モデルを差し替え可能なことを確認する
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i)
		X.Set(i, 0, x)
		y.Set(i, 0, 2*x+1)
	}

	regressors := []model.RegressorMixin{
		NewRidge(WithAlpha(0.01)),
		NewRidgeCV(),
		NewPassiveAggressiveRegressor(WithPAMaxIter(200), WithPARandomState(1)),
	}

	for _, reg := range regressors {
		if err := reg.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if !reg.IsFitted() {
			t.Error("regressor should report fitted state")
		}
		score, err := reg.Score(X, y)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if score < 0.9 {
			t.Errorf("R² = %f, want at least 0.9", score)
		}
	}
}
