package linear

import (
	"fmt"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/core/parallel"
	"github.com/YuminosukeSato/goml-tutorials/metrics"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Ridge はL2正則化付き線形回帰モデル
//
// 通常の最小二乗法に係数の二乗和ペナルティを加えることで、
// 多重共線性のあるデータでも安定した解を得られる。
// alphaが大きいほど係数は0に向かって縮小される
//
// パラメータ:
//   - alpha: 正則化の強さ（デフォルト: 1.0）
//   - fitIntercept: 切片を学習するか（デフォルト: true）
//
// 使用例:
//
//	ridge := linear.NewRidge(linear.WithAlpha(10.0))
//	err := ridge.Fit(X, y)
//	predictions, err := ridge.Predict(XTest)
type Ridge struct {
	model.BaseEstimator

	alpha        float64
	fitIntercept bool

	// 学習済みパラメータ（scikit-learn互換の命名）
	Coef_      []float64 // 係数
	Intercept_ float64   // 切片
	NFeatures  int       // 特徴量の数
}

// NewRidge は新しいRidgeモデルを作成する
func NewRidge(options ...RidgeOption) *Ridge {
	r := &Ridge{
		alpha:        1.0,
		fitIntercept: true,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Alpha は設定されている正則化の強さを返す
func (r *Ridge) Alpha() float64 {
	return r.alpha
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X + alpha * I)^(-1) * X^T * y を解く
// 切片項は正則化の対象に含めない
func (r *Ridge) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	ry, cy := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}

	if ry != rows {
		return errors.NewDimensionError("Ridge.Fit", rows, ry, 0)
	}

	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}

	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}

	r.NFeatures = cols

	// 切片を学習する場合は X に 1 の列を追加
	nParams := cols
	offset := 0
	if r.fitIntercept {
		nParams = cols + 1
		offset = 1
	}

	XDesign := mat.NewDense(rows, nParams, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if r.fitIntercept {
				XDesign.Set(i, 0, 1.0)
			}
			for j := 0; j < cols; j++ {
				XDesign.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	// X^T * X + alpha * I を計算
	var XT mat.Dense
	XT.CloneFrom(XDesign.T())

	var gram mat.Dense
	gram.Mul(&XT, XDesign)

	// 正則化項を対角成分に加算（切片の位置は除く）
	for j := offset; j < nParams; j++ {
		gram.Set(j, j, gram.At(j, j)+r.alpha)
	}

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	// X^T * y を計算
	yVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(nParams, nil)
	weights.MulVec(&gramInv, &XTy)

	// 切片と係数を分離
	if r.fitIntercept {
		r.Intercept_ = weights.AtVec(0)
	} else {
		r.Intercept_ = 0
	}
	r.Coef_ = make([]float64, cols)
	for j := 0; j < cols; j++ {
		r.Coef_[j] = weights.AtVec(j + offset)
	}

	r.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", r.NFeatures, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := r.Intercept_
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * r.Coef_[j]
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	yTrueVec := mat.NewVecDense(rows, nil)
	yPredVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yTrueVec.SetVec(i, y.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return metrics.R2Score(yTrueVec, yPredVec)
}

// GetParams はモデルのハイパーパラメータを取得する
func (r *Ridge) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"alpha":         r.alpha,
		"fit_intercept": r.fitIntercept,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (r *Ridge) SetParams(params map[string]interface{}) error {
	if val, ok := params["alpha"].(float64); ok {
		if val < 0 {
			return errors.NewValidationError("alpha", "must be non-negative", val)
		}
		r.alpha = val
	}
	if val, ok := params["fit_intercept"].(bool); ok {
		r.fitIntercept = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のモデルを作成する
func (r *Ridge) Clone() model.SKLearnCompatible {
	return NewRidge(WithAlpha(r.alpha), WithFitIntercept(r.fitIntercept))
}

// String はモデルの文字列表現を返す
func (r *Ridge) String() string {
	return fmt.Sprintf("Ridge(alpha=%g, fit_intercept=%t)", r.alpha, r.fitIntercept)
}
