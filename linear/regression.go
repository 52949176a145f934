package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/core/parallel"
	"github.com/YuminosukeSato/goml-tutorials/metrics"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// LinearRegression は正規方程式で解く通常の最小二乗回帰
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense // 学習された係数
	Intercept float64
	NFeatures int
}

// NewLinearRegression は未学習の線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit は正規方程式 w = (X^T X)^-1 X^T y で重みと切片を求める
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LinearRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = nFeatures

	// 第0列を1で埋めた計画行列を作る。行のコピーは
	// サンプル数が閾値を超えるときだけ並列化する
	const parallelThreshold = 1000
	design := mat.NewDense(nSamples, nFeatures+1, nil)
	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		row := make([]float64, nFeatures+1)
		for i := start; i < end; i++ {
			row[0] = 1.0
			mat.Row(row[1:], i, X)
			design.SetRow(i, row)
		}
	})

	var gram mat.Dense
	gram.Mul(design.T(), design)

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var moment mat.VecDense
	moment.MulVec(design.T(), mat.NewVecDense(nSamples, mat.Col(nil, 0, y)))

	sol := mat.NewVecDense(nFeatures+1, nil)
	sol.MulVec(&gramInv, &moment)

	lr.Intercept = sol.AtVec(0)
	lr.Weights = mat.NewVecDense(nFeatures, mat.Col(nil, 0, sol)[1:])

	lr.SetFitted()
	return nil
}

// Predict は学習済みの重みで X*w + b を計算する
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	_, nFeatures := X.Dims()
	if nFeatures != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, nFeatures, 1)
	}

	var preds mat.Dense
	preds.Mul(X, lr.Weights)
	preds.Apply(func(_, _ int, v float64) float64 {
		return v + lr.Intercept
	}, &preds)

	return &preds, nil
}

// GetWeights は係数のコピーをスライスで返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// GetIntercept は学習された切片を返す。未学習なら0
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はテストデータに対する決定係数R²を返す
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	return metrics.R2Score(
		mat.NewVecDense(rows, mat.Col(nil, 0, y)),
		mat.NewVecDense(rows, mat.Col(nil, 0, yPred)),
	)
}

// GetParams はハイパーパラメータを返す。通常の最小二乗法には調整項がない
func (lr *LinearRegression) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{}
}

// SetParams はハイパーパラメータを設定する
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	return nil
}

// Clone は未学習の新しいモデルを返す
func (lr *LinearRegression) Clone() model.SKLearnCompatible {
	return NewLinearRegression()
}

func (lr *LinearRegression) String() string {
	return "LinearRegression()"
}
