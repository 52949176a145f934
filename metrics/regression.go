package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// checkPair は正解と予測のベクトルが空でなく同じ長さであることを確認する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// residuals は yTrue - yPred を新しいスライスとして返す
func residuals(yTrue, yPred *mat.VecDense, n int) []float64 {
	diff := make([]float64, n)
	floats.SubTo(diff, mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred))
	return diff
}

// MSE は平均二乗誤差を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	diff := residuals(yTrue, yPred, n)
	return floats.Dot(diff, diff) / float64(n), nil
}

// MSEMatrix は列ベクトル形式（n×1行列）の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	return MSE(
		mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)),
		mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)),
	)
}

// RMSE は平均二乗誤差の平方根を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	diff := residuals(yTrue, yPred, n)
	return floats.Norm(diff, 1) / float64(n), nil
}

// R2Score は決定係数R²を計算する。
// 正解がすべて同じ値で全変動が0になる場合はエラーを返す
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	pred := mat.Col(nil, 0, yPred)
	mean := floats.Sum(truth) / float64(n)

	var tss, rss float64
	for i, t := range truth {
		tss += (t - mean) * (t - mean)
		rss += (t - pred[i]) * (t - pred[i])
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する。
// 正解値が0のサンプルは割合が定義できないため平均から除外される
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred.AtVec(i)) / math.Abs(t)
		valid++
	}

	if valid == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}

	return (sum / float64(valid)) * 100, nil
}

// ExplainedVarianceScore は説明分散スコア 1 - Var(yTrue-yPred)/Var(yTrue) を計算する。
// R²と違い、予測に一定のバイアスが乗っていても減点されない
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	diff := residuals(yTrue, yPred, n)

	truthMean := floats.Sum(truth) / float64(n)
	diffMean := floats.Sum(diff) / float64(n)

	var varTruth, varDiff float64
	for i, t := range truth {
		varTruth += (t - truthMean) * (t - truthMean)
		varDiff += (diff[i] - diffMean) * (diff[i] - diffMean)
	}
	varTruth /= float64(n)
	varDiff /= float64(n)

	if varTruth == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}

	return 1 - varDiff/varTruth, nil
}
