package model

import "gonum.org/v1/gonum/mat"

// Transformer はラベルなしでパラメータを学習し、行列を別の行列へ写す。
// yを取らない点でEstimatorと異なり、パイプラインの中間段として使われる
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
