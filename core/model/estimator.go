package model

import "gonum.org/v1/gonum/mat"

// Estimator は学習・予測を行うモデルの基本インターフェース
type Estimator interface {
	Fitter
	Predictor

	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}
