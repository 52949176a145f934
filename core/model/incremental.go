package model

import "gonum.org/v1/gonum/mat"

// IncrementalEstimator はミニバッチを順次与えて学習できるモデル。
// scikit-learnのpartial_fitに相当する
type IncrementalEstimator interface {
	Estimator

	// PartialFit は1つのミニバッチで内部パラメータを更新する。
	// 分類器では最初の呼び出しでclassesに全クラスラベルを渡す。
	// 回帰ではclassesはnilでよい
	PartialFit(X, y mat.Matrix, classes []int) error

	// NIterations はこれまでに実行した更新回数を返す
	NIterations() int

	// IsWarmStart はFit再呼び出し時に既存の重みから継続するかを返す
	IsWarmStart() bool

	// SetWarmStart は重みの引き継ぎを切り替える
	SetWarmStart(warmStart bool)
}
