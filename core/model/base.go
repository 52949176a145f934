// Package model は全モデルが実装する共通インターフェースと、
// 学習状態を管理するための部品を定義する
package model

// BaseEstimator は各推定器に埋め込まれ、学習済みかどうかを記録する
type BaseEstimator struct {
	fitted bool
}

// IsFitted は学習済みならtrueを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted はFitの成功後に呼び出し、学習済みの印を付ける
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset は未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.fitted = false
}
