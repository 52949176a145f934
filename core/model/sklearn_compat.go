package model

import (
	"gonum.org/v1/gonum/mat"
)

// SKLearnCompatible はscikit-learn流のハイパーパラメータ操作を提供する。
// Cloneは同じ設定の未学習インスタンスを返し、交差検証やグリッドサーチで
// フォールドごとにモデルを複製するために使われる
type SKLearnCompatible interface {
	GetParams(deep bool) map[string]interface{}
	SetParams(params map[string]interface{}) error
	Clone() SKLearnCompatible
}

// ClassifierMixin は分類器が満たすインターフェース。
//
// 線形分類器はマージンに基づいて判別するため、確率ではなく
// 決定関数の値を公開する
type ClassifierMixin interface {
	Estimator

	// DecisionFunction は符号がクラス、絶対値が確信度を表すスコアを返す
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)

	// Score は正解率を返す
	Score(X, y mat.Matrix) (float64, error)

	// Classes は学習データに現れたクラスラベルを返す
	Classes() []int

	// NClasses はクラス数を返す
	NClasses() int
}

// RegressorMixin は回帰器が満たすインターフェース
type RegressorMixin interface {
	Estimator

	// Score は決定係数R²を返す
	Score(X, y mat.Matrix) (float64, error)
}

// TransformerMixin は変換器が満たすインターフェース。
// FitTransformは学習と変換をまとめて行う
type TransformerMixin interface {
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformerMixin は逆変換も提供する変換器。
// スケーラのように元の空間へ戻せるものが実装する
type InverseTransformerMixin interface {
	TransformerMixin

	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// ClusterMixin はクラスタリング器が満たすインターフェース
type ClusterMixin interface {
	Fitter

	// FitPredict は学習してそのまま各サンプルのクラスタ番号を返す
	FitPredict(X mat.Matrix) ([]int, error)

	// PredictCluster は新しいデータを最も近いクラスタへ割り当てる
	PredictCluster(X mat.Matrix) ([]int, error)

	// NClusters はクラスタ数を返す
	NClusters() int
}
