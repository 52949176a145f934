// Package cluster はクラスタリングアルゴリズムを提供する
package cluster

import (
	"fmt"
	"math"
	"sync"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KMeans はK-meansクラスタリング
// scikit-learnのKMeansと互換性のあるAPIを持つ
//
// Lloyd法の反復自体はmuesli/kmeansに委譲し、このラッパーは
// 複数回の実行から最良の結果を選び、ラベルと慣性を計算する
//
// パラメータ:
//   - nClusters: クラスタ数（デフォルト: 8)
//   - nInit: 異なる初期化での実行回数（デフォルト: 3）
//   - deltaThreshold: 収束判定の割合しきい値（デフォルト: 0.01）
//
// 使用例:
//
//	km := cluster.NewKMeans(cluster.WithNClusters(3))
//	labels, err := km.FitPredict(X)
//	fmt.Println(km.Inertia())
type KMeans struct {
	model.BaseEstimator

	// ハイパーパラメータ
	nClusters      int     // クラスタ数
	nInit          int     // 異なる初期化での実行回数
	deltaThreshold float64 // 変化サンプル割合による収束判定

	// 学習パラメータ
	clusterCenters_ [][]float64 // クラスタ中心（nClusters x nFeatures）
	labels_         []int       // 各サンプルのクラスタラベル
	inertia_        float64     // クラスタ内平方和誤差
	nIter_          int         // 実行された初期化回数

	// 内部状態
	mu         sync.RWMutex
	nFeatures_ int
	nSamples_  int
}

// KMeansOption はKMeansの設定オプション
type KMeansOption func(*KMeans)

// WithNClusters はクラスタ数を設定
func WithNClusters(n int) KMeansOption {
	return func(km *KMeans) {
		km.nClusters = n
	}
}

// WithNInit は異なる初期化での実行回数を設定
func WithNInit(n int) KMeansOption {
	return func(km *KMeans) {
		km.nInit = n
	}
}

// WithDeltaThreshold は収束判定のしきい値を設定
// 1イテレーションで割り当てが変わったサンプルの割合がこの値を
// 下回ると収束とみなす
func WithDeltaThreshold(threshold float64) KMeansOption {
	return func(km *KMeans) {
		km.deltaThreshold = threshold
	}
}

// NewKMeans は新しいKMeansを作成
func NewKMeans(options ...KMeansOption) *KMeans {
	km := &KMeans{
		nClusters:      8,
		nInit:          3,
		deltaThreshold: 0.01,
	}

	for _, opt := range options {
		opt(km)
	}

	return km
}

// Fit はデータをクラスタリングする
// yは無視される（他の推定器とインターフェースを揃えるための引数）
func (km *KMeans) Fit(X, y mat.Matrix) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("KMeans.Fit", "empty data", errors.ErrEmptyData)
	}
	if km.nClusters < 1 {
		return errors.NewValidationError("n_clusters", "must be at least 1", km.nClusters)
	}
	if rows < km.nClusters {
		return errors.Newf("サンプル数がクラスタ数より少ないです: %d < %d", rows, km.nClusters)
	}

	km.nSamples_ = rows
	km.nFeatures_ = cols

	// mat.Matrixをmuesli/clustersの観測値に変換
	dataset := make(clusters.Observations, rows)
	for i := 0; i < rows; i++ {
		dataset[i] = clusters.Coordinates(mat.Row(nil, i, X))
	}

	partitioner, err := kmeans.NewWithOptions(km.deltaThreshold, nil)
	if err != nil {
		return errors.Wrap(err, "KMeans.Fit")
	}

	// 複数回実行して最良の結果を選択
	bestInertia := math.Inf(1)
	var bestCenters [][]float64

	for run := 0; run < km.nInit; run++ {
		result, err := partitioner.Partition(dataset, km.nClusters)
		if err != nil {
			return errors.Wrap(err, "KMeans.Fit")
		}

		centers := make([][]float64, len(result))
		for c, cl := range result {
			centers[c] = make([]float64, cols)
			copy(centers[c], cl.Center)
		}

		inertia := computeInertia(X, centers)
		if inertia < bestInertia {
			bestInertia = inertia
			bestCenters = centers
		}
	}

	// 最終的なラベルの計算
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		labels[i] = findNearestCluster(sample, bestCenters)
	}

	km.clusterCenters_ = bestCenters
	km.labels_ = labels
	km.inertia_ = bestInertia
	km.nIter_ = km.nInit

	km.SetFitted()
	return nil
}

// Predict は入力データに対するクラスタ予測を行う
func (km *KMeans) Predict(X mat.Matrix) (mat.Matrix, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Predict", km.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		cluster := findNearestCluster(sample, km.clusterCenters_)
		predictions.Set(i, 0, float64(cluster))
	}

	return predictions, nil
}

// PredictCluster は各サンプルのクラスタラベルを返す
func (km *KMeans) PredictCluster(X mat.Matrix) ([]int, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "PredictCluster")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.PredictCluster", km.nFeatures_, cols, 1)
	}

	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		labels[i] = findNearestCluster(sample, km.clusterCenters_)
	}

	return labels, nil
}

// FitPredict は学習と予測を同時に行う
func (km *KMeans) FitPredict(X mat.Matrix) ([]int, error) {
	if err := km.Fit(X, nil); err != nil {
		return nil, err
	}
	return km.Labels(), nil
}

// Transform はデータを各クラスタ中心との距離に変換
func (km *KMeans) Transform(X mat.Matrix) (mat.Matrix, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Transform")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Transform", km.nFeatures_, cols, 1)
	}

	distances := mat.NewDense(rows, km.nClusters, nil)
	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		for c := 0; c < km.nClusters; c++ {
			distances.Set(i, c, euclideanDistance(sample, km.clusterCenters_[c]))
		}
	}

	return distances, nil
}

// ClusterCenters は学習されたクラスタ中心を返す
func (km *KMeans) ClusterCenters() [][]float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()

	centers := make([][]float64, len(km.clusterCenters_))
	for i := range km.clusterCenters_ {
		centers[i] = make([]float64, len(km.clusterCenters_[i]))
		copy(centers[i], km.clusterCenters_[i])
	}
	return centers
}

// Labels は学習データのクラスタラベルを返す
func (km *KMeans) Labels() []int {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if km.labels_ == nil {
		return nil
	}

	labels := make([]int, len(km.labels_))
	copy(labels, km.labels_)
	return labels
}

// Inertia は慣性（クラスタ内平方和誤差）を返す
func (km *KMeans) Inertia() float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.inertia_
}

// NClusters はクラスタ数を返す
func (km *KMeans) NClusters() int {
	return km.nClusters
}

// GetParams はモデルのハイパーパラメータを取得する
func (km *KMeans) GetParams(deep bool) map[string]interface{} {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return map[string]interface{}{
		"n_clusters":      km.nClusters,
		"n_init":          km.nInit,
		"delta_threshold": km.deltaThreshold,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (km *KMeans) SetParams(params map[string]interface{}) error {
	km.mu.Lock()
	defer km.mu.Unlock()
	if val, ok := params["n_clusters"].(int); ok {
		if val < 1 {
			return errors.NewValidationError("n_clusters", "must be at least 1", val)
		}
		km.nClusters = val
	}
	if val, ok := params["n_init"].(int); ok {
		km.nInit = val
	}
	if val, ok := params["delta_threshold"].(float64); ok {
		km.deltaThreshold = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のモデルを作成する
func (km *KMeans) Clone() model.SKLearnCompatible {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return NewKMeans(
		WithNClusters(km.nClusters),
		WithNInit(km.nInit),
		WithDeltaThreshold(km.deltaThreshold),
	)
}

// String はモデルの文字列表現を返す
func (km *KMeans) String() string {
	return fmt.Sprintf("KMeans(n_clusters=%d, n_init=%d)", km.nClusters, km.nInit)
}

// 内部ヘルパー関数

// findNearestCluster は最近傍クラスタを検索
func findNearestCluster(sample []float64, centers [][]float64) int {
	minDist := math.Inf(1)
	nearestCluster := 0

	for c, center := range centers {
		dist := euclideanDistance(sample, center)
		if dist < minDist {
			minDist = dist
			nearestCluster = c
		}
	}

	return nearestCluster
}

// computeInertia は慣性（クラスタ内平方和誤差）を計算
func computeInertia(X mat.Matrix, centers [][]float64) float64 {
	rows, _ := X.Dims()
	inertia := 0.0

	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		nearestCluster := findNearestCluster(sample, centers)
		dist := euclideanDistance(sample, centers[nearestCluster])
		inertia += dist * dist
	}

	return inertia
}

// euclideanDistance はユークリッド距離を計算
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}
