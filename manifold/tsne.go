// Package manifold は多様体学習による可視化向け次元削減を提供する
package manifold

import (
	"fmt"
	"sync"

	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// TSNE はt-SNE（t-distributed Stochastic Neighbor Embedding）による次元削減
// scikit-learnのTSNEと互換性のあるAPIを持つ
//
// 勾配降下の反復はgo-tsneに委譲する
// t-SNEは学習データ自身の埋め込みのみを計算するため、
// 新しいデータに対するTransformは提供しない
//
// パラメータ:
//   - nComponents: 埋め込み先の次元数（デフォルト: 2）
//   - perplexity: 近傍数に相当するスケール（デフォルト: 30）
//   - learningRate: 勾配降下の学習率（デフォルト: 200）
//   - maxIter: 反復回数の上限（デフォルト: 300）
//
// 使用例:
//
//	t := manifold.NewTSNE(manifold.WithPerplexity(10))
//	embedding, err := t.FitTransform(X)
type TSNE struct {
	model.BaseEstimator

	// ハイパーパラメータ
	nComponents  int
	perplexity   float64
	learningRate float64
	maxIter      int
	verbose      bool

	// 学習パラメータ
	embedding_    *mat.Dense // 学習データの埋め込み（nSamples x nComponents）
	klDivergence_ float64    // 最終イテレーションのKLダイバージェンス
	nIter_        int        // 実行されたイテレーション数

	mu sync.RWMutex
}

// TSNEOption はTSNEの設定オプション
type TSNEOption func(*TSNE)

// WithComponents は埋め込み先の次元数を設定
func WithComponents(n int) TSNEOption {
	return func(t *TSNE) {
		t.nComponents = n
	}
}

// WithPerplexity はperplexityを設定
// 有効な近傍数に相当し、サンプル数より小さい必要がある
func WithPerplexity(p float64) TSNEOption {
	return func(t *TSNE) {
		t.perplexity = p
	}
}

// WithLearningRate は勾配降下の学習率を設定
func WithLearningRate(lr float64) TSNEOption {
	return func(t *TSNE) {
		t.learningRate = lr
	}
}

// WithMaxIter は反復回数の上限を設定
func WithMaxIter(n int) TSNEOption {
	return func(t *TSNE) {
		t.maxIter = n
	}
}

// WithVerbose は進捗表示の有効/無効を設定
func WithVerbose(v bool) TSNEOption {
	return func(t *TSNE) {
		t.verbose = v
	}
}

// NewTSNE は新しいTSNEを作成
func NewTSNE(options ...TSNEOption) *TSNE {
	t := &TSNE{
		nComponents:  2,
		perplexity:   30.0,
		learningRate: 200.0,
		maxIter:      300,
	}

	for _, opt := range options {
		opt(t)
	}

	return t
}

// Fit は学習データの埋め込みを計算する
func (t *TSNE) Fit(X mat.Matrix) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("TSNE.Fit", "empty data", errors.ErrEmptyData)
	}
	if t.nComponents < 1 {
		return errors.NewValidationError("n_components", "must be at least 1", t.nComponents)
	}
	if t.perplexity <= 0 {
		return errors.NewValidationError("perplexity", "must be positive", t.perplexity)
	}
	if t.perplexity >= float64(rows) {
		return errors.NewValidationError("perplexity",
			fmt.Sprintf("must be less than n_samples=%d", rows), t.perplexity)
	}
	if t.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", t.maxIter)
	}

	embedder := tsne.NewTSNE(t.nComponents, t.perplexity, t.learningRate, t.maxIter, t.verbose)

	lastIter := 0
	lastDivergence := 0.0
	result := embedder.EmbedData(X, func(iter int, divergence float64, embedding mat.Matrix) bool {
		lastIter = iter
		lastDivergence = divergence
		return false
	})

	embedding := mat.DenseCopyOf(result)

	// 学習率が大きすぎると勾配が発散して埋め込みがNaNになる
	if err := errors.CheckMatrix("TSNE.Fit", embedding, rows, t.nComponents, lastIter); err != nil {
		return err
	}

	t.embedding_ = embedding
	t.klDivergence_ = lastDivergence
	t.nIter_ = lastIter + 1

	t.SetFitted()
	return nil
}

// FitTransform は埋め込みを計算して返す
func (t *TSNE) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Embedding(), nil
}

// Embedding は学習データの埋め込みを返す
func (t *TSNE) Embedding() *mat.Dense {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.embedding_ == nil {
		return nil
	}
	return mat.DenseCopyOf(t.embedding_)
}

// KLDivergence は最終イテレーションのKLダイバージェンスを返す
func (t *TSNE) KLDivergence() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.klDivergence_
}

// NIter は実行されたイテレーション数を返す
func (t *TSNE) NIter() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nIter_
}

// GetParams はモデルのハイパーパラメータを取得する
func (t *TSNE) GetParams(deep bool) map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[string]interface{}{
		"n_components":  t.nComponents,
		"perplexity":    t.perplexity,
		"learning_rate": t.learningRate,
		"max_iter":      t.maxIter,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (t *TSNE) SetParams(params map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if val, ok := params["n_components"].(int); ok {
		if val < 1 {
			return errors.NewValidationError("n_components", "must be at least 1", val)
		}
		t.nComponents = val
	}
	if val, ok := params["perplexity"].(float64); ok {
		if val <= 0 {
			return errors.NewValidationError("perplexity", "must be positive", val)
		}
		t.perplexity = val
	}
	if val, ok := params["learning_rate"].(float64); ok {
		t.learningRate = val
	}
	if val, ok := params["max_iter"].(int); ok {
		t.maxIter = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のモデルを作成する
func (t *TSNE) Clone() model.SKLearnCompatible {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return NewTSNE(
		WithComponents(t.nComponents),
		WithPerplexity(t.perplexity),
		WithLearningRate(t.learningRate),
		WithMaxIter(t.maxIter),
		WithVerbose(t.verbose),
	)
}

// String はモデルの文字列表現を返す
func (t *TSNE) String() string {
	return fmt.Sprintf("TSNE(n_components=%d, perplexity=%g)", t.nComponents, t.perplexity)
}
