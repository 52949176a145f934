// Package decomposition は次元削減アルゴリズムを提供する
package decomposition

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// PCA は主成分分析による次元削減
// scikit-learnのPCAと互換性のあるAPIを持つ
//
// 固有ベクトルの計算はgonumのstat.PCに委譲する
//
// パラメータ:
//   - nComponents: 保持する主成分の数（0の場合はmin(nSamples, nFeatures)個すべて）
//
// 学習後の属性:
//   - Components(): 主成分ベクトル（nComponents x nFeatures）
//   - ExplainedVariance(): 各主成分が説明する分散
//   - ExplainedVarianceRatio(): 各主成分が説明する分散の割合
//
// 使用例:
//
//	pca := decomposition.NewPCA(decomposition.WithNComponents(2))
//	reduced, err := pca.FitTransform(X)
type PCA struct {
	model.BaseEstimator

	// ハイパーパラメータ
	nComponents int // 保持する主成分数（0 = すべて）

	// 学習パラメータ
	components_              *mat.Dense // 主成分ベクトル（行が成分）
	mean_                    []float64  // 各特徴量の平均
	explainedVariance_       []float64  // 各主成分の分散
	explainedVarianceRatio_  []float64  // 分散の割合
	nComponentsFitted_       int        // 実際に保持された主成分数
	nFeatures_               int
	nSamples_                int

	mu sync.RWMutex
}

// PCAOption はPCAの設定オプション
type PCAOption func(*PCA)

// WithNComponents は保持する主成分の数を設定
func WithNComponents(n int) PCAOption {
	return func(p *PCA) {
		p.nComponents = n
	}
}

// NewPCA は新しいPCAを作成
func NewPCA(options ...PCAOption) *PCA {
	p := &PCA{
		nComponents: 0,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Fit はデータから主成分を学習する
func (p *PCA) Fit(X mat.Matrix) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("PCA.Fit", "empty data", errors.ErrEmptyData)
	}
	if rows < 2 {
		return errors.NewValueError("PCA.Fit", "at least 2 samples are required")
	}
	if p.nComponents < 0 {
		return errors.NewValidationError("n_components", "must be non-negative", p.nComponents)
	}

	maxComponents := rows
	if cols < maxComponents {
		maxComponents = cols
	}
	k := p.nComponents
	if k == 0 {
		k = maxComponents
	}
	if k > maxComponents {
		return errors.NewValidationError("n_components",
			fmt.Sprintf("must not exceed min(n_samples, n_features)=%d", maxComponents), p.nComponents)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewValueError("PCA.Fit", "principal component analysis failed to converge")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// 各特徴量の平均（Transformで中心化に使う）
	mean := make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		mean[j] = sum / float64(rows)
	}

	// 上位k個の主成分を行として格納する
	components := mat.NewDense(k, cols, nil)
	for c := 0; c < k; c++ {
		for j := 0; j < cols; j++ {
			components.Set(c, j, vecs.At(j, c))
		}
	}

	totalVar := 0.0
	for _, v := range vars {
		totalVar += v
	}
	explained := make([]float64, k)
	ratio := make([]float64, k)
	for c := 0; c < k; c++ {
		explained[c] = vars[c]
		ratio[c] = errors.SafeDivide(vars[c], totalVar)
	}

	p.components_ = components
	p.mean_ = mean
	p.explainedVariance_ = explained
	p.explainedVarianceRatio_ = ratio
	p.nComponentsFitted_ = k
	p.nFeatures_ = cols
	p.nSamples_ = rows

	p.SetFitted()
	return nil
}

// Transform はデータを主成分空間に射影する
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Transform")
	}

	rows, cols := X.Dims()
	if cols != p.nFeatures_ {
		return nil, errors.NewDimensionError("PCA.Transform", p.nFeatures_, cols, 1)
	}

	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean_[j])
		}
	}

	scores := mat.NewDense(rows, p.nComponentsFitted_, nil)
	scores.Mul(centered, p.components_.T())
	return scores, nil
}

// FitTransform は学習と変換を同時に行う
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform は主成分空間から元の特徴量空間に戻す
// 保持されなかった成分の情報は失われるため再構成は近似になる
func (p *PCA) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "InverseTransform")
	}

	rows, cols := X.Dims()
	if cols != p.nComponentsFitted_ {
		return nil, errors.NewDimensionError("PCA.InverseTransform", p.nComponentsFitted_, cols, 1)
	}

	reconstructed := mat.NewDense(rows, p.nFeatures_, nil)
	reconstructed.Mul(X, p.components_)
	for i := 0; i < rows; i++ {
		for j := 0; j < p.nFeatures_; j++ {
			reconstructed.Set(i, j, reconstructed.At(i, j)+p.mean_[j])
		}
	}
	return reconstructed, nil
}

// Components は主成分ベクトルを返す（行が各主成分）
func (p *PCA) Components() *mat.Dense {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.components_ == nil {
		return nil
	}
	return mat.DenseCopyOf(p.components_)
}

// ExplainedVariance は各主成分が説明する分散を返す
func (p *PCA) ExplainedVariance() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.explainedVariance_ == nil {
		return nil
	}
	out := make([]float64, len(p.explainedVariance_))
	copy(out, p.explainedVariance_)
	return out
}

// ExplainedVarianceRatio は各主成分が説明する分散の割合を返す
func (p *PCA) ExplainedVarianceRatio() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.explainedVarianceRatio_ == nil {
		return nil
	}
	out := make([]float64, len(p.explainedVarianceRatio_))
	copy(out, p.explainedVarianceRatio_)
	return out
}

// Mean は学習データの各特徴量の平均を返す
func (p *PCA) Mean() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.mean_ == nil {
		return nil
	}
	out := make([]float64, len(p.mean_))
	copy(out, p.mean_)
	return out
}

// NComponents は保持された主成分の数を返す
func (p *PCA) NComponents() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.IsFitted() {
		return p.nComponentsFitted_
	}
	return p.nComponents
}

// GetParams はモデルのハイパーパラメータを取得する
func (p *PCA) GetParams(deep bool) map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]interface{}{
		"n_components": p.nComponents,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (p *PCA) SetParams(params map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if val, ok := params["n_components"].(int); ok {
		if val < 0 {
			return errors.NewValidationError("n_components", "must be non-negative", val)
		}
		p.nComponents = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のモデルを作成する
func (p *PCA) Clone() model.SKLearnCompatible {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return NewPCA(WithNComponents(p.nComponents))
}

// String はモデルの文字列表現を返す
func (p *PCA) String() string {
	if p.nComponents == 0 {
		return "PCA()"
	}
	return fmt.Sprintf("PCA(n_components=%d)", p.nComponents)
}
