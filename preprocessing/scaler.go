package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// 分散やレンジがこれより小さい特徴量は定数とみなしスケール1で通す
const minScale = 1e-8

// StandardScaler は各特徴量を平均0、標準偏差1に変換する
//
// scikit-learnのStandardScalerと同じ挙動で、Fitで推定した統計量を
// Transform / InverseTransform で使い回す
type StandardScaler struct {
	model.BaseEstimator

	Mean      []float64 // 各特徴量の平均
	Scale     []float64 // 各特徴量の標準偏差
	NFeatures int
	WithMean  bool // 平均を引くかどうか
	WithStd   bool // 標準偏差で割るかどうか
}

// NewStandardScaler は中心化とスケーリングを個別に制御できるスケーラーを作成する
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault は平均0・標準偏差1に変換するスケーラーを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから列ごとの平均と標準偏差を推定する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = nFeatures
	s.Mean = make([]float64, nFeatures)
	s.Scale = make([]float64, nFeatures)

	for j := 0; j < nFeatures; j++ {
		col := mat.Col(nil, j, X)

		// WithMeanがfalseのときは平均0のまま中心化をスキップする
		if s.WithMean {
			s.Mean[j] = floats.Sum(col) / float64(nSamples)
		}

		if !s.WithStd {
			s.Scale[j] = 1.0
			continue
		}

		var sumSquares float64
		for _, v := range col {
			d := v - s.Mean[j]
			sumSquares += d * d
		}
		s.Scale[j] = math.Sqrt(sumSquares / float64(nSamples))

		// 定数特徴量はゼロ除算になるのでスケール1で素通しする
		if math.Abs(s.Scale[j]) < minScale {
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計量でデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	_, nFeatures := X.Dims()
	if nFeatures != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, nFeatures, 1)
	}

	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)

	return &out, nil
}

// FitTransform はFitとTransformを続けて実行する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	_, nFeatures := X.Dims()
	if nFeatures != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, nFeatures, 1)
	}

	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)

	return &out, nil
}

// GetParams はスケーラーのハイパーパラメータを返す
func (s *StandardScaler) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// SetParams はスケーラーのハイパーパラメータを設定する
func (s *StandardScaler) SetParams(params map[string]interface{}) error {
	if val, ok := params["with_mean"].(bool); ok {
		s.WithMean = val
	}
	if val, ok := params["with_std"].(bool); ok {
		s.WithStd = val
	}
	return nil
}

// Clone は同じ設定を持つ未学習のスケーラーを返す
func (s *StandardScaler) Clone() model.SKLearnCompatible {
	return NewStandardScaler(s.WithMean, s.WithStd)
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler は各特徴量を指定した範囲（デフォルト[0,1]）に線形変換する
type MinMaxScaler struct {
	model.BaseEstimator

	Min          []float64 // 変換のオフセット項
	Max          []float64
	Scale        []float64 // 各特徴量のレンジ (max - min)
	DataMin      []float64 // 訓練データの列ごとの最小値
	DataMax      []float64 // 訓練データの列ごとの最大値
	NFeatures    int
	FeatureRange [2]float64 // 変換後の [min, max]
}

// NewMinMaxScaler は変換後の範囲を指定してスケーラーを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault は[0,1]に収めるスケーラーを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit は訓練データから列ごとの最小値・最大値を求める
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.NFeatures = nFeatures
	m.DataMin = make([]float64, nFeatures)
	m.DataMax = make([]float64, nFeatures)
	m.Min = make([]float64, nFeatures)
	m.Max = make([]float64, nFeatures)
	m.Scale = make([]float64, nFeatures)

	width := m.FeatureRange[1] - m.FeatureRange[0]

	for j := 0; j < nFeatures; j++ {
		col := mat.Col(nil, j, X)
		lo, hi := floats.Min(col), floats.Max(col)

		m.DataMin[j] = lo
		m.DataMax[j] = hi

		// 定数特徴量はレンジ0になるのでスケール1で素通しする
		span := hi - lo
		if math.Abs(span) < minScale {
			span = 1.0
		}
		m.Scale[j] = span

		m.Min[j] = m.FeatureRange[0] - lo*width/span
		m.Max[j] = m.FeatureRange[1] - hi*width/span
	}

	m.SetFitted()
	return nil
}

// Transform は学習済みの最小値・最大値でデータを指定範囲に写す
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	_, nFeatures := X.Dims()
	if nFeatures != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, nFeatures, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]

	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v-m.DataMin[j])/m.Scale[j]*width + m.FeatureRange[0]
	}, X)

	return &out, nil
}

// FitTransform はFitとTransformを続けて実行する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元のレンジに戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	_, nFeatures := X.Dims()
	if nFeatures != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, nFeatures, 1)
	}

	width := m.FeatureRange[1] - m.FeatureRange[0]

	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v-m.FeatureRange[0])/width*m.Scale[j] + m.DataMin[j]
	}, X)

	return &out, nil
}

// GetParams はスケーラーのハイパーパラメータを返す
func (m *MinMaxScaler) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// SetParams はスケーラーのハイパーパラメータを設定する
func (m *MinMaxScaler) SetParams(params map[string]interface{}) error {
	if val, ok := params["feature_range"].([2]float64); ok {
		m.FeatureRange = val
	}
	return nil
}

// Clone は同じ設定を持つ未学習のスケーラーを返す
func (m *MinMaxScaler) Clone() model.SKLearnCompatible {
	return NewMinMaxScaler(m.FeatureRange)
}

func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
