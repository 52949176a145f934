package preprocessing

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/core/parallel"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// PolynomialFeatures は特徴量の多項式展開を行う変換器
//
// 入力の各特徴量について、指定した次数までのすべての積の組み合わせを
// 新しい特徴量として生成する。線形モデルと組み合わせることで、
// モデルの複雑さを次数で制御できる
//
// 使用例:
//
//	poly := preprocessing.NewPolynomialFeatures(3, false)
//	XPoly, err := poly.FitTransform(X)
type PolynomialFeatures struct {
	model.BaseEstimator

	// Degree は展開する最大次数
	Degree int

	// IncludeBias は定数項1の列を含めるかどうか
	IncludeBias bool

	// NFeaturesIn は入力特徴量の数
	NFeaturesIn int

	// NFeaturesOut は出力特徴量の数
	NFeaturesOut int

	// combos は出力列ごとの入力特徴量インデックスの組
	combos [][]int
}

// NewPolynomialFeatures は新しいPolynomialFeaturesを作成する
func NewPolynomialFeatures(degree int, includeBias bool) *PolynomialFeatures {
	return &PolynomialFeatures{
		Degree:      degree,
		IncludeBias: includeBias,
	}
}

// Fit は入力の特徴量数から出力列の構成を決定する
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	if p.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", p.Degree)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}

	p.NFeaturesIn = c
	p.combos = p.combos[:0]

	// 定数項は空の組で表す
	if p.IncludeBias {
		p.combos = append(p.combos, []int{})
	}

	// 次数1からDegreeまで、辞書順の重複組み合わせを列挙する
	for d := 1; d <= p.Degree; d++ {
		combo := make([]int, d)
		var walk func(pos, start int)
		walk = func(pos, start int) {
			if pos == d {
				p.combos = append(p.combos, append([]int(nil), combo...))
				return
			}
			for i := start; i < c; i++ {
				combo[pos] = i
				walk(pos+1, i)
			}
		}
		walk(0, 0)
	}

	p.NFeaturesOut = len(p.combos)
	p.SetFitted()
	return nil
}

// Transform は入力を多項式特徴量に展開する
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}

	r, c := X.Dims()
	if c != p.NFeaturesIn {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", p.NFeaturesIn, c, 1)
	}

	result := mat.NewDense(r, p.NFeaturesOut, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for k, combo := range p.combos {
				v := 1.0
				for _, idx := range combo {
					v *= X.At(i, idx)
				}
				result.Set(i, k, v)
			}
		}
	})

	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// FeatureNames は出力列の名前を返す
// inputNames には入力列の名前を渡す（nilの場合は x0, x1, ... を使用）
func (p *PolynomialFeatures) FeatureNames(inputNames []string) ([]string, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "FeatureNames")
	}

	if inputNames == nil {
		inputNames = make([]string, p.NFeaturesIn)
		for j := range inputNames {
			inputNames[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(inputNames) != p.NFeaturesIn {
		return nil, errors.NewDimensionError("PolynomialFeatures.FeatureNames", p.NFeaturesIn, len(inputNames), 1)
	}

	names := make([]string, len(p.combos))
	for k, combo := range p.combos {
		if len(combo) == 0 {
			names[k] = "1"
			continue
		}

		// 連続する同じインデックスを冪乗表記にまとめる
		var parts []string
		for i := 0; i < len(combo); {
			j := i
			for j < len(combo) && combo[j] == combo[i] {
				j++
			}
			if power := j - i; power == 1 {
				parts = append(parts, inputNames[combo[i]])
			} else {
				parts = append(parts, fmt.Sprintf("%s^%d", inputNames[combo[i]], power))
			}
			i = j
		}
		names[k] = strings.Join(parts, " ")
	}
	return names, nil
}

// GetParams は変換器のパラメータを取得する
func (p *PolynomialFeatures) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"degree":       p.Degree,
		"include_bias": p.IncludeBias,
	}
}

// SetParams は変換器のパラメータを設定する
func (p *PolynomialFeatures) SetParams(params map[string]interface{}) error {
	if val, ok := params["degree"].(int); ok {
		if val < 1 {
			return errors.NewValidationError("degree", "must be at least 1", val)
		}
		p.Degree = val
	}
	if val, ok := params["include_bias"].(bool); ok {
		p.IncludeBias = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習の変換器を作成する
func (p *PolynomialFeatures) Clone() model.SKLearnCompatible {
	return NewPolynomialFeatures(p.Degree, p.IncludeBias)
}

// String は変換器の文字列表現を返す
func (p *PolynomialFeatures) String() string {
	if !p.IsFitted() {
		return fmt.Sprintf("PolynomialFeatures(degree=%d, include_bias=%t)", p.Degree, p.IncludeBias)
	}
	return fmt.Sprintf("PolynomialFeatures(degree=%d, include_bias=%t, n_features_out=%d)",
		p.Degree, p.IncludeBias, p.NFeaturesOut)
}
