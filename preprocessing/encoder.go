package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OrdinalEncoder はカテゴリ文字列を整数コードに変換するエンコーダー
// CSVから読み込んだ文字列の表を、モデルが扱える数値行列に変換する
type OrdinalEncoder struct {
	model.BaseEstimator

	// Categories は列ごとの学習済みカテゴリ（昇順ソート済み）
	// カテゴリのコードはこのスライス内の位置
	Categories [][]string

	// NColumns は入力列の数
	NColumns int

	index []map[string]int
}

// NewOrdinalEncoder は新しいOrdinalEncoderを作成する
//
// 使用例:
//
//	enc := preprocessing.NewOrdinalEncoder()
//	codes, err := enc.FitTransform(rows)
func NewOrdinalEncoder() *OrdinalEncoder {
	return &OrdinalEncoder{}
}

// Fit は各列のカテゴリ一覧を学習する
//
// パラメータ:
//   - X: 行優先の文字列の表 (n_samples × n_columns)
//
// 戻り値:
//   - error: エラーが発生した場合
func (e *OrdinalEncoder) Fit(X [][]string) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return errors.NewModelError("OrdinalEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	nCols := len(X[0])
	e.NColumns = nCols
	e.Categories = make([][]string, nCols)
	e.index = make([]map[string]int, nCols)

	for j := 0; j < nCols; j++ {
		seen := make(map[string]bool)
		for _, row := range X {
			if len(row) != nCols {
				return errors.NewDimensionError("OrdinalEncoder.Fit", nCols, len(row), 1)
			}
			seen[row[j]] = true
		}

		categories := make([]string, 0, len(seen))
		for cat := range seen {
			categories = append(categories, cat)
		}
		sort.Strings(categories)

		e.Categories[j] = categories
		e.index[j] = make(map[string]int, len(categories))
		for code, cat := range categories {
			e.index[j][cat] = code
		}
	}

	e.SetFitted()
	return nil
}

// Transform はカテゴリ文字列を学習済みコードに変換する
// 学習時に見ていないカテゴリはエラーになる
func (e *OrdinalEncoder) Transform(X [][]string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OrdinalEncoder", "Transform")
	}

	if len(X) == 0 {
		return nil, errors.NewModelError("OrdinalEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	result := mat.NewDense(len(X), e.NColumns, nil)
	for i, row := range X {
		if len(row) != e.NColumns {
			return nil, errors.NewDimensionError("OrdinalEncoder.Transform", e.NColumns, len(row), 1)
		}
		for j, value := range row {
			code, ok := e.index[j][value]
			if !ok {
				return nil, errors.NewValueError("OrdinalEncoder.Transform",
					fmt.Sprintf("unknown category %q in column %d", value, j))
			}
			result.Set(i, j, float64(code))
		}
	}

	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (e *OrdinalEncoder) FitTransform(X [][]string) (*mat.Dense, error) {
	if err := e.Fit(X); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// String はエンコーダーの文字列表現を返す
func (e *OrdinalEncoder) String() string {
	if !e.IsFitted() {
		return "OrdinalEncoder()"
	}
	return fmt.Sprintf("OrdinalEncoder(n_columns=%d)", e.NColumns)
}

// ==============================================================================
// OneHotEncoder
// ==============================================================================

// OneHotEncoder は離散値の列をone-hotの指示変数列に展開する変換器
//
// 入力は整数コード（OrdinalEncoderの出力など）を含む数値行列で、
// 各列の一意な値をそれぞれ1つの出力列に展開する。パイプラインの中で
// 使えるよう mat.Matrix を入出力とする
type OneHotEncoder struct {
	model.BaseEstimator

	// HandleUnknown は未知カテゴリの扱い ("error" または "ignore")
	// "ignore" の場合、未知の値はすべて0の行ブロックになる
	HandleUnknown string

	// Categories は列ごとの学習済みカテゴリ値（昇順ソート済み）
	Categories [][]float64

	// NFeaturesIn は入力列の数
	NFeaturesIn int

	// NFeaturesOut は出力列の数
	NFeaturesOut int

	index   []map[float64]int
	offsets []int
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
//
// パラメータ:
//   - handleUnknown: 未知カテゴリの扱い ("error" または "ignore")
//
// 使用例:
//
//	enc := preprocessing.NewOneHotEncoder("ignore")
//	XEncoded, err := enc.FitTransform(codes)
func NewOneHotEncoder(handleUnknown string) *OneHotEncoder {
	return &OneHotEncoder{HandleUnknown: handleUnknown}
}

// NewOneHotEncoderDefault は未知カテゴリをエラーにする設定で作成する
func NewOneHotEncoderDefault() *OneHotEncoder {
	return NewOneHotEncoder("error")
}

// Fit は各列の一意な値を学習する
func (e *OneHotEncoder) Fit(X mat.Matrix) error {
	if e.HandleUnknown != "error" && e.HandleUnknown != "ignore" {
		return errors.NewValidationError("handle_unknown", "must be \"error\" or \"ignore\"", e.HandleUnknown)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	e.NFeaturesIn = c
	e.Categories = make([][]float64, c)
	e.index = make([]map[float64]int, c)
	e.offsets = make([]int, c)

	total := 0
	for j := 0; j < c; j++ {
		seen := make(map[float64]bool)
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				return errors.NewValueError("OneHotEncoder.Fit", fmt.Sprintf("NaN in column %d", j))
			}
			seen[v] = true
		}

		values := make([]float64, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Float64s(values)

		e.Categories[j] = values
		e.index[j] = make(map[float64]int, len(values))
		for pos, v := range values {
			e.index[j][v] = pos
		}

		e.offsets[j] = total
		total += len(values)
	}
	e.NFeaturesOut = total

	e.SetFitted()
	return nil
}

// Transform は離散値をone-hot表現に変換する
func (e *OneHotEncoder) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	r, c := X.Dims()
	if c != e.NFeaturesIn {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", e.NFeaturesIn, c, 1)
	}

	result := mat.NewDense(r, e.NFeaturesOut, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			pos, ok := e.index[j][X.At(i, j)]
			if !ok {
				if e.HandleUnknown == "ignore" {
					continue
				}
				return nil, errors.NewValueError("OneHotEncoder.Transform",
					fmt.Sprintf("unknown category %v in column %d", X.At(i, j), j))
			}
			result.Set(i, e.offsets[j]+pos, 1)
		}
	}

	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (e *OneHotEncoder) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := e.Fit(X); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// FeatureNames は出力列の名前を返す
// inputNames には入力列の名前を渡す（nilの場合は x0, x1, ... を使用）
func (e *OneHotEncoder) FeatureNames(inputNames []string) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "FeatureNames")
	}

	if inputNames == nil {
		inputNames = make([]string, e.NFeaturesIn)
		for j := range inputNames {
			inputNames[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(inputNames) != e.NFeaturesIn {
		return nil, errors.NewDimensionError("OneHotEncoder.FeatureNames", e.NFeaturesIn, len(inputNames), 1)
	}

	names := make([]string, 0, e.NFeaturesOut)
	for j, values := range e.Categories {
		for _, v := range values {
			names = append(names, fmt.Sprintf("%s_%g", inputNames[j], v))
		}
	}
	return names, nil
}

// GetParams はエンコーダーのパラメータを取得する
func (e *OneHotEncoder) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"handle_unknown": e.HandleUnknown,
	}
}

// SetParams はエンコーダーのパラメータを設定する
func (e *OneHotEncoder) SetParams(params map[string]interface{}) error {
	if val, ok := params["handle_unknown"].(string); ok {
		if val != "error" && val != "ignore" {
			return errors.NewValidationError("handle_unknown", "must be \"error\" or \"ignore\"", val)
		}
		e.HandleUnknown = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のエンコーダーを作成する
func (e *OneHotEncoder) Clone() model.SKLearnCompatible {
	return NewOneHotEncoder(e.HandleUnknown)
}

// String はエンコーダーの文字列表現を返す
func (e *OneHotEncoder) String() string {
	if !e.IsFitted() {
		return fmt.Sprintf("OneHotEncoder(handle_unknown=%q)", e.HandleUnknown)
	}
	return fmt.Sprintf("OneHotEncoder(handle_unknown=%q, n_features_out=%d)", e.HandleUnknown, e.NFeaturesOut)
}
