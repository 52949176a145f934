package preprocessing

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ColumnStep はColumnTransformerの1ステップ
// 指定した列の部分行列に変換器を適用する
type ColumnStep struct {
	Name        string
	Transformer model.Transformer
	Columns     []int
}

// ColumnTransformer は列ごとに異なる変換器を適用する変換器
//
// カテゴリ列にはOneHotEncoder、数値列にはStandardScalerのように、
// 列の種類に応じた前処理を1つの変換器にまとめる。出力は各ステップの
// 出力ブロックを順に連結したもので、どのステップにも属さない列は
// Remainderの設定に従って末尾に通されるか捨てられる
//
// 使用例:
//
//	ct := preprocessing.NewColumnTransformer([]preprocessing.ColumnStep{
//	    {Name: "onehot", Transformer: preprocessing.NewOneHotEncoder("ignore"), Columns: []int{0, 1}},
//	    {Name: "scale", Transformer: preprocessing.NewStandardScalerDefault(), Columns: []int{2, 3}},
//	}, "drop")
type ColumnTransformer struct {
	model.BaseEstimator

	// Steps は適用する変換器のリスト
	Steps []ColumnStep

	// Remainder はどのステップにも属さない列の扱い ("drop" または "passthrough")
	Remainder string

	// NFeaturesIn は入力列の数
	NFeaturesIn int

	remainderCols []int
}

// NewColumnTransformer は新しいColumnTransformerを作成する
func NewColumnTransformer(steps []ColumnStep, remainder string) *ColumnTransformer {
	return &ColumnTransformer{
		Steps:     steps,
		Remainder: remainder,
	}
}

// Fit は各ステップの変換器をそれぞれの列部分で学習させる
func (ct *ColumnTransformer) Fit(X mat.Matrix) error {
	if ct.Remainder != "drop" && ct.Remainder != "passthrough" {
		return errors.NewValidationError("remainder", "must be \"drop\" or \"passthrough\"", ct.Remainder)
	}
	if len(ct.Steps) == 0 {
		return errors.NewValueError("ColumnTransformer.Fit", "no steps given")
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("ColumnTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	ct.NFeaturesIn = c

	claimed := make([]bool, c)
	names := make(map[string]bool, len(ct.Steps))
	for _, step := range ct.Steps {
		if step.Name == "" {
			return errors.NewValueError("ColumnTransformer.Fit", "step with empty name")
		}
		if names[step.Name] {
			return errors.NewValueError("ColumnTransformer.Fit", "duplicate step name "+step.Name)
		}
		names[step.Name] = true

		if len(step.Columns) == 0 {
			return errors.NewValueError("ColumnTransformer.Fit", "step "+step.Name+" has no columns")
		}
		for _, col := range step.Columns {
			if col < 0 || col >= c {
				return errors.NewValidationError("columns", "column index out of range in step "+step.Name, col)
			}
			claimed[col] = true
		}

		sub := extractColumns(X, step.Columns)
		if err := step.Transformer.Fit(sub); err != nil {
			return errors.Wrapf(err, "ColumnTransformer: step %s failed to fit", step.Name)
		}
	}

	ct.remainderCols = ct.remainderCols[:0]
	if ct.Remainder == "passthrough" {
		for col := 0; col < c; col++ {
			if !claimed[col] {
				ct.remainderCols = append(ct.remainderCols, col)
			}
		}
	}

	ct.SetFitted()
	return nil
}

// Transform は各ステップの変換結果を列方向に連結して返す
func (ct *ColumnTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Transform")
	}

	r, c := X.Dims()
	if c != ct.NFeaturesIn {
		return nil, errors.NewDimensionError("ColumnTransformer.Transform", ct.NFeaturesIn, c, 1)
	}

	blocks := make([]mat.Matrix, 0, len(ct.Steps)+1)
	total := 0
	for _, step := range ct.Steps {
		sub := extractColumns(X, step.Columns)
		out, err := step.Transformer.Transform(sub)
		if err != nil {
			return nil, errors.Wrapf(err, "ColumnTransformer: step %s failed to transform", step.Name)
		}

		or, oc := out.Dims()
		if or != r {
			return nil, errors.NewDimensionError("ColumnTransformer.Transform", r, or, 0)
		}
		blocks = append(blocks, out)
		total += oc
	}

	if len(ct.remainderCols) > 0 {
		blocks = append(blocks, extractColumns(X, ct.remainderCols))
		total += len(ct.remainderCols)
	}

	result := mat.NewDense(r, total, nil)
	offset := 0
	for _, block := range blocks {
		_, bc := block.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < bc; j++ {
				result.Set(i, offset+j, block.At(i, j))
			}
		}
		offset += bc
	}

	return result, nil
}

// FitTransform は学習と変換を同時に実行する
func (ct *ColumnTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := ct.Fit(X); err != nil {
		return nil, err
	}
	return ct.Transform(X)
}

// GetParams は変換器のパラメータを取得する
// deepがtrueの場合、各ステップのパラメータを "ステップ名__パラメータ名" の形式で含める
func (ct *ColumnTransformer) GetParams(deep bool) map[string]interface{} {
	params := map[string]interface{}{
		"remainder": ct.Remainder,
	}
	if !deep {
		return params
	}

	for _, step := range ct.Steps {
		compat, ok := step.Transformer.(model.SKLearnCompatible)
		if !ok {
			continue
		}
		for key, value := range compat.GetParams(true) {
			params[step.Name+"__"+key] = value
		}
	}
	return params
}

// SetParams は変換器のパラメータを設定する
// "ステップ名__パラメータ名" 形式のキーは対応するステップに転送される
func (ct *ColumnTransformer) SetParams(params map[string]interface{}) error {
	routed := make(map[string]map[string]interface{})

	for key, value := range params {
		if name, param, found := strings.Cut(key, "__"); found {
			if routed[name] == nil {
				routed[name] = make(map[string]interface{})
			}
			routed[name][param] = value
			continue
		}

		if key == "remainder" {
			if val, ok := value.(string); ok {
				ct.Remainder = val
			}
			continue
		}
		return errors.NewValueError("ColumnTransformer.SetParams", "unknown parameter "+key)
	}

	for name, stepParams := range routed {
		step := ct.findStep(name)
		if step == nil {
			return errors.NewValueError("ColumnTransformer.SetParams", "unknown step "+name)
		}
		compat, ok := step.Transformer.(model.SKLearnCompatible)
		if !ok {
			return errors.NewValueError("ColumnTransformer.SetParams",
				fmt.Sprintf("step %s does not support parameters", name))
		}
		if err := compat.SetParams(stepParams); err != nil {
			return err
		}
	}
	return nil
}

// Clone は同じ構成を持つ未学習の変換器を作成する
// 各ステップの変換器も可能であれば複製される
func (ct *ColumnTransformer) Clone() model.SKLearnCompatible {
	steps := make([]ColumnStep, len(ct.Steps))
	for i, step := range ct.Steps {
		cloned := step.Transformer
		if compat, ok := step.Transformer.(model.SKLearnCompatible); ok {
			if t, ok := compat.Clone().(model.Transformer); ok {
				cloned = t
			}
		}
		steps[i] = ColumnStep{
			Name:        step.Name,
			Transformer: cloned,
			Columns:     append([]int(nil), step.Columns...),
		}
	}
	return NewColumnTransformer(steps, ct.Remainder)
}

// String は変換器の文字列表現を返す
func (ct *ColumnTransformer) String() string {
	names := make([]string, len(ct.Steps))
	for i, step := range ct.Steps {
		names[i] = step.Name
	}
	return fmt.Sprintf("ColumnTransformer(steps=[%s], remainder=%q)", strings.Join(names, ", "), ct.Remainder)
}

func (ct *ColumnTransformer) findStep(name string) *ColumnStep {
	for i := range ct.Steps {
		if ct.Steps[i].Name == name {
			return &ct.Steps[i]
		}
	}
	return nil
}

// extractColumns は指定した列を順に並べた部分行列を作る
func extractColumns(X mat.Matrix, columns []int) *mat.Dense {
	r, _ := X.Dims()
	sub := mat.NewDense(r, len(columns), nil)
	for j, col := range columns {
		for i := 0; i < r; i++ {
			sub.Set(i, j, X.At(i, col))
		}
	}
	return sub
}
