package linear

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RidgeCV は交差検証でalphaを選択するRidge回帰
//
// 候補のalphaそれぞれについてk分割交差検証でR²を計算し、
// 平均スコアが最も高いalphaで全データを再学習する
//
// 使用例:
//
//	ridge := linear.NewRidgeCV(
//		linear.WithAlphas([]float64{0.1, 1.0, 10.0}),
//		linear.WithCVFolds(5),
//	)
//	err := ridge.Fit(X, y)
//	fmt.Println(ridge.BestAlpha_)
type RidgeCV struct {
	model.BaseEstimator

	alphas       []float64
	folds        int
	seed         int64
	fitIntercept bool

	// 学習済みパラメータ
	BestAlpha_ float64   // 選択されたalpha
	BestScore_ float64   // 選択されたalphaの平均R²
	CVScores_  []float64 // 各alphaの平均R²（alphasと同順）

	best *Ridge
}

// NewRidgeCV は新しいRidgeCVモデルを作成する
func NewRidgeCV(options ...RidgeCVOption) *RidgeCV {
	r := &RidgeCV{
		alphas:       []float64{0.1, 1.0, 10.0},
		folds:        5,
		seed:         -1,
		fitIntercept: true,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Fit は各alphaを交差検証で評価し、最良のalphaで全データを学習する
func (r *RidgeCV) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("RidgeCV.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(r.alphas) == 0 {
		return errors.NewValueError("RidgeCV.Fit", "alphas must not be empty")
	}
	if r.folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", r.folds)
	}
	if rows < r.folds {
		return errors.Newf("RidgeCV.Fit: %d samples cannot be split into %d folds", rows, r.folds)
	}

	// サンプルをシャッフルしてk分割
	var rng *rand.Rand
	if r.seed >= 0 {
		rng = rand.New(rand.NewSource(r.seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	indices := rng.Perm(rows)
	folds := make([][]int, r.folds)
	for i, idx := range indices {
		f := i % r.folds
		folds[f] = append(folds[f], idx)
	}

	r.CVScores_ = make([]float64, len(r.alphas))
	bestScore := math.Inf(-1)
	bestAlpha := r.alphas[0]

	for ai, alpha := range r.alphas {
		var sum float64
		for f := 0; f < r.folds; f++ {
			trainIdx := make([]int, 0, rows-len(folds[f]))
			for g := 0; g < r.folds; g++ {
				if g != f {
					trainIdx = append(trainIdx, folds[g]...)
				}
			}

			XTrain, yTrain := subsetRows(X, y, trainIdx)
			XTest, yTest := subsetRows(X, y, folds[f])

			ridge := NewRidge(WithAlpha(alpha), WithFitIntercept(r.fitIntercept))
			if err := ridge.Fit(XTrain, yTrain); err != nil {
				return errors.Wrapf(err, "RidgeCV: fold %d with alpha=%g", f, alpha)
			}

			score, err := ridge.Score(XTest, yTest)
			if err != nil {
				return errors.Wrapf(err, "RidgeCV: fold %d with alpha=%g", f, alpha)
			}
			sum += score
		}

		mean := sum / float64(r.folds)
		r.CVScores_[ai] = mean
		if mean > bestScore {
			bestScore = mean
			bestAlpha = alpha
		}
	}

	r.BestAlpha_ = bestAlpha
	r.BestScore_ = bestScore

	// 最良のalphaで全データを再学習
	r.best = NewRidge(WithAlpha(bestAlpha), WithFitIntercept(r.fitIntercept))
	if err := r.best.Fit(X, y); err != nil {
		return errors.Wrap(err, "RidgeCV: final refit")
	}

	r.SetFitted()
	return nil
}

// Predict は最良のalphaで学習したモデルによる予測を行う
func (r *RidgeCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("RidgeCV", "Predict")
	}
	return r.best.Predict(X)
}

// Score はモデルの決定係数（R²）を計算する
func (r *RidgeCV) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("RidgeCV", "Score")
	}
	return r.best.Score(X, y)
}

// Coef は最良モデルの係数を返す
func (r *RidgeCV) Coef() []float64 {
	if r.best == nil {
		return nil
	}
	return append([]float64(nil), r.best.Coef_...)
}

// Intercept は最良モデルの切片を返す
func (r *RidgeCV) Intercept() float64 {
	if r.best == nil {
		return 0
	}
	return r.best.Intercept_
}

// GetParams はモデルのハイパーパラメータを取得する
func (r *RidgeCV) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"alphas":        append([]float64(nil), r.alphas...),
		"cv":            r.folds,
		"random_state":  r.seed,
		"fit_intercept": r.fitIntercept,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (r *RidgeCV) SetParams(params map[string]interface{}) error {
	if val, ok := params["alphas"].([]float64); ok {
		if len(val) == 0 {
			return errors.NewValueError("RidgeCV.SetParams", "alphas must not be empty")
		}
		r.alphas = append([]float64(nil), val...)
	}
	if val, ok := params["cv"].(int); ok {
		if val < 2 {
			return errors.NewValidationError("cv", "must be at least 2", val)
		}
		r.folds = val
	}
	if val, ok := params["random_state"].(int64); ok {
		r.seed = val
	}
	if val, ok := params["fit_intercept"].(bool); ok {
		r.fitIntercept = val
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のモデルを作成する
func (r *RidgeCV) Clone() model.SKLearnCompatible {
	clone := NewRidgeCV(WithAlphas(r.alphas), WithCVFolds(r.folds), WithCVSeed(r.seed))
	clone.fitIntercept = r.fitIntercept
	return clone
}

// String はモデルの文字列表現を返す
func (r *RidgeCV) String() string {
	return fmt.Sprintf("RidgeCV(alphas=%v, cv=%d)", r.alphas, r.folds)
}

// subsetRows は指定した行インデックスのX, yを取り出す
func subsetRows(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, cols := X.Dims()
	subX := mat.NewDense(len(indices), cols, nil)
	subY := mat.NewDense(len(indices), 1, nil)

	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY.Set(i, 0, y.At(idx, 0))
	}

	return subX, subY
}
