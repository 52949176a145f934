package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（正しく分類されたサンプルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("Accuracy", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyScore は整数ラベルに対する正解率を計算する
// クラスタリングの評価など、ラベルが []int で得られる場合に使用する
func AccuracyScore(yTrue, yPred []int) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty labels")
	}

	if len(yPred) != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, len(yPred), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - 正解率）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AUC はROC曲線の下側面積（Area Under the ROC Curve）を計算する
//
// 二値分類のスコアに対して、正例と負例のすべてのペアのうち
// 正例のスコアが負例のスコアを上回る割合を返す（同点は0.5として数える）
// 片方のクラスしか存在しない場合は警告を出して0.5を返す
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("AUC", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}

	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yScore.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}

	// 片方のクラスしかない場合、AUCは定義できない
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in yTrue", 0.5))
		return 0.5, nil
	}

	// Mann-WhitneyのU統計量: 正例スコア > 負例スコア のペアを数える
	var wins float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != 1 {
			continue
		}
		for j := 0; j < n; j++ {
			if yTrue.AtVec(j) != 0 {
				continue
			}
			switch {
			case yScore.AtVec(i) > yScore.AtVec(j):
				wins += 1.0
			case yScore.AtVec(i) == yScore.AtVec(j):
				wins += 0.5
			}
		}
	}

	return wins / float64(nPos*nNeg), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する（1列目を使用）
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	yTrueVec, err := firstColumn(yTrue, "AUCMatrix")
	if err != nil {
		return 0, err
	}
	yScoreVec, err := firstColumn(yScore, "AUCMatrix")
	if err != nil {
		return 0, err
	}

	return AUC(yTrueVec, yScoreVec)
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する
// 予測確率は log(0) を避けるため [eps, 1-eps] にクリップされる
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	if yTrue == nil || yProb == nil {
		return 0, errors.NewValueError("BinaryLogLoss", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}

	if yProb.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yProb.Len(), 0)
	}

	const eps = 1e-15

	var sum float64
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)
		if label != 0 && label != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}

		p := errors.ClipValue(yProb.AtVec(i), eps, 1-eps)

		if label == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}

	return sum / float64(n), nil
}

// ConfusionMatrix は混同行列を計算する
//
// 戻り値の行列 C は C[i][j] = 真のクラスが labels[i] で
// 予測クラスが labels[j] だったサンプル数を表す
// labels は出現したクラスラベルの昇順ソート済みリスト
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []float64, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	// 真値と予測値の両方からラベル集合を作る
	seen := make(map[float64]bool)
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = true
		seen[yPred.AtVec(i)] = true
	}

	labels := make([]float64, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	index := make(map[float64]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	k := len(labels)
	cm := mat.NewDense(k, k, nil)
	for i := 0; i < n; i++ {
		row := index[yTrue.AtVec(i)]
		col := index[yPred.AtVec(i)]
		cm.Set(row, col, cm.At(row, col)+1)
	}

	return cm, labels, nil
}

// firstColumn は行列の1列目をVecDenseとして取り出す
func firstColumn(m mat.Matrix, op string) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}

	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}

	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
