package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// scoredPair は予測スコアと正解の関連度のペア
type scoredPair = struct {
	score     float64
	relevance float64
}

// NDCG は正規化割引累積利得（Normalized Discounted Cumulative Gain）を計算する
//
// 予測スコアの降順に並べたときのDCGを、理想的な並び（関連度の降順）の
// DCGで割った値を返す。利得は指数型 (2^relevance - 1) を使用する
// k に -1 を指定すると全要素を評価する
func NDCG(yTrue, yScore *mat.VecDense, k int) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("NDCG", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("NDCG", "empty vector")
	}

	if yScore.Len() != n {
		return 0, errors.NewDimensionError("NDCG", n, yScore.Len(), 0)
	}

	if k == 0 || k < -1 {
		return 0, errors.NewValueError("NDCG", "k must be positive or -1 for all elements")
	}
	if k == -1 || k > n {
		k = n
	}

	pairs := make([]scoredPair, n)
	for i := 0; i < n; i++ {
		rel := yTrue.AtVec(i)
		if rel < 0 {
			return 0, errors.NewValueError("NDCG", "relevance must be non-negative")
		}
		pairs[i] = scoredPair{score: yScore.AtVec(i), relevance: rel}
	}

	// 予測スコアの降順でDCGを計算
	predicted := make([]scoredPair, n)
	copy(predicted, pairs)
	sort.SliceStable(predicted, func(i, j int) bool {
		return predicted[i].score > predicted[j].score
	})

	// 関連度の降順で理想のDCGを計算
	ideal := make([]scoredPair, n)
	copy(ideal, pairs)
	sort.SliceStable(ideal, func(i, j int) bool {
		return ideal[i].relevance > ideal[j].relevance
	})

	idcg := dcg(ideal, k)
	if idcg == 0 {
		// 関連度がすべて0の場合、順位付けに意味はない
		errors.Warn(errors.NewUndefinedMetricWarning("NDCG", "all relevance values are zero", 0))
		return 0, nil
	}

	return dcg(predicted, k) / idcg, nil
}

// NDCGMatrix は行列形式の入力に対してNDCGを計算する（1列目を使用）
func NDCGMatrix(yTrue, yScore mat.Matrix, k int) (float64, error) {
	yTrueVec, err := firstColumn(yTrue, "NDCGMatrix")
	if err != nil {
		return 0, err
	}
	yScoreVec, err := firstColumn(yScore, "NDCGMatrix")
	if err != nil {
		return 0, err
	}

	return NDCG(yTrueVec, yScoreVec, k)
}

// dcg は先頭からk件の割引累積利得を計算する
// pairs はすでに目的の順序に並んでいること
func dcg(pairs []scoredPair, k int) float64 {
	if k > len(pairs) {
		k = len(pairs)
	}

	var sum float64
	for i := 0; i < k; i++ {
		gain := math.Pow(2, pairs[i].relevance) - 1
		sum += gain / math.Log2(float64(i)+2)
	}
	return sum
}

// AveragePrecision は平均適合率（Average Precision）を計算する
//
// 予測スコアの降順に並べたとき、正例が現れるたびにその時点の
// 適合率を記録し、その平均を返す。ラベルは0/1の二値であること
func AveragePrecision(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("AveragePrecision", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AveragePrecision", "empty vector")
	}

	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AveragePrecision", n, yScore.Len(), 0)
	}

	pairs := make([]scoredPair, n)
	nRelevant := 0
	for i := 0; i < n; i++ {
		rel := yTrue.AtVec(i)
		if rel != 0 && rel != 1 {
			return 0, errors.NewValueError("AveragePrecision", "labels must be binary (0 or 1)")
		}
		if rel == 1 {
			nRelevant++
		}
		pairs[i] = scoredPair{score: yScore.AtVec(i), relevance: rel}
	}

	if nRelevant == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AveragePrecision", "no relevant items", 0))
		return 0, nil
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	var sum float64
	hits := 0
	for i, p := range pairs {
		if p.relevance == 1 {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}

	return sum / float64(nRelevant), nil
}

// MeanAveragePrecision は複数クエリに対する平均適合率の平均（MAP）を計算する
func MeanAveragePrecision(yTrueList, yScoreList []*mat.VecDense) (float64, error) {
	if len(yTrueList) == 0 {
		return 0, errors.NewValueError("MeanAveragePrecision", "empty query list")
	}

	if len(yScoreList) != len(yTrueList) {
		return 0, errors.NewDimensionError("MeanAveragePrecision", len(yTrueList), len(yScoreList), 0)
	}

	var sum float64
	for i := range yTrueList {
		ap, err := AveragePrecision(yTrueList[i], yScoreList[i])
		if err != nil {
			return 0, err
		}
		sum += ap
	}

	return sum / float64(len(yTrueList)), nil
}
