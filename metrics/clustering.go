package metrics

import (
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// AdjustedRandIndex は2つのクラスタリング結果の一致度を偶然の一致で補正して計算する
//
// ラベルの付け替えに対して不変であり、完全一致で1.0、
// ランダムな割り当てでは期待値0となる。負の値を取ることもある
func AdjustedRandIndex(labelsTrue, labelsPred []int) (float64, error) {
	n := len(labelsTrue)
	if n == 0 {
		return 0, errors.NewValueError("AdjustedRandIndex", "empty labels")
	}

	if len(labelsPred) != n {
		return 0, errors.NewDimensionError("AdjustedRandIndex", n, len(labelsPred), 0)
	}

	// 分割表 contingency[i][j] = 真のクラスタi かつ 予測クラスタj の要素数
	contingency := make(map[int]map[int]int)
	rowSums := make(map[int]int)
	colSums := make(map[int]int)

	for i := 0; i < n; i++ {
		t, p := labelsTrue[i], labelsPred[i]
		if contingency[t] == nil {
			contingency[t] = make(map[int]int)
		}
		contingency[t][p]++
		rowSums[t]++
		colSums[p]++
	}

	// C(n, 2) = n*(n-1)/2
	comb2 := func(m int) float64 {
		return float64(m) * float64(m-1) / 2
	}

	var sumComb, sumRows, sumCols float64
	for _, row := range contingency {
		for _, count := range row {
			sumComb += comb2(count)
		}
	}
	for _, count := range rowSums {
		sumRows += comb2(count)
	}
	for _, count := range colSums {
		sumCols += comb2(count)
	}

	expected := sumRows * sumCols / comb2(n)
	maxIndex := (sumRows + sumCols) / 2

	// 両方の分割が自明（全要素が1クラスタ、または全要素が別クラスタ）な場合
	if maxIndex == expected {
		return 1.0, nil
	}

	return (sumComb - expected) / (maxIndex - expected), nil
}
