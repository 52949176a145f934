package manifold

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// makeSeparatedBlobs は4次元空間で大きく離れた3つのクラスタを生成する
func makeSeparatedBlobs() (*mat.Dense, []int) {
	centers := [][]float64{
		{0, 0, 0, 0},
		{20, 20, 20, 20},
		{-20, 20, -20, 20},
	}
	offsets := [][]float64{
		{0.2, 0, -0.1, 0.1},
		{-0.1, 0.2, 0.1, -0.2},
		{0.1, -0.2, 0.2, 0},
		{-0.2, 0.1, -0.2, 0.2},
	}

	X := mat.NewDense(12, 4, nil)
	truth := make([]int, 12)
	row := 0
	for c, center := range centers {
		for _, off := range offsets {
			for j := 0; j < 4; j++ {
				X.Set(row, j, center[j]+off[j])
			}
			truth[row] = c
			row++
		}
	}
	return X, truth
}

func embeddingDistance(Y mat.Matrix, i, j int) float64 {
	_, cols := Y.Dims()
	sum := 0.0
	for c := 0; c < cols; c++ {
		d := Y.At(i, c) - Y.At(j, c)
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestTSNEPreservesClusterStructure(t *testing.T) {
	X, truth := makeSeparatedBlobs()

	ts := NewTSNE(
		WithComponents(2),
		WithPerplexity(2),
		WithLearningRate(100),
		WithMaxIter(300),
	)
	Y, err := ts.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	rows, cols := Y.Dims()
	if rows != 12 || cols != 2 {
		t.Fatalf("expected (12, 2), got (%d, %d)", rows, cols)
	}

	// 同一クラスタ内の距離はクラスタ間の距離より平均的に小さいはず
	intraSum, intraCount := 0.0, 0
	interSum, interCount := 0.0, 0
	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			d := embeddingDistance(Y, i, j)
			if truth[i] == truth[j] {
				intraSum += d
				intraCount++
			} else {
				interSum += d
				interCount++
			}
		}
	}
	meanIntra := intraSum / float64(intraCount)
	meanInter := interSum / float64(interCount)
	if meanIntra >= meanInter {
		t.Errorf("embedding should keep clusters together: intra=%f, inter=%f", meanIntra, meanInter)
	}

	if !ts.IsFitted() {
		t.Error("model should be fitted after FitTransform")
	}
	if ts.NIter() < 1 {
		t.Errorf("expected at least one iteration, got %d", ts.NIter())
	}
	kl := ts.KLDivergence()
	if math.IsNaN(kl) || math.IsInf(kl, 0) {
		t.Errorf("KL divergence should be finite, got %f", kl)
	}
}

func TestTSNEEmbeddingReturnsCopy(t *testing.T) {
	X, _ := makeSeparatedBlobs()

	ts := NewTSNE(WithPerplexity(2), WithMaxIter(50))
	if _, err := ts.FitTransform(X); err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	first := ts.Embedding()
	original := first.At(0, 0)
	first.Set(0, 0, original+1000)

	second := ts.Embedding()
	if second.At(0, 0) != original {
		t.Error("mutating the returned embedding should not affect internal state")
	}
}

func TestTSNEValidation(t *testing.T) {
	X, _ := makeSeparatedBlobs()

	// perplexityがサンプル数以上
	tooLarge := NewTSNE(WithPerplexity(12))
	if err := tooLarge.Fit(X); err == nil {
		t.Error("Fit with perplexity >= n_samples should fail")
	}

	negative := NewTSNE(WithPerplexity(-1))
	if err := negative.Fit(X); err == nil {
		t.Error("Fit with negative perplexity should fail")
	}

	badDims := NewTSNE(WithComponents(0), WithPerplexity(2))
	if err := badDims.Fit(X); err == nil {
		t.Error("Fit with n_components=0 should fail")
	}

	// 未学習でのアクセス
	fresh := NewTSNE()
	if fresh.Embedding() != nil {
		t.Error("Embedding before Fit should be nil")
	}
}

func TestTSNECloneAndParams(t *testing.T) {
	ts := NewTSNE(
		WithComponents(3),
		WithPerplexity(5),
		WithLearningRate(150),
		WithMaxIter(100),
	)

	params := ts.GetParams(false)
	if params["n_components"] != 3 || params["perplexity"] != 5.0 {
		t.Errorf("unexpected params: %v", params)
	}
	if params["learning_rate"] != 150.0 || params["max_iter"] != 100 {
		t.Errorf("unexpected params: %v", params)
	}

	if err := ts.SetParams(map[string]interface{}{"perplexity": 10.0, "max_iter": 200}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	updated := ts.GetParams(false)
	if updated["perplexity"] != 10.0 || updated["max_iter"] != 200 {
		t.Errorf("params not updated: %v", updated)
	}

	if err := ts.SetParams(map[string]interface{}{"perplexity": -3.0}); err == nil {
		t.Error("SetParams with negative perplexity should fail")
	}

	clone, ok := ts.Clone().(*TSNE)
	if !ok {
		t.Fatal("Clone should return *TSNE")
	}
	if clone.IsFitted() {
		t.Error("clone should not be fitted")
	}
	cloneParams := clone.GetParams(false)
	if cloneParams["perplexity"] != 10.0 {
		t.Errorf("clone should carry updated params, got %v", cloneParams)
	}

	if ts.String() != "TSNE(n_components=3, perplexity=10)" {
		t.Errorf("unexpected String(): %s", ts.String())
	}
}
