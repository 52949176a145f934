package modelselection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKFold(t *testing.T) {
	t.Run("Basic KFold split", func(t *testing.T) {
		n := 100
		X := mat.NewDense(n, 2, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			X.Set(i, 0, float64(i))
			X.Set(i, 1, float64(i)*2)
			y.Set(i, 0, float64(i%2))
		}

		kf := NewKFold(5, false, 42)
		assert.Equal(t, 5, kf.GetNSplits())

		folds, err := kf.Split(X, y)
		require.NoError(t, err)
		assert.Equal(t, 5, len(folds))

		for i, fold := range folds {
			assert.Equal(t, 80, len(fold.TrainIndices), "Fold %d train size", i)
			assert.Equal(t, 20, len(fold.TestIndices), "Fold %d test size", i)

			// No overlap between train and test
			testSet := make(map[int]bool)
			for _, idx := range fold.TestIndices {
				testSet[idx] = true
			}
			for _, idx := range fold.TrainIndices {
				assert.False(t, testSet[idx], "Train index %d in test set", idx)
			}
		}

		// Each index appears exactly once as test
		counts := make(map[int]int)
		for _, fold := range folds {
			for _, idx := range fold.TestIndices {
				counts[idx]++
			}
		}
		for i := 0; i < n; i++ {
			assert.Equal(t, 1, counts[i], "Index %d coverage", i)
		}
	})

	t.Run("Remainder goes to leading folds", func(t *testing.T) {
		n := 10
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)

		kf := NewKFold(3, false, 0)
		folds, err := kf.Split(X, y)
		require.NoError(t, err)

		// 10 = 4 + 3 + 3
		assert.Equal(t, 4, len(folds[0].TestIndices))
		assert.Equal(t, 3, len(folds[1].TestIndices))
		assert.Equal(t, 3, len(folds[2].TestIndices))
	})

	t.Run("Shuffle is deterministic for a fixed seed", func(t *testing.T) {
		n := 50
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)

		folds1, err := NewKFold(5, true, 42).Split(X, y)
		require.NoError(t, err)
		folds2, err := NewKFold(5, true, 42).Split(X, y)
		require.NoError(t, err)

		assert.Equal(t, folds1, folds2)

		// Without shuffle the first fold is the leading block
		foldsPlain, err := NewKFold(5, false, 42).Split(X, y)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, foldsPlain[0].TestIndices)
	})

	t.Run("More splits than samples fails", func(t *testing.T) {
		X := mat.NewDense(3, 1, nil)
		y := mat.NewDense(3, 1, nil)

		_, err := NewKFold(5, false, 0).Split(X, y)
		assert.Error(t, err)
	})
}

func TestStratifiedKFold(t *testing.T) {
	t.Run("Each fold keeps class proportions", func(t *testing.T) {
		// 30 samples, 3 classes of 10 each
		n := 30
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			y.Set(i, 0, float64(i/10))
		}

		skf := NewStratifiedKFold(5, true, 42)
		folds, err := skf.Split(X, y)
		require.NoError(t, err)
		require.Equal(t, 5, len(folds))

		for i, fold := range folds {
			assert.Equal(t, 6, len(fold.TestIndices), "Fold %d test size", i)

			classCounts := make(map[float64]int)
			for _, idx := range fold.TestIndices {
				classCounts[y.At(idx, 0)]++
			}
			for label, count := range classCounts {
				assert.Equal(t, 2, count, "Fold %d class %.0f count", i, label)
			}
		}
	})

	t.Run("Label length mismatch fails", func(t *testing.T) {
		X := mat.NewDense(10, 1, nil)
		y := mat.NewDense(8, 1, nil)

		_, err := NewStratifiedKFold(2, false, 0).Split(X, y)
		assert.Error(t, err)
	})
}

func TestShuffleSplit(t *testing.T) {
	t.Run("Generates independent splits", func(t *testing.T) {
		n := 20
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)

		ss := NewShuffleSplit(4, 0.25, 7)
		folds, err := ss.Split(X, y)
		require.NoError(t, err)
		require.Equal(t, 4, len(folds))

		for i, fold := range folds {
			assert.Equal(t, 5, len(fold.TestIndices), "Split %d test size", i)
			assert.Equal(t, 15, len(fold.TrainIndices), "Split %d train size", i)

			seen := make(map[int]bool)
			for _, idx := range fold.TestIndices {
				seen[idx] = true
			}
			for _, idx := range fold.TrainIndices {
				assert.False(t, seen[idx], "Split %d overlap at %d", i, idx)
			}
		}
	})

	t.Run("Degenerate test size fails", func(t *testing.T) {
		X := mat.NewDense(4, 1, nil)
		y := mat.NewDense(4, 1, nil)

		ss := &ShuffleSplit{NSplits: 2, TestSize: 0.01, RandomSeed: 0}
		_, err := ss.Split(X, y)
		assert.Error(t, err)
	})
}

func TestTrainTestSplit(t *testing.T) {
	t.Run("Default split is 75/25", func(t *testing.T) {
		n := 100
		X := mat.NewDense(n, 2, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			X.Set(i, 0, float64(i))
			y.Set(i, 0, float64(i%2))
		}

		XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, WithRandomState(42))
		require.NoError(t, err)

		trainRows, _ := XTrain.Dims()
		testRows, _ := XTest.Dims()
		assert.Equal(t, 75, trainRows)
		assert.Equal(t, 25, testRows)

		yTrainRows, _ := yTrain.Dims()
		yTestRows, _ := yTest.Dims()
		assert.Equal(t, 75, yTrainRows)
		assert.Equal(t, 25, yTestRows)
	})

	t.Run("Without shuffle order is preserved", func(t *testing.T) {
		n := 8
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			X.Set(i, 0, float64(i))
			y.Set(i, 0, float64(i))
		}

		XTrain, XTest, _, _, err := TrainTestSplit(X, y,
			WithTestSize(0.25), WithShuffle(false))
		require.NoError(t, err)

		// First quarter becomes the test set
		assert.Equal(t, 0.0, XTest.At(0, 0))
		assert.Equal(t, 1.0, XTest.At(1, 0))
		assert.Equal(t, 2.0, XTrain.At(0, 0))
	})

	t.Run("Stratified split preserves class shares", func(t *testing.T) {
		// 40 samples: 30 of class 0, 10 of class 1
		n := 40
		X := mat.NewDense(n, 1, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			if i < 30 {
				y.Set(i, 0, 0)
			} else {
				y.Set(i, 0, 1)
			}
		}

		_, _, yTrain, yTest, err := TrainTestSplit(X, y,
			WithTestSize(0.5), WithStratify(true), WithRandomState(123))
		require.NoError(t, err)

		countClass := func(m *mat.Dense, label float64) int {
			rows, _ := m.Dims()
			count := 0
			for i := 0; i < rows; i++ {
				if m.At(i, 0) == label {
					count++
				}
			}
			return count
		}

		assert.Equal(t, 15, countClass(yTest, 0))
		assert.Equal(t, 5, countClass(yTest, 1))
		assert.Equal(t, 15, countClass(yTrain, 0))
		assert.Equal(t, 5, countClass(yTrain, 1))
	})

	t.Run("Invalid inputs fail", func(t *testing.T) {
		X := mat.NewDense(10, 1, nil)
		y := mat.NewDense(10, 1, nil)

		_, _, _, _, err := TrainTestSplit(X, y, WithTestSize(1.5))
		assert.Error(t, err)

		yShort := mat.NewDense(5, 1, nil)
		_, _, _, _, err = TrainTestSplit(X, yShort)
		assert.Error(t, err)

		single := mat.NewDense(1, 1, nil)
		_, _, _, _, err = TrainTestSplit(single, mat.NewDense(1, 1, nil))
		assert.Error(t, err)
	})
}
