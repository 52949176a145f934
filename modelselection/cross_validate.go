package modelselection

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Scorer computes a score from true and predicted targets.
// Scores follow the greater-is-better convention, so loss metrics
// should be negated before being used as a Scorer.
type Scorer func(yTrue, yPred mat.Matrix) (float64, error)

// CVResult stores cross-validation results
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
	FitTimes    []float64 // seconds spent fitting each fold
	ScoreTimes  []float64 // seconds spent scoring each fold
	Estimators  []SearchEstimator
	BestFold    int
	BestScore   float64
}

// GetMeanScore returns the mean test score
func (cv *CVResult) GetMeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// GetStdScore returns the standard deviation of the test scores
func (cv *CVResult) GetStdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}

	mean := cv.GetMeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// CrossValidate evaluates an estimator with cross-validation.
//
// Each fold trains a fresh clone of the estimator, so the passed estimator
// is never mutated. Folds run concurrently in their own goroutines, and a
// panic inside a fold is recovered and reported as that fold's error. When
// scorer is nil the estimator's own Score method is used.
func CrossValidate(est SearchEstimator, X, y mat.Matrix, cv KFoldSplitter, scorer Scorer) (*CVResult, error) {
	if est == nil {
		return nil, errors.NewValueError("CrossValidate", "estimator must not be nil")
	}
	if cv == nil {
		cv = NewKFold(5, true, 0)
	}

	folds, err := cv.Split(X, y)
	if err != nil {
		return nil, errors.Wrap(err, "CrossValidate")
	}
	nFolds := len(folds)

	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
		FitTimes:    make([]float64, nFolds),
		ScoreTimes:  make([]float64, nFolds),
		Estimators:  make([]SearchEstimator, nFolds),
	}

	var wg sync.WaitGroup
	foldErrors := make([]error, nFolds)

	for foldIdx := 0; foldIdx < nFolds; foldIdx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer errors.Recover(&foldErrors[idx], "CrossValidate")

			fold := folds[idx]

			trainX, trainY := extractSubset(X, y, fold.TrainIndices)
			testX, testY := extractSubset(X, y, fold.TestIndices)

			clone, ok := est.Clone().(SearchEstimator)
			if !ok {
				foldErrors[idx] = errors.Newf("fold %d: clone does not implement the estimator interface", idx)
				return
			}

			fitStart := time.Now()
			if err := clone.Fit(trainX, trainY); err != nil {
				foldErrors[idx] = errors.Wrapf(err, "fold %d training failed", idx)
				return
			}
			result.FitTimes[idx] = time.Since(fitStart).Seconds()
			result.Estimators[idx] = clone

			scoreStart := time.Now()
			trainScore, err := scoreFold(clone, trainX, trainY, scorer)
			if err != nil {
				foldErrors[idx] = errors.Wrapf(err, "fold %d train scoring failed", idx)
				return
			}
			result.TrainScores[idx] = trainScore

			testScore, err := scoreFold(clone, testX, testY, scorer)
			if err != nil {
				foldErrors[idx] = errors.Wrapf(err, "fold %d test scoring failed", idx)
				return
			}
			result.TestScores[idx] = testScore
			result.ScoreTimes[idx] = time.Since(scoreStart).Seconds()
		}(foldIdx)
	}

	wg.Wait()

	for _, err := range foldErrors {
		if err != nil {
			return nil, err
		}
	}

	result.BestScore = result.TestScores[0]
	result.BestFold = 0
	for i := 1; i < len(result.TestScores); i++ {
		if result.TestScores[i] > result.BestScore {
			result.BestScore = result.TestScores[i]
			result.BestFold = i
		}
	}

	return result, nil
}

// scoreFold evaluates one fitted estimator on one data subset
func scoreFold(est SearchEstimator, X, y mat.Matrix, scorer Scorer) (float64, error) {
	if scorer == nil {
		return est.Score(X, y)
	}

	yPred, err := est.Predict(X)
	if err != nil {
		return 0, err
	}
	return scorer(y, yPred)
}

// CrossValScore is a convenience wrapper returning only the test scores
func CrossValScore(est SearchEstimator, X, y mat.Matrix, cv KFoldSplitter) ([]float64, error) {
	result, err := CrossValidate(est, X, y, cv, nil)
	if err != nil {
		return nil, err
	}
	return result.TestScores, nil
}

// extractSubset extracts a subset of the data based on indices
func extractSubset(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	// Sort indices for efficient access
	sortedIndices := make([]int, len(indices))
	copy(sortedIndices, indices)
	sort.Ints(sortedIndices)

	xSubset := mat.NewDense(rows, xCols, nil)
	ySubset := mat.NewDense(rows, yCols, nil)

	for i, idx := range sortedIndices {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}

	return xSubset, ySubset
}
