package modelselection

import (
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ValidationCurve evaluates an estimator over a range of values for one
// hyperparameter.
//
// For each value the estimator is cloned, reconfigured and cross-validated.
// The returned matrices have one row per parameter value and one column per
// fold, so row means give the usual train/validation curves for spotting
// under- and overfitting.
func ValidationCurve(est SearchEstimator, X, y mat.Matrix, paramName string,
	paramValues []interface{}, cv KFoldSplitter) (trainScores, testScores *mat.Dense, err error) {

	if est == nil {
		return nil, nil, errors.NewValueError("ValidationCurve", "estimator must not be nil")
	}
	if len(paramValues) == 0 {
		return nil, nil, errors.NewValueError("ValidationCurve", "param values must not be empty")
	}
	if cv == nil {
		cv = NewKFold(5, true, 0)
	}

	nFolds := cv.GetNSplits()
	trainScores = mat.NewDense(len(paramValues), nFolds, nil)
	testScores = mat.NewDense(len(paramValues), nFolds, nil)

	for vi, value := range paramValues {
		clone, ok := est.Clone().(SearchEstimator)
		if !ok {
			return nil, nil, errors.Newf("ValidationCurve: clone does not implement the estimator interface")
		}
		if err := clone.SetParams(map[string]interface{}{paramName: value}); err != nil {
			return nil, nil, errors.Wrapf(err, "ValidationCurve: %s=%v", paramName, value)
		}

		result, err := CrossValidate(clone, X, y, cv, nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "ValidationCurve: %s=%v", paramName, value)
		}

		for f := 0; f < nFolds && f < len(result.TestScores); f++ {
			trainScores.Set(vi, f, result.TrainScores[f])
			testScores.Set(vi, f, result.TestScores[f])
		}
	}

	return trainScores, testScores, nil
}

// MeanScores averages each row of a score matrix from ValidationCurve
func MeanScores(scores *mat.Dense) []float64 {
	rows, cols := scores.Dims()
	means := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += scores.At(i, j)
		}
		means[i] = sum / float64(cols)
	}
	return means
}
