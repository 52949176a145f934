package modelselection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SearchEstimator is the estimator surface hyperparameter search works
// against. Every model and pipeline in this repository satisfies it.
type SearchEstimator interface {
	model.Fitter
	model.Predictor
	model.SKLearnCompatible
	Score(X, y mat.Matrix) (float64, error)
}

// ParamGrid maps parameter names to lists of candidate values.
// Names may use the step__param form to reach inside pipelines.
type ParamGrid map[string][]interface{}

// expand returns the cartesian product of all parameter candidates.
// Keys are visited in sorted order so the expansion is deterministic.
func (g ParamGrid) expand() []map[string]interface{} {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	candidates := []map[string]interface{}{{}}
	for _, key := range keys {
		values := g[key]
		next := make([]map[string]interface{}, 0, len(candidates)*len(values))
		for _, base := range candidates {
			for _, v := range values {
				candidate := make(map[string]interface{}, len(base)+1)
				for bk, bv := range base {
					candidate[bk] = bv
				}
				candidate[key] = v
				next = append(next, candidate)
			}
		}
		candidates = next
	}
	return candidates
}

// CandidateResult holds the cross-validation outcome for one parameter
// combination
type CandidateResult struct {
	Params        map[string]interface{}
	MeanTestScore float64
	StdTestScore  float64
	MeanFitTime   float64
	Rank          int
}

// GridSearchCV exhaustively searches a parameter grid with cross-validation.
//
// Every parameter combination is evaluated by cloning the base estimator,
// applying the candidate parameters and running k-fold cross-validation.
// After the search the best combination is refit on the full data, and the
// GridSearchCV itself behaves as that fitted estimator.
//
// Example:
//
//	grid := modelselection.ParamGrid{"alpha": {0.1, 1.0, 10.0}}
//	search := modelselection.NewGridSearchCV(linear.NewRidge(), grid,
//		modelselection.NewKFold(5, true, 0))
//	err := search.Fit(X, y)
//	fmt.Println(search.BestParams_, search.BestScore_)
type GridSearchCV struct {
	model.BaseEstimator

	Estimator SearchEstimator
	Grid      ParamGrid
	CV        KFoldSplitter
	Refit     bool

	// Search results
	BestParams_    map[string]interface{}
	BestScore_     float64
	BestEstimator_ SearchEstimator
	CVResults_     []CandidateResult
}

// NewGridSearchCV creates a grid search over the given estimator
func NewGridSearchCV(est SearchEstimator, grid ParamGrid, cv KFoldSplitter) *GridSearchCV {
	if cv == nil {
		cv = NewKFold(5, true, 0)
	}
	return &GridSearchCV{
		Estimator: est,
		Grid:      grid,
		CV:        cv,
		Refit:     true,
	}
}

// Fit evaluates every parameter combination and refits the best one
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	if gs.Estimator == nil {
		return errors.NewValueError("GridSearchCV.Fit", "estimator must not be nil")
	}
	candidates := gs.Grid.expand()
	if len(candidates) == 0 || len(gs.Grid) == 0 {
		return errors.NewValueError("GridSearchCV.Fit", "parameter grid must not be empty")
	}

	gs.CVResults_ = make([]CandidateResult, 0, len(candidates))
	bestScore := math.Inf(-1)
	var bestParams map[string]interface{}

	for _, params := range candidates {
		clone, ok := gs.Estimator.Clone().(SearchEstimator)
		if !ok {
			return errors.Newf("GridSearchCV: clone does not implement the estimator interface")
		}
		if err := clone.SetParams(params); err != nil {
			return errors.Wrapf(err, "GridSearchCV: invalid candidate %v", params)
		}

		result, err := CrossValidate(clone, X, y, gs.CV, nil)
		if err != nil {
			return errors.Wrapf(err, "GridSearchCV: candidate %v", params)
		}

		meanFit := 0.0
		for _, t := range result.FitTimes {
			meanFit += t
		}
		meanFit /= float64(len(result.FitTimes))

		mean := result.GetMeanScore()
		gs.CVResults_ = append(gs.CVResults_, CandidateResult{
			Params:        params,
			MeanTestScore: mean,
			StdTestScore:  result.GetStdScore(),
			MeanFitTime:   meanFit,
		})

		if mean > bestScore {
			bestScore = mean
			bestParams = params
		}
	}

	// Rank candidates by mean test score, best first
	sort.SliceStable(gs.CVResults_, func(i, j int) bool {
		return gs.CVResults_[i].MeanTestScore > gs.CVResults_[j].MeanTestScore
	})
	for i := range gs.CVResults_ {
		gs.CVResults_[i].Rank = i + 1
	}

	gs.BestParams_ = bestParams
	gs.BestScore_ = bestScore

	if gs.Refit {
		best, ok := gs.Estimator.Clone().(SearchEstimator)
		if !ok {
			return errors.Newf("GridSearchCV: clone does not implement the estimator interface")
		}
		if err := best.SetParams(bestParams); err != nil {
			return errors.Wrap(err, "GridSearchCV: refit")
		}
		err := errors.SafeExecute("GridSearchCV.Refit", func() error {
			return best.Fit(X, y)
		})
		if err != nil {
			return errors.Wrap(err, "GridSearchCV: refit")
		}
		gs.BestEstimator_ = best
	}

	gs.SetFitted()
	return nil
}

// Predict delegates to the refit best estimator
func (gs *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gs.IsFitted() || gs.BestEstimator_ == nil {
		return nil, errors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return gs.BestEstimator_.Predict(X)
}

// Score delegates to the refit best estimator
func (gs *GridSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !gs.IsFitted() || gs.BestEstimator_ == nil {
		return 0, errors.NewNotFittedError("GridSearchCV", "Score")
	}
	return gs.BestEstimator_.Score(X, y)
}

// GetParams returns the search configuration
func (gs *GridSearchCV) GetParams(deep bool) map[string]interface{} {
	params := map[string]interface{}{
		"refit": gs.Refit,
	}
	if deep && gs.Estimator != nil {
		for k, v := range gs.Estimator.GetParams(true) {
			params["estimator__"+k] = v
		}
	}
	return params
}

// SetParams forwards estimator__ prefixed parameters to the base estimator
func (gs *GridSearchCV) SetParams(params map[string]interface{}) error {
	forwarded := make(map[string]interface{})
	for k, v := range params {
		if k == "refit" {
			if val, ok := v.(bool); ok {
				gs.Refit = val
			}
			continue
		}
		if name, ok := strings.CutPrefix(k, "estimator__"); ok {
			forwarded[name] = v
		}
	}
	if len(forwarded) > 0 && gs.Estimator != nil {
		return gs.Estimator.SetParams(forwarded)
	}
	return nil
}

// Clone returns an unfitted search with the same configuration.
// Cloning makes nested cross-validation possible: the outer CrossValidate
// clones the whole search, inner folds run their own grid search.
func (gs *GridSearchCV) Clone() model.SKLearnCompatible {
	var est SearchEstimator
	if gs.Estimator != nil {
		est, _ = gs.Estimator.Clone().(SearchEstimator)
	}

	grid := make(ParamGrid, len(gs.Grid))
	for k, v := range gs.Grid {
		grid[k] = append([]interface{}(nil), v...)
	}

	clone := NewGridSearchCV(est, grid, gs.CV)
	clone.Refit = gs.Refit
	return clone
}

// String returns a compact representation of the search
func (gs *GridSearchCV) String() string {
	return fmt.Sprintf("GridSearchCV(estimator=%v, n_candidates=%d)", gs.Estimator, len(gs.Grid.expand()))
}

// Sampler draws one parameter value per call.
// Distributions from gonum's stat/distuv satisfy this interface, so a
// seeded distuv.Uniform or distuv.LogNormal can drive the search.
type Sampler interface {
	Rand() float64
}

// RandomizedSearchCV samples parameter combinations from distributions
// instead of exhaustively expanding a grid.
type RandomizedSearchCV struct {
	model.BaseEstimator

	Estimator     SearchEstimator
	Distributions map[string]Sampler
	NIter         int
	CV            KFoldSplitter
	Refit         bool

	// Search results
	BestParams_    map[string]interface{}
	BestScore_     float64
	BestEstimator_ SearchEstimator
	CVResults_     []CandidateResult
}

// NewRandomizedSearchCV creates a randomized search drawing nIter candidates
func NewRandomizedSearchCV(est SearchEstimator, distributions map[string]Sampler, nIter int, cv KFoldSplitter) *RandomizedSearchCV {
	if nIter < 1 {
		nIter = 10
	}
	if cv == nil {
		cv = NewKFold(5, true, 0)
	}
	return &RandomizedSearchCV{
		Estimator:     est,
		Distributions: distributions,
		NIter:         nIter,
		CV:            cv,
		Refit:         true,
	}
}

// Fit draws NIter candidates, cross-validates each and refits the best
func (rs *RandomizedSearchCV) Fit(X, y mat.Matrix) error {
	if rs.Estimator == nil {
		return errors.NewValueError("RandomizedSearchCV.Fit", "estimator must not be nil")
	}
	if len(rs.Distributions) == 0 {
		return errors.NewValueError("RandomizedSearchCV.Fit", "parameter distributions must not be empty")
	}

	// Draw in sorted key order so a seeded source gives stable candidates
	keys := make([]string, 0, len(rs.Distributions))
	for k := range rs.Distributions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rs.CVResults_ = make([]CandidateResult, 0, rs.NIter)
	bestScore := math.Inf(-1)
	var bestParams map[string]interface{}

	for iter := 0; iter < rs.NIter; iter++ {
		params := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			params[k] = rs.Distributions[k].Rand()
		}

		clone, ok := rs.Estimator.Clone().(SearchEstimator)
		if !ok {
			return errors.Newf("RandomizedSearchCV: clone does not implement the estimator interface")
		}
		if err := clone.SetParams(params); err != nil {
			return errors.Wrapf(err, "RandomizedSearchCV: invalid candidate %v", params)
		}

		result, err := CrossValidate(clone, X, y, rs.CV, nil)
		if err != nil {
			return errors.Wrapf(err, "RandomizedSearchCV: candidate %v", params)
		}

		mean := result.GetMeanScore()
		rs.CVResults_ = append(rs.CVResults_, CandidateResult{
			Params:        params,
			MeanTestScore: mean,
			StdTestScore:  result.GetStdScore(),
		})

		if mean > bestScore {
			bestScore = mean
			bestParams = params
		}
	}

	sort.SliceStable(rs.CVResults_, func(i, j int) bool {
		return rs.CVResults_[i].MeanTestScore > rs.CVResults_[j].MeanTestScore
	})
	for i := range rs.CVResults_ {
		rs.CVResults_[i].Rank = i + 1
	}

	rs.BestParams_ = bestParams
	rs.BestScore_ = bestScore

	if rs.Refit {
		best, ok := rs.Estimator.Clone().(SearchEstimator)
		if !ok {
			return errors.Newf("RandomizedSearchCV: clone does not implement the estimator interface")
		}
		if err := best.SetParams(bestParams); err != nil {
			return errors.Wrap(err, "RandomizedSearchCV: refit")
		}
		err := errors.SafeExecute("RandomizedSearchCV.Refit", func() error {
			return best.Fit(X, y)
		})
		if err != nil {
			return errors.Wrap(err, "RandomizedSearchCV: refit")
		}
		rs.BestEstimator_ = best
	}

	rs.SetFitted()
	return nil
}

// Predict delegates to the refit best estimator
func (rs *RandomizedSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rs.IsFitted() || rs.BestEstimator_ == nil {
		return nil, errors.NewNotFittedError("RandomizedSearchCV", "Predict")
	}
	return rs.BestEstimator_.Predict(X)
}

// Score delegates to the refit best estimator
func (rs *RandomizedSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !rs.IsFitted() || rs.BestEstimator_ == nil {
		return 0, errors.NewNotFittedError("RandomizedSearchCV", "Score")
	}
	return rs.BestEstimator_.Score(X, y)
}
