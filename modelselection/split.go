// Package modelselection provides utilities for splitting data, running
// cross-validation and searching hyperparameters.
//
// Splitters generate index-based folds so the caller never copies data
// until a fold is actually trained on. All estimator-facing helpers work
// against the SearchEstimator interface, which every model in this
// repository satisfies.
package modelselection

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CVFold represents a single fold in cross-validation
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFoldSplitter defines the interface for cross-validation splitters
type KFoldSplitter interface {
	Split(X, y mat.Matrix) ([]CVFold, error)
	GetNSplits() int
}

// KFold implements k-fold cross-validation splitting
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold.
// Remainder samples are distributed over the leading folds.
func (kf *KFold) Split(X, _ mat.Matrix) ([]CVFold, error) {
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("KFold.Split", "empty data", errors.ErrEmptyData)
	}
	if kf.NSplits > nSamples {
		return nil, errors.NewValueError("KFold.Split",
			"number of splits cannot exceed number of samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = CVFold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds, nil
}

// StratifiedKFold implements stratified k-fold cross-validation.
// Each fold preserves the per-class sample ratios of the full data
type StratifiedKFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewStratifiedKFold creates a new stratified k-fold splitter
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]CVFold, error) {
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("StratifiedKFold.Split", "empty data", errors.ErrEmptyData)
	}
	if y == nil {
		return nil, errors.NewValueError("StratifiedKFold.Split", "y is required for stratification")
	}
	ry, _ := y.Dims()
	if ry != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, ry, 0)
	}
	if skf.NSplits > nSamples {
		return nil, errors.NewValueError("StratifiedKFold.Split",
			"number of splits cannot exceed number of samples")
	}

	// Group indices by class, keeping a deterministic class order
	classIndices := make(map[float64][]int)
	classOrder := make([]float64, 0)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.RandomSeed), uint64(skf.RandomSeed)))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]CVFold, skf.NSplits)
	for i := 0; i < skf.NSplits; i++ {
		folds[i] = CVFold{
			TrainIndices: make([]int, 0),
			TestIndices:  make([]int, 0),
		}
	}

	// Distribute each class across folds
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		currentIdx := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}

			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in the fold's test set)
	for i := 0; i < skf.NSplits; i++ {
		testSet := make(map[int]bool)
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}

		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds, nil
}

// ShuffleSplit generates independent random train/test splits.
// Unlike KFold the test sets of different splits may overlap
type ShuffleSplit struct {
	NSplits    int
	TestSize   float64
	RandomSeed int
}

// NewShuffleSplit creates a new random permutation splitter
func NewShuffleSplit(nSplits int, testSize float64, randomSeed int) *ShuffleSplit {
	if nSplits < 1 {
		nSplits = 10
	}
	if testSize <= 0 || testSize >= 1 {
		testSize = 0.1
	}
	return &ShuffleSplit{
		NSplits:    nSplits,
		TestSize:   testSize,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (ss *ShuffleSplit) GetNSplits() int {
	return ss.NSplits
}

// Split generates NSplits random train/test index pairs
func (ss *ShuffleSplit) Split(X, _ mat.Matrix) ([]CVFold, error) {
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("ShuffleSplit.Split", "empty data", errors.ErrEmptyData)
	}

	nTest := int(math.Round(ss.TestSize * float64(nSamples)))
	if nTest < 1 || nTest >= nSamples {
		return nil, errors.NewValidationError("test_size",
			"results in an empty train or test set", ss.TestSize)
	}

	r := rand.New(rand.NewPCG(uint64(ss.RandomSeed), uint64(ss.RandomSeed)))
	folds := make([]CVFold, ss.NSplits)

	for s := 0; s < ss.NSplits; s++ {
		perm := r.Perm(nSamples)

		testIndices := make([]int, nTest)
		copy(testIndices, perm[:nTest])
		trainIndices := make([]int, nSamples-nTest)
		copy(trainIndices, perm[nTest:])

		folds[s] = CVFold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}
	}

	return folds, nil
}

// SplitOption configures TrainTestSplit
type SplitOption func(*splitConfig)

type splitConfig struct {
	testSize   float64
	trainSize  float64
	shuffle    bool
	stratify   bool
	randomSeed int64
}

// WithTestSize sets the fraction of samples placed in the test set
func WithTestSize(size float64) SplitOption {
	return func(c *splitConfig) {
		c.testSize = size
	}
}

// WithTrainSize sets the fraction of samples placed in the train set.
// When set together with the test size, leftover samples are dropped
func WithTrainSize(size float64) SplitOption {
	return func(c *splitConfig) {
		c.trainSize = size
	}
}

// WithShuffle controls whether samples are shuffled before splitting
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) {
		c.shuffle = shuffle
	}
}

// WithStratify splits so that class proportions are preserved in both sets
func WithStratify(stratify bool) SplitOption {
	return func(c *splitConfig) {
		c.stratify = stratify
	}
}

// WithRandomState sets the seed for shuffling. Negative seeds use the clock
func WithRandomState(seed int64) SplitOption {
	return func(c *splitConfig) {
		c.randomSeed = seed
	}
}

// TrainTestSplit splits X and y into train and test subsets.
//
// By default 25% of the samples go to the test set after shuffling.
// With WithStratify(true) the split keeps each class's share of samples
// equal in both subsets, up to rounding.
func TrainTestSplit(X, y mat.Matrix, opts ...SplitOption) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	cfg := &splitConfig{
		testSize:   0.25,
		trainSize:  -1,
		shuffle:    true,
		stratify:   false,
		randomSeed: -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	nSamples, _ := X.Dims()
	if nSamples < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit",
			"at least 2 samples are required")
	}
	ry, _ := y.Dims()
	if ry != nSamples {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, ry, 0)
	}
	if cfg.trainSize < 0 && (cfg.testSize <= 0 || cfg.testSize >= 1) {
		return nil, nil, nil, nil, errors.NewValidationError("test_size",
			"must be in the open interval (0, 1)", cfg.testSize)
	}
	if cfg.trainSize >= 0 && cfg.trainSize+cfg.testSize > 1 {
		return nil, nil, nil, nil, errors.NewValidationError("train_size",
			"train and test fractions must not exceed 1", cfg.trainSize)
	}

	var seed1, seed2 uint64
	if cfg.randomSeed >= 0 {
		seed1, seed2 = uint64(cfg.randomSeed), uint64(cfg.randomSeed)
	} else {
		now := uint64(time.Now().UnixNano())
		seed1, seed2 = now, now>>1
	}
	r := rand.New(rand.NewPCG(seed1, seed2))

	var trainIdx, testIdx []int
	if cfg.stratify {
		trainIdx, testIdx, err = stratifiedIndices(y, cfg, r)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	} else {
		indices := make([]int, nSamples)
		for i := range indices {
			indices[i] = i
		}
		if cfg.shuffle {
			r.Shuffle(nSamples, func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		nTest := int(math.Round(cfg.testSize * float64(nSamples)))
		if nTest < 1 {
			nTest = 1
		}
		nTrain := nSamples - nTest
		if cfg.trainSize >= 0 {
			nTrain = int(math.Round(cfg.trainSize * float64(nSamples)))
		}
		if nTrain < 1 || nTest+nTrain > nSamples {
			return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit",
				"split sizes leave no training samples")
		}

		testIdx = indices[:nTest]
		trainIdx = indices[nTest : nTest+nTrain]
	}

	XTrain, yTrain = takeRows(X, y, trainIdx)
	XTest, yTest = takeRows(X, y, testIdx)
	return XTrain, XTest, yTrain, yTest, nil
}

// stratifiedIndices splits each class separately so both subsets keep the
// class proportions of the full data.
func stratifiedIndices(y mat.Matrix, cfg *splitConfig, r *rand.Rand) (train, test []int, err error) {
	nSamples, _ := y.Dims()

	classIndices := make(map[float64][]int)
	classOrder := make([]float64, 0)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)

	for _, label := range classOrder {
		indices := classIndices[label]
		if len(indices) < 2 {
			return nil, nil, errors.NewValueError("TrainTestSplit",
				"stratified split requires at least 2 samples per class")
		}

		if cfg.shuffle {
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		nTest := int(math.Round(cfg.testSize * float64(len(indices))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}

		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}

	return train, test, nil
}

// takeRows copies the given rows of X and y into new matrices
func takeRows(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	subX := mat.NewDense(len(indices), xCols, nil)
	subY := mat.NewDense(len(indices), yCols, nil)
	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			subY.Set(i, j, y.At(idx, j))
		}
	}
	return subX, subY
}
