package linear

// RidgeOption is a function that configures Ridge
type RidgeOption func(*Ridge)

// WithAlpha sets the L2 regularization strength
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) RidgeOption {
	return func(r *Ridge) {
		r.fitIntercept = fit
	}
}

// RidgeCVOption is a function that configures RidgeCV
type RidgeCVOption func(*RidgeCV)

// WithAlphas sets the candidate regularization strengths to search
func WithAlphas(alphas []float64) RidgeCVOption {
	return func(r *RidgeCV) {
		r.alphas = append([]float64(nil), alphas...)
	}
}

// WithCVFolds sets the number of cross-validation folds
func WithCVFolds(folds int) RidgeCVOption {
	return func(r *RidgeCV) {
		r.folds = folds
	}
}

// WithCVSeed sets the seed used to shuffle samples before splitting
func WithCVSeed(seed int64) RidgeCVOption {
	return func(r *RidgeCV) {
		r.seed = seed
	}
}
