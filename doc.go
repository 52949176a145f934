// Package goml is a hands-on machine learning course for Go,
// built as a small scikit-learn-like library plus a series of runnable lessons.
//
// The library side keeps scikit-learn's conventions so that readers coming
// from Python can transfer what they already know: estimators are configured
// at construction, trained with Fit, and queried with Predict, Transform or
// Score. The lessons side walks through the library one concept at a time,
// from data representation to cross-validated pipelines.
//
// # A First Model
//
// Load a bundled dataset, hold out a test set, train a model and score it:
//
//	wages, err := dataset.LoadWages()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	X, err := wages.Matrix("EDUCATION", "EXPERIENCE", "AGE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y, err := wages.Matrix("WAGE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	XTrain, XTest, yTrain, yTest, err := modelselection.TrainTestSplit(
//	    X, y, modelselection.WithTestSize(0.25), modelselection.WithRandomState(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model := linear.NewLinearRegression()
//	if err := model.Fit(XTrain, yTrain); err != nil {
//	    log.Fatal(err)
//	}
//	r2, err := model.Score(XTest, yTest)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("R² on held-out data: %.3f\n", r2)
//
// # Packages
//
//   - dataset: Bundled datasets and synthetic data generators
//   - preprocessing: Scalers, encoders, polynomial features, column transformers
//   - feature: Text feature extraction (bag of words, tf-idf)
//   - linear: Linear models (LinearRegression, Ridge, PassiveAggressive)
//   - cluster: Clustering (KMeans)
//   - decomposition: Dimensionality reduction (PCA)
//   - manifold: Manifold learning (t-SNE)
//   - metrics: Evaluation metrics (MSE, R², accuracy, AUC, confusion matrix)
//   - modelselection: Train/test split, cross-validation, grid search
//   - pipeline: Chaining transformers and estimators
//   - core/model: Core interfaces and base types
//   - core/parallel: Parallel processing utilities
//
// # Lessons
//
// The examples/ directory contains the course chapters, each a runnable main:
//
//	go run ./examples/03_data_representation
//	go run ./examples/13_cross_validation
//	go run ./examples/15_pipelines
//
// Lessons read their data from the datasets/ directory at the repository
// root, so run them from the repository root.
//
// # scikit-learn Compatibility
//
// Estimators follow scikit-learn conventions: hyperparameters are set at
// construction, learned attributes carry a trailing underscore, and models
// expose GetParams/SetParams/Clone for use with grid search and pipelines:
//
//	model := linear.NewRidge(linear.WithAlpha(10.0))
//	params := model.GetParams(true) // map[string]interface{}{"alpha": 10.0, ...}
//
// GoML is released under the MIT License.
package goml
