// Package pipeline chains transformers and a final estimator into a single
// model.
//
// A Pipeline behaves like the estimator at its end: Fit runs each
// transformer's FitTransform in order and fits the final step on the
// result, Predict and Score push data through the fitted transformers
// first. Because the Pipeline satisfies the same estimator surface as any
// other model, it can be cross-validated and grid-searched as one unit,
// which is the whole point: the transformers are refit inside every
// training fold, so no statistics leak from validation data.
package pipeline

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Transformer is the surface required of every step except the last
type Transformer interface {
	model.Transformer
	model.SKLearnCompatible
}

// Estimator is the surface required of a predicting final step
type Estimator interface {
	model.Fitter
	model.Predictor
	model.SKLearnCompatible
	Score(X, y mat.Matrix) (float64, error)
}

// Step is one named stage of a pipeline
type Step struct {
	Name      string
	Component model.SKLearnCompatible
}

// Pipeline applies transformers in sequence and ends in an estimator or a
// final transformer
type Pipeline struct {
	model.BaseEstimator

	Steps []Step
}

// New creates a pipeline from named steps
func New(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// MakePipeline creates a pipeline, naming each step after its type.
// Duplicate types get a numeric suffix, mirroring make_pipeline
func MakePipeline(components ...model.SKLearnCompatible) *Pipeline {
	counts := make(map[string]int)
	for _, c := range components {
		counts[typeName(c)]++
	}

	seen := make(map[string]int)
	steps := make([]Step, 0, len(components))
	for _, c := range components {
		name := typeName(c)
		if counts[name] > 1 {
			seen[name]++
			name = fmt.Sprintf("%s-%d", name, seen[name])
		}
		steps = append(steps, Step{Name: name, Component: c})
	}

	return New(steps...)
}

// typeName lowercases the concrete type name of a component
func typeName(c model.SKLearnCompatible) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}

// validate checks step naming and typing before any fitting happens
func (p *Pipeline) validate() error {
	if len(p.Steps) == 0 {
		return errors.NewValueError("Pipeline", "at least one step is required")
	}

	names := make(map[string]bool)
	for i, step := range p.Steps {
		if step.Name == "" {
			return errors.NewValueError("Pipeline", "step names must not be empty")
		}
		if strings.Contains(step.Name, "__") {
			return errors.NewValidationError("name",
				"step names must not contain '__'", step.Name)
		}
		if names[step.Name] {
			return errors.NewValidationError("name", "duplicate step name", step.Name)
		}
		names[step.Name] = true

		if step.Component == nil {
			return errors.NewValueError("Pipeline", "step component must not be nil")
		}
		if i < len(p.Steps)-1 {
			if _, ok := step.Component.(Transformer); !ok {
				return errors.Newf("pipeline step %q must be a transformer", step.Name)
			}
		}
	}

	return nil
}

// Fit runs FitTransform through the transformers and fits the final step
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if err := p.validate(); err != nil {
		return err
	}

	cur := X
	for i, step := range p.Steps {
		if i == len(p.Steps)-1 {
			break
		}
		tr := step.Component.(Transformer)
		out, err := tr.FitTransform(cur)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", step.Name)
		}
		cur = out
	}

	last := p.Steps[len(p.Steps)-1]
	switch c := last.Component.(type) {
	case Estimator:
		if err := c.Fit(cur, y); err != nil {
			return errors.Wrapf(err, "pipeline step %q", last.Name)
		}
	case Transformer:
		if err := c.Fit(cur); err != nil {
			return errors.Wrapf(err, "pipeline step %q", last.Name)
		}
	default:
		return errors.Newf("pipeline step %q is neither a transformer nor an estimator", last.Name)
	}

	p.SetFitted()
	return nil
}

// transformUpTo applies the fitted transformers before step limit
func (p *Pipeline) transformUpTo(X mat.Matrix, limit int) (mat.Matrix, error) {
	cur := X
	for i := 0; i < limit; i++ {
		step := p.Steps[i]
		tr, ok := step.Component.(Transformer)
		if !ok {
			return nil, errors.Newf("pipeline step %q is not a transformer", step.Name)
		}
		out, err := tr.Transform(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", step.Name)
		}
		cur = out
	}
	return cur, nil
}

// Predict transforms the input and delegates to the final estimator
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	est, ok := p.Steps[len(p.Steps)-1].Component.(Estimator)
	if !ok {
		return nil, errors.NewValueError("Pipeline.Predict", "final step is not an estimator")
	}

	cur, err := p.transformUpTo(X, len(p.Steps)-1)
	if err != nil {
		return nil, err
	}
	return est.Predict(cur)
}

// Score transforms the input and delegates to the final estimator
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if !p.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "Score")
	}

	est, ok := p.Steps[len(p.Steps)-1].Component.(Estimator)
	if !ok {
		return 0, errors.NewValueError("Pipeline.Score", "final step is not an estimator")
	}

	cur, err := p.transformUpTo(X, len(p.Steps)-1)
	if err != nil {
		return 0, err
	}
	return est.Score(cur, y)
}

// Transform pushes data through every step. All steps must be transformers
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	return p.transformUpTo(X, len(p.Steps))
}

// FitTransform fits all steps and returns the fully transformed data
func (p *Pipeline) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	cur := X
	for _, step := range p.Steps {
		tr, ok := step.Component.(Transformer)
		if !ok {
			return nil, errors.Newf("pipeline step %q is not a transformer", step.Name)
		}
		out, err := tr.FitTransform(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", step.Name)
		}
		cur = out
	}

	p.SetFitted()
	return cur, nil
}

// NamedSteps returns the components keyed by step name
func (p *Pipeline) NamedSteps() map[string]model.SKLearnCompatible {
	steps := make(map[string]model.SKLearnCompatible, len(p.Steps))
	for _, step := range p.Steps {
		steps[step.Name] = step.Component
	}
	return steps
}

// GetParams collects parameters from every step under name__param keys
func (p *Pipeline) GetParams(deep bool) map[string]interface{} {
	params := make(map[string]interface{})
	if !deep {
		return params
	}
	for _, step := range p.Steps {
		for k, v := range step.Component.GetParams(true) {
			params[step.Name+"__"+k] = v
		}
	}
	return params
}

// SetParams routes name__param keys to the matching step
func (p *Pipeline) SetParams(params map[string]interface{}) error {
	grouped := make(map[string]map[string]interface{})
	for key, value := range params {
		stepName, paramName, found := strings.Cut(key, "__")
		if !found {
			return errors.NewValidationError("param",
				"pipeline parameters use the step__param form", key)
		}
		if grouped[stepName] == nil {
			grouped[stepName] = make(map[string]interface{})
		}
		grouped[stepName][paramName] = value
	}

	named := p.NamedSteps()
	for stepName, stepParams := range grouped {
		component, ok := named[stepName]
		if !ok {
			return errors.NewValidationError("step", "unknown pipeline step", stepName)
		}
		if err := component.SetParams(stepParams); err != nil {
			return errors.Wrapf(err, "pipeline step %q", stepName)
		}
	}

	return nil
}

// Clone returns an unfitted pipeline with cloned steps
func (p *Pipeline) Clone() model.SKLearnCompatible {
	steps := make([]Step, len(p.Steps))
	for i, step := range p.Steps {
		steps[i] = Step{
			Name:      step.Name,
			Component: step.Component.Clone(),
		}
	}
	return New(steps...)
}

// String lists the steps in order
func (p *Pipeline) String() string {
	var b strings.Builder
	b.WriteString("Pipeline(steps=[")
	for i, step := range p.Steps {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%q, %v)", step.Name, step.Component)
	}
	b.WriteString("])")
	return b.String()
}
