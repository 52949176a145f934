// Package errors はライブラリ全体のエラー型と警告の仕組みを提供する。
//
// scikit-learnの例外・警告体系に合わせた構造化エラーに加えて、
// cockroachdb/errorsのスタックトレース付きラッパーを再エクスポートする。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Is はerrの連鎖にtargetが含まれるかを判定する
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はerrの連鎖からtargetの型のエラーを探す
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap はエラーに文脈を加えてラップする
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf はフォーマット済みの文脈を加えてラップする
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New はスタックトレース付きの新しいエラーを作る
func New(message string) error {
	return errors.New(message)
}

// Newf はフォーマットからスタックトレース付きのエラーを作る
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack は既存のエラーに現在位置のスタックトレースを付ける
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData は入力データが空の場合の基底エラー
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は行列が特異で解けない場合の基底エラー
	ErrSingularMatrix = New("singular matrix")
)

var (
	warnMu      sync.Mutex
	warnHandler = func(w error) {
		// 既定では標準ログに書く
		log.Printf("GoML-Warning: %v\n", w)
	}
	// pkg/logが設定する構造化出力。importの循環を避けるため関数値で注入される
	structuredWarnFunc func(warning error)
)

// SetWarningHandler は警告の受け口を差し替える。
// テストでの捕捉や、警告を完全に黙らせたい場合に使う。
func SetWarningHandler(handler func(w error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	warnHandler = handler
}

// SetZerologWarnFunc は構造化ログへの警告出力を設定する。
// nilを渡すと通常のハンドラに戻る。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	structuredWarnFunc = warnFunc
}

// Warn は警告を発行する。構造化出力が設定されていればそちらを優先し、
// なければ現在のハンドラに渡す
func Warn(w error) {
	warnMu.Lock()
	defer warnMu.Unlock()

	if structuredWarnFunc != nil {
		structuredWarnFunc(w)
		return
	}

	if warnHandler != nil {
		warnHandler(w)
	}
}

// ConvergenceWarning は反復アルゴリズムが上限回数までに収束しなかったことを表す
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message == "" {
		return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
}

// MarshalZerologObject は警告をフィールド展開してログイベントに載せる
func (w *ConvergenceWarning) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は収束失敗の警告を作る
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UndefinedMetricWarning は評価指標が定義できない入力だったことを表す。
// 正解ラベルが1クラスしかないAUCや、正例が存在しないAveragePrecisionなどで発行される
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // 代わりに返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject は警告をフィールド展開してログイベントに載せる
func (w *UndefinedMetricWarning) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は指標が定義できない場合の警告を作る
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// NotFittedError はFitを呼ぶ前にPredictやTransformを呼んだことを表す
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("goml: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はエラーをフィールド展開してログイベントに載せる
func (e *NotFittedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError はスタックトレース付きのNotFittedErrorを作る
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力の行数や特徴量数が期待と食い違ったことを表す
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0が行、1が列（特徴量）
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("goml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はエラーをフィールド展開してログイベントに載せる
func (e *DimensionError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError はスタックトレース付きのDimensionErrorを作る
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError はハイパーパラメータの検証に失敗したことを表す
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("goml: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はエラーをフィールド展開してログイベントに載せる
func (e *ValidationError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError はスタックトレース付きのValidationErrorを作る
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値そのものが不正だったことを表す
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
}

// NewValueError はスタックトレース付きのValueErrorを作る
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError はモデルの操作が失敗したことを表す汎用エラー。
// Errに原因を保持し、Unwrapで辿れる
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("goml: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("goml: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewModelError はスタックトレース付きのModelErrorを作る
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は計算途中でNaNやInfが現れたことを表す
type NumericalInstabilityError struct {
	Operation string
	Values    []float64 // 検出された異常値（表示は先頭5個まで）
	Context   map[string]interface{}
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	parts := make([]string, 0, 6)
	for i, v := range e.Values {
		if i == 5 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.6g", v))
	}
	return fmt.Sprintf("goml: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, strings.Join(parts, ", "))
}

// NewNumericalInstabilityError はスタックトレース付きのNumericalInstabilityErrorを作る
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	})
}
