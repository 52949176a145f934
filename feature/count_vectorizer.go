// Package feature はテキストから特徴量行列への変換器を提供する
package feature

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// DefaultTokenPattern は2文字以上の単語にマッチするデフォルトのトークンパターン
const DefaultTokenPattern = `\b\w\w+\b`

// CountVectorizer converts a collection of text documents to a matrix of
// token counts. Compatible with scikit-learn's CountVectorizer.
type CountVectorizer struct {
	state *model.StateManager // State management (composition instead of embedding)

	// Hyperparameters
	analyzer     string // "word" or "char"
	lowercase    bool
	tokenPattern string
	ngramMin     int
	ngramMax     int

	// Learned parameters
	vocabulary_   map[string]int // term -> column index
	featureNames_ []string       // terms sorted alphabetically

	tokenRe *regexp.Regexp
}

// CountVectorizerOption は設定オプション
type CountVectorizerOption func(*CountVectorizer)

// WithAnalyzer は解析単位を設定（"word" または "char"）
func WithAnalyzer(analyzer string) CountVectorizerOption {
	return func(cv *CountVectorizer) {
		cv.analyzer = analyzer
	}
}

// WithLowercase は小文字化の有無を設定
func WithLowercase(lowercase bool) CountVectorizerOption {
	return func(cv *CountVectorizer) {
		cv.lowercase = lowercase
	}
}

// WithTokenPattern はトークン抽出の正規表現を設定
func WithTokenPattern(pattern string) CountVectorizerOption {
	return func(cv *CountVectorizer) {
		cv.tokenPattern = pattern
	}
}

// WithNGramRange はn-gramの範囲を設定
// (1, 1)は単語のみ、(1, 2)は単語と2-gramの両方を抽出する
func WithNGramRange(minN, maxN int) CountVectorizerOption {
	return func(cv *CountVectorizer) {
		cv.ngramMin = minN
		cv.ngramMax = maxN
	}
}

// NewCountVectorizer は新しいCountVectorizerを作成
func NewCountVectorizer(options ...CountVectorizerOption) *CountVectorizer {
	cv := &CountVectorizer{
		state:        model.NewStateManager(),
		analyzer:     "word",
		lowercase:    true,
		tokenPattern: DefaultTokenPattern,
		ngramMin:     1,
		ngramMax:     1,
	}

	for _, opt := range options {
		opt(cv)
	}

	return cv
}

// analyze は1つの文書をトークン列に分解する
func (cv *CountVectorizer) analyze(doc string) []string {
	if cv.lowercase {
		doc = strings.ToLower(doc)
	}

	switch cv.analyzer {
	case "char":
		return cv.charNGrams(doc)
	default:
		tokens := cv.tokenRe.FindAllString(doc, -1)
		return cv.wordNGrams(tokens)
	}
}

// wordNGrams は単語列からn-gramを生成する
func (cv *CountVectorizer) wordNGrams(tokens []string) []string {
	if cv.ngramMin == 1 && cv.ngramMax == 1 {
		return tokens
	}

	var grams []string
	for n := cv.ngramMin; n <= cv.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// charNGrams は文書全体（空白を含む）から文字n-gramを生成する
func (cv *CountVectorizer) charNGrams(doc string) []string {
	runes := []rune(doc)

	var grams []string
	for n := cv.ngramMin; n <= cv.ngramMax; n++ {
		for i := 0; i+n <= len(runes); i++ {
			grams = append(grams, string(runes[i:i+n]))
		}
	}
	return grams
}

// validateParams はハイパーパラメータを検証して正規表現をコンパイルする
func (cv *CountVectorizer) validateParams() error {
	if cv.analyzer != "word" && cv.analyzer != "char" {
		return errors.NewValidationError("analyzer", "must be \"word\" or \"char\"", cv.analyzer)
	}
	if cv.ngramMin < 1 {
		return errors.NewValidationError("ngram_range", "lower bound must be at least 1", cv.ngramMin)
	}
	if cv.ngramMax < cv.ngramMin {
		return errors.NewValidationError("ngram_range",
			fmt.Sprintf("upper bound must not be below lower bound %d", cv.ngramMin), cv.ngramMax)
	}

	re, err := regexp.Compile(cv.tokenPattern)
	if err != nil {
		return errors.NewValidationError("token_pattern", "must be a valid regular expression", cv.tokenPattern)
	}
	cv.tokenRe = re
	return nil
}

// Fit は文書集合から語彙を学習する
func (cv *CountVectorizer) Fit(documents []string) error {
	if len(documents) == 0 {
		return errors.NewModelError("CountVectorizer.Fit", "empty document list", errors.ErrEmptyData)
	}
	if err := cv.validateParams(); err != nil {
		return err
	}

	terms := make(map[string]struct{})
	for _, doc := range documents {
		for _, token := range cv.analyze(doc) {
			terms[token] = struct{}{}
		}
	}
	if len(terms) == 0 {
		return errors.NewValueError("CountVectorizer.Fit", "empty vocabulary; documents contained no valid tokens")
	}

	names := make([]string, 0, len(terms))
	for term := range terms {
		names = append(names, term)
	}
	sort.Strings(names)

	vocabulary := make(map[string]int, len(names))
	for i, term := range names {
		vocabulary[term] = i
	}

	cv.vocabulary_ = vocabulary
	cv.featureNames_ = names

	cv.state.SetFitted()
	cv.state.SetDimensions(len(names), len(documents))
	return nil
}

// Transform は文書集合をトークン出現回数の行列に変換する
// 語彙に含まれないトークンは無視される
func (cv *CountVectorizer) Transform(documents []string) (*mat.Dense, error) {
	if !cv.state.IsFitted() {
		return nil, errors.NewNotFittedError("CountVectorizer", "Transform")
	}

	counts := mat.NewDense(len(documents), len(cv.featureNames_), nil)
	for i, doc := range documents {
		for _, token := range cv.analyze(doc) {
			if j, ok := cv.vocabulary_[token]; ok {
				counts.Set(i, j, counts.At(i, j)+1)
			}
		}
	}
	return counts, nil
}

// FitTransform は学習と変換を同時に行う
func (cv *CountVectorizer) FitTransform(documents []string) (*mat.Dense, error) {
	if err := cv.Fit(documents); err != nil {
		return nil, err
	}
	return cv.Transform(documents)
}

// InverseTransform は各行で出現回数が正のトークンを返す
func (cv *CountVectorizer) InverseTransform(X mat.Matrix) ([][]string, error) {
	if !cv.state.IsFitted() {
		return nil, errors.NewNotFittedError("CountVectorizer", "InverseTransform")
	}

	rows, cols := X.Dims()
	if cols != len(cv.featureNames_) {
		return nil, errors.NewDimensionError("CountVectorizer.InverseTransform", len(cv.featureNames_), cols, 1)
	}

	result := make([][]string, rows)
	for i := 0; i < rows; i++ {
		var terms []string
		for j := 0; j < cols; j++ {
			if X.At(i, j) > 0 {
				terms = append(terms, cv.featureNames_[j])
			}
		}
		result[i] = terms
	}
	return result, nil
}

// FeatureNames は語彙をアルファベット順で返す
func (cv *CountVectorizer) FeatureNames() []string {
	if cv.featureNames_ == nil {
		return nil
	}
	names := make([]string, len(cv.featureNames_))
	copy(names, cv.featureNames_)
	return names
}

// Vocabulary は語彙からカラム番号への対応を返す
func (cv *CountVectorizer) Vocabulary() map[string]int {
	if cv.vocabulary_ == nil {
		return nil
	}
	vocab := make(map[string]int, len(cv.vocabulary_))
	for term, idx := range cv.vocabulary_ {
		vocab[term] = idx
	}
	return vocab
}

// NFeatures は語彙のサイズを返す
func (cv *CountVectorizer) NFeatures() int {
	return len(cv.featureNames_)
}

// NDocuments は学習に使われた文書数を返す
func (cv *CountVectorizer) NDocuments() int {
	_, nDocs := cv.state.GetDimensions()
	return nDocs
}

// IsFitted returns whether the vectorizer has been fitted
func (cv *CountVectorizer) IsFitted() bool {
	return cv.state.IsFitted()
}

// GetParams returns the vectorizer's hyperparameters (scikit-learn compatible)
func (cv *CountVectorizer) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"analyzer":      cv.analyzer,
		"lowercase":     cv.lowercase,
		"token_pattern": cv.tokenPattern,
		"ngram_range":   [2]int{cv.ngramMin, cv.ngramMax},
	}
}

// SetParams sets the vectorizer's hyperparameters (scikit-learn compatible)
func (cv *CountVectorizer) SetParams(params map[string]interface{}) error {
	if v, ok := params["analyzer"].(string); ok {
		if v != "word" && v != "char" {
			return errors.NewValidationError("analyzer", "must be \"word\" or \"char\"", v)
		}
		cv.analyzer = v
	}
	if v, ok := params["lowercase"].(bool); ok {
		cv.lowercase = v
	}
	if v, ok := params["token_pattern"].(string); ok {
		cv.tokenPattern = v
	}
	if v, ok := params["ngram_range"].([2]int); ok {
		cv.ngramMin = v[0]
		cv.ngramMax = v[1]
	}
	return nil
}

// Clone は同じパラメータを持つ未学習のVectorizerを作成
func (cv *CountVectorizer) Clone() model.SKLearnCompatible {
	return NewCountVectorizer(
		WithAnalyzer(cv.analyzer),
		WithLowercase(cv.lowercase),
		WithTokenPattern(cv.tokenPattern),
		WithNGramRange(cv.ngramMin, cv.ngramMax),
	)
}

// String returns the string representation of the vectorizer
func (cv *CountVectorizer) String() string {
	return fmt.Sprintf("CountVectorizer(analyzer=%s, ngram_range=(%d, %d))", cv.analyzer, cv.ngramMin, cv.ngramMax)
}
