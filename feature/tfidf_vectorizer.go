package feature

import (
	"fmt"
	"math"

	"github.com/go-nlp/tfidf"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/core/model"
	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// tokenDoc は語彙インデックス列をtfidf.Documentとして扱うためのアダプタ
type tokenDoc []int

func (d tokenDoc) IDs() []int { return d }

// TfidfVectorizer converts a collection of text documents to a matrix of
// TF-IDF features. Tokenization and vocabulary handling reuse
// CountVectorizer; the inverse document frequency weighting is delegated
// to go-nlp/tfidf.
type TfidfVectorizer struct {
	state *model.StateManager // State management (composition instead of embedding)

	// Hyperparameters
	count *CountVectorizer
	norm  string // "l2" or "none"

	// Learned parameters
	weights_ *tfidf.TFIDF // document frequencies and IDF table
	idf_     []float64    // IDF per vocabulary index
}

// TfidfOption は設定オプション
type TfidfOption func(*TfidfVectorizer)

// WithTfidfAnalyzer は解析単位を設定（"word" または "char"）
func WithTfidfAnalyzer(analyzer string) TfidfOption {
	return func(tv *TfidfVectorizer) {
		tv.count.analyzer = analyzer
	}
}

// WithTfidfLowercase は小文字化の有無を設定
func WithTfidfLowercase(lowercase bool) TfidfOption {
	return func(tv *TfidfVectorizer) {
		tv.count.lowercase = lowercase
	}
}

// WithTfidfNGramRange はn-gramの範囲を設定
func WithTfidfNGramRange(minN, maxN int) TfidfOption {
	return func(tv *TfidfVectorizer) {
		tv.count.ngramMin = minN
		tv.count.ngramMax = maxN
	}
}

// WithTfidfTokenPattern はトークン抽出の正規表現を設定
func WithTfidfTokenPattern(pattern string) TfidfOption {
	return func(tv *TfidfVectorizer) {
		tv.count.tokenPattern = pattern
	}
}

// WithNorm は行の正規化方法を設定（"l2" または "none"）
func WithNorm(norm string) TfidfOption {
	return func(tv *TfidfVectorizer) {
		tv.norm = norm
	}
}

// NewTfidfVectorizer は新しいTfidfVectorizerを作成
func NewTfidfVectorizer(options ...TfidfOption) *TfidfVectorizer {
	tv := &TfidfVectorizer{
		state: model.NewStateManager(),
		count: NewCountVectorizer(),
		norm:  "l2",
	}

	for _, opt := range options {
		opt(tv)
	}

	return tv
}

// docIDs は文書を語彙インデックス列に変換する（語彙外のトークンは除外）
func (tv *TfidfVectorizer) docIDs(doc string) []int {
	tokens := tv.count.analyze(doc)
	ids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		if id, ok := tv.count.vocabulary_[token]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Fit は語彙と文書頻度を学習する
func (tv *TfidfVectorizer) Fit(documents []string) error {
	if tv.norm != "l2" && tv.norm != "none" {
		return errors.NewValidationError("norm", "must be \"l2\" or \"none\"", tv.norm)
	}

	if err := tv.count.Fit(documents); err != nil {
		return err
	}

	weights := tfidf.New()
	for _, doc := range documents {
		weights.Add(tokenDoc(tv.docIDs(doc)))
	}
	weights.CalculateIDF()

	idf := make([]float64, tv.count.NFeatures())
	for i := range idf {
		idf[i] = weights.IDF[i]
	}

	tv.weights_ = weights
	tv.idf_ = idf

	tv.state.SetFitted()
	tv.state.SetDimensions(tv.count.NFeatures(), len(documents))
	return nil
}

// Transform は文書集合をTF-IDF特徴量の行列に変換する
func (tv *TfidfVectorizer) Transform(documents []string) (*mat.Dense, error) {
	if !tv.state.IsFitted() {
		return nil, errors.NewNotFittedError("TfidfVectorizer", "Transform")
	}

	nFeatures := tv.count.NFeatures()
	result := mat.NewDense(len(documents), nFeatures, nil)

	for i, doc := range documents {
		ids := tv.docIDs(doc)
		if len(ids) == 0 {
			continue
		}

		scores := tv.weights_.Score(tokenDoc(ids))
		for p, id := range ids {
			result.Set(i, id, scores[p])
		}

		if tv.norm == "l2" {
			normalizeRowL2(result, i)
		}
	}
	return result, nil
}

// FitTransform は学習と変換を同時に行う
func (tv *TfidfVectorizer) FitTransform(documents []string) (*mat.Dense, error) {
	if err := tv.Fit(documents); err != nil {
		return nil, err
	}
	return tv.Transform(documents)
}

// InverseTransform は各行で重みが正のトークンを返す
func (tv *TfidfVectorizer) InverseTransform(X mat.Matrix) ([][]string, error) {
	if !tv.state.IsFitted() {
		return nil, errors.NewNotFittedError("TfidfVectorizer", "InverseTransform")
	}
	return tv.count.InverseTransform(X)
}

// FeatureNames は語彙をアルファベット順で返す
func (tv *TfidfVectorizer) FeatureNames() []string {
	return tv.count.FeatureNames()
}

// Vocabulary は語彙からカラム番号への対応を返す
func (tv *TfidfVectorizer) Vocabulary() map[string]int {
	return tv.count.Vocabulary()
}

// IDF は語彙の各トークンの逆文書頻度を返す
func (tv *TfidfVectorizer) IDF() []float64 {
	if tv.idf_ == nil {
		return nil
	}
	idf := make([]float64, len(tv.idf_))
	copy(idf, tv.idf_)
	return idf
}

// NFeatures は語彙のサイズを返す
func (tv *TfidfVectorizer) NFeatures() int {
	return tv.count.NFeatures()
}

// IsFitted returns whether the vectorizer has been fitted
func (tv *TfidfVectorizer) IsFitted() bool {
	return tv.state.IsFitted()
}

// GetParams returns the vectorizer's hyperparameters (scikit-learn compatible)
func (tv *TfidfVectorizer) GetParams(deep bool) map[string]interface{} {
	params := tv.count.GetParams(deep)
	params["norm"] = tv.norm
	return params
}

// SetParams sets the vectorizer's hyperparameters (scikit-learn compatible)
func (tv *TfidfVectorizer) SetParams(params map[string]interface{}) error {
	if v, ok := params["norm"].(string); ok {
		if v != "l2" && v != "none" {
			return errors.NewValidationError("norm", "must be \"l2\" or \"none\"", v)
		}
		tv.norm = v
	}
	return tv.count.SetParams(params)
}

// Clone は同じパラメータを持つ未学習のVectorizerを作成
func (tv *TfidfVectorizer) Clone() model.SKLearnCompatible {
	clone := NewTfidfVectorizer(WithNorm(tv.norm))
	clone.count = tv.count.Clone().(*CountVectorizer)
	return clone
}

// String returns the string representation of the vectorizer
func (tv *TfidfVectorizer) String() string {
	return fmt.Sprintf("TfidfVectorizer(analyzer=%s, ngram_range=(%d, %d), norm=%s)",
		tv.count.analyzer, tv.count.ngramMin, tv.count.ngramMax, tv.norm)
}

// normalizeRowL2 は行をL2ノルムで正規化する
func normalizeRowL2(m *mat.Dense, row int) {
	_, cols := m.Dims()

	sumSq := 0.0
	for j := 0; j < cols; j++ {
		v := m.At(row, j)
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}

	norm := math.Sqrt(sumSq)
	for j := 0; j < cols; j++ {
		m.Set(row, j, m.At(row, j)/norm)
	}
}
