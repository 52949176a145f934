package metrics

import (
	"log"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

func vec(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), values)
}

func TestNDCG(t *testing.T) {
	cases := []struct {
		name    string
		yTrue   []float64
		yScore  []float64
		k       int
		want    float64
		wantErr bool
	}{
		{
			name:   "scores ranked exactly by relevance",
			yTrue:  []float64{3, 2, 3, 0, 1, 2},
			yScore: []float64{3.1, 2.9, 3.0, 0.1, 1.1, 2.1},
			k:      -1,
			want:   1.0,
		},
		{
			name:   "scores in reverse of relevance",
			yTrue:  []float64{3, 2, 3, 0, 1, 2},
			yScore: []float64{1, 2, 3, 4, 5, 6},
			k:      -1,
			want:   0.706,
		},
		{
			name:   "cutoff at top three",
			yTrue:  []float64{3, 2, 3, 0, 1, 2},
			yScore: []float64{2.5, 0.5, 2, 0, 1, 3},
			k:      3,
			want:   0.845,
		},
		{
			name:   "binary relevance",
			yTrue:  []float64{1, 0, 1, 0, 1},
			yScore: []float64{0.9, 0.8, 0.7, 0.6, 0.5},
			k:      -1,
			want:   0.885,
		},
		{
			name:   "single element is trivially perfect",
			yTrue:  []float64{2},
			yScore: []float64{1},
			k:      1,
			want:   1.0,
		},
		{
			name:    "negative relevance rejected",
			yTrue:   []float64{1, -1, 2},
			yScore:  []float64{1, 2, 3},
			k:       -1,
			wantErr: true,
		},
		{
			name:    "length mismatch rejected",
			yTrue:   []float64{1, 2, 3},
			yScore:  []float64{1, 2},
			k:       -1,
			wantErr: true,
		},
		{
			name:    "k of zero rejected",
			yTrue:   []float64{1, 2, 3},
			yScore:  []float64{1, 2, 3},
			k:       0,
			wantErr: true,
		},
		{
			name:    "nil vectors rejected",
			yTrue:   nil,
			yScore:  nil,
			k:       1,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NDCG(vec(tc.yTrue), vec(tc.yScore), tc.k)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NDCG() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && math.Abs(got-tc.want) > 0.01 {
				t.Errorf("NDCG() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNDCGAllZeroRelevanceWarns(t *testing.T) {
	// 関連度がすべて0の場合は警告を出して0を返す
	var caught []error
	errors.SetWarningHandler(func(w error) { caught = append(caught, w) })
	defer errors.SetWarningHandler(func(w error) {
		log.Printf("GoML-Warning: %v\n", w)
	})

	got, err := NDCG(vec([]float64{0, 0, 0, 0}), vec([]float64{1, 2, 3, 4}), -1)
	if err != nil {
		t.Fatalf("NDCG() error = %v", err)
	}
	if got != 0 {
		t.Errorf("NDCG() = %v, want 0", got)
	}

	if len(caught) != 1 {
		t.Fatalf("captured %d warnings, want 1", len(caught))
	}
	var undef *errors.UndefinedMetricWarning
	if !errors.As(caught[0], &undef) || undef.Metric != "NDCG" {
		t.Errorf("unexpected warning: %v", caught[0])
	}
}

func TestNDCGMatrix(t *testing.T) {
	// 1列目だけが使われる
	yTrue := mat.NewDense(4, 2, []float64{3, 9, 2, 9, 1, 9, 0, 9})
	yScore := mat.NewDense(4, 2, []float64{2.5, 9, 2.0, 9, 1.5, 9, 1.0, 9})

	got, err := NDCGMatrix(yTrue, yScore, -1)
	if err != nil {
		t.Fatalf("NDCGMatrix() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("NDCGMatrix() = %v, want 1.0", got)
	}

	if _, err := NDCGMatrix(nil, yScore, 1); err == nil {
		t.Error("nil matrix should be rejected")
	}
	if _, err := NDCGMatrix(&mat.Dense{}, &mat.Dense{}, 1); err == nil {
		t.Error("empty matrix should be rejected")
	}
}

func TestAveragePrecision(t *testing.T) {
	cases := []struct {
		name    string
		yTrue   []float64
		yScore  []float64
		want    float64
		wantErr bool
	}{
		{
			name:   "all relevant items ranked first",
			yTrue:  []float64{1, 1, 1, 0, 0},
			yScore: []float64{5, 4, 3, 2, 1},
			want:   1.0,
		},
		{
			name:   "all relevant items ranked last",
			yTrue:  []float64{1, 1, 1, 0, 0},
			yScore: []float64{1, 2, 3, 4, 5},
			// (1/3 + 2/4 + 3/5) / 3
			want: 0.478,
		},
		{
			name:   "relevant items interleaved",
			yTrue:  []float64{1, 0, 1, 0, 1},
			yScore: []float64{0.9, 0.8, 0.7, 0.6, 0.5},
			// (1/1 + 2/3 + 3/5) / 3
			want: 0.756,
		},
		{
			name:   "single relevant item at rank three",
			yTrue:  []float64{0, 0, 1, 0, 0},
			yScore: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
			want:   0.333,
		},
		{
			name:   "everything relevant",
			yTrue:  []float64{1, 1, 1},
			yScore: []float64{3, 2, 1},
			want:   1.0,
		},
		{
			name:    "graded labels rejected",
			yTrue:   []float64{0, 0.5, 1},
			yScore:  []float64{1, 2, 3},
			wantErr: true,
		},
		{
			name:    "length mismatch rejected",
			yTrue:   []float64{0, 1},
			yScore:  []float64{0.5},
			wantErr: true,
		},
		{
			name:    "nil vectors rejected",
			yTrue:   nil,
			yScore:  nil,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AveragePrecision(vec(tc.yTrue), vec(tc.yScore))
			if (err != nil) != tc.wantErr {
				t.Fatalf("AveragePrecision() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && math.Abs(got-tc.want) > 0.01 {
				t.Errorf("AveragePrecision() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAveragePrecisionNoRelevantWarns(t *testing.T) {
	// 正例が1つもない場合は警告を出して0を返す
	var caught []error
	errors.SetWarningHandler(func(w error) { caught = append(caught, w) })
	defer errors.SetWarningHandler(func(w error) {
		log.Printf("GoML-Warning: %v\n", w)
	})

	got, err := AveragePrecision(vec([]float64{0, 0, 0, 0}), vec([]float64{1, 2, 3, 4}))
	if err != nil {
		t.Fatalf("AveragePrecision() error = %v", err)
	}
	if got != 0 {
		t.Errorf("AveragePrecision() = %v, want 0", got)
	}
	if len(caught) != 1 {
		t.Fatalf("captured %d warnings, want 1", len(caught))
	}
}

func TestMeanAveragePrecision(t *testing.T) {
	queries := func(lists [][]float64) []*mat.VecDense {
		out := make([]*mat.VecDense, 0, len(lists))
		for _, l := range lists {
			out = append(out, vec(l))
		}
		return out
	}

	t.Run("three queries", func(t *testing.T) {
		yTrue := queries([][]float64{
			{1, 1, 0, 0},
			{0, 1, 1, 0},
			{1, 0, 0, 1},
		})
		yScore := queries([][]float64{
			{4, 3, 2, 1},
			{1, 2, 3, 4},
			{3, 2, 1, 4},
		})

		// AP = 1.0, 0.583, 1.0 の平均
		got, err := MeanAveragePrecision(yTrue, yScore)
		if err != nil {
			t.Fatalf("MeanAveragePrecision() error = %v", err)
		}
		if math.Abs(got-0.861) > 0.01 {
			t.Errorf("MeanAveragePrecision() = %v, want 0.861", got)
		}
	})

	t.Run("single query", func(t *testing.T) {
		got, err := MeanAveragePrecision(
			queries([][]float64{{1, 0, 1, 0}}),
			queries([][]float64{{4, 3, 2, 1}}),
		)
		if err != nil {
			t.Fatalf("MeanAveragePrecision() error = %v", err)
		}
		if math.Abs(got-0.833) > 0.01 {
			t.Errorf("MeanAveragePrecision() = %v, want 0.833", got)
		}
	})

	t.Run("empty query list rejected", func(t *testing.T) {
		if _, err := MeanAveragePrecision(nil, nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("mismatched list sizes rejected", func(t *testing.T) {
		yTrue := queries([][]float64{{1, 0}, {0, 1}})
		yScore := queries([][]float64{{1, 2}})
		if _, err := MeanAveragePrecision(yTrue, yScore); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDCG(t *testing.T) {
	// 与えた順序のままの割引累積利得
	cases := []struct {
		name      string
		relevance []float64
		want      float64
	}{
		{name: "graded relevance", relevance: []float64{3, 2, 3, 0, 1, 2}, want: 13.848},
		{name: "binary relevance", relevance: []float64{1, 1, 0, 0, 1}, want: 2.018},
		{name: "all zeros", relevance: []float64{0, 0, 0, 0}, want: 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pairs := make([]scoredPair, len(tc.relevance))
			for i, rel := range tc.relevance {
				pairs[i] = scoredPair{score: rel, relevance: rel}
			}

			got := dcg(pairs, len(pairs))
			if math.Abs(got-tc.want) > 0.01 {
				t.Errorf("dcg() = %v, want %v", got, tc.want)
			}
		})
	}
}

func BenchmarkNDCG(b *testing.B) {
	n := 1000
	yTrue := make([]float64, n)
	yScore := make([]float64, n)
	for i := 0; i < n; i++ {
		yTrue[i] = float64(n-i) / float64(n) * 3
		yScore[i] = float64(i) / float64(n)
	}
	yTrueVec := mat.NewVecDense(n, yTrue)
	yScoreVec := mat.NewVecDense(n, yScore)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NDCG(yTrueVec, yScoreVec, 10)
	}
}
