package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// synthRegression は固定シードで y = 1 + X*w + ノイズ のデータを作る
func synthRegression(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	w := make([]float64, cols)
	for j := range w {
		w[j] = float64(j+1) * 0.5
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * w[j]
		}
		y.Set(i, 0, sum+(rng.Float64()-0.5)*0.1)
	}
	return X, y
}

// BenchmarkLinearRegressionFit は並列化閾値(1000行)の前後を含む
// サイズでの正規方程式ソルバの実行時間を測る
func BenchmarkLinearRegressionFit(b *testing.B) {
	sizes := []struct {
		name       string
		rows, cols int
	}{
		{"100x10", 100, 10},
		{"900x10", 900, 10},
		{"1000x10", 1000, 10},
		{"2000x10", 2000, 10},
		{"5000x20", 5000, 20},
		{"20000x50", 20000, 50},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := synthRegression(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				lr := NewLinearRegression()
				if err := lr.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDesignMatrix は切片列を足した計画行列の組み立てだけを測り、
// 行単位コピーと要素単位コピーを比較する
func BenchmarkDesignMatrix(b *testing.B) {
	const rows, cols = 5000, 20
	X, _ := synthRegression(rows, cols)

	b.Run("RowCopy", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			design := mat.NewDense(rows, cols+1, nil)
			row := make([]float64, cols+1)
			for r := 0; r < rows; r++ {
				row[0] = 1.0
				mat.Row(row[1:], r, X)
				design.SetRow(r, row)
			}
		}
	})

	b.Run("ElementCopy", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			design := mat.NewDense(rows, cols+1, nil)
			for r := 0; r < rows; r++ {
				design.Set(r, 0, 1.0)
				for j := 0; j < cols; j++ {
					design.Set(r, j+1, X.At(r, j))
				}
			}
		}
	})
}

func BenchmarkLinearRegressionPredict(b *testing.B) {
	X, y := synthRegression(2000, 20)
	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lr.Predict(X); err != nil {
			b.Fatal(err)
		}
	}
}
