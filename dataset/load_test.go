package dataset

import (
	"testing"
)

const testDataDir = "../datasets"

func TestLoadIris(t *testing.T) {
	ds, err := LoadIrisFrom(testDataDir)
	if err != nil {
		t.Fatalf("LoadIrisFrom() error = %v", err)
	}

	if ds.NSamples() != 150 {
		t.Errorf("NSamples() = %d, want 150", ds.NSamples())
	}
	if ds.NFeatures() != 4 {
		t.Errorf("NFeatures() = %d, want 4", ds.NFeatures())
	}
	if len(ds.FeatureNames) != 4 {
		t.Errorf("len(FeatureNames) = %d, want 4", len(ds.FeatureNames))
	}
	if len(ds.TargetNames) != 3 {
		t.Fatalf("len(TargetNames) = %d, want 3", len(ds.TargetNames))
	}

	// 各クラス50サンプルずつ
	counts := make([]int, 3)
	for _, label := range ds.Labels() {
		if label < 0 || label > 2 {
			t.Fatalf("label %d out of range", label)
		}
		counts[label]++
	}
	for class, count := range counts {
		if count != 50 {
			t.Errorf("class %d has %d samples, want 50", class, count)
		}
	}

	// 測定値はすべて正の値
	r, c := ds.X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if ds.X.At(i, j) <= 0 {
				t.Fatalf("X[%d][%d] = %v, want positive", i, j, ds.X.At(i, j))
			}
		}
	}
}

func TestLoadWages(t *testing.T) {
	table, err := LoadWagesFrom(testDataDir)
	if err != nil {
		t.Fatalf("LoadWagesFrom() error = %v", err)
	}

	if table.NRows() < 100 {
		t.Errorf("NRows() = %d, want at least 100", table.NRows())
	}

	for _, col := range []string{"EDUCATION", "AGE", "WAGE", "SEX", "RACE", "OCCUPATION", "UNION"} {
		if table.ColumnIndex(col) < 0 {
			t.Errorf("missing column %s", col)
		}
	}

	wages, err := table.FloatColumn("WAGE")
	if err != nil {
		t.Fatalf("FloatColumn(WAGE) error = %v", err)
	}
	for i, w := range wages {
		if w <= 0 {
			t.Errorf("wage row %d = %v, want positive", i, w)
		}
	}

	// 数値列から行列を組み立てられる
	X, err := table.Matrix("EDUCATION", "EXPERIENCE", "AGE")
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	r, c := X.Dims()
	if r != table.NRows() || c != 3 {
		t.Errorf("Matrix dims = %dx%d, want %dx3", r, c, table.NRows())
	}
}

func TestLoadSMSSpam(t *testing.T) {
	ds, err := LoadSMSSpamFrom(testDataDir)
	if err != nil {
		t.Fatalf("LoadSMSSpamFrom() error = %v", err)
	}

	if ds.NSamples() == 0 {
		t.Fatal("no samples loaded")
	}
	if len(ds.Labels) != len(ds.Texts) {
		t.Fatalf("labels/texts length mismatch: %d vs %d", len(ds.Labels), len(ds.Texts))
	}

	nHam, nSpam := 0, 0
	for i, label := range ds.Labels {
		switch label {
		case 0:
			nHam++
		case 1:
			nSpam++
		default:
			t.Fatalf("label %d out of range", label)
		}
		if ds.Texts[i] == "" {
			t.Errorf("empty message at row %d", i)
		}
	}
	if nHam == 0 || nSpam == 0 {
		t.Errorf("want both classes present, got %d ham %d spam", nHam, nSpam)
	}
}

func TestLoadTextLines(t *testing.T) {
	lines, err := LoadTextLines(testDataDir + "/fire_and_ice.txt")
	if err != nil {
		t.Fatalf("LoadTextLines() error = %v", err)
	}
	if len(lines) == 0 {
		t.Fatal("no lines loaded")
	}
	for i, line := range lines {
		if line == "" {
			t.Errorf("line %d is empty", i)
		}
	}
}

func TestTableErrors(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Records: [][]string{{"1", "x"}, {"2", "y"}},
	}

	if _, err := table.Column("missing"); err == nil {
		t.Error("Column() with unknown name should fail")
	}
	if _, err := table.FloatColumn("b"); err == nil {
		t.Error("FloatColumn() on non-numeric column should fail")
	}
	if _, err := table.Matrix(); err == nil {
		t.Error("Matrix() with no columns should fail")
	}
	if _, err := table.Strings("missing"); err == nil {
		t.Error("Strings() with unknown name should fail")
	}

	got, err := table.Strings("b", "a")
	if err != nil {
		t.Fatalf("Strings() error = %v", err)
	}
	if got[0][0] != "x" || got[0][1] != "1" {
		t.Errorf("Strings() = %v, want [[x 1] [y 2]]", got)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV("no_such_file.csv"); err == nil {
		t.Error("LoadCSV() on missing file should fail")
	}
}
