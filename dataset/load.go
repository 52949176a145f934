package dataset

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LoadCSV reads a CSV file with a header row into a Table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset file %s", path)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV %s", path)
	}
	if len(rows) < 2 {
		return nil, errors.NewValueError("LoadCSV", "file has no data rows: "+path)
	}

	return &Table{Columns: rows[0], Records: rows[1:]}, nil
}

// LoadIris reads the iris dataset from DefaultDir.
//
// The dataset has 150 samples of 4 measurements (sepal length/width,
// petal length/width in cm) across 3 species. The species column is
// mapped to class indices 0..2 in order of first appearance.
func LoadIris() (*Dataset, error) {
	return LoadIrisFrom(DefaultDir)
}

// LoadIrisFrom reads the iris dataset from dir.
func LoadIrisFrom(dir string) (*Dataset, error) {
	table, err := LoadCSV(filepath.Join(dir, "iris.csv"))
	if err != nil {
		return nil, err
	}

	nFeatures := len(table.Columns) - 1
	featureNames := table.Columns[:nFeatures]

	n := table.NRows()
	X := mat.NewDense(n, nFeatures, nil)
	Y := mat.NewVecDense(n, nil)

	classIndex := make(map[string]int)
	var targetNames []string

	for i, rec := range table.Records {
		for j := 0; j < nFeatures; j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "iris row %d column %s is not numeric", i, table.Columns[j])
			}
			X.Set(i, j, v)
		}

		species := rec[nFeatures]
		idx, ok := classIndex[species]
		if !ok {
			idx = len(targetNames)
			classIndex[species] = idx
			targetNames = append(targetNames, species)
		}
		Y.SetVec(i, float64(idx))
	}

	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: append([]string(nil), featureNames...),
		TargetNames:  targetNames,
	}, nil
}

// LoadWages reads the 1985 Current Population Survey wage dataset
// from DefaultDir. The table mixes numeric columns (EDUCATION, AGE,
// WAGE, ...) with categorical ones (SEX, RACE, OCCUPATION, ...), so it
// is returned as a raw Table for the caller to encode.
func LoadWages() (*Table, error) {
	return LoadWagesFrom(DefaultDir)
}

// LoadWagesFrom reads the wage dataset from dir.
func LoadWagesFrom(dir string) (*Table, error) {
	return LoadCSV(filepath.Join(dir, "cps_85_wages.csv"))
}

// LoadSMSSpam reads the SMS spam collection from DefaultDir.
//
// Each line of the file is "<label>\t<message>" where label is either
// ham or spam. Labels map to 0 (ham) and 1 (spam).
func LoadSMSSpam() (*TextDataset, error) {
	return LoadSMSSpamFrom(DefaultDir)
}

// LoadSMSSpamFrom reads the SMS spam collection from dir.
func LoadSMSSpamFrom(dir string) (*TextDataset, error) {
	path := filepath.Join(dir, "smsspam", "SMSSpamCollection")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset file %s", path)
	}
	defer f.Close()

	ds := &TextDataset{TargetNames: []string{"ham", "spam"}}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		label, text, found := strings.Cut(line, "\t")
		if !found {
			return nil, errors.Newf("malformed line %d in %s: missing tab separator", lineNo, path)
		}

		switch label {
		case "ham":
			ds.Labels = append(ds.Labels, 0)
		case "spam":
			ds.Labels = append(ds.Labels, 1)
		default:
			return nil, errors.Newf("malformed line %d in %s: unknown label %q", lineNo, path, label)
		}
		ds.Texts = append(ds.Texts, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	if len(ds.Texts) == 0 {
		return nil, errors.NewValueError("LoadSMSSpam", "file has no data lines: "+path)
	}

	return ds, nil
}

// LoadTextLines reads a plain text file into a slice of non-empty lines.
func LoadTextLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open text file %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	return lines, nil
}
