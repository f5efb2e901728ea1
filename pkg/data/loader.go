package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

// missingTokens are the CSV cells read as missing values.
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "NaN": true, "nan": true, "null": true, "NULL": true, "?": true,
}

// Load reads a dataset, choosing the parser by file extension.
func Load(path string) (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arff":
		return LoadARFF(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("data: unsupported dataset extension %q", filepath.Ext(path))
	}
}

// LoadCSV opens and parses a CSV file with a header row.
func LoadCSV(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := ReadCSV(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ReadCSV parses CSV with a header row. A column is numeric when every
// present value parses as a float, otherwise it is categorical.
func ReadCSV(r io.Reader) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: missing header row", ErrFormat)
	}
	headers, rows := records[0], records[1:]

	cols := make([]*frame.Column, len(headers))
	for j, h := range headers {
		raw := make([]string, len(rows))
		null := make([]bool, len(rows))
		numeric := true
		for i, rec := range rows {
			v := strings.TrimSpace(rec[j])
			raw[i] = v
			if missingTokens[v] {
				null[i] = true
				raw[i] = ""
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}
		if !numeric {
			cols[j] = frame.NewCategorical(h, raw, null)
			continue
		}
		nums := make([]float64, len(rows))
		for i, v := range raw {
			if null[i] {
				nums[i] = math.NaN()
				continue
			}
			nums[i], _ = strconv.ParseFloat(v, 64)
		}
		cols[j] = frame.NewNumeric(h, nums)
	}
	return frame.New(cols...)
}

// ExportCSV writes a model matrix with its feature names and, when y is
// not nil, a trailing target column.
func ExportCSV(path string, names []string, X [][]float64, target string, y []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string(nil), names...)
	if y != nil {
		header = append(header, target)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, row := range X {
		rec := make([]string, 0, len(header))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if y != nil {
			rec = append(rec, strconv.FormatFloat(y[i], 'f', -1, 64))
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
