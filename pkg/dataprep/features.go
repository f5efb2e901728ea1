package dataprep

import "fmt"

// FeatureSelect selects columns by indices.
func FeatureSelect(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		selected := make([]float64, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out[i] = selected
	}
	return out
}

// IndicesOf maps feature names to their positions in names.
func IndicesOf(names, want []string) ([]int, error) {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}
	out := make([]int, len(want))
	for i, w := range want {
		p, ok := pos[w]
		if !ok {
			return nil, fmt.Errorf("dataprep: unknown feature %q", w)
		}
		out[i] = p
	}
	return out, nil
}

// SelectByName selects the named columns of X.
func SelectByName(X [][]float64, names, want []string) ([][]float64, error) {
	idx, err := IndicesOf(names, want)
	if err != nil {
		return nil, err
	}
	return FeatureSelect(X, idx), nil
}
