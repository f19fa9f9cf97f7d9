package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the q-th quantile (0..1) of vals using linear
// interpolation, matching the classical boxplot quartile computation.
// It returns 0 for an empty slice.
func Quantile(q float64, vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.LinInterp, sorted, nil)
}

// IQROutliers applies the 1.5×IQR boxplot rule to vals and returns the
// number of values outside [Q1 - 1.5·IQR, Q3 + 1.5·IQR] together with the
// computed quartiles.
func IQROutliers(vals []float64) (outliers int, q1, q3 float64) {
	if len(vals) == 0 {
		return 0, 0, 0
	}
	q1 = Quantile(0.25, vals)
	q3 = Quantile(0.75, vals)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	for _, v := range vals {
		if v < lower || v > upper {
			outliers++
		}
	}
	return outliers, q1, q3
}

// Correlation returns the Pearson correlation between two numeric columns
// over the rows where both cells are present. The second return value is
// false when fewer than two such rows exist or either column is not
// numeric.
func Correlation(a, b *Column) (float64, bool) {
	if !a.IsNumeric() || !b.IsNumeric() || a.Len() != b.Len() {
		return 0, false
	}

	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.nulls[i] || b.nulls[i] {
			continue
		}
		xs = append(xs, a.floats[i])
		ys = append(ys, b.floats[i])
	}
	if len(xs) < 2 {
		return 0, false
	}

	r := stat.Correlation(xs, ys, nil)
	return r, !isNaN(r)
}

// Min returns the smallest value in vals, or 0 for an empty slice
func Min(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value in vals, or 0 for an empty slice
func Max(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func isNaN(v float64) bool {
	return v != v
}

// sortValueCounts orders by descending count, ties broken by value
func sortValueCounts(vcs []ValueCount) {
	sort.Slice(vcs, func(i, j int) bool {
		if vcs[i].Count != vcs[j].Count {
			return vcs[i].Count > vcs[j].Count
		}
		return vcs[i].Value < vcs[j].Value
	})
}
