package isoforest

import "math"

// Standardize centers every column on its mean and divides by the population
// standard deviation. Zero-variance columns keep a scale of 1, so a constant
// feature collapses to zeros instead of NaN.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	means := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}

	scales := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / float64(len(rows)))
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, dims)
		for j, v := range row {
			out[i][j] = (v - means[j]) / scales[j]
		}
	}
	return out
}
