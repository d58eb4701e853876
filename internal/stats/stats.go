// Package stats holds the z-score transform and the summary statistics
// behind auto color scaling. All statistics skip non-finite values so a
// missing sample never erases its subject; the population (n, not n-1)
// standard deviation is used throughout.
package stats

import (
	"encoding/json"
	"math"
)

// Mean returns the mean of the finite values in xs, NaN if there are none.
func Mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range xs {
		if isFinite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation of the finite values in
// xs, NaN if there are none.
func StdDev(xs []float64) float64 {
	m := Mean(xs)
	if math.IsNaN(m) {
		return math.NaN()
	}
	sum, n := 0.0, 0
	for _, v := range xs {
		if isFinite(v) {
			d := v - m
			sum += d * d
			n++
		}
	}
	return math.Sqrt(sum / float64(n))
}

// ZScores standardizes one series: (x - mean) / stddev. Non-finite inputs
// pass through as NaN. A degenerate series (zero variance, or nothing
// finite) comes back all-NaN; the second return reports it so callers can
// warn by name instead of discovering a blank row later.
func ZScores(xs []float64) ([]float64, bool) {
	m := Mean(xs)
	sd := StdDev(xs)
	z := make([]float64, len(xs))
	if !isFinite(sd) || sd == 0 {
		for i := range z {
			z[i] = math.NaN()
		}
		return z, true
	}
	for i, v := range xs {
		if isFinite(v) {
			z[i] = (v - m) / sd
		} else {
			z[i] = math.NaN()
		}
	}
	return z, false
}

// Standardize z-scores every column of a row-major matrix independently and
// returns the indices of degenerate columns.
func Standardize(data [][]float64) ([][]float64, []int) {
	if len(data) == 0 {
		return nil, nil
	}
	rows, cols := len(data), len(data[0])

	z := make([][]float64, rows)
	for i := range z {
		z[i] = make([]float64, cols)
	}

	var degenerate []int
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = data[i][j]
		}
		zcol, bad := ZScores(col)
		if bad {
			degenerate = append(degenerate, j)
		}
		for i := 0; i < rows; i++ {
			z[i][j] = zcol[i]
		}
	}
	return z, degenerate
}

// MinMax scans a matrix for its finite extrema. ok is false when no finite
// value exists (single-row input standardizes to all-NaN, for example).
func MinMax(data [][]float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for i := range data {
		for _, v := range data[i] {
			if !isFinite(v) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			ok = true
		}
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}

// Summary describes one series for the inspect listing.
type Summary struct {
	N       int `json:"n"`
	Missing int `json:"missing"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// MarshalJSON writes non-finite statistics as null; JSON has no NaN.
func (s Summary) MarshalJSON() ([]byte, error) {
	type summaryJSON struct {
		N       int      `json:"n"`
		Missing int      `json:"missing"`
		Mean    *float64 `json:"mean"`
		StdDev  *float64 `json:"stddev"`
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
	}
	opt := func(v float64) *float64 {
		if !isFinite(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(summaryJSON{s.N, s.Missing, opt(s.Mean), opt(s.StdDev), opt(s.Min), opt(s.Max)})
}

// Summarize computes the summary statistics of one series.
func Summarize(xs []float64) Summary {
	s := Summary{
		Mean:   Mean(xs),
		StdDev: StdDev(xs),
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
	}
	for _, v := range xs {
		if !isFinite(v) {
			s.Missing++
			continue
		}
		s.N++
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if s.N == 0 {
		s.Min, s.Max = math.NaN(), math.NaN()
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
