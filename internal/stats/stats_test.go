package stats

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

func TestZScoresKnownValues(t *testing.T) {
	z, degenerate := ZScores([]float64{1, 2, 3})
	if degenerate {
		t.Fatal("series flagged degenerate")
	}
	want := []float64{-1.2247, 0, 1.2247}
	for i := range want {
		if !almostEqual(z[i], want[i], 1e-3) {
			t.Errorf("z[%d] = %v, want %v", i, z[i], want[i])
		}
	}
}

func TestZScoresNormalizes(t *testing.T) {
	z, _ := ZScores([]float64{4.2, -1.5, 0.3, 9.9, 2.2, 2.2})
	if m := Mean(z); !almostEqual(m, 0, 1e-9) {
		t.Errorf("mean of z = %v, want 0", m)
	}
	if sd := StdDev(z); !almostEqual(sd, 1, 1e-9) {
		t.Errorf("stddev of z = %v, want 1", sd)
	}
}

func TestZScoresShiftScaleInvariance(t *testing.T) {
	base := []float64{0.5, 1.5, 3.0, -2.0, 4.5}
	ref, _ := ZScores(base)

	shifted := make([]float64, len(base))
	scaled := make([]float64, len(base))
	for i, v := range base {
		shifted[i] = v + 100
		scaled[i] = v * 7.5
	}

	zs, _ := ZScores(shifted)
	zk, _ := ZScores(scaled)
	for i := range ref {
		if !almostEqual(zs[i], ref[i], 1e-9) {
			t.Errorf("shifted z[%d] = %v, want %v", i, zs[i], ref[i])
		}
		if !almostEqual(zk[i], ref[i], 1e-9) {
			t.Errorf("scaled z[%d] = %v, want %v", i, zk[i], ref[i])
		}
	}
}

func TestZScoresDegenerate(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
	}{
		{"constant", []float64{5, 5, 5, 5}},
		{"single", []float64{3}},
		{"all NaN", []float64{math.NaN(), math.NaN()}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, degenerate := ZScores(tt.in)
			if !degenerate {
				t.Fatal("series not flagged degenerate")
			}
			for i, v := range z {
				if !math.IsNaN(v) {
					t.Errorf("z[%d] = %v, want NaN", i, v)
				}
			}
		})
	}
}

func TestZScoresSkipsMissing(t *testing.T) {
	z, degenerate := ZScores([]float64{1, math.NaN(), 2, 3})
	if degenerate {
		t.Fatal("series flagged degenerate")
	}
	if !math.IsNaN(z[1]) {
		t.Errorf("z[1] = %v, want NaN", z[1])
	}
	// The finite entries must match z-scores of {1, 2, 3} alone.
	want := []float64{-1.2247, 0, 1.2247}
	for i, idx := range []int{0, 2, 3} {
		if !almostEqual(z[idx], want[i], 1e-3) {
			t.Errorf("z[%d] = %v, want %v", idx, z[idx], want[i])
		}
	}
}

func TestStandardizeColumnsIndependent(t *testing.T) {
	data := [][]float64{
		{1, 10, 7},
		{2, 20, 7},
		{3, 30, 7},
	}
	z, degenerate := Standardize(data)

	want := []float64{-1.2247, 0, 1.2247}
	for j := 0; j < 2; j++ {
		for i := range want {
			if !almostEqual(z[i][j], want[i], 1e-3) {
				t.Errorf("z[%d][%d] = %v, want %v", i, j, z[i][j], want[i])
			}
		}
	}
	for i := range z {
		if !math.IsNaN(z[i][2]) {
			t.Errorf("z[%d][2] = %v, want NaN", i, z[i][2])
		}
	}
	if len(degenerate) != 1 || degenerate[0] != 2 {
		t.Errorf("degenerate = %v, want [2]", degenerate)
	}
}

func TestStandardizeEmpty(t *testing.T) {
	z, degenerate := Standardize(nil)
	if z != nil || degenerate != nil {
		t.Errorf("Standardize(nil) = %v, %v, want nil, nil", z, degenerate)
	}
}

func TestMinMax(t *testing.T) {
	data := [][]float64{
		{3, math.NaN()},
		{-1.5, 8},
	}
	min, max, ok := MinMax(data)
	if !ok {
		t.Fatal("ok = false")
	}
	if min != -1.5 || max != 8 {
		t.Errorf("min, max = %v, %v, want -1.5, 8", min, max)
	}

	if _, _, ok := MinMax([][]float64{{math.NaN()}}); ok {
		t.Error("all-NaN matrix reported ok")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, math.NaN(), 4, 6})
	if s.N != 3 || s.Missing != 1 {
		t.Errorf("N, Missing = %d, %d, want 3, 1", s.N, s.Missing)
	}
	if !almostEqual(s.Mean, 4, 1e-9) {
		t.Errorf("Mean = %v, want 4", s.Mean)
	}
	if !almostEqual(s.StdDev, math.Sqrt(8.0/3.0), 1e-9) {
		t.Errorf("StdDev = %v, want %v", s.StdDev, math.Sqrt(8.0/3.0))
	}
	if s.Min != 2 || s.Max != 6 {
		t.Errorf("Min, Max = %v, %v, want 2, 6", s.Min, s.Max)
	}
}

func TestSummaryJSON(t *testing.T) {
	data, err := json.Marshal(Summarize([]float64{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"mean":2`) {
		t.Errorf("expected mean 2 in %s", data)
	}

	// An all-missing series must still encode; NaN becomes null.
	data, err = json.Marshal(Summarize([]float64{math.NaN()}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"mean":null`) {
		t.Errorf("expected null mean in %s", data)
	}
}
