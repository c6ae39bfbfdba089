package isoforest

import (
	"math"
	"math/rand"
	"testing"
)

func clusterWithOutlier() [][]float64 {
	rows := make([][]float64, 0, 21)
	for i := 0; i < 20; i++ {
		f := float64(i)
		rows = append(rows, []float64{f * 0.01, f * 0.013, f * 0.017})
	}
	rows = append(rows, []float64{100, 100, 100})
	return rows
}

func TestFitPredictFlagsObviousOutlier(t *testing.T) {
	verdicts := NewDetector(Config{}).FitPredict(clusterWithOutlier())
	if len(verdicts) != 21 {
		t.Fatalf("verdicts = %d, want 21", len(verdicts))
	}
	if !verdicts[20] {
		t.Errorf("far point not flagged as outlier")
	}
	for i := 0; i < 20; i++ {
		if verdicts[i] {
			t.Errorf("cluster point %d flagged as outlier", i)
		}
	}
}

func TestFitPredictDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rows := make([][]float64, 60)
	for i := range rows {
		rows[i] = []float64{rng.Float64() * 30, rng.Float64() * 9000, rng.Float64() * 5000}
	}
	d := NewDetector(Config{})
	first := d.FitPredict(rows)
	second := d.FitPredict(rows)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d verdict differs between identical runs", i)
		}
	}
}

func TestFitPredictDegenerateBatches(t *testing.T) {
	d := NewDetector(Config{})

	if got := d.FitPredict(nil); len(got) != 0 {
		t.Errorf("empty batch verdicts = %v, want none", got)
	}
	if got := d.FitPredict([][]float64{{1, 2, 3}}); len(got) != 1 || got[0] {
		t.Errorf("single-row batch verdicts = %v, want [false]", got)
	}

	identical := [][]float64{{5, 5, 5}, {5, 5, 5}, {5, 5, 5}, {5, 5, 5}}
	for i, v := range d.FitPredict(identical) {
		if v {
			t.Errorf("identical row %d flagged as outlier", i)
		}
	}
}

func TestFitPredictContaminationShare(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	rows := make([][]float64, 100)
	for i := range rows {
		rows[i] = []float64{rng.Float64() * 30, rng.Float64() * 9000, rng.Float64() * 5000}
	}
	flagged := 0
	for _, v := range NewDetector(Config{}).FitPredict(rows) {
		if v {
			flagged++
		}
	}
	if flagged < 4 || flagged > 6 {
		t.Errorf("flagged %d of 100 rows, want about 5 at 5%% contamination", flagged)
	}
}

func TestStandardize(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 10}, {3, 10}}
	got := Standardize(rows)

	want := 1 / math.Sqrt(2.0/3.0)
	if math.Abs(got[0][0]+want) > 1e-12 || math.Abs(got[1][0]) > 1e-12 || math.Abs(got[2][0]-want) > 1e-12 {
		t.Errorf("column 0 = [%v %v %v], want [-%v 0 %v]", got[0][0], got[1][0], got[2][0], want, want)
	}
	for i := range got {
		if got[i][1] != 0 {
			t.Errorf("zero-variance column row %d = %v, want 0", i, got[i][1])
		}
	}
}

func TestAvgPathLength(t *testing.T) {
	if got := avgPathLength(0); got != 0 {
		t.Errorf("avgPathLength(0) = %v, want 0", got)
	}
	if got := avgPathLength(2); got != 1 {
		t.Errorf("avgPathLength(2) = %v, want 1", got)
	}
	if got := avgPathLength(256); math.Abs(got-10.24477) > 1e-4 {
		t.Errorf("avgPathLength(256) = %v, want about 10.24477", got)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"median interpolates", []float64{4, 1, 3, 2}, 0.5, 2.5},
		{"top of range", []float64{4, 1, 3, 2}, 1, 4},
		{"p95 of five", []float64{10, 20, 30, 40, 50}, 0.95, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.values, tt.q); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("percentile(%v, %v) = %v, want %v", tt.values, tt.q, got, tt.want)
			}
		})
	}
}
