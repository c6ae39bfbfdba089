// Package isoforest flags outliers in a numeric feature matrix with an
// isolation forest: an ensemble of randomized partitioning trees in which
// anomalous points isolate at shallower depth than normal ones. Fitting is
// batch-local and seeded, so identical input always yields identical flags.
package isoforest

import (
	"math"
	"math/rand"
	"sort"
)

const (
	defaultTrees     = 100
	defaultSubsample = 256

	// DefaultContamination is the expected fraction of rows flagged anomalous.
	DefaultContamination = 0.05
	// DefaultSeed fixes the tree-building randomness for reproducible runs.
	DefaultSeed = 42

	eulerGamma = 0.5772156649015329
)

// Config tunes the ensemble. Zero values fall back to the defaults above.
type Config struct {
	Trees         int
	Subsample     int
	Contamination float64
	Seed          int64
}

// Detector scores feature matrices. Safe to reuse across batches; every
// FitPredict call builds a fresh forest from the configured seed.
type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	if cfg.Trees <= 0 {
		cfg.Trees = defaultTrees
	}
	if cfg.Subsample <= 0 {
		cfg.Subsample = defaultSubsample
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 1 {
		cfg.Contamination = DefaultContamination
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	return &Detector{cfg: cfg}
}

// FitPredict standardizes the matrix, fits a forest on it and returns one
// verdict per row. A row is an outlier when its anomaly score lies strictly
// above the (1 - contamination) percentile of the batch scores, so degenerate
// batches where every score ties produce zero outliers. Fewer than two rows
// never flag anything.
func (d *Detector) FitPredict(rows [][]float64) []bool {
	verdicts := make([]bool, len(rows))
	if len(rows) < 2 {
		return verdicts
	}
	scores := d.scores(Standardize(rows))
	threshold := percentile(scores, 1-d.cfg.Contamination)
	for i, s := range scores {
		if s > threshold {
			verdicts[i] = true
		}
	}
	return verdicts
}

// scores computes the anomaly score s(x) = 2^(-E[h(x)]/c(psi)) for every row,
// averaging path lengths over the ensemble.
func (d *Detector) scores(rows [][]float64) []float64 {
	n := len(rows)
	psi := d.cfg.Subsample
	if psi > n {
		psi = n
	}
	limit := int(math.Ceil(math.Log2(float64(psi))))

	rng := rand.New(rand.NewSource(d.cfg.Seed))
	sums := make([]float64, n)
	for t := 0; t < d.cfg.Trees; t++ {
		idx := rng.Perm(n)[:psi]
		root := grow(rng, rows, idx, 0, limit)
		for i, row := range rows {
			sums[i] += pathLength(root, row, 0)
		}
	}

	norm := avgPathLength(psi)
	out := make([]float64, n)
	for i, sum := range sums {
		mean := sum / float64(d.cfg.Trees)
		out[i] = math.Pow(2, -mean/norm)
	}
	return out
}

// node is a single isolation-tree node. Leaves have no children and remember
// how many sampled points they absorbed.
type node struct {
	left    *node
	right   *node
	feature int
	split   float64
	size    int
}

// grow builds an isolation tree over the sampled row indexes. A node becomes
// a leaf at the depth limit, with a single point, or when no feature varies
// within the sample.
func grow(rng *rand.Rand, rows [][]float64, idx []int, depth, limit int) *node {
	nd := &node{size: len(idx)}
	if depth >= limit || len(idx) <= 1 {
		return nd
	}
	features := splittable(rows, idx)
	if len(features) == 0 {
		return nd
	}
	f := features[rng.Intn(len(features))]
	lo, hi := bounds(rows, idx, f)
	split := lo + rng.Float64()*(hi-lo)

	var left, right []int
	for _, i := range idx {
		if rows[i][f] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nd
	}
	nd.feature = f
	nd.split = split
	nd.left = grow(rng, rows, left, depth+1, limit)
	nd.right = grow(rng, rows, right, depth+1, limit)
	return nd
}

// splittable lists the features whose values actually vary within the sample.
func splittable(rows [][]float64, idx []int) []int {
	var features []int
	for f := 0; f < len(rows[idx[0]]); f++ {
		lo, hi := bounds(rows, idx, f)
		if lo < hi {
			features = append(features, f)
		}
	}
	return features
}

func bounds(rows [][]float64, idx []int, f int) (lo, hi float64) {
	lo, hi = rows[idx[0]][f], rows[idx[0]][f]
	for _, i := range idx[1:] {
		v := rows[i][f]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// pathLength walks x down the tree. Leaves holding more than one point add
// the expected remaining depth c(size) for an unbuilt subtree.
func pathLength(nd *node, x []float64, depth float64) float64 {
	if nd.left == nil {
		return depth + avgPathLength(nd.size)
	}
	if x[nd.feature] < nd.split {
		return pathLength(nd.left, x, depth+1)
	}
	return pathLength(nd.right, x, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search over n points: 2(ln(n-1) + gamma) - 2(n-1)/n.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

// percentile returns the q-quantile (0..1) of values with linear
// interpolation between the two nearest order statistics.
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
