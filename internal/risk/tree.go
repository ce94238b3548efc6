package risk

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted regression tree. Leaves carry the mean
// target of their partition; internal nodes route on feature <= threshold.
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// regressionTree is a CART-style regressor splitting on the largest
// sum-of-squares reduction. With MaxFeatures set, each split considers a
// random subset of columns drawn from rng, which makes the tree suitable as
// a forest member.
type regressionTree struct {
	MaxDepth    int       `json:"max_depth"`
	MinLeaf     int       `json:"min_leaf"`
	MaxFeatures int       `json:"max_features,omitempty"`
	Root        *treeNode `json:"root,omitempty"`

	rng *rand.Rand
}

func (t *regressionTree) fit(x [][]float64, y []float64, idx []int) {
	t.Root = t.grow(x, y, idx, 0)
}

func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth int) *treeNode {
	if depth >= t.MaxDepth || len(idx) < 2*t.MinLeaf {
		return &treeNode{Leaf: true, Value: meanAt(y, idx)}
	}

	feature, threshold, ok := t.bestSplit(x, y, idx)
	if !ok {
		return &treeNode{Leaf: true, Value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(x, y, left, depth+1),
		Right:     t.grow(x, y, right, depth+1),
	}
}

// bestSplit scans candidate features with prefix sums, so each feature costs
// one sort plus one linear pass.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	cols := len(x[idx[0]])
	candidates := t.candidateFeatures(cols)

	total := 0.0
	totalSq := 0.0
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	baseSSE := totalSq - total*total/float64(n)

	bestSSE := baseSSE
	sorted := make([]int, n)

	for _, f := range candidates {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			if x[sorted[a]][f] != x[sorted[b]][f] {
				return x[sorted[a]][f] < x[sorted[b]][f]
			}
			return sorted[a] < sorted[b]
		})

		sumL, sumSqL := 0.0, 0.0
		for k := 1; k < n; k++ {
			yi := y[sorted[k-1]]
			sumL += yi
			sumSqL += yi * yi

			// No threshold exists between equal values.
			if x[sorted[k-1]][f] == x[sorted[k]][f] {
				continue
			}
			if k < t.MinLeaf || n-k < t.MinLeaf {
				continue
			}

			sumR := total - sumL
			sumSqR := totalSq - sumSqL
			sse := (sumSqL - sumL*sumL/float64(k)) + (sumSqR - sumR*sumR/float64(n-k))
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = f
				threshold = 0.5 * (x[sorted[k-1]][f] + x[sorted[k]][f])
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// candidateFeatures returns all columns, or a random MaxFeatures-sized
// subset in ascending order so the scan stays deterministic per rng state.
func (t *regressionTree) candidateFeatures(cols int) []int {
	if t.MaxFeatures <= 0 || t.MaxFeatures >= cols || t.rng == nil {
		all := make([]int, cols)
		for j := range all {
			all[j] = j
		}
		return all
	}
	perm := t.rng.Perm(cols)[:t.MaxFeatures]
	sort.Ints(perm)
	return perm
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sqrtFeatures(cols int) int {
	k := int(math.Sqrt(float64(cols)))
	if k < 1 {
		k = 1
	}
	return k
}
