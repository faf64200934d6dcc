// Package model implements the regression forest used to predict travel
// delays, its training pipeline and its artifact persistence.
package model

import (
	"math/rand"
	"sort"
)

// Node is a regression tree node. Fields are exported for gob encoding.
type Node struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

func (n *Node) predict(features []float64) float64 {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// buildTree grows a regression tree over the rows named by indices, splitting
// on the feature/threshold pair that minimizes the summed squared error.
func buildTree(x [][]float64, y []float64, indices []int, minLeaf int) *Node {
	sum := 0.0
	sumSq := 0.0
	for _, idx := range indices {
		sum += y[idx]
		sumSq += y[idx] * y[idx]
	}
	n := float64(len(indices))
	mean := sum / n

	// Stop on homogeneous targets or when a split cannot satisfy minLeaf.
	if len(indices) < 2*minLeaf || sumSq-sum*sum/n < 1e-12 {
		return &Node{Leaf: true, Value: mean}
	}

	feature, threshold, ok := bestSplit(x, y, indices, minLeaf)
	if !ok {
		return &Node{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, idx := range indices {
		if x[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(x, y, left, minLeaf),
		Right:     buildTree(x, y, right, minLeaf),
	}
}

// bestSplit scans every feature for the threshold with the lowest combined
// SSE. Candidate thresholds are midpoints between adjacent distinct values.
func bestSplit(x [][]float64, y []float64, indices []int, minLeaf int) (feature int, threshold float64, ok bool) {
	bestSSE := 0.0
	numFeatures := len(x[indices[0]])

	order := make([]int, len(indices))
	values := make([]float64, len(indices))
	targets := make([]float64, len(indices))
	prefixSum := make([]float64, len(indices)+1)
	prefixSumSq := make([]float64, len(indices)+1)

	for f := 0; f < numFeatures; f++ {
		copy(order, indices)
		// Tie-break on the row index so tree construction is deterministic.
		sort.Slice(order, func(a, b int) bool {
			va, vb := x[order[a]][f], x[order[b]][f]
			if va != vb {
				return va < vb
			}
			return order[a] < order[b]
		})

		for i, idx := range order {
			values[i] = x[idx][f]
			targets[i] = y[idx]
		}
		for i, t := range targets {
			prefixSum[i+1] = prefixSum[i] + t
			prefixSumSq[i+1] = prefixSumSq[i] + t*t
		}

		total := len(order)
		totalSum := prefixSum[total]
		totalSumSq := prefixSumSq[total]

		for i := minLeaf; i <= total-minLeaf; i++ {
			if values[i-1] == values[i] {
				continue
			}

			leftN := float64(i)
			rightN := float64(total - i)
			leftSum := prefixSum[i]
			rightSum := totalSum - leftSum
			leftSSE := prefixSumSq[i] - leftSum*leftSum/leftN
			rightSSE := (totalSumSq - prefixSumSq[i]) - rightSum*rightSum/rightN
			sse := leftSSE + rightSSE

			if !ok || sse < bestSSE {
				ok = true
				bestSSE = sse
				feature = f
				threshold = (values[i-1] + values[i]) / 2
			}
		}
	}

	return feature, threshold, ok
}

// bootstrap draws n row indices with replacement.
func bootstrap(rng *rand.Rand, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}
