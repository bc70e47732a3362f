// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package binge

import (
	"math"
	"math/rand"
)

// point is one observation in feature space.
type point []float64

// forest is an isolation forest over a fixed training set.
//
// Anomaly scoring follows Liu, Ting, Zhou (2008): trees isolate points by
// random axis-aligned splits, and points with short average path lengths
// score close to 1 while inliers score near 0.5.
type forest struct {
	trees      []*treeNode
	sampleSize int
}

type treeNode struct {
	// Internal node fields
	left, right *treeNode
	feature     int
	split       float64

	// Leaf field: number of training points that reached this node
	size int
}

// buildForest trains numTrees isolation trees over random subsamples of the
// data. All randomness flows from rng, so a fixed seed yields a fixed forest.
func buildForest(data []point, numTrees, sampleSize int, rng *rand.Rand) *forest {
	if sampleSize > len(data) {
		sampleSize = len(data)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	trees := make([]*treeNode, numTrees)
	for i := range trees {
		sample := subsample(data, sampleSize, rng)
		trees[i] = buildTree(sample, 0, maxDepth, rng)
	}
	return &forest{trees: trees, sampleSize: sampleSize}
}

// subsample draws sampleSize points without replacement.
func subsample(data []point, sampleSize int, rng *rand.Rand) []point {
	perm := rng.Perm(len(data))
	sample := make([]point, sampleSize)
	for i := 0; i < sampleSize; i++ {
		sample[i] = data[perm[i]]
	}
	return sample
}

// buildTree recursively partitions points by random splits until points are
// isolated, indistinguishable, or the depth limit is reached.
func buildTree(points []point, depth, maxDepth int, rng *rand.Rand) *treeNode {
	if len(points) <= 1 || depth >= maxDepth {
		return &treeNode{size: len(points)}
	}

	feature, lo, hi, ok := pickSplitFeature(points, rng)
	if !ok {
		// Every remaining point is identical; cannot split further.
		return &treeNode{size: len(points)}
	}

	split := lo + rng.Float64()*(hi-lo)

	var left, right []point
	for _, p := range points {
		if p[feature] < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	return &treeNode{
		feature: feature,
		split:   split,
		left:    buildTree(left, depth+1, maxDepth, rng),
		right:   buildTree(right, depth+1, maxDepth, rng),
	}
}

// pickSplitFeature chooses a random feature with non-zero spread. Starting
// from a random offset keeps the choice uniform while still deterministic
// under a fixed seed.
func pickSplitFeature(points []point, rng *rand.Rand) (feature int, lo, hi float64, ok bool) {
	dims := len(points[0])
	offset := rng.Intn(dims)
	for d := 0; d < dims; d++ {
		f := (offset + d) % dims
		lo, hi = featureRange(points, f)
		if hi > lo {
			return f, lo, hi, true
		}
	}
	return 0, 0, 0, false
}

func featureRange(points []point, feature int) (lo, hi float64) {
	lo, hi = points[0][feature], points[0][feature]
	for _, p := range points[1:] {
		v := p[feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// score returns the anomaly score of p in [0, 1]. Higher is more anomalous.
func (f *forest) score(p point) float64 {
	var total float64
	for _, t := range f.trees {
		total += pathLength(t, p, 0)
	}
	mean := total / float64(len(f.trees))

	c := averagePathLength(f.sampleSize)
	if c == 0 {
		return 0
	}
	return math.Pow(2, -mean/c)
}

// pathLength walks p down a tree. Leaves holding multiple points get the
// standard average-path-length adjustment for the unbuilt subtree.
func pathLength(n *treeNode, p point, depth float64) float64 {
	if n.left == nil {
		return depth + averagePathLength(n.size)
	}
	if p[n.feature] < n.split {
		return pathLength(n.left, p, depth+1)
	}
	return pathLength(n.right, p, depth+1)
}

// eulerMascheroni is the Euler-Mascheroni constant used in the harmonic
// number approximation.
const eulerMascheroni = 0.5772156649

// averagePathLength is c(n), the expected path length of an unsuccessful
// search in a binary search tree over n points.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + eulerMascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}
