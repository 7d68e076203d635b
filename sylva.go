/*
Package sylva grows decision and regression trees from tables of
weighted tuples and prunes them to control overfitting.

Growing recursively partitions the table by feature tests: at every
node each usable feature is scored with a measure from the measure
package, the best partition is materialized as a test node, and the
tuple window is regrouped in place per branch. Tuples with an unknown
value for the tested feature have their mass spread over all branches
in proportion to the branches' known weight.

Pruning collapses subtrees into leaves either with an analytic error
estimator (pessimistic or confidence-level) or against a held-out
validation table.

Growing and pruning are single-threaded, synchronous and own the
table's tuple slice for the duration of the call.
*/
package sylva

import (
	"github.com/pbanos/sylva/measure"
)

/*
SplitMethod selects how the split evaluator partitions the values of
a discrete feature.
*/
type SplitMethod int

const (
	// SplitPlain gives every feature value its own branch.
	SplitPlain SplitMethod = iota
	// SplitBinary evaluates every value against the rest and keeps
	// the best such two-way partition.
	SplitBinary
	// SplitSubsets greedily merges value subsets while the worth
	// of the partition improves.
	SplitSubsets
	// SplitBinarySubsets greedily merges value subsets until
	// exactly two remain.
	SplitBinarySubsets
)

/*
GrowConfig holds the parameters of a Grow call.
*/
type GrowConfig struct {
	// Measure scores candidate partitions for discrete targets.
	Measure measure.Measure
	// MetricMeasure scores candidate partitions for metric
	// targets.
	MetricMeasure measure.MetricMeasure
	// Params carries the optional parameters of the measure.
	Params measure.Params
	// Method selects the partition strategy for discrete
	// features.
	Method SplitMethod
	// MinWorth is the worth a partition must reach for the node to
	// be split at all.
	MinWorth float64
	// MaxHeight bounds the height of the grown tree. 0 grows a
	// single leaf; negative values leave the height unbounded.
	MaxHeight int
	// MinCount is the minimum weight a branch must carry; nodes
	// with less than twice this weight are not split.
	MinCount float64
	// MinError is the node error at or below which a node is not
	// split further.
	MinError float64
	// KeepGrown keeps freshly grown subtrees even when they are
	// not measurably better than the leaf they replaced.
	KeepGrown bool
}

/*
DefaultGrowConfig returns the grow configuration used when the
caller has no opinion: information gain, SSE reduction for metric
targets, plain splits, unbounded height and a minimum branch weight
of 2.
*/
func DefaultGrowConfig() GrowConfig {
	return GrowConfig{
		Measure:       measure.InfoGain,
		MetricMeasure: measure.SSEReduction,
		Method:        SplitPlain,
		MaxHeight:     -1,
		MinCount:      2,
	}
}

// errEps is the relative tolerance of error comparisons: a leaf
// whose error is within this fraction of a subtree's error counts
// as "not worse" than the subtree.
const errEps = 1e-10

func notWorse(a, b float64) bool {
	return a <= b*(1+errEps)
}
