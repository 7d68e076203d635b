package sylva

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/tree"
)

/*
PruneMethod selects how the pruner estimates the error of a node from
its training statistics when no validation table is given.
*/
type PruneMethod int

const (
	// PrunePessimistic adds a fixed increment to the observed error,
	// clipped to the node's weight.
	PrunePessimistic PruneMethod = iota
	// PruneConfidence estimates the error as an upper confidence
	// bound on the observed error rate, computed from a normal
	// distribution quantile.
	PruneConfidence
)

/*
PruneConfig holds the parameters of a Prune call.
*/
type PruneConfig struct {
	// Method selects the analytic error estimator. It is ignored
	// when a validation table is given.
	Method PruneMethod
	// Param is the parameter of the estimator: the increment for
	// PrunePessimistic, the confidence level for PruneConfidence.
	Param float64
	// MaxHeight bounds the height of the pruned tree. 0 collapses
	// the tree to a leaf; negative values leave the height
	// unbounded.
	MaxHeight int
	// CheckLargestBranch also considers replacing every test node
	// by its largest branch when pruning against a validation
	// table.
	CheckLargestBranch bool
	// SelectionThreshold, when positive on a two-class tree,
	// collapses every node whose first-class relative frequency
	// falls below it.
	SelectionThreshold float64
	// Validation, when set, makes the pruner re-score the tree
	// against this held-out table instead of using an analytic
	// estimator. The table's tuple slice is reordered in place.
	Validation *dataset.Table
}

/*
DefaultPruneConfig returns the prune configuration used when the
caller has no opinion: pessimistic pruning with increment 0.5 and
unbounded height.
*/
func DefaultPruneConfig() PruneConfig {
	return PruneConfig{
		Method:    PrunePessimistic,
		Param:     0.5,
		MaxHeight: -1,
	}
}

/*
Prune simplifies a grown tree in place, collapsing every subtree that
does not predict measurably better than the leaf that would replace
it. Without a validation table the decision compares analytic error
estimates of the training statistics; with one, the tree is re-scored
against the held-out tuples and the realized errors decide. An error
is returned if the tree is empty, the validation table does not match
the tree's features, or the configuration is unusable.
*/
func Prune(t *tree.Tree, cfg PruneConfig) error {
	if t.Root == nil {
		return fmt.Errorf("pruning tree: tree is empty")
	}
	p := &pruner{
		features: t.Features(),
		target:   t.Target(),
		classes:  t.Classes(),
		cfg:      cfg,
	}
	height := cfg.MaxHeight
	if height < 0 {
		height = math.MaxInt
	}
	if cfg.Validation != nil {
		if got, want := len(cfg.Validation.Features()), len(t.Features()); got != want {
			return fmt.Errorf("pruning tree: validation table has %d features, tree refers to %d", got, want)
		}
		cfg.Validation.ResetXWeights()
		p.pruneData(t.Root, cfg.Validation.Tuples(), height, false)
		t.Refresh()
		return nil
	}
	est, err := newErrorEstimator(cfg)
	if err != nil {
		return fmt.Errorf("pruning tree: %v", err)
	}
	p.est = est
	p.pruneAnalytic(t.Root, height)
	t.Refresh()
	return nil
}

// errorEstimator maps a node's weight and observed error to an
// estimated true error.
type errorEstimator func(n, e float64) float64

func newErrorEstimator(cfg PruneConfig) (errorEstimator, error) {
	switch cfg.Method {
	case PrunePessimistic:
		return pessimisticEstimator(cfg.Param), nil
	case PruneConfidence:
		if cfg.Param <= 0 || cfg.Param >= 1 {
			return nil, fmt.Errorf("confidence level %g outside (0, 1)", cfg.Param)
		}
		return confidenceEstimator(cfg.Param), nil
	}
	return nil, fmt.Errorf("unknown pruning method %d", cfg.Method)
}

// pessimisticEstimator adds a fixed increment to the observed error,
// never estimating more errors than there are cases.
func pessimisticEstimator(incr float64) errorEstimator {
	return func(n, e float64) float64 {
		est := e + incr
		if est > n {
			est = n
		}
		return est
	}
}

// confidenceEstimator estimates the error as the upper bound of a
// confidence interval on the observed error rate, the way C4.5 does:
// the bound comes from a normal approximation of the binomial, with
// exact interpolation when the observed error count lies between 0
// and 1.
func confidenceEstimator(level float64) errorEstimator {
	z := distuv.UnitNormal.Quantile(1 - level)
	z2 := z * z
	var add func(n, e float64) float64
	add = func(n, e float64) float64 {
		if e < 1 {
			base := n * (1 - math.Pow(level, 1/n))
			if e <= 0 {
				return base
			}
			return base + e*(add(n, 1)-base)
		}
		if e+0.5 >= n {
			return 0.67 * (n - e)
		}
		p := (e + 0.5 + z2/2 + z*math.Sqrt((e+0.5)*(1-(e+0.5)/n)+z2/4)) / (n + z2)
		return n*p - e
	}
	return func(n, e float64) float64 {
		if n <= 0 {
			return e
		}
		est := e + add(n, e)
		if est > n {
			est = n
		}
		return est
	}
}

// pruner carries the state of one Prune call.
type pruner struct {
	features []*feature.Feature
	target   int
	classes  int
	cfg      PruneConfig
	est      errorEstimator
}

// pruneAnalytic prunes a subtree bottom-up by comparing error
// estimates of the training statistics, collapsing the node whenever
// the leaf estimate is not worse than the summed estimate of its
// branches, the height budget runs out, or the node is not selected.
// It returns the estimated error of what remains.
func (p *pruner) pruneAnalytic(n *tree.Node, height int) float64 {
	leafEst := p.est(n.Frq, n.Err)
	if n.IsLeaf() {
		return leafEst
	}
	if height <= 0 || !p.selected(n) {
		p.collapse(n)
		return leafEst
	}
	var subEst float64
	for s := range n.Slots {
		if n.Slots[s].Owned() {
			subEst += p.pruneAnalytic(n.Slots[s].Child, height-1)
		}
	}
	if notWorse(leafEst, subEst) {
		p.collapse(n)
		return leafEst
	}
	return subEst
}

// selected applies the optional two-class selection filter: a node
// passes while the relative frequency of the first class reaches the
// configured threshold.
func (p *pruner) selected(n *tree.Node) bool {
	if p.cfg.SelectionThreshold <= 0 || p.classes != 2 {
		return true
	}
	if n.Frq <= 0 || len(n.Frqs) < 1 {
		return false
	}
	return n.Frqs[0]/n.Frq >= p.cfg.SelectionThreshold
}

// collapse turns a test node into a leaf. For discrete targets the
// class frequencies of all leaves below it are aggregated, skipping
// linked slots so no frequency is counted twice; for metric targets
// the node's own mean and error already describe the collapsed leaf
// and the branches are simply dropped.
func (p *pruner) collapse(n *tree.Node) {
	if n.IsLeaf() {
		return
	}
	if p.classes > 0 {
		frqs := make([]float64, p.classes)
		gatherFrequencies(n, frqs)
		n.Frqs = frqs
		n.Frq = 0
		var best float64
		n.Cls = 0
		for j, f := range frqs {
			n.Frq += f
			if f > best {
				best = f
				n.Cls = j
			}
		}
		n.Err = n.Frq - best
	}
	n.Attr = p.target
	n.Cut = 0
	n.Slots = nil
}

func gatherFrequencies(n *tree.Node, frqs []float64) {
	if n.IsLeaf() {
		for j, f := range n.Frqs {
			if j < len(frqs) {
				frqs[j] += f
			}
		}
		return
	}
	for _, s := range n.Slots {
		if s.Owned() {
			gatherFrequencies(s.Child, frqs)
		}
	}
}

// pruneData prunes a subtree against a window of validation tuples.
// The node's statistics are re-derived from the window, its branches
// are pruned recursively against their groups, and the node then
// keeps whichever of {collapsed leaf, pruned subtree, largest branch
// alone} realizes the least error on the window. With evalOnly set
// nothing is mutated and only the achievable error is computed; the
// largest-branch check uses this to cost a candidate before
// committing to it. The realized error of what remains is returned.
func (p *pruner) pruneData(n *tree.Node, win []*dataset.Tuple, height int, evalOnly bool) float64 {
	ls := leafStats(win, p.target, p.classes)
	if !evalOnly {
		n.Frq, n.Err, n.Cls, n.Mean = ls.Frq, ls.Err, ls.Cls, ls.Mean
		if p.classes > 0 {
			n.Frqs = ls.Frqs
		}
	}
	if n.IsLeaf() {
		return ls.Err
	}
	if ls.Frq <= 0 || height <= 0 {
		if !evalOnly {
			p.toLeaf(n)
		}
		return ls.Err
	}
	f := p.features[n.Attr]
	if !evalOnly && !f.Metric() {
		// the live domain may be larger than the one seen growing
		n.Widen(f.ValueCount())
	}
	var subErr float64
	forEachBranch(n, f, win, func(s int, branch []*dataset.Tuple) {
		subErr += p.pruneData(n.Slots[s].Child, branch, height-1, evalOnly)
	})
	brErr := math.Inf(1)
	largest := p.largestBranch(n)
	if p.cfg.CheckLargestBranch && largest >= 0 {
		// the grafted branch would take over this node's level, so it
		// is costed with this node's height budget
		brErr = p.pruneData(n.Slots[largest].Child, win, height, true)
	}
	if notWorse(ls.Err, math.Min(subErr, brErr)) {
		if !evalOnly {
			p.toLeaf(n)
		}
		return ls.Err
	}
	if brErr < subErr {
		if !evalOnly {
			child := n.Slots[largest].Child
			p.pruneData(child, win, height, false)
			*n = *child
		}
		return brErr
	}
	return subErr
}

// toLeaf drops the branches of a node whose leaf statistics have
// already been set from validation data.
func (p *pruner) toLeaf(n *tree.Node) {
	n.Attr = p.target
	n.Cut = 0
	n.Slots = nil
}

// largestBranch returns the slot index of the owned child carrying
// the most weight, -1 if the node owns none.
func (p *pruner) largestBranch(n *tree.Node) int {
	best := -1
	for s := range n.Slots {
		if !n.Slots[s].Owned() {
			continue
		}
		if best < 0 || n.Slots[s].Child.Frq > n.Slots[best].Child.Frq {
			best = s
		}
	}
	return best
}
