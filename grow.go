package sylva

import (
	"fmt"
	"math"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/measure"
	"github.com/pbanos/sylva/stats"
	"github.com/pbanos/sylva/tree"
)

/*
Grow takes a dataset table, the index of the target feature on it and
a grow configuration, and grows a tree predicting the target from the
table's tuples. The table's tuple slice is reordered in place while
growing. An error is returned if the target index is out of range or
the target feature has an unusable domain.
*/
func Grow(tbl *dataset.Table, target int, cfg GrowConfig) (*tree.Tree, error) {
	t, err := tree.New(tbl.Features(), target)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	g, err := newGrower(tbl, target, cfg)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	height := cfg.MaxHeight
	if height < 0 {
		height = math.MaxInt
	}
	tbl.ResetXWeights()
	root, _ := g.grow(tbl.Tuples(), height)
	t.Root = root
	t.Refresh()
	return t, nil
}

// grower carries the state of one Grow call: the table, the target,
// the configuration and the scratch statistics tables reused across
// sibling feature evaluations.
type grower struct {
	features []*feature.Feature
	target   int
	tf       *feature.Feature
	classes  int
	cfg      GrowConfig
	used     []bool
	// cur is the table the evaluator fills for the feature under
	// evaluation; best holds the table of the best feature so far.
	// The two are exchanged whenever a feature takes the lead.
	cur, best   *stats.FrequencyTable
	vcur, vbest *stats.VarianceTable
}

func newGrower(tbl *dataset.Table, target int, cfg GrowConfig) (*grower, error) {
	features := tbl.Features()
	if target < 0 || target >= len(features) {
		return nil, fmt.Errorf("no feature with index %d to predict", target)
	}
	tf := features[target]
	if !tf.Metric() && tf.ValueCount() < 1 {
		return nil, fmt.Errorf("discrete target %s has an empty domain", tf.Name())
	}
	maxCard := 2
	for _, f := range features {
		if f.ValueCount() > maxCard {
			maxCard = f.ValueCount()
		}
	}
	g := &grower{
		features: features,
		target:   target,
		tf:       tf,
		classes:  tf.ValueCount(),
		cfg:      cfg,
		used:     make([]bool, len(features)),
	}
	if tf.Metric() {
		g.classes = 0
		g.vcur = stats.NewVarianceTable(maxCard)
		g.vbest = stats.NewVarianceTable(maxCard)
	} else {
		g.cur = stats.NewFrequencyTable(maxCard, g.classes)
		g.best = stats.NewFrequencyTable(maxCard, g.classes)
	}
	return g, nil
}

// leafStats builds a leaf node from the target statistics of a tuple
// window, using execution weights. Growing and pruning both derive
// their leaves this way.
func leafStats(win []*dataset.Tuple, target, classes int) *tree.Node {
	n := &tree.Node{Attr: target}
	if classes > 0 {
		n.Frqs = make([]float64, classes)
		for _, tp := range win {
			y := tp.Value(target)
			if !feature.IsNullValue(y) {
				n.Frqs[y] += tp.XWeight()
			}
		}
		var best float64
		for j, f := range n.Frqs {
			n.Frq += f
			if f > best {
				best = f
				n.Cls = j
			}
		}
		n.Err = n.Frq - best
		return n
	}
	var sum, sqr float64
	for _, tp := range win {
		y := tp.Number(target)
		if feature.IsNullNumber(y) {
			continue
		}
		w := tp.XWeight()
		n.Frq += w
		sum += w * y
		sqr += w * y * y
	}
	if n.Frq > 0 {
		n.Mean = sum / n.Frq
		n.Err = sqr - sum*sum/n.Frq
		if n.Err < 0 {
			n.Err = 0
		}
	}
	return n
}

func (g *grower) leaf(win []*dataset.Tuple) *tree.Node {
	return leafStats(win, g.target, g.classes)
}

// grow develops a tuple window into a leaf or a subtree and returns
// it together with its (subtree) error.
func (g *grower) grow(win []*dataset.Tuple, height int) (*tree.Node, float64) {
	n := g.leaf(win)
	if height <= 0 || n.Frq < 2*g.cfg.MinCount || n.Err <= g.cfg.MinError {
		return n, n.Err
	}
	bestAttr := -1
	bestWorth := measure.Worthless
	var bestCut float64
	for a := range g.features {
		if a == g.target || g.used[a] {
			continue
		}
		worth, cut, ok := g.evaluate(a, win)
		if !ok {
			continue
		}
		if worth > bestWorth {
			bestWorth = worth
			bestAttr = a
			bestCut = cut
			g.swapTables()
		}
	}
	if bestAttr < 0 || bestWorth == measure.Worthless || bestWorth < g.cfg.MinWorth {
		return n, n.Err
	}
	node := g.buildTest(bestAttr, bestCut, n)
	subErr := g.growBranches(node, win, height)
	if !g.cfg.KeepGrown && notWorse(n.Err, subErr) {
		return n, n.Err
	}
	return node, subErr
}

// swapTables exchanges the current and best scratch tables, so the
// winning feature's statistics survive the evaluation of its
// siblings without copying.
func (g *grower) swapTables() {
	if g.classes > 0 {
		g.cur, g.best = g.best, g.cur
	} else {
		g.vcur, g.vbest = g.vbest, g.vcur
	}
}

// buildTest materializes the test node for the winning feature from
// the best statistics table: one slot per feature value (or 2 for a
// metric test), linked for values merged into another value's
// branch, empty for values the window does not support. The node
// inherits the leaf statistics computed for the window.
func (g *grower) buildTest(attr int, cut float64, leafStats *tree.Node) *tree.Node {
	node := &tree.Node{
		Attr: attr,
		Cut:  cut,
		Frq:  leafStats.Frq,
		Err:  leafStats.Err,
		Cls:  leafStats.Cls,
		Mean: leafStats.Mean,
		Frqs: leafStats.Frqs,
	}
	f := g.features[attr]
	if f.Metric() {
		// a cut always has a supported side below and above it
		node.Slots = []tree.Slot{tree.OwnedSlot(&tree.Node{}), tree.OwnedSlot(&tree.Node{})}
		return node
	}
	node.Slots = make([]tree.Slot, f.ValueCount())
	for v := 0; v < f.ValueCount(); v++ {
		switch {
		case !g.canonicalColumn(v):
			node.Slots[v] = tree.LinkedSlot(g.columnDestination(v))
		case g.columnWeight(v) <= 0:
			node.Slots[v] = tree.EmptySlot()
		default:
			// owner; the child is grown afterwards
			node.Slots[v] = tree.OwnedSlot(&tree.Node{})
		}
	}
	return node
}

func (g *grower) canonicalColumn(x int) bool {
	if g.classes > 0 {
		return g.best.Canonical(x)
	}
	return g.vbest.Canonical(x)
}

func (g *grower) columnDestination(x int) int {
	if g.classes > 0 {
		return g.best.Destination(x)
	}
	return g.vbest.Destination(x)
}

func (g *grower) columnWeight(x int) float64 {
	if g.classes > 0 {
		return g.best.ColumnFrequency(x)
	}
	return g.vbest.ColumnWeight(x)
}

// growBranches groups the window per branch of the given test node,
// grows every owned child and returns the summed subtree error.
func (g *grower) growBranches(node *tree.Node, win []*dataset.Tuple, height int) float64 {
	g.used[node.Attr] = true
	var subErr float64
	forEachBranch(node, g.features[node.Attr], win, func(s int, branch []*dataset.Tuple) {
		child, err := g.grow(branch, height-1)
		node.Slots[s] = tree.OwnedSlot(child)
		subErr += err
	})
	g.used[node.Attr] = false
	return subErr
}

// forEachBranch groups a tuple window per branch of a test node and
// calls visit once per owned slot with the slot index and the
// contiguous sub-window of tuples belonging to that branch. The mass
// of tuples with an unknown tested value is spread over every branch
// in proportion to the branch's known weight: their execution
// weights are scaled down for the duration of the visit and scaled
// back afterwards. Values that resolve to an empty or out-of-range
// slot have no branch of their own and are spread the same way, as
// they are at prediction time. The window is reordered in place.
func forEachBranch(node *tree.Node, f *feature.Feature, win []*dataset.Tuple, visit func(s int, branch []*dataset.Tuple)) {
	unknown := func(tp *dataset.Tuple) bool {
		if tp.Instance(node.Attr).Null(f.Kind()) {
			return true
		}
		if f.Metric() {
			return false
		}
		v := tp.Value(node.Attr)
		return v >= len(node.Slots) || node.Branch(v) == nil
	}
	k := dataset.Partition(win, unknown)
	var knownTotal float64
	for _, tp := range win[k:] {
		knownTotal += tp.XWeight()
	}
	for s := range node.Slots {
		if !node.Slots[s].Owned() {
			continue
		}
		m := dataset.Partition(win[k:], slotMatcher(node, f, s))
		var branchW float64
		for _, tp := range win[k : k+m] {
			branchW += tp.XWeight()
		}
		if k == 0 || branchW <= 0 || knownTotal <= 0 {
			// no unknown mass to spread, or none of it lands here
			visit(s, win[k:k+m])
			continue
		}
		factor := branchW / knownTotal
		for _, tp := range win[:k] {
			tp.SetXWeight(tp.XWeight() * factor)
		}
		visit(s, win[:k+m])
		// the visit may have reordered the branch window, so the
		// unknown tuples are gathered again before rescaling
		dataset.Partition(win[:k+m], unknown)
		for _, tp := range win[:k] {
			tp.SetXWeight(tp.XWeight() / factor)
		}
	}
}

func slotMatcher(node *tree.Node, f *feature.Feature, slot int) func(*dataset.Tuple) bool {
	if f.Metric() {
		below := slot == 0
		return func(tp *dataset.Tuple) bool {
			return (tp.Number(node.Attr) <= node.Cut) == below
		}
	}
	return func(tp *dataset.Tuple) bool {
		return node.CanonicalSlot(tp.Value(node.Attr)) == slot
	}
}
