package tree

import (
	"fmt"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
)

/*
Prediction represents the outcome of running a tuple through a tree:
the predicted class or mean, the training weight supporting it and,
for discrete targets, a per-class confidence vector.
*/
type Prediction struct {
	tree       *Tree
	class      int
	mean       float64
	support    float64
	confidence []float64
}

/*
Class returns the predicted class index for discrete targets.
*/
func (p *Prediction) Class() int {
	return p.class
}

/*
Value returns the predicted class value string for discrete targets
or an error if the target is metric.
*/
func (p *Prediction) Value() (string, error) {
	if p.tree.Metric() {
		return "", fmt.Errorf("tree predicts a scalar, not a class")
	}
	return p.tree.TargetFeature().Value(p.class)
}

/*
Mean returns the predicted value for metric targets.
*/
func (p *Prediction) Mean() float64 {
	return p.mean
}

/*
Support returns the training weight of the leaves the prediction was
drawn from.
*/
func (p *Prediction) Support() float64 {
	return p.support
}

/*
Confidence takes a class index and returns the probability of that
class according to the prediction, 0 for out-of-range indices.
*/
func (p *Prediction) Confidence(class int) float64 {
	if class < 0 || class >= len(p.confidence) {
		return 0
	}
	return p.confidence[class]
}

/*
Confidences returns the per-class probability vector of the
prediction, nil for metric targets.
*/
func (p *Prediction) Confidences() []float64 {
	return p.confidence
}

func (p *Prediction) String() string {
	if p.tree.Metric() {
		return fmt.Sprintf("%g (%g)", p.mean, p.support)
	}
	v, err := p.Value()
	if err != nil {
		v = "?"
	}
	return fmt.Sprintf("%s %v (%g)", v, p.confidence, p.support)
}

/*
Exec takes a tuple and a weight and runs the tuple through the tree,
following the feature tests from the root until a leaf is reached.
When a tested value is unknown (or falls on an empty slot) the
tuple's mass is spread over all supported branches in proportion to
their known training weight. It returns the prediction aggregated
over the reached leaves or an error if the tree is empty.
*/
func (t *Tree) Exec(tp *dataset.Tuple, weight float64) (*Prediction, error) {
	if t.Root == nil {
		return nil, fmt.Errorf("empty tree cannot predict tuples")
	}
	p := &Prediction{tree: t}
	if !t.Metric() {
		p.confidence = make([]float64, t.classes)
	}
	t.exec(t.Root, tp, 1.0, p)
	var best float64
	for j, f := range p.confidence {
		if f > best {
			best = f
			p.class = j
		}
	}
	var total float64
	for _, f := range p.confidence {
		total += f
	}
	if total > 0 {
		for j := range p.confidence {
			p.confidence[j] /= total
		}
	}
	p.support *= weight
	return p, nil
}

func (t *Tree) exec(n *Node, tp *dataset.Tuple, w float64, p *Prediction) {
	if n.IsLeaf() {
		p.support += w * n.Frq
		if t.Metric() {
			p.mean += w * n.Mean
			return
		}
		if n.Frq > 0 {
			for j, f := range n.Frqs {
				p.confidence[j] += w * f / n.Frq
			}
		}
		return
	}
	f := t.features[n.Attr]
	child := t.branchFor(n, f, tp)
	if child != nil {
		t.exec(child, tp, w, p)
		return
	}
	// unknown value: spread the mass over the supported branches
	known := n.KnownBranchWeight()
	if known <= 0 {
		return
	}
	for _, s := range n.Slots {
		if s.Owned() && s.Child.Frq > 0 {
			t.exec(s.Child, tp, w*s.Child.Frq/known, p)
		}
	}
}

func (t *Tree) branchFor(n *Node, f *feature.Feature, tp *dataset.Tuple) *Node {
	if f.Metric() {
		v := tp.Number(n.Attr)
		if feature.IsNullNumber(v) {
			return nil
		}
		if v <= n.Cut {
			return n.Branch(0)
		}
		return n.Branch(1)
	}
	v := tp.Value(n.Attr)
	if feature.IsNullValue(v) || v >= len(n.Slots) {
		return nil
	}
	return n.Branch(v)
}
