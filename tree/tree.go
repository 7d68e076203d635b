/*
Package tree provides the decision/regression tree node graph the
sylva induction core grows and prunes, together with a cursor for
external navigation and the exec operation that runs tuples through
a finished tree.
*/
package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/sylva/feature"
)

/*
Tree represents a decision or regression tree: the root of its node
graph, the feature vector its tests refer to, the target feature it
predicts, and cached size statistics refreshed after every grow or
prune.
*/
type Tree struct {
	// Root is the root node of the tree.
	Root     *Node
	features []*feature.Feature
	target   int
	classes  int
	height   int
	size     int
	weight   float64
}

/*
New takes a slice of features and the index of the target feature
among them and returns an empty tree predicting that target, or an
error if the index is out of range.
*/
func New(features []*feature.Feature, target int) (*Tree, error) {
	if target < 0 || target >= len(features) {
		return nil, fmt.Errorf("no feature with index %d to predict", target)
	}
	return &Tree{
		features: features,
		target:   target,
		classes:  features[target].ValueCount(),
	}, nil
}

/*
Features returns the features the tree refers to.
*/
func (t *Tree) Features() []*feature.Feature {
	return t.features
}

/*
Target returns the index of the feature the tree predicts.
*/
func (t *Tree) Target() int {
	return t.target
}

/*
TargetFeature returns the feature the tree predicts.
*/
func (t *Tree) TargetFeature() *feature.Feature {
	return t.features[t.target]
}

/*
Classes returns the number of classes of a discrete target, 0 when
the target is metric and the tree predicts a scalar.
*/
func (t *Tree) Classes() int {
	return t.classes
}

/*
Metric returns whether the tree predicts a metric target.
*/
func (t *Tree) Metric() bool {
	return t.classes == 0
}

/*
Height returns the cached height of the tree: the number of tests on
its longest root-to-leaf path.
*/
func (t *Tree) Height() int {
	return t.height
}

/*
Size returns the cached number of owned nodes of the tree.
*/
func (t *Tree) Size() int {
	return t.size
}

/*
Weight returns the cached total weight of known-target cases the
tree was built from.
*/
func (t *Tree) Weight() float64 {
	return t.weight
}

/*
Refresh recomputes the cached height, size and weight of the tree
from its node graph. It must be called after growing the tree or
mutating its graph.
*/
func (t *Tree) Refresh() {
	t.height, t.size = measureGraph(t.Root)
	if t.Root != nil {
		t.weight = t.Root.Frq
	} else {
		t.weight = 0
	}
}

func measureGraph(n *Node) (height, size int) {
	if n == nil {
		return 0, 0
	}
	size = 1
	for _, s := range n.Slots {
		if !s.Owned() {
			continue
		}
		h, sz := measureGraph(s.Child)
		if h+1 > height {
			height = h + 1
		}
		size += sz
	}
	return height, size
}

func (t *Tree) String() string {
	if t.Root == nil {
		return "(empty tree)\n"
	}
	return t.subtreeString(t.Root, "")
}

func (t *Tree) subtreeString(n *Node, branch string) string {
	var result string
	if branch != "" {
		result = fmt.Sprintf("{ %s }\n", branch)
	}
	if n.IsLeaf() {
		if t.Metric() {
			return fmt.Sprintf("%s[%s = %g ~%g (%g)]\n", result, t.TargetFeature().Name(), n.Mean, n.Err, n.Frq)
		}
		v, err := t.TargetFeature().Value(n.Cls)
		if err != nil {
			v = "?"
		}
		return fmt.Sprintf("%s[%s = %s ~%g (%g)]\n", result, t.TargetFeature().Name(), v, n.Err, n.Frq)
	}
	f := t.features[n.Attr]
	result = fmt.Sprintf("%s[%s?]\n|\n", result, f.Name())
	subtrees := []string{}
	for i, s := range n.Slots {
		if !s.Owned() {
			continue
		}
		subtrees = append(subtrees, t.subtreeString(s.Child, t.branchLabel(n, f, i)))
	}
	for i, subtree := range subtrees {
		for j, line := range strings.Split(subtree, "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(subtrees)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

// branchLabel names the values whose slots resolve to slot i.
func (t *Tree) branchLabel(n *Node, f *feature.Feature, i int) string {
	if f.Metric() {
		if i == 0 {
			return fmt.Sprintf("%s <= %g", f.Name(), n.Cut)
		}
		return fmt.Sprintf("%s > %g", f.Name(), n.Cut)
	}
	values := []string{}
	for j := range n.Slots {
		if n.CanonicalSlot(j) != i {
			continue
		}
		v, err := f.Value(j)
		if err != nil {
			v = "?"
		}
		values = append(values, v)
	}
	return fmt.Sprintf("%s is %s", f.Name(), strings.Join(values, "|"))
}
