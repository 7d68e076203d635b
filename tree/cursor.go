package tree

import (
	"fmt"

	"github.com/pbanos/sylva/feature"
)

/*
Cursor navigates a tree from the outside: it points at one node at a
time, can step down a slot or back up, and exposes read accessors
for the node it points at. A cursor is only valid as long as the
graph of its tree is not mutated.
*/
type Cursor struct {
	tree *Tree
	node *Node
	path []*Node
}

/*
Cursor returns a cursor over the tree, pointing at its root.
*/
func (t *Tree) Cursor() *Cursor {
	return &Cursor{tree: t, node: t.Root}
}

/*
ToRoot moves the cursor back to the root of its tree.
*/
func (c *Cursor) ToRoot() {
	c.node = c.tree.Root
	c.path = c.path[:0]
}

/*
Node returns the node the cursor points at.
*/
func (c *Cursor) Node() *Node {
	return c.node
}

/*
Depth returns the number of tests above the node the cursor points
at.
*/
func (c *Cursor) Depth() int {
	return len(c.path)
}

/*
Descend takes a slot index and moves the cursor down into the
subtree reached through that slot, following link aliases. It
returns an error if the current node is a leaf, the index is out of
range or the slot is empty.
*/
func (c *Cursor) Descend(slot int) error {
	if c.node == nil {
		return fmt.Errorf("cursor points at no node")
	}
	if c.node.IsLeaf() {
		return fmt.Errorf("cannot descend from a leaf")
	}
	if slot < 0 || slot >= len(c.node.Slots) {
		return fmt.Errorf("node has no slot with index %d", slot)
	}
	child := c.node.Branch(slot)
	if child == nil {
		return fmt.Errorf("slot %d is empty", slot)
	}
	c.path = append(c.path, c.node)
	c.node = child
	return nil
}

/*
Ascend moves the cursor back up to the parent of the node it points
at. It returns an error if the cursor points at the root.
*/
func (c *Cursor) Ascend() error {
	if len(c.path) == 0 {
		return fmt.Errorf("cannot ascend from the root")
	}
	c.node = c.path[len(c.path)-1]
	c.path = c.path[:len(c.path)-1]
	return nil
}

/*
Feature returns the feature the current node tests, or the target
feature if it is a leaf.
*/
func (c *Cursor) Feature() *feature.Feature {
	return c.tree.features[c.node.Attr]
}

/*
Cut returns the threshold of the current node's metric test.
*/
func (c *Cursor) Cut() float64 {
	return c.node.Cut
}

/*
Frequency returns the weight of known-target cases that reached the
current node.
*/
func (c *Cursor) Frequency() float64 {
	return c.node.Frq
}

/*
Error returns the leaf error of the current node.
*/
func (c *Cursor) Error() float64 {
	return c.node.Err
}

/*
Majority returns the majority class index of the current node for
discrete targets.
*/
func (c *Cursor) Majority() int {
	return c.node.Cls
}

/*
Mean returns the mean target value of the current node for metric
targets.
*/
func (c *Cursor) Mean() float64 {
	return c.node.Mean
}

/*
ClassFrequency takes a class index and returns the frequency of that
class at the current node, or an error if the node is not a leaf of
a discrete-target tree or the index is out of range.
*/
func (c *Cursor) ClassFrequency(class int) (float64, error) {
	if !c.node.IsLeaf() {
		return 0, fmt.Errorf("class frequencies can only be read at leaves")
	}
	if class < 0 || class >= len(c.node.Frqs) {
		return 0, fmt.Errorf("leaf has no class with index %d", class)
	}
	return c.node.Frqs[class], nil
}

/*
SetClassFrequency takes a class index and a frequency and sets the
frequency of that class at the current node, or returns an error if
the node is not a leaf of a discrete-target tree or the index is out
of range. The leaf's totals, majority class and error are updated to
match.
*/
func (c *Cursor) SetClassFrequency(class int, frq float64) error {
	if !c.node.IsLeaf() {
		return fmt.Errorf("class frequencies can only be set at leaves")
	}
	if class < 0 || class >= len(c.node.Frqs) {
		return fmt.Errorf("leaf has no class with index %d", class)
	}
	c.node.Frqs[class] = frq
	var total, best float64
	cls := 0
	for j, f := range c.node.Frqs {
		total += f
		if f > best {
			best = f
			cls = j
		}
	}
	c.node.Frq = total
	c.node.Cls = cls
	c.node.Err = total - best
	return nil
}
