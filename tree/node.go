package tree

/*
NoLink is the Link value of a slot that does not alias another slot.
*/
const NoLink = -1

/*
Slot is one branch position of a test node, indexed by feature value
(or by below/above the cut for metric tests). A slot is exactly one
of three things: the owner of a child subtree, a link aliasing the
slot of another value it was merged with while growing, or empty for
values the training data did not support.
*/
type Slot struct {
	// Child is the subtree rooted at this slot, nil for linked and
	// empty slots.
	Child *Node
	// Link is the index of the slot this one aliases, NoLink for
	// owned and empty slots.
	Link int
}

/*
EmptySlot returns a slot supporting no value.
*/
func EmptySlot() Slot {
	return Slot{Link: NoLink}
}

/*
OwnedSlot takes a node and returns a slot owning it as a child
subtree.
*/
func OwnedSlot(child *Node) Slot {
	return Slot{Child: child, Link: NoLink}
}

/*
LinkedSlot takes a slot index and returns a slot aliasing it.
*/
func LinkedSlot(to int) Slot {
	return Slot{Link: to}
}

/*
Owned returns whether the slot owns a child subtree.
*/
func (s Slot) Owned() bool {
	return s.Child != nil
}

/*
Linked returns whether the slot aliases another slot.
*/
func (s Slot) Linked() bool {
	return s.Link != NoLink
}

/*
Empty returns whether the slot supports no value.
*/
func (s Slot) Empty() bool {
	return s.Child == nil && s.Link == NoLink
}

/*
Node is a node of a decision or regression tree. A node with no
slots is a leaf predicting the target from the statistics of the
training tuples that reached it; a node with slots tests the feature
with index Attr and hands tuples down the slot their value selects.
*/
type Node struct {
	// Attr is the feature the node tests; at leaves it is the
	// target feature.
	Attr int
	// Cut is the threshold of a metric test: slot 0 receives the
	// values below or at the cut, slot 1 those above it. It is
	// meaningless for discrete tests and leaves.
	Cut float64
	// Frq is the weight of the cases with a known target value
	// that reached the node.
	Frq float64
	// Err is the leaf error of the node: the misclassified weight
	// for discrete targets, the sum of squared errors for metric
	// targets.
	Err float64
	// Cls is the majority class index for discrete targets.
	Cls int
	// Mean is the mean target value for metric targets.
	Mean float64
	// Frqs holds the per-class frequencies for discrete targets.
	Frqs []float64
	// Slots are the branch positions of a test node, empty for
	// leaves.
	Slots []Slot
}

/*
IsLeaf returns whether the node is a leaf.
*/
func (n *Node) IsLeaf() bool {
	return len(n.Slots) == 0
}

/*
CanonicalSlot takes a slot index and follows link aliases from it,
returning the index of the slot that owns (or would own) the subtree
for that value.
*/
func (n *Node) CanonicalSlot(i int) int {
	for n.Slots[i].Linked() {
		i = n.Slots[i].Link
	}
	return i
}

/*
Branch takes a slot index and returns the child subtree reached
through it, following link aliases, or nil if the slot is empty.
*/
func (n *Node) Branch(i int) *Node {
	return n.Slots[n.CanonicalSlot(i)].Child
}

/*
Widen grows the slot array of the node with empty slots until it has
at least the given number of slots. Pruning against a validation
table needs this when the live feature domain is larger than the one
seen while growing.
*/
func (n *Node) Widen(count int) {
	for len(n.Slots) < count {
		n.Slots = append(n.Slots, EmptySlot())
	}
}

/*
KnownBranchWeight returns the summed frequency of the subtrees owned
by the node, following links only once.
*/
func (n *Node) KnownBranchWeight() float64 {
	var w float64
	for _, s := range n.Slots {
		if s.Owned() {
			w += s.Child.Frq
		}
	}
	return w
}
