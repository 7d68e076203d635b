package dataset

import (
	"fmt"

	"github.com/pbanos/sylva/feature"
)

/*
Instance is a single typed cell of a tuple. Which of its fields is
meaningful depends on the kind of the feature the cell belongs to:
discrete cells carry a value index in Value, metric cells carry a
number in Number.
*/
type Instance struct {
	Value  int
	Number float64
}

/*
NullInstance returns an Instance representing an unknown observation
regardless of the kind of its feature.
*/
func NullInstance() Instance {
	return Instance{Value: feature.NoValue, Number: feature.NullNumber()}
}

/*
DiscreteInstance takes a value index and returns an Instance holding
it as a discrete observation.
*/
func DiscreteInstance(value int) Instance {
	return Instance{Value: value, Number: feature.NullNumber()}
}

/*
NumberInstance takes a number and returns an Instance holding it as
a metric observation.
*/
func NumberInstance(number float64) Instance {
	return Instance{Value: feature.NoValue, Number: number}
}

/*
Null takes the kind of the feature the instance belongs to and
returns whether the instance represents an unknown observation.
*/
func (i Instance) Null(kind feature.Kind) bool {
	if kind == feature.Discrete {
		return feature.IsNullValue(i.Value)
	}
	return feature.IsNullNumber(i.Number)
}

/*
Tuple is a fixed-order vector of typed instance values together with
a base weight and an execution weight. The base weight is the weight
the tuple carries in its dataset; the execution weight is a scratch
weight mutated while growing, pruning or executing a tree to spread
the mass of tuples with unknown values over several branches.
*/
type Tuple struct {
	cells   []Instance
	weight  float64
	xweight float64
}

/*
NewTuple takes a slice of instances and a weight and returns a tuple
with them. The execution weight is initialized to the given weight.
*/
func NewTuple(cells []Instance, weight float64) *Tuple {
	return &Tuple{cells: cells, weight: weight, xweight: weight}
}

/*
Len returns the number of cells of the tuple.
*/
func (t *Tuple) Len() int {
	return len(t.cells)
}

/*
Instance takes a column index and returns the cell of the tuple at
that column.
*/
func (t *Tuple) Instance(col int) Instance {
	return t.cells[col]
}

/*
Value takes a column index and returns the discrete value index at
that column, feature.NoValue when the observation is unknown.
*/
func (t *Tuple) Value(col int) int {
	return t.cells[col].Value
}

/*
Number takes a column index and returns the numeric value at that
column, NaN when the observation is unknown.
*/
func (t *Tuple) Number(col int) float64 {
	return t.cells[col].Number
}

/*
Weight returns the base weight of the tuple.
*/
func (t *Tuple) Weight() float64 {
	return t.weight
}

/*
SetWeight takes a weight and sets it as the base weight of the tuple.
*/
func (t *Tuple) SetWeight(w float64) {
	t.weight = w
}

/*
XWeight returns the execution weight of the tuple.
*/
func (t *Tuple) XWeight() float64 {
	return t.xweight
}

/*
SetXWeight takes a weight and sets it as the execution weight of the
tuple.
*/
func (t *Tuple) SetXWeight(w float64) {
	t.xweight = w
}

/*
ResetXWeight sets the execution weight of the tuple back to its base
weight.
*/
func (t *Tuple) ResetXWeight() {
	t.xweight = t.weight
}

func (t *Tuple) String() string {
	return fmt.Sprintf("tuple%v*%g", t.cells, t.weight)
}
