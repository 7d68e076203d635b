/*
Package dataset provides the tabular training-data collaborators of the
sylva induction core: weighted tuples of typed instance values, tables
binding tuples to a feature vector and the in-place grouping primitive
shared by growing and pruning.
*/
package dataset

import (
	"fmt"

	"github.com/pbanos/sylva/feature"
)

/*
Table represents a collection of weighted tuples observed over a
fixed vector of features. The i-th cell of every tuple is an
observation of the i-th feature of the table.
*/
type Table struct {
	features []*feature.Feature
	tuples   []*Tuple
}

/*
New takes a slice of features and a slice of tuples and returns a
table with them, or an error if some tuple does not have exactly one
cell per feature.
*/
func New(features []*feature.Feature, tuples []*Tuple) (*Table, error) {
	for i, t := range tuples {
		if t.Len() != len(features) {
			return nil, fmt.Errorf("tuple %d has %d cells, table has %d features", i, t.Len(), len(features))
		}
	}
	return &Table{features: features, tuples: tuples}, nil
}

/*
Features returns the features of the table.
*/
func (t *Table) Features() []*feature.Feature {
	return t.features
}

/*
Feature takes a column index and returns the feature at that column
or an error if the index is out of range.
*/
func (t *Table) Feature(col int) (*feature.Feature, error) {
	if col < 0 || col >= len(t.features) {
		return nil, fmt.Errorf("table has no feature with index %d", col)
	}
	return t.features[col], nil
}

/*
Len returns the number of tuples on the table.
*/
func (t *Table) Len() int {
	return len(t.tuples)
}

/*
Tuples returns the tuples of the table. The slice is the table's
own backing storage: callers that group or reorder it own the table
for the duration.
*/
func (t *Table) Tuples() []*Tuple {
	return t.tuples
}

/*
Add takes a tuple and appends it to the table, or returns an error
if the tuple does not have exactly one cell per table feature.
*/
func (t *Table) Add(tp *Tuple) error {
	if tp.Len() != len(t.features) {
		return fmt.Errorf("tuple has %d cells, table has %d features", tp.Len(), len(t.features))
	}
	t.tuples = append(t.tuples, tp)
	return nil
}

/*
Weight returns the total base weight of the tuples on the table.
*/
func (t *Table) Weight() float64 {
	var w float64
	for _, tp := range t.tuples {
		w += tp.Weight()
	}
	return w
}

/*
ResetXWeights sets the execution weight of every tuple on the table
back to its base weight.
*/
func (t *Table) ResetXWeights() {
	for _, tp := range t.tuples {
		tp.ResetXWeight()
	}
}

/*
Partition takes a window of tuples and a predicate and reorders the
window in place so that the tuples matching the predicate form its
prefix, preserving their relative order. It returns the number of
matching tuples, that is, the index at which the non-matching
suffix starts. Indices into the window held before the call are
invalid after it.
*/
func Partition(tuples []*Tuple, match func(*Tuple) bool) int {
	n := 0
	for i, tp := range tuples {
		if match(tp) {
			tuples[i] = tuples[n]
			tuples[n] = tp
			n++
		}
	}
	return n
}
