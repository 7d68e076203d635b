/*
Package stats provides the sufficient-statistics tables the sylva
induction core accumulates candidate splits on: frequency tables for
discrete targets and variance tables for metric targets.

Both tables index their columns by candidate split value, with column
-1 standing for tuples whose value for the split feature is unknown.
Columns can be combined to evaluate coarser partitions without going
back to the data, and uncombined to restore the finer partition, as
long as uncombines happen in reverse combine order.

All operations are pure arithmetic on storage sized once at creation;
sizing the tables to the largest feature domain is the caller's
responsibility.
*/
package stats

/*
FrequencyTable accumulates weighted counts indexed by a column (a
candidate split value, -1 for unknown) and a row (a target class, -1
for unknown). It maintains column and row marginals, the total known
weight and a per-column destination array implementing column
merging.
*/
type FrequencyTable struct {
	xcnt, ycnt int
	frq        [][]float64
	xmar       []float64
	ymar       []float64
	dest       []int
	known      float64
	total      float64
}

/*
NewFrequencyTable takes a column count and a row count and returns an
empty frequency table with those dimensions.
*/
func NewFrequencyTable(xcnt, ycnt int) *FrequencyTable {
	t := &FrequencyTable{
		xcnt: xcnt,
		ycnt: ycnt,
		frq:  make([][]float64, xcnt+1),
		xmar: make([]float64, xcnt+1),
		ymar: make([]float64, ycnt+1),
		dest: make([]int, xcnt),
	}
	for i := range t.frq {
		t.frq[i] = make([]float64, ycnt+1)
	}
	t.Reset()
	return t
}

/*
XCount returns the number of columns of the table, not counting the
unknown column.
*/
func (t *FrequencyTable) XCount() int {
	return t.xcnt
}

/*
YCount returns the number of rows of the table, not counting the
unknown row.
*/
func (t *FrequencyTable) YCount() int {
	return t.ycnt
}

/*
Reset clears all cells and marginals and undoes all column merges.
*/
func (t *FrequencyTable) Reset() {
	for x := range t.frq {
		row := t.frq[x]
		for y := range row {
			row[y] = 0
		}
		t.xmar[x] = 0
	}
	for y := range t.ymar {
		t.ymar[y] = 0
	}
	for x := range t.dest {
		t.dest[x] = x
	}
	t.known = 0
	t.total = 0
}

/*
Add takes a column index, a row index and a weight and accumulates
the weight on the addressed cell. Marginals are stale until the next
Marginalize call.
*/
func (t *FrequencyTable) Add(x, y int, w float64) {
	t.frq[x+1][y+1] += w
}

/*
Marginalize recomputes the column and row marginals and the known and
total weights from the raw cells. It must be called on a table with
no combined columns.
*/
func (t *FrequencyTable) Marginalize() {
	t.known = 0
	t.total = 0
	for y := range t.ymar {
		t.ymar[y] = 0
	}
	for x := range t.frq {
		row := t.frq[x]
		var m float64
		for y, f := range row {
			m += f
			t.ymar[y] += f
		}
		t.xmar[x] = m
		t.total += m
		if x > 0 {
			t.known += m
		}
	}
}

/*
Frequency takes a column index and a row index and returns the
current weighted count of the addressed cell.
*/
func (t *FrequencyTable) Frequency(x, y int) float64 {
	return t.frq[x+1][y+1]
}

/*
ColumnFrequency takes a column index and returns its marginal.
*/
func (t *FrequencyTable) ColumnFrequency(x int) float64 {
	return t.xmar[x+1]
}

/*
RowFrequency takes a row index and returns its marginal.
*/
func (t *FrequencyTable) RowFrequency(y int) float64 {
	return t.ymar[y+1]
}

/*
Known returns the total weight on columns with a known split value.
*/
func (t *FrequencyTable) Known() float64 {
	return t.known
}

/*
Total returns the total weight on the table, including the unknown
column.
*/
func (t *FrequencyTable) Total() float64 {
	return t.total
}

/*
Destination takes a column index and follows the chain of column
merges from it, returning the index of the canonical column its
statistics are currently accumulated on. For a column that has not
been merged it returns the column itself.
*/
func (t *FrequencyTable) Destination(x int) int {
	for t.dest[x] != x {
		x = t.dest[x]
	}
	return x
}

/*
Canonical takes a column index and returns whether the column has
not been merged into another one.
*/
func (t *FrequencyTable) Canonical(x int) bool {
	return t.dest[x] == x
}

/*
Combine takes a source and a destination column index and merges the
source column into the destination: the source's row vector and
marginal are added onto the destination's. The source keeps its own
cells so that Uncombine can subtract them back out. Both columns must
be canonical and different.
*/
func (t *FrequencyTable) Combine(src, dst int) {
	srow, drow := t.frq[src+1], t.frq[dst+1]
	for y, f := range srow {
		drow[y] += f
	}
	t.xmar[dst+1] += t.xmar[src+1]
	t.dest[src] = dst
}

/*
Uncombine takes a column index previously passed as source to
Combine and splits it back out of its destination, restoring the
pre-merge statistics. Uncombines must happen in reverse Combine
order.
*/
func (t *FrequencyTable) Uncombine(src int) {
	dst := t.dest[src]
	if dst == src {
		return
	}
	srow, drow := t.frq[src+1], t.frq[dst+1]
	for y, f := range srow {
		drow[y] -= f
	}
	t.xmar[dst+1] -= t.xmar[src+1]
	t.dest[src] = src
}

/*
Move takes a source column index, a destination column index, a row
index and a weight, and moves the weight from the source cell to the
destination cell, keeping the marginals up to date. It is the
primitive the cut search slides tuples between the two sides of a
candidate threshold with.
*/
func (t *FrequencyTable) Move(src, dst, y int, w float64) {
	t.frq[src+1][y+1] -= w
	t.frq[dst+1][y+1] += w
	t.xmar[src+1] -= w
	t.xmar[dst+1] += w
	if src < 0 && dst >= 0 {
		t.known += w
	} else if src >= 0 && dst < 0 {
		t.known -= w
	}
}

/*
CopyFrom takes a source table with the same dimensions and deep
copies its current cells, marginals, merges and totals onto the
table.
*/
func (t *FrequencyTable) CopyFrom(src *FrequencyTable) {
	for x := range t.frq {
		copy(t.frq[x], src.frq[x])
	}
	copy(t.xmar, src.xmar)
	copy(t.ymar, src.ymar)
	copy(t.dest, src.dest)
	t.known = src.known
	t.total = src.total
}
