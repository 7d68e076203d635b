package stats

/*
VarianceTable accumulates weighted observations of a metric target
indexed by a column (a candidate split value, -1 for unknown). Each
cell holds a weighted count, a sum and a sum of squares; means and
sums of squared errors are derived from those on demand, so they can
never go stale across mutations.
*/
type VarianceTable struct {
	cnt   int
	n     []float64
	sum   []float64
	sqr   []float64
	dest  []int
	known float64
	total float64
}

/*
NewVarianceTable takes a column count and returns an empty variance
table with that many columns.
*/
func NewVarianceTable(cnt int) *VarianceTable {
	t := &VarianceTable{
		cnt:  cnt,
		n:    make([]float64, cnt+1),
		sum:  make([]float64, cnt+1),
		sqr:  make([]float64, cnt+1),
		dest: make([]int, cnt),
	}
	t.Reset()
	return t
}

/*
Count returns the number of columns of the table, not counting the
unknown column.
*/
func (t *VarianceTable) Count() int {
	return t.cnt
}

/*
Reset clears all cells and undoes all column merges.
*/
func (t *VarianceTable) Reset() {
	for x := range t.n {
		t.n[x] = 0
		t.sum[x] = 0
		t.sqr[x] = 0
	}
	for x := range t.dest {
		t.dest[x] = x
	}
	t.known = 0
	t.total = 0
}

/*
Add takes a column index, an observed target value and a weight and
accumulates the weighted observation on the addressed column.
*/
func (t *VarianceTable) Add(x int, value, w float64) {
	t.n[x+1] += w
	t.sum[x+1] += w * value
	t.sqr[x+1] += w * value * value
	t.total += w
	if x >= 0 {
		t.known += w
	}
}

/*
Marginalize recomputes the known and total weights from the raw
cells. It must be called on a table with no combined columns.
*/
func (t *VarianceTable) Marginalize() {
	t.known = 0
	t.total = 0
	for x, n := range t.n {
		t.total += n
		if x > 0 {
			t.known += n
		}
	}
}

/*
ColumnWeight takes a column index and returns the weighted count
currently accumulated on it.
*/
func (t *VarianceTable) ColumnWeight(x int) float64 {
	return t.n[x+1]
}

/*
Sum takes a column index and returns the weighted sum currently
accumulated on it.
*/
func (t *VarianceTable) Sum(x int) float64 {
	return t.sum[x+1]
}

/*
Mean takes a column index and returns the weighted mean of the
observations accumulated on it, 0 if the column carries no weight.
*/
func (t *VarianceTable) Mean(x int) float64 {
	if t.n[x+1] <= 0 {
		return 0
	}
	return t.sum[x+1] / t.n[x+1]
}

/*
SSE takes a column index and returns the weighted sum of squared
errors around the column mean, 0 if the column carries no weight.
*/
func (t *VarianceTable) SSE(x int) float64 {
	n := t.n[x+1]
	if n <= 0 {
		return 0
	}
	sse := t.sqr[x+1] - t.sum[x+1]*t.sum[x+1]/n
	if sse < 0 {
		return 0
	}
	return sse
}

/*
Known returns the total weight on columns with a known split value.
*/
func (t *VarianceTable) Known() float64 {
	return t.known
}

/*
Total returns the total weight on the table, including the unknown
column.
*/
func (t *VarianceTable) Total() float64 {
	return t.total
}

/*
Destination takes a column index and follows the chain of column
merges from it, returning the index of the canonical column its
statistics are currently accumulated on.
*/
func (t *VarianceTable) Destination(x int) int {
	for t.dest[x] != x {
		x = t.dest[x]
	}
	return x
}

/*
Canonical takes a column index and returns whether the column has
not been merged into another one.
*/
func (t *VarianceTable) Canonical(x int) bool {
	return t.dest[x] == x
}

/*
Combine takes a source and a destination column index and merges the
source column into the destination. Both columns must be canonical
and different.
*/
func (t *VarianceTable) Combine(src, dst int) {
	t.n[dst+1] += t.n[src+1]
	t.sum[dst+1] += t.sum[src+1]
	t.sqr[dst+1] += t.sqr[src+1]
	t.dest[src] = dst
}

/*
Uncombine takes a column index previously passed as source to
Combine and splits it back out of its destination, restoring the
pre-merge statistics. Uncombines must happen in reverse Combine
order.
*/
func (t *VarianceTable) Uncombine(src int) {
	dst := t.dest[src]
	if dst == src {
		return
	}
	t.n[dst+1] -= t.n[src+1]
	t.sum[dst+1] -= t.sum[src+1]
	t.sqr[dst+1] -= t.sqr[src+1]
	t.dest[src] = src
}

/*
Move takes a source column index, a destination column index, an
observed target value and a weight, and moves the weighted
observation from the source column to the destination column.
*/
func (t *VarianceTable) Move(src, dst int, value, w float64) {
	t.n[src+1] -= w
	t.sum[src+1] -= w * value
	t.sqr[src+1] -= w * value * value
	t.n[dst+1] += w
	t.sum[dst+1] += w * value
	t.sqr[dst+1] += w * value * value
	if src < 0 && dst >= 0 {
		t.known += w
	} else if src >= 0 && dst < 0 {
		t.known -= w
	}
}

/*
CopyFrom takes a source table with the same dimensions and deep
copies its current cells, merges and totals onto the table.
*/
func (t *VarianceTable) CopyFrom(src *VarianceTable) {
	copy(t.n, src.n)
	copy(t.sum, src.sum)
	copy(t.sqr, src.sqr)
	copy(t.dest, src.dest)
	t.known = src.known
	t.total = src.total
}

/*
Aggregate returns the weighted count, sum and sum of squares over
all canonical columns with a known split value: the statistics of
the undivided known mass.
*/
func (t *VarianceTable) Aggregate() (n, sum, sqr float64) {
	for x := 0; x < t.cnt; x++ {
		if !t.Canonical(x) {
			continue
		}
		n += t.n[x+1]
		sum += t.sum[x+1]
		sqr += t.sqr[x+1]
	}
	return n, sum, sqr
}
