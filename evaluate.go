package sylva

import (
	"sort"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/measure"
	"github.com/pbanos/sylva/stats"
)

// evaluate scores the partition of a tuple window by the given
// feature, filling the current scratch table: for discrete features
// it builds one table column per value and applies the configured
// split method, for metric features it searches the best cut. It
// returns the worth of the best partition found, the cut for metric
// features, and whether the feature could be evaluated at all.
func (g *grower) evaluate(attr int, win []*dataset.Tuple) (float64, float64, bool) {
	f := g.features[attr]
	if f.Metric() {
		return g.evaluateCut(attr, win)
	}
	if f.ValueCount() < 2 {
		return 0, 0, false
	}
	st := g.fillTable(attr, win)
	var worth float64
	switch g.cfg.Method {
	case SplitBinary:
		worth = binarize(st)
	case SplitSubsets:
		worth = mergeSubsets(st, false, g.cfg.MinCount)
	case SplitBinarySubsets:
		worth = mergeSubsets(st, true, g.cfg.MinCount)
	default:
		worth = st.worth()
	}
	return worth, 0, true
}

// fillTable loads the current scratch table with the statistics of
// the window split by the given discrete feature and returns it
// behind the strategy-neutral splitTable view.
func (g *grower) fillTable(attr int, win []*dataset.Tuple) splitTable {
	if g.classes > 0 {
		ft := g.cur
		ft.Reset()
		for _, tp := range win {
			ft.Add(tp.Value(attr), tp.Value(g.target), tp.XWeight())
		}
		ft.Marginalize()
		return &frqSplit{t: ft, m: g.cfg.Measure, p: g.cfg.Params}
	}
	vt := g.vcur
	vt.Reset()
	for _, tp := range win {
		y := tp.Number(g.target)
		if feature.IsNullNumber(y) {
			continue
		}
		vt.Add(tp.Value(attr), y, tp.XWeight())
	}
	return &varSplit{t: vt, m: g.cfg.MetricMeasure, p: g.cfg.Params}
}

// evaluateCut searches the best threshold on a metric feature: it
// sorts the known-valued part of the window by the feature, seeds
// the scratch table with all known mass on the upper side, then
// slides the boundary one tuple at a time, scoring the partition at
// every point where the feature value changes. The first tied
// maximum wins.
func (g *grower) evaluateCut(attr int, win []*dataset.Tuple) (float64, float64, bool) {
	k := dataset.Partition(win, func(tp *dataset.Tuple) bool {
		return feature.IsNullNumber(tp.Number(attr))
	})
	unk, known := win[:k], win[k:]
	if len(known) < 2 {
		return 0, 0, false
	}
	sort.SliceStable(known, func(i, j int) bool {
		return known[i].Number(attr) < known[j].Number(attr)
	})
	var st splitTable
	var move func(tp *dataset.Tuple)
	if g.classes > 0 {
		ft := g.cur
		ft.Reset()
		for _, tp := range unk {
			ft.Add(-1, tp.Value(g.target), tp.XWeight())
		}
		for _, tp := range known {
			ft.Add(1, tp.Value(g.target), tp.XWeight())
		}
		ft.Marginalize()
		st = &frqSplit{t: ft, m: g.cfg.Measure, p: g.cfg.Params}
		move = func(tp *dataset.Tuple) {
			ft.Move(1, 0, tp.Value(g.target), tp.XWeight())
		}
	} else {
		vt := g.vcur
		vt.Reset()
		for _, tp := range unk {
			y := tp.Number(g.target)
			if !feature.IsNullNumber(y) {
				vt.Add(-1, y, tp.XWeight())
			}
		}
		for _, tp := range known {
			y := tp.Number(g.target)
			if !feature.IsNullNumber(y) {
				vt.Add(1, y, tp.XWeight())
			}
		}
		st = &varSplit{t: vt, m: g.cfg.MetricMeasure, p: g.cfg.Params}
		move = func(tp *dataset.Tuple) {
			y := tp.Number(g.target)
			if !feature.IsNullNumber(y) {
				g.vcur.Move(1, 0, y, tp.XWeight())
			}
		}
	}
	bestWorth := measure.Worthless
	var bestCut float64
	found := false
	for i := 0; i < len(known)-1; i++ {
		move(known[i])
		v, next := known[i].Number(attr), known[i+1].Number(attr)
		if next <= v {
			continue
		}
		if st.weight(0) < g.cfg.MinCount || st.weight(1) < g.cfg.MinCount {
			continue
		}
		if w := st.worth(); w > bestWorth {
			bestWorth = w
			bestCut = (v + next) / 2
			found = true
		}
	}
	if !found {
		return 0, 0, false
	}
	return bestWorth, bestCut, true
}

// splitTable is the strategy-neutral view of a scratch statistics
// table the binarize and subset-merge strategies work on.
type splitTable interface {
	columns() int
	canonical(x int) bool
	weight(x int) float64
	combine(src, dst int)
	uncombine(src int)
	worth() float64
	// pureClass returns the single class all of a column's weight
	// belongs to, or -1 when there is none to speak of.
	pureClass(x int) int
}

type frqSplit struct {
	t *stats.FrequencyTable
	m measure.Measure
	p measure.Params
}

func (s *frqSplit) columns() int          { return s.t.XCount() }
func (s *frqSplit) canonical(x int) bool  { return s.t.Canonical(x) }
func (s *frqSplit) weight(x int) float64  { return s.t.ColumnFrequency(x) }
func (s *frqSplit) combine(src, dst int)  { s.t.Combine(src, dst) }
func (s *frqSplit) uncombine(src int)     { s.t.Uncombine(src) }
func (s *frqSplit) worth() float64        { return s.m.Evaluate(s.t, s.p) }
func (s *frqSplit) pureClass(x int) int {
	total := s.t.ColumnFrequency(x)
	if total <= 0 {
		return -1
	}
	for y := 0; y < s.t.YCount(); y++ {
		if f := s.t.Frequency(x, y); f > 0 {
			if f >= total {
				return y
			}
			return -1
		}
	}
	return -1
}

type varSplit struct {
	t *stats.VarianceTable
	m measure.MetricMeasure
	p measure.Params
}

func (s *varSplit) columns() int         { return s.t.Count() }
func (s *varSplit) canonical(x int) bool { return s.t.Canonical(x) }
func (s *varSplit) weight(x int) float64 { return s.t.ColumnWeight(x) }
func (s *varSplit) combine(src, dst int) { s.t.Combine(src, dst) }
func (s *varSplit) uncombine(src int)    { s.t.Uncombine(src) }
func (s *varSplit) worth() float64       { return s.m.Evaluate(s.t, s.p) }
func (s *varSplit) pureClass(x int) int  { return -1 }

func supportedColumns(st splitTable) []int {
	var cols []int
	for x := 0; x < st.columns(); x++ {
		if st.canonical(x) && st.weight(x) > 0 {
			cols = append(cols, x)
		}
	}
	return cols
}

// binarize evaluates every "one value against the rest" partition
// of the table, keeps the best one and leaves the table merged down
// to it.
func binarize(st splitTable) float64 {
	cols := supportedColumns(st)
	if len(cols) < 2 {
		return measure.Worthless
	}
	if len(cols) == 2 {
		return st.worth()
	}
	applyRest := func(one int) (rest int, merged []int) {
		rest = -1
		for _, c := range cols {
			if c == one {
				continue
			}
			if rest < 0 {
				rest = c
				continue
			}
			st.combine(c, rest)
			merged = append(merged, c)
		}
		return rest, merged
	}
	bestWorth := measure.Worthless
	bestOne := cols[0]
	for _, one := range cols {
		_, merged := applyRest(one)
		w := st.worth()
		for i := len(merged) - 1; i >= 0; i-- {
			st.uncombine(merged[i])
		}
		if w > bestWorth {
			bestWorth = w
			bestOne = one
		}
	}
	applyRest(bestOne)
	return bestWorth
}

// mergeSubsets greedily merges pairs of table columns while the
// worth of the partition improves, leaving the table merged down to
// the best subset partition found. Columns that are pure for the
// same class are merged up front. Columns too light to form a
// reasonable tuple set are merged even without improvement, except
// that the heaviest column is never merged away while at least two
// reasonable sets remain. With binary set, merging continues until
// exactly two columns remain.
func mergeSubsets(st splitTable, binary bool, minCount float64) float64 {
	cols := supportedColumns(st)
	if len(cols) < 2 {
		return measure.Worthless
	}
	pureOf := map[int]int{}
	kept := cols[:0]
	for _, c := range cols {
		cls := st.pureClass(c)
		if cls < 0 {
			kept = append(kept, c)
			continue
		}
		if d, ok := pureOf[cls]; ok {
			st.combine(c, d)
			continue
		}
		pureOf[cls] = c
		kept = append(kept, c)
	}
	cols = kept
	worth := st.worth()
	for len(cols) > 2 {
		heaviest := cols[0]
		reasonable := 0
		for _, c := range cols {
			if st.weight(c) > st.weight(heaviest) {
				heaviest = c
			}
			if st.weight(c) >= minCount {
				reasonable++
			}
		}
		var light []int
		for _, c := range cols {
			if st.weight(c) >= minCount {
				continue
			}
			if c == heaviest && reasonable >= 2 {
				continue
			}
			light = append(light, c)
		}
		forced := binary || len(light) > 0
		bestWorth := measure.Worthless
		bestSrc, bestDst := -1, -1
		try := func(src, dst int) {
			st.combine(src, dst)
			if w := st.worth(); w > bestWorth {
				bestWorth = w
				bestSrc, bestDst = src, dst
			}
			st.uncombine(src)
		}
		if len(light) > 0 && !binary {
			for _, s := range light {
				for _, d := range cols {
					if d != s {
						try(s, d)
					}
				}
			}
		} else {
			for i, s := range cols {
				for _, d := range cols[i+1:] {
					try(s, d)
				}
			}
		}
		if bestSrc < 0 || (!forced && bestWorth <= worth) {
			break
		}
		st.combine(bestSrc, bestDst)
		worth = bestWorth
		kept = cols[:0]
		for _, c := range cols {
			if c != bestSrc {
				kept = append(kept, c)
			}
		}
		cols = kept
	}
	return worth
}
