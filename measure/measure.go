/*
Package measure provides the scoring measures the sylva split
evaluator ranks candidate partitions with. Each measure is a pure
function of the aggregates of a marginalized statistics table, so
combining and uncombining columns plus re-reading marginals is the
whole cost of exploring alternative partitions.

A worth value is a scalar where larger is better. The Worthless
value, negative infinity, signals that no split should be made.
*/
package measure

import (
	"math"
	"sort"

	"github.com/pbanos/sylva/stats"
)

/*
Worthless is the worth signalling "do not split here".
*/
var Worthless = math.Inf(-1)

/*
Params carries the optional numeric parameters of a measure.
*/
type Params struct {
	// Weighted makes the measure divide by the total weight of
	// the table instead of its known weight, so that features
	// with many unknown values are not unfairly rewarded.
	Weighted bool
	// Prior is the Dirichlet prior of the BayesianDirichlet
	// measure. Values below or equal to 0 select the default
	// uniform prior of 1.
	Prior float64
}

/*
Measure selects a scoring measure for discrete targets, evaluated
on a frequency table.
*/
type Measure int

const (
	// None is the null measure: it makes every split worthless.
	None Measure = iota
	// InfoGain is the Shannon information gain.
	InfoGain
	// BalancedInfoGain is the information gain divided by the
	// binary logarithm of the number of supported columns.
	BalancedInfoGain
	// InfoGainRatio is the information gain divided by the split
	// entropy.
	InfoGainRatio
	// SymInfoGainRatio is the information gain divided by the
	// joint entropy of split and target.
	SymInfoGainRatio
	// QuadInfoGain is the quadratic (Gini) information gain.
	QuadInfoGain
	// QuadInfoGainRatio is the quadratic information gain divided
	// by the quadratic split information.
	QuadInfoGainRatio
	// GiniIndex is the relative reduction of the Gini impurity of
	// the target.
	GiniIndex
	// ChiSquare is the chi-square statistic of the table.
	ChiSquare
	// NormalizedChiSquare is the chi-square statistic normalized
	// by the known weight and the smaller table dimension.
	NormalizedChiSquare
	// WeightOfEvidence is Kononenko's weight of evidence.
	WeightOfEvidence
	// Relevance is the expected gain in classification accuracy
	// over always predicting the majority class.
	Relevance
	// BayesianDirichlet is the log Bayesian-Dirichlet score of the
	// split against the unsplit table, with prior Params.Prior.
	BayesianDirichlet
	// AbsoluteDescriptionLength is the reduction of the
	// description length of the target achieved by the split.
	AbsoluteDescriptionLength
	// RelativeDescriptionLength is the relative reduction of the
	// description length of the target achieved by the split.
	RelativeDescriptionLength
	// SpecificityGain is the reduction of the nonspecificity of
	// the target distribution achieved by the split.
	SpecificityGain
)

var measureNames = map[string]Measure{
	"none":    None,
	"infgain": InfoGain,
	"infgbal": BalancedInfoGain,
	"infgr":   InfoGainRatio,
	"infsgr":  SymInfoGainRatio,
	"qigain":  QuadInfoGain,
	"qigr":    QuadInfoGainRatio,
	"gini":    GiniIndex,
	"chi2":    ChiSquare,
	"chi2nrm": NormalizedChiSquare,
	"wevid":   WeightOfEvidence,
	"relev":   Relevance,
	"bdm":     BayesianDirichlet,
	"rdlabs":  AbsoluteDescriptionLength,
	"rdlrel":  RelativeDescriptionLength,
	"spcgain": SpecificityGain,
}

/*
Parse takes a measure name and returns the measure it selects.
Unknown names select None, so that growing with a bogus measure
simply yields a single root leaf.
*/
func Parse(name string) Measure {
	return measureNames[name]
}

func (m Measure) String() string {
	for n, v := range measureNames {
		if v == m {
			return n
		}
	}
	return "none"
}

// columnView is a frequency table unrolled into dense slices over
// its supported columns and known rows, the form every measure is
// computed from.
type columnView struct {
	n    float64     // known weight
	cols []float64   // supported column marginals
	rows []float64   // class marginals over supported columns
	frq  [][]float64 // per-column class frequencies
}

func viewTable(t *stats.FrequencyTable) *columnView {
	v := &columnView{rows: make([]float64, t.YCount())}
	for x := 0; x < t.XCount(); x++ {
		if !t.Canonical(x) {
			continue
		}
		// the column weight is derived from the known-class cells, so
		// unknown-target mass never skews the per-column distributions
		col := make([]float64, t.YCount())
		var m float64
		for y := 0; y < t.YCount(); y++ {
			f := t.Frequency(x, y)
			col[y] = f
			m += f
		}
		if m <= 0 {
			continue
		}
		for y, f := range col {
			v.rows[y] += f
		}
		v.n += m
		v.cols = append(v.cols, m)
		v.frq = append(v.frq, col)
	}
	return v
}

/*
Evaluate takes a marginalized frequency table and measure parameters
and returns the worth of the partition the table describes. Tables
with fewer than 2 supported columns are Worthless; tables with no
known weight have worth 0.
*/
func (m Measure) Evaluate(t *stats.FrequencyTable, p Params) float64 {
	if m == None {
		return Worthless
	}
	v := viewTable(t)
	if v.n <= 0 {
		return 0
	}
	if len(v.cols) < 2 {
		return Worthless
	}
	var worth float64
	switch m {
	case InfoGain:
		worth = infoGain(v)
	case BalancedInfoGain:
		worth = infoGain(v) / math.Log2(float64(len(v.cols)))
	case InfoGainRatio:
		hx := entropy(v.cols, v.n)
		if hx <= 0 {
			return 0
		}
		worth = infoGain(v) / hx
	case SymInfoGainRatio:
		hxy := jointEntropy(v)
		if hxy <= 0 {
			return 0
		}
		worth = infoGain(v) / hxy
	case QuadInfoGain:
		worth = quadGain(v)
	case QuadInfoGainRatio:
		gx := quadInfo(v.cols, v.n)
		if gx <= 0 {
			return 0
		}
		worth = quadGain(v) / gx
	case GiniIndex:
		gy := quadInfo(v.rows, v.n)
		if gy <= 0 {
			return 0
		}
		worth = quadGain(v) / gy
	case ChiSquare:
		worth = chiSquare(v)
	case NormalizedChiSquare:
		d := len(v.cols) - 1
		if k := supported(v.rows) - 1; k < d {
			d = k
		}
		if d <= 0 {
			return 0
		}
		worth = chiSquare(v) / (v.n * float64(d))
	case WeightOfEvidence:
		worth = weightOfEvidence(v)
	case Relevance:
		worth = relevance(v)
	case BayesianDirichlet:
		worth = bayesianDirichlet(v, p.Prior)
	case AbsoluteDescriptionLength:
		worth = descriptionLengthGain(v)
	case RelativeDescriptionLength:
		dl := descriptionLength(v.n, v.rows)
		if dl <= 0 {
			return 0
		}
		worth = descriptionLengthGain(v) / dl
	case SpecificityGain:
		worth = specificityGain(v)
	default:
		return Worthless
	}
	if p.Weighted && t.Total() > 0 {
		worth *= t.Known() / t.Total()
	}
	return worth
}

func supported(frqs []float64) int {
	k := 0
	for _, f := range frqs {
		if f > 0 {
			k++
		}
	}
	return k
}

func entropy(frqs []float64, n float64) float64 {
	var h float64
	for _, f := range frqs {
		if f > 0 {
			p := f / n
			h -= p * math.Log2(p)
		}
	}
	return h
}

func jointEntropy(v *columnView) float64 {
	var h float64
	for _, col := range v.frq {
		for _, f := range col {
			if f > 0 {
				p := f / v.n
				h -= p * math.Log2(p)
			}
		}
	}
	return h
}

func infoGain(v *columnView) float64 {
	gain := entropy(v.rows, v.n)
	for i, col := range v.frq {
		gain -= v.cols[i] / v.n * entropy(col, v.cols[i])
	}
	return gain
}

func quadInfo(frqs []float64, n float64) float64 {
	var q float64
	for _, f := range frqs {
		p := f / n
		q += p * p
	}
	return 1 - q
}

func quadGain(v *columnView) float64 {
	gain := quadInfo(v.rows, v.n)
	for i, col := range v.frq {
		gain -= v.cols[i] / v.n * quadInfo(col, v.cols[i])
	}
	return gain
}

func chiSquare(v *columnView) float64 {
	var chi2 float64
	for i, col := range v.frq {
		for j, f := range col {
			e := v.cols[i] * v.rows[j] / v.n
			if e > 0 {
				d := f - e
				chi2 += d * d / e
			}
		}
	}
	return chi2
}

// clampProb keeps probabilities away from 0 and 1 so that odds and
// their logarithms stay finite.
func clampProb(p float64) float64 {
	const eps = 1e-12
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}

func weightOfEvidence(v *columnView) float64 {
	var worth float64
	for j, r := range v.rows {
		if r <= 0 {
			continue
		}
		q := clampProb(r / v.n)
		var wev float64
		for i, col := range v.frq {
			pc := clampProb(col[j] / v.cols[i])
			wev += v.cols[i] / v.n * math.Abs(math.Log2(pc/(1-pc)*(1-q)/q))
		}
		worth += r / v.n * wev
	}
	return worth
}

func relevance(v *columnView) float64 {
	var base float64
	for _, r := range v.rows {
		if r > base {
			base = r
		}
	}
	var hit float64
	for _, col := range v.frq {
		var best float64
		for _, f := range col {
			if f > best {
				best = f
			}
		}
		hit += best
	}
	return (hit - base) / v.n
}

func bayesianDirichlet(v *columnView, prior float64) float64 {
	if prior <= 0 {
		prior = 1
	}
	k := float64(len(v.rows))
	score := func(n float64, frqs []float64) float64 {
		s, _ := math.Lgamma(k * prior)
		g, _ := math.Lgamma(k*prior + n)
		s -= g
		for _, f := range frqs {
			a, _ := math.Lgamma(prior + f)
			b, _ := math.Lgamma(prior)
			s += a - b
		}
		return s
	}
	worth := -score(v.n, v.rows)
	for i, col := range v.frq {
		worth += score(v.cols[i], col)
	}
	return worth
}

// descriptionLength is the length of a two-part code for a block of
// n target observations: the class counts first, then the actual
// class sequence given the counts.
func descriptionLength(n float64, frqs []float64) float64 {
	k := float64(len(frqs))
	lg := func(x float64) float64 {
		g, _ := math.Lgamma(x + 1)
		return g
	}
	counts := lg(n+k-1) - lg(n) - lg(k-1)
	seq := lg(n)
	for _, f := range frqs {
		seq -= lg(f)
	}
	return counts + seq
}

func descriptionLengthGain(v *columnView) float64 {
	gain := descriptionLength(v.n, v.rows)
	for i, col := range v.frq {
		gain -= descriptionLength(v.cols[i], col)
	}
	return gain
}

// nonSpecificity is the U-uncertainty of the possibility
// distribution obtained by normalizing the frequencies to their
// maximum.
func nonSpecificity(frqs []float64) float64 {
	sorted := make([]float64, len(frqs))
	copy(sorted, frqs)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if sorted[0] <= 0 {
		return 0
	}
	var u float64
	for r := 1; r < len(sorted); r++ {
		u += sorted[r] / sorted[0] * (math.Log2(float64(r+1)) - math.Log2(float64(r)))
	}
	return u
}

func specificityGain(v *columnView) float64 {
	gain := nonSpecificity(v.rows)
	for i, col := range v.frq {
		gain -= v.cols[i] / v.n * nonSpecificity(col)
	}
	return gain
}
