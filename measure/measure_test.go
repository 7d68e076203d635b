package measure_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/sylva/measure"
	"github.com/pbanos/sylva/stats"
)

func TestParse(t *testing.T) {
	assert.Equal(t, measure.InfoGain, measure.Parse("infgain"))
	assert.Equal(t, measure.InfoGainRatio, measure.Parse("infgr"))
	assert.Equal(t, measure.GiniIndex, measure.Parse("gini"))
	assert.Equal(t, measure.ChiSquare, measure.Parse("chi2"))
	assert.Equal(t, measure.BayesianDirichlet, measure.Parse("bdm"))
	assert.Equal(t, measure.None, measure.Parse("none"))
	assert.Equal(t, measure.None, measure.Parse("bogus"))
}

// perfectSplit returns a table where the split value determines the
// class completely: 5 tuples on each side.
func perfectSplit() *stats.FrequencyTable {
	ft := stats.NewFrequencyTable(2, 2)
	ft.Add(0, 0, 5)
	ft.Add(1, 1, 5)
	ft.Marginalize()
	return ft
}

func TestEvaluateEdgeCases(t *testing.T) {
	ft := stats.NewFrequencyTable(2, 2)
	ft.Marginalize()
	assert.Equal(t, measure.Worthless, measure.None.Evaluate(perfectSplit(), measure.Params{}))
	assert.Equal(t, 0.0, measure.InfoGain.Evaluate(ft, measure.Params{}))

	single := stats.NewFrequencyTable(2, 2)
	single.Add(0, 0, 5)
	single.Marginalize()
	assert.Equal(t, measure.Worthless, measure.InfoGain.Evaluate(single, measure.Params{}))
}

func TestEvaluatePerfectSplit(t *testing.T) {
	ft := perfectSplit()
	p := measure.Params{}
	assert.InDelta(t, 1.0, measure.InfoGain.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 1.0, measure.BalancedInfoGain.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 1.0, measure.InfoGainRatio.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 1.0, measure.GiniIndex.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 10.0, measure.ChiSquare.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 0.5, measure.Relevance.Evaluate(ft, p), 1e-9)
}

func TestEvaluateUninformativeSplit(t *testing.T) {
	ft := stats.NewFrequencyTable(2, 2)
	ft.Add(0, 0, 2)
	ft.Add(0, 1, 2)
	ft.Add(1, 0, 2)
	ft.Add(1, 1, 2)
	ft.Marginalize()
	p := measure.Params{}
	assert.InDelta(t, 0.0, measure.InfoGain.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 0.0, measure.ChiSquare.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 0.0, measure.QuadInfoGain.Evaluate(ft, p), 1e-9)
}

func TestEvaluateWeighted(t *testing.T) {
	ft := perfectSplit()
	ft.Add(-1, 0, 5)
	ft.Marginalize()
	worth := measure.InfoGain.Evaluate(ft, measure.Params{Weighted: true})
	assert.InDelta(t, 10.0/15.0, worth, 1e-9)
	// without the flag unknown mass does not penalize
	assert.InDelta(t, 1.0, measure.InfoGain.Evaluate(ft, measure.Params{}), 1e-9)
}

func TestEvaluateIgnoresUnknownTargetMass(t *testing.T) {
	// weight with an unknown class must not inflate the column totals
	// the known-class distributions are normalized with
	ft := perfectSplit()
	ft.Add(0, -1, 3)
	ft.Marginalize()
	p := measure.Params{}
	assert.InDelta(t, 1.0, measure.InfoGain.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 1.0, measure.InfoGainRatio.Evaluate(ft, p), 1e-9)
	assert.InDelta(t, 1.0, measure.GiniIndex.Evaluate(ft, p), 1e-9)

	// a column carrying only unknown-class weight is not supported
	single := stats.NewFrequencyTable(2, 2)
	single.Add(0, 0, 5)
	single.Add(1, -1, 2)
	single.Marginalize()
	assert.Equal(t, measure.Worthless, measure.InfoGain.Evaluate(single, p))
}

func TestEvaluateAllMeasuresFiniteOnPerfectSplit(t *testing.T) {
	all := []measure.Measure{
		measure.InfoGain, measure.BalancedInfoGain, measure.InfoGainRatio,
		measure.SymInfoGainRatio, measure.QuadInfoGain, measure.QuadInfoGainRatio,
		measure.GiniIndex, measure.ChiSquare, measure.NormalizedChiSquare,
		measure.WeightOfEvidence, measure.Relevance, measure.BayesianDirichlet,
		measure.AbsoluteDescriptionLength, measure.RelativeDescriptionLength,
		measure.SpecificityGain,
	}
	ft := perfectSplit()
	for _, m := range all {
		worth := m.Evaluate(ft, measure.Params{})
		assert.False(t, math.IsInf(worth, 0), "%s returned an infinite worth", m)
		assert.False(t, math.IsNaN(worth), "%s returned NaN", m)
	}
}

func TestEvaluateAfterCombine(t *testing.T) {
	// merging the two columns of a perfect split leaves a single
	// supported column, which cannot be split on
	ft := perfectSplit()
	ft.Combine(0, 1)
	assert.Equal(t, measure.Worthless, measure.InfoGain.Evaluate(ft, measure.Params{}))
	ft.Uncombine(0)
	assert.InDelta(t, 1.0, measure.InfoGain.Evaluate(ft, measure.Params{}), 1e-9)
}
