package measure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/sylva/measure"
	"github.com/pbanos/sylva/stats"
)

func TestParseMetric(t *testing.T) {
	assert.Equal(t, measure.SSEReduction, measure.ParseMetric("sse"))
	assert.Equal(t, measure.VarianceReduction, measure.ParseMetric("var"))
	assert.Equal(t, measure.StdDevReduction, measure.ParseMetric("sdev"))
	assert.Equal(t, measure.MetricNone, measure.ParseMetric("none"))
	assert.Equal(t, measure.MetricNone, measure.ParseMetric("bogus"))
}

// separatedValues returns a table where each side of the split holds
// a single target value: two 1s on one side, two 3s on the other.
func separatedValues() *stats.VarianceTable {
	vt := stats.NewVarianceTable(2)
	vt.Add(0, 1, 1)
	vt.Add(0, 1, 1)
	vt.Add(1, 3, 1)
	vt.Add(1, 3, 1)
	return vt
}

func TestMetricEvaluateEdgeCases(t *testing.T) {
	empty := stats.NewVarianceTable(2)
	assert.Equal(t, measure.Worthless, measure.MetricNone.Evaluate(separatedValues(), measure.Params{}))
	assert.Equal(t, 0.0, measure.SSEReduction.Evaluate(empty, measure.Params{}))

	single := stats.NewVarianceTable(2)
	single.Add(0, 2, 3)
	assert.Equal(t, measure.Worthless, measure.SSEReduction.Evaluate(single, measure.Params{}))
}

func TestMetricEvaluateSeparatedValues(t *testing.T) {
	vt := separatedValues()
	p := measure.Params{}
	// the undivided SSE is 4 and both sides are constant
	assert.InDelta(t, 4.0, measure.SSEReduction.Evaluate(vt, p), 1e-9)
	assert.InDelta(t, 1.0, measure.MSEReduction.Evaluate(vt, p), 1e-9)
	assert.InDelta(t, 1.0, measure.RMSEReduction.Evaluate(vt, p), 1e-9)
	assert.InDelta(t, 4.0/3.0, measure.VarianceReduction.Evaluate(vt, p), 1e-9)
}

func TestMetricEvaluateConstantTarget(t *testing.T) {
	vt := stats.NewVarianceTable(2)
	vt.Add(0, 2, 2)
	vt.Add(1, 2, 2)
	assert.InDelta(t, 0.0, measure.SSEReduction.Evaluate(vt, measure.Params{}), 1e-9)
	assert.InDelta(t, 0.0, measure.VarianceReduction.Evaluate(vt, measure.Params{}), 1e-9)
}

func TestMetricEvaluateWeighted(t *testing.T) {
	vt := separatedValues()
	vt.Add(-1, 2, 4)
	worth := measure.SSEReduction.Evaluate(vt, measure.Params{Weighted: true})
	assert.InDelta(t, 2.0, worth, 1e-9)
}
