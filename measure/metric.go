package measure

import (
	"math"

	"github.com/pbanos/sylva/stats"
)

/*
MetricMeasure selects a scoring measure for metric targets,
evaluated on a variance table. All of them score a partition by how
much it reduces an error statistic of the undivided table.
*/
type MetricMeasure int

const (
	// MetricNone is the null measure: it makes every split
	// worthless.
	MetricNone MetricMeasure = iota
	// SSEReduction is the reduction of the sum of squared errors.
	SSEReduction
	// MSEReduction is the reduction of the mean squared error.
	MSEReduction
	// RMSEReduction is the reduction of the root mean squared
	// error.
	RMSEReduction
	// VarianceReduction is the reduction of the sample variance.
	VarianceReduction
	// StdDevReduction is the reduction of the sample standard
	// deviation.
	StdDevReduction
)

var metricMeasureNames = map[string]MetricMeasure{
	"none": MetricNone,
	"sse":  SSEReduction,
	"mse":  MSEReduction,
	"rmse": RMSEReduction,
	"var":  VarianceReduction,
	"sdev": StdDevReduction,
}

/*
ParseMetric takes a measure name and returns the metric measure it
selects. Unknown names select MetricNone, so that growing with a
bogus measure simply yields a single root leaf.
*/
func ParseMetric(name string) MetricMeasure {
	return metricMeasureNames[name]
}

func (m MetricMeasure) String() string {
	for n, v := range metricMeasureNames {
		if v == m {
			return n
		}
	}
	return "none"
}

/*
Evaluate takes a variance table and measure parameters and returns
the worth of the partition the table describes. Tables with fewer
than 2 supported columns are Worthless; tables with no known weight
have worth 0.
*/
func (m MetricMeasure) Evaluate(t *stats.VarianceTable, p Params) float64 {
	if m == MetricNone {
		return Worthless
	}
	n, sum, sqr := t.Aggregate()
	if n <= 0 {
		return 0
	}
	cols := 0
	for x := 0; x < t.Count(); x++ {
		if t.Canonical(x) && t.ColumnWeight(x) > 0 {
			cols++
		}
	}
	if cols < 2 {
		return Worthless
	}
	sse := sqr - sum*sum/n
	if sse < 0 {
		sse = 0
	}
	var worth float64
	switch m {
	case SSEReduction:
		worth = sse
	case MSEReduction:
		worth = sse / n
	case RMSEReduction:
		worth = math.Sqrt(sse / n)
	case VarianceReduction:
		worth = variance(n, sse)
	case StdDevReduction:
		worth = math.Sqrt(variance(n, sse))
	default:
		return Worthless
	}
	for x := 0; x < t.Count(); x++ {
		if !t.Canonical(x) {
			continue
		}
		cn := t.ColumnWeight(x)
		if cn <= 0 {
			continue
		}
		csse := t.SSE(x)
		switch m {
		case SSEReduction:
			worth -= csse
		case MSEReduction:
			worth -= csse / n
		case RMSEReduction:
			worth -= cn / n * math.Sqrt(csse/cn)
		case VarianceReduction:
			worth -= cn / n * variance(cn, csse)
		case StdDevReduction:
			worth -= cn / n * math.Sqrt(variance(cn, csse))
		}
	}
	if p.Weighted && t.Total() > 0 {
		worth *= t.Known() / t.Total()
	}
	return worth
}

func variance(n, sse float64) float64 {
	if n <= 1 {
		return 0
	}
	return sse / (n - 1)
}
