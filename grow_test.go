package sylva_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sylva"
	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
)

func discreteTuple(weight float64, values ...int) *dataset.Tuple {
	cells := make([]dataset.Instance, len(values))
	for i, v := range values {
		if v < 0 {
			cells[i] = dataset.NullInstance()
		} else {
			cells[i] = dataset.DiscreteInstance(v)
		}
	}
	return dataset.NewTuple(cells, weight)
}

// outlookTable returns a table where outlook determines play
// completely: 5 sunny/yes and 5 rainy/no tuples.
func outlookTable(t *testing.T) *dataset.Table {
	features := []*feature.Feature{
		feature.NewDiscrete("outlook", []string{"sunny", "rainy"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	var tuples []*dataset.Tuple
	for i := 0; i < 5; i++ {
		tuples = append(tuples, discreteTuple(1, 0, 1))
		tuples = append(tuples, discreteTuple(1, 1, 0))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)
	return tbl
}

func TestGrowSeparableAttribute(t *testing.T) {
	tbl := outlookTable(t)
	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.NotNil(t, tr.Root)
	assert.Equal(t, 1, tr.Height())
	assert.Equal(t, 3, tr.Size())
	assert.Equal(t, 10.0, tr.Weight())
	assert.Equal(t, 0, tr.Root.Attr)

	sunny := tr.Root.Branch(0)
	rainy := tr.Root.Branch(1)
	require.NotNil(t, sunny)
	require.NotNil(t, rainy)
	assert.Equal(t, 5.0, sunny.Frq)
	assert.Equal(t, 0.0, sunny.Err)
	assert.Equal(t, 1, sunny.Cls)
	assert.Equal(t, 5.0, rainy.Frq)
	assert.Equal(t, 0.0, rainy.Err)
	assert.Equal(t, 0, rainy.Cls)
}

func TestGrowMaxHeightZero(t *testing.T) {
	tbl := outlookTable(t)
	cfg := sylva.DefaultGrowConfig()
	cfg.MaxHeight = 0
	tr, err := sylva.Grow(tbl, 1, cfg)
	require.NoError(t, err)
	require.True(t, tr.Root.IsLeaf())
	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, 10.0, tr.Root.Frq)
	assert.Equal(t, 5.0, tr.Root.Err)
	assert.Equal(t, []float64{5, 5}, tr.Root.Frqs)
}

func TestGrowUselessAttributeStaysLeaf(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("noise", []string{"a", "b"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	tuples := []*dataset.Tuple{
		discreteTuple(1, 0, 0),
		discreteTuple(1, 0, 1),
		discreteTuple(1, 1, 0),
		discreteTuple(1, 1, 1),
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	assert.True(t, tr.Root.IsLeaf(), "a worthless split should not be kept")
	assert.Equal(t, 1, tr.Size())

	cfg := sylva.DefaultGrowConfig()
	cfg.KeepGrown = true
	tbl, err = dataset.New(features, tuples)
	require.NoError(t, err)
	tr, err = sylva.Grow(tbl, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Size(), "KeepGrown should keep the grown subtree")
}

func TestGrowMinWorthBlocksSplit(t *testing.T) {
	tbl := outlookTable(t)
	cfg := sylva.DefaultGrowConfig()
	cfg.MinWorth = 2
	tr, err := sylva.Grow(tbl, 1, cfg)
	require.NoError(t, err)
	assert.True(t, tr.Root.IsLeaf())
}

func TestGrowConservesFrequenciesWithUnknowns(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("outlook", []string{"sunny", "rainy"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	tuples := []*dataset.Tuple{
		discreteTuple(1, 0, 1),
		discreteTuple(1, 0, 1),
		discreteTuple(1, 1, 0),
		discreteTuple(1, 1, 0),
		discreteTuple(1, -1, 0),
		discreteTuple(1, -1, 1),
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.False(t, tr.Root.IsLeaf())
	assert.Equal(t, 6.0, tr.Root.Frq)

	var childFrq float64
	for s := range tr.Root.Slots {
		if tr.Root.Slots[s].Owned() {
			child := tr.Root.Slots[s].Child
			childFrq += child.Frq
			var leafFrq float64
			for _, f := range child.Frqs {
				leafFrq += f
			}
			assert.InDelta(t, child.Frq, leafFrq, 1e-9)
		}
	}
	assert.InDelta(t, tr.Root.Frq, childFrq, 1e-9, "spreading unknown mass should conserve the total weight")

	// each branch gets half the unknown mass on top of its 2 known cases
	sunny := tr.Root.Branch(0)
	assert.InDelta(t, 3.0, sunny.Frq, 1e-9)
	assert.InDelta(t, 0.5, sunny.Err, 1e-9)

	// growing leaves the execution weights as it found them
	for _, tp := range tbl.Tuples() {
		assert.InDelta(t, tp.Weight(), tp.XWeight(), 1e-9)
	}
}

func TestGrowNumericCut(t *testing.T) {
	features := []*feature.Feature{
		feature.NewContinuous("x"),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	xs := []float64{1, 2, 3, 4}
	ys := []int{0, 0, 1, 1}
	var tuples []*dataset.Tuple
	for i := range xs {
		tuples = append(tuples, dataset.NewTuple([]dataset.Instance{
			dataset.NumberInstance(xs[i]),
			dataset.DiscreteInstance(ys[i]),
		}, 1))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.False(t, tr.Root.IsLeaf())
	assert.Equal(t, 0, tr.Root.Attr)
	assert.Greater(t, tr.Root.Cut, 2.0, "the cut must lie strictly between the last value below and the first above")
	assert.Less(t, tr.Root.Cut, 3.0)
	assert.InDelta(t, 2.5, tr.Root.Cut, 1e-9)

	below := tr.Root.Branch(0)
	above := tr.Root.Branch(1)
	assert.Equal(t, 0, below.Cls)
	assert.Equal(t, 1, above.Cls)
	assert.Equal(t, 0.0, below.Err)
	assert.Equal(t, 0.0, above.Err)
}

func TestGrowConstantMetricTarget(t *testing.T) {
	features := []*feature.Feature{
		feature.NewContinuous("x"),
		feature.NewContinuous("y"),
	}
	var tuples []*dataset.Tuple
	for i := 0; i < 6; i++ {
		tuples = append(tuples, dataset.NewTuple([]dataset.Instance{
			dataset.NumberInstance(float64(i)),
			dataset.NumberInstance(3),
		}, 1))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.True(t, tr.Root.IsLeaf(), "a constant target has nothing to split")
	assert.Equal(t, 3.0, tr.Root.Mean)
	assert.Equal(t, 0.0, tr.Root.Err)
	assert.Equal(t, 6.0, tr.Root.Frq)
	assert.True(t, tr.Metric())
}

func TestGrowMetricTargetSplits(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("group", []string{"low", "high"}),
		feature.NewContinuous("y"),
	}
	var tuples []*dataset.Tuple
	for i := 0; i < 3; i++ {
		tuples = append(tuples, dataset.NewTuple([]dataset.Instance{
			dataset.DiscreteInstance(0),
			dataset.NumberInstance(1),
		}, 1))
		tuples = append(tuples, dataset.NewTuple([]dataset.Instance{
			dataset.DiscreteInstance(1),
			dataset.NumberInstance(5),
		}, 1))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.False(t, tr.Root.IsLeaf())
	low := tr.Root.Branch(0)
	high := tr.Root.Branch(1)
	assert.InDelta(t, 1.0, low.Mean, 1e-9)
	assert.InDelta(t, 5.0, high.Mean, 1e-9)
	assert.Equal(t, 0.0, low.Err)
	assert.Equal(t, 0.0, high.Err)
}

func TestGrowBadTarget(t *testing.T) {
	tbl := outlookTable(t)
	_, err := sylva.Grow(tbl, 5, sylva.DefaultGrowConfig())
	assert.Error(t, err)
	_, err = sylva.Grow(tbl, -1, sylva.DefaultGrowConfig())
	assert.Error(t, err)
}

func TestGrowEmptyTargetDomain(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("outlook", []string{"sunny", "rainy"}),
		feature.NewDiscrete("play", nil),
	}
	tbl, err := dataset.New(features, nil)
	require.NoError(t, err)
	_, err = sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	assert.Error(t, err)
}

func TestGrowEmptyTable(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("outlook", []string{"sunny", "rainy"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	tbl, err := dataset.New(features, nil)
	require.NoError(t, err)
	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.True(t, tr.Root.IsLeaf())
	assert.Equal(t, 0.0, tr.Root.Frq)
	assert.Equal(t, 1, tr.Size())
}

func TestGrowBinarySplitMethod(t *testing.T) {
	// the middle value alone determines the class; a binary split
	// should put it on one side and link the other two together
	features := []*feature.Feature{
		feature.NewDiscrete("color", []string{"red", "green", "blue"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	var tuples []*dataset.Tuple
	for i := 0; i < 3; i++ {
		tuples = append(tuples, discreteTuple(1, 0, 0))
		tuples = append(tuples, discreteTuple(1, 1, 1))
		tuples = append(tuples, discreteTuple(1, 2, 0))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	cfg := sylva.DefaultGrowConfig()
	cfg.Method = sylva.SplitBinary
	tr, err := sylva.Grow(tbl, 1, cfg)
	require.NoError(t, err)
	require.False(t, tr.Root.IsLeaf())
	require.Len(t, tr.Root.Slots, 3)

	var owned, linked int
	for _, s := range tr.Root.Slots {
		switch {
		case s.Owned():
			owned++
		case s.Linked():
			linked++
		}
	}
	assert.Equal(t, 2, owned)
	assert.Equal(t, 1, linked)
	assert.Equal(t, tr.Root.CanonicalSlot(0), tr.Root.CanonicalSlot(2), "red and blue should share a branch")
	assert.NotEqual(t, tr.Root.CanonicalSlot(0), tr.Root.CanonicalSlot(1))

	green := tr.Root.Branch(1)
	assert.Equal(t, 1, green.Cls)
	assert.Equal(t, 0.0, green.Err)
	rest := tr.Root.Branch(0)
	assert.Equal(t, 6.0, rest.Frq)
	assert.Equal(t, 0.0, rest.Err)
}

func TestGrowUnsupportedValueGetsEmptySlot(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("color", []string{"red", "green", "blue"}),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
	var tuples []*dataset.Tuple
	for i := 0; i < 3; i++ {
		tuples = append(tuples, discreteTuple(1, 0, 0))
		tuples = append(tuples, discreteTuple(1, 1, 1))
	}
	tbl, err := dataset.New(features, tuples)
	require.NoError(t, err)

	tr, err := sylva.Grow(tbl, 1, sylva.DefaultGrowConfig())
	require.NoError(t, err)
	require.False(t, tr.Root.IsLeaf())
	require.Len(t, tr.Root.Slots, 3)
	assert.True(t, tr.Root.Slots[0].Owned())
	assert.True(t, tr.Root.Slots[1].Owned())
	assert.True(t, tr.Root.Slots[2].Empty(), "values absent from the data get an empty slot")
}
