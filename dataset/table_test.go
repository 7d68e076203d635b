package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
)

func testFeatures() []*feature.Feature {
	return []*feature.Feature{
		feature.NewDiscrete("color", []string{"red", "green"}),
		feature.NewContinuous("size"),
	}
}

func tuple(color int, size float64, weight float64) *dataset.Tuple {
	return dataset.NewTuple([]dataset.Instance{
		dataset.DiscreteInstance(color),
		dataset.NumberInstance(size),
	}, weight)
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	short := dataset.NewTuple([]dataset.Instance{dataset.DiscreteInstance(0)}, 1)
	_, err := dataset.New(testFeatures(), []*dataset.Tuple{short})
	assert.Error(t, err)
}

func TestAddRejectsShapeMismatch(t *testing.T) {
	tbl, err := dataset.New(testFeatures(), nil)
	require.NoError(t, err)
	assert.Error(t, tbl.Add(dataset.NewTuple(nil, 1)))
	require.NoError(t, tbl.Add(tuple(0, 1, 2)))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 2.0, tbl.Weight())
}

func TestResetXWeights(t *testing.T) {
	tp := tuple(0, 1, 2)
	tbl, err := dataset.New(testFeatures(), []*dataset.Tuple{tp})
	require.NoError(t, err)
	tp.SetXWeight(0.25)
	assert.Equal(t, 0.25, tp.XWeight())
	assert.Equal(t, 2.0, tp.Weight())
	tbl.ResetXWeights()
	assert.Equal(t, 2.0, tp.XWeight())
}

func TestTupleNullCells(t *testing.T) {
	tp := dataset.NewTuple([]dataset.Instance{
		dataset.NullInstance(),
		dataset.NullInstance(),
	}, 1)
	assert.True(t, tp.Instance(0).Null(feature.Discrete))
	assert.True(t, tp.Instance(1).Null(feature.Continuous))
	assert.True(t, feature.IsNullValue(tp.Value(0)))
	assert.True(t, feature.IsNullNumber(tp.Number(1)))
}

func TestPartition(t *testing.T) {
	var tuples []*dataset.Tuple
	for i := 0; i < 6; i++ {
		tuples = append(tuples, tuple(i%2, float64(i), 1))
	}
	reds := func(tp *dataset.Tuple) bool { return tp.Value(0) == 0 }
	n := dataset.Partition(tuples, reds)
	require.Equal(t, 3, n)
	for _, tp := range tuples[:n] {
		assert.Equal(t, 0, tp.Value(0))
	}
	for _, tp := range tuples[n:] {
		assert.Equal(t, 1, tp.Value(0))
	}
	// matching tuples keep their relative order
	assert.Equal(t, 0.0, tuples[0].Number(1))
	assert.Equal(t, 2.0, tuples[1].Number(1))
	assert.Equal(t, 4.0, tuples[2].Number(1))
}

func TestPartitionAllAndNone(t *testing.T) {
	tuples := []*dataset.Tuple{tuple(0, 1, 1), tuple(0, 2, 1)}
	assert.Equal(t, 2, dataset.Partition(tuples, func(*dataset.Tuple) bool { return true }))
	assert.Equal(t, 0, dataset.Partition(tuples, func(*dataset.Tuple) bool { return false }))
	assert.Equal(t, 0, dataset.Partition(nil, func(*dataset.Tuple) bool { return true }))
}
