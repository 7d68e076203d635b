package csv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/dataset/csv"
	"github.com/pbanos/sylva/feature"
)

func testFeatures() []*feature.Feature {
	return []*feature.Feature{
		feature.NewDiscrete("color", []string{"red", "green"}),
		feature.NewInteger("age"),
		feature.NewContinuous("size"),
	}
}

func TestReadTable(t *testing.T) {
	content := "color,age,size\nred,3,1.5\ngreen,?,0.25\n,4,\n"
	table, err := csv.ReadTable(strings.NewReader(content), testFeatures())
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	tp := table.Tuples()[0]
	assert.Equal(t, 0, tp.Value(0))
	assert.Equal(t, 3.0, tp.Number(1))
	assert.Equal(t, 1.5, tp.Number(2))
	assert.Equal(t, 1.0, tp.Weight())

	tp = table.Tuples()[1]
	assert.Equal(t, 1, tp.Value(0))
	assert.True(t, feature.IsNullNumber(tp.Number(1)), "'?' should read as an unknown value")

	tp = table.Tuples()[2]
	assert.True(t, feature.IsNullValue(tp.Value(0)), "an empty cell should read as an unknown value")
	assert.True(t, feature.IsNullNumber(tp.Number(2)))
}

func TestReadTableReorderedColumns(t *testing.T) {
	content := "size,color,age\n1.5,red,3\n"
	table, err := csv.ReadTable(strings.NewReader(content), testFeatures())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "size", table.Features()[0].Name())
	assert.Equal(t, 1.5, table.Tuples()[0].Number(0))
	assert.Equal(t, 0, table.Tuples()[0].Value(1))
}

func TestReadTableErrors(t *testing.T) {
	_, err := csv.ReadTable(strings.NewReader("color,height\nred,2\n"), testFeatures())
	assert.Error(t, err, "undefined features in the header should fail")

	_, err = csv.ReadTable(strings.NewReader("color,age,size\nblue,3,1.5\n"), testFeatures())
	assert.Error(t, err, "values outside a discrete domain should fail")

	_, err = csv.ReadTable(strings.NewReader("color,age,size\nred,one,1.5\n"), testFeatures())
	assert.Error(t, err, "non-integer values for integer features should fail")

	_, err = csv.ReadTable(strings.NewReader(""), testFeatures())
	assert.Error(t, err, "a stream without a header should fail")
}

func TestWriteTable(t *testing.T) {
	features := testFeatures()
	tuples := []*dataset.Tuple{
		dataset.NewTuple([]dataset.Instance{
			dataset.DiscreteInstance(1),
			dataset.NumberInstance(3),
			dataset.NumberInstance(0.5),
		}, 1),
		dataset.NewTuple([]dataset.Instance{
			dataset.NullInstance(),
			dataset.NullInstance(),
			dataset.NumberInstance(2),
		}, 1),
	}
	table, err := dataset.New(features, tuples)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, csv.WriteTable(&buf, table))
	assert.Equal(t, "color,age,size\ngreen,3,0.5\n?,?,2\n", buf.String())
}

func TestReadBackWrittenTable(t *testing.T) {
	features := testFeatures()
	table, err := dataset.New(features, []*dataset.Tuple{
		dataset.NewTuple([]dataset.Instance{
			dataset.DiscreteInstance(0),
			dataset.NumberInstance(7),
			dataset.NumberInstance(1.25),
		}, 1),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, csv.WriteTable(&buf, table))
	read, err := csv.ReadTable(&buf, features)
	require.NoError(t, err)
	require.Equal(t, 1, read.Len())
	assert.Equal(t, 0, read.Tuples()[0].Value(0))
	assert.Equal(t, 7.0, read.Tuples()[0].Number(1))
	assert.Equal(t, 1.25, read.Tuples()[0].Number(2))
}
