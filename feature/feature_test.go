package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/sylva/feature"
)

func TestDiscreteFeature(t *testing.T) {
	f := feature.NewDiscrete("color", []string{"red", "green", "blue"})
	assert.Equal(t, "color", f.Name())
	assert.Equal(t, feature.Discrete, f.Kind())
	assert.False(t, f.Metric())
	assert.Equal(t, 3, f.ValueCount())

	assert.Equal(t, 1, f.Index("green"))
	assert.Equal(t, feature.NoValue, f.Index("yellow"))

	v, err := f.Value(2)
	assert.NoError(t, err)
	assert.Equal(t, "blue", v)
	_, err = f.Value(3)
	assert.Error(t, err)
	_, err = f.Value(-1)
	assert.Error(t, err)
}

func TestMetricFeatures(t *testing.T) {
	i := feature.NewInteger("age")
	c := feature.NewContinuous("size")
	assert.True(t, i.Metric())
	assert.True(t, c.Metric())
	assert.Equal(t, feature.Integer, i.Kind())
	assert.Equal(t, feature.Continuous, c.Kind())
	assert.Equal(t, 0, i.ValueCount())
	assert.Nil(t, c.Values())
}

func TestNullSentinels(t *testing.T) {
	assert.True(t, feature.IsNullValue(feature.NoValue))
	assert.False(t, feature.IsNullValue(0))
	assert.True(t, feature.IsNullNumber(feature.NullNumber()))
	assert.False(t, feature.IsNullNumber(0))
}

func TestFind(t *testing.T) {
	features := []*feature.Feature{
		feature.NewDiscrete("color", []string{"red"}),
		feature.NewContinuous("size"),
	}
	assert.Equal(t, 1, feature.Find(features, "size"))
	assert.Equal(t, -1, feature.Find(features, "weight"))
}
