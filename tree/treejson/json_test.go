package treejson_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/tree"
	"github.com/pbanos/sylva/tree/treejson"
)

func testFeatures() []*feature.Feature {
	return []*feature.Feature{
		feature.NewDiscrete("color", []string{"red", "green", "blue"}),
		feature.NewContinuous("size"),
		feature.NewDiscrete("play", []string{"no", "yes"}),
	}
}

// testTree builds a tree exercising every slot kind and a metric cut:
// color splits three ways with blue linked to red's branch and green
// unsupported, and red's branch tests size against a threshold.
func testTree(t *testing.T) *tree.Tree {
	features := testFeatures()
	tr, err := tree.New(features, 2)
	require.NoError(t, err)
	sizeTest := &tree.Node{
		Attr: 1,
		Cut:  2.5,
		Frq:  6,
		Err:  1,
		Frqs: []float64{5, 1},
		Slots: []tree.Slot{
			tree.OwnedSlot(&tree.Node{Attr: 2, Frq: 4, Frqs: []float64{4, 0}}),
			tree.OwnedSlot(&tree.Node{Attr: 2, Frq: 2, Cls: 1, Err: 1, Frqs: []float64{1, 1}}),
		},
	}
	tr.Root = &tree.Node{
		Attr: 0,
		Frq:  6,
		Err:  1,
		Frqs: []float64{5, 1},
		Slots: []tree.Slot{
			tree.OwnedSlot(sizeTest),
			tree.EmptySlot(),
			tree.LinkedSlot(0),
		},
	}
	tr.Refresh()
	return tr
}

func TestWriteAndReadTree(t *testing.T) {
	original := testTree(t)
	var buf bytes.Buffer
	require.NoError(t, treejson.WriteTree(&buf, original))

	decoded, err := treejson.ReadTree(&buf, testFeatures())
	require.NoError(t, err)
	assert.Equal(t, original.Target(), decoded.Target())
	assert.Equal(t, original.Height(), decoded.Height())
	assert.Equal(t, original.Size(), decoded.Size())
	assert.Equal(t, original.Root, decoded.Root)

	assert.True(t, decoded.Root.Slots[1].Empty())
	assert.True(t, decoded.Root.Slots[2].Linked())
	assert.Equal(t, 2.5, decoded.Root.Branch(2).Cut)
}

func TestWriteAndReadEmptyTree(t *testing.T) {
	tr, err := tree.New(testFeatures(), 2)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, treejson.WriteTree(&buf, tr))
	decoded, err := treejson.ReadTree(&buf, testFeatures())
	require.NoError(t, err)
	assert.Nil(t, decoded.Root)
	assert.Equal(t, 0, decoded.Size())
}

func TestReadTreeErrors(t *testing.T) {
	_, err := treejson.ReadTree(strings.NewReader("{not json"), testFeatures())
	assert.Error(t, err)

	_, err = treejson.ReadTree(strings.NewReader(`{"target":9}`), testFeatures())
	assert.Error(t, err, "out-of-range targets should fail")

	_, err = treejson.ReadTree(strings.NewReader(`{"target":2,"root":{"attr":7,"frq":1,"err":0}}`), testFeatures())
	assert.Error(t, err, "out-of-range feature references should fail")

	doc := `{"target":2,"root":{"attr":0,"frq":1,"err":0,"slots":[{"link":5},{"child":{"attr":2,"frq":1,"err":0}}]}}`
	_, err = treejson.ReadTree(strings.NewReader(doc), testFeatures())
	assert.Error(t, err, "out-of-range links should fail")

	doc = `{"target":2,"root":{"attr":0,"frq":1,"err":0,"slots":[{"link":0},{"child":{"attr":2,"frq":1,"err":0}}]}}`
	_, err = treejson.ReadTree(strings.NewReader(doc), testFeatures())
	assert.Error(t, err, "self-links should fail")
}
