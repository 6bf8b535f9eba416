package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/unit"
)

func TestInsertSplitsLinearChainUnchanged(t *testing.T) {
	def := &netdef.NetDef{
		Name: "chain",
		Units: []*netdef.UnitDef{
			{Name: "data", Type: "input", Tops: []string{"x"}},
			{Name: "act", Type: "relu", Bottoms: []string{"x"}, Tops: []string{"y"}},
		},
	}
	out := insertSplits(def)
	require.Len(t, out.Units, 2)
	assert.Equal(t, []string{"x"}, out.Units[1].Bottoms)
}

func TestInsertSplitsFanOut(t *testing.T) {
	def := &netdef.NetDef{
		Name: "fan",
		Units: []*netdef.UnitDef{
			{Name: "data", Type: "input", Tops: []string{"x"}},
			{Name: "left", Type: "relu", Bottoms: []string{"x"}, Tops: []string{"l"}},
			{Name: "right", Type: "sigmoid", Bottoms: []string{"x"}, Tops: []string{"r"}},
		},
	}
	out := insertSplits(def)
	require.Len(t, out.Units, 4)

	split := out.Units[1]
	assert.Equal(t, "x_data_0_split", split.Name)
	assert.Equal(t, unit.TypeSplit, split.Type)
	assert.Equal(t, []string{"x"}, split.Bottoms)
	assert.Equal(t, []string{"x_data_0_split_0", "x_data_0_split_1"}, split.Tops)

	// Consumers are rewired in declaration order.
	assert.Equal(t, []string{"x_data_0_split_0"}, out.Units[2].Bottoms)
	assert.Equal(t, []string{"x_data_0_split_1"}, out.Units[3].Bottoms)
}

func TestInsertSplitsInPlaceChain(t *testing.T) {
	// With an in-place rewrite of x, the in-place unit is the producer
	// of record: the split lands after it, and only the downstream
	// consumers are rewired.
	def := &netdef.NetDef{
		Name: "inplace",
		Units: []*netdef.UnitDef{
			{Name: "data", Type: "input", Tops: []string{"x"}},
			{Name: "act", Type: "relu", Bottoms: []string{"x"}, Tops: []string{"x"}},
			{Name: "left", Type: "sigmoid", Bottoms: []string{"x"}, Tops: []string{"l"}},
			{Name: "right", Type: "sigmoid", Bottoms: []string{"x"}, Tops: []string{"r"}},
		},
	}
	out := insertSplits(def)
	require.Len(t, out.Units, 5)

	assert.Equal(t, "act", out.Units[1].Name)
	assert.Equal(t, []string{"x"}, out.Units[1].Bottoms)

	split := out.Units[2]
	assert.Equal(t, "x_act_0_split", split.Name)
	assert.Equal(t, []string{"x_act_0_split_0"}, out.Units[3].Bottoms)
	assert.Equal(t, []string{"x_act_0_split_1"}, out.Units[4].Bottoms)
}

func TestInsertSplitsMultiTopProducer(t *testing.T) {
	def := &netdef.NetDef{
		Name: "multitop",
		Units: []*netdef.UnitDef{
			{Name: "data", Type: "input", Tops: []string{"a", "b"}},
			{Name: "u1", Type: "relu", Bottoms: []string{"b"}, Tops: []string{"c"}},
			{Name: "u2", Type: "relu", Bottoms: []string{"b"}, Tops: []string{"d"}},
		},
	}
	out := insertSplits(def)
	require.Len(t, out.Units, 4)

	// Only the shared top b (top index 1) fans out; a is untouched.
	split := out.Units[1]
	assert.Equal(t, "b_data_1_split", split.Name)
	assert.Equal(t, []string{"b"}, split.Bottoms)
}

func TestInsertSplitsUnknownBottomLeftAlone(t *testing.T) {
	def := &netdef.NetDef{
		Name: "dangling",
		Units: []*netdef.UnitDef{
			{Name: "u", Type: "relu", Bottoms: []string{"nowhere"}, Tops: []string{"y"}},
		},
	}
	out := insertSplits(def)
	require.Len(t, out.Units, 1)
	assert.Equal(t, []string{"nowhere"}, out.Units[0].Bottoms)
}

func TestInsertSplitsDoesNotMutateInput(t *testing.T) {
	def := &netdef.NetDef{
		Name: "fan",
		Units: []*netdef.UnitDef{
			{Name: "data", Type: "input", Tops: []string{"x"}},
			{Name: "left", Type: "relu", Bottoms: []string{"x"}, Tops: []string{"l"}},
			{Name: "right", Type: "relu", Bottoms: []string{"x"}, Tops: []string{"r"}},
		},
	}
	insertSplits(def)
	assert.Equal(t, []string{"x"}, def.Units[1].Bottoms)
	assert.Equal(t, []string{"x"}, def.Units[2].Bottoms)
}
