package graph

import (
	"k8s.io/klog/v2"

	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/unit"
)

// Name returns the graph's declared name.
func (n *Net) Name() string { return n.name }

// NumUnits returns the number of units after filtering and split
// insertion.
func (n *Net) NumUnits() int { return len(n.units) }

// UnitNames returns the unit names in execution order.
func (n *Net) UnitNames() []string { return n.unitNames }

// BufferNames returns the buffer names in registration order.
func (n *Net) BufferNames() []string { return n.bufferNames }

// HasBuffer reports whether a buffer with the given name exists.
func (n *Net) HasBuffer(name string) bool {
	_, ok := n.bufferIndex[name]
	return ok
}

// BufferByName returns the named buffer, or nil with a logged warning
// when no such buffer exists.
func (n *Net) BufferByName(name string) *tensor.RawTensor {
	id, ok := n.bufferIndex[name]
	if !ok {
		klog.Warningf("unknown buffer name %s", name)
		return nil
	}
	return n.buffers[id]
}

// HasUnit reports whether a unit with the given name exists.
func (n *Net) HasUnit(name string) bool {
	_, ok := n.unitIndex[name]
	return ok
}

// UnitByName returns the named unit, or nil with a logged warning when
// no such unit exists.
func (n *Net) UnitByName(name string) unit.Unit {
	id, ok := n.unitIndex[name]
	if !ok {
		klog.Warningf("unknown unit name %s", name)
		return nil
	}
	return n.units[id]
}

// InputBuffers returns the buffers produced by input units, in
// registration order.
func (n *Net) InputBuffers() []*tensor.RawTensor { return n.buffersAt(n.inputIDs) }

// OutputBuffers returns the graph's outputs: buffers produced but never
// consumed, ordered by when they were last produced.
func (n *Net) OutputBuffers() []*tensor.RawTensor { return n.buffersAt(n.outputIDs) }

// InputBufferIDs returns the registry indices of the input buffers.
func (n *Net) InputBufferIDs() []int { return n.inputIDs }

// OutputBufferIDs returns the registry indices of the output buffers.
func (n *Net) OutputBufferIDs() []int { return n.outputIDs }

// BottomBuffersOf returns unit i's resolved input buffers.
func (n *Net) BottomBuffersOf(i int) []*tensor.RawTensor { return n.bottoms[i] }

// TopBuffersOf returns unit i's resolved output buffers.
func (n *Net) TopBuffersOf(i int) []*tensor.RawTensor { return n.tops[i] }

// BottomIDsOf returns the registry indices of unit i's input buffers.
func (n *Net) BottomIDsOf(i int) []int { return n.bottomIDs[i] }

// TopIDsOf returns the registry indices of unit i's output buffers.
func (n *Net) TopIDsOf(i int) []int { return n.topIDs[i] }

// UnitNeedsBackward reports whether unit i participates in gradient
// computation.
func (n *Net) UnitNeedsBackward(i int) bool { return n.unitNeedBackward[i] }

// BottomsNeedBackwardOf returns unit i's per-bottom gradient flags, for
// external trainers to pass as a BackwardUnit's propagateDown.
func (n *Net) BottomsNeedBackwardOf(i int) []bool { return n.bottomNeedBackward[i] }

// Params returns every parameter slot in the graph, including shared
// slots that alias their owner's storage.
func (n *Net) Params() []*tensor.RawTensor { return n.params }

// ParamIDsOf returns the net-wide parameter slot indices of unit i.
func (n *Net) ParamIDsOf(i int) []int { return n.paramIDs[i] }

// ParamDisplayNames returns one display name per parameter slot: the
// declared sharing name, or the slot index for anonymous parameters.
func (n *Net) ParamDisplayNames() []string { return n.paramDisplayNames }

// ParamOwners returns, per parameter slot, -1 when the slot owns its
// storage or the owning slot's index when it shares.
func (n *Net) ParamOwners() []int { return n.paramOwners }

// LearnableParams returns the deduplicated parameter tensors, one per
// distinct storage.
func (n *Net) LearnableParams() []*tensor.RawTensor { return n.learnableParams }

// LRMults returns the effective learning-rate multiplier per learnable
// parameter. Unspecified multipliers default to 1.
func (n *Net) LRMults() []float64 { return n.lrMults }

// DecayMults returns the effective weight-decay multiplier per
// learnable parameter. Unspecified multipliers default to 1.
func (n *Net) DecayMults() []float64 { return n.decayMults }

// MemoryUsed returns the bytes held by activation buffers, counting
// aliased in-place buffers once per producing unit the way the
// construction log does.
func (n *Net) MemoryUsed() int64 {
	return n.memoryElems * int64(tensor.Float32.Size())
}
