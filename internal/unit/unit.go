package unit

import (
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Unit is the capability interface implemented by every operator type.
//
// A unit never owns its input/output buffers; the graph passes in
// non-owning references resolved at build time. Parameter tensors are
// owned by the unit but may be replaced by the graph when the unit
// shares another unit's parameter storage.
//
// SetUp is called exactly once during graph construction, after the
// unit's buffers have been resolved. It validates structural
// compatibility (buffer counts, ranks), allocates parameter tensors,
// and must leave the top buffers with their output shapes (SetUp
// implementations end with a Reshape).
type Unit interface {
	// Name returns the unit's declared name, used in diagnostics.
	Name() string

	// Type returns the registered operator type name.
	Type() string

	// SetUp configures the unit against its resolved buffers.
	SetUp(bottoms, tops []*tensor.RawTensor) error

	// Reshape re-derives top shapes from the current bottom shapes
	// without computing any values.
	Reshape(bottoms, tops []*tensor.RawTensor) error

	// Forward computes top values from bottom values, mutating tops in
	// place. It returns the unit's scalar objective contribution, zero
	// for all non-loss units.
	Forward(bottoms, tops []*tensor.RawTensor) (float64, error)

	// Params returns the unit's parameter tensors in slot order.
	Params() []*tensor.RawTensor
}

// ParamSharer is implemented by units whose parameter slots can be
// redirected to another unit's storage. The graph calls ShareParam when
// resolving a named parameter already owned by an earlier unit.
type ParamSharer interface {
	ShareParam(slot int, owner *tensor.RawTensor) error
}

// BackwardUnit is the optional gradient capability. The graph itself
// never runs backward; an external trainer drives it using the
// need-backward flags the graph records at build time.
//
// topDiffs and bottomDiffs are allocated by the caller with the same
// shapes as tops and bottoms. propagateDown mirrors the per-bottom
// flags; a false entry means the corresponding bottomDiff must be left
// untouched.
type BackwardUnit interface {
	Unit
	Backward(tops, topDiffs, bottoms, bottomDiffs []*tensor.RawTensor, propagateDown []bool) error
}

// base carries the name and type every unit shares.
type base struct {
	name string
	typ  string
}

func (b *base) Name() string { return b.name }
func (b *base) Type() string { return b.typ }

// Params returns no parameters; parameter-free units inherit this.
func (b *base) Params() []*tensor.RawTensor { return nil }
