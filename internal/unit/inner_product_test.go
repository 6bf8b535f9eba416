package unit

import (
	"testing"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

func newTestInnerProduct(t *testing.T, numOutput int, bias bool) *InnerProduct {
	t.Helper()
	u, err := New(&netdef.UnitDef{
		Name:         "fc",
		Type:         TypeInnerProduct,
		InnerProduct: &netdef.InnerProductDef{NumOutput: numOutput, Bias: &bias},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return u.(*InnerProduct)
}

// TestInnerProductSetUp verifies parameter allocation and top sizing.
func TestInnerProductSetUp(t *testing.T) {
	fc := newTestInnerProduct(t, 3, true)

	bottom, _ := tensor.NewRaw(tensor.Shape{2, 4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)

	if err := fc.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	if !top.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("top shape = %v, want [2 3]", top.Shape())
	}
	params := fc.Params()
	if len(params) != 2 {
		t.Fatalf("expected 2 params (weight, bias), got %d", len(params))
	}
	if !params[0].Shape().Equal(tensor.Shape{3, 4}) {
		t.Errorf("weight shape = %v, want [3 4]", params[0].Shape())
	}
	if !params[1].Shape().Equal(tensor.Shape{3}) {
		t.Errorf("bias shape = %v, want [3]", params[1].Shape())
	}
}

// TestInnerProductForwardValues checks the affine transform on known values.
func TestInnerProductForwardValues(t *testing.T) {
	fc := newTestInnerProduct(t, 2, true)

	bottom, _ := tensor.NewRaw(tensor.Shape{1, 3}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := fc.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	copy(fc.Params()[0].AsFloat32(), []float32{
		1, 2, 3, // output 0
		4, 5, 6, // output 1
	})
	copy(fc.Params()[1].AsFloat32(), []float32{10, 20})
	copy(bottom.AsFloat32(), []float32{1, 1, 2})

	if _, err := fc.Forward([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	// [1 1 2] . [1 2 3] + 10 = 19; [1 1 2] . [4 5 6] + 20 = 41
	got := top.AsFloat32()
	if got[0] != 19 || got[1] != 41 {
		t.Errorf("Forward output = %v, want [19 41]", got)
	}
}

// TestInnerProductNoBias verifies the single-param configuration.
func TestInnerProductNoBias(t *testing.T) {
	fc := newTestInnerProduct(t, 2, false)

	bottom, _ := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := fc.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	if len(fc.Params()) != 1 {
		t.Errorf("expected 1 param without bias, got %d", len(fc.Params()))
	}
}

// TestInnerProductRejectsBadRank verifies structural validation.
func TestInnerProductRejectsBadRank(t *testing.T) {
	fc := newTestInnerProduct(t, 2, true)

	bottom, _ := tensor.NewRaw(tensor.Shape{2, 3, 4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := fc.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err == nil {
		t.Error("expected error for 3D bottom")
	}
}

// TestInnerProductShareParam verifies parameter storage redirection.
func TestInnerProductShareParam(t *testing.T) {
	fc := newTestInnerProduct(t, 2, false)

	bottom, _ := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := fc.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	owner, _ := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float32)
	if err := fc.ShareParam(0, owner); err != nil {
		t.Fatalf("ShareParam failed: %v", err)
	}
	if fc.Params()[0] != owner {
		t.Error("weight should alias the owner's storage after sharing")
	}
	if err := fc.ShareParam(1, owner); err == nil {
		t.Error("expected error sharing missing bias slot")
	}
}

// TestUnknownUnitType verifies registry error reporting.
func TestUnknownUnitType(t *testing.T) {
	_, err := New(&netdef.UnitDef{Name: "x", Type: "warp_core"})
	if err == nil {
		t.Fatal("expected error for unknown unit type")
	}
}
