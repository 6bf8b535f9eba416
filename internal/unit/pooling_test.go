package unit

import (
	"testing"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TestPoolingShape verifies output sizing.
func TestPoolingShape(t *testing.T) {
	u, err := New(&netdef.UnitDef{
		Name:    "pool",
		Type:    TypePooling,
		Pooling: &netdef.PoolingDef{Kernel: 2, Stride: 2},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bottom, _ := tensor.NewRaw(tensor.Shape{2, 3, 4, 4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	if !top.Shape().Equal(tensor.Shape{2, 3, 2, 2}) {
		t.Errorf("top shape = %v, want [2 3 2 2]", top.Shape())
	}
}

// TestPoolingMaxValues verifies 2x2/2 max pooling on known values.
func TestPoolingMaxValues(t *testing.T) {
	u, _ := New(&netdef.UnitDef{
		Name:    "pool",
		Type:    TypePooling,
		Pooling: &netdef.PoolingDef{Kernel: 2},
	})

	bottom, _ := tensor.NewRaw(tensor.Shape{1, 1, 4, 4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	copy(bottom.AsFloat32(), []float32{
		1, 2, 5, 6,
		3, 4, 7, 8,
		-1, -2, 0, 1,
		-3, -4, 2, 3,
	})

	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}
	if _, err := u.Forward([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	want := []float32{4, 8, -1, 3}
	for i, v := range top.AsFloat32() {
		if v != want[i] {
			t.Errorf("output[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestPoolingRejectsBadRank verifies structural validation.
func TestPoolingRejectsBadRank(t *testing.T) {
	u, _ := New(&netdef.UnitDef{
		Name:    "pool",
		Type:    TypePooling,
		Pooling: &netdef.PoolingDef{Kernel: 2},
	})

	bottom, _ := tensor.NewRaw(tensor.Shape{4, 4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err == nil {
		t.Error("expected error for 2D bottom")
	}
}
