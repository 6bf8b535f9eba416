package unit

import (
	"testing"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TestReLUForward verifies values through a non-aliased top.
func TestReLUForward(t *testing.T) {
	u, err := New(&netdef.UnitDef{Name: "act", Type: TypeReLU})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bottom, _ := tensor.NewRaw(tensor.Shape{4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	copy(bottom.AsFloat32(), []float32{-1, 0, 2, -3})

	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}
	if _, err := u.Forward([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	want := []float32{0, 0, 2, 0}
	for i, v := range top.AsFloat32() {
		if v != want[i] {
			t.Errorf("output[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestReLUInPlace verifies the unit tolerates top == bottom.
func TestReLUInPlace(t *testing.T) {
	u, _ := New(&netdef.UnitDef{Name: "act", Type: TypeReLU})

	buf, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float32)
	copy(buf.AsFloat32(), []float32{-5, 1, -2})

	if err := u.SetUp([]*tensor.RawTensor{buf}, []*tensor.RawTensor{buf}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}
	if _, err := u.Forward([]*tensor.RawTensor{buf}, []*tensor.RawTensor{buf}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	got := buf.AsFloat32()
	if got[0] != 0 || got[1] != 1 || got[2] != 0 {
		t.Errorf("in-place output = %v, want [0 1 0]", got)
	}
}

// TestSigmoidForward spot-checks the midpoint value.
func TestSigmoidForward(t *testing.T) {
	u, _ := New(&netdef.UnitDef{Name: "act", Type: TypeSigmoid})

	bottom, _ := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)

	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}
	if _, err := u.Forward([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if got := top.AsFloat32()[0]; got != 0.5 {
		t.Errorf("sigmoid(0) = %f, want 0.5", got)
	}
}

// TestReLUBackward checks the gradient mask against the top values.
func TestReLUBackward(t *testing.T) {
	u, err := New(&netdef.UnitDef{Name: "act", Type: TypeReLU})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bu, ok := u.(BackwardUnit)
	if !ok {
		t.Fatal("relu does not implement BackwardUnit")
	}

	bottom, _ := tensor.NewRaw(tensor.Shape{4}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	copy(bottom.AsFloat32(), []float32{-1, 0, 2, 3})
	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}
	if _, err := u.Forward([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	topDiff, _ := tensor.NewRaw(tensor.Shape{4}, tensor.Float32)
	bottomDiff, _ := tensor.NewRaw(tensor.Shape{4}, tensor.Float32)
	copy(topDiff.AsFloat32(), []float32{10, 10, 10, 10})

	err = bu.Backward([]*tensor.RawTensor{top}, []*tensor.RawTensor{topDiff},
		[]*tensor.RawTensor{bottom}, []*tensor.RawTensor{bottomDiff}, []bool{true})
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}
	want := []float32{0, 0, 10, 10}
	for i, v := range bottomDiff.AsFloat32() {
		if v != want[i] {
			t.Errorf("bottomDiff[%d] = %v, want %v", i, v, want[i])
		}
	}
}

// TestBackwardRespectsPropagateDown verifies the diff is left untouched
// when propagation is disabled.
func TestBackwardRespectsPropagateDown(t *testing.T) {
	u, _ := New(&netdef.UnitDef{Name: "act", Type: TypeSigmoid})
	bu := u.(BackwardUnit)

	bottom, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Float32)
	top, _ := tensor.NewRaw(tensor.Shape{}, tensor.Float32)
	if err := u.SetUp([]*tensor.RawTensor{bottom}, []*tensor.RawTensor{top}); err != nil {
		t.Fatalf("SetUp failed: %v", err)
	}

	topDiff, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Float32)
	bottomDiff, _ := tensor.NewRaw(tensor.Shape{2}, tensor.Float32)
	bottomDiff.AsFloat32()[0] = 42

	err := bu.Backward([]*tensor.RawTensor{top}, []*tensor.RawTensor{topDiff},
		[]*tensor.RawTensor{bottom}, []*tensor.RawTensor{bottomDiff}, []bool{false})
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}
	if got := bottomDiff.AsFloat32()[0]; got != 42 {
		t.Errorf("bottomDiff was written despite propagateDown=false: %v", got)
	}
}
