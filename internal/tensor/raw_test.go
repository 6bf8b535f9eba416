package tensor

import (
	"testing"
)

// TestNewRaw verifies allocation and basic accessors.
func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	// Fresh tensors are zero-initialized.
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

// TestNewRawInvalidShape verifies shape validation.
func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32); err == nil {
		t.Error("Expected error for negative dimension")
	}
	if _, err := NewRaw(Shape{0}, Float32); err == nil {
		t.Error("Expected error for zero dimension")
	}
}

// TestReshapeGrow verifies that reshaping to a larger count grows storage.
func TestReshapeGrow(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if err := raw.Reshape(Shape{3, 4}); err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	if raw.NumElements() != 12 {
		t.Errorf("NumElements() = %d, want 12", raw.NumElements())
	}
	if len(raw.Data()) != 48 {
		t.Errorf("len(Data()) = %d, want 48", len(raw.Data()))
	}
}

// TestReshapeShrinkKeepsData verifies that shrinking preserves the prefix.
func TestReshapeShrinkKeepsData(t *testing.T) {
	raw, _ := NewRaw(Shape{4}, Float32)
	data := raw.AsFloat32()
	data[0], data[1], data[2], data[3] = 1, 2, 3, 4

	if err := raw.Reshape(Shape{2}); err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	got := raw.AsFloat32()
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("data after shrink = %v, want [1 2]", got)
	}
}

// TestCopyFrom verifies strict copy semantics.
func TestCopyFrom(t *testing.T) {
	src, _ := NewRaw(Shape{2, 2}, Float32)
	dst, _ := NewRaw(Shape{2, 2}, Float32)
	copy(src.AsFloat32(), []float32{1, 2, 3, 4})

	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom failed: %v", err)
	}
	got := dst.AsFloat32()
	for i, want := range []float32{1, 2, 3, 4} {
		if got[i] != want {
			t.Errorf("element %d = %f, want %f", i, got[i], want)
		}
	}

	// Mismatched shapes must be rejected, never silently reshaped.
	other, _ := NewRaw(Shape{4}, Float32)
	if err := dst.CopyFrom(other); err == nil {
		t.Error("Expected error copying from mismatched shape")
	}
}

// TestFloat16Roundtrip verifies float16 conversion through x448/float16.
func TestFloat16Roundtrip(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float16)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.ByteSize() != 8 {
		t.Errorf("ByteSize() = %d, want 8", raw.ByteSize())
	}

	// All values exactly representable in half precision.
	in := []float32{1, -2, 0.5, 1024}
	if err := raw.FromFloat32(in); err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}
	out, err := raw.ToFloat32()
	if err != nil {
		t.Fatalf("ToFloat32 failed: %v", err)
	}
	for i, want := range in {
		if out[i] != want {
			t.Errorf("element %d = %f, want %f", i, out[i], want)
		}
	}
}

// TestClone verifies deep copy behavior.
func TestClone(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32)
	raw.AsFloat32()[0] = 7

	clone := raw.Clone()
	clone.AsFloat32()[0] = 9

	if raw.AsFloat32()[0] != 7 {
		t.Error("Clone should not share storage with original")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("Clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}
