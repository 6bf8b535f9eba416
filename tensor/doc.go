// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense n-dimensional buffers Lattice
// networks compute over.
//
// # Overview
//
// RawTensor is a flat byte buffer plus a shape and an element type.
// Network buffers and unit parameters are all RawTensors; the graph
// package wires them together and the unit implementations read and
// write them through typed views.
//
// # Basic Usage
//
//	import "github.com/lattice-ml/lattice/tensor"
//
//	x, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	if err != nil {
//	    return err
//	}
//	data := x.AsFloat32() // typed view over the storage
//	data[0] = 1.5
//
// # Supported Data Types
//
// Float32 is the compute type of every unit implementation. Float16 is
// storage-only, used for half-precision snapshots. The remaining types
// (Float64, Int32, Int64, Uint8) are carried for interchange.
package tensor
