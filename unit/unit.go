// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package unit exposes the operator registry so applications can plug
// custom unit types into Lattice networks.
//
// A unit type is a name plus a factory. Registering a custom type makes
// it available to any description that names it:
//
//	func init() {
//	    unit.Register("swish", newSwish)
//	}
//
// Built-in types (input, split, inner_product, relu, sigmoid, pooling,
// scale, euclidean_loss) register themselves on import of the graph
// package.
package unit

import (
	"github.com/lattice-ml/lattice/internal/unit"
)

// Unit is the capability interface implemented by every operator type.
type Unit = unit.Unit

// ParamSharer is implemented by units whose parameter slots can be
// redirected to another unit's storage.
type ParamSharer = unit.ParamSharer

// BackwardUnit is the optional gradient capability, driven by external
// trainers rather than the graph itself.
type BackwardUnit = unit.BackwardUnit

// Factory constructs a unit from its declaration.
type Factory = unit.Factory

// Built-in unit type names.
const (
	TypeInput         = unit.TypeInput
	TypeSplit         = unit.TypeSplit
	TypeInnerProduct  = unit.TypeInnerProduct
	TypeReLU          = unit.TypeReLU
	TypeSigmoid       = unit.TypeSigmoid
	TypePooling       = unit.TypePooling
	TypeScale         = unit.TypeScale
	TypeEuclideanLoss = unit.TypeEuclideanLoss
)

// Register adds a unit type to the registry. Registering a name twice
// panics.
func Register(typeName string, f Factory) {
	unit.Register(typeName, f)
}

// RegisteredTypes returns all registered type names, sorted.
func RegisteredTypes() []string {
	return unit.RegisteredTypes()
}
