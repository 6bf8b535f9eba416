// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package netdef declares networks: the unit list, buffer wiring, and
// conditional-inclusion rules a graph is built from.
//
// Descriptions are usually loaded from HCL files:
//
//	net "mlp" {
//	  state {
//	    phase = "test"
//	  }
//
//	  unit "data" {
//	    type = "input"
//	    tops = ["x"]
//	    input {
//	      shapes = [[64, 784]]
//	    }
//	  }
//
//	  unit "fc1" {
//	    type    = "inner_product"
//	    bottoms = ["x"]
//	    tops    = ["fc1"]
//	    inner_product {
//	      num_output = 100
//	    }
//	  }
//	}
//
// but they can equally be assembled in code and handed to graph.NewNet.
package netdef

import (
	"github.com/lattice-ml/lattice/internal/netdef"
)

// Phase selects the training or inference variant of a network.
type Phase = netdef.Phase

// Network phases.
const (
	Train Phase = netdef.Train
	Test  Phase = netdef.Test
)

// ParsePhase converts a phase name into a Phase.
func ParsePhase(s string) (Phase, bool) {
	return netdef.ParsePhase(s)
}

// State is the runtime state a network is instantiated under.
type State = netdef.State

// Rule is a predicate over State used for conditional unit inclusion.
type Rule = netdef.Rule

// ShareMode controls how a shared parameter's shape is checked against
// its owner.
type ShareMode = netdef.ShareMode

// Share modes.
const (
	ShareStrict     ShareMode = netdef.ShareStrict
	SharePermissive ShareMode = netdef.SharePermissive
)

// ParamSpec configures one parameter slot of a unit.
type ParamSpec = netdef.ParamSpec

// Type-specific unit settings.
type (
	InputDef        = netdef.InputDef
	InnerProductDef = netdef.InnerProductDef
	PoolingDef      = netdef.PoolingDef
	ScaleDef        = netdef.ScaleDef
)

// UnitDef declares one unit of the network.
type UnitDef = netdef.UnitDef

// NetDef is the declarative description of a network.
type NetDef = netdef.NetDef

// LoadFile parses an HCL network description from a file.
func LoadFile(path string) (*NetDef, error) {
	return netdef.LoadFile(path)
}

// Parse parses an HCL network description from source bytes. The
// filename is used in diagnostics only.
func Parse(src []byte, filename string) (*NetDef, error) {
	return netdef.Parse(src, filename)
}
