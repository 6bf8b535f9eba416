// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph builds and runs Lattice computation graphs.
//
// A Net is constructed from a declarative description: the description
// is filtered against its runtime state, fan-out points get explicit
// split units, and the units are wired to a shared buffer registry in
// declaration order.
//
// Example:
//
//	def, err := netdef.LoadFile("mlp.lt.hcl")
//	if err != nil {
//	    return err
//	}
//	net, err := graph.NewNet(def)
//	if err != nil {
//	    return err
//	}
//	copy(net.InputBuffers()[0].AsFloat32(), batch)
//	outs, loss, err := net.Forward()
package graph

import (
	"github.com/lattice-ml/lattice/internal/graph"
	"github.com/lattice-ml/lattice/internal/netdef"
)

// Net is a live, executable graph.
type Net = graph.Net

// NewNet resolves a description into a live graph.
func NewNet(def *netdef.NetDef) (*Net, error) {
	return graph.NewNet(def)
}
