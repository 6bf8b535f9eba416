// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package weights persists trained network parameters.
//
// A Snapshot holds per-unit parameter tensors keyed by unit name. On
// disk it uses the .ltw container: a magic tag, a JSON header indexing
// every tensor, and a raw little-endian payload. Snapshots round-trip
// through graph.Net.Snapshot and graph.Net.CopyTrainedFrom, so weights
// can be transplanted between architecturally compatible networks.
//
// Example:
//
//	if err := weights.Save("model.ltw", net.Snapshot(), weights.SaveOptions{}); err != nil {
//	    return err
//	}
//	snap, err := weights.Load("model.ltw")
//	if err != nil {
//	    return err
//	}
//	if err := other.CopyTrainedFrom(snap); err != nil {
//	    return err
//	}
package weights

import (
	"io"

	"github.com/lattice-ml/lattice/internal/weights"
)

// Snapshot is a named collection of per-unit parameter tensors.
type Snapshot = weights.Snapshot

// UnitWeights holds one unit's parameter tensors in slot order.
type UnitWeights = weights.UnitWeights

// SaveOptions configures serialization. HalfPrecision stores float32
// tensors as float16 on disk; Load transparently converts them back.
type SaveOptions = weights.SaveOptions

// Save writes a snapshot to a file.
func Save(path string, snap *Snapshot, opts SaveOptions) error {
	return weights.Save(path, snap, opts)
}

// Load reads a snapshot from a file.
func Load(path string) (*Snapshot, error) {
	return weights.Load(path)
}

// Write serializes a snapshot to a writer.
func Write(w io.Writer, snap *Snapshot, opts SaveOptions) error {
	return weights.Write(w, snap, opts)
}

// Read deserializes a snapshot from a reader.
func Read(r io.Reader) (*Snapshot, error) {
	return weights.Read(r)
}
