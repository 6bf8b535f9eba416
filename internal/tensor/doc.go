// Package tensor implements the storage layer of the Lattice engine.
//
// RawTensor is a flat, shape-typed byte buffer. The graph owns every
// buffer and parameter as a RawTensor; units receive non-owning
// references and mutate them in place during forward execution.
package tensor
