// Package unit implements the operator capability interface and the
// built-in operator types of the Lattice engine.
//
// Units are selected by type name through a registered-factory map, so
// external packages can add operator types with Register without
// touching the engine. Every unit implements the same narrow contract:
// set up once against resolved buffers, re-derive output shapes on
// demand, and compute forward in place.
package unit
