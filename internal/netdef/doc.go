// Package netdef defines the declarative description of a network: an
// ordered list of unit declarations with named buffer wiring, parameter
// slot specs, and conditional-inclusion rules, plus the runtime state
// the network is instantiated under.
//
// The in-memory structs are the canonical representation; the HCL
// loader (LoadFile, Parse) is one producer of them. The graph package
// consumes a NetDef and turns it into a live, executable Net.
package netdef
