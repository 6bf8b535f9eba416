// Package weights implements the serialized-weights model and the .ltw
// on-disk format: per-unit named parameter tensors, written as a JSON
// header plus a raw little-endian payload, with optional half-precision
// storage.
//
// The graph package's weight transplanter consumes Snapshot values; it
// does not care whether they came from a file or were built in memory.
package weights
