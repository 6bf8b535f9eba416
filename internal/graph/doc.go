// Package graph turns declarative network descriptions into live,
// executable computation graphs.
//
// Construction is a single deterministic pass: the description is first
// filtered against its runtime state, fan-out points are materialized
// as explicit split units, and each surviving unit is then wired to a
// central buffer registry in declaration order. Because every input
// must resolve against a previously produced output, the declaration
// order of a valid description is also its execution order.
//
// The resulting Net supports forward execution over unit ranges, shape
// propagation, parameter sharing across units, and transplanting
// trained weights between compatible graphs.
package graph
