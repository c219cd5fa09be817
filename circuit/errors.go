//
// errors.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
)

// Engine error taxonomy. Callers test with errors.Is; the engine
// wraps these with per-site context and never retries internally.
var (
	// ErrInvalidCircuitStructure means the gate list violates the
	// topological, wire-uniqueness, or id-range invariants.
	ErrInvalidCircuitStructure = errors.New("invalid circuit structure")

	// ErrUnknownGateKind means a gate code outside the 16-function
	// table.
	ErrUnknownGateKind = errors.New("unknown gate kind")

	// ErrMissingInputLabel means the evaluator was fed fewer labels
	// than input wires, or a label for an undeclared wire.
	ErrMissingInputLabel = errors.New("missing input label")

	// ErrLabelWidthMismatch means a supplied label's width differs
	// from the circuit's block width.
	ErrLabelWidthMismatch = errors.New("label width mismatch")

	// ErrCorruptCircuit means a short read, bad magic, or
	// unsupported version in serialized circuit data.
	ErrCorruptCircuit = errors.New("corrupt garbled circuit")

	// ErrRngExhausted means the caller's random source failed to
	// produce the required bytes.
	ErrRngExhausted = errors.New("rng exhausted")
)
