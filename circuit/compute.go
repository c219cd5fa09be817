//
// compute.go
//
// Copyright (c) 2021-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
)

// Compute evaluates the circuit on cleartext input bits, one bit per
// declared input wire in declared order. It is the reference oracle
// the garbled evaluation must agree with.
func (c *Circuit) Compute(inputs []byte) ([]byte, error) {
	if len(inputs) != len(c.Inputs) {
		return nil, errors.Wrapf(ErrMissingInputLabel,
			"got %d input bits, expected %d", len(inputs), len(c.Inputs))
	}
	wires := make([]bool, c.NumWires)
	for idx, w := range c.Inputs {
		switch inputs[idx] {
		case 0:
		case 1:
			wires[w] = true
		default:
			return nil, errors.Newf("input bit %d is %d, expected 0 or 1",
				idx, inputs[idx])
		}
	}

	for _, gate := range c.Gates {
		wires[gate.Output] = gate.Op.Output(
			wires[gate.Input0], wires[gate.Input1])
	}

	result := make([]byte, len(c.Outputs))
	for idx, w := range c.Outputs {
		if wires[w] {
			result[idx] = 1
		}
	}
	return result, nil
}
