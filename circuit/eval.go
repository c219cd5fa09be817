//
// eval.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garble/label"
)

// Eval evaluates the garbled circuit with one label per input wire
// and returns one bit value (0 or 1) per declared output wire.
func (g *Garbled) Eval(inputs map[Wire]label.Label) ([]byte, error) {
	if err := g.checkInputs(inputs); err != nil {
		return nil, err
	}

	wires := NewWireTable(g.numWires)
	for w, l := range inputs {
		wires.Set(w, l)
	}

	for id := range g.Gates {
		gate := &g.Gates[id]
		wires.Set(gate.Output, g.evalGate(uint32(id), gate, wires.Get))
	}

	return g.decodeOutputs(wires.Get), nil
}

// evalGate computes the output label of one gate. The get callback
// resolves input wire labels.
func (g *Garbled) evalGate(id uint32, gate *GarbledGate,
	get func(Wire) label.Label) label.Label {

	switch gate.Op {
	case XOR, XNOR:
		w := get(gate.Input0)
		w.Xor(get(gate.Input1))
		return w

	case BUF, INV:
		return get(gate.Input0)

	case BUFB, INVB:
		return get(gate.Input1)

	case ZERO, ONE:
		return g.prf.Hash(2*id, label.Label{})

	default:
		a := get(gate.Input0)
		b := get(gate.Input1)

		w := g.prf.Hash(2*id, a)
		w.Xor(g.prf.Hash(2*id+1, b))
		if a.S() {
			w.Xor(gate.C0)
		}
		if b.S() {
			w.Xor(gate.C1)
			w.Xor(a)
		}
		return w
	}
}

func (g *Garbled) checkInputs(inputs map[Wire]label.Label) error {
	for _, w := range g.Inputs {
		if _, ok := inputs[w]; !ok {
			return errors.Wrapf(ErrMissingInputLabel,
				"no label for input wire %s", w)
		}
	}
	if len(inputs) > len(g.Inputs) {
		declared := make(map[Wire]bool)
		for _, w := range g.Inputs {
			declared[w] = true
		}
		for w := range inputs {
			if !declared[w] {
				return errors.Wrapf(ErrMissingInputLabel,
					"label for undeclared wire %s", w)
			}
		}
	}
	return nil
}

func (g *Garbled) decodeOutputs(get func(Wire) label.Label) []byte {
	result := make([]byte, len(g.Outputs))
	for idx, w := range g.Outputs {
		bit := get(w).S() != g.DecodeBit(idx)
		if bit {
			result[idx] = 1
		}
	}
	return result
}

// InputLabelsFromBytes converts serialized input labels to the
// evaluator input form, rejecting labels of the wrong width.
func InputLabelsFromBytes(raw map[Wire][]byte) (
	map[Wire]label.Label, error) {

	inputs := make(map[Wire]label.Label)
	for w, data := range raw {
		l, err := label.FromBytes(data)
		if err != nil {
			return nil, errors.Wrapf(ErrLabelWidthMismatch,
				"input wire %s: %d bytes", w, len(data))
		}
		inputs[w] = l
	}
	return inputs, nil
}
