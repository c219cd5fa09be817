//
// garble.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garble/env"
	"github.com/markkurossi/garble/label"
	"github.com/markkurossi/garble/prf"
)

// GarbledGate is one gate of a garbled circuit. Nonlinear gates carry
// the two half-gate ciphertext rows C0 (generator half) and C1
// (evaluator half); free gates carry none.
type GarbledGate struct {
	Input0 Wire
	Input1 Wire
	Output Wire
	Op     Operation
	C0     label.Label
	C1     label.Label
}

func (g GarbledGate) String() string {
	return Gate{
		Input0: g.Input0,
		Input1: g.Input1,
		Output: g.Output,
		Op:     g.Op,
	}.String()
}

// Garbled is a garbled circuit: the ordered garbled gates, the
// declared input and output wires, the per-output decode bits, and
// the PRF key. It contains neither the free-XOR offset nor any input
// label and is immutable after construction.
type Garbled struct {
	Key     label.Label
	Inputs  []Wire
	Outputs []Wire
	Decode  []byte
	Gates   []GarbledGate

	numWires int
	prf      prf.PRF
	plan     *evalPlan
}

// Stats returns per-operation gate counts.
func (g *Garbled) Stats() Stats {
	var stats Stats
	for _, gate := range g.Gates {
		stats[gate.Op]++
	}
	return stats
}

// NumWires returns the number of wires in the circuit.
func (g *Garbled) NumWires() int {
	return g.numWires
}

// DecodeBit returns the decode bit of the output wire index.
func (g *Garbled) DecodeBit(idx int) bool {
	return g.Decode[idx/8]&(1<<(idx%8)) != 0
}

// Garble garbles the circuit. It returns the garbled circuit and the
// encoder holding the label pair of every input wire. All randomness
// is drawn from the configured random source; the free-XOR offset is
// local to the call and unrecoverable after it returns.
func (c *Circuit) Garble(cfg *env.Config) (*Garbled, *Encoder, error) {
	// Re-check the structural invariants so hand-built gate lists
	// fail with a structured error instead of tripping the wire
	// table.
	c, err := NewCircuit(c.Inputs, c.Outputs, c.Gates)
	if err != nil {
		return nil, nil, err
	}
	rand := cfg.GetRandom()

	key, err := label.New(rand)
	if err != nil {
		return nil, nil, errors.Wrap(ErrRngExhausted, err.Error())
	}
	delta, err := label.New(rand)
	if err != nil {
		return nil, nil, errors.Wrap(ErrRngExhausted, err.Error())
	}
	delta.SetS(true)

	h := cfg.NewPRF(key)

	wires := NewWireTable(c.NumWires)
	enc := &Encoder{
		Order: c.Inputs,
		Wires: make(map[Wire]label.Wire),
	}
	for _, w := range c.Inputs {
		l0, err := label.New(rand)
		if err != nil {
			return nil, nil, errors.Wrap(ErrRngExhausted, err.Error())
		}
		wires.Set(w, l0)

		l1 := l0
		l1.Xor(delta)
		enc.Wires[w] = label.Wire{
			L0: l0,
			L1: l1,
		}
	}

	garbled := &Garbled{
		Key:      key,
		Inputs:   c.Inputs,
		Outputs:  c.Outputs,
		Decode:   make([]byte, (len(c.Outputs)+7)/8),
		Gates:    make([]GarbledGate, len(c.Gates)),
		numWires: c.NumWires,
		prf:      h,
		plan:     new(evalPlan),
	}

	for id, gate := range c.Gates {
		gg := GarbledGate{
			Input0: gate.Input0,
			Input1: gate.Input1,
			Output: gate.Output,
			Op:     gate.Op,
		}
		var l0 label.Label

		switch gate.Op {
		case XOR:
			l0 = wires.Get(gate.Input0)
			l0.Xor(wires.Get(gate.Input1))

		case XNOR:
			l0 = wires.Get(gate.Input0)
			l0.Xor(wires.Get(gate.Input1))
			l0.Xor(delta)

		case BUF:
			l0 = wires.Get(gate.Input0)

		case INV:
			l0 = wires.Get(gate.Input0)
			l0.Xor(delta)

		case BUFB:
			l0 = wires.Get(gate.Input1)

		case INVB:
			l0 = wires.Get(gate.Input1)
			l0.Xor(delta)

		case ZERO:
			// Constants have no ciphertext; both sides derive the
			// single label from the PRF.
			l0 = h.Hash(uint32(2*id), label.Label{})

		case ONE:
			l0 = h.Hash(uint32(2*id), label.Label{})
			l0.Xor(delta)

		default:
			l0 = garbleNonlinear(h, uint32(id), gate.Op, delta,
				wires.Get(gate.Input0), wires.Get(gate.Input1), &gg)
		}
		wires.Set(gate.Output, l0)
		garbled.Gates[id] = gg
	}

	for idx, w := range c.Outputs {
		if wires.Get(w).S() {
			garbled.Decode[idx/8] |= 1 << (idx % 8)
		}
	}

	return garbled, enc, nil
}

// garbleNonlinear garbles one nonlinear gate with the two half-gate
// rows. The gate is reduced to ((a^alpha) & (b^beta)) ^ gamma; the
// input transforms shift the zero-labels by delta, the output
// transform shifts the result. Returns the gate's zero-label.
func garbleNonlinear(h prf.PRF, id uint32, op Operation,
	delta, a0, b0 label.Label, gg *GarbledGate) label.Label {

	alpha, beta, gamma := op.halfGateParams()
	if alpha {
		a0.Xor(delta)
	}
	if beta {
		b0.Xor(delta)
	}
	a1 := a0
	a1.Xor(delta)
	b1 := b0
	b1.Xor(delta)

	t0 := 2 * id
	t1 := 2*id + 1
	ha0 := h.Hash(t0, a0)
	ha1 := h.Hash(t0, a1)
	hb0 := h.Hash(t1, b0)
	hb1 := h.Hash(t1, b1)

	// Generator half: C0 selects on the left select bit.
	c0 := ha0
	c0.Xor(ha1)
	if b0.S() {
		c0.Xor(delta)
	}
	wg := ha0
	if a0.S() {
		wg.Xor(c0)
	}

	// Evaluator half: C1 folds the left zero-label in so the
	// evaluator can cancel it with the label it holds.
	c1 := hb0
	c1.Xor(hb1)
	c1.Xor(a0)
	we := hb0
	if b0.S() {
		we.Xor(c1)
		we.Xor(a0)
	}

	gg.C0 = c0
	gg.C1 = c1

	l0 := wg
	l0.Xor(we)
	if gamma {
		l0.Xor(delta)
	}
	return l0
}
