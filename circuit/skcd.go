//
// skcd.go
//
// Copyright (c) 2022-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"encoding/binary"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
)

// SKCDMagic identifies the binary SKCD gate-list framing.
const SKCDMagic = 0x736b6364 // skcd

// NewCircuit creates a circuit from the declared input wires, output
// wires, and gate list. The gate list is checked against the
// structural invariants: gate output ids strictly increasing, every
// read input wire defined before use and smaller than the gate
// output, no redefinition of input wires, and known gate codes.
// Unused input slots of constant and unary gates are canonicalized to
// zero.
func NewCircuit(inputs, outputs []Wire, gates []Gate) (*Circuit, error) {
	c := &Circuit{
		Inputs:  inputs,
		Outputs: outputs,
		Gates:   gates,
	}
	defined := bitset.New(uint(len(inputs) + len(gates)))

	for _, w := range inputs {
		if defined.Test(uint(w)) {
			return nil, errors.Wrapf(ErrInvalidCircuitStructure,
				"duplicate input wire %s", w)
		}
		defined.Set(uint(w))
		if w.ID() >= c.NumWires {
			c.NumWires = w.ID() + 1
		}
	}

	for i := range gates {
		g := &gates[i]
		if g.Op >= NumOps {
			return nil, errors.Wrapf(ErrUnknownGateKind,
				"gate %d: code %d", i, byte(g.Op))
		}
		if i > 0 && g.Output <= gates[i-1].Output {
			return nil, errors.Wrapf(ErrInvalidCircuitStructure,
				"gate %d: output %s not increasing", i, g.Output)
		}
		reads := g.Op.reads()
		if reads&readsA != 0 {
			if err := checkInput(defined, i, g.Input0, g.Output); err != nil {
				return nil, err
			}
		} else {
			g.Input0 = 0
		}
		if reads&readsB != 0 {
			if err := checkInput(defined, i, g.Input1, g.Output); err != nil {
				return nil, err
			}
		} else {
			g.Input1 = 0
		}
		if defined.Test(uint(g.Output)) {
			return nil, errors.Wrapf(ErrInvalidCircuitStructure,
				"gate %d: output %s already assigned", i, g.Output)
		}
		defined.Set(uint(g.Output))
		if g.Output.ID() >= c.NumWires {
			c.NumWires = g.Output.ID() + 1
		}
		c.Stats[g.Op]++
	}

	for _, w := range outputs {
		if !defined.Test(uint(w)) {
			return nil, errors.Wrapf(ErrInvalidCircuitStructure,
				"output wire %s undefined", w)
		}
	}

	return c, nil
}

func checkInput(defined *bitset.BitSet, gate int, in, out Wire) error {
	if in >= out {
		return errors.Wrapf(ErrInvalidCircuitStructure,
			"gate %d: input %s not before output %s", gate, in, out)
	}
	if !defined.Test(uint(in)) {
		return errors.Wrapf(ErrInvalidCircuitStructure,
			"gate %d: input %s undefined", gate, in)
	}
	return nil
}

// ParseSKCD parses the binary SKCD gate-list framing produced by the
// external circuit compiler:
//
//	magic(u32) | n(u32) | m(u32) | q(u32)
//	a[q](u32) | b[q](u32) | go[q](u32) | gt[q](u8)
//	outputs[m](u32)
//
// Input wires are 0..n-1. All integers are little-endian.
func ParseSKCD(in io.Reader) (*Circuit, error) {
	var magic, n, m, q uint32

	if err := readUint32(in, &magic); err != nil {
		return nil, err
	}
	if magic != SKCDMagic {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"bad SKCD magic %08x", magic)
	}
	if err := readUint32(in, &n); err != nil {
		return nil, err
	}
	if err := readUint32(in, &m); err != nil {
		return nil, err
	}
	if err := readUint32(in, &q); err != nil {
		return nil, err
	}
	if n > maxCount || m > maxCount || q > maxCount {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"unreasonable SKCD counts n=%d m=%d q=%d", n, m, q)
	}

	a, err := readWires(in, q)
	if err != nil {
		return nil, err
	}
	b, err := readWires(in, q)
	if err != nil {
		return nil, err
	}
	gateOut, err := readWires(in, q)
	if err != nil {
		return nil, err
	}
	kinds := make([]byte, q)
	if _, err := io.ReadFull(in, kinds); err != nil {
		return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	outputs, err := readWires(in, m)
	if err != nil {
		return nil, err
	}

	inputs := make([]Wire, n)
	for i := range inputs {
		inputs[i] = Wire(i)
	}
	gates := make([]Gate, q)
	for i := range gates {
		gates[i] = Gate{
			Input0: a[i],
			Input1: b[i],
			Output: gateOut[i],
			Op:     Operation(kinds[i]),
		}
	}
	return NewCircuit(inputs, outputs, gates)
}

// MarshalSKCD writes the circuit in the binary SKCD gate-list
// framing.
func (c *Circuit) MarshalSKCD(out io.Writer) error {
	var data = []interface{}{
		uint32(SKCDMagic),
		uint32(len(c.Inputs)),
		uint32(len(c.Outputs)),
		uint32(len(c.Gates)),
	}
	for _, v := range data {
		if err := binary.Write(out, bo, v); err != nil {
			return err
		}
	}
	for _, g := range c.Gates {
		if err := binary.Write(out, bo, uint32(g.Input0)); err != nil {
			return err
		}
	}
	for _, g := range c.Gates {
		if err := binary.Write(out, bo, uint32(g.Input1)); err != nil {
			return err
		}
	}
	for _, g := range c.Gates {
		if err := binary.Write(out, bo, uint32(g.Output)); err != nil {
			return err
		}
	}
	for _, g := range c.Gates {
		if err := binary.Write(out, bo, byte(g.Op)); err != nil {
			return err
		}
	}
	for _, w := range c.Outputs {
		if err := binary.Write(out, bo, uint32(w)); err != nil {
			return err
		}
	}
	return nil
}

func readUint32(in io.Reader, v *uint32) error {
	if err := binary.Read(in, bo, v); err != nil {
		return errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	return nil
}

func readWires(in io.Reader, count uint32) ([]Wire, error) {
	wires := make([]Wire, count)
	for i := range wires {
		var v uint32
		if err := readUint32(in, &v); err != nil {
			return nil, err
		}
		wires[i] = Wire(v)
	}
	return wires, nil
}
