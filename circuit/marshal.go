//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garble/env"
	"github.com/markkurossi/garble/label"
	"github.com/zeebo/xxh3"
)

const (
	// MAGIC is the magic number of the garbled circuit format.
	MAGIC = 0x67626300 // gbc\0

	// Version is the garbled circuit format version.
	Version = 1

	// maxCount bounds the element counts read from serialized data
	// before allocation.
	maxCount = 1 << 28
)

var (
	bo = binary.LittleEndian
)

// Marshal serializes the garbled circuit:
//
//	magic(u32) | version(u16) | block_width_bits(u16)
//	prf_key(block_width)
//	n_input_wires(u32)  [wire_id(u32) x n]
//	n_output_wires(u32) [wire_id(u32) x n]
//	output decode bits, packed LSB-first
//	n_gates(u32)
//	kind(u8) | out(u32) | a(u32) | b(u32) | nonlinear: C0 C1
//	digest(u64)
//
// The digest is the xxh3-64 hash of all preceding bytes; corruption
// anywhere in the stream is detected before parsing. The encoding is
// canonical: structurally equal circuits produce identical bytes.
func (g *Garbled) Marshal(out io.Writer) error {
	data, err := g.Bytes()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// Bytes serializes the garbled circuit to a byte slice.
func (g *Garbled) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.marshalBody(&buf); err != nil {
		return nil, err
	}
	digest := xxh3.Hash(buf.Bytes())
	if err := binary.Write(&buf, bo, digest); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Garbled) marshalBody(out io.Writer) error {
	var data = []interface{}{
		uint32(MAGIC),
		uint16(Version),
		uint16(label.Bits),
	}
	for _, v := range data {
		if err := binary.Write(out, bo, v); err != nil {
			return err
		}
	}
	var buf label.Data
	if _, err := out.Write(g.Key.Bytes(&buf)); err != nil {
		return err
	}
	if err := marshalWires(out, g.Inputs); err != nil {
		return err
	}
	if err := marshalWires(out, g.Outputs); err != nil {
		return err
	}
	if _, err := out.Write(g.Decode); err != nil {
		return err
	}
	if err := binary.Write(out, bo, uint32(len(g.Gates))); err != nil {
		return err
	}
	for i := range g.Gates {
		gate := &g.Gates[i]
		data = []interface{}{
			byte(gate.Op),
			uint32(gate.Output), uint32(gate.Input0), uint32(gate.Input1),
		}
		for _, v := range data {
			if err := binary.Write(out, bo, v); err != nil {
				return err
			}
		}
		if !gate.Op.Free() {
			if _, err := out.Write(gate.C0.Bytes(&buf)); err != nil {
				return err
			}
			if _, err := out.Write(gate.C1.Bytes(&buf)); err != nil {
				return err
			}
		}
	}
	return nil
}

func marshalWires(out io.Writer, wires []Wire) error {
	if err := binary.Write(out, bo, uint32(len(wires))); err != nil {
		return err
	}
	for _, w := range wires {
		if err := binary.Write(out, bo, uint32(w)); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalGarbled deserializes a garbled circuit, verifying the
// integrity digest and validating the structure. The configuration
// selects the PRF scheme the circuit was garbled with.
func UnmarshalGarbled(cfg *env.Config, r io.Reader) (*Garbled, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	if len(data) < 8 {
		return nil, errors.Wrap(ErrCorruptCircuit, "truncated data")
	}
	body := data[:len(data)-8]
	digest := bo.Uint64(data[len(data)-8:])
	if digest != xxh3.Hash(body) {
		return nil, errors.Wrap(ErrCorruptCircuit, "digest mismatch")
	}
	in := bytes.NewReader(body)

	var magic uint32
	if err := readUint32(in, &magic); err != nil {
		return nil, err
	}
	if magic != MAGIC {
		return nil, errors.Wrapf(ErrCorruptCircuit, "bad magic %08x", magic)
	}
	var version, widthBits uint16
	if err := binary.Read(in, bo, &version); err != nil {
		return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	if version != Version {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"unsupported version %d", version)
	}
	if err := binary.Read(in, bo, &widthBits); err != nil {
		return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	if widthBits != label.Bits {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"unsupported block width %d", widthBits)
	}

	g := new(Garbled)
	if err := readLabel(in, &g.Key); err != nil {
		return nil, err
	}

	g.Inputs, err = unmarshalWires(in)
	if err != nil {
		return nil, err
	}
	g.Outputs, err = unmarshalWires(in)
	if err != nil {
		return nil, err
	}
	g.Decode = make([]byte, (len(g.Outputs)+7)/8)
	if _, err := io.ReadFull(in, g.Decode); err != nil {
		return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
	}

	var numGates uint32
	if err := readUint32(in, &numGates); err != nil {
		return nil, err
	}
	if numGates > maxCount {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"unreasonable gate count %d", numGates)
	}
	g.Gates = make([]GarbledGate, numGates)
	for i := range g.Gates {
		gate := &g.Gates[i]

		var kind byte
		if err := binary.Read(in, bo, &kind); err != nil {
			return nil, errors.Wrap(ErrCorruptCircuit, err.Error())
		}
		gate.Op = Operation(kind)
		if gate.Op >= NumOps {
			return nil, errors.Wrapf(ErrUnknownGateKind,
				"gate %d: code %d", i, kind)
		}
		var out, a, b uint32
		if err := readUint32(in, &out); err != nil {
			return nil, err
		}
		if err := readUint32(in, &a); err != nil {
			return nil, err
		}
		if err := readUint32(in, &b); err != nil {
			return nil, err
		}
		gate.Output = Wire(out)
		gate.Input0 = Wire(a)
		gate.Input1 = Wire(b)

		if !gate.Op.Free() {
			if err := readLabel(in, &gate.C0); err != nil {
				return nil, err
			}
			if err := readLabel(in, &gate.C1); err != nil {
				return nil, err
			}
		}
	}

	if in.Len() != 0 {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"%d trailing bytes", in.Len())
	}

	// Validate structure and compute the wire count with the same
	// checks the garbler applies to a gate list.
	gates := make([]Gate, len(g.Gates))
	for i := range g.Gates {
		gates[i] = Gate{
			Input0: g.Gates[i].Input0,
			Input1: g.Gates[i].Input1,
			Output: g.Gates[i].Output,
			Op:     g.Gates[i].Op,
		}
	}
	c, err := NewCircuit(g.Inputs, g.Outputs, gates)
	if err != nil {
		return nil, err
	}
	g.numWires = c.NumWires
	g.prf = cfg.NewPRF(g.Key)
	g.plan = new(evalPlan)

	return g, nil
}

func unmarshalWires(in io.Reader) ([]Wire, error) {
	var count uint32
	if err := readUint32(in, &count); err != nil {
		return nil, err
	}
	if count > maxCount {
		return nil, errors.Wrapf(ErrCorruptCircuit,
			"unreasonable wire count %d", count)
	}
	return readWires(in, count)
}

func readLabel(in io.Reader, l *label.Label) error {
	var buf label.Data
	if _, err := io.ReadFull(in, buf[:]); err != nil {
		return errors.Wrap(ErrCorruptCircuit, err.Error())
	}
	l.SetData(&buf)
	return nil
}
