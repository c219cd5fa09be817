//
// encoder.go
//
// Copyright (c) 2022-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/markkurossi/garble/label"
)

// Encoder holds the garbler's input-label side channel: the (L0, L1)
// pair of every input wire, in the declared input order. It is
// produced by Garble, never serialized into the circuit bytes, and
// delivered to input owners out of band.
type Encoder struct {
	Order []Wire              `cbor:"order"`
	Wires map[Wire]label.Wire `cbor:"wires"`
}

// EncodeInputs picks one label per input wire for the input bits.
// The bits are given in the declared input order; values other than
// 0 and 1 are rejected.
func (e *Encoder) EncodeInputs(bits []byte) (map[Wire]label.Label, error) {
	if len(bits) != len(e.Order) {
		return nil, errors.Wrapf(ErrMissingInputLabel,
			"got %d input bits, expected %d", len(bits), len(e.Order))
	}
	inputs := make(map[Wire]label.Label)
	for idx, w := range e.Order {
		wire, ok := e.Wires[w]
		if !ok {
			return nil, errors.Wrapf(ErrMissingInputLabel,
				"no label pair for input wire %s", w)
		}
		switch bits[idx] {
		case 0:
			inputs[w] = wire.L0
		case 1:
			inputs[w] = wire.L1
		default:
			return nil, errors.Newf("input bit %d is %d, expected 0 or 1",
				idx, bits[idx])
		}
	}
	return inputs, nil
}

// Marshal serializes the encoder in CBOR.
func (e *Encoder) Marshal() ([]byte, error) {
	return cbor.Marshal(e)
}

// UnmarshalEncoder deserializes a CBOR-encoded encoder.
func UnmarshalEncoder(data []byte) (*Encoder, error) {
	enc := new(Encoder)
	if err := cbor.Unmarshal(data, enc); err != nil {
		return nil, err
	}
	return enc, nil
}
