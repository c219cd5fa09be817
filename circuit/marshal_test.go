//
// marshal_test.go
//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func garbledAdder(t *testing.T) (*Garbled, []byte) {
	garbled, _, err := fullAdder(t).Garble(testConfig(t, 10))
	require.NoError(t, err)
	data, err := garbled.Bytes()
	require.NoError(t, err)
	return garbled, data
}

// TestMarshalRoundTrip decodes a serialized circuit and compares it
// structurally; re-encoding must reproduce the original bytes.
func TestMarshalRoundTrip(t *testing.T) {
	garbled, data := garbledAdder(t)

	decoded, err := UnmarshalGarbled(nil, bytes.NewReader(data))
	require.NoError(t, err)

	require.True(t, decoded.Key.Equal(garbled.Key))
	require.Equal(t, garbled.Inputs, decoded.Inputs)
	require.Equal(t, garbled.Outputs, decoded.Outputs)
	require.Equal(t, garbled.Decode, decoded.Decode)
	require.True(t, reflect.DeepEqual(garbled.Gates, decoded.Gates))
	require.Equal(t, garbled.NumWires(), decoded.NumWires())

	back, err := decoded.Bytes()
	require.NoError(t, err)
	require.Equal(t, data, back, "encoding is not canonical")
}

// TestMarshalCorruption flips every byte of the serialized circuit in
// turn; decoding must fail with ErrCorruptCircuit and must not panic.
func TestMarshalCorruption(t *testing.T) {
	_, data := garbledAdder(t)

	for i := range data {
		corrupt := bytes.Clone(data)
		corrupt[i] ^= 0x40

		_, err := UnmarshalGarbled(nil, bytes.NewReader(corrupt))
		require.Error(t, err, "byte %d", i)
		require.True(t, errors.Is(err, ErrCorruptCircuit),
			"byte %d: %v", i, err)
	}
}

// TestMarshalTruncation truncates the serialized circuit at every
// length.
func TestMarshalTruncation(t *testing.T) {
	_, data := garbledAdder(t)

	for i := 0; i < len(data); i++ {
		_, err := UnmarshalGarbled(nil, bytes.NewReader(data[:i]))
		require.True(t, errors.Is(err, ErrCorruptCircuit),
			"length %d: %v", i, err)
	}
}

func TestMarshalTrailingGarbage(t *testing.T) {
	_, data := garbledAdder(t)

	_, err := UnmarshalGarbled(nil, bytes.NewReader(append(data, 0x00)))
	require.True(t, errors.Is(err, ErrCorruptCircuit), "%v", err)
}

// TestEncoderRoundTrip serializes the input-label side channel and
// checks the labels survive.
func TestEncoderRoundTrip(t *testing.T) {
	_, enc, err := fullAdder(t).Garble(testConfig(t, 11))
	require.NoError(t, err)

	data, err := enc.Marshal()
	require.NoError(t, err)

	back, err := UnmarshalEncoder(data)
	require.NoError(t, err)
	require.Equal(t, enc.Order, back.Order)
	require.Equal(t, len(enc.Wires), len(back.Wires))
	for w, wire := range enc.Wires {
		require.True(t, back.Wires[w].L0.Equal(wire.L0), "wire %s", w)
		require.True(t, back.Wires[w].L1.Equal(wire.L1), "wire %s", w)
	}

	// Encoded inputs from the round-tripped encoder must evaluate.
	a, err := enc.EncodeInputs([]byte{1, 0, 1})
	require.NoError(t, err)
	b, err := back.EncodeInputs([]byte{1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEncodeInputsErrors(t *testing.T) {
	_, enc, err := fullAdder(t).Garble(testConfig(t, 12))
	require.NoError(t, err)

	_, err = enc.EncodeInputs([]byte{1, 0})
	require.True(t, errors.Is(err, ErrMissingInputLabel), "%v", err)

	_, err = enc.EncodeInputs([]byte{1, 0, 2})
	require.Error(t, err)
}

// TestSKCDRoundTrip writes the gate-list framing and parses it back.
func TestSKCDRoundTrip(t *testing.T) {
	c := fullAdder(t)

	var buf bytes.Buffer
	require.NoError(t, c.MarshalSKCD(&buf))

	back, err := ParseSKCD(&buf)
	require.NoError(t, err)
	require.Equal(t, c.Inputs, back.Inputs)
	require.Equal(t, c.Outputs, back.Outputs)
	require.Equal(t, c.Gates, back.Gates)
	require.Equal(t, c.NumWires, back.NumWires)
	require.Equal(t, c.Stats, back.Stats)
}

func TestSKCDErrors(t *testing.T) {
	_, err := ParseSKCD(bytes.NewReader([]byte{0x00, 0x01, 0x02}))
	require.True(t, errors.Is(err, ErrCorruptCircuit), "%v", err)

	var buf bytes.Buffer
	require.NoError(t, fullAdder(t).MarshalSKCD(&buf))
	data := buf.Bytes()
	data[0] ^= 0xff
	_, err = ParseSKCD(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrCorruptCircuit), "%v", err)

	_, err = ParseSKCD(bytes.NewReader(data[:len(data)-2]))
	require.Error(t, err)
}
