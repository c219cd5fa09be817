//
// label.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

// Package label implements the fixed-width wire labels carried by
// garbled circuits.
package label

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// Label sizes.
const (
	// Bits is the label width in bits.
	Bits = 128

	// Size is the label width in bytes.
	Size = Bits / 8
)

// Wire implements a wire with 0 and 1 labels.
type Wire struct {
	L0 Label
	L1 Label
}

func (w Wire) String() string {
	return fmt.Sprintf("%s/%s", w.L0, w.L1)
}

// Select returns the wire label for the bit value.
func (w Wire) Select(bit bool) Label {
	if bit {
		return w.L1
	}
	return w.L0
}

// Label implements a 128 bit wire label. The label select bit is the
// least-significant bit of D0, and D0 is the low limb of the
// little-endian byte serialization.
type Label struct {
	D0 uint64
	D1 uint64
}

// Data contains label data as a byte array.
type Data [Size]byte

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D1, l.D0)
}

// Equal tests if the labels are equal.
func (l Label) Equal(o Label) bool {
	return l.D0 == o.D0 && l.D1 == o.D1
}

// New creates a new random label from the random source.
func New(rand io.Reader) (Label, error) {
	var buf Data
	var label Label

	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return label, err
	}
	label.SetData(&buf)
	return label, nil
}

// NewTweak creates a new label from the tweak value.
func NewTweak(tweak uint32) Label {
	return Label{
		D0: uint64(tweak),
	}
}

// S tests the label's select bit.
func (l Label) S() bool {
	return (l.D0 & 1) != 0
}

// SetS sets the label's select bit.
func (l *Label) SetS(set bool) {
	if set {
		l.D0 |= 1
	} else {
		l.D0 &^= 1
	}
}

// Mul2 multiplies the label by 2.
func (l *Label) Mul2() {
	l.D1 <<= 1
	l.D1 |= (l.D0 >> 63)
	l.D0 <<= 1
}

// Xor xors the label with the argument label.
func (l *Label) Xor(o Label) {
	l.D0 ^= o.D0
	l.D1 ^= o.D1
}

// GetData gets the label as label data.
func (l Label) GetData(buf *Data) {
	binary.LittleEndian.PutUint64(buf[0:8], l.D0)
	binary.LittleEndian.PutUint64(buf[8:16], l.D1)
}

// SetData sets the label from label data.
func (l *Label) SetData(data *Data) {
	l.D0 = binary.LittleEndian.Uint64((*data)[0:8])
	l.D1 = binary.LittleEndian.Uint64((*data)[8:16])
}

// Bytes returns the label data as bytes.
func (l Label) Bytes(buf *Data) []byte {
	l.GetData(buf)
	return buf[:]
}

// SetBytes sets the label data from bytes. The data must be exactly
// Size bytes long.
func (l *Label) SetBytes(data []byte) {
	l.D0 = binary.LittleEndian.Uint64(data[0:8])
	l.D1 = binary.LittleEndian.Uint64(data[8:16])
}

// FromBytes creates a label from its serialized form.
func FromBytes(data []byte) (Label, error) {
	var label Label
	if len(data) != Size {
		return label, errors.Newf("invalid label width: %d bits, expected %d",
			len(data)*8, Bits)
	}
	label.SetBytes(data)
	return label, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (l Label) MarshalBinary() ([]byte, error) {
	var buf Data
	l.GetData(&buf)
	return buf[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (l *Label) UnmarshalBinary(data []byte) error {
	label, err := FromBytes(data)
	if err != nil {
		return err
	}
	*l = label
	return nil
}
