//
// label_test.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package label

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestSelectBit(t *testing.T) {
	var l Label
	if l.S() {
		t.Fatalf("zero label has select bit set")
	}
	l.SetS(true)
	if !l.S() {
		t.Fatalf("SetS(true) failed")
	}
	if l.D0 != 1 {
		t.Fatalf("select bit is not the LSB of D0: %x", l.D0)
	}
	l.SetS(false)
	if l.S() {
		t.Fatalf("SetS(false) failed")
	}
}

func TestXor(t *testing.T) {
	a, err := New(rand.Reader)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	b, err := New(rand.Reader)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	c := a
	c.Xor(b)
	c.Xor(b)
	if !c.Equal(a) {
		t.Fatalf("xor is not an involution")
	}
}

func TestBytes(t *testing.T) {
	l := Label{
		D0: 0x0123456789abcdef,
		D1: 0xfedcba9876543210,
	}
	var buf Data
	data := l.Bytes(&buf)
	if data[0] != 0xef {
		t.Fatalf("serialization is not little-endian: %x", data)
	}

	var back Label
	back.SetBytes(data)
	if !back.Equal(l) {
		t.Fatalf("bytes round-trip failed")
	}

	parsed, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %s", err)
	}
	if !parsed.Equal(l) {
		t.Fatalf("FromBytes round-trip failed")
	}
}

func TestFromBytesWidth(t *testing.T) {
	if _, err := FromBytes(make([]byte, Size-1)); err == nil {
		t.Fatalf("short data accepted")
	}
	if _, err := FromBytes(make([]byte, Size+1)); err == nil {
		t.Fatalf("long data accepted")
	}
}

func TestMarshalBinary(t *testing.T) {
	l, err := New(rand.Reader)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	data, err := l.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %s", err)
	}
	var back Label
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %s", err)
	}
	if !back.Equal(l) {
		t.Fatalf("binary round-trip failed")
	}

	var buf Data
	if !bytes.Equal(data, l.Bytes(&buf)) {
		t.Fatalf("MarshalBinary differs from Bytes")
	}
}

func TestMul2(t *testing.T) {
	l := Label{D0: 0x8000000000000001, D1: 0}
	l.Mul2()
	if l.D0 != 2 || l.D1 != 1 {
		t.Fatalf("Mul2 carry failed: %s", l)
	}
}

func TestWireSelect(t *testing.T) {
	w := Wire{
		L0: Label{D0: 1},
		L1: Label{D0: 2},
	}
	if !w.Select(false).Equal(w.L0) {
		t.Fatalf("Select(false) != L0")
	}
	if !w.Select(true).Equal(w.L1) {
		t.Fatalf("Select(true) != L1")
	}
}
