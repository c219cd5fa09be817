//
// eval_test.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"testing"

	"github.com/markkurossi/garble/drbg"
	"github.com/markkurossi/garble/env"
)

// randomCircuit builds a layered circuit mixing all gate functions,
// wide enough to exercise the parallel evaluator.
func randomCircuit(t testing.TB, numInputs, numGates int) *Circuit {
	rng, err := drbg.New([]byte("circuit"))
	if err != nil {
		t.Fatalf("drbg.New: %s", err)
	}
	buf := make([]byte, 16)

	inputs := make([]Wire, numInputs)
	for i := range inputs {
		inputs[i] = Wire(i)
	}
	var gates []Gate
	next := Wire(numInputs)
	for i := 0; i < numGates; i++ {
		if _, err := rng.Read(buf); err != nil {
			t.Fatalf("Read: %s", err)
		}
		a := Wire(bo.Uint32(buf[0:4]) % uint32(next))
		b := Wire(bo.Uint32(buf[4:8]) % uint32(next))
		op := Operation(buf[8] % NumOps)
		gates = append(gates, Gate{
			Input0: a,
			Input1: b,
			Output: next,
			Op:     op,
		})
		next++
	}
	outputs := []Wire{next - 3, next - 2, next - 1}

	c, err := NewCircuit(inputs, outputs, gates)
	if err != nil {
		t.Fatalf("NewCircuit: %s", err)
	}
	return c
}

// TestEvalParallel checks that the layered parallel evaluator is
// bit-identical to the sequential one.
func TestEvalParallel(t *testing.T) {
	c := randomCircuit(t, 32, 512)
	garbled, enc, err := c.Garble(testConfig(t, 7))
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}

	rng, err := drbg.New([]byte("inputs"))
	if err != nil {
		t.Fatalf("drbg.New: %s", err)
	}
	cfg := &env.Config{
		Workers: 4,
	}
	bits := make([]byte, 32)
	for round := 0; round < 32; round++ {
		if _, err := rng.Read(bits); err != nil {
			t.Fatalf("Read: %s", err)
		}
		for i := range bits {
			bits[i] &= 1
		}
		inputs, err := enc.EncodeInputs(bits)
		if err != nil {
			t.Fatalf("EncodeInputs: %s", err)
		}

		seq, err := garbled.Eval(inputs)
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		par, err := garbled.EvalParallel(cfg, inputs)
		if err != nil {
			t.Fatalf("EvalParallel: %s", err)
		}
		if !bytes.Equal(seq, par) {
			t.Fatalf("parallel result %v, sequential %v", par, seq)
		}

		expected, err := c.Compute(bits)
		if err != nil {
			t.Fatalf("Compute: %s", err)
		}
		if !bytes.Equal(seq, expected) {
			t.Fatalf("result %v, expected %v", seq, expected)
		}
	}
}

// TestCrossProcess garbles and serializes the full adder, then
// evaluates the decoded circuit as a second process would: only the
// serialized bytes and the chosen input labels cross the boundary.
func TestCrossProcess(t *testing.T) {
	c := fullAdder(t)

	seed := make([]byte, 16)
	seed[15] = 0x01
	rng, err := drbg.New(seed)
	if err != nil {
		t.Fatalf("drbg.New: %s", err)
	}
	garbled, enc, err := c.Garble(&env.Config{Rand: rng})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	data, err := garbled.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %s", err)
	}
	encData, err := enc.Marshal()
	if err != nil {
		t.Fatalf("Encoder.Marshal: %s", err)
	}

	// Evaluator side.
	decoded, err := UnmarshalGarbled(nil, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("UnmarshalGarbled: %s", err)
	}
	encBack, err := UnmarshalEncoder(encData)
	if err != nil {
		t.Fatalf("UnmarshalEncoder: %s", err)
	}

	for bits := 0; bits < 8; bits++ {
		in := []byte{byte(bits & 1), byte(bits >> 1 & 1), byte(bits >> 2 & 1)}
		inputs, err := encBack.EncodeInputs(in)
		if err != nil {
			t.Fatalf("EncodeInputs: %s", err)
		}
		result, err := decoded.Eval(inputs)
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		direct, err := garbled.Eval(inputs)
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		if !bytes.Equal(result, direct) {
			t.Fatalf("decoded circuit result %v, direct %v", result, direct)
		}
		expected, err := c.Compute(in)
		if err != nil {
			t.Fatalf("Compute: %s", err)
		}
		if !bytes.Equal(result, expected) {
			t.Fatalf("inputs %v: got %v, expected %v", in, result, expected)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	c := randomCircuit(b, 32, 4096)
	garbled, enc, err := c.Garble(testConfig(b, 8))
	if err != nil {
		b.Fatalf("Garble: %s", err)
	}
	bits := make([]byte, 32)
	inputs, err := enc.EncodeInputs(bits)
	if err != nil {
		b.Fatalf("EncodeInputs: %s", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := garbled.Eval(inputs); err != nil {
			b.Fatalf("Eval: %s", err)
		}
	}
}

func BenchmarkEvalParallel(b *testing.B) {
	c := randomCircuit(b, 32, 4096)
	garbled, enc, err := c.Garble(testConfig(b, 8))
	if err != nil {
		b.Fatalf("Garble: %s", err)
	}
	bits := make([]byte, 32)
	inputs, err := enc.EncodeInputs(bits)
	if err != nil {
		b.Fatalf("EncodeInputs: %s", err)
	}
	cfg := &env.Config{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := garbled.EvalParallel(cfg, inputs); err != nil {
			b.Fatalf("EvalParallel: %s", err)
		}
	}
}
