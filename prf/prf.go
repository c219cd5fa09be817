//
// prf.go
//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

// Package prf implements the keyed hash functions tying wire labels
// to gate positions. The garbler and every evaluator of a circuit
// must use the same scheme; the key travels inside the serialized
// circuit, the scheme choice is an API parameter.
package prf

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"github.com/markkurossi/garble/label"
	"github.com/zeebo/xxh3"
)

// PRF hashes a wire label under a per-gate tweak. Each gate uses two
// tweaks: 2*id for its left input and 2*id+1 for its right input.
type PRF interface {
	// Hash computes the tweaked hash of the label.
	Hash(tweak uint32, in label.Label) label.Label
}

// Scheme constructs a PRF instance for the circuit key.
type Scheme func(key label.Label) PRF

// XXH3 creates a PRF hashing key|tweak|label with xxh3-128. This is
// the default scheme: fast, non-cryptographic mixing, sufficient
// under the semi-honest model with short-lived circuits.
func XXH3(key label.Label) PRF {
	h := &xxh3PRF{}
	key.GetData(&h.key)
	return h
}

type xxh3PRF struct {
	key label.Data
}

func (h *xxh3PRF) Hash(tweak uint32, in label.Label) label.Label {
	var buf [label.Size + 4 + label.Size]byte

	copy(buf[0:], h.key[:])
	binary.LittleEndian.PutUint32(buf[label.Size:], tweak)

	var data label.Data
	copy(buf[label.Size+4:], in.Bytes(&data))

	sum := xxh3.Hash128(buf[:])
	return label.Label{
		D0: sum.Lo,
		D1: sum.Hi,
	}
}

// AES creates a PRF computing E_key(2x ^ t) ^ (2x ^ t) with AES-128.
// Deployments that do not want to rely on a non-cryptographic mixer
// can garble and evaluate with this scheme instead.
func AES(key label.Label) PRF {
	var data label.Data
	alg, err := aes.NewCipher(key.Bytes(&data))
	if err != nil {
		// aes.NewCipher fails only for invalid key sizes and the
		// label width is a valid AES-128 key size.
		panic(err)
	}
	return &aesPRF{
		alg: alg,
	}
}

type aesPRF struct {
	alg cipher.Block
}

func (h *aesPRF) Hash(tweak uint32, in label.Label) label.Label {
	k := in
	k.Mul2()
	k.Xor(label.NewTweak(tweak))

	var kData, cData label.Data
	h.alg.Encrypt(cData[:], k.Bytes(&kData))

	var out label.Label
	out.SetData(&cData)
	out.Xor(k)

	return out
}
