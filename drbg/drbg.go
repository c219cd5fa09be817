//
// drbg.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package drbg implements a deterministic random bit generator for
// reproducible garbling. The generator is a ChaCha20 keystream keyed
// by the BLAKE2b digest of the caller's seed; the same seed always
// yields the same byte stream on every platform.
package drbg

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Reader produces the deterministic byte stream. It implements
// io.Reader and is not safe for concurrent use.
type Reader struct {
	stream *chacha20.Cipher
}

// New creates a deterministic random bit generator from the seed.
// The seed may be of any length.
func New(seed []byte) (*Reader, error) {
	key := blake2b.Sum256(seed)

	var nonce [chacha20.NonceSize]byte
	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &Reader{
		stream: stream,
	}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}
