//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package env implements the global environment for the garbling
// engine.
package env

import (
	"crypto/rand"
	"io"
	"runtime"

	"github.com/markkurossi/garble/label"
	"github.com/markkurossi/garble/prf"
)

// Config defines the configuration for one garble or evaluate
// operation. The zero value selects secure defaults. Config must not
// be modified after being passed to any engine function; it is safe
// for concurrent use as the engine does not modify it.
type Config struct {
	// Rand is the source of entropy for garbling. All randomness is
	// drawn from it; the engine never uses ambient randomness. If
	// nil, crypto/rand.Reader is used.
	Rand io.Reader

	// PRF selects the keyed hash scheme tying labels to gate
	// positions. Garbler and evaluator must agree on it. If nil,
	// prf.XXH3 is used.
	PRF prf.Scheme

	// Workers is the worker count for the data-parallel evaluator.
	// Values less than 1 select runtime.NumCPU().
	Workers int
}

// GetRandom returns the source of entropy for garbling.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// NewPRF creates the configured PRF instance for the circuit key.
func (config *Config) NewPRF(key label.Label) prf.PRF {
	if config != nil && config.PRF != nil {
		return config.PRF(key)
	}
	return prf.XXH3(key)
}

// NumWorkers returns the configured parallel evaluator width.
func (config *Config) NumWorkers() int {
	if config != nil && config.Workers > 0 {
		return config.Workers
	}
	return runtime.NumCPU()
}
