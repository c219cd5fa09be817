//
// wiretable.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/markkurossi/garble/label"
)

// WireTable is the dense wire-id to label mapping used as scratch
// state by one garble or evaluate call. During garbling it holds the
// zero-label of each wire; during evaluation the one label the
// evaluator actually holds. Writes are single-assignment; violations
// are programmer errors, unreachable from validated circuits, and
// panic.
type WireTable struct {
	labels   []label.Label
	assigned *bitset.BitSet
}

// NewWireTable creates a wire table for numWires wires.
func NewWireTable(numWires int) *WireTable {
	return &WireTable{
		labels:   make([]label.Label, numWires),
		assigned: bitset.New(uint(numWires)),
	}
}

// Set assigns the label of the wire.
func (t *WireTable) Set(w Wire, l label.Label) {
	if t.assigned.Test(uint(w)) {
		panic(fmt.Sprintf("wire table: double assignment of %s", w))
	}
	t.assigned.Set(uint(w))
	t.labels[w] = l
}

// Get returns the label of the wire.
func (t *WireTable) Get(w Wire) label.Label {
	if !t.assigned.Test(uint(w)) {
		panic(fmt.Sprintf("wire table: read before write of %s", w))
	}
	return t.labels[w]
}
