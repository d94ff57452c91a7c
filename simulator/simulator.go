// Copyright 2024 The qtableau Authors
// This file is part of the qtableau library.
//
// The qtableau library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The qtableau library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the qtableau library. If not, see <http://www.gnu.org/licenses/>.

// Package simulator defines the capability set the circuit rewriter
// consumes and any concrete quantum engine — the stabilizer tableau
// included — exposes (spec.md §4.2).
package simulator

import (
	"github.com/holiman/uint256"
	"github.com/qethlabs/qtableau/qnum"
)

// QubitIndex identifies a qubit in a register; it must be < QubitCount().
type QubitIndex = uint32

// Permutation interprets each bit position as the computational-basis value
// of the corresponding qubit. It is backed by uint256.Int rather than a
// native machine word so registers well beyond 64 qubits (well within the
// stabilizer tableau's polynomial-space budget) can still be addressed; see
// SPEC_FULL.md §5.
type Permutation = *uint256.Int

// NewPermutation builds a Permutation from a plain uint64 basis index.
func NewPermutation(v uint64) Permutation {
	return new(uint256.Int).SetUint64(v)
}

// PermCount returns 2^n, the number of basis states addressable by an
// n-qubit register.
func PermCount(n int) Permutation {
	one := uint256.NewInt(1)
	return new(uint256.Int).Lsh(one, uint(n))
}

// BitSet reports whether bit i of p is set.
func BitSet(p Permutation, i int) bool {
	shifted := new(uint256.Int).Rsh(p, uint(i))
	return shifted.Uint64()&1 == 1
}

// WithBit returns a copy of p with bit i set to v.
func WithBit(p Permutation, i int, v bool) Permutation {
	r := new(uint256.Int).Set(p)
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(i))
	if v {
		r.Or(r, mask)
	} else {
		notMask := new(uint256.Int).Not(mask)
		r.And(r, notMask)
	}
	return r
}

// ControlPattern encodes a slice of control-qubit boolean values into the
// big-endian-over-controls pattern used by UCMtrx/UniformlyControlledSingleBit
// (spec.md §3): bits[0] is the most significant bit of the result.
func ControlPattern(bits []bool) uint64 {
	var p uint64
	for _, b := range bits {
		p <<= 1
		if b {
			p |= 1
		}
	}
	return p
}

// PatternBit reports the asserted-value a control pattern requires for the
// i'th control (of k total), per the same big-endian-over-controls
// convention as ControlPattern.
func PatternBit(pattern uint64, i, k int) bool {
	shift := k - 1 - i
	return (pattern>>uint(shift))&1 == 1
}

// Simulator is the operation set the circuit rewriter (C6) lowers onto and
// the stabilizer tableau (C4) implements a strict (Clifford + Pauli)
// subset of. An implementation that cannot honor an operation returns
// ErrUnsupported.
type Simulator interface {
	// QubitCount reports the number of qubits currently allocated.
	QubitCount() int

	// Allocate grows the register by n fresh |0⟩ qubits.
	Allocate(n int) error

	// Mtrx applies an uncontrolled single-qubit matrix to target.
	Mtrx(m qnum.Matrix2x2, target QubitIndex) error

	// MCMtrx applies m to target when every control qubit is |1⟩.
	MCMtrx(controls []QubitIndex, m qnum.Matrix2x2, target QubitIndex) error

	// MACMtrx applies m to target when every control qubit is |0⟩
	// (anti-controlled).
	MACMtrx(controls []QubitIndex, m qnum.Matrix2x2, target QubitIndex) error

	// UCMtrx applies m to target only when the controls match the given
	// big-endian-over-controls pattern exactly (single-payload controlled).
	UCMtrx(controls []QubitIndex, m qnum.Matrix2x2, target QubitIndex, pattern uint64) error

	// UniformlyControlledSingleBit applies payload[pattern] to target for
	// whichever control pattern the controls currently encode; payload has
	// length 2^len(controls), indexed in control-pattern order.
	UniformlyControlledSingleBit(controls []QubitIndex, target QubitIndex, payload []qnum.Matrix2x2) error

	// Swap exchanges the state of two qubits.
	Swap(a, b QubitIndex) error

	// X applies an uncontrolled Pauli-X to q; kept as its own method
	// (rather than routed through Mtrx) because deferred-control lowering
	// emits bare X gates as its own bookkeeping primitive (spec.md §4.5).
	X(q QubitIndex) error
}
