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

// Package circuit implements a gate-combining, commuting rewriter (C5/C6)
// that canonicalizes an appended gate sequence in place and lowers it onto
// any simulator.Simulator.
package circuit

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// gateEps is the tolerance TryCombine/CanPass/IsIdentity use when comparing
// payload matrices, matching the eps the tableau uses for the same checks
// (tableau/gates.go).
const gateEps = 1e-9

// Gate is one node in a circuit: a target qubit, an ordered set of control
// qubits, and a payload map from control pattern to the 2x2 matrix applied
// to target when the controls assert that pattern (spec.md §3). The payload
// key space is bounded by 2^len(controls), unlike simulator.Permutation
// (which addresses a whole register and is uint256-backed); a plain uint64
// is always sufficient here since real circuits never carry more than a
// handful of controls per gate.
type Gate struct {
	Target   simulator.QubitIndex
	controls []simulator.QubitIndex
	controlSet mapset.Set[simulator.QubitIndex]
	Payloads map[uint64]qnum.Matrix2x2
}

// NewGate builds a Gate, de-duplicating and order-preserving controls.
// controls must not contain target.
func NewGate(target simulator.QubitIndex, controls []simulator.QubitIndex, payloads map[uint64]qnum.Matrix2x2) (*Gate, error) {
	seen := mapset.NewSet[simulator.QubitIndex]()
	ordered := make([]simulator.QubitIndex, 0, len(controls))
	for _, c := range controls {
		if c == target {
			return nil, fmt.Errorf("circuit: control %d equals target", c)
		}
		if seen.Contains(c) {
			continue
		}
		seen.Add(c)
		ordered = append(ordered, c)
	}
	if payloads == nil {
		payloads = map[uint64]qnum.Matrix2x2{}
	}
	return &Gate{Target: target, controls: ordered, controlSet: seen, Payloads: payloads}, nil
}

// NewSwapGate builds the swap-encoded representation of SWAP(target,
// control): an empty payload map with exactly one control (spec.md §3).
func NewSwapGate(target, control simulator.QubitIndex) (*Gate, error) {
	return NewGate(target, []simulator.QubitIndex{control}, nil)
}

// Controls returns the gate's controls in construction order (the order
// payload keys are encoded against); use GetControlsVector for the sorted
// view spec.md §4.4 defines.
func (g *Gate) Controls() []simulator.QubitIndex {
	out := make([]simulator.QubitIndex, len(g.controls))
	copy(out, g.controls)
	return out
}

// GetControlsVector returns the controls in ascending order (spec.md §4.4).
func (g *Gate) GetControlsVector() []simulator.QubitIndex {
	out := g.Controls()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsSwapEncoded reports whether the gate represents SWAP(Target, the one
// control) rather than a controlled matrix (spec.md §3).
func (g *Gate) IsSwapEncoded() bool {
	return len(g.Payloads) == 0 && len(g.controls) == 1
}

// IsSinglePayloadControlled reports whether exactly one control pattern
// carries a non-default payload (spec.md §3).
func (g *Gate) IsSinglePayloadControlled() bool {
	return len(g.Payloads) == 1
}

// IsUniformlyControlled reports whether every one of the 2^len(controls)
// control patterns has an explicit payload entry (spec.md §3).
func (g *Gate) IsUniformlyControlled() bool {
	return len(g.controls) > 0 && len(g.Payloads) == 1<<uint(len(g.controls))
}

// IsIdentity reports whether applying the gate has no effect (spec.md §3):
// a swap-encoded gate is never identity (it is a genuine two-qubit
// permutation); otherwise the gate is identity when it carries no payloads
// at all (and no controls), or when every payload entry it does carry is
// the 2x2 identity.
func (g *Gate) IsIdentity() bool {
	if g.IsSwapEncoded() {
		return false
	}
	if len(g.Payloads) == 0 {
		return len(g.controls) == 0
	}
	for _, m := range g.Payloads {
		if !m.IsIdentity(gateEps) {
			return false
		}
	}
	return true
}

// MakeUniformlyControlledPayload produces the length-2^len(controls) array,
// filling missing pattern keys with the identity (spec.md §4.4).
func (g *Gate) MakeUniformlyControlledPayload() []qnum.Matrix2x2 {
	size := 1
	if k := len(g.controls); k > 0 {
		size = 1 << uint(k)
	}
	out := make([]qnum.Matrix2x2, size)
	for i := range out {
		out[i] = qnum.Identity2x2
	}
	for key, m := range g.Payloads {
		if int(key) < size {
			out[key] = m
		}
	}
	return out
}

// footprint is the full qubit set the gate reads or writes: target plus
// every control.
func (g *Gate) footprint() mapset.Set[simulator.QubitIndex] {
	f := g.controlSet.Clone()
	f.Add(g.Target)
	return f
}

// CanCombine reports whether TryCombine can merge other into g: they share
// the same target and an identical control set (so their payload keys are
// encoded against the same pattern space), and neither is swap-encoded —
// a swap carries no payload matrix to multiply against (spec.md §4.4).
//
// The spec text also allows combining gates with "disjoint targets and
// matching control sets"; no pair of gates sharing a target-as-single-qubit
// representation can express that case's result (a Gate has exactly one
// target field), so this implementation treats it as unreachable and
// restricts CanCombine to the same-target case. See DESIGN.md.
func (g *Gate) CanCombine(other *Gate) bool {
	if g.IsSwapEncoded() || other.IsSwapEncoded() {
		return false
	}
	return g.Target == other.Target && g.controlSet.Equal(other.controlSet)
}

// TryCombine merges other into g (other is assumed to apply after g) by
// multiplying matching payload keys and treating missing entries as
// identity (spec.md §4.4). Resulting identity entries are dropped; if the
// merged payload map becomes empty, g's controls are cleared too so the
// gate unambiguously reports IsIdentity rather than colliding with the
// swap-encoded representation (both would otherwise be "empty payloads,
// one control").
func (g *Gate) TryCombine(other *Gate) bool {
	if !g.CanCombine(other) {
		return false
	}
	size := 1
	if k := len(g.controls); k > 0 {
		size = 1 << uint(k)
	}
	merged := make(map[uint64]qnum.Matrix2x2, size)
	for key := uint64(0); key < uint64(size); key++ {
		a, aok := g.Payloads[key]
		b, bok := other.Payloads[key]
		if !aok && !bok {
			continue
		}
		if !aok {
			a = qnum.Identity2x2
		}
		if !bok {
			b = qnum.Identity2x2
		}
		product := b.Mul(a) // other applies after g: combined = other * g
		if product.IsIdentity(gateEps) {
			continue
		}
		merged[key] = product
	}
	g.Payloads = merged
	if len(merged) == 0 {
		g.controls = nil
		g.controlSet = mapset.NewSet[simulator.QubitIndex]()
	}
	return true
}

// CanPass reports whether g and other commute syntactically (spec.md
// §4.4): either their footprints don't overlap at all, or the only
// overlapping qubit is one gate's target used purely as the other's
// control, and that target-owning gate's payloads are all diagonal
// (phase-only matrices commute with a classical control read).
func (g *Gate) CanPass(other *Gate) bool {
	gf, of := g.footprint(), other.footprint()
	overlap := gf.Intersect(of)
	if overlap.Cardinality() == 0 {
		return true
	}
	if overlap.Cardinality() == 1 {
		if q, ok := overlap.Pop(); ok {
			if q == g.Target && other.controlSet.Contains(q) && g.isDiagonalAll() {
				return true
			}
			if q == other.Target && g.controlSet.Contains(q) && other.isDiagonalAll() {
				return true
			}
		}
	}
	return false
}

// isDiagonalAll reports whether every payload matrix (and, for a
// swap-encoded gate, none at all — a swap is never diagonal) is a pure
// phase matrix.
func (g *Gate) isDiagonalAll() bool {
	if g.IsSwapEncoded() {
		return false
	}
	if len(g.Payloads) == 0 {
		return true
	}
	for _, m := range g.Payloads {
		if !m.IsDiagonal(gateEps) {
			return false
		}
	}
	return true
}
