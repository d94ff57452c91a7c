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

package tableau

import (
	"math"

	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// scratchRow is the index of the scratch row (row 2n) used by amplitude
// extraction and measurement.
func (t *Tableau) scratchRow() int { return 2 * t.n }

// seed solves, by back substitution over the n-g pure-Z stabilizer rows
// produced by gaussian(), the unique deterministic bit assignment consistent
// with their eigenvalues, leaving the g free (gaussian-rank) qubits at 0 —
// callers explore those via enumerate. Rows are walked from 2n-1 down to
// n+g: since gaussian's second pass only clears a pivot column from rows
// found AFTER it, a row's support can still reference a higher-index (and
// so already-resolved, in this reverse walk) pivot column, but never a
// lower one — which is exactly what back substitution requires.
func (t *Tableau) seed(g int) []bool {
	n := t.n
	bits := make([]bool, n)
	for p := 2*n - 1; p >= n+g; p-- {
		pivot := -1
		parity := false
		for j := 0; j < n; j++ {
			if t.z[p][j] {
				if pivot < 0 {
					pivot = j
				}
				if bits[j] {
					parity = !parity
				}
			}
		}
		if pivot < 0 {
			continue
		}
		want := t.r[p] == 2
		if parity != want {
			bits[pivot] = !bits[pivot]
		}
	}
	return bits
}

// amplitudeTerm is one (permutation, amplitude) pair produced while
// enumerating the 2^g basis states carrying nonzero amplitude.
type amplitudeTerm struct {
	perm simulator.Permutation
	amp  qnum.Complex
}

// enumerate returns every basis state with nonzero amplitude together with
// its amplitude, per the formula in spec.md §4.3.1:
// phaseOffset * i^(R[scratch] + y) * 2^(-g/2), where y counts the scratch
// row's Y columns (X and Z both set), since Y|0⟩ = i|1⟩.
func (t *Tableau) enumerate() []amplitudeTerm {
	n := t.n
	g := t.gaussian()
	base := t.seed(g)
	scratch := t.scratchRow()

	// Seed the scratch row from the deterministic bit pattern: a pure
	// product of X_j over the bits that are set reproduces `base` as the
	// scratch row's X-support with phase zero.
	for j := range t.x[scratch] {
		t.x[scratch][j] = false
		t.z[scratch][j] = false
	}
	t.r[scratch] = 0
	for j, b := range base {
		if b {
			t.mulX(scratch, j)
		}
	}

	savedX := make([]bool, n)
	savedZ := make([]bool, n)
	copy(savedX, t.x[scratch])
	copy(savedZ, t.z[scratch])
	savedR := t.r[scratch]

	norm := math.Pow(2, -float64(g)/2)
	terms := make([]amplitudeTerm, 0, 1<<uint(g))
	for mask := 0; mask < 1<<uint(g); mask++ {
		copy(t.x[scratch], savedX)
		copy(t.z[scratch], savedZ)
		t.r[scratch] = savedR
		for i := 0; i < g; i++ {
			if mask&(1<<uint(i)) != 0 {
				t.rowmult(scratch, n+i)
			}
		}
		perm := simulator.NewPermutation(0)
		e := int(t.r[scratch])
		for j := 0; j < n; j++ {
			if t.x[scratch][j] {
				perm = simulator.WithBit(perm, j, true)
				if t.z[scratch][j] {
					e++
				}
			}
		}
		phase := iPow(e)
		amp := t.phaseOffset.Mul(phase).Scale(norm)
		terms = append(terms, amplitudeTerm{perm: perm, amp: amp})
	}
	return terms
}

// iPow returns i^e for e in {0,1,2,3}.
func iPow(e int) qnum.Complex {
	switch ((e % 4) + 4) % 4 {
	case 0:
		return qnum.One
	case 1:
		return qnum.I
	case 2:
		return qnum.C(-1, 0)
	default:
		return qnum.C(0, -1)
	}
}

// GetAnyAmplitude returns one permutation with non-negligible amplitude,
// together with that amplitude. Used internally by phase-aware gates to
// calibrate phaseOffset, and exposed because callers exploring a large
// register often want "some witness state" without enumerating all 2^g.
func (t *Tableau) GetAnyAmplitude() (simulator.Permutation, qnum.Complex) {
	var perm simulator.Permutation
	var amp qnum.Complex
	t.run(func() {
		terms := t.enumerate()
		perm, amp = terms[0].perm, terms[0].amp
	})
	return perm, amp
}

// GetAmplitude returns the amplitude of the given permutation (0 if it
// carries no weight in the current state).
func (t *Tableau) GetAmplitude(p simulator.Permutation) qnum.Complex {
	var amp qnum.Complex
	t.run(func() {
		for _, term := range t.enumerate() {
			if term.perm.Eq(p) {
				amp = term.amp
				return
			}
		}
	})
	return amp
}

// GetQubitAmplitude returns the amplitude of the computational basis state
// in which the given qubit holds value bit and every other qubit is
// fixed at the corresponding bit of p; p's own bit at q is ignored.
func (t *Tableau) GetQubitAmplitude(q simulator.QubitIndex, bit bool, p simulator.Permutation) qnum.Complex {
	target := simulator.WithBit(p, int(q), bit)
	return t.GetAmplitude(target)
}

// GetQuantumState returns every basis state with non-negligible amplitude.
func (t *Tableau) GetQuantumState() []amplitudeTerm {
	var terms []amplitudeTerm
	t.run(func() { terms = t.enumerate() })
	return terms
}

// Prob returns the probability that measuring qubit q yields 1.
func (t *Tableau) Prob(q simulator.QubitIndex) (float64, error) {
	if err := t.checkQubit(q); err != nil {
		return 0, err
	}
	var p float64
	t.run(func() {
		for _, term := range t.enumerate() {
			if simulator.BitSet(term.perm, int(q)) {
				p += term.amp.AbsSquared()
			}
		}
	})
	return p, nil
}
