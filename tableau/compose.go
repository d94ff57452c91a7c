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
	mathrand "math/rand"

	"github.com/ethereum/go-ethereum/log"
	"github.com/qethlabs/qtableau/dispatch"
)

// Compose inserts other's m qubits into self at column/row position start,
// shifting every row index >= start up by m (spec.md §4.3.5). other is left
// untouched; self's phaseOffset multiplies in other's.
func (t *Tableau) Compose(other *Tableau, start int) error {
	if start < 0 || start > t.n {
		return ErrQubitOutOfRange
	}
	return t.runErr(func() error {
		other.run(func() {}) // other must not be mid-mutation when we read it
		m := other.n
		newN := t.n + m
		newX := make([][]bool, 2*newN+1)
		newZ := make([][]bool, 2*newN+1)
		newR := make([]uint8, 2*newN+1)
		for i := range newX {
			newX[i] = make([]bool, newN)
			newZ[i] = make([]bool, newN)
		}

		// widenInto splices an old (n-wide) row into a newN-wide row, with m
		// zero columns inserted at `start`, writing the result to dst.
		widenInto := func(dst []bool, src []bool) {
			copy(dst[:start], src[:start])
			copy(dst[start+m:], src[start:])
		}

		for i := 0; i < start; i++ {
			widenInto(newX[i], t.x[i])
			widenInto(newZ[i], t.z[i])
			newR[i] = t.r[i]
			widenInto(newX[newN+i], t.x[t.n+i])
			widenInto(newZ[newN+i], t.z[t.n+i])
			newR[newN+i] = t.r[t.n+i]
		}
		for i := 0; i < t.n-start; i++ {
			widenInto(newX[start+m+i], t.x[start+i])
			widenInto(newZ[start+m+i], t.z[start+i])
			newR[start+m+i] = t.r[start+i]
			widenInto(newX[newN+start+m+i], t.x[t.n+start+i])
			widenInto(newZ[newN+start+m+i], t.z[t.n+start+i])
			newR[newN+start+m+i] = t.r[t.n+start+i]
		}
		for i := 0; i < m; i++ {
			copy(newX[start+i][start:start+m], other.x[i])
			copy(newZ[start+i][start:start+m], other.z[i])
			newR[start+i] = other.r[i]
			copy(newX[newN+start+i][start:start+m], other.x[other.n+i])
			copy(newZ[newN+start+i][start:start+m], other.z[other.n+i])
			newR[newN+start+i] = other.r[other.n+i]
		}

		t.x, t.z, t.r = newX, newZ, newR
		t.n = newN
		t.phaseOffset = t.phaseOffset.Mul(other.phaseOffset)
		log.Debug("tableau: composed", "inserted", m, "at", start, "total", newN)
		return nil
	})
}

// CanDecomposeDispose reports whether the length qubits at [start,
// start+length) can be split off: every stabilizer row must act as identity
// outside that column range, or entirely within it (spec.md §4.3.5). It runs
// gaussian() first, which may reorder rows but never changes the state it
// represents.
func (t *Tableau) CanDecomposeDispose(start, length int) bool {
	var ok bool
	t.run(func() { ok = t.canDecomposeDisposeLocked(start, length) })
	return ok
}

func (t *Tableau) canDecomposeDisposeLocked(start, length int) bool {
	t.gaussian()
	end := start + length
	for row := t.n; row < 2*t.n; row++ {
		insideAny, outsideAny := false, false
		for j := 0; j < t.n; j++ {
			if !t.x[row][j] && !t.z[row][j] {
				continue
			}
			if j >= start && j < end {
				insideAny = true
			} else {
				outsideAny = true
			}
		}
		if insideAny && outsideAny {
			return false
		}
	}
	return true
}

// DecomposeDispose removes the length qubits at [start, start+length) from
// self. If dest is non-nil, the removed stabilizer/destabilizer rows (with
// their columns restricted to that range) are copied into it first and
// dest.phaseOffset is set to self's — "Decompose". With dest nil only the
// rows/columns are dropped — "Dispose". Fails with ErrNotDecomposable unless
// CanDecomposeDispose(start, length) holds.
func (t *Tableau) DecomposeDispose(start, length int, dest *Tableau) error {
	return t.runErr(func() error {
		if !t.canDecomposeDisposeLocked(start, length) {
			return ErrNotDecomposable
		}
		end := start + length
		n := t.n
		newN := n - length

		if dest != nil {
			dest.n = length
			dest.x = make([][]bool, 2*length+1)
			dest.z = make([][]bool, 2*length+1)
			dest.r = make([]uint8, 2*length+1)
			for i := range dest.x {
				dest.x[i] = make([]bool, length)
				dest.z[i] = make([]bool, length)
			}
			for i := 0; i < length; i++ {
				copy(dest.x[i], t.x[start+i][start:end])
				copy(dest.z[i], t.z[start+i][start:end])
				dest.r[i] = t.r[start+i]
				copy(dest.x[length+i], t.x[n+start+i][start:end])
				copy(dest.z[length+i], t.z[n+start+i][start:end])
				dest.r[length+i] = t.r[n+start+i]
			}
			dest.phaseOffset = t.phaseOffset
			dest.state = Unitary
			if dest.queue == nil {
				dest.queue = dispatch.NewQueue()
			}
		}

		shrinkRow := func(row []bool) []bool {
			out := make([]bool, 0, newN)
			out = append(out, row[:start]...)
			out = append(out, row[end:]...)
			return out
		}

		newX := make([][]bool, 2*newN+1)
		newZ := make([][]bool, 2*newN+1)
		newR := make([]uint8, 2*newN+1)
		idx := 0
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				continue
			}
			newX[idx] = shrinkRow(t.x[i])
			newZ[idx] = shrinkRow(t.z[i])
			newR[idx] = t.r[i]
			idx++
		}
		for i := n; i < 2*n; i++ {
			if i >= n+start && i < n+end {
				continue
			}
			newX[idx] = shrinkRow(t.x[i])
			newZ[idx] = shrinkRow(t.z[i])
			newR[idx] = t.r[i]
			idx++
		}
		newX[2*newN] = make([]bool, newN)
		newZ[2*newN] = make([]bool, newN)

		t.x, t.z, t.r = newX, newZ, newR
		t.n = newN
		log.Debug("tableau: decomposed/disposed", "start", start, "length", length, "remaining", newN)
		return nil
	})
}

// Dispose is DecomposeDispose without keeping the removed qubits.
func (t *Tableau) Dispose(start, length int) error {
	return t.DecomposeDispose(start, length, nil)
}

// Decompose is DecomposeDispose, copying the removed qubits into a fresh
// Tableau that the caller owns.
func (t *Tableau) Decompose(start, length int) (*Tableau, error) {
	dest := &Tableau{
		precision:     t.precision,
		phaseFallback: t.phaseFallback,
		rng:           mathrand.New(mathrand.NewSource(secureSeed())),
	}
	if err := t.DecomposeDispose(start, length, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// TrySeparate reports whether qubit q can be split off as an independent
// single-qubit state (spec.md §4.3.5, CanDecomposeDispose(q,1)).
func (t *Tableau) TrySeparate(q int) bool {
	return t.CanDecomposeDispose(q, 1)
}

// TrySeparatePair is the two-qubit variant: a and b are moved to columns
// 0 and 1 (swapping, not composing, so the rest of the register is
// otherwise undisturbed), tested jointly, then swapped back regardless of
// the outcome.
func (t *Tableau) TrySeparatePair(a, b int) bool {
	var ok bool
	t.run(func() {
		t.swapLocked(a, 0)
		effB := b
		switch b {
		case 0:
			effB = a
		case a:
			effB = 0
		}
		t.swapLocked(effB, 1)
		ok = t.canDecomposeDisposeLocked(0, 2)
		// Undo in reverse: each swap is its own inverse, so replaying both
		// in reverse order restores the original layout exactly.
		t.swapLocked(effB, 1)
		t.swapLocked(a, 0)
	})
	return ok
}
