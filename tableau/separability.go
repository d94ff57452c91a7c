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

import "github.com/qethlabs/qtableau/simulator"

func xorRow(dst, src []bool) {
	for i := range dst {
		dst[i] = dst[i] != src[i]
	}
}

// findSingleQubitGenerator reports whether the stabilizer group contains an
// element acting as a single-qubit Pauli on q and identity everywhere else,
// by row-reducing a disposable copy of the stabilizer block against every
// OTHER column. It does not mutate the tableau.
func (t *Tableau) findSingleQubitGenerator(q int) (hasX, hasZ, ok bool) {
	n := t.n
	wx := make([][]bool, n)
	wz := make([][]bool, n)
	for i := 0; i < n; i++ {
		wx[i] = append([]bool(nil), t.x[n+i]...)
		wz[i] = append([]bool(nil), t.z[n+i]...)
	}

	row := 0
	for j := 0; j < n; j++ {
		if j == q {
			continue
		}
		for _, plane := range [][][]bool{wx, wz} {
			if row >= n {
				break
			}
			pivot := -1
			for r := row; r < n; r++ {
				if plane[r][j] {
					pivot = r
					break
				}
			}
			if pivot < 0 {
				continue
			}
			wx[row], wx[pivot] = wx[pivot], wx[row]
			wz[row], wz[pivot] = wz[pivot], wz[row]
			for r := 0; r < n; r++ {
				if r != row && plane[r][j] {
					xorRow(wx[r], wx[row])
					xorRow(wz[r], wz[row])
				}
			}
			row++
		}
	}

	for r := row; r < n; r++ {
		if wx[r][q] || wz[r][q] {
			return wx[r][q], wz[r][q], true
		}
	}
	return false, false, false
}

// IsSeparableZ reports whether q is in a Z-eigenstate (|0⟩ or |1⟩)
// independent of every other qubit's state.
func (t *Tableau) IsSeparableZ(q simulator.QubitIndex) bool {
	var sep bool
	t.run(func() {
		hasX, hasZ, ok := t.findSingleQubitGenerator(int(q))
		sep = ok && !hasX && hasZ
	})
	return sep
}

// IsSeparableX reports whether q is in an X-eigenstate (|+⟩ or |-⟩)
// independent of every other qubit's state.
func (t *Tableau) IsSeparableX(q simulator.QubitIndex) bool {
	var sep bool
	t.run(func() {
		hasX, hasZ, ok := t.findSingleQubitGenerator(int(q))
		sep = ok && hasX && !hasZ
	})
	return sep
}

// IsSeparableY reports whether q is in a Y-eigenstate (|i⟩ or |-i⟩)
// independent of every other qubit's state.
func (t *Tableau) IsSeparableY(q simulator.QubitIndex) bool {
	var sep bool
	t.run(func() {
		hasX, hasZ, ok := t.findSingleQubitGenerator(int(q))
		sep = ok && hasX && hasZ
	})
	return sep
}

// IsSeparable reports whether q is in any single-qubit pure state
// independent of every other qubit (the union of IsSeparableZ/X/Y).
func (t *Tableau) IsSeparable(q simulator.QubitIndex) bool {
	var sep bool
	t.run(func() {
		_, _, ok := t.findSingleQubitGenerator(int(q))
		sep = ok
	})
	return sep
}
