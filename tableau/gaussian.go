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

// All of the helpers in this file assume the caller already holds exclusive
// access to the tableau's rows (i.e. runs inside a closure dispatched on
// t.queue). None of them touch t.queue themselves.

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// gphase returns the exponent of i (in {-1,0,1}) picked up when the
// single-qubit Pauli represented by (x1,z1) is left-multiplied onto the one
// represented by (x2,z2), under the convention Pauli = i^0 X^x Z^z. This is
// the classic CHP "g" function (Aaronson & Gottesman 2004, §III).
func gphase(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1:
		return btoi(z2) - btoi(x2)
	case x1 && !z1:
		return btoi(z2) * (2*btoi(x2) - 1)
	default:
		return btoi(x2) * (1 - 2*btoi(z2))
	}
}

// rowmult sets row i to the Pauli product (row i) * (row k), accumulating
// phase exactly (mod 4, not collapsed to a sign bit): this is what lets the
// scratch row carry a genuine i/-i phase during amplitude extraction, not
// just the ±1 a plain CHP implementation needs.
func (t *Tableau) rowmult(i, k int) {
	sum := int(t.r[i]) + int(t.r[k])
	for j := 0; j < t.n; j++ {
		sum += gphase(t.x[k][j], t.z[k][j], t.x[i][j], t.z[i][j])
	}
	t.r[i] = uint8(((sum % 4) + 4) % 4)
	for j := 0; j < t.n; j++ {
		t.x[i][j] = t.x[i][j] != t.x[k][j]
		t.z[i][j] = t.z[i][j] != t.z[k][j]
	}
}

// mulX multiplies row i by the bare Pauli X_col on the right, without
// materializing a transient row for it.
func (t *Tableau) mulX(i, col int) {
	g := gphase(true, false, t.x[i][col], t.z[i][col])
	t.r[i] = uint8(((int(t.r[i])+g)%4 + 4) % 4)
	t.x[i][col] = !t.x[i][col]
}

func (t *Tableau) rowswap(i, k int) {
	t.x[i], t.x[k] = t.x[k], t.x[i]
	t.z[i], t.z[k] = t.z[k], t.z[i]
	t.r[i], t.r[k] = t.r[k], t.r[i]
}

func (t *Tableau) rowcopy(i, k int) {
	copy(t.x[i], t.x[k])
	copy(t.z[i], t.z[k])
	t.r[i] = t.r[k]
}

// rowset resets row i to the bare generator indexed by b: X_b for b<n,
// Z_{b-n} otherwise.
func (t *Tableau) rowset(i, b int) {
	for j := range t.x[i] {
		t.x[i][j] = false
		t.z[i][j] = false
	}
	t.r[i] = 0
	if b < t.n {
		t.x[i][b] = true
	} else {
		t.z[i][b-t.n] = true
	}
}

// gaussian row-reduces the stabilizer block (rows [n,2n)), first by X
// columns then by Z columns, mirroring every row operation onto the paired
// destabilizer block [0,n) so destabilizer/stabilizer commutation relations
// are preserved (spec.md §4.3.2). It returns g, the number of independent
// generators with an X or Y in them — log2 of the number of basis states
// with nonzero amplitude.
func (t *Tableau) gaussian() int {
	n := t.n
	i := n
	for j := 0; j < n; j++ {
		k := -1
		for row := i; row < 2*n; row++ {
			if t.x[row][j] {
				k = row
				break
			}
		}
		if k < 0 {
			continue
		}
		t.rowswap(i, k)
		t.rowswap(i-n, k-n)
		for k2 := i + 1; k2 < 2*n; k2++ {
			if t.x[k2][j] {
				t.rowmult(k2, i)
				t.rowmult(k2-n, i-n)
			}
		}
		i++
	}
	g := i - n

	for j := 0; j < n; j++ {
		k := -1
		for row := i; row < 2*n; row++ {
			if t.z[row][j] {
				k = row
				break
			}
		}
		if k < 0 {
			continue
		}
		t.rowswap(i, k)
		t.rowswap(i-n, k-n)
		for k2 := i + 1; k2 < 2*n; k2++ {
			if t.z[k2][j] {
				t.rowmult(k2, i)
				t.rowmult(k2-n, i-n)
			}
		}
		i++
	}
	return g
}
