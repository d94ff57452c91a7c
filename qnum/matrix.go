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

package qnum

// MatrixKind tags a 2x2 matrix with the shape the tableau engine can lower
// it to, computed once at gate construction per spec.md §9.
type MatrixKind uint8

const (
	KindDense MatrixKind = iota
	KindPhase
	KindInvert
)

// Matrix2x2 is a single-qubit gate payload, row-major: M[row][col].
type Matrix2x2 [2][2]Complex

// Identity2x2 is the 2x2 identity matrix.
var Identity2x2 = Matrix2x2{
	{One, Zero},
	{Zero, One},
}

func (m Matrix2x2) Mul(o Matrix2x2) Matrix2x2 {
	var r Matrix2x2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0].Mul(o[0][j]).Add(m[i][1].Mul(o[1][j]))
		}
	}
	return r
}

// IsIdentity reports whether m equals the identity within eps.
func (m Matrix2x2) IsIdentity(eps float64) bool {
	return m[0][0].IsApprox(One, eps) && m[0][1].IsApprox(Zero, eps) &&
		m[1][0].IsApprox(Zero, eps) && m[1][1].IsApprox(One, eps)
}

// IsDiagonal reports whether the off-diagonal entries are negligible.
func (m Matrix2x2) IsDiagonal(eps float64) bool {
	return m[0][1].Abs() < eps && m[1][0].Abs() < eps
}

// IsAntiDiagonal reports whether the diagonal entries are negligible.
func (m Matrix2x2) IsAntiDiagonal(eps float64) bool {
	return m[0][0].Abs() < eps && m[1][1].Abs() < eps
}

// Kind classifies m for controlled-gate lowering: a tableau can only apply
// mc_mtrx/mac_mtrx when the payload is a pure phase or a pure bit-flip;
// anything else is a DomainError (spec.md §9, §7).
func (m Matrix2x2) Kind(eps float64) MatrixKind {
	switch {
	case m.IsDiagonal(eps):
		return KindPhase
	case m.IsAntiDiagonal(eps):
		return KindInvert
	default:
		return KindDense
	}
}

// Invert swaps the two columns of m, the payload transform the
// deferred-control lowering applies when a target's physical/logical sense
// has been flipped (spec.md §4.5, "InvertPayload").
func (m Matrix2x2) Invert() Matrix2x2 {
	return Matrix2x2{
		{m[0][1], m[0][0]},
		{m[1][1], m[1][0]},
	}
}
