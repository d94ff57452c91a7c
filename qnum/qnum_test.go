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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplexArithmetic(t *testing.T) {
	a := C(1, 2)
	b := C(3, -1)

	require.InDelta(t, 4.0, a.Add(b).Re.Float64(), 1e-12)
	require.InDelta(t, 1.0, a.Add(b).Im.Float64(), 1e-12)

	prod := a.Mul(b)
	require.InDelta(t, 5.0, prod.Re.Float64(), 1e-12)
	require.InDelta(t, 5.0, prod.Im.Float64(), 1e-12)

	require.InDelta(t, math.Sqrt(5), a.Abs(), 1e-12)
}

func TestComplexPolarRoundTrip(t *testing.T) {
	c := C(0.6, 0.8)
	r, theta := c.Polar()
	rebuilt := FromPolar(r, theta)
	require.True(t, c.IsApprox(rebuilt, 1e-9))
}

func TestComplexDivInverse(t *testing.T) {
	a := C(3, 4)
	b := C(1, -2)
	q := a.Div(b)
	require.True(t, q.Mul(b).IsApprox(a, 1e-9))
}

func TestMatrixIdentityAndKind(t *testing.T) {
	require.True(t, Identity2x2.IsIdentity(1e-12))
	require.Equal(t, KindPhase, Identity2x2.Kind(1e-12))

	x := Matrix2x2{{Zero, One}, {One, Zero}}
	require.Equal(t, KindInvert, x.Kind(1e-12))

	h := Matrix2x2{{C(0.70710678, 0), C(0.70710678, 0)}, {C(0.70710678, 0), C(-0.70710678, 0)}}
	require.Equal(t, KindDense, h.Kind(1e-6))
}

func TestMatrixInvertSwapsColumns(t *testing.T) {
	m := Matrix2x2{{C(1, 0), C(2, 0)}, {C(3, 0), C(4, 0)}}
	inv := m.Invert()
	require.Equal(t, C(2, 0), inv[0][0])
	require.Equal(t, C(1, 0), inv[0][1])
	require.Equal(t, C(4, 0), inv[1][0])
	require.Equal(t, C(3, 0), inv[1][1])
	// Inverting twice restores the original.
	require.Equal(t, m, inv.Invert())
}

func TestFormatComplexRoundTrip(t *testing.T) {
	for _, p := range []Precision{Precision32, Precision64, Precision128} {
		c := C(0.123456789012345, -2.5)
		s := FormatComplex(c, p)
		parsed, ok := ParseComplex(s)
		require.True(t, ok, "precision %v: %q", p, s)
		require.True(t, c.IsApprox(parsed, 1e-6), "precision %v: %q -> %+v", p, s, parsed)
	}
}

func TestRoundTripDigits(t *testing.T) {
	require.Equal(t, 17, RoundTripDigits(Precision64))
	require.Equal(t, 36, RoundTripDigits(Precision128))
	require.Equal(t, 9, RoundTripDigits(Precision32))
}
