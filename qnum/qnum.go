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

// Package qnum implements the fixed-precision complex scalar arithmetic
// shared by the stabilizer tableau and the circuit gate representation.
package qnum

import "math"

// Precision selects the active floating width for Real/Complex values.
// It is never a global: a Tableau records one at construction, and
// circuit.Serialize takes one as an argument.
type Precision uint8

const (
	Precision32 Precision = iota
	Precision64
	Precision128
)

// RoundTripDigits returns the number of decimal digits needed to losslessly
// round-trip a Real of the given precision through text, per the circuit
// serialization format.
func RoundTripDigits(p Precision) int {
	switch p {
	case Precision32:
		return 9
	case Precision128:
		return 36
	default:
		return 17
	}
}

// Real is the scalar float type backing Complex. Precision128 is modeled as
// a double-double (a high/low pair of float64) since Go has no native
// 128-bit float and no pack dependency supplies a floating (as opposed to
// fixed-point) 128-bit type; see DESIGN.md for why this stays stdlib-only.
type Real struct {
	hi, lo float64
}

// RealFromFloat64 builds a Real carrying no low-order correction term.
func RealFromFloat64(v float64) Real { return Real{hi: v} }

// Float64 collapses a Real to the nearest float64 (lossy for Precision128).
func (r Real) Float64() float64 { return r.hi + r.lo }

// Add returns r+o using two-sum error compensation so Precision128 values
// retain their low-order term across an addition chain.
func (r Real) Add(o Real) Real {
	s := r.hi + o.hi
	bb := s - r.hi
	err := (r.hi - (s - bb)) + (o.hi - bb)
	lo := r.lo + o.lo + err
	return normalize(s, lo)
}

func (r Real) Sub(o Real) Real { return r.Add(o.Neg()) }
func (r Real) Neg() Real       { return Real{hi: -r.hi, lo: -r.lo} }

func (r Real) Mul(o Real) Real {
	p := r.Float64() * o.Float64()
	return Real{hi: p}
}

func (r Real) Cmp(o Real) int {
	a, b := r.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (r Real) IsZero() bool { return r.Float64() == 0 }

func normalize(hi, lo float64) Real {
	s := hi + lo
	bb := s - hi
	err := lo - bb
	return Real{hi: s, lo: err}
}

// Complex is a pair of Real components; the zero value is 0+0i.
type Complex struct {
	Re, Im Real
}

// C builds a Complex from plain float64 real/imaginary parts, the
// convenience constructor used throughout the tableau and circuit packages.
func C(re, im float64) Complex {
	return Complex{Re: RealFromFloat64(re), Im: RealFromFloat64(im)}
}

var (
	Zero = C(0, 0)
	One  = C(1, 0)
	I    = C(0, 1)
)

func (c Complex) Add(o Complex) Complex { return Complex{c.Re.Add(o.Re), c.Im.Add(o.Im)} }
func (c Complex) Sub(o Complex) Complex { return Complex{c.Re.Sub(o.Re), c.Im.Sub(o.Im)} }

func (c Complex) Mul(o Complex) Complex {
	re := c.Re.Mul(o.Re).Sub(c.Im.Mul(o.Im))
	im := c.Re.Mul(o.Im).Add(c.Im.Mul(o.Re))
	return Complex{re, im}
}

// Div divides c by o. Callers must check o is non-zero; a zero divisor is a
// DomainError at the call site (controlled-divide, per spec.md §7), not
// inside this arithmetic primitive.
func (c Complex) Div(o Complex) Complex {
	denom := o.Re.Mul(o.Re).Add(o.Im.Mul(o.Im)).Float64()
	re := (c.Re.Mul(o.Re).Add(c.Im.Mul(o.Im))).Float64() / denom
	im := (c.Im.Mul(o.Re).Sub(c.Re.Mul(o.Im))).Float64() / denom
	return C(re, im)
}

func (c Complex) Conj() Complex { return Complex{c.Re, c.Im.Neg()} }

func (c Complex) Scale(s float64) Complex {
	return C(c.Re.Float64()*s, c.Im.Float64()*s)
}

// AbsSquared returns |c|^2, cheaper than Abs when only the magnitude
// ordering or probability mass is needed.
func (c Complex) AbsSquared() float64 {
	re, im := c.Re.Float64(), c.Im.Float64()
	return re*re + im*im
}

func (c Complex) Abs() float64 { return math.Sqrt(c.AbsSquared()) }

// Polar returns the modulus/argument pair for c.
func (c Complex) Polar() (r, theta float64) {
	return c.Abs(), math.Atan2(c.Im.Float64(), c.Re.Float64())
}

// FromPolar builds a Complex from a modulus/argument pair.
func FromPolar(r, theta float64) Complex {
	return C(r*math.Cos(theta), r*math.Sin(theta))
}

// IsApprox reports whether c and o differ by less than eps in each
// component, the tolerance check used throughout the tableau's amplitude
// and separability oracles.
func (c Complex) IsApprox(o Complex, eps float64) bool {
	return math.Abs(c.Re.Float64()-o.Re.Float64()) < eps &&
		math.Abs(c.Im.Float64()-o.Im.Float64()) < eps
}

// String renders c in the real-imag stream form the textual circuit format
// expects (e.g. "1+0i", "0.70710678+0.70710678i").
func (c Complex) String() string {
	re, im := c.Re.Float64(), c.Im.Float64()
	sign := "+"
	if im < 0 {
		sign = ""
	}
	return formatFloat(re) + sign + formatFloat(im) + "i"
}

func formatFloat(v float64) string {
	return ftoa(v)
}
