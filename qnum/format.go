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

import "strconv"

// ftoa formats v with the fewest digits that round-trip a float64; it backs
// Complex.String. FormatComplex below does not use it and formats with
// RoundTripDigits(p) digits instead.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatComplex renders c with exactly RoundTripDigits(p) significant
// digits per component, the format the circuit serializer (circuit/serialize.go)
// uses so matrix entries round-trip exactly at the active precision.
func FormatComplex(c Complex, p Precision) string {
	digits := RoundTripDigits(p)
	re := strconv.FormatFloat(c.Re.Float64(), 'g', digits, 64)
	im := strconv.FormatFloat(c.Im.Float64(), 'g', digits, 64)
	sign := "+"
	if len(im) > 0 && im[0] == '-' {
		sign = ""
	}
	return re + sign + im + "i"
}

// ParseComplex parses the "re+imi" / "re-imi" form produced by FormatComplex.
func ParseComplex(s string) (Complex, bool) {
	// Find the trailing 'i' and the split point between the real and
	// imaginary parts: the last '+' or '-' that is not at index 0 and not
	// immediately preceded by an exponent marker ('e'/'E').
	if len(s) < 2 || s[len(s)-1] != 'i' {
		return Complex{}, false
	}
	body := s[:len(s)-1]
	splitAt := -1
	for i := len(body) - 1; i > 0; i-- {
		c := body[i]
		if c != '+' && c != '-' {
			continue
		}
		prev := body[i-1]
		if prev == 'e' || prev == 'E' {
			continue
		}
		splitAt = i
		break
	}
	if splitAt <= 0 {
		return Complex{}, false
	}
	reStr, imStr := body[:splitAt], body[splitAt:]
	re, err := strconv.ParseFloat(reStr, 64)
	if err != nil {
		return Complex{}, false
	}
	im, err := strconv.ParseFloat(imStr, 64)
	if err != nil {
		return Complex{}, false
	}
	return C(re, im), true
}
