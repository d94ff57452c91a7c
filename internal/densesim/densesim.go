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

// Package densesim implements a brute-force dense state-vector register
// (a 2^n-entry amplitude array), adapted from quest/quantum/quest_env.go.
// It exists only as an independent oracle for the tableau and circuit
// packages' own tests: the "no dense state-vector backend" non-goal
// excludes a production backend, not an internal test double, and living
// under internal/ makes that exclusion enforced by the compiler rather
// than just documented.
package densesim

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// Sim is a dense complex128 state-vector register. The zero value is not
// usable; construct with New.
type Sim struct {
	mutex sync.Mutex
	n     int
	state []complex128
}

// New builds an n-qubit Sim initialized to |0...0⟩.
func New(n int) *Sim {
	s := &Sim{n: n, state: make([]complex128, 1<<uint(n))}
	s.state[0] = 1
	return s
}

// QubitCount implements simulator.Simulator.
func (s *Sim) QubitCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.n
}

// Allocate implements simulator.Simulator: m fresh |0⟩ qubits are appended
// at the top of the index space, so the existing amplitudes are unchanged
// and every new basis index with a nonzero bit above the old range carries
// zero amplitude.
func (s *Sim) Allocate(m int) error {
	if m < 0 {
		return fmt.Errorf("densesim: cannot allocate a negative qubit count: %w", simulator.ErrDomain)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	newState := make([]complex128, 1<<uint(s.n+m))
	copy(newState, s.state)
	s.state = newState
	s.n += m
	return nil
}

func (s *Sim) checkQubit(q simulator.QubitIndex) error {
	if int(q) >= s.n {
		return fmt.Errorf("densesim: qubit %d out of range for %d-qubit register: %w", q, s.n, simulator.ErrQubitOutOfRange)
	}
	return nil
}

func toC128(c qnum.Complex) complex128 { return complex(c.Re.Float64(), c.Im.Float64()) }

// Mtrx implements simulator.Simulator: applies an arbitrary uncontrolled
// single-qubit matrix, unlike the stabilizer tableau this oracle places no
// Clifford restriction on m (spec.md §6.1's reason for keeping this engine
// around only as a cross-check, never a production path).
func (s *Sim) Mtrx(m qnum.Matrix2x2, target simulator.QubitIndex) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.applyMtrxLocked(m, int(target))
	return nil
}

func (s *Sim) applyMtrxLocked(m qnum.Matrix2x2, target int) {
	m00, m01 := toC128(m[0][0]), toC128(m[0][1])
	m10, m11 := toC128(m[1][0]), toC128(m[1][1])
	mask := 1 << uint(target)
	for i := 0; i < len(s.state); i++ {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := s.state[i], s.state[j]
		s.state[i] = m00*a + m01*b
		s.state[j] = m10*a + m11*b
	}
}

func bitsOf(i int, qubits []simulator.QubitIndex) []bool {
	out := make([]bool, len(qubits))
	for k, q := range qubits {
		out[k] = (i>>uint(q))&1 == 1
	}
	return out
}

func allTrue(bits []bool) bool {
	for _, b := range bits {
		if !b {
			return false
		}
	}
	return true
}

func allFalse(bits []bool) bool {
	for _, b := range bits {
		if b {
			return false
		}
	}
	return true
}

func (s *Sim) controlledMtrxLocked(controls []simulator.QubitIndex, m qnum.Matrix2x2, target int, gate func([]bool) bool) {
	m00, m01 := toC128(m[0][0]), toC128(m[0][1])
	m10, m11 := toC128(m[1][0]), toC128(m[1][1])
	mask := 1 << uint(target)
	seen := make([]bool, len(s.state))
	for i := 0; i < len(s.state); i++ {
		if seen[i] || i&mask != 0 {
			continue
		}
		j := i | mask
		seen[i], seen[j] = true, true
		if !gate(bitsOf(i, controls)) {
			continue
		}
		a, b := s.state[i], s.state[j]
		s.state[i] = m00*a + m01*b
		s.state[j] = m10*a + m11*b
	}
}

// MCMtrx implements simulator.Simulator.
func (s *Sim) MCMtrx(controls []simulator.QubitIndex, m qnum.Matrix2x2, target simulator.QubitIndex) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := s.checkQubit(c); err != nil {
			return err
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.controlledMtrxLocked(controls, m, int(target), allTrue)
	return nil
}

// MACMtrx implements simulator.Simulator.
func (s *Sim) MACMtrx(controls []simulator.QubitIndex, m qnum.Matrix2x2, target simulator.QubitIndex) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := s.checkQubit(c); err != nil {
			return err
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.controlledMtrxLocked(controls, m, int(target), allFalse)
	return nil
}

// UCMtrx implements simulator.Simulator.
func (s *Sim) UCMtrx(controls []simulator.QubitIndex, m qnum.Matrix2x2, target simulator.QubitIndex, pattern uint64) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := s.checkQubit(c); err != nil {
			return err
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	k := len(controls)
	s.controlledMtrxLocked(controls, m, int(target), func(bits []bool) bool {
		return simulator.ControlPattern(bits) == pattern%(1<<uint(k))
	})
	return nil
}

// UniformlyControlledSingleBit implements simulator.Simulator.
func (s *Sim) UniformlyControlledSingleBit(controls []simulator.QubitIndex, target simulator.QubitIndex, payload []qnum.Matrix2x2) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := s.checkQubit(c); err != nil {
			return err
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	mask := 1 << uint(target)
	seen := make([]bool, len(s.state))
	for i := 0; i < len(s.state); i++ {
		if seen[i] || i&mask != 0 {
			continue
		}
		j := i | mask
		seen[i], seen[j] = true, true
		pattern := simulator.ControlPattern(bitsOf(i, controls))
		m := payload[pattern]
		m00, m01 := toC128(m[0][0]), toC128(m[0][1])
		m10, m11 := toC128(m[1][0]), toC128(m[1][1])
		a, b := s.state[i], s.state[j]
		s.state[i] = m00*a + m01*b
		s.state[j] = m10*a + m11*b
	}
	return nil
}

// Swap implements simulator.Simulator.
func (s *Sim) Swap(a, b simulator.QubitIndex) error {
	if err := s.checkQubit(a); err != nil {
		return err
	}
	if err := s.checkQubit(b); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if a == b {
		return nil
	}
	ma, mb := 1<<uint(a), 1<<uint(b)
	for i := 0; i < len(s.state); i++ {
		bitA, bitB := i&ma != 0, i&mb != 0
		if bitA == bitB {
			continue
		}
		j := i ^ ma ^ mb
		if i < j {
			s.state[i], s.state[j] = s.state[j], s.state[i]
		}
	}
	return nil
}

// X implements simulator.Simulator.
func (s *Sim) X(q simulator.QubitIndex) error {
	if err := s.checkQubit(q); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	mask := 1 << uint(q)
	for i := 0; i < len(s.state); i++ {
		if i&mask == 0 {
			j := i | mask
			s.state[i], s.state[j] = s.state[j], s.state[i]
		}
	}
	return nil
}

// Amplitude returns the amplitude of basis state p (p must fit in 64 bits;
// this oracle is for small test registers, unlike the tableau's
// uint256-backed Permutation).
func (s *Sim) Amplitude(p uint64) qnum.Complex {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	a := s.state[p]
	return qnum.C(real(a), imag(a))
}

// Prob returns the probability that measuring qubit q yields 1.
func (s *Sim) Prob(q simulator.QubitIndex) float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	mask := 1 << uint(q)
	p := 0.0
	for i, a := range s.state {
		if i&mask != 0 {
			p += cmplx.Abs(a) * cmplx.Abs(a)
		}
	}
	return p
}

// StateVector returns a copy of the full amplitude vector.
func (s *Sim) StateVector() []complex128 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]complex128, len(s.state))
	copy(out, s.state)
	return out
}
