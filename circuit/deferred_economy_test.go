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

package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qethlabs/qtableau/internal/densesim"
	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// xCountingSim wraps a densesim.Sim, tallying calls to X so tests can bound
// how many physical X gates a lowering strategy emits (spec.md §8 property
// 7, scenario E6).
type xCountingSim struct {
	*densesim.Sim
	xCalls int
}

func (s *xCountingSim) X(q simulator.QubitIndex) error {
	s.xCalls++
	return s.Sim.X(q)
}

// TestDeferredControlEconomy is spec.md §8 scenario E6: a run of
// single-payload 3-controlled gates whose control patterns each force
// every control to mismatch the running controlStates must, under
// RunDeferred, emit at most ceil(|controls|/2) physical X gates per
// controlled operation (plus a bounded end-of-lowering cleanup), strictly
// fewer than the 3-per-gate a naive eager lowering would emit.
func TestDeferredControlEconomy(t *testing.T) {
	const k = 3
	const gateCount = 4
	const qubits = 3 + gateCount // 3 shared controls + one distinct target per gate

	c := &Circuit{}
	controls := []simulator.QubitIndex{0, 1, 2}
	// Pattern 0b111 (all controls asserted high) forces every control to
	// mismatch controlStates, which starts all-false. Each gate targets a
	// distinct qubit so the gates share controls but never combine or
	// cancel with each other (CanCombine requires a shared target).
	pattern := uint64(0b111)
	for i := 0; i < gateCount; i++ {
		target := simulator.QubitIndex(3 + i)
		g := mustGate(t, target, controls, map[uint64]qnum.Matrix2x2{pattern: pauliX})
		c.AppendGate(g)
	}
	require.Len(t, c.Gates(), gateCount)

	sim := &xCountingSim{Sim: densesim.New(qubits)}
	require.NoError(t, c.RunDeferred(sim))

	perGateBound := (k + 1) / 2 // ceil(k/2)
	cleanupBound := k           // at most one X per control at end-of-lowering
	require.LessOrEqual(t, sim.xCalls, gateCount*perGateBound+cleanupBound,
		"deferred lowering emitted %d X gates, expected at most %d per gate plus cleanup",
		sim.xCalls, perGateBound)

	ref := densesim.New(qubits)
	require.NoError(t, c.Run(ref))
	for i := uint64(0); i < 1<<uint(qubits); i++ {
		require.True(t, sim.Amplitude(i).IsApprox(ref.Amplitude(i), 1e-9),
			"perm %d: deferred %v vs direct %v", i, sim.Amplitude(i), ref.Amplitude(i))
	}
}
