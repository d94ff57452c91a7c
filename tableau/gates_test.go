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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qethlabs/qtableau/internal/densesim"
	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

func TestHadamardProducesEqualSuperposition(t *testing.T) {
	tb := New(1, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))

	p0, err := tb.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, p0, 1e-9)
}

func TestXFlipsBasisState(t *testing.T) {
	tb := New(1, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.X(0))
	p, err := tb.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestCNOTProducesBellState(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 1))

	amp00 := tb.GetAmplitude(simulator.NewPermutation(0))
	amp11 := tb.GetAmplitude(simulator.NewPermutation(3))
	amp01 := tb.GetAmplitude(simulator.NewPermutation(1))
	amp10 := tb.GetAmplitude(simulator.NewPermutation(2))

	require.InDelta(t, 0.5, amp00.AbsSquared(), 1e-9)
	require.InDelta(t, 0.5, amp11.AbsSquared(), 1e-9)
	require.InDelta(t, 0, amp01.AbsSquared(), 1e-9)
	require.InDelta(t, 0, amp10.AbsSquared(), 1e-9)
}

func TestSTwiceEqualsZ(t *testing.T) {
	withS := New(1, WithSeed(1))
	defer withS.Close()
	require.NoError(t, withS.H(0))
	require.NoError(t, withS.S(0))
	require.NoError(t, withS.S(0))

	withZ := New(1, WithSeed(1))
	defer withZ.Close()
	require.NoError(t, withZ.H(0))
	require.NoError(t, withZ.Z(0))

	for _, p := range []simulator.Permutation{simulator.NewPermutation(0), simulator.NewPermutation(1)} {
		a := withS.GetAmplitude(p)
		b := withZ.GetAmplitude(p)
		require.True(t, a.IsApprox(b, 1e-9), "perm %v: %v vs %v", p, a, b)
	}
}

func TestISUndoesS(t *testing.T) {
	tb := New(1, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.S(0))
	require.NoError(t, tb.IS(0))

	plus := New(1, WithSeed(1))
	defer plus.Close()
	require.NoError(t, plus.H(0))

	for _, p := range []simulator.Permutation{simulator.NewPermutation(0), simulator.NewPermutation(1)} {
		require.True(t, tb.GetAmplitude(p).IsApprox(plus.GetAmplitude(p), 1e-9))
	}
}

func TestCZAppliesMinusOneOnlyTo11(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.H(1))
	require.NoError(t, tb.CZ(0, 1))

	amp11 := tb.GetAmplitude(simulator.NewPermutation(3))
	amp00 := tb.GetAmplitude(simulator.NewPermutation(0))
	require.InDelta(t, -0.5, amp11.Re.Float64(), 1e-9)
	require.InDelta(t, 0.5, amp00.Re.Float64(), 1e-9)
}

func TestSwapExchangesBasisState(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.X(0))
	require.NoError(t, tb.Swap(0, 1))

	p01 := simulator.NewPermutation(2) // qubit 1 set
	amp := tb.GetAmplitude(p01)
	require.InDelta(t, 1.0, amp.AbsSquared(), 1e-9)
}

// TestISwapMatchesDenseOracle cross-checks the tableau's ISwap against
// densesim.Sim (the independent oracle described in SPEC_FULL.md §6.1),
// driven through the same CZ/Swap/S decomposition iSwapLocked itself uses.
func TestISwapMatchesDenseOracle(t *testing.T) {
	tab := New(2, WithSeed(7))
	defer tab.Close()
	require.NoError(t, tab.H(0))
	require.NoError(t, tab.X(1))
	require.NoError(t, tab.ISwap(0, 1))

	ref := densesim.New(2)
	require.NoError(t, ref.Mtrx(hGate, 0))
	require.NoError(t, ref.X(1))
	require.NoError(t, ref.Mtrx(hGate, 1))
	require.NoError(t, ref.MCMtrx([]simulator.QubitIndex{0}, pauliX, 1))
	require.NoError(t, ref.Mtrx(hGate, 1))
	require.NoError(t, ref.Swap(0, 1))
	require.NoError(t, ref.Mtrx(sGate, 0))
	require.NoError(t, ref.Mtrx(sGate, 1))

	for i := uint64(0); i < 4; i++ {
		got := tab.GetAmplitude(simulator.NewPermutation(i))
		want := ref.Amplitude(i)
		require.True(t, got.IsApprox(want, 1e-9), "perm %d: got %v want %v", i, got, want)
	}
}

func TestMCMtrxRejectsMultipleControls(t *testing.T) {
	tb := New(3, WithSeed(1))
	defer tb.Close()
	err := tb.MCMtrx([]simulator.QubitIndex{0, 1}, pauliX, 2)
	require.ErrorIs(t, err, simulator.ErrUnsupported)
}

func TestMtrxRejectsNonCliffordMatrix(t *testing.T) {
	tb := New(1, WithSeed(1))
	defer tb.Close()
	// The T gate (a pi/8 phase gate) is diagonal but not a pure Pauli-Z, so
	// Mtrx can't recognize it as one of the supported Clifford primitives.
	tGate := qnum.Matrix2x2{{qnum.One, qnum.Zero}, {qnum.Zero, qnum.FromPolar(1, 0.7853981633974483)}}
	require.ErrorIs(t, tb.Mtrx(tGate, 0), simulator.ErrUnsupported)
}

func TestMCMtrxRejectsNonCliffordPayload(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	tGate := qnum.Matrix2x2{{qnum.One, qnum.Zero}, {qnum.Zero, qnum.FromPolar(1, 0.7853981633974483)}}
	require.ErrorIs(t, tb.MCMtrx([]simulator.QubitIndex{0}, tGate, 1), ErrNonCliffordMatrix)
}

func TestMACMtrxFiresOnlyWhenControlIsZero(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.MACMtrx([]simulator.QubitIndex{0}, pauliX, 1))
	p, err := tb.Prob(1)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)

	tb2 := New(2, WithSeed(1))
	defer tb2.Close()
	require.NoError(t, tb2.X(0))
	require.NoError(t, tb2.MACMtrx([]simulator.QubitIndex{0}, pauliX, 1))
	p2, err := tb2.Prob(1)
	require.NoError(t, err)
	require.InDelta(t, 0.0, p2, 1e-9)
}

func TestUniformlyControlledSingleBitDecomposesBothBranches(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	payload := []qnum.Matrix2x2{pauliX, pauliZ}
	err := tb.UniformlyControlledSingleBit([]simulator.QubitIndex{0}, 1, payload)
	require.NoError(t, err)
	// control=0 -> apply X to target 1; control=1 -> apply Z (no-op on |0>).
	p, err := tb.Prob(1)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestCheckControlsRejectsControlEqualToTarget(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	err := tb.CNOT(0, 0)
	require.ErrorIs(t, err, ErrControlsDisjoint)
}

func TestQubitOutOfRange(t *testing.T) {
	tb := New(1, WithSeed(1))
	defer tb.Close()
	require.ErrorIs(t, tb.H(5), simulator.ErrQubitOutOfRange)
}
