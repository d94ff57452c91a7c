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

	"github.com/qethlabs/qtableau/simulator"
)

func TestComposeAppendsIndependentRegister(t *testing.T) {
	a := New(1, WithSeed(1))
	defer a.Close()
	require.NoError(t, a.H(0))

	b := New(1, WithSeed(2))
	defer b.Close()
	require.NoError(t, b.X(0))

	require.NoError(t, a.Compose(b, 1))
	require.Equal(t, 2, a.QubitCount())

	// a is now (|0>+|1>)/sqrt2 (x) |1>: amplitudes at |01> and |11> each 1/2
	// probability, |00> and |10> zero.
	amp01 := a.GetAmplitude(simulator.NewPermutation(2)) // qubit 1 set (b's qubit, inserted at column 1)
	amp11 := a.GetAmplitude(simulator.NewPermutation(3))
	amp00 := a.GetAmplitude(simulator.NewPermutation(0))
	amp10 := a.GetAmplitude(simulator.NewPermutation(1))
	require.InDelta(t, 0.5, amp01.AbsSquared(), 1e-9)
	require.InDelta(t, 0.5, amp11.AbsSquared(), 1e-9)
	require.InDelta(t, 0, amp00.AbsSquared(), 1e-9)
	require.InDelta(t, 0, amp10.AbsSquared(), 1e-9)
}

func TestComposeRejectsOutOfRangeStart(t *testing.T) {
	a := New(1, WithSeed(1))
	defer a.Close()
	b := New(1, WithSeed(1))
	defer b.Close()
	require.ErrorIs(t, a.Compose(b, 2), ErrQubitOutOfRange)
	require.ErrorIs(t, a.Compose(b, -1), ErrQubitOutOfRange)
}

func TestTrySeparateDetectsProductState(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	// qubit 1 stays |0>, untouched and unentangled: should separate cleanly.
	require.True(t, tb.TrySeparate(1))
}

func TestTrySeparateRejectsEntangledQubit(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 1))
	require.False(t, tb.TrySeparate(0))
	require.False(t, tb.TrySeparate(1))
}

func TestTrySeparatePairDetectsEntangledPairAsAWhole(t *testing.T) {
	tb := New(3, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 1))
	// qubits 0,1 form a Bell pair entangled with each other but not with 2:
	// neither separates alone, but the pair does as a unit.
	require.False(t, tb.TrySeparate(0))
	require.True(t, tb.TrySeparatePair(0, 1))
}

func TestTrySeparatePairRestoresLayoutOnFailure(t *testing.T) {
	tb := New(3, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 2))
	before := tb.GetAmplitude(simulator.NewPermutation(0))
	require.False(t, tb.TrySeparatePair(0, 1))
	after := tb.GetAmplitude(simulator.NewPermutation(0))
	require.True(t, before.IsApprox(after, 1e-9))
}

func TestCanDecomposeDisposeRejectsEntangledRange(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 1))
	require.False(t, tb.CanDecomposeDispose(0, 1))
	require.True(t, tb.CanDecomposeDispose(0, 2))
}

func TestDisposeShrinksRegister(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.X(1)) // qubit 1 = |1>, independent of qubit 0
	require.NoError(t, tb.Dispose(1, 1))
	require.Equal(t, 1, tb.QubitCount())
	p, err := tb.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0, p, 1e-9)
}

func TestDisposeFailsOnEntangledRange(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.H(0))
	require.NoError(t, tb.CNOT(0, 1))
	require.ErrorIs(t, tb.Dispose(0, 1), ErrNotDecomposable)
}

func TestDecomposeExtractsIndependentQubit(t *testing.T) {
	tb := New(2, WithSeed(1))
	defer tb.Close()
	require.NoError(t, tb.X(1))

	dest, err := tb.Decompose(1, 1)
	require.NoError(t, err)
	defer dest.Close()

	require.Equal(t, 1, tb.QubitCount())
	require.Equal(t, 1, dest.QubitCount())
	p, err := dest.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-9)
}

func TestComposeThenDecomposeRoundTrips(t *testing.T) {
	a := New(1, WithSeed(1))
	defer a.Close()
	require.NoError(t, a.H(0))

	b := New(1, WithSeed(2))
	defer b.Close()
	require.NoError(t, b.X(0))

	require.NoError(t, a.Compose(b, 1))
	dest, err := a.Decompose(1, 1)
	require.NoError(t, err)
	defer dest.Close()

	require.Equal(t, 1, a.QubitCount())
	p0, err := a.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, p0, 1e-9)

	p1, err := dest.Prob(0)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p1, 1e-9)
}
