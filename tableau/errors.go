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
	"errors"
	"fmt"

	"github.com/qethlabs/qtableau/simulator"
)

var (
	// ErrQubitOutOfRange re-exports simulator.ErrQubitOutOfRange for
	// callers that only import tableau.
	ErrQubitOutOfRange = simulator.ErrQubitOutOfRange

	// ErrNonCliffordMatrix is DomainError (spec.md §7): mc_mtrx/mac_mtrx
	// was given a 2x2 matrix that is neither diagonal nor anti-diagonal.
	ErrNonCliffordMatrix = fmt.Errorf("tableau: controlled matrix is neither a pure phase nor a pure bit-flip: %w", simulator.ErrDomain)

	// ErrSetAmplitude is DomainError: the tableau cannot represent an
	// arbitrary amplitude assignment (spec.md §7).
	ErrSetAmplitude = fmt.Errorf("tableau: SetAmplitude is not supported by a stabilizer tableau: %w", simulator.ErrDomain)

	// ErrNotDecomposable is DecomposeError: Decompose/Dispose was called on
	// a qubit range that CanDecomposeDispose reports false for.
	ErrNotDecomposable = errors.New("tableau: qubit range cannot be decomposed/disposed")

	// ErrPhaseRepairAmbiguous is returned by gates under
	// WithPhaseRepairFallback(Raise) when no permutation has
	// non-negligible amplitude in both the pre- and post-gate state
	// (spec.md §9, open question).
	ErrPhaseRepairAmbiguous = errors.New("tableau: global phase repair is ambiguous for this state")

	// ErrControlsDisjoint is DomainError: a control qubit coincides with
	// the target or duplicates another control.
	ErrControlsDisjoint = fmt.Errorf("tableau: controls must be distinct from the target and from each other: %w", simulator.ErrDomain)
)
