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

// Package tableau implements the Aaronson-Gottesman stabilizer tableau
// (spec.md §4.3), extended with a running global-phase offset so amplitudes
// rather than bare eigenvalue signs can be recovered from a Clifford-only
// simulation. It implements simulator.Simulator.
package tableau

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"

	"github.com/ethereum/go-ethereum/log"
	"github.com/qethlabs/qtableau/dispatch"
	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// PhaseRepairFallback selects what happens when a phase-aware gate (spec.md
// §4.3.1) cannot find a permutation with non-negligible amplitude in both
// the pre- and post-gate state to calibrate the global phase against.
type PhaseRepairFallback int

const (
	// Skip leaves the running phaseOffset untouched and keeps the state
	// Unitary. This is the default (SPEC_FULL.md §11): an undetectable
	// global phase slip is, by definition, not observable.
	Skip PhaseRepairFallback = iota
	// Raise returns ErrPhaseRepairAmbiguous instead of silently skipping.
	Raise
)

// State classifies what guarantees the tableau's rows currently satisfy
// (spec.md §4.3.7).
type State int

const (
	// Unitary: rows and phaseOffset faithfully represent a normalized
	// state reachable by an allowed unitary/Clifford history.
	Unitary State = iota
	// PhaseDeviated: the span between a phase-aware gate's row update and
	// its phaseOffset repair. Both run inside one dispatched op, which
	// always ends in Unitary (the Skip fallback included), so State never
	// reports this value.
	PhaseDeviated
	// UnitarityBroken: a forced measurement outcome was inconsistent
	// with the state's actual (deterministic) eigenvalue.
	UnitarityBroken
)

func (s State) String() string {
	switch s {
	case Unitary:
		return "unitary"
	case PhaseDeviated:
		return "phase-deviated"
	case UnitarityBroken:
		return "unitarity-broken"
	default:
		return "unknown"
	}
}

// Tableau is a stabilizer-formalism quantum register. The zero value is not
// usable; construct with New.
type Tableau struct {
	n int

	// x, z are (2n+1) x n boolean matrices. Rows [0,n) are destabilizer
	// generators, rows [n,2n) are stabilizer generators, row 2n is scratch
	// space used by amplitude extraction and measurement (spec.md §4.3.1).
	x [][]bool
	z [][]bool
	// r holds each row's phase as a quarter-turn count mod 4: 0,1,2,3 mean
	// the row's Pauli carries an overall phase of +1, +i, -1, -i.
	r []uint8

	phaseOffset qnum.Complex

	randGlobalPhase bool
	phaseFallback   PhaseRepairFallback
	precision       qnum.Precision
	state           State

	rng   *mathrand.Rand
	queue *dispatch.Queue
}

// Option configures a Tableau at construction time.
type Option func(*Tableau)

// WithRandGlobalPhase makes phase-aware gates (spec.md §4.3.1) skip the
// global-phase repair and leave phaseOffset untouched, matching
// implementations that treat global phase as entirely unobservable. Off by
// default.
func WithRandGlobalPhase(v bool) Option {
	return func(t *Tableau) { t.randGlobalPhase = v }
}

// WithPrecision records a qnum.Precision on the tableau (default
// qnum.Precision64); Decompose passes it on to the tableau it returns.
// DebugState and GetQuantumState do not read it.
func WithPrecision(p qnum.Precision) Option {
	return func(t *Tableau) { t.precision = p }
}

// WithSeed makes the tableau's internal RNG (used by ForceM's coin flips)
// deterministic, for tests.
func WithSeed(seed int64) Option {
	return func(t *Tableau) { t.rng = mathrand.New(mathrand.NewSource(seed)) }
}

// WithPhaseRepairFallback selects the behavior described by
// PhaseRepairFallback when a phase-aware gate's repair cannot be computed.
func WithPhaseRepairFallback(f PhaseRepairFallback) Option {
	return func(t *Tableau) { t.phaseFallback = f }
}

// New builds an n-qubit tableau initialized to |0...0⟩: destabilizer row i
// is the bare Pauli X_i, stabilizer row n+i is the bare Pauli Z_i, all
// phases zero, phaseOffset 1.
func New(n int, opts ...Option) *Tableau {
	t := &Tableau{
		n:           n,
		precision:   qnum.Precision64,
		phaseOffset: qnum.One,
		state:       Unitary,
		queue:       dispatch.NewQueue(),
	}
	t.growRowsTo(n)
	for _, o := range opts {
		o(t)
	}
	if t.rng == nil {
		t.rng = mathrand.New(mathrand.NewSource(secureSeed()))
	}
	log.Debug("tableau: constructed", "qubits", n)
	return t
}

func secureSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is a platform-level emergency, not a
		// normal error path; fall back to a fixed seed rather than
		// propagating an error through a constructor signature the
		// rest of the package assumes cannot fail.
		log.Error("tableau: crypto/rand unavailable, falling back to a fixed seed", "err", err)
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// growRowsTo resizes x/z/r to hold rows [0, 2*rows+1) for the given qubit
// count, leaving existing row content untouched and initializing any new
// rows to the identity-qubit basis (destabilizer i = X_i, stabilizer
// n+i = Z_i). It is called with the NEW qubit count.
func (t *Tableau) growRowsTo(newN int) {
	rows := 2*newN + 1
	newX := make([][]bool, rows)
	newZ := make([][]bool, rows)
	newR := make([]uint8, rows)
	for i := range newX {
		newX[i] = make([]bool, newN)
		newZ[i] = make([]bool, newN)
	}
	oldN := (len(t.x) - 1) / 2
	if len(t.x) > 0 {
		// Copy destabilizers [0,oldN), stabilizers [oldN,2oldN) into their
		// new row slots (row index for stabilizers shifts because the
		// boundary between the two blocks moves with n).
		for i := 0; i < oldN; i++ {
			copy(newX[i], t.x[i])
			copy(newZ[i], t.z[i])
			newR[i] = t.r[i]
			copy(newX[newN+i], t.x[oldN+i])
			copy(newZ[newN+i], t.z[oldN+i])
			newR[newN+i] = t.r[oldN+i]
		}
	}
	for i := oldN; i < newN; i++ {
		newX[i][i] = true
		newZ[newN+i][i] = true
	}
	t.x, t.z, t.r = newX, newZ, newR
	t.n = newN
}

// QubitCount implements simulator.Simulator.
func (t *Tableau) QubitCount() int {
	done := make(chan int, 1)
	t.queue.Dispatch(func() { done <- t.n })
	return <-done
}

// State reports the tableau's current invariant-tracking state.
func (t *Tableau) State() State {
	done := make(chan State, 1)
	t.queue.Dispatch(func() { done <- t.state })
	return <-done
}

// Finish blocks until every previously dispatched operation has completed.
func (t *Tableau) Finish() error { return t.queue.Finish() }

// Close releases the tableau's dispatch queue. A Tableau must not be used
// after Close.
func (t *Tableau) Close() error { return t.queue.Close() }

// run serializes fn behind every other operation on this tableau (prior
// AND subsequent), via the single dispatch worker — a strictly stronger
// guarantee than "Finish() then read", which leaves a window for a
// concurrent Dispatch to race the read (spec.md §5: "for a single tableau,
// operation order observed by any reader is the submission order").
func (t *Tableau) run(fn func()) {
	done := make(chan struct{})
	t.queue.Dispatch(func() { fn(); close(done) })
	<-done
}

func (t *Tableau) runErr(fn func() error) error {
	errCh := make(chan error, 1)
	if err := t.queue.Dispatch(func() { errCh <- fn() }); err != nil {
		return err
	}
	return <-errCh
}

func (t *Tableau) checkQubit(q simulator.QubitIndex) error {
	if int(q) >= t.n {
		return fmt.Errorf("tableau: qubit %d out of range for %d-qubit register: %w", q, t.n, simulator.ErrQubitOutOfRange)
	}
	return nil
}

func (t *Tableau) checkControls(controls []simulator.QubitIndex, target simulator.QubitIndex) error {
	if err := t.checkQubit(target); err != nil {
		return err
	}
	seen := map[simulator.QubitIndex]bool{target: true}
	for _, c := range controls {
		if err := t.checkQubit(c); err != nil {
			return err
		}
		if seen[c] {
			return ErrControlsDisjoint
		}
		seen[c] = true
	}
	return nil
}

// Allocate implements simulator.Simulator: it grows the register by n fresh
// |0⟩ qubits appended at the top of the index space.
func (t *Tableau) Allocate(n int) error {
	if n < 0 {
		return fmt.Errorf("tableau: cannot allocate a negative qubit count: %w", simulator.ErrDomain)
	}
	return t.runErr(func() error {
		t.growRowsTo(t.n + n)
		return nil
	})
}
