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

import "github.com/qethlabs/qtableau/qnum"

// debugAmplitudePreviewLimit caps how many (permutation, amplitude) pairs
// DebugState reports, mirroring the teacher's "first 10 amplitudes" dump.
const debugAmplitudePreviewLimit = 10

// DebugState returns diagnostic information about the tableau's internal
// state: qubit count, Gaussian rank, phase offset and unitarity, and a
// truncated preview of non-zero amplitudes. It is adapted from the
// teacher's QuantumState.DebugState (quest/processor/quantum_state.go),
// retargeted from EVM stack/memory/gas fields to tableau fields.
func (t *Tableau) DebugState() map[string]any {
	debug := make(map[string]any)
	t.run(func() {
		g := t.gaussian()
		debug["qubits"] = t.n
		debug["gaussian_rank"] = g
		debug["basis_state_count"] = 1 << uint(g)
		debug["phase_offset"] = t.phaseOffset.String()
		debug["rand_global_phase"] = t.randGlobalPhase
		debug["state"] = t.state.String()

		terms := t.enumerate()
		n := len(terms)
		if n > debugAmplitudePreviewLimit {
			n = debugAmplitudePreviewLimit
		}
		preview := make([]string, n)
		for i := 0; i < n; i++ {
			preview[i] = terms[i].perm.String() + ":" + formatAmplitude(terms[i].amp)
		}
		debug["amplitudes"] = preview
		debug["amplitudes_truncated"] = len(terms) > debugAmplitudePreviewLimit
	})
	return debug
}

func formatAmplitude(c qnum.Complex) string {
	return c.String()
}
