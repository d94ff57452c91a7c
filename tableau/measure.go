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
	"github.com/ethereum/go-ethereum/log"
	"github.com/qethlabs/qtableau/simulator"
)

// ForceM measures qubit q in the computational basis. If doForce is true,
// forced selects the outcome to report (and, for a genuinely probabilistic
// qubit, to collapse onto); otherwise the outcome is drawn from the
// tableau's own RNG with the correct stabilizer-formalism probability
// (always exactly 1/2 whenever an outcome is not already determined). If
// doApply is false the tableau's rows are left untouched (spec.md §4.3.4:
// "ForceM(..., doApply=false) preserves state").
//
// Forcing an outcome that the current (deterministic) state assigns zero
// probability to is detected and flips the tableau into UnitarityBroken
// rather than silently fabricating a state.
func (t *Tableau) ForceM(q simulator.QubitIndex, doForce bool, forced bool, doApply bool) (bool, error) {
	if err := t.checkQubit(q); err != nil {
		return false, err
	}
	var outcome bool
	err := t.runErr(func() error {
		n := t.n
		target := int(q)

		p := -1
		for row := n; row < 2*n; row++ {
			if t.x[row][target] {
				p = row
				break
			}
		}

		if p >= 0 {
			// Genuinely random: this measurement has probability 1/2
			// either way, so forcing it is always consistent.
			if doForce {
				outcome = forced
			} else {
				outcome = t.rng.Intn(2) == 1
			}
			if doApply {
				for i := 0; i < 2*n; i++ {
					if i != p && t.x[i][target] {
						t.rowmult(i, p)
					}
				}
				t.rowcopy(p-n, p)
				t.rowset(p, target+n)
				r := uint8(0)
				if outcome {
					r = 2
				}
				t.r[p] = r
				t.state = Unitary
			}
			log.Debug("tableau: random measurement", "qubit", q, "outcome", outcome)
			return nil
		}

		// Deterministic: accumulate the destabilizer generators touching
		// this qubit into the scratch row; its final phase bit is the
		// (already determined) outcome.
		scratch := t.scratchRow()
		for j := range t.x[scratch] {
			t.x[scratch][j] = false
			t.z[scratch][j] = false
		}
		t.r[scratch] = 0
		for i := 0; i < n; i++ {
			if t.x[i][target] {
				t.rowmult(scratch, n+i)
			}
		}
		natural := t.r[scratch] == 2

		outcome = natural
		if doForce {
			outcome = forced
		}
		if doApply {
			if doForce && forced != natural {
				t.state = UnitarityBroken
				log.Error("tableau: forced measurement outcome contradicts a deterministic qubit", "qubit", q, "forced", forced, "natural", natural)
			} else {
				t.state = Unitary
			}
		}
		log.Debug("tableau: deterministic measurement", "qubit", q, "outcome", outcome)
		return nil
	})
	return outcome, err
}
