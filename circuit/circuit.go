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
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

var pauliXPayload = qnum.Matrix2x2{
	{qnum.Zero, qnum.One},
	{qnum.One, qnum.Zero},
}

// Circuit holds an ordered, append-canonicalized gate list plus the qubit
// count it spans (spec.md §3). The zero value is a valid empty circuit.
type Circuit struct {
	mu     sync.Mutex
	cond   *sync.Cond
	owner  uint64
	depth  int

	qubitCount int
	gates      []*Gate
}

// goroutineID mirrors dispatch.goroutineID: a best-effort calling-goroutine
// identity used only to let AppendGate's cascading re-append recurse
// through the same lock without deadlocking (spec.md §5).
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	idx := bytes.IndexByte(buf, ' ')
	if idx < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:idx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *Circuit) lock() {
	gid := goroutineID()
	c.mu.Lock()
	if c.cond == nil {
		c.cond = sync.NewCond(&c.mu)
	}
	for c.depth > 0 && c.owner != gid {
		c.cond.Wait()
	}
	c.owner = gid
	c.depth++
	c.mu.Unlock()
}

func (c *Circuit) unlock() {
	c.mu.Lock()
	c.depth--
	if c.depth == 0 {
		c.owner = 0
		c.cond.Broadcast()
	}
	c.mu.Unlock()
}

// QubitCount returns the number of qubits the circuit currently spans.
func (c *Circuit) QubitCount() int {
	c.lock()
	defer c.unlock()
	return c.qubitCount
}

// Gates returns a snapshot copy of the current canonical gate list.
func (c *Circuit) Gates() []*Gate {
	c.lock()
	defer c.unlock()
	out := make([]*Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

func (c *Circuit) touchQubitCount(g *Gate) {
	if n := int(g.Target) + 1; n > c.qubitCount {
		c.qubitCount = n
	}
	for _, ctrl := range g.controls {
		if n := int(ctrl) + 1; n > c.qubitCount {
			c.qubitCount = n
		}
	}
}

// AppendGate inserts g into the circuit, maintaining the local canonical
// form: scan from the end, combine with (and possibly cancel into) the
// first compatible gate, or stop at the first non-passing neighbor and
// insert there (spec.md §4.5).
func (c *Circuit) AppendGate(g *Gate) {
	c.lock()
	defer c.unlock()
	c.appendLocked(g)
}

func (c *Circuit) appendLocked(g *Gate) {
	if g.IsIdentity() {
		return
	}
	c.touchQubitCount(g)

	for i := len(c.gates) - 1; i >= 0; i-- {
		h := c.gates[i]
		if h.TryCombine(g) {
			if h.IsIdentity() {
				later := append([]*Gate(nil), c.gates[i+1:]...)
				c.gates = c.gates[:i]
				for _, l := range later {
					c.appendLocked(l)
				}
			}
			log.Debug("circuit: gate combined", "index", i)
			return
		}
		if !h.CanPass(g) {
			c.gates = append(c.gates, nil)
			copy(c.gates[i+2:], c.gates[i+1:])
			c.gates[i+1] = g
			log.Debug("circuit: gate inserted", "after", i)
			return
		}
	}
	c.gates = append([]*Gate{g}, c.gates...)
	log.Debug("circuit: gate pushed to front")
}

// cnotAB reports whether g is exactly CNOT(control=a, target=b): a single
// control, a single payload at the asserted-control pattern, equal to
// Pauli-X.
func cnotAB(g *Gate) (a, b simulator.QubitIndex, ok bool) {
	if g.IsSwapEncoded() || len(g.controls) != 1 || !g.IsSinglePayloadControlled() {
		return 0, 0, false
	}
	m, present := g.Payloads[1]
	if !present || !approxEqMatrix(m, pauliXPayload, gateEps) {
		return 0, 0, false
	}
	return g.controls[0], g.Target, true
}

func approxEqMatrix(m, o qnum.Matrix2x2, eps float64) bool {
	return m[0][0].IsApprox(o[0][0], eps) && m[0][1].IsApprox(o[0][1], eps) &&
		m[1][0].IsApprox(o[1][0], eps) && m[1][1].IsApprox(o[1][1], eps)
}

// collapseSwapTriples scans the canonical gate list for three consecutive
// CNOT(a,b), CNOT(b,a), CNOT(a,b) gates — a pure SWAP identity — and
// replaces each non-overlapping match with one swap-encoded gate
// (spec.md §4.5, "CNOT-triplet collapse").
func (c *Circuit) collapseSwapTriples() []*Gate {
	out := make([]*Gate, 0, len(c.gates))
	i := 0
	for i < len(c.gates) {
		if i+2 < len(c.gates) {
			if a0, b0, ok0 := cnotAB(c.gates[i]); ok0 {
				if b1, a1, ok1 := cnotAB(c.gates[i+1]); ok1 && a1 == a0 && b1 == b0 {
					if a2, b2, ok2 := cnotAB(c.gates[i+2]); ok2 && a2 == a0 && b2 == b0 {
						sg, err := NewSwapGate(b0, a0)
						if err == nil {
							out = append(out, sg)
							i += 3
							continue
						}
					}
				}
			}
		}
		out = append(out, c.gates[i])
		i++
	}
	return out
}

// emit lowers a single canonicalized gate directly onto sim, per the four
// cases of spec.md §4.5's "Lowering" subsection. Controls are passed in
// their original construction order (not GetControlsVector's ascending
// order), since that is the order the payload keys were encoded against.
func emit(sim simulator.Simulator, g *Gate) error {
	switch {
	case len(g.controls) == 0:
		m := qnum.Identity2x2
		if mm, ok := g.Payloads[0]; ok {
			m = mm
		}
		return sim.Mtrx(m, g.Target)
	case len(g.Payloads) == 0 && len(g.controls) == 1:
		return sim.Swap(g.controls[0], g.Target)
	case g.IsSinglePayloadControlled():
		var pattern uint64
		var m qnum.Matrix2x2
		for k, v := range g.Payloads {
			pattern, m = k, v
		}
		return sim.UCMtrx(g.controls, m, g.Target, pattern)
	default:
		return sim.UniformlyControlledSingleBit(g.controls, g.Target, g.MakeUniformlyControlledPayload())
	}
}

// Run lowers the canonical gate list directly onto sim: growing sim to
// qubitCount, collapsing CNOT triplets into swaps, then emitting each
// remaining gate via its natural Simulator call (spec.md §4.5).
func (c *Circuit) Run(sim simulator.Simulator) error {
	c.lock()
	defer c.unlock()
	if delta := c.qubitCount - sim.QubitCount(); delta > 0 {
		if err := sim.Allocate(delta); err != nil {
			return err
		}
	}
	for _, g := range c.collapseSwapTriples() {
		if err := emit(sim, g); err != nil {
			return err
		}
	}
	return nil
}

// RunDeferred lowers the canonical gate list the same way as Run, but
// defers single-payload-controlled gates' control-state inversions instead
// of emitting InvertPayload/extra X gates eagerly, minimizing the number of
// physical X gates emitted — bounded by ⌈|controls|/2⌉ per gate
// (spec.md §4.5, "Deferred-control lowering").
func (c *Circuit) RunDeferred(sim simulator.Simulator) error {
	c.lock()
	defer c.unlock()
	if delta := c.qubitCount - sim.QubitCount(); delta > 0 {
		if err := sim.Allocate(delta); err != nil {
			return err
		}
	}

	states := make([]bool, c.qubitCount)
	undefer := func(q simulator.QubitIndex) error {
		if states[q] {
			if err := sim.X(q); err != nil {
				return err
			}
			states[q] = false
		}
		return nil
	}

	for _, g := range c.collapseSwapTriples() {
		switch {
		case len(g.controls) == 0:
			m := qnum.Identity2x2
			if mm, ok := g.Payloads[0]; ok {
				m = mm
			}
			if states[g.Target] {
				m = m.Invert()
				states[g.Target] = false
			}
			if err := sim.Mtrx(m, g.Target); err != nil {
				return err
			}

		case len(g.Payloads) == 0 && len(g.controls) == 1:
			if err := undefer(g.controls[0]); err != nil {
				return err
			}
			if err := undefer(g.Target); err != nil {
				return err
			}
			if err := sim.Swap(g.controls[0], g.Target); err != nil {
				return err
			}

		case g.IsSinglePayloadControlled():
			var pattern uint64
			var m qnum.Matrix2x2
			for k, v := range g.Payloads {
				pattern, m = k, v
			}
			k := len(g.controls)
			mismatch := 0
			for idx, ctrl := range g.controls {
				want := simulator.PatternBit(pattern, idx, k)
				if want != states[ctrl] {
					mismatch++
				}
			}
			flipMismatching := mismatch*2 <= k
			for idx, ctrl := range g.controls {
				want := simulator.PatternBit(pattern, idx, k)
				isMismatch := want != states[ctrl]
				if isMismatch == flipMismatching {
					if err := sim.X(ctrl); err != nil {
						return err
					}
					states[ctrl] = !states[ctrl]
				}
			}
			if err := undefer(g.Target); err != nil {
				return err
			}
			if flipMismatching {
				if err := sim.MACMtrx(g.controls, m, g.Target); err != nil {
					return err
				}
			} else {
				if err := sim.MCMtrx(g.controls, m, g.Target); err != nil {
					return err
				}
			}

		default:
			for _, ctrl := range g.controls {
				if err := undefer(ctrl); err != nil {
					return err
				}
			}
			if err := undefer(g.Target); err != nil {
				return err
			}
			if err := sim.UniformlyControlledSingleBit(g.controls, g.Target, g.MakeUniformlyControlledPayload()); err != nil {
				return err
			}
		}
	}

	for q := 0; q < len(states); q++ {
		if err := undefer(simulator.QubitIndex(q)); err != nil {
			return err
		}
	}
	return nil
}
