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
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/qethlabs/qtableau/qnum"
	"github.com/qethlabs/qtableau/simulator"
)

// Serialize renders c in the textual circuit format of spec.md §4.5/§6:
// "qubitCount gateCount gate*", gate as "target |controls| control*
// |payloads| (key m00 m01 m10 m11)*", matrix entries formatted with enough
// digits to round-trip at precision. Tokens are separated by single spaces
// (the "emit strict" half of the format's accept-loose/emit-strict rule);
// payload keys are emitted in ascending order for a deterministic output.
func Serialize(c *Circuit, precision qnum.Precision) string {
	c.lock()
	defer c.unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%d %d", c.qubitCount, len(c.gates))
	for _, g := range c.gates {
		fmt.Fprintf(&b, " %d %d", g.Target, len(g.controls))
		for _, ctrl := range g.controls {
			fmt.Fprintf(&b, " %d", ctrl)
		}
		keys := make([]uint64, 0, len(g.Payloads))
		for k := range g.Payloads {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		fmt.Fprintf(&b, " %d", len(keys))
		for _, key := range keys {
			m := g.Payloads[key]
			fmt.Fprintf(&b, " %d %s %s %s %s", key,
				qnum.FormatComplex(m[0][0], precision), qnum.FormatComplex(m[0][1], precision),
				qnum.FormatComplex(m[1][0], precision), qnum.FormatComplex(m[1][1], precision))
		}
	}
	return b.String()
}

// tokenReader wraps a bufio.Scanner in ScanWords mode so Parse accepts any
// amount of whitespace between tokens (spec.md §6's "accept loose" rule).
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(s string) *tokenReader {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("circuit: unexpected end of input")
	}
	return t.sc.Text(), nil
}

func (t *tokenReader) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("circuit: expected integer, got %q: %w", tok, err)
	}
	return v, nil
}

func (t *tokenReader) nextUint64() (uint64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("circuit: expected unsigned integer, got %q: %w", tok, err)
	}
	return v, nil
}

func (t *tokenReader) nextComplex() (qnum.Complex, error) {
	tok, err := t.next()
	if err != nil {
		return qnum.Complex{}, err
	}
	c, ok := qnum.ParseComplex(tok)
	if !ok {
		return qnum.Complex{}, fmt.Errorf("circuit: malformed complex literal %q", tok)
	}
	return c, nil
}

// Parse reads the textual circuit format produced by Serialize, accepting
// arbitrary whitespace between tokens.
func Parse(s string) (*Circuit, error) {
	t := newTokenReader(s)

	qubitCount, err := t.nextInt()
	if err != nil {
		return nil, err
	}
	gateCount, err := t.nextInt()
	if err != nil {
		return nil, err
	}

	c := &Circuit{qubitCount: qubitCount, gates: make([]*Gate, 0, gateCount)}
	for i := 0; i < gateCount; i++ {
		target, err := t.nextInt()
		if err != nil {
			return nil, err
		}
		numControls, err := t.nextInt()
		if err != nil {
			return nil, err
		}
		controls := make([]simulator.QubitIndex, numControls)
		for j := 0; j < numControls; j++ {
			ctrl, err := t.nextInt()
			if err != nil {
				return nil, err
			}
			controls[j] = simulator.QubitIndex(ctrl)
		}
		numPayloads, err := t.nextInt()
		if err != nil {
			return nil, err
		}
		payloads := make(map[uint64]qnum.Matrix2x2, numPayloads)
		for j := 0; j < numPayloads; j++ {
			key, err := t.nextUint64()
			if err != nil {
				return nil, err
			}
			var m qnum.Matrix2x2
			for r := 0; r < 2; r++ {
				for col := 0; col < 2; col++ {
					v, err := t.nextComplex()
					if err != nil {
						return nil, err
					}
					m[r][col] = v
				}
			}
			payloads[key] = m
		}
		g, err := NewGate(simulator.QubitIndex(target), controls, payloads)
		if err != nil {
			return nil, err
		}
		c.gates = append(c.gates, g)
	}
	return c, nil
}
