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

package simulator

import (
	"errors"
	"fmt"
)

// ErrDomain is the DomainError kind from spec.md §7: an operation was given
// arguments outside what the simulator can honor (qubit index out of
// range, a controlled matrix that is neither diagonal nor anti-diagonal,
// and so on).
var ErrDomain = errors.New("simulator: domain error")

// ErrUnsupported wraps ErrDomain for an operation a given Simulator
// implementation does not support at all (e.g. a dense non-Clifford matrix
// on the stabilizer tableau).
var ErrUnsupported = fmt.Errorf("simulator: unsupported operation: %w", ErrDomain)

// ErrQubitOutOfRange wraps ErrDomain for an out-of-range qubit index.
var ErrQubitOutOfRange = fmt.Errorf("simulator: qubit index out of range: %w", ErrDomain)
