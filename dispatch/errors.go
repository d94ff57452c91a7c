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

package dispatch

import "errors"

// ErrQueueReentrantFinish is the QueueMisuse error (spec.md §7): returned by
// Finish when it is called from within a dispatched op, instead of
// deadlocking the worker against itself.
var ErrQueueReentrantFinish = errors.New("dispatch: finish called from within a dispatched op")

// ErrQueueClosed is returned by Dispatch once the queue has been Closed.
var ErrQueueClosed = errors.New("dispatch: queue is closed")
