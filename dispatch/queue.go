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

// Package dispatch implements a single-consumer FIFO work queue: the
// concurrency primitive the stabilizer tableau uses to serialize mutations
// of its row arrays (spec.md §4.1, §5).
package dispatch

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type opItem struct {
	id uuid.UUID
	fn func()
}

// Queue is a bounded-semantics FIFO with exactly one consumer worker. The
// zero value is not usable; construct with NewQueue.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []opItem
	started bool
	closed  bool
	busy    bool
	workerG uint64

	// sem enforces "exactly one op runs at a time" as a hard invariant
	// rather than an assumption about loop's structure.
	sem *semaphore.Weighted
}

// NewQueue builds an idle queue. Its worker goroutine is not started until
// the first Dispatch call.
func NewQueue() *Queue {
	q := &Queue{sem: semaphore.NewWeighted(1)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Dispatch appends a nullary closure to the queue and returns immediately.
// The worker goroutine is started lazily on the first call.
func (q *Queue) Dispatch(op func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	item := opItem{id: uuid.New(), fn: op}
	q.items = append(q.items, item)
	depth := len(q.items)
	if !q.started {
		q.started = true
		go q.loop()
	}
	q.cond.Signal()
	q.mu.Unlock()

	log.Debug("dispatch: op enqueued", "op", item.id, "depth", depth)
	return nil
}

func (q *Queue) loop() {
	q.mu.Lock()
	q.workerG = goroutineID()
	q.mu.Unlock()

	ctx := context.Background()
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		item := q.items[0]
		q.items = q.items[1:]
		q.busy = true
		q.mu.Unlock()

		if err := q.sem.Acquire(ctx, 1); err != nil {
			log.Error("dispatch: semaphore acquire failed", "op", item.id, "err", err)
		} else {
			runOp(item)
			q.sem.Release(1)
		}

		q.mu.Lock()
		q.busy = false
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

func runOp(item opItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("dispatch: op panicked", "op", item.id, "recover", r)
		}
	}()
	log.Debug("dispatch: op starting", "op", item.id)
	item.fn()
	log.Debug("dispatch: op finished", "op", item.id)
}

// Finish blocks the caller until the queue is empty and the worker is idle.
// It is re-entrant from outside the worker. Calling it from within a
// dispatched op is detected on a best-effort basis (via the calling
// goroutine's id) and reported as ErrQueueReentrantFinish instead of
// deadlocking.
func (q *Queue) Finish() error {
	gid := goroutineID()

	q.mu.Lock()
	if q.started && q.busy && gid == q.workerG {
		q.mu.Unlock()
		return ErrQueueReentrantFinish
	}
	for len(q.items) > 0 || q.busy {
		q.cond.Wait()
	}
	q.mu.Unlock()
	return nil
}

// Dump discards all pending ops. An op already running completes normally;
// Finish called afterwards returns once that in-flight op ends.
func (q *Queue) Dump() {
	q.mu.Lock()
	n := len(q.items)
	q.items = nil
	q.mu.Unlock()
	log.Debug("dispatch: dumped pending ops", "count", n)
}

// IsFinished is a non-blocking probe, true iff the queue is empty and the
// worker is idle.
func (q *Queue) IsFinished() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0 && !q.busy
}

// Close drains the queue and stops the worker. It is idempotent and safe to
// call even if the worker was never started.
func (q *Queue) Close() error {
	if err := q.Finish(); err != nil {
		return err
	}
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	return nil
}

// goroutineID extracts the calling goroutine's runtime id from its stack
// trace header. It is a best-effort identity check used only to detect
// reentrant Finish calls, never for scheduling decisions.
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
