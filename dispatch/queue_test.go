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

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOpsExecuteInSubmissionOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, q.Dispatch(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	require.NoError(t, q.Finish())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 50)
	for i, v := range order {
		require.Equal(t, i, v)
	}
}

func TestFinishBlocksUntilDrained(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	done := make(chan struct{})
	require.NoError(t, q.Dispatch(func() {
		time.Sleep(20 * time.Millisecond)
		close(done)
	}))
	require.NoError(t, q.Finish())

	select {
	case <-done:
	default:
		t.Fatal("Finish returned before the dispatched op completed")
	}
}

func TestDumpDiscardsPendingButNotInFlight(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	started := make(chan struct{})
	blockFirst := make(chan struct{})
	require.NoError(t, q.Dispatch(func() {
		close(started)
		<-blockFirst
	}))

	<-started // first op is now running

	var ran bool
	require.NoError(t, q.Dispatch(func() { ran = true }))
	q.Dump()
	close(blockFirst)

	require.NoError(t, q.Finish())
	require.False(t, ran, "dumped op must not run")
}

func TestIsFinished(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	require.True(t, q.IsFinished())

	block := make(chan struct{})
	require.NoError(t, q.Dispatch(func() { <-block }))

	require.Eventually(t, func() bool { return !q.IsFinished() }, time.Second, time.Millisecond)
	close(block)
	require.NoError(t, q.Finish())
	require.True(t, q.IsFinished())
}

func TestReentrantFinishReportsMisuseInsteadOfDeadlocking(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	errCh := make(chan error, 1)
	require.NoError(t, q.Dispatch(func() {
		errCh <- q.Finish()
	}))

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrQueueReentrantFinish)
	case <-time.After(2 * time.Second):
		t.Fatal("reentrant Finish deadlocked instead of returning an error")
	}
}

func TestDispatchAfterCloseFails(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.Dispatch(func() {}))
	require.NoError(t, q.Close())

	require.ErrorIs(t, q.Dispatch(func() {}), ErrQueueClosed)
}

func TestQueueWithNoDispatchNeverStartsAWorker(t *testing.T) {
	q := NewQueue()
	require.True(t, q.IsFinished())
	require.NoError(t, q.Close())
}
