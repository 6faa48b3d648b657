// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called. After and Sleep register pending
// waiters that fire when the clock advances past their deadline.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.waitersChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock for testing. Time advances only
// when Advance is called. Waiters created by After or Sleep block until
// the clock is advanced past their deadline.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Now returns the fake clock's current time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// After returns a channel that receives the clock's time once Advance
// moves the clock to or past the deadline. If d <= 0, the channel
// receives immediately.
func (clock *FakeClock) After(d time.Duration) <-chan time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- clock.current
		return channel
	}
	clock.waiters = append(clock.waiters, &fakeWaiter{
		deadline: clock.current.Add(d),
		channel:  channel,
	})
	clock.waitersChanged.Broadcast()
	return channel
}

// Sleep blocks the calling goroutine until Advance moves the clock past
// the deadline.
func (clock *FakeClock) Sleep(d time.Duration) {
	<-clock.After(d)
}

// Advance moves the clock forward by d, firing every waiter whose
// deadline has been reached in deadline order.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	clock.current = clock.current.Add(d)

	remaining := clock.waiters[:0]
	for _, waiter := range clock.waiters {
		if !waiter.deadline.After(clock.current) {
			waiter.channel <- clock.current
		} else {
			remaining = append(remaining, waiter)
		}
	}
	clock.waiters = remaining
}

// WaitForWaiters blocks until at least n waiters are registered. Use
// this to synchronize with a goroutine that is about to block on After
// or Sleep before calling Advance.
func (clock *FakeClock) WaitForWaiters(n int) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	for len(clock.waiters) < n {
		clock.waitersChanged.Wait()
	}
}
