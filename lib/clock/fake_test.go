// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeClock_Now(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := Fake(start)

	if !clock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clock.Now(), start)
	}

	clock.Advance(5 * time.Second)
	if !clock.Now().Equal(start.Add(5 * time.Second)) {
		t.Errorf("Now() after Advance = %v, want %v", clock.Now(), start.Add(5*time.Second))
	}
}

func TestFakeClock_AfterFiresOnAdvance(t *testing.T) {
	t.Parallel()

	clock := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	channel := clock.After(10 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(9 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(time.Second)
	select {
	case fired := <-channel:
		want := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)
		if !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeClock_AfterNonPositive(t *testing.T) {
	t.Parallel()

	clock := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeClock_SleepUnblocksGoroutine(t *testing.T) {
	t.Parallel()

	clock := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	done := make(chan struct{})

	go func() {
		clock.Sleep(time.Minute)
		close(done)
	}()

	clock.WaitForWaiters(1)
	clock.Advance(time.Minute)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance")
	}
}
