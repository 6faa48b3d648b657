// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// NetworkConcurrency is the worker count for network-bound fleet
// operations (clone, fetch, push, API calls). Forge endpoints tolerate
// far more in-flight requests than the local machine has cores.
const NetworkConcurrency = 48

// LocalConcurrency is the worker count for CPU- or disk-bound fleet
// operations such as running check scripts.
func LocalConcurrency() int {
	return runtime.NumCPU()
}

// Operation is a unit of per-item work executed by the pool. The item
// is usually a Clone, but report streams repository names through the
// same pool.
type Operation[I, T any] func(ctx context.Context, item I) (T, error)

// Outcome is the result of running an Operation against one item.
// Err carries the operation's failure; Value is only meaningful when
// Err is nil.
type Outcome[I, T any] struct {
	Item  I
	Value T
	Err   error
}

// Stream runs op against every item using at most limit concurrent
// workers and delivers outcomes on the returned channel as they
// complete, in completion order. The channel is closed once every
// dispatched operation has finished.
//
// Cancelling ctx stops the dispatch of items that have not started,
// but operations already in flight run to completion: a lifecycle
// step such as a stash/pop pair must not be severed halfway through,
// so workers receive a context detached from ctx's cancellation.
// Callers that need partial progress persisted should consume the
// channel and record each outcome as it arrives.
func Stream[I, T any](ctx context.Context, items []I, limit int, op Operation[I, T]) <-chan Outcome[I, T] {
	if limit < 1 {
		limit = 1
	}
	if limit > len(items) {
		limit = max(len(items), 1)
	}

	feed := make(chan I)
	out := make(chan Outcome[I, T])
	opCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for range limit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range feed {
				value, err := runOperation(opCtx, item, op)
				out <- Outcome[I, T]{Item: item, Value: value, Err: err}
			}
		}()
	}

	go func() {
		defer close(feed)
		for _, item := range items {
			select {
			case feed <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Run is Stream with the outcomes collected into a slice. The order
// of the result is completion order, not inventory order.
func Run[I, T any](ctx context.Context, items []I, limit int, op Operation[I, T]) []Outcome[I, T] {
	var outcomes []Outcome[I, T]
	for outcome := range Stream(ctx, items, limit, op) {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// runOperation converts a panicking operation into a failed outcome
// so one misbehaving item cannot take down the whole fleet pass.
func runOperation[I, T any](ctx context.Context, item I, op Operation[I, T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return op(ctx, item)
}
