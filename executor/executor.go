// Package executor provides the bounded fan-out/fan-in runner used by every
// debate round. A set of independent tasks is executed concurrently, each
// failure is isolated to its own result slot, and the call blocks until all
// tasks have settled.
package executor

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMaxWorkers caps the worker count when the caller does not supply a
// bound. Rounds default to one worker per task, so the cap only matters for
// unusually large panels.
const DefaultMaxWorkers = 16

// Result is the settled outcome of one task. Exactly one of Value and Err is
// meaningful; Index is the task's position in the input slice so callers can
// correlate results with panel order regardless of completion order.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Ok reports whether the task succeeded.
func (r Result[T]) Ok() bool { return r.Err == nil }

// Options configure a RunAll invocation.
type Options struct {
	// MaxWorkers bounds concurrent task execution. Zero or negative means
	// min(len(tasks), DefaultMaxWorkers).
	MaxWorkers int
}

// RunAll executes every task exactly once and returns one result per task,
// indexed by input position. A task's error (or panic) lands in its own
// result and never aborts sibling tasks; the call returns only after every
// task has settled. The context is passed through to tasks; RunAll itself
// does not cancel stragglers.
func RunAll[T any](ctx context.Context, tasks []func(context.Context) (T, error), optFns ...func(o *Options)) []Result[T] {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = len(tasks)
		if workers > DefaultMaxWorkers {
			workers = DefaultMaxWorkers
		}
	}

	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, run func(context.Context) (T, error)) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Each goroutine writes only its own slot, so no lock is
			// needed on the results slice.
			defer func() {
				if rec := recover(); rec != nil {
					results[idx] = Result[T]{Index: idx, Err: fmt.Errorf("task panicked: %v", rec)}
				}
			}()

			v, err := run(ctx)
			results[idx] = Result[T]{Index: idx, Value: v, Err: err}
		}(i, task)
	}

	wg.Wait()
	return results
}
