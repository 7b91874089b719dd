// Package batch runs a slice of independent tasks through a fixed-size worker
// pool, capping how many are in flight at once while preserving input order in
// the results.
package batch

import (
	"context"
	"fmt"
	"sync"
)

// Task processes one item. The index is the item's position in the input
// slice; the corresponding Result lands at the same index in the output.
type Task[T, R any] func(ctx context.Context, item T, index int) (R, error)

// Result holds the outcome for a single item. A failed task sets Err and
// leaves Value at its zero value; sibling tasks are unaffected.
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes task over items with at most limit tasks in flight. A worker
// that finishes one item immediately pulls the next queued item. Run returns
// once every item has completed; an empty input returns immediately.
func Run[T, R any](ctx context.Context, items []T, limit int, task Task[T, R]) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(items) {
		limit = len(items)
	}

	type job struct {
		item  T
		index int
	}

	jobs := make(chan job)
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				value, err := runTask(ctx, task, j.item, j.index)
				// Each index is written by exactly one worker, so no
				// locking is needed around the results slice.
				results[j.index] = Result[R]{Value: value, Err: err}
			}
		}()
	}

	for i, item := range items {
		jobs <- job{item: item, index: i}
	}
	close(jobs)
	wg.Wait()

	return results
}

// Values extracts the successful values from results, dropping failed items.
func Values[R any](results []Result[R]) []R {
	values := make([]R, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			values = append(values, r.Value)
		}
	}
	return values
}

// runTask invokes task, converting a panic into an error so one bad item
// cannot take down the whole batch.
func runTask[T, R any](ctx context.Context, task Task[T, R], item T, index int) (value R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %d panicked: %v", index, rec)
		}
	}()
	return task(ctx, item, index)
}
