// Package scheduler runs groups of tasks either with a concurrency ceiling
// or strictly one after another.
//
// Neither primitive cancels remaining tasks when one fails. Every task runs
// and its error is reported at the task's index.
package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work.
type Task func(ctx context.Context) error

// RunAll runs tasks with at most limit of them in flight. Tasks are started
// in slice order. The returned slice holds each task's error at its index.
// A limit below one is treated as one.
func RunAll(ctx context.Context, limit int, tasks []Task) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}
	if limit < 1 {
		limit = 1
	}

	// The group context is not passed to tasks: a failed task must not
	// cancel its siblings.
	var g errgroup.Group
	g.SetLimit(limit)

	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// RunInOrder runs tasks sequentially. Each task completes before the next
// starts, and a failing task does not stop the sequence. Tasks not yet
// started when ctx is cancelled get ctx.Err().
func RunInOrder(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		errs[i] = task(ctx)
	}
	return errs
}

// FirstError returns the first non-nil error in errs.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
