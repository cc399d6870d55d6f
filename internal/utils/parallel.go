package utils

import (
	"context"
	"sync"
)

// ParallelTask is one unit of work run by RunParallelTasks.
type ParallelTask[T any] func(ctx context.Context) (T, error)

// RunParallelTasks runs every task concurrently and waits for all of them.
// results[i] and errs[i] belong to tasks[i].
func RunParallelTasks[T any](ctx context.Context, tasks []ParallelTask[T]) ([]T, []error) {
	var wg sync.WaitGroup
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask[T]) {
			defer wg.Done()
			results[index], errs[index] = t(ctx)
		}(i, task)
	}

	wg.Wait()
	return results, errs
}
