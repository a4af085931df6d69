package utils

import (
	"sync"
)

// ParallelTask is a unit of work executed concurrently with its peers.
type ParallelTask func() (interface{}, error)

// RunParallelTasks executes all tasks at once and returns results and errors
// index-aligned with the input.
func RunParallelTasks(tasks []ParallelTask) ([]interface{}, []error) {
	var wg sync.WaitGroup
	results := make([]interface{}, len(tasks))
	errors := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			result, err := t()
			results[index] = result
			errors[index] = err
		}(i, task)
	}

	wg.Wait()
	return results, errors
}
