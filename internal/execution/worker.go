package execution

import (
	"context"
	"sync"
	"time"

	"tsa/internal/domain"
	"tsa/internal/ui"
)

// AdaptFunc derives the case of one file
type AdaptFunc func(ctx context.Context, file domain.TestFile) (domain.TestCase, error)

// WorkerPool manages a pool of workers adapting files in parallel
type WorkerPool struct {
	workers  int
	progress *ui.ProgressBar
}

// NewWorkerPool creates a new WorkerPool with the given number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{workers: workers}
}

// Workers returns the size of the pool
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute adapts every file, collecting each file's case or error (no fail-fast).
// Results are returned in the order of files.
func (wp *WorkerPool) Execute(ctx context.Context, files []domain.TestFile, adapt AdaptFunc) ([]domain.AdaptResult, time.Duration) {
	results, duration, _ := wp.ExecuteWithOptions(ctx, files, adapt, false)
	return results, duration
}

// ExecuteWithOptions adapts files with optional fail-fast (stop on first error).
// With fail-fast the first error is returned and no results are.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, files []domain.TestFile, adapt AdaptFunc, failFast bool) ([]domain.AdaptResult, time.Duration, error) {
	if len(files) == 0 {
		return nil, 0, nil
	}
	if !failFast {
		results, duration := wp.executeAll(ctx, files, adapt)
		return results, duration, nil
	}
	return wp.executeFailFast(ctx, files, adapt)
}

// job is a file and its position in the batch
type job struct {
	index int
	file  domain.TestFile
}

// counter tracks the progress totals shared by the workers
type counter struct {
	mu                     sync.Mutex
	tests, skipped, errors int
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tests + c.skipped + c.errors
}

func (c *counter) record(wp *WorkerPool, result domain.AdaptResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case result.Error != nil:
		c.errors++
	case result.Case.IsSkip():
		c.skipped++
	default:
		c.tests++
	}
	if wp.progress != nil {
		wp.progress.Update(c.tests, c.skipped, c.errors)
	}
}

// executeAll adapts every file and lets the pool drain before returning
func (wp *WorkerPool) executeAll(ctx context.Context, files []domain.TestFile, adapt AdaptFunc) ([]domain.AdaptResult, time.Duration) {
	queue := make(chan job, len(files))
	for i, file := range files {
		queue <- job{index: i, file: file}
	}
	close(queue)

	results := make([]domain.AdaptResult, len(files))
	var progress counter
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				result := domain.AdaptResult{File: j.file}
				if err := ctx.Err(); err != nil {
					result.Error = err
				} else {
					result.Case, result.Error = adapt(ctx, j.file)
				}
				// Each worker owns distinct indices
				results[j.index] = result
				progress.record(wp, result)
			}
		}()
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}
	return results, time.Since(startTime)
}

// executeFailFast adapts files and stops handing out work after the first error
func (wp *WorkerPool) executeFailFast(ctx context.Context, files []domain.TestFile, adapt AdaptFunc) ([]domain.AdaptResult, time.Duration, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan job, 1)
	go func() {
		defer close(queue)
		for i, file := range files {
			select {
			case <-ctx.Done():
				return
			case queue <- job{index: i, file: file}:
			}
		}
	}()

	results := make([]domain.AdaptResult, len(files))
	var progress counter
	var mu sync.Mutex
	var firstErr error
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				mu.Lock()
				done := firstErr != nil
				mu.Unlock()
				if done {
					continue
				}

				result := domain.AdaptResult{File: j.file}
				result.Case, result.Error = adapt(ctx, j.file)
				results[j.index] = result
				progress.record(wp, result)

				if result.Error != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = result.Error
					}
					mu.Unlock()
					cancel()
				}
			}
		}()
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	if firstErr != nil {
		return nil, time.Since(startTime), firstErr
	}
	// The parent was cancelled before every file was handed out
	if progress.total() < len(files) {
		return nil, time.Since(startTime), ctx.Err()
	}
	return results, time.Since(startTime), nil
}
