package build

import (
	"runtime"
	"sync"
)

// forEach processes items concurrently using a worker pool. If any call to
// fn fails, the remaining items are skipped and the first error is
// returned.
func forEach[T any](items []T, workers int, fn func(T) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(items) == 0 {
		return nil
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan T, len(items))
	errCh := make(chan error, 1)
	var once sync.Once
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if err := fn(item); err != nil {
					once.Do(func() { errCh <- err })
					return
				}
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return err
	}
	return nil
}
