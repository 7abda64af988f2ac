package mapreduce

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
)

// Run executes a map/reduce job in process.
//
// The map phase fans records out to a pool of workers. The shuffle groups
// mapper values by key, in record order, and sorts the keys. The reduce phase
// fans keys out to the same number of workers. Output is concatenated in key
// order, so the result does not depend on the worker count.
//
// Any mapper error fails the run; the returned error joins every failing
// record. workers <= 0 uses GOMAXPROCS.
func Run[K cmp.Ordered, V any, OK comparable, OV any](
	ctx context.Context,
	records []string,
	mapf func(record string) ([]Pair[K, V], error),
	reducef func(key K, values []V) []Pair[OK, OV],
	workers int,
) ([]Pair[OK, OV], error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// map phase
	mapped := make([][]Pair[K, V], len(records))
	mapErrs := make([]error, len(records))
	forEach(ctx, len(records), workers, func(i int) {
		mapped[i], mapErrs[i] = mapf(records[i])
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []error
	for i, err := range mapErrs {
		if err != nil {
			failures = append(failures, fmt.Errorf("record %d: %w", i+1, err))
		}
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}

	// shuffle
	groups := make(map[K][]V)
	for _, pairs := range mapped {
		for _, pair := range pairs {
			groups[pair.Key] = append(groups[pair.Key], pair.Value)
		}
	}
	keys := make([]K, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	slog.Debug("Map phase completed", "records", len(records), "keys", len(keys), "workers", workers)

	// reduce phase
	reduced := make([][]Pair[OK, OV], len(keys))
	forEach(ctx, len(keys), workers, func(i int) {
		reduced[i] = reducef(keys[i], groups[keys[i]])
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var output []Pair[OK, OV]
	for _, pairs := range reduced {
		output = append(output, pairs...)
	}

	slog.Debug("Reduce phase completed", "keys", len(keys), "pairs", len(output))
	return output, nil
}

// forEach calls fn for every index in [0, n) on a pool of workers and returns
// once they are all idle. Indexes not yet handed out when ctx is cancelled are
// skipped.
func forEach(ctx context.Context, n, workers int, fn func(i int)) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

// RunPlain runs the term-keyed job over records.
func (j *Job) RunPlain(ctx context.Context, records []string, workers int) ([]Pair[string, Weight[string]], error) {
	return Run(ctx, records, j.MapPlain, j.ReducePlain, workers)
}

// RunHashed runs the bucket-keyed job over records.
func (j *Job) RunHashed(ctx context.Context, records []string, workers int) ([]Pair[string, Weight[string]], error) {
	return Run(ctx, records, j.MapHashed, j.ReduceHashed, workers)
}

// RunSparse runs the sparse-fragment job over records. Pass the result to
// MergeSparse for whole vectors.
func (j *Job) RunSparse(ctx context.Context, records []string, workers int) ([]Pair[int, map[int]float64], error) {
	return Run(ctx, records, j.MapSparse, j.ReduceSparse, workers)
}
