package parallel

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultLimit is the worker limit used when the caller passes <= 0
const DefaultLimit = 4

// Map runs fn over every item with at most limit concurrent workers and
// returns the results in input order.
//
// Behavior:
//   - All workers run to completion even when one fails
//   - The first error (by input order) is returned
//   - Panics in fn are recovered, logged, and reported as errors
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			errs[i] = goerr.Wrap(err, "context cancelled")
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(ctx).Error("panic in parallel worker",
						"recover", r,
						"stack", string(stack))
					errs[i] = goerr.New("panic in parallel worker", goerr.V("recover", r))
				}
				<-sem
				wg.Done()
			}()

			results[i], errs[i] = fn(ctx, item)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
