package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds Details when no worker count is configured.
const DefaultWorkers = 5

// Details calls fn for every item with at most workers calls in flight.
// Results and errors are positional: out[i] and errs[i] belong to items[i].
// A failing item never cancels its siblings.
func Details[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, []error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]R, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			out[i], errs[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return out, errs
}
