package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Getter is the single-record lookup used when hydrating stored ids.
type Getter interface {
	GetProduct(ctx context.Context, id int) (Product, error)
}

// Resolution ties a looked-up record back to the id it was requested for.
type Resolution struct {
	ID      int
	Product Product
	Err     error
}

func (r Resolution) OK() bool { return r.Err == nil }

// ResolveMany fetches every id concurrently (at most workers in flight) and
// returns once all lookups finished, in the order of ids. A failed lookup
// never cancels its siblings; the error stays on its Resolution.
func ResolveMany(ctx context.Context, g Getter, ids []int, workers int) []Resolution {
	out := make([]Resolution, len(ids))
	if len(ids) == 0 {
		return out
	}
	if workers < 1 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, id := range ids {
		eg.Go(func() error {
			p, err := g.GetProduct(ctx, id)
			out[i] = Resolution{ID: id, Product: p, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
