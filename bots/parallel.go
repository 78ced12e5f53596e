package bots

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// runUnits calls fn for every unit index in [0, n) on a bounded number of
// goroutines. The first error cancels the context handed to the remaining
// units and is returned. done[i] reports whether unit i finished without
// error, so callers can still use partial results after a cancellation.
func runUnits(ctx context.Context, n int, fn func(ctx context.Context, i int) error) (done []bool, err error) {
	done = make([]bool, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, i); err != nil {
				return err
			}
			done[i] = true
			return nil
		})
	}
	return done, g.Wait()
}
