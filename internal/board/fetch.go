package board

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of overview requests in flight per batch
const DefaultConcurrency = 12

// ProgressCallback is called after each posting finishes, successfully or not
type ProgressCallback func(current, total int)

// FetchOptions controls FetchAll
type FetchOptions struct {
	Concurrency int           // requests per batch
	BatchDelay  time.Duration // pause between batches
}

// FetchAll fetches overviews for ids in batches of opts.Concurrency parallel requests.
// A posting that fails is skipped and its error collected; the returned overviews keep
// the order of ids. Cancelling ctx stops before the next batch.
func FetchAll(ctx context.Context, src Source, ids []string, opts FetchOptions, progress ProgressCallback) ([]JobOverview, []error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	total := len(ids)
	slots := make([]*JobOverview, total)
	var (
		mu      sync.Mutex
		errs    []error
		fetched int64
	)

	if progress != nil {
		progress(0, total)
	}

	for start := 0; start < total; start += opts.Concurrency {
		if start > 0 && opts.BatchDelay > 0 {
			select {
			case <-time.After(opts.BatchDelay):
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("fetch stopped after %d of %d postings: %w", start, total, err))
			break
		}

		end := min(start+opts.Concurrency, total)

		// Errors are collected rather than returned so one bad posting never cancels
		// the rest of the batch.
		var g errgroup.Group
		g.SetLimit(opts.Concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error {
				overview, err := src.FetchOverview(ctx, ids[i])
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				} else {
					slots[i] = overview
				}

				if progress != nil {
					progress(int(atomic.AddInt64(&fetched, 1)), total)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	overviews := make([]JobOverview, 0, total)
	for _, o := range slots {
		if o != nil {
			overviews = append(overviews, *o)
		}
	}

	return overviews, errs
}
