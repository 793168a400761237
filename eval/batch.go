// SPDX-License-Identifier: MIT

package eval

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one request in a batch.
type Result struct {
	Index int
	Op    string
	Value any
	Err   error
}

// Batch evaluates reqs with at most limit concurrent evaluations
// (limit <= 0 means GOMAXPROCS) and returns one Result per request in
// request order. A failing request does not stop the others; requests not
// yet started when ctx is cancelled report ctx.Err().
func Batch(ctx context.Context, reqs []Request, limit int) []Result {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = Result{Index: i, Op: req.Op}
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = Evaluate(req)
			return nil
		})
	}
	// Request failures are recorded per Result, so Wait has nothing to report.
	_ = g.Wait()
	return results
}
