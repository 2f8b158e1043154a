package webpush

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome for one subscription of a batch.
type BatchResult struct {
	Target  Subscription
	Request *PushRequest
	Err     error
}

// BuildBatch encrypts the same message for many subscriptions. Each target
// gets its own ephemeral key and salt. Per-target failures are recorded in
// the result rather than stopping the batch; the returned error is only
// ctx.Err() when the context ends first. Results keep the order of targets.
func (c *Client) BuildBatch(ctx context.Context, base PushOptions, targets []Subscription) ([]BatchResult, error) {
	results := make([]BatchResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)

	for i, target := range targets {
		results[i].Target = target

		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			opts := base
			opts.Target = target

			req, err := c.GeneratePushHTTPRequest(gctx, opts)
			results[i].Request = req
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
