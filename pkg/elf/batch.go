package elf

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Request names the symbols to resolve in one file.
type Request struct {
	Path  string
	Names []string
}

// Result of one Request. Err carries that file's failure; Offsets may still
// be set when Err is a close failure.
type Result struct {
	Path    string
	Offsets Offsets
	Err     error
}

// ResolveAll resolves several files concurrently, at most Concurrency at a
// time. Each file gets its own handle and result slice, so a failure in one
// does not affect the others. Only ctx cancellation fails the whole call.
func ResolveAll(ctx context.Context, reqs []Request, options ...Option) ([]Result, error) {
	opts := newOptions(options)
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			req := reqs[i]
			offsets, err := symbolOffsets(req.Path, req.Names, opts)
			results[i] = Result{Path: req.Path, Offsets: offsets, Err: err}
			if err != nil {
				opts.Logger.Warn().Err(err).Str("path", req.Path).Msg("resolve failed")
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}
