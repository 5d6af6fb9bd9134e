// Package batch validates a corpus in parallel and summarizes the outcome.
//
// Results are stored by input index, so the report order and content never
// depend on scheduling. A failure while validating one sample only affects
// that sample's result.
package batch

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// Validator validates a single sample.
type Validator interface {
	Validate(ctx context.Context, s core.Sample) validate.Result
}

// Options configures a Runner.
type Options struct {
	Workers int // 0 means GOMAXPROCS
	Logger  *slog.Logger
}

// Runner fans samples out to a bounded worker pool.
type Runner struct {
	validator Validator
	workers   int
	logger    *slog.Logger
}

// NewRunner creates a Runner around v.
func NewRunner(v Validator, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{validator: v, workers: opts.Workers, logger: opts.Logger}
}

// Report holds one result per input sample, in input order.
type Report struct {
	Results []validate.Result
}

// AllAccepted reports whether every sample was accepted.
func (r *Report) AllAccepted() bool {
	for _, res := range r.Results {
		if res.Verdict != core.VerdictAccept {
			return false
		}
	}
	return true
}

// Summary folds the results into corpus statistics.
func (r *Report) Summary(topN int) Summary {
	return Summarize(r.Results, topN)
}

// Run validates every sample. The only error is the context's.
func (r *Runner) Run(ctx context.Context, samples []core.Sample) (*Report, error) {
	results := make([]validate.Result, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, s := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.validateOne(gctx, s)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info("validated corpus", "samples", len(samples), "workers", r.workers)
	return &Report{Results: results}, nil
}

func (r *Runner) validateOne(ctx context.Context, s core.Sample) (res validate.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("sample validation panicked", "id", s.ID, "panic", rec)
			res = validate.InternalError(s.ID, rec)
		}
	}()
	return r.validator.Validate(ctx, s)
}
