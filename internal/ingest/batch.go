package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
)

// Compiler turns one raw description into a compiled SignDesc.
type Compiler interface {
	Parse(raw string) (*model.SignDesc, error)
}

// CompileOptions configures batch compilation.
type CompileOptions struct {
	Progress func(done, total int) // Called after each record; may be nil
	Workers  int                   // Number of parallel workers
}

// DefaultCompileOptions returns one worker per CPU.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{
		Workers: runtime.NumCPU(),
	}
}

// CompileResult is the outcome for one record. Exactly one of Desc and Err
// is set.
type CompileResult struct {
	Desc   *model.SignDesc
	Err    error
	Record Record
}

// CompileSummary contains statistics about a batch run.
type CompileSummary struct {
	TotalRecords     int
	Compiled         int
	Failed           int
	TotalRules       int
	FragmentFailures int
	ProcessingTime   time.Duration
}

// CompileAll compiles records concurrently. Results keep the input order.
// A record that fails to compile is reported in its result and does not stop
// the batch; only context cancellation does.
func CompileAll(ctx context.Context, compiler Compiler, records []Record, opts CompileOptions) ([]CompileResult, *CompileSummary, error) {
	start := time.Now()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]CompileResult, len(records))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}

		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			desc, err := compiler.Parse(rec.Description)
			if desc != nil {
				desc.Code = rec.Code
			}
			results[i] = CompileResult{Record: rec, Desc: desc, Err: err}

			n := done.Add(1)
			if opts.Progress != nil {
				opts.Progress(int(n), len(records))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	summary := &CompileSummary{TotalRecords: len(records)}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			common.LogDebug("Failed to compile description", common.Fields{
				"code":  res.Record.Code,
				"line":  res.Record.Line,
				"error": res.Err,
			})
			continue
		}
		summary.Compiled++
		summary.TotalRules += len(res.Desc.Rules)
		summary.FragmentFailures += len(res.Desc.Failures)
	}
	summary.ProcessingTime = time.Since(start)

	slog.Info("Compiled descriptions",
		"total", summary.TotalRecords,
		"compiled", summary.Compiled,
		"failed", summary.Failed,
		"rules", summary.TotalRules,
		"duration", summary.ProcessingTime)

	return results, summary, nil
}
