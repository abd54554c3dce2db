package sentiment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/you/danmaku-report/internal/core"
)

// Scorer maps comment text onto a sentiment score in [0,1], 1 being most
// positive. Implementations may be arbitrarily expensive; Classify calls
// them strictly sequentially and in input order.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Func adapts a plain function to the Scorer interface.
type Func func(ctx context.Context, text string) (float64, error)

func (f Func) Score(ctx context.Context, text string) (float64, error) { return f(ctx, text) }

// Neutral scores everything 0.5. It is the fallback when no scoring backend
// is configured: volume and revenue reports stay usable, sentiment splits
// collapse to all-neutral.
var Neutral = Func(func(context.Context, string) (float64, error) { return 0.5, nil })

// Options controls classification behaviour.
type Options struct {
	PositiveThreshold float64
	NegativeThreshold float64
	// SkipFailures records per-item scoring failures instead of aborting.
	// Skipped comments are excluded from the classified set entirely.
	SkipFailures bool
	// ProgressEvery logs a progress line after that many items; <=0 uses 1000.
	ProgressEvery int
}

// Result is the classified corpus plus failure bookkeeping.
type Result struct {
	Classified []core.Classified
	Skipped    int
}

const defaultProgressEvery = 1000

// Classify scores every comment in order, preserving input order in the
// output. By default a single scoring failure aborts the run; with
// SkipFailures the item is dropped and counted instead.
func Classify(ctx context.Context, scorer Scorer, comments []core.Comment, opts Options) (Result, error) {
	every := opts.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	res := Result{Classified: make([]core.Classified, 0, len(comments))}
	for i, c := range comments {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrap(err, "classification cancelled")
		}
		score, err := scorer.Score(ctx, c.Text)
		if err != nil {
			if opts.SkipFailures {
				res.Skipped++
				slog.Warn("scoring failed, skipping", "index", i, "err", err)
				continue
			}
			return Result{}, errors.Wrapf(err, "score comment %d", i)
		}
		res.Classified = append(res.Classified, core.Classified{
			Comment:  c,
			Score:    score,
			Category: core.CategoryFor(score, opts.PositiveThreshold, opts.NegativeThreshold),
		})
		if (i+1)%every == 0 {
			slog.Info("classification progress", "done", i+1, "total", len(comments))
		}
	}
	return res, nil
}
