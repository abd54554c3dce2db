package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/you/danmaku-report/internal/config"
	"github.com/you/danmaku-report/internal/core"
	"github.com/you/danmaku-report/internal/filter"
	"github.com/you/danmaku-report/internal/ingest"
	"github.com/you/danmaku-report/internal/report"
	"github.com/you/danmaku-report/internal/sentiment"
	"github.com/you/danmaku-report/internal/stats"
)

// Result summarizes a completed run for the CLI and for tests.
type Result struct {
	TotalComments int
	TotalGifts    int
	Effective     int
	Skipped       int
	Tables        int
	Duration      time.Duration
}

// Run executes the whole batch: ingest, fold, filter, classify, bucket,
// build and emit. All aggregation state is owned by this call and released
// when it returns. The first unrecoverable error aborts the run; no partial
// report set is emitted after an ingestion failure.
func Run(ctx context.Context, cfg config.Config, scorer sentiment.Scorer, emitter report.Emitter, m *Metrics) (*Result, error) {
	started := time.Now()

	doc, err := ingest.ParseFile(cfg.InputPath)
	if err != nil {
		return nil, errors.Wrap(err, "ingest")
	}
	m.addIngested("comment", len(doc.Comments))
	m.addIngested("gift", len(doc.Gifts))
	slog.Info("ingested export", "comments", len(doc.Comments), "gifts", len(doc.Gifts))

	eff, err := filter.New(cfg.InvalidPatterns)
	if err != nil {
		return nil, errors.Wrap(err, "compile filter")
	}

	users := stats.NewUserStats()
	var pending []core.Comment
	for _, c := range doc.Comments {
		users.AddComment(c)
		if eff.Effective(c.Text) {
			pending = append(pending, c)
		}
	}
	m.addEffective(len(pending))
	slog.Info("filtered comments", "effective", len(pending), "total", len(doc.Comments))

	// Classification must finish before any consumer of the enriched set
	// runs; trend and leaderboard counts depend on the complete corpus.
	classified, err := sentiment.Classify(ctx, scorer, pending, sentiment.Options{
		PositiveThreshold: cfg.PositiveThreshold,
		NegativeThreshold: cfg.NegativeThreshold,
		SkipFailures:      cfg.Sentiment.SkipFailures,
	})
	if err != nil {
		return nil, errors.Wrap(err, "classify")
	}
	for _, c := range classified.Classified {
		m.incClassified(c.Category.String())
	}
	m.addSkips(classified.Skipped)
	if classified.Skipped > 0 {
		slog.Warn("comments skipped by scorer failures", "skipped", classified.Skipped)
	}

	gifts := stats.NewGiftStats(cfg.SuperchatName)
	for _, g := range doc.Gifts {
		gifts.Add(g)
	}

	trend := stats.NewTrend(cfg.BucketStart, cfg.BucketWidth)
	for _, c := range doc.Comments {
		trend.AddComment(c.Ts)
	}
	for _, c := range classified.Classified {
		trend.AddClassified(c)
	}
	for _, g := range doc.Gifts {
		trend.AddGift(g.Ts, g.Value())
	}

	tables := report.Build(report.BuildInput{
		TotalComments: len(doc.Comments),
		Users:         users,
		Gifts:         gifts,
		Classified:    classified.Classified,
		Trend:         trend,
		GiftDivisor:   cfg.GiftDivisor,
		TopCommenters: cfg.TopCommenters,
		TopGifters:    cfg.TopGifters,
		TopNegative:   cfg.TopNegative,
		TopNeutral:    cfg.TopNeutral,
	})
	for _, t := range tables {
		if err := emitter.Emit(t); err != nil {
			return nil, errors.Wrapf(err, "emit %s", t.Name)
		}
		m.incReports()
	}

	if cfg.DebugDump {
		if err := report.WriteDebugDump(cfg.OutputDir, classified.Classified); err != nil {
			slog.Warn("debug dump failed", "err", err)
		}
	}

	res := &Result{
		TotalComments: len(doc.Comments),
		TotalGifts:    len(doc.Gifts),
		Effective:     len(classified.Classified),
		Skipped:       classified.Skipped,
		Tables:        len(tables),
		Duration:      time.Since(started),
	}
	m.observeRun(res.Duration.Seconds())
	return res, nil
}
