package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/danmaku-report/internal/config"
	"github.com/you/danmaku-report/internal/httpapi"
	"github.com/you/danmaku-report/internal/pipeline"
	"github.com/you/danmaku-report/internal/report"
	"github.com/you/danmaku-report/internal/sentiment"
	"github.com/you/danmaku-report/internal/version"
	"github.com/you/danmaku-report/internal/watchfile"
)

const watchDebounce = 250 * time.Millisecond

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	// .env is optional; explicit environment always wins.
	_ = godotenv.Load()

	var (
		versionFlag   bool
		input         string
		outputDir     string
		patternsFile  string
		bucketStart   float64
		bucketWidth   float64
		superchatName string
		sentimentURL  string
		skipFailures  bool
		sqlitePath    string
		metricsAddr   string
		watch         bool
		debugDump     bool
	)

	flag.BoolVar(&versionFlag, "version", false, "Print build version and exit")
	flag.StringVar(&input, "input", "", "Path to the danmaku XML export")
	flag.StringVar(&outputDir, "output-dir", "", "Directory for report CSV files")
	flag.StringVar(&patternsFile, "patterns-file", "", "JSON file with invalidity regex patterns")
	flag.Float64Var(&bucketStart, "bucket-start", 0, "Stream start timestamp (epoch seconds), required")
	flag.Float64Var(&bucketWidth, "bucket-width", 0, "Trend bucket width in seconds")
	flag.StringVar(&superchatName, "superchat-name", "", "Gift name marking superchats")
	flag.StringVar(&sentimentURL, "sentiment-url", "", "Sentiment scoring service URL")
	flag.BoolVar(&skipFailures, "sentiment-skip-failures", false, "Skip comments the scorer fails on instead of aborting")
	flag.StringVar(&sqlitePath, "sqlite", "", "Optional SQLite database archiving report rows")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Optional address serving /metrics and /healthz during the run")
	flag.BoolVar(&watch, "watch", false, "Re-run the report when the input file changes")
	flag.BoolVar(&debugDump, "debug-dump", false, "Write per-category classification dump files")
	flag.Parse()

	if versionFlag {
		fmt.Printf(
			"report version: %s (commit %s, built %s)\n",
			version.Version,
			version.Commit,
			version.BuildTime,
		)
		os.Exit(0)
	}

	overrides := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		overrides[f.Name] = true
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if overrides["input"] {
		cfg.InputPath = strings.TrimSpace(input)
	}
	if overrides["output-dir"] {
		cfg.OutputDir = strings.TrimSpace(outputDir)
	}
	if overrides["patterns-file"] {
		patterns, err := config.LoadPatterns(strings.TrimSpace(patternsFile))
		if err != nil {
			log.Fatalf("load patterns: %v", err)
		}
		cfg.InvalidPatterns = patterns
	}
	if overrides["bucket-start"] {
		cfg.BucketStart = bucketStart
	}
	if overrides["bucket-width"] {
		cfg.BucketWidth = bucketWidth
	}
	if overrides["superchat-name"] {
		cfg.SuperchatName = superchatName
	}
	if overrides["sentiment-url"] {
		cfg.Sentiment.URL = strings.TrimSpace(sentimentURL)
	}
	if overrides["sentiment-skip-failures"] {
		cfg.Sentiment.SkipFailures = skipFailures
	}
	if overrides["sqlite"] {
		cfg.SQLitePath = strings.TrimSpace(sqlitePath)
	}
	if overrides["metrics-addr"] {
		cfg.MetricsAddr = strings.TrimSpace(metricsAddr)
	}
	if overrides["watch"] {
		cfg.Watch = watch
	}
	if overrides["debug-dump"] {
		cfg.DebugDump = debugDump
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.Info("effective config", "config", string(cfg.SummaryJSON()))

	var scorer sentiment.Scorer
	if cfg.Sentiment.URL != "" {
		scorer = sentiment.NewHTTPScorer(
			cfg.Sentiment.URL,
			cfg.Sentiment.Timeout(),
			cfg.Sentiment.RPS,
			cfg.Sentiment.Burst,
		)
	} else {
		slog.Warn("no sentiment backend configured; all comments score neutral")
		scorer = sentiment.Neutral
	}

	metrics := pipeline.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *httpapi.Server
	if cfg.MetricsAddr != "" {
		srv = httpapi.New(httpapi.Options{Addr: cfg.MetricsAddr, Registry: metrics.Registry()})
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("metrics server failed", "err", err)
			}
		}()
	}

	runOnce := func() error {
		emitter, err := buildEmitter(cfg)
		if err != nil {
			return err
		}
		res, err := pipeline.Run(ctx, cfg, scorer, emitter, metrics)
		if closeErr := emitter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}
		slog.Info("run complete",
			"comments", res.TotalComments,
			"gifts", res.TotalGifts,
			"effective", res.Effective,
			"skipped", res.Skipped,
			"tables", res.Tables,
			"duration", res.Duration.Round(time.Millisecond),
		)
		return nil
	}

	exitCode := 0
	if err := runOnce(); err != nil {
		if !cfg.Watch {
			log.Fatalf("run failed: %v", err)
		}
		slog.Error("run failed", "err", err)
		exitCode = 1
	}

	if cfg.Watch {
		slog.Info("watching for changes", "path", cfg.InputPath)
		err := watchfile.Watch(ctx, cfg.InputPath, watchDebounce, func() {
			slog.Info("input changed, re-running", "path", cfg.InputPath)
			if err := runOnce(); err != nil {
				slog.Error("run failed", "err", err)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Fatalf("watch failed: %v", err)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	os.Exit(exitCode)
}

func buildEmitter(cfg config.Config) (report.Emitter, error) {
	csvEmitter, err := report.NewCSVEmitter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	emitters := report.Multi{csvEmitter}
	if cfg.SQLitePath != "" {
		sqliteEmitter, err := report.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("archiving reports", "sqlite", cfg.SQLitePath, "run_id", sqliteEmitter.RunID())
		emitters = append(emitters, sqliteEmitter)
	}
	return emitters, nil
}
