package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Config is the immutable per-run configuration. Load assembles it from
// DMK_* environment variables; cmd/report overlays flag values on top.
type Config struct {
	InputPath string
	OutputDir string

	InvalidPatterns []string

	PositiveThreshold float64
	NegativeThreshold float64

	BucketStart float64 // epoch seconds; required, stream-specific
	BucketWidth float64 // seconds
	GiftDivisor float64 // minor -> major currency units in the trend

	SuperchatName string

	TopCommenters int
	TopGifters    int
	TopNegative   int
	TopNeutral    int

	Sentiment SentimentConfig

	SQLitePath  string // optional report archive
	MetricsAddr string // optional /metrics listener
	Watch       bool
	DebugDump   bool
}

type SentimentConfig struct {
	URL          string
	TimeoutMS    int
	RPS          int
	Burst        int
	SkipFailures bool
}

// DefaultInvalidPatterns rejects decorative or low-information danmaku:
// bracket-only emote spam, punctuation-only, "6"-spam, bare ASCII
// alphanumerics, and a handful of known copypasta phrases.
var DefaultInvalidPatterns = []string{
	`加强`,
	`开.*?门|门.*?开`,
	`^(\[[^\]]*\])+$`,
	`^\s*$`,
	`表情【`,
	`记忆是梦的开场白`,
	`与.*共舞`,
	`^[\p{P}]+$`,
	`^6+$`,
	`^[a-zA-Z0-9]+$`,
	`来了`,
}

const (
	defaultOutputDir     = "output"
	defaultPosThreshold  = 0.65
	defaultNegThreshold  = 0.35
	defaultBucketWidth   = 30
	defaultGiftDivisor   = 100
	defaultSuperchatName = "醒目留言"
	defaultTopCommenters = 20
	defaultTopGifters    = 20
	defaultTopNegative   = 5
	defaultTopNeutral    = 3
	defaultScoreTimeout  = 10000
	defaultScoreRPS      = 50
	defaultScoreBurst    = 100
)

func Load() (Config, error) {
	cfg := Config{
		InputPath:         strings.TrimSpace(os.Getenv("DMK_INPUT")),
		OutputDir:         strings.TrimSpace(os.Getenv("DMK_OUTPUT_DIR")),
		InvalidPatterns:   append([]string(nil), DefaultInvalidPatterns...),
		PositiveThreshold: readFloat("DMK_POSITIVE_THRESHOLD", defaultPosThreshold),
		NegativeThreshold: readFloat("DMK_NEGATIVE_THRESHOLD", defaultNegThreshold),
		BucketStart:       readFloat("DMK_BUCKET_START", 0),
		BucketWidth:       readFloat("DMK_BUCKET_WIDTH", defaultBucketWidth),
		GiftDivisor:       readFloat("DMK_GIFT_DIVISOR", defaultGiftDivisor),
		SuperchatName:     envOr("DMK_SUPERCHAT_NAME", defaultSuperchatName),
		TopCommenters:     readInt("DMK_TOP_COMMENTERS", defaultTopCommenters),
		TopGifters:        readInt("DMK_TOP_GIFTERS", defaultTopGifters),
		TopNegative:       readInt("DMK_TOP_NEGATIVE", defaultTopNegative),
		TopNeutral:        readInt("DMK_TOP_NEUTRAL", defaultTopNeutral),
		Sentiment: SentimentConfig{
			URL:          strings.TrimSpace(os.Getenv("DMK_SENTIMENT_URL")),
			TimeoutMS:    readInt("DMK_SENTIMENT_TIMEOUT_MS", defaultScoreTimeout),
			RPS:          readInt("DMK_SENTIMENT_RPS", defaultScoreRPS),
			Burst:        readInt("DMK_SENTIMENT_BURST", defaultScoreBurst),
			SkipFailures: readBool("DMK_SENTIMENT_SKIP_FAILURES", false),
		},
		SQLitePath:  strings.TrimSpace(os.Getenv("DMK_SQLITE_PATH")),
		MetricsAddr: strings.TrimSpace(os.Getenv("DMK_METRICS_ADDR")),
		Watch:       readBool("DMK_WATCH", false),
		DebugDump:   readBool("DMK_DEBUG_DUMP", false),
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}

	if path := strings.TrimSpace(os.Getenv("DMK_PATTERNS_FILE")); path != "" {
		patterns, err := LoadPatterns(path)
		if err != nil {
			return Config{}, err
		}
		cfg.InvalidPatterns = patterns
	}

	return cfg, nil
}

// LoadPatterns reads a JSON array of regular expressions replacing the
// built-in invalidity list.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read patterns file")
	}
	var patterns []string
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, errors.Wrapf(err, "parse patterns file %s", path)
	}
	if len(patterns) == 0 {
		return nil, errors.Errorf("patterns file %s is empty", path)
	}
	return patterns, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path is required")
	}
	if c.BucketStart <= 0 {
		return errors.New("bucket start timestamp is required (it is specific to the analyzed stream)")
	}
	if c.BucketWidth <= 0 {
		return errors.New("bucket width must be positive")
	}
	if c.GiftDivisor <= 0 {
		return errors.New("gift divisor must be positive")
	}
	if c.NegativeThreshold > c.PositiveThreshold {
		return errors.Errorf("negative threshold %v exceeds positive threshold %v",
			c.NegativeThreshold, c.PositiveThreshold)
	}
	return nil
}

func (c SentimentConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return defaultScoreTimeout * time.Millisecond
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Summary is the loggable view of the effective configuration.
func (c Config) Summary() map[string]any {
	return map[string]any{
		"input":      c.InputPath,
		"output_dir": c.OutputDir,
		"patterns":   len(c.InvalidPatterns),
		"thresholds": map[string]float64{
			"positive": c.PositiveThreshold,
			"negative": c.NegativeThreshold,
		},
		"bucket": map[string]float64{
			"start": c.BucketStart,
			"width": c.BucketWidth,
		},
		"superchat_name": c.SuperchatName,
		"top_n": map[string]int{
			"commenters": c.TopCommenters,
			"gifters":    c.TopGifters,
			"negative":   c.TopNegative,
			"neutral":    c.TopNeutral,
		},
		"sentiment": map[string]any{
			"url":           c.Sentiment.URL,
			"timeout_ms":    c.Sentiment.TimeoutMS,
			"rps":           c.Sentiment.RPS,
			"skip_failures": c.Sentiment.SkipFailures,
		},
		"sqlite_path":  c.SQLitePath,
		"metrics_addr": c.MetricsAddr,
		"watch":        c.Watch,
		"debug_dump":   c.DebugDump,
	}
}

func (c Config) SummaryJSON() []byte {
	data, _ := json.Marshal(c.Summary())
	return data
}

func envOr(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func readInt(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func readFloat(name string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

func readBool(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
