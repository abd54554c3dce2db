package stats

import (
	"math"
	"time"

	"github.com/you/danmaku-report/internal/core"
)

// Trend partitions comment and gift events into fixed-width windows anchored
// at a per-stream start timestamp. Buckets are stored sparsely and densified
// when rows are materialized, so map iteration order never reaches output.
type Trend struct {
	start float64
	width float64

	buckets map[int]*bucket
	maxTs   float64
	seen    bool
}

type bucket struct {
	comments  int
	positive  int
	neutral   int
	negative  int
	giftValue float64
}

// TrendRow is one emitted window. Cumulative fields carry the running totals
// through the end of this window; gift values are already divided down to
// major currency units.
type TrendRow struct {
	Label        string
	Comments     int
	Positive     int
	Neutral      int
	Negative     int
	CumComments  int
	GiftValue    float64
	CumGiftValue float64
}

func NewTrend(start, width float64) *Trend {
	return &Trend{start: start, width: width, buckets: make(map[int]*bucket)}
}

// index returns the window for ts, or -1 for events before the start.
func (t *Trend) index(ts float64) int {
	if ts < t.start {
		return -1
	}
	return int((ts - t.start) / t.width)
}

func (t *Trend) at(idx int) *bucket {
	b, ok := t.buckets[idx]
	if !ok {
		b = &bucket{}
		t.buckets[idx] = b
	}
	return b
}

func (t *Trend) observe(ts float64) {
	if !t.seen || ts > t.maxTs {
		t.maxTs = ts
		t.seen = true
	}
}

// AddComment counts a raw comment, noise included.
func (t *Trend) AddComment(ts float64) {
	t.observe(ts)
	if idx := t.index(ts); idx >= 0 {
		t.at(idx).comments++
	}
}

// AddClassified counts an effective comment's sentiment in its window.
// The raw count for the same comment was already taken by AddComment.
func (t *Trend) AddClassified(c core.Classified) {
	if idx := t.index(c.Ts); idx >= 0 {
		b := t.at(idx)
		switch c.Category {
		case core.Positive:
			b.positive++
		case core.Negative:
			b.negative++
		default:
			b.neutral++
		}
	}
}

func (t *Trend) AddGift(ts, value float64) {
	t.observe(ts)
	if idx := t.index(ts); idx >= 0 {
		t.at(idx).giftValue += value
	}
}

// Rows densifies the buckets into the emitted series: a synthetic zero row
// labeled with the raw start time, then every window from index 0 through
// the last populated index plus one trailing window. With no events at all
// the series still covers the start timestamp itself.
func (t *Trend) Rows(divisor float64) []TrendRow {
	end := t.maxTs
	if !t.seen || end < t.start {
		end = t.start
	}
	maxIdx := int((end - t.start) / t.width)

	rows := make([]TrendRow, 0, maxIdx+3)
	rows = append(rows, TrendRow{Label: t.label(t.start)})

	cumComments := 0
	cumGift := 0.0
	for i := 0; i <= maxIdx+1; i++ {
		b := t.buckets[i]
		if b == nil {
			b = &bucket{}
		}
		cumComments += b.comments
		cumGift += b.giftValue
		rows = append(rows, TrendRow{
			Label:        t.label(t.start + float64(i+1)*t.width),
			Comments:     b.comments,
			Positive:     b.positive,
			Neutral:      b.neutral,
			Negative:     b.negative,
			CumComments:  cumComments,
			GiftValue:    round2(b.giftValue / divisor),
			CumGiftValue: round2(cumGift / divisor),
		})
	}
	return rows
}

func (t *Trend) label(ts float64) string {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).Format("15:04:05")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
