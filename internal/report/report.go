package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/you/danmaku-report/internal/core"
	"github.com/you/danmaku-report/internal/stats"
)

// Table is one finished report: a name (file stem), a header row and data
// rows, all pre-rendered as strings so every emitter writes byte-identical
// content for the same run.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Emitter renders tables to some destination. Emit is called once per table
// in report order; Close flushes whatever the destination needs.
type Emitter interface {
	Emit(Table) error
	Close() error
}

// BuildInput carries everything the eight reports are derived from.
type BuildInput struct {
	TotalComments int
	Users         *stats.UserStats
	Gifts         *stats.GiftStats
	Classified    []core.Classified
	Trend         *stats.Trend
	GiftDivisor   float64

	TopCommenters int
	TopGifters    int
	TopNegative   int
	TopNeutral    int
}

// Build materializes all report tables in their fixed order.
func Build(in BuildInput) []Table {
	return []Table{
		buildOverview(in),
		buildTopCommenters(in),
		buildTopGifters(in),
		buildSuperchats(in),
		buildEffectiveCount(in),
		buildSentimentOverview(in),
		buildSentimentUsers(in),
		buildTrend(in),
	}
}

func buildOverview(in BuildInput) Table {
	return Table{
		Name: "1_overview",
		Headers: []string{
			"total_comments", "distinct_commenters",
			"gift_value_ex_sc", "distinct_gifters",
			"superchat_value", "superchat_count",
		},
		Rows: [][]string{{
			strconv.Itoa(in.TotalComments),
			strconv.Itoa(in.Users.Distinct()),
			money(in.Gifts.OrdinaryValue),
			strconv.Itoa(in.Gifts.DistinctOrdinarySenders()),
			money(in.Gifts.SuperchatValue),
			strconv.Itoa(in.Gifts.SuperchatCount),
		}},
	}
}

func buildTopCommenters(in BuildInput) Table {
	t := Table{
		Name:    "2_top_commenters",
		Headers: []string{"uid", "user", "count", "messages"},
	}
	for _, r := range in.Users.TopByCount(in.TopCommenters) {
		t.Rows = append(t.Rows, []string{
			r.UID, r.Name, strconv.Itoa(len(r.Msgs)), stats.FormatFreq(r.Msgs),
		})
	}
	return t
}

func buildTopGifters(in BuildInput) Table {
	t := Table{
		Name:    "3_top_gifters",
		Headers: []string{"uid", "user", "total_value", "gifts"},
	}
	for _, r := range in.Gifts.TopByValue(in.TopGifters) {
		t.Rows = append(t.Rows, []string{
			r.UID, r.Name, money(r.TotalValue), stats.FormatFreq(r.Gifts),
		})
	}
	return t
}

func buildSuperchats(in BuildInput) Table {
	t := Table{
		Name:    "4_superchats",
		Headers: []string{"uid", "user", "price", "message"},
	}
	// Ledger rows carry the unit price, not the line total.
	for _, sc := range in.Gifts.SuperchatLedger() {
		t.Rows = append(t.Rows, []string{sc.UID, sc.User, money(sc.Price), sc.Text})
	}
	return t
}

func buildEffectiveCount(in BuildInput) Table {
	return Table{
		Name:    "5_effective_count",
		Headers: []string{"effective_comments"},
		Rows:    [][]string{{strconv.Itoa(len(in.Classified))}},
	}
}

func buildSentimentOverview(in BuildInput) Table {
	var pos, neg, neu int
	var sum float64
	for _, c := range in.Classified {
		sum += c.Score
		switch c.Category {
		case core.Positive:
			pos++
		case core.Negative:
			neg++
		default:
			neu++
		}
	}
	mean := 0.0
	if len(in.Classified) > 0 {
		mean = sum / float64(len(in.Classified))
	}
	return Table{
		Name:    "6_sentiment_overview",
		Headers: []string{"positive", "negative", "neutral", "mean_score"},
		Rows: [][]string{{
			strconv.Itoa(pos), strconv.Itoa(neg), strconv.Itoa(neu),
			fmt.Sprintf("%.4f", mean),
		}},
	}
}

func buildSentimentUsers(in BuildInput) Table {
	t := Table{
		Name:    "7_sentiment_users",
		Headers: []string{"board", "uid", "user", "count", "messages"},
	}
	appendBoard := func(board string, cat core.Category, n int) {
		for _, e := range topByCategory(in.Classified, cat, n) {
			name := ""
			msgs := []string(nil)
			if r := in.Users.Rollup(e.uid); r != nil {
				name = r.Name
				msgs = r.Msgs
			}
			t.Rows = append(t.Rows, []string{
				board, e.uid, name, strconv.Itoa(e.count), stats.FormatFreq(msgs),
			})
		}
	}
	appendBoard("top_negative", core.Negative, in.TopNegative)
	appendBoard("top_neutral", core.Neutral, in.TopNeutral)
	return t
}

type categoryEntry struct {
	uid   string
	count int
}

func topByCategory(classified []core.Classified, cat core.Category, n int) []categoryEntry {
	counts := make(map[string]int)
	var order []string
	for _, c := range classified {
		if c.Category != cat {
			continue
		}
		if _, seen := counts[c.UID]; !seen {
			order = append(order, c.UID)
		}
		counts[c.UID]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	entries := make([]categoryEntry, len(order))
	for i, uid := range order {
		entries[i] = categoryEntry{uid: uid, count: counts[uid]}
	}
	return entries
}

func buildTrend(in BuildInput) Table {
	t := Table{
		Name: "8_trend",
		Headers: []string{
			"time", "comments", "positive", "neutral", "negative",
			"cum_comments", "gift_value", "cum_gift_value",
		},
	}
	for _, r := range in.Trend.Rows(in.GiftDivisor) {
		t.Rows = append(t.Rows, []string{
			r.Label,
			strconv.Itoa(r.Comments),
			strconv.Itoa(r.Positive),
			strconv.Itoa(r.Neutral),
			strconv.Itoa(r.Negative),
			strconv.Itoa(r.CumComments),
			money(r.GiftValue),
			money(r.CumGiftValue),
		})
	}
	return t
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
