package sentiment

import (
	"context"
	"fmt"
	"testing"

	"github.com/you/danmaku-report/internal/core"
)

var testOpts = Options{PositiveThreshold: 0.65, NegativeThreshold: 0.35}

func comments(texts ...string) []core.Comment {
	out := make([]core.Comment, len(texts))
	for i, txt := range texts {
		out[i] = core.Comment{Text: txt, UID: fmt.Sprintf("u%d", i)}
	}
	return out
}

func TestClassifyPreservesOrder(t *testing.T) {
	scores := map[string]float64{"a": 0.9, "b": 0.1, "c": 0.5}
	scorer := Func(func(_ context.Context, text string) (float64, error) {
		return scores[text], nil
	})

	res, err := Classify(context.Background(), scorer, comments("a", "b", "c"), testOpts)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(res.Classified) != 3 {
		t.Fatalf("len: got %d", len(res.Classified))
	}
	wantCats := []core.Category{core.Positive, core.Negative, core.Neutral}
	for i, c := range res.Classified {
		if c.Text != []string{"a", "b", "c"}[i] {
			t.Fatalf("order broken at %d: %q", i, c.Text)
		}
		if c.Category != wantCats[i] {
			t.Fatalf("category at %d: got %v want %v", i, c.Category, wantCats[i])
		}
	}
}

func TestClassifyFailureIsFatalByDefault(t *testing.T) {
	scorer := Func(func(_ context.Context, text string) (float64, error) {
		if text == "b" {
			return 0, fmt.Errorf("model unavailable")
		}
		return 0.5, nil
	})
	if _, err := Classify(context.Background(), scorer, comments("a", "b", "c"), testOpts); err == nil {
		t.Fatal("expected fatal classification error")
	}
}

func TestClassifySkipFailures(t *testing.T) {
	scorer := Func(func(_ context.Context, text string) (float64, error) {
		if text == "b" {
			return 0, fmt.Errorf("model unavailable")
		}
		return 0.5, nil
	})
	opts := testOpts
	opts.SkipFailures = true
	res, err := Classify(context.Background(), scorer, comments("a", "b", "c"), opts)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Skipped != 1 || len(res.Classified) != 2 {
		t.Fatalf("skip bookkeeping: skipped=%d classified=%d", res.Skipped, len(res.Classified))
	}
}

func TestClassifyHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scorer := Func(func(context.Context, string) (float64, error) { return 0.5, nil })
	if _, err := Classify(ctx, scorer, comments("a"), testOpts); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestNeutralScorer(t *testing.T) {
	score, err := Neutral.Score(context.Background(), "anything")
	if err != nil || score != 0.5 {
		t.Fatalf("neutral: score=%v err=%v", score, err)
	}
}
