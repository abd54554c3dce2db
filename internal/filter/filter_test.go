package filter

import (
	"testing"

	"github.com/you/danmaku-report/internal/config"
)

func defaultFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := New(config.DefaultInvalidPatterns)
	if err != nil {
		t.Fatalf("compile defaults: %v", err)
	}
	return f
}

func TestEffectiveRejectsNoise(t *testing.T) {
	f := defaultFilter(t)
	noise := []string{
		"",
		"   ",
		"666666",
		"6",
		"!!!???",
		"。。。",
		"[妙][妙][妙]",
		"hello123",
		"gg",
		"主播来了",
		"加强一下",
		"开门|大门开了",
	}
	for _, text := range noise {
		if f.Effective(text) {
			t.Fatalf("%q should be noise", text)
		}
	}
}

func TestEffectiveAcceptsRealComments(t *testing.T) {
	f := defaultFilter(t)
	real := []string{
		"这个很棒棒",
		"今天的演出太精彩了",
		"为什么不换个打法？",
	}
	for _, text := range real {
		if !f.Effective(text) {
			t.Fatalf("%q should be effective", text)
		}
	}
}

func TestCustomPatternList(t *testing.T) {
	f, err := New([]string{`^spam$`})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if f.Effective("spam") {
		t.Fatal("custom pattern should reject")
	}
	if !f.Effective("666666") {
		t.Fatal("default patterns must not apply when replaced")
	}
}

func TestBadPatternFailsConstruction(t *testing.T) {
	if _, err := New([]string{`([`}); err == nil {
		t.Fatal("expected compile error")
	}
}
