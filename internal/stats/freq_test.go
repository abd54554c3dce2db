package stats

import "testing"

func TestFormatFreqOrdersByCount(t *testing.T) {
	got := FormatFreq([]string{"a", "b", "b", "c", "b", "c"})
	want := "b(x3) | c(x2) | a(x1)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatFreqTiesKeepFirstOccurrence(t *testing.T) {
	got := FormatFreq([]string{"z", "a", "z", "a"})
	want := "z(x2) | a(x2)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatFreqEmpty(t *testing.T) {
	if got := FormatFreq(nil); got != "" {
		t.Fatalf("got %q want empty", got)
	}
}
