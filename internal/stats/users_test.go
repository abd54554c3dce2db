package stats

import (
	"testing"

	"github.com/you/danmaku-report/internal/core"
)

func TestUserStatsRollup(t *testing.T) {
	s := NewUserStats()
	s.AddComment(core.Comment{UID: "1", User: "old name", Text: "hi"})
	s.AddComment(core.Comment{UID: "1", User: "new name", Text: "there"})
	s.AddComment(core.Comment{UID: "2", User: "other", Text: "yo"})

	if s.Distinct() != 2 {
		t.Fatalf("distinct: got %d", s.Distinct())
	}
	r := s.Rollup("1")
	if r == nil {
		t.Fatal("missing rollup")
	}
	if r.Name != "new name" {
		t.Fatalf("last name should win: got %q", r.Name)
	}
	if len(r.Msgs) != 2 || r.Msgs[0] != "hi" {
		t.Fatalf("messages: %v", r.Msgs)
	}
	if s.Rollup("nope") != nil {
		t.Fatal("unknown uid should be nil")
	}
}

func TestTopByCountStableTies(t *testing.T) {
	s := NewUserStats()
	s.AddComment(core.Comment{UID: "b", User: "b", Text: "1"})
	s.AddComment(core.Comment{UID: "a", User: "a", Text: "1"})
	s.AddComment(core.Comment{UID: "c", User: "c", Text: "1"})
	s.AddComment(core.Comment{UID: "c", User: "c", Text: "2"})

	top := s.TopByCount(2)
	if len(top) != 2 {
		t.Fatalf("top len: got %d", len(top))
	}
	if top[0].UID != "c" {
		t.Fatalf("highest count first: got %q", top[0].UID)
	}
	// b and a tie on one message; b was seen first.
	if top[1].UID != "b" {
		t.Fatalf("tie should keep first-seen order: got %q", top[1].UID)
	}
}

func TestTopByCountNeverExceedsN(t *testing.T) {
	s := NewUserStats()
	for _, uid := range []string{"1", "2", "3"} {
		s.AddComment(core.Comment{UID: uid, User: uid, Text: "x"})
	}
	if got := len(s.TopByCount(2)); got != 2 {
		t.Fatalf("got %d rows", got)
	}
	if got := len(s.TopByCount(10)); got != 3 {
		t.Fatalf("got %d rows", got)
	}
}
