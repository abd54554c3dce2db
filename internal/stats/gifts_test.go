package stats

import (
	"testing"

	"github.com/you/danmaku-report/internal/core"
)

const scName = "醒目留言"

func TestGiftStatsSplitsSuperchats(t *testing.T) {
	s := NewGiftStats(scName)
	s.Add(core.Gift{UID: "1", User: "a", Price: 30, Num: 2, GiftName: scName, Text: "加油！"})
	s.Add(core.Gift{UID: "2", User: "b", Price: 5, Num: 10, GiftName: "小花花"})
	s.Add(core.Gift{UID: "2", User: "b", Price: 1, Num: 1, GiftName: "辣条"})

	if s.SuperchatValue != 60 || s.SuperchatCount != 1 {
		t.Fatalf("superchat: value=%v count=%d", s.SuperchatValue, s.SuperchatCount)
	}
	if s.OrdinaryValue != 51 {
		t.Fatalf("ordinary value: got %v", s.OrdinaryValue)
	}
	if s.DistinctOrdinarySenders() != 1 {
		t.Fatalf("ordinary senders: got %d", s.DistinctOrdinarySenders())
	}
	// No event double-counted or dropped.
	if s.SuperchatValue+s.OrdinaryValue != 111 {
		t.Fatalf("total split: got %v", s.SuperchatValue+s.OrdinaryValue)
	}
}

func TestSuperchatLedgerUnitPriceDescending(t *testing.T) {
	s := NewGiftStats(scName)
	s.Add(core.Gift{UID: "1", User: "a", Price: 30, Num: 2, GiftName: scName, Text: "first"})
	s.Add(core.Gift{UID: "2", User: "b", Price: 100, Num: 1, GiftName: scName, Text: "big"})
	s.Add(core.Gift{UID: "3", User: "c", Price: 30, Num: 1, GiftName: scName, Text: "second"})

	ledger := s.SuperchatLedger()
	if len(ledger) != 3 {
		t.Fatalf("ledger len: got %d", len(ledger))
	}
	if ledger[0].Price != 100 {
		t.Fatalf("highest unit price first: got %v", ledger[0].Price)
	}
	// Ties keep arrival order.
	if ledger[1].Text != "first" || ledger[2].Text != "second" {
		t.Fatalf("tie order: %q then %q", ledger[1].Text, ledger[2].Text)
	}
}

func TestTopByValueExcludesSuperchats(t *testing.T) {
	s := NewGiftStats(scName)
	s.Add(core.Gift{UID: "1", User: "a", Price: 1000, Num: 1, GiftName: scName})
	s.Add(core.Gift{UID: "2", User: "b", Price: 5, Num: 2, GiftName: "小花花"})

	top := s.TopByValue(10)
	if len(top) != 1 {
		t.Fatalf("top len: got %d", len(top))
	}
	if top[0].UID != "2" || top[0].TotalValue != 10 {
		t.Fatalf("top row: %+v", top[0])
	}
	if len(top[0].Gifts) != 1 || top[0].Gifts[0] != "小花花 x2" {
		t.Fatalf("gift descriptions: %v", top[0].Gifts)
	}
}
