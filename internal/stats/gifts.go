package stats

import (
	"fmt"
	"sort"

	"github.com/you/danmaku-report/internal/core"
)

// GiftRollup accumulates a user's ordinary (non-superchat) gifts.
type GiftRollup struct {
	UID        string
	Name       string
	TotalValue float64
	Gifts      []string // "name xN" descriptions in receive order
}

// GiftStats splits the gift stream into the superchat ledger and ordinary
// gift rollups. A gift is a superchat iff its name equals superchatName;
// superchats never contribute to ordinary totals and vice versa.
type GiftStats struct {
	superchatName string

	SuperchatValue float64
	SuperchatCount int
	OrdinaryValue  float64

	ordinarySenders map[string]struct{}
	superchats      []core.Gift

	order []string
	byUID map[string]*GiftRollup
}

func NewGiftStats(superchatName string) *GiftStats {
	return &GiftStats{
		superchatName:   superchatName,
		ordinarySenders: make(map[string]struct{}),
		byUID:           make(map[string]*GiftRollup),
	}
}

func (s *GiftStats) IsSuperchat(g core.Gift) bool { return g.GiftName == s.superchatName }

func (s *GiftStats) Add(g core.Gift) {
	if s.IsSuperchat(g) {
		s.SuperchatValue += g.Value()
		s.SuperchatCount++
		s.superchats = append(s.superchats, g)
		return
	}

	s.OrdinaryValue += g.Value()
	s.ordinarySenders[g.UID] = struct{}{}

	r, ok := s.byUID[g.UID]
	if !ok {
		r = &GiftRollup{UID: g.UID}
		s.byUID[g.UID] = r
		s.order = append(s.order, g.UID)
	}
	r.Name = g.User
	r.TotalValue += g.Value()
	r.Gifts = append(r.Gifts, fmt.Sprintf("%s x%d", g.GiftName, g.Num))
}

func (s *GiftStats) DistinctOrdinarySenders() int { return len(s.ordinarySenders) }

// TopByValue returns at most n ordinary-gift rollups by total value
// descending, ties broken by first-seen order.
func (s *GiftStats) TopByValue(n int) []*GiftRollup {
	ranked := make([]*GiftRollup, 0, len(s.order))
	for _, uid := range s.order {
		ranked = append(ranked, s.byUID[uid])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue > ranked[j].TotalValue
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// SuperchatLedger returns every superchat sorted by unit price descending,
// equal prices in arrival order.
func (s *GiftStats) SuperchatLedger() []core.Gift {
	ledger := append([]core.Gift(nil), s.superchats...)
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Price > ledger[j].Price
	})
	return ledger
}
