package stats

import (
	"sort"

	"github.com/you/danmaku-report/internal/core"
)

// UserRollup accumulates every comment a user sent, effective or not.
// Name tracks the last display name seen for the UID.
type UserRollup struct {
	UID  string
	Name string
	Msgs []string
}

// UserStats folds comments into per-UID rollups. First-seen UID order is
// retained so equal-count Top-N ties resolve deterministically.
type UserStats struct {
	order []string
	byUID map[string]*UserRollup
}

func NewUserStats() *UserStats {
	return &UserStats{byUID: make(map[string]*UserRollup)}
}

func (s *UserStats) AddComment(c core.Comment) {
	r, ok := s.byUID[c.UID]
	if !ok {
		r = &UserRollup{UID: c.UID}
		s.byUID[c.UID] = r
		s.order = append(s.order, c.UID)
	}
	r.Name = c.User
	r.Msgs = append(r.Msgs, c.Text)
}

func (s *UserStats) Distinct() int { return len(s.order) }

// Rollup returns the rollup for uid, or nil if the user never commented.
func (s *UserStats) Rollup(uid string) *UserRollup {
	return s.byUID[uid]
}

// TopByCount returns at most n rollups ordered by message count descending,
// ties broken by first-seen order.
func (s *UserStats) TopByCount(n int) []*UserRollup {
	ranked := make([]*UserRollup, 0, len(s.order))
	for _, uid := range s.order {
		ranked = append(ranked, s.byUID[uid])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Msgs) > len(ranked[j].Msgs)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
