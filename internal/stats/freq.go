package stats

import (
	"fmt"
	"sort"
	"strings"
)

// FormatFreq compresses a message or gift list into "value(xN)" entries,
// most frequent first. Equal counts keep first-occurrence order so the
// output is stable across runs.
func FormatFreq(items []string) string {
	if len(items) == 0 {
		return ""
	}
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := counts[it]; !seen {
			order = append(order, it)
		}
		counts[it]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = fmt.Sprintf("%s(x%d)", v, counts[v])
	}
	return strings.Join(parts, " | ")
}
