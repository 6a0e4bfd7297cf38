package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeanpaul/jarvis/internal/knowledge"
	"github.com/jeanpaul/jarvis/internal/memory"
)

// Generate summarizes what the assistant currently knows: store sizes, the
// busiest topics, what was learned in the last day, and session counters.
func Generate(store *knowledge.Store, mem *memory.Manager) string {
	facts := store.Facts()
	qa := store.QA()
	if len(facts) == 0 && len(qa) == 0 {
		return "No knowledge recorded."
	}

	lines := []string{"Knowledge Report:"}
	lines = append(lines, fmt.Sprintf("Facts: %d", len(facts)))
	lines = append(lines, fmt.Sprintf("QA pairs: %d", len(qa)))

	type topicCount struct {
		topic string
		count int
	}
	byTopic := map[string]*topicCount{}
	var order []string
	for _, f := range facts {
		key := strings.ToLower(strings.TrimSpace(f.Topic))
		tc, ok := byTopic[key]
		if !ok {
			tc = &topicCount{topic: f.Topic}
			byTopic[key] = tc
			order = append(order, key)
		}
		tc.count++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return byTopic[order[i]].count > byTopic[order[j]].count
	})
	if len(order) > 0 {
		lines = append(lines, "Top topics:")
		limit := 5
		if len(order) < limit {
			limit = len(order)
		}
		for _, key := range order[:limit] {
			tc := byTopic[key]
			lines = append(lines, fmt.Sprintf("  %s: %d facts", tc.topic, tc.count))
		}
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	recent := 0
	for _, f := range facts {
		if f.FirstSeen.After(cutoff) {
			recent++
		}
	}
	lines = append(lines, fmt.Sprintf("Facts learned in last 24h: %d", recent))

	stats := mem.Counters()
	if stats.Queries > 0 {
		rate := float64(stats.Learned) / float64(stats.Queries) * 100
		lines = append(lines, fmt.Sprintf("Queries: %d, learned from %d (%.1f%%)",
			stats.Queries, stats.Learned, rate))
	}

	return strings.Join(lines, "\n")
}
