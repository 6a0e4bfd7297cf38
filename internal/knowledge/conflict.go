package knowledge

// Conflict describes the outcome of majority resolution for a topic that holds
// more than one distinct fact text.
type Conflict struct {
	Topic    string
	Majority Fact
	// Contenders is the number of distinct fact texts competing for the topic.
	Contenders int
}

// ResolveConflict inspects all facts stored under a topic. When more than one
// distinct text exists, the majority text is selected by summed confidence
// across entries sharing that text, tie-broken by raw occurrence count, then
// by insertion order. Returns nil when zero or one distinct text exists.
//
// Resolution never removes or blocks the losing facts; they stay stored as
// evidence. Callers surface the majority as a flagged notice.
func (s *Store) ResolveConflict(topic string) *Conflict {
	facts := s.GetFacts(topic)
	if len(facts) < 2 {
		return nil
	}

	type tally struct {
		confidence  float64
		occurrences int
		first       Fact
		order       int
	}
	groups := map[string]*tally{}
	order := []string{}
	for i, f := range facts {
		key := normalize(f.Text)
		g, ok := groups[key]
		if !ok {
			g = &tally{first: f, order: i}
			groups[key] = g
			order = append(order, key)
		}
		g.confidence += f.Confidence
		g.occurrences += f.OccurrenceCount
	}
	if len(groups) < 2 {
		return nil
	}

	var winner *tally
	for _, key := range order {
		g := groups[key]
		if winner == nil {
			winner = g
			continue
		}
		if g.confidence > winner.confidence ||
			(g.confidence == winner.confidence && g.occurrences > winner.occurrences) {
			winner = g
		}
	}

	return &Conflict{
		Topic:      topic,
		Majority:   winner.first,
		Contenders: len(groups),
	}
}
