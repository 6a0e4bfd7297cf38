package brain

// Turn is one question/answer exchange in the short-term buffer.
type Turn struct {
	Question string
	Answer   string
}

// History is a bounded recency buffer of conversation turns. The newest turn
// is the in-progress one; the turns before it serve as prompt context.
type History struct {
	turns []Turn
	max   int
}

func NewHistory(max int) *History {
	if max < 1 {
		max = 5
	}
	return &History{max: max}
}

// Push starts a new turn for the question, discarding the oldest turn when
// the buffer is full.
func (h *History) Push(question string) {
	h.turns = append(h.turns, Turn{Question: question})
	if len(h.turns) > h.max {
		h.turns = h.turns[1:]
	}
}

// SetAnswer fills the answer slot of the in-progress turn.
func (h *History) SetAnswer(answer string) {
	if len(h.turns) == 0 {
		return
	}
	h.turns[len(h.turns)-1].Answer = answer
}

// Context returns the completed turns preceding the in-progress one, oldest
// first.
func (h *History) Context() []Turn {
	if len(h.turns) <= 1 {
		return nil
	}
	prior := h.turns[:len(h.turns)-1]
	out := make([]Turn, 0, len(prior))
	for _, t := range prior {
		if t.Answer != "" {
			out = append(out, t)
		}
	}
	return out
}

// Len reports how many turns are buffered.
func (h *History) Len() int {
	return len(h.turns)
}
