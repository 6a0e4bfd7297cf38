package brain

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/knowledge"
)

// Correct applies reviewer feedback: the stored answer for the question is
// replaced and its confidence raised to the manual-verification override, so
// it outranks anything reinforcement can produce. Returns false when no
// stored answer matches the question.
func (b *Brain) Correct(question, correctedAnswer string) (bool, error) {
	question = strings.TrimSpace(question)
	correctedAnswer = strings.TrimSpace(correctedAnswer)
	if question == "" || correctedAnswer == "" {
		return false, fmt.Errorf("brain: correction requires a question and an answer")
	}

	existing := b.store.GetQA(question)
	if existing == nil {
		return false, nil
	}

	found, err := b.store.UpdateAnswer(question, correctedAnswer, knowledge.CorrectionConfidence)
	if err != nil {
		return false, fmt.Errorf("brain: apply correction: %w", err)
	}

	old := existing.Answer + "\n"
	edits := myers.ComputeEdits(span.URIFromPath("answer"), old, correctedAnswer+"\n")
	diff := fmt.Sprint(gotextdiff.ToUnified("stored", "corrected", old, edits))
	b.log.Info("answer corrected by reviewer",
		zap.String("question", question),
		zap.String("diff", diff))

	return found, nil
}
