package brain

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/knowledge"
	"github.com/jeanpaul/jarvis/internal/memory"
	"github.com/jeanpaul/jarvis/internal/provider"
	"github.com/jeanpaul/jarvis/internal/search"
)

const (
	// NoAnswerSentinel is the terminal fallback when every retrieval and
	// generation path came up empty.
	NoAnswerSentinel = "[No answer available]"
	// FallbackSummaryMarker prefixes an answer produced by the secondary
	// topic-summary generation attempt.
	FallbackSummaryMarker = "[Fallback summary]"
	// LearnedSuffix is appended to answers that taught the store something.
	LearnedSuffix = "[Learned Memory]"

	// maxWebFacts caps how many filtered search lines feed the store and the
	// prompt per query.
	maxWebFacts = 3
)

// invalidMarkers flag an answer as non-knowledge: sentinels and fallback
// wrappers must never be persisted as learned answers.
var invalidMarkers = []string{
	NoAnswerSentinel,
	"[Web search failed",
	"[No relevant news found]",
	"[No web access",
}

// Brain orchestrates one query end to end: gather web facts and prior
// knowledge, compose an enriched prompt, generate, validate, and persist what
// was learned.
type Brain struct {
	store     *knowledge.Store
	mem       *memory.Manager
	agg       *search.Aggregator
	gen       provider.Generator
	history   *History
	threshold float64
	log       *zap.Logger
}

// Response carries the answer together with the retrieval stage that fed it
// and whether the store learned anything this cycle.
type Response struct {
	Answer  string
	Source  search.Kind
	Learned bool
}

func New(store *knowledge.Store, mem *memory.Manager, agg *search.Aggregator, gen provider.Generator, similarityThreshold float64, historySize int, log *zap.Logger) *Brain {
	if similarityThreshold <= 0 {
		similarityThreshold = knowledge.DefaultSimilarityThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Brain{
		store:     store,
		mem:       mem,
		agg:       agg,
		gen:       gen,
		history:   NewHistory(historySize),
		threshold: similarityThreshold,
		log:       log,
	}
}

// Ask answers a question. All retrieval failures degrade to sentinel text;
// the only errors returned are persistence failures.
func (b *Brain) Ask(ctx context.Context, prompt string) (Response, error) {
	prompt = strings.TrimSpace(prompt)
	keywords := search.ExtractKeywords(prompt)
	b.history.Push(prompt)

	learned := false

	// gather
	searchText, src := b.agg.Search(ctx, prompt)
	facts := filterFactLines(searchText, keywords)
	if len(facts) > 0 {
		ok, err := b.store.AddFacts(prompt, facts, src.String())
		if err != nil {
			return Response{}, fmt.Errorf("brain: persist facts: %w", err)
		}
		if ok {
			learned = true
		}
	}

	var conflictNotice string
	if c := b.store.ResolveConflict(prompt); c != nil {
		conflictNotice = fmt.Sprintf("[Conflict] %d competing facts for %q; majority view: %s",
			c.Contenders, c.Topic, c.Majority.Text)
		b.log.Info("conflicting facts detected",
			zap.String("topic", c.Topic),
			zap.Int("contenders", c.Contenders),
			zap.String("majority", c.Majority.Text))
	}

	similar := b.store.FindSimilarQuestion(prompt, b.threshold)
	if similar != nil {
		learned = true
	}

	// compose
	enriched := b.compose(prompt, facts, conflictNotice, similar)

	// generate
	answer, err := b.gen.Generate(ctx, enriched)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			b.log.Debug("generation failed, degrading", zap.Error(err))
		}
		switch {
		case similar != nil:
			answer = similar.Answer
		case len(facts) > 0:
			answer = strings.Join(facts, "\n")
		default:
			answer = NoAnswerSentinel
		}
	}
	if answer == NoAnswerSentinel {
		if summary, serr := b.gen.Generate(ctx, "Give a brief summary of: "+prompt); serr == nil {
			answer = FallbackSummaryMarker + " " + summary
		}
	}

	// validate
	valid := isValid(answer, keywords)

	// persist
	b.history.SetAnswer(answer)
	if err := b.mem.RecordExchange(prompt, answer, learned); err != nil {
		return Response{}, fmt.Errorf("brain: persist session memory: %w", err)
	}
	if valid {
		if similar != nil && len(answer) > len(similar.Answer) {
			// Strictly longer answer to a known question counts as an
			// improvement and replaces the stored one.
			if _, err := b.store.UpdateAnswer(similar.Question, answer, 0); err != nil {
				return Response{}, fmt.Errorf("brain: update answer: %w", err)
			}
			learned = true
		} else if similar == nil {
			ok, err := b.store.AddQA(prompt, answer, src.String())
			if err != nil {
				return Response{}, fmt.Errorf("brain: persist qa: %w", err)
			}
			if ok {
				learned = true
			}
		}
	}
	if err := b.store.Deduplicate(); err != nil {
		return Response{}, fmt.Errorf("brain: deduplicate: %w", err)
	}

	// done
	if learned {
		answer += "\n" + LearnedSuffix
	}
	return Response{Answer: answer, Source: src, Learned: learned}, nil
}

// filterFactLines keeps search lines that look like real facts: non-empty,
// not bracket-prefixed placeholders, and sharing enough keywords with the
// query. Capped at maxWebFacts.
func filterFactLines(text string, keywords []string) []string {
	var facts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		if search.KeywordOverlap(line, keywords) < 0.3 {
			continue
		}
		facts = append(facts, line)
		if len(facts) == maxWebFacts {
			break
		}
	}
	return facts
}

// compose assembles the enriched prompt: prior turns, web facts (with any
// conflict notice), the closest past answer, then the literal question.
// Sections are joined by blank lines in that fixed order.
func (b *Brain) compose(prompt string, facts []string, conflictNotice string, similar *knowledge.QAEntry) string {
	var parts []string

	if turns := b.history.Context(); len(turns) > 0 {
		var sb strings.Builder
		sb.WriteString("Recent conversation:")
		for _, t := range turns {
			sb.WriteString("\nUser: " + t.Question)
			sb.WriteString("\nAssistant: " + t.Answer)
		}
		parts = append(parts, sb.String())
	}

	if len(facts) > 0 || conflictNotice != "" {
		var sb strings.Builder
		sb.WriteString("Web facts:")
		if conflictNotice != "" {
			sb.WriteString("\n" + conflictNotice)
		}
		for _, f := range facts {
			sb.WriteString("\n" + f)
		}
		parts = append(parts, sb.String())
	}

	if similar != nil {
		parts = append(parts, "Past answer:\n"+similar.Answer)
	}

	parts = append(parts, "User asked: "+prompt)
	return strings.Join(parts, "\n\n")
}

// isValid decides whether an answer may be persisted as learned knowledge.
// Invalid answers are still returned to the caller.
func isValid(answer string, keywords []string) bool {
	for _, m := range invalidMarkers {
		if strings.Contains(answer, m) {
			return false
		}
	}
	return search.ContainsKeyword(answer, keywords)
}
