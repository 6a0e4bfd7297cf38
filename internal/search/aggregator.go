package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/provider"
)

const (
	// NoWebAccessMarker flags generative fallback text so downstream logic
	// can tell it apart from real web results.
	NoWebAccessMarker = "[No web access - assistant fallback]"

	// minCombinedLen discards candidates too short to carry a usable fact.
	minCombinedLen = 30
	// minOverlap is the keyword-overlap cutoff for keeping a candidate.
	minOverlap = 0.3
	// topN caps how many candidates make it into the combined answer.
	topN = 3
)

// Aggregator walks the ranked source chain: primary search, secondary search,
// then the generative backend. Each stage is tried at most once; failures and
// empty results both fall through to the next stage.
type Aggregator struct {
	primary    Source
	secondary  Source
	gen        provider.Generator
	timeout    time.Duration
	genTimeout time.Duration
	log        *zap.Logger
}

func NewAggregator(primary, secondary Source, gen provider.Generator, timeout time.Duration, log *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		primary:    primary,
		secondary:  secondary,
		gen:        gen,
		timeout:    timeout,
		genTimeout: 2 * timeout,
		log:        log,
	}
}

// Search returns relevant snippets for the query and the stage that produced
// them. It never fails: when everything is down the result is the
// no-web-access marker tagged as generative.
func (a *Aggregator) Search(ctx context.Context, query string) (string, Kind) {
	keywords := ExtractKeywords(query)

	if text := a.collect(ctx, a.primary, query, keywords); text != "" {
		return text, KindPrimary
	}
	if text := a.collect(ctx, a.secondary, query, keywords); text != "" {
		return text, KindSecondary
	}

	genCtx, cancel := context.WithTimeout(ctx, a.genTimeout)
	defer cancel()
	text, err := a.gen.Generate(genCtx, "Explain this in detail: "+query)
	if err != nil {
		a.log.Debug("generative fallback failed", zap.Error(err))
		return NoWebAccessMarker, KindGenerative
	}
	return NoWebAccessMarker + " " + text, KindGenerative
}

type candidate struct {
	score float64
	text  string
}

// collect queries one source and applies relevance filtering and scoring.
// Returns the top candidates joined by newlines, or "" when the stage yields
// nothing usable. Source errors are swallowed here; they only mean "move on".
func (a *Aggregator) collect(ctx context.Context, src Source, query string, keywords []string) string {
	if src == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results, err := src.Query(ctx, query)
	if err != nil {
		a.log.Debug("search source failed", zap.String("source", src.Name()), zap.Error(err))
		return ""
	}

	var kept []candidate
	for _, r := range results {
		var parts []string
		if r.Title != "" {
			parts = append(parts, r.Title)
		}
		if r.Snippet != "" {
			parts = append(parts, r.Snippet)
		}
		if len(parts) == 0 {
			continue
		}
		combined := strings.Join(parts, " - ")
		if len(combined) < minCombinedLen {
			continue
		}
		overlap := KeywordOverlap(combined, keywords)
		if len(keywords) > 0 && overlap < minOverlap && !domainRelevant(r.URL, keywords) {
			continue
		}
		kept = append(kept, candidate{
			score: overlap + domainScore(r.URL),
			text:  combined,
		})
	}
	if len(kept) == 0 {
		return ""
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if len(kept) > topN {
		kept = kept[:topN]
	}

	lines := make([]string, len(kept))
	for i, c := range kept {
		lines[i] = c.text
	}
	a.log.Debug("search stage produced results",
		zap.String("source", src.Name()),
		zap.Int("kept", len(kept)))
	return strings.Join(lines, "\n")
}
