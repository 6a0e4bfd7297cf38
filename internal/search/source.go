package search

import "context"

// Result is a single candidate from a search source.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Source is a queryable search backend. Implementations may return zero
// results or an error; the aggregator treats both the same way.
type Source interface {
	Name() string
	Query(ctx context.Context, query string) ([]Result, error)
}

// Kind identifies which stage of the fallback chain produced a search answer.
type Kind int

const (
	KindNone Kind = iota
	KindPrimary
	KindSecondary
	KindGenerative
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "duckduckgo"
	case KindSecondary:
		return "bing"
	case KindGenerative:
		return "ollama"
	default:
		return "none"
	}
}
