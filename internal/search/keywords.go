package search

import (
	"net/url"
	"regexp"
	"strings"
)

// Small stopword list for naive keyword filtering. Tokens of length <= 2 are
// dropped separately.
var stopwords = map[string]struct{}{
	"the": {}, "is": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {},
	"to": {}, "in": {}, "on": {}, "for": {}, "if": {}, "are": {}, "as": {},
	"with": {}, "was": {}, "were": {}, "by": {}, "at": {}, "be": {},
	"this": {}, "that": {}, "it": {}, "from": {}, "did": {},
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// ExtractKeywords lowercases, tokenizes, and drops stopwords and short tokens.
func ExtractKeywords(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	var out []string
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// KeywordOverlap returns the fraction of query keywords present among the
// text's tokens.
func KeywordOverlap(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	tokens := map[string]struct{}{}
	for _, t := range ExtractKeywords(text) {
		tokens[t] = struct{}{}
	}
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, k := range keywords {
		if _, ok := tokens[k]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// ContainsKeyword reports whether any keyword appears as a substring of text.
func ContainsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// domainRelevant reports whether a query keyword appears verbatim among the
// tokens of the result URL's host.
func domainRelevant(rawURL string, keywords []string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	tokens := wordRe.FindAllString(strings.ToLower(u.Hostname()), -1)
	for _, t := range tokens {
		for _, k := range keywords {
			if t == k {
				return true
			}
		}
	}
	return false
}

// domainScore gives a fixed reputation bonus to trusted domain suffixes.
func domainScore(rawURL string) float64 {
	if rawURL == "" {
		return 0
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range []string{".gov", ".edu", ".org"} {
		if strings.HasSuffix(host, suffix) {
			return 0.3
		}
	}
	return 0
}
