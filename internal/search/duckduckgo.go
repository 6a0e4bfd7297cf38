package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo queries the HTML-only duckduckgo frontend. Primary source of the
// fallback chain.
type DuckDuckGo struct {
	BaseURL    string
	UserAgent  string
	MaxResults int
	Client     *http.Client
}

var _ Source = (*DuckDuckGo)(nil)

func NewDuckDuckGo(userAgent string, maxResults int) *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL:    "https://html.duckduckgo.com/html/",
		UserAgent:  userAgent,
		MaxResults: maxResults,
		Client:     http.DefaultClient,
	}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Query(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", d.BaseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duckduckgo response: %w", err)
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := sel.Find("a.result__a")
		href, _ := title.Attr("href")
		results = append(results, Result{
			Title:   strings.TrimSpace(title.Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
			URL:     unwrapRedirect(href),
		})
		return len(results) < d.MaxResults
	})
	return results, nil
}

// unwrapRedirect extracts the target URL from duckduckgo's uddg redirect
// wrapper, falling back to the raw href.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if actual := u.Query().Get("uddg"); actual != "" {
		return actual
	}
	return href
}
