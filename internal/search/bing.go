package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Bing scrapes the regular bing results page. Secondary source of the
// fallback chain.
type Bing struct {
	BaseURL    string
	UserAgent  string
	MaxResults int
	Client     *http.Client
}

var _ Source = (*Bing)(nil)

func NewBing(userAgent string, maxResults int) *Bing {
	return &Bing{
		BaseURL:    "https://www.bing.com/search",
		UserAgent:  userAgent,
		MaxResults: maxResults,
		Client:     http.DefaultClient,
	}
}

func (b *Bing) Name() string { return "bing" }

func (b *Bing) Query(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", b.BaseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bing response: %w", err)
	}

	var results []Result
	doc.Find("li.b_algo").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a").First()
		href, _ := link.Attr("href")
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(sel.Find("p").First().Text()),
			URL:     href,
		})
		return len(results) < b.MaxResults
	})
	return results, nil
}
