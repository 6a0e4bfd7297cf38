package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
)

// ReadPage fetches a URL and returns its main content as Markdown, stripping
// navigation, ads, and other clutter. Used for deep-reading a search result
// beyond its snippet.
func ReadPage(ctx context.Context, rawURL, userAgent string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d reading page", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract readable content: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		// Fall back to plain text when markdown conversion fails
		return fmt.Sprintf("# %s\n\n%s", article.Title, article.TextContent), nil
	}

	return fmt.Sprintf("# %s\n\n**Source**: %s\n\n%s", article.Title, rawURL, markdown), nil
}
