package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ddgFixture = `<html><body>
<div class="result">
  <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org%2Fgo">The Go Programming Language</a>
  <a class="result__snippet">Go is an open source language that makes it easy to build software.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://example.com/other">Another result</a>
  <a class="result__snippet">Something else.</a>
</div>
</body></html>`

func TestDuckDuckGoQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("query param = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("user agent = %q", ua)
		}
		w.Write([]byte(ddgFixture))
	}))
	defer srv.Close()

	d := NewDuckDuckGo("test-agent", 5)
	d.BaseURL = srv.URL

	results, err := d.Query(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "The Go Programming Language" {
		t.Errorf("title = %q", results[0].Title)
	}
	if results[0].URL != "https://example.org/go" {
		t.Errorf("redirect not unwrapped: %q", results[0].URL)
	}
	if results[0].Snippet == "" {
		t.Error("snippet missing")
	}
}

func TestDuckDuckGoRespectsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ddgFixture))
	}))
	defer srv.Close()

	d := NewDuckDuckGo("test-agent", 1)
	d.BaseURL = srv.URL

	results, err := d.Query(context.Background(), "golang")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDuckDuckGo("test-agent", 5)
	d.BaseURL = srv.URL

	if _, err := d.Query(context.Background(), "golang"); err == nil {
		t.Error("HTTP 429 should be an error")
	}
}

const bingFixture = `<html><body><ol id="b_results">
<li class="b_algo">
  <h2><a href="https://example.org/go">Go language overview</a></h2>
  <div class="b_caption"><p>Go is a statically typed compiled language.</p></div>
</li>
</ol></body></html>`

func TestBingQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bingFixture))
	}))
	defer srv.Close()

	b := NewBing("test-agent", 5)
	b.BaseURL = srv.URL

	results, err := b.Query(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "Go language overview" {
		t.Errorf("title = %q", results[0].Title)
	}
	if results[0].URL != "https://example.org/go" {
		t.Errorf("url = %q", results[0].URL)
	}
	if results[0].Snippet != "Go is a statically typed compiled language." {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestBingUnreachable(t *testing.T) {
	b := NewBing("test-agent", 5)
	b.BaseURL = "http://127.0.0.1:1/search"

	if _, err := b.Query(context.Background(), "golang"); err == nil {
		t.Error("unreachable source should error")
	}
}
