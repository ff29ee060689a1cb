// Package news fetches recent market headlines used as prompt context.
// Everything here is best effort: a failed fetch yields no headlines, never
// an error that could block a trading cycle.
package news

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://news.google.com/search"

// Fetcher scrapes Google News search results for an instrument.
type Fetcher struct {
	client     *resty.Client
	baseURL    string
	maxResults int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) { f.baseURL = baseURL }
}

// WithMaxResults caps the number of returned headlines.
func WithMaxResults(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxResults = n
		}
	}
}

// NewFetcher creates a headline fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; ChartPilotGo/1.0)")

	f := &Fetcher{
		client:     client,
		baseURL:    defaultBaseURL,
		maxResults: 5,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Headlines returns recent headline titles for the symbol, newest first as
// served. Any failure is logged and swallowed.
func (f *Fetcher) Headlines(ctx context.Context, symbol string) []string {
	searchURL := fmt.Sprintf("%s?q=%s&hl=en&gl=US&ceid=US:en",
		f.baseURL, url.QueryEscape(symbol+" market"))

	resp, err := f.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		log.Printf("[News] fetch failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		log.Printf("[News] HTTP %d from headline search", resp.StatusCode())
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		log.Printf("[News] parse failed: %v", err)
		return nil
	}

	var headlines []string
	doc.Find("article").EachWithBreak(func(i int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			title = strings.TrimSpace(s.Find("a").First().Text())
		}
		if title != "" {
			headlines = append(headlines, title)
		}
		return len(headlines) < f.maxResults
	})
	return headlines
}
