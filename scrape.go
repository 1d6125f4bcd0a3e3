package docbot

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML body of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// ExtractResult holds the readable content of an HTML page.
type ExtractResult struct {
	Title string

	// Text is the page body as plain text: headings prefixed with '#',
	// paragraphs, and list items prefixed with "- ", one block per line.
	Text string

	// Links are absolute http(s) URLs found on the page, in document order.
	Links []string
}

// Extractor turns a fetched page into text and outgoing links.
type Extractor interface {
	Extract(html string, pageURL string) (*ExtractResult, error)
}

// Page is one scraped page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// HostLimiter rate limits requests per host.
type HostLimiter interface {
	// Wait blocks until a request to host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}

// ScrapeProgress reports progress during a scrape.
type ScrapeProgress struct {
	URL     string
	Fetched int
	Queued  int
	Error   error
}

// ScrapeProgressFunc is called after each page attempt.
type ScrapeProgressFunc func(ScrapeProgress)

// CorpusWriter receives scraped pages in crawl order.
type CorpusWriter interface {
	WritePage(page *Page) error
}
