// Package crawl acquires a documentation corpus by breadth-first crawling
// from a set of start URLs.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docbot"
)

// DefaultMaxPages is the page budget used when Scraper.MaxPages is zero.
const DefaultMaxPages = 500

// FailedPage records a page that could not be fetched or extracted.
type FailedPage struct {
	URL string
	Err error
}

// ScrapeResult summarizes a finished crawl.
type ScrapeResult struct {
	Pages  int
	Failed []FailedPage
}

// Scraper crawls pages breadth-first and writes each one to the corpus.
type Scraper struct {
	Fetcher   docbot.Fetcher
	Extractor docbot.Extractor
	Writer    docbot.CorpusWriter

	// Limiter is optional; nil disables rate limiting.
	Limiter docbot.HostLimiter

	// Scope restricts which discovered links are followed. Start URLs
	// are always queued.
	Scope Scope

	// MaxPages bounds attempted pages, failures included.
	MaxPages int

	// RetryDelays defaults to DefaultRetryDelays when nil.
	// A non-nil empty slice disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Scrape crawls from startURLs until the frontier is empty or MaxPages
// pages have been attempted. Fetch and extract failures are recorded in
// the result; writer failures and cancellation abort the crawl.
func (s *Scraper) Scrape(ctx context.Context, startURLs []string, progress docbot.ScrapeProgressFunc) (*ScrapeResult, error) {
	if len(startURLs) == 0 {
		return nil, docbot.Errorf(docbot.EINVALID, "at least one start URL is required")
	}

	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	frontier := NewFrontier(uint(maxPages)*20, 0.001)
	for _, u := range startURLs {
		if _, ok := NormalizeURL(u); !ok {
			return nil, docbot.Errorf(docbot.EINVALID, "invalid start URL %q", u)
		}
		frontier.Push(u)
	}

	result := &ScrapeResult{}
	for attempted := 0; attempted < maxPages; attempted++ {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page, links, err := s.scrapePage(ctx, pageURL, logger, delays)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("scrape failed", "url", pageURL, "err", err)
			result.Failed = append(result.Failed, FailedPage{URL: pageURL, Err: err})
			s.report(progress, pageURL, result, frontier, err)
			continue
		}

		if err := s.Writer.WritePage(page); err != nil {
			return result, fmt.Errorf("write page %s: %w", pageURL, err)
		}
		result.Pages++

		for _, link := range links {
			if s.Scope.Allows(link) {
				frontier.Push(link)
			}
		}
		logger.Debug("scraped", "url", pageURL, "links", len(links), "queued", frontier.Len())
		s.report(progress, pageURL, result, frontier, nil)
	}

	logger.Info("scrape complete", "pages", result.Pages, "failed", len(result.Failed))
	return result, nil
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string, logger *slog.Logger, delays []time.Duration) (*docbot.Page, []string, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, hostOf(pageURL)); err != nil {
			return nil, nil, err
		}
	}

	html, err := FetchWithRetry(ctx, pageURL, s.Fetcher.Fetch, logger, delays)
	if err != nil {
		return nil, nil, err
	}

	extracted, err := s.Extractor.Extract(html, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("extract: %w", err)
	}

	page := &docbot.Page{
		URL:   pageURL,
		Title: extracted.Title,
		Text:  extracted.Text,
	}
	return page, extracted.Links, nil
}

func (s *Scraper) report(progress docbot.ScrapeProgressFunc, pageURL string, result *ScrapeResult, frontier *Frontier, err error) {
	if progress == nil {
		return
	}
	progress(docbot.ScrapeProgress{
		URL:     pageURL,
		Fetched: result.Pages,
		Queued:  frontier.Len(),
		Error:   err,
	})
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
