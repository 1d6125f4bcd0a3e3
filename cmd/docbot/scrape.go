package main

import (
	"fmt"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/fs"
)

// DefaultStartURLs are crawled when the scrape command gets no URLs.
func DefaultStartURLs() []string {
	return []string{
		"https://handbook.gitlab.com/handbook",
		"https://about.gitlab.com/direction/",
	}
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if len(urls) == 0 {
		urls = DefaultStartURLs()
	}

	corpus, err := fs.NewCorpusFile(c.Output, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	scraper := *deps.Scraper
	scraper.Writer = corpus

	result, err := scraper.Scrape(deps.Ctx, urls, func(p docbot.ScrapeProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  error %s: %v\n", p.URL, p.Error)
			return
		}
		fmt.Fprintf(deps.Stdout, "  [%d] %s (%d queued)\n", p.Fetched, p.URL, p.Queued)
	})
	if err != nil {
		_ = corpus.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if err := corpus.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped %d pages (%d failed) into %s\n", result.Pages, len(result.Failed), c.Output)
	return nil
}
