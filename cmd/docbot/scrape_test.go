package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/docbot"
	main "github.com/fwojciec/docbot/cmd/docbot"
	"github.com/fwojciec/docbot/crawl"
	"github.com/fwojciec/docbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes the corpus file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "corpus.txt")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Scraper: &crawl.Scraper{
				Fetcher: &mock.Fetcher{
					FetchFn: func(ctx context.Context, url string) (string, error) {
						if url == "https://docs.example.com/broken" {
							return "", errors.New("HTTP 500")
						}
						return "<html></html>", nil
					},
				},
				Extractor: &mock.Extractor{
					ExtractFn: func(html, pageURL string) (*docbot.ExtractResult, error) {
						if pageURL == "https://docs.example.com/" {
							return &docbot.ExtractResult{
								Title: "Home",
								Text:  "Welcome.\n\n",
								Links: []string{"https://docs.example.com/broken"},
							}, nil
						}
						return &docbot.ExtractResult{Title: "Other"}, nil
					},
				},
				RetryDelays: []time.Duration{},
			},
		}

		err := (&main.ScrapeCmd{URLs: []string{"https://docs.example.com/"}, Output: out}).Run(deps)

		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "# GitLab Content Scrape\n\n\n\n## Home\nURL: https://docs.example.com/\nWelcome.\n\n", string(data))
		assert.Contains(t, stdout.String(), "Scraped 1 pages (1 failed)")
	})

	t.Run("leaves no corpus when the scrape aborts", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "corpus.txt")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		deps := &main.Dependencies{
			Ctx:     ctx,
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Scraper: &crawl.Scraper{},
		}

		err := (&main.ScrapeCmd{URLs: []string{"https://docs.example.com/"}, Output: out}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(out + ".tmp")
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestDefaultStartURLs(t *testing.T) {
	t.Parallel()

	for _, u := range main.DefaultStartURLs() {
		assert.True(t, crawl.DefaultScope().Allows(u), "start URL %s should be in the default scope", u)
	}
}
