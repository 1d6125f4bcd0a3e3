package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/crawl"
	"github.com/fwojciec/docbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is an in-memory set of pages keyed by URL. Each page body is the
// list of links it carries.
type site map[string][]string

func (s site) fetcher(fetched *[]string, mu *sync.Mutex) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			mu.Lock()
			*fetched = append(*fetched, url)
			mu.Unlock()
			if _, ok := s[url]; !ok {
				return "", errors.New("404 not found")
			}
			return url, nil
		},
	}
}

func (s site) extractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html, pageURL string) (*docbot.ExtractResult, error) {
			return &docbot.ExtractResult{
				Title: "Title of " + pageURL,
				Text:  "Body of " + pageURL + "\n",
				Links: s[pageURL],
			}, nil
		},
	}
}

type pageRecorder struct {
	pages []*docbot.Page
}

func (r *pageRecorder) writer() *mock.CorpusWriter {
	return &mock.CorpusWriter{
		WritePageFn: func(page *docbot.Page) error {
			r.pages = append(r.pages, page)
			return nil
		},
	}
}

func (r *pageRecorder) urls() []string {
	out := make([]string, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.URL
	}
	return out
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("crawls breadth-first within scope", func(t *testing.T) {
		t.Parallel()

		pages := site{
			"https://handbook.gitlab.com/handbook": {
				"https://handbook.gitlab.com/handbook/values#top",
				"https://handbook.gitlab.com/handbook/hiring?x=1",
				"https://about.gitlab.com/pricing",
			},
			"https://handbook.gitlab.com/handbook/values": {
				"https://handbook.gitlab.com/handbook/values/credit",
				"https://handbook.gitlab.com/handbook",
			},
			"https://handbook.gitlab.com/handbook/hiring":        nil,
			"https://handbook.gitlab.com/handbook/values/credit": nil,
		}

		var mu sync.Mutex
		var fetched []string
		rec := &pageRecorder{}
		s := &crawl.Scraper{
			Fetcher:     pages.fetcher(&fetched, &mu),
			Extractor:   pages.extractor(),
			Writer:      rec.writer(),
			Scope:       crawl.DefaultScope(),
			RetryDelays: []time.Duration{},
		}

		result, err := s.Scrape(context.Background(), []string{"https://handbook.gitlab.com/handbook"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Pages)
		assert.Empty(t, result.Failed)
		assert.Equal(t, []string{
			"https://handbook.gitlab.com/handbook",
			"https://handbook.gitlab.com/handbook/values",
			"https://handbook.gitlab.com/handbook/hiring",
			"https://handbook.gitlab.com/handbook/values/credit",
		}, rec.urls())
		assert.Equal(t, "Title of https://handbook.gitlab.com/handbook", rec.pages[0].Title)
		assert.NotContains(t, fetched, "https://about.gitlab.com/pricing")
	})

	t.Run("records failures and keeps going", func(t *testing.T) {
		t.Parallel()

		pages := site{
			"https://docs.example.com/": {
				"https://docs.example.com/missing",
				"https://docs.example.com/ok",
			},
			"https://docs.example.com/ok": nil,
		}

		var mu sync.Mutex
		var fetched []string
		var reports []docbot.ScrapeProgress
		rec := &pageRecorder{}
		s := &crawl.Scraper{
			Fetcher:     pages.fetcher(&fetched, &mu),
			Extractor:   pages.extractor(),
			Writer:      rec.writer(),
			Scope:       crawl.Scope{"docs.example.com"},
			RetryDelays: []time.Duration{0},
		}

		result, err := s.Scrape(context.Background(), []string{"https://docs.example.com/"}, func(p docbot.ScrapeProgress) {
			reports = append(reports, p)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Pages)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "https://docs.example.com/missing", result.Failed[0].URL)
		assert.EqualError(t, result.Failed[0].Err, "404 not found")

		// One initial attempt plus one retry for the missing page.
		assert.Len(t, fetched, 4)

		require.Len(t, reports, 3)
		assert.Error(t, reports[1].Error)
		assert.Equal(t, 2, reports[2].Fetched)
		assert.Equal(t, 0, reports[2].Queued)
	})

	t.Run("stops at max pages counting failures", func(t *testing.T) {
		t.Parallel()

		pages := site{
			"https://docs.example.com/a": {"https://docs.example.com/broken", "https://docs.example.com/b", "https://docs.example.com/c"},
			"https://docs.example.com/b": nil,
			"https://docs.example.com/c": nil,
		}

		var mu sync.Mutex
		var fetched []string
		rec := &pageRecorder{}
		s := &crawl.Scraper{
			Fetcher:     pages.fetcher(&fetched, &mu),
			Extractor:   pages.extractor(),
			Writer:      rec.writer(),
			MaxPages:    3,
			RetryDelays: []time.Duration{},
		}

		result, err := s.Scrape(context.Background(), []string{"https://docs.example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Pages)
		assert.Len(t, result.Failed, 1)
		assert.Equal(t, []string{"https://docs.example.com/a", "https://docs.example.com/b"}, rec.urls())
	})

	t.Run("waits on the limiter per host", func(t *testing.T) {
		t.Parallel()

		pages := site{
			"https://docs.example.com/a": {"https://docs.example.com/b"},
			"https://docs.example.com/b": nil,
		}

		var hosts []string
		var mu sync.Mutex
		var fetched []string
		rec := &pageRecorder{}
		s := &crawl.Scraper{
			Fetcher:   pages.fetcher(&fetched, &mu),
			Extractor: pages.extractor(),
			Writer:    rec.writer(),
			Limiter: &mock.HostLimiter{
				WaitFn: func(ctx context.Context, host string) error {
					hosts = append(hosts, host)
					return nil
				},
			},
			RetryDelays: []time.Duration{},
		}

		_, err := s.Scrape(context.Background(), []string{"https://docs.example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"docs.example.com", "docs.example.com"}, hosts)
	})

	t.Run("aborts when the writer fails", func(t *testing.T) {
		t.Parallel()

		pages := site{"https://docs.example.com/a": nil}
		var mu sync.Mutex
		var fetched []string
		s := &crawl.Scraper{
			Fetcher:   pages.fetcher(&fetched, &mu),
			Extractor: pages.extractor(),
			Writer: &mock.CorpusWriter{
				WritePageFn: func(page *docbot.Page) error {
					return errors.New("disk full")
				},
			},
			RetryDelays: []time.Duration{},
		}

		_, err := s.Scrape(context.Background(), []string{"https://docs.example.com/a"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pages := site{"https://docs.example.com/a": nil}
		var mu sync.Mutex
		var fetched []string
		rec := &pageRecorder{}
		s := &crawl.Scraper{
			Fetcher:   pages.fetcher(&fetched, &mu),
			Extractor: pages.extractor(),
			Writer:    rec.writer(),
		}

		_, err := s.Scrape(ctx, []string{"https://docs.example.com/a"}, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, fetched)
	})

	t.Run("rejects missing or invalid start URLs", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{}

		_, err := s.Scrape(context.Background(), nil, nil)
		assert.Equal(t, docbot.EINVALID, docbot.ErrorCode(err))

		_, err = s.Scrape(context.Background(), []string{"not a url"}, nil)
		assert.Equal(t, docbot.EINVALID, docbot.ErrorCode(err))
	})
}
