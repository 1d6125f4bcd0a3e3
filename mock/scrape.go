package mock

import (
	"context"

	"github.com/fwojciec/docbot"
)

var (
	_ docbot.Fetcher      = (*Fetcher)(nil)
	_ docbot.Extractor    = (*Extractor)(nil)
	_ docbot.HostLimiter  = (*HostLimiter)(nil)
	_ docbot.CorpusWriter = (*CorpusWriter)(nil)
)

// Fetcher is a mock implementation of docbot.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Extractor is a mock implementation of docbot.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*docbot.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*docbot.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// HostLimiter is a mock implementation of docbot.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

// CorpusWriter is a mock implementation of docbot.CorpusWriter.
type CorpusWriter struct {
	WritePageFn func(page *docbot.Page) error
}

func (w *CorpusWriter) WritePage(page *docbot.Page) error {
	return w.WritePageFn(page)
}
