// Package fs reads and writes the scraped corpus file.
//
// A corpus is a single text file: a "# <title>" header followed by one
// section per page.
//
//	## <page title>
//	URL: <page url>
//	<page text>
package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docbot"
)

// DefaultCorpusTitle is written as the corpus header.
const DefaultCorpusTitle = "GitLab Content Scrape"

// Ensure CorpusFile implements docbot.CorpusWriter at compile time.
var _ docbot.CorpusWriter = (*CorpusFile)(nil)

// CorpusFile writes pages to path with atomic replace semantics.
// Pages go to path.tmp, which replaces path on Commit.
type CorpusFile struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

// NewCorpusFile creates path.tmp and writes the corpus header.
func NewCorpusFile(path, title string) (*CorpusFile, error) {
	if title == "" {
		title = DefaultCorpusTitle
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	c := &CorpusFile{path: path, f: f, w: bufio.NewWriter(f)}
	if _, err := c.w.WriteString("# " + title + "\n\n"); err != nil {
		_ = c.Abort()
		return nil, err
	}
	return c, nil
}

// WritePage appends one page section.
func (c *CorpusFile) WritePage(page *docbot.Page) error {
	_, err := c.w.WriteString(FormatPage(page))
	return err
}

// FormatPage formats a page as a corpus section.
func FormatPage(page *docbot.Page) string {
	var b strings.Builder
	b.WriteString("\n\n## ")
	b.WriteString(strings.TrimSpace(page.Title))
	b.WriteString("\nURL: ")
	b.WriteString(page.URL)
	b.WriteString("\n")
	b.WriteString(page.Text)
	return b.String()
}

// Commit flushes the temporary file and renames it over path.
func (c *CorpusFile) Commit() error {
	if err := c.w.Flush(); err != nil {
		_ = c.Abort()
		return err
	}
	if err := c.f.Close(); err != nil {
		_ = os.Remove(c.f.Name())
		return err
	}
	return os.Rename(c.f.Name(), c.path)
}

// Abort discards the temporary file and leaves path untouched.
func (c *CorpusFile) Abort() error {
	_ = c.f.Close()
	if err := os.Remove(c.f.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
