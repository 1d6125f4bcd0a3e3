package fs

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/docbot"
)

const maxLineSize = 16 << 20

const (
	titlePrefix = "## "
	urlPrefix   = "URL: "
	errorPrefix = "Error scraping "
)

// ReadCorpus reads the corpus file at path into source documents.
func ReadCorpus(path string) ([]*docbot.SourceDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docbot.Errorf(docbot.ENOTFOUND, "corpus file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	return ParseCorpus(f, path)
}

// ParseCorpus splits a corpus into one document per "URL:" section, in
// order of first appearance. The source ID is the URL and the document
// text starts with the section's "## title" line. Sections repeating a
// URL are merged. Text before the first section is ignored, as are
// "Error scraping" lines left by failed fetches. Input with no sections
// becomes a single document identified by name.
func ParseCorpus(r io.Reader, name string) ([]*docbot.SourceDocument, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		preamble []string
		cur      *section
		sections []*section
		byURL    = make(map[string]*section)
	)

	for scanner.Scan() {
		line := scanner.Text()

		if u, ok := strings.CutPrefix(line, urlPrefix); ok && strings.TrimSpace(u) != "" {
			u = strings.TrimSpace(u)
			buf := &preamble
			if cur != nil {
				buf = cur.last()
			}
			title := popTitle(buf)

			if existing, ok := byURL[u]; ok {
				cur = existing
				cur.parts = append(cur.parts, nil)
				if existing.title == "" {
					existing.title = title
				}
				continue
			}
			cur = &section{url: u, title: title, parts: [][]string{nil}}
			byURL[u] = cur
			sections = append(sections, cur)
			continue
		}

		if strings.HasPrefix(line, errorPrefix) {
			continue
		}
		if cur == nil {
			preamble = append(preamble, line)
		} else {
			last := cur.last()
			*last = append(*last, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(sections) == 0 {
		text := strings.TrimSpace(strings.Join(preamble, "\n"))
		if text == "" {
			return []*docbot.SourceDocument{}, nil
		}
		return []*docbot.SourceDocument{{SourceID: name, RawText: text}}, nil
	}

	docs := make([]*docbot.SourceDocument, 0, len(sections))
	for _, s := range sections {
		if doc := s.document(); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// section collects the lines of one URL. Each repeat of the URL starts a
// new part.
type section struct {
	url   string
	title string
	parts [][]string
}

func (s *section) last() *[]string {
	return &s.parts[len(s.parts)-1]
}

func (s *section) document() *docbot.SourceDocument {
	var texts []string
	for _, part := range s.parts {
		if t := strings.TrimSpace(strings.Join(part, "\n")); t != "" {
			texts = append(texts, t)
		}
	}
	text := strings.Join(texts, "\n\n")
	if s.title != "" {
		text = strings.TrimSpace(titlePrefix + s.title + "\n" + text)
	}
	if text == "" {
		return nil
	}
	return &docbot.SourceDocument{
		SourceID: s.url,
		Title:    s.title,
		RawText:  text,
	}
}

// popTitle removes a trailing "## title" line from lines and returns the title.
func popTitle(lines *[]string) string {
	n := len(*lines)
	if n == 0 {
		return ""
	}
	title, ok := strings.CutPrefix((*lines)[n-1], titlePrefix)
	if !ok {
		return ""
	}
	*lines = (*lines)[:n-1]
	return strings.TrimSpace(title)
}
