// Package goquery extracts readable text and links from HTML pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docbot"
)

var _ docbot.Extractor = (*Extractor)(nil)

// UntitledPage is the title used for pages without a <title> element.
const UntitledPage = "Untitled Page"

// blockSelector matches the elements whose text ends up in the corpus.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li"

// Extractor extracts headings, paragraphs and list items in document order.
// Headings are demoted by two levels so they nest under the page title section.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns its title, text blocks and outgoing links.
func (e *Extractor) Extract(html string, pageURL string) (*docbot.ExtractResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docbot.Errorf(docbot.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docbot.Errorf(docbot.EINVALID, "failed to parse HTML: %v", err)
	}

	title := collapseSpace(doc.Find("title").First().Text())
	if title == "" {
		title = UntitledPage
	}

	return &docbot.ExtractResult{
		Title: title,
		Text:  extractText(doc),
		Links: extractLinks(doc, base),
	}, nil
}

func extractText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("body").Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		if text == "" {
			return
		}
		switch tag := goquery.NodeName(sel); tag {
		case "p":
			b.WriteString(text)
			b.WriteString("\n\n")
		case "li":
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		default:
			level := int(tag[1] - '0')
			b.WriteString(strings.Repeat("#", level+2))
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	})
	return b.String()
}

func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string for unparseable, non-http(s) or self-referential links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
