package docbot

import (
	"regexp"
	"strings"
)

var (
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
	headingRe   = regexp.MustCompile(`(?m)^(#{1,8})[ \t]+(.+)$`)
)

// Heading is a '#'-prefixed heading line in document or chunk text.
type Heading struct {
	Level int
	Title string
}

// ExtractHeadings returns the headings of text in order. Fenced code
// blocks are skipped so that shell comments are not mistaken for headings.
func ExtractHeadings(text string) []Heading {
	if text == "" {
		return nil
	}

	matches := headingRe.FindAllStringSubmatch(codeBlockRe.ReplaceAllString(text, ""), -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		title := strings.TrimSpace(strings.TrimRight(m[2], "#"))
		if title == "" {
			continue
		}
		headings = append(headings, Heading{Level: len(m[1]), Title: title})
	}
	return headings
}
