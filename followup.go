package docbot

import (
	"context"
	"strings"
)

// Bounds on the number of follow-up suggestions for one answer.
const (
	MinFollowUps = 2
	MaxFollowUps = 4
)

// FollowUpRequest carries what a deriver may use to suggest follow-ups.
type FollowUpRequest struct {
	Question string
	Answer   string
	// Results are all retrieved chunks in descending similarity order.
	Results []SearchResult
	// Used are the chunks that made it into the answer prompt.
	Used []SearchResult
}

// FollowUpDeriver suggests follow-up questions for an answered query.
type FollowUpDeriver interface {
	DeriveFollowUps(ctx context.Context, req *FollowUpRequest) ([]string, error)
}

// ParseFollowUps extracts up to limit questions from a bulleted or numbered
// list. Blank lines and duplicates are skipped.
func ParseFollowUps(text string, limit int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if limit > 0 && len(out) >= limit {
			break
		}
		line, ok := trimListMarker(strings.TrimSpace(line))
		if !ok || line == "" {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	return out
}

// trimListMarker strips "-", "*", "•" or "1." / "1)" prefixes. Lines without
// a marker are accepted only when they end with a question mark.
func trimListMarker(line string) (string, bool) {
	for _, p := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, p) {
			return cleanFollowUp(line[len(p):]), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return cleanFollowUp(line[i+1:]), true
	}
	if strings.HasSuffix(line, "?") {
		return cleanFollowUp(line), true
	}
	return "", false
}

func cleanFollowUp(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`\"")
	return strings.TrimSpace(s)
}
