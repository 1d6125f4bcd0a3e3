package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docbot"
)

// DefaultFollowUpCount is the number of follow-ups requested by default.
const DefaultFollowUpCount = 3

var (
	_ docbot.FollowUpDeriver = (*GenerativeFollowUps)(nil)
	_ docbot.FollowUpDeriver = (*HeuristicFollowUps)(nil)
)

// GenerativeFollowUps asks the generator for follow-up questions seeded
// with the question, the answer and the titles of the retrieved sources.
// When the generator fails or yields fewer than docbot.MinFollowUps
// questions, Fallback is used if set.
type GenerativeFollowUps struct {
	Generator docbot.Generator
	Fallback  docbot.FollowUpDeriver
	Count     int
}

// DeriveFollowUps implements docbot.FollowUpDeriver.
func (g *GenerativeFollowUps) DeriveFollowUps(ctx context.Context, req *docbot.FollowUpRequest) ([]string, error) {
	count := followUpCount(g.Count)
	resp, err := g.Generator.Generate(ctx, &docbot.GenerateRequest{
		Prompt:          FollowUpPrompt(req, count),
		MaxOutputTokens: 256,
		Temperature:     docbot.Float32(docbot.DefaultTemperature),
	})
	var out []string
	if err == nil {
		out = docbot.ParseFollowUps(resp.Text, count)
	}
	if len(out) >= docbot.MinFollowUps || g.Fallback == nil {
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return g.Fallback.DeriveFollowUps(ctx, req)
}

// FollowUpPrompt renders the follow-up generation prompt.
func FollowUpPrompt(req *docbot.FollowUpRequest, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the user's question: %q,\n", req.Question)
	if req.Answer != "" {
		fmt.Fprintf(&b, "and the answer they received:\n%s\n\n", req.Answer)
	}
	if topics := topicsOf(req.Results, 5); len(topics) > 0 {
		fmt.Fprintf(&b, "Related documentation topics: %s\n\n", strings.Join(topics, "; "))
	}
	fmt.Fprintf(&b, "suggest %d relevant follow-up questions that could help them better understand the documented concepts or related features.\n", count)
	b.WriteString("Reply with the questions only, one per line.\n\nFormat:\n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "- Follow-up %d\n", i)
	}
	return b.String()
}

var followUpTemplates = []string{
	"Can you tell me more about %s?",
	"How does %s work in practice?",
	"What else should I know about %s?",
	"Where can I learn more about %s?",
}

// HeuristicFollowUps templates follow-up questions from the topics of
// retrieved chunks. Chunks left out of the prompt come first since the
// answer is least likely to have covered them. A single topic still yields
// docbot.MinFollowUps questions; no topic yields none. It needs no provider
// call.
type HeuristicFollowUps struct {
	Count int
}

// DeriveFollowUps implements docbot.FollowUpDeriver.
func (h *HeuristicFollowUps) DeriveFollowUps(_ context.Context, req *docbot.FollowUpRequest) ([]string, error) {
	count := followUpCount(h.Count)

	used := make(map[int]bool, len(req.Used))
	for _, r := range req.Used {
		used[r.Chunk.ID] = true
	}
	var ordered []docbot.SearchResult
	for _, r := range req.Results {
		if !used[r.Chunk.ID] {
			ordered = append(ordered, r)
		}
	}
	ordered = append(ordered, req.Used...)

	question := strings.ToLower(req.Question)
	var out, topics []string
	for _, topic := range topicsOf(ordered, 0) {
		if len(out) >= count {
			break
		}
		if strings.Contains(question, strings.ToLower(topic)) {
			continue
		}
		topics = append(topics, topic)
		out = append(out, fmt.Sprintf(followUpTemplates[len(out)%len(followUpTemplates)], topic))
	}
	// Too few topics: ask more about the strongest one.
	for len(topics) > 0 && len(out) < docbot.MinFollowUps {
		out = append(out, fmt.Sprintf(followUpTemplates[len(out)%len(followUpTemplates)], topics[0]))
	}
	return out, nil
}

func followUpCount(n int) int {
	switch {
	case n <= 0:
		return DefaultFollowUpCount
	case n < docbot.MinFollowUps:
		return docbot.MinFollowUps
	case n > docbot.MaxFollowUps:
		return docbot.MaxFollowUps
	}
	return n
}

// topicsOf returns distinct chunk topics in result order, at most limit
// when limit is positive.
func topicsOf(results []docbot.SearchResult, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range results {
		if limit > 0 && len(out) >= limit {
			break
		}
		topic := chunkTopic(r.Chunk.Text)
		key := strings.ToLower(topic)
		if topic == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, topic)
	}
	return out
}

// chunkTopic is the most specific heading of the chunk, or the opening
// words of its first line of prose.
func chunkTopic(text string) string {
	if hs := docbot.ExtractHeadings(text); len(hs) > 0 {
		return hs[len(hs)-1].Title
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line == "" || strings.HasPrefix(line, "URL:") {
			continue
		}
		words := strings.Fields(line)
		if len(words) > 8 {
			words = words[:8]
		}
		return strings.TrimRight(strings.Join(words, " "), ".,;:!?")
	}
	return ""
}
