package docbot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PromptTemplateVersion identifies the template rendered by AssemblePrompt.
// Bump it when the wording or section layout changes.
const PromptTemplateVersion = "v1"

// DefaultMaxPromptLength is the default prompt cap in characters.
const DefaultMaxPromptLength = 60000

// NoContextMarker replaces the context section when nothing was retrieved.
const NoContextMarker = "No context available."

const promptHeader = `You are a knowledgeable assistant that specializes in the indexed documentation.
Answer the user's question based on the provided context from the documentation.
Give detailed and elaborate answers. Try to explain your answers. Search the context thoroughly for the question asked.
If the context doesn't contain the relevant information, say so plainly instead of guessing.
`

const promptFooter = `Your response should be informative, accurate, and based only on the provided context.
`

// AssemblePrompt renders the question, retrieved chunks and chat history
// into the prompt template. Results are expected in descending similarity
// order and are rendered in that order.
//
// When maxLen is positive the prompt is capped at maxLen characters:
// lowest-similarity chunks are dropped first, then the oldest history
// turns. The returned slice holds the results that made it into the prompt.
//
// Returns EINVALID if the question is empty or the prompt cannot fit.
func AssemblePrompt(question string, results []SearchResult, history []Turn, maxLen int) (string, []SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return "", nil, Errorf(EINVALID, "question required")
	}

	prompt := renderPrompt(question, results, history)
	if maxLen <= 0 {
		return prompt, results, nil
	}
	for utf8.RuneCountInString(prompt) > maxLen && len(results) > 0 {
		results = results[:len(results)-1]
		prompt = renderPrompt(question, results, history)
	}
	for utf8.RuneCountInString(prompt) > maxLen && len(history) > 0 {
		history = history[1:]
		prompt = renderPrompt(question, results, history)
	}
	if utf8.RuneCountInString(prompt) > maxLen {
		return "", nil, Errorf(EINVALID, "question too long for prompt limit of %d characters", maxLen)
	}
	return prompt, results, nil
}

func renderPrompt(question string, results []SearchResult, history []Turn) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	b.WriteString("\nCONTEXT:\n")
	if len(results) == 0 {
		b.WriteString(NoContextMarker)
		b.WriteString("\n")
	}
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[source: %s]\n%s\n", r.Chunk.SourceID, r.Chunk.Text)
	}

	b.WriteString("\nCHAT HISTORY:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(t.Role), t.Content)
	}

	fmt.Fprintf(&b, "\nUSER QUESTION: %s\n\n", question)
	b.WriteString(promptFooter)
	return b.String()
}

func roleLabel(role string) string {
	if role == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// Sources returns the distinct source IDs of results in first-seen order.
func Sources(results []SearchResult) []string {
	seen := make(map[string]bool, len(results))
	var out []string
	for _, r := range results {
		if seen[r.Chunk.SourceID] {
			continue
		}
		seen[r.Chunk.SourceID] = true
		out = append(out, r.Chunk.SourceID)
	}
	return out
}
