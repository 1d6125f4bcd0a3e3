package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/docbot"
)

// maxHistoryTurns bounds the conversation carried into each prompt.
const maxHistoryTurns = 20

// StarterQuestions are suggested when a chat starts.
func StarterQuestions() []string {
	return []string{
		"What are the six core values of GitLab?",
		"How does GitLab reinforce values?",
		"Can you tell me about GitLab's CI/CD?",
		"What are the hiring practices of GitLab?",
	}
}

// Run executes the chat command. Each line read from stdin is a question;
// a number picks a starter question and "exit" or "quit" ends the chat.
// Failed questions are reported and the chat continues.
func (c *ChatCmd) Run(deps *Dependencies) error {
	if _, err := loadIndex(deps, c.Corpus); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbot.ErrorMessage(err))
		return err
	}

	out := deps.Stdout
	starters := StarterQuestions()

	fmt.Fprintln(out, titleStyle.Render("Documentation Knowledge Bot"))
	fmt.Fprintln(out, mutedStyle.Render("Ask a question, pick a suggestion by number, or type exit."))
	for i, q := range starters {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q)
	}

	var history []docbot.Turn
	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprint(out, "\n"+promptStyle.Render("> "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}
		if n, err := strconv.Atoi(question); err == nil && n >= 1 && n <= len(starters) {
			question = starters[n-1]
			fmt.Fprintln(out, mutedStyle.Render(question))
		}

		answer, err := deps.Asker.Ask(deps.Ctx, &docbot.Query{Question: question, History: history})
		if err != nil {
			if deps.Ctx.Err() != nil {
				return deps.Ctx.Err()
			}
			fmt.Fprintln(out, errorStyle.Render("error: "+docbot.ErrorMessage(err)))
			continue
		}

		fmt.Fprintln(out)
		printAnswer(out, answer)

		history = append(history,
			docbot.Turn{Role: docbot.RoleUser, Content: question},
			docbot.Turn{Role: docbot.RoleAssistant, Content: answer.Text},
		)
		if len(history) > maxHistoryTurns {
			history = history[len(history)-maxHistoryTurns:]
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	return nil
}
