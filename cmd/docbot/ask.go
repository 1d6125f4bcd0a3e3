package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/docbot"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	if _, err := loadIndex(deps, c.Corpus); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbot.ErrorMessage(err))
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, &docbot.Query{Question: c.Question})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbot.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	printAnswer(deps.Stdout, answer)
	return nil
}

// printAnswer writes the answer, its sources and suggested follow-ups.
func printAnswer(w io.Writer, answer *docbot.Answer) {
	if answer.Outcome == docbot.OutcomeRejected {
		fmt.Fprintln(w, warningStyle.Render(answer.Text))
		return
	}

	fmt.Fprintln(w, answer.Text)

	if len(answer.Sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("Sources:"))
		for _, s := range answer.Sources {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(s))
		}
	}

	if len(answer.FollowUps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("You might also ask:"))
		for _, q := range answer.FollowUps {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
}
