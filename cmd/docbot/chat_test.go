package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/docbot"
	main "github.com/fwojciec/docbot/cmd/docbot"
	"github.com/fwojciec/docbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("carries history and resolves starter questions", func(t *testing.T) {
		t.Parallel()

		var queries []docbot.Query
		asker := &mock.Asker{
			AskFn: func(ctx context.Context, q *docbot.Query) (*docbot.Answer, error) {
				queries = append(queries, docbot.Query{
					Question: q.Question,
					History:  append([]docbot.Turn(nil), q.History...),
				})
				return &docbot.Answer{Outcome: docbot.OutcomeCompleted, Text: "answer " + q.Question}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("1\n\nand hiring?\nexit\nignored\n"),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Store:  storeWith(testIndex(t, 4)),
			Index:  docbot.NewIndexRef(nil),
			Asker:  asker,
		}

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		require.Len(t, queries, 2)
		assert.Equal(t, main.StarterQuestions()[0], queries[0].Question)
		assert.Empty(t, queries[0].History)
		assert.Equal(t, "and hiring?", queries[1].Question)
		assert.Equal(t, []docbot.Turn{
			{Role: docbot.RoleUser, Content: main.StarterQuestions()[0]},
			{Role: docbot.RoleAssistant, Content: "answer " + main.StarterQuestions()[0]},
		}, queries[1].History)

		for _, q := range main.StarterQuestions() {
			assert.Contains(t, stdout.String(), q)
		}
		assert.Contains(t, stdout.String(), "answer and hiring?")
	})

	t.Run("keeps going after a failed question", func(t *testing.T) {
		t.Parallel()

		calls := 0
		asker := &mock.Asker{
			AskFn: func(ctx context.Context, q *docbot.Query) (*docbot.Answer, error) {
				calls++
				if calls == 1 {
					return nil, docbot.Errorf(docbot.EEMBEDDING, "embedding unavailable")
				}
				return &docbot.Answer{Outcome: docbot.OutcomeCompleted, Text: "second answer"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("first\nsecond\n"),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Store:  storeWith(testIndex(t, 4)),
			Index:  docbot.NewIndexRef(nil),
			Asker:  asker,
		}

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Contains(t, stdout.String(), "embedding unavailable")
		assert.Contains(t, stdout.String(), "second answer")
	})
}
