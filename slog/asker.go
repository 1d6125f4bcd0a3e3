package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbot"
)

// Ensure LoggingAsker implements docbot.Asker.
var _ docbot.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging of each query's outcome.
type LoggingAsker struct {
	next   docbot.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next docbot.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the operation.
func (a *LoggingAsker) Ask(ctx context.Context, q *docbot.Query) (answer *docbot.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if answer != nil {
			attrs = append(attrs,
				"id", answer.ID,
				"outcome", answer.Outcome,
				"sources", len(answer.Sources),
				"follow_ups", len(answer.FollowUps),
			)
		}
		if err != nil {
			attrs = append(attrs, "code", docbot.ErrorCode(err), "err", err)
		}
		a.logger.Info("ask", attrs...)
	}(time.Now())
	return a.next.Ask(ctx, q)
}
