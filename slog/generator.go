package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbot"
)

// Ensure LoggingGenerator implements docbot.Generator.
var _ docbot.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with debug logging.
type LoggingGenerator struct {
	next   docbot.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next docbot.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs prompt and
// completion sizes.
func (g *LoggingGenerator) Generate(ctx context.Context, req *docbot.GenerateRequest) (resp *docbot.GenerateResponse, err error) {
	defer func(begin time.Time) {
		var promptLen, textLen int
		if req != nil {
			promptLen = len(req.Prompt)
		}
		if resp != nil {
			textLen = len(resp.Text)
		}
		g.logger.Debug("generate",
			"prompt_bytes", promptLen,
			"text_bytes", textLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, req)
}
