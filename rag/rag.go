// Package rag builds vector indexes from source documents and answers
// questions against them.
package rag

import (
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
