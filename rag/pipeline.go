package rag

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/google/uuid"
)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 10

var _ docbot.Asker = (*Pipeline)(nil)

// Pipeline answers questions with retrieval-augmented generation. Each
// call runs the guardrail, embeds the question, searches a snapshot of the
// active index, assembles the prompt, generates the answer and finally
// derives follow-ups on a best-effort basis.
type Pipeline struct {
	Guardrail docbot.Guardrail
	Embedder  docbot.Embedder
	Generator docbot.Generator
	FollowUps docbot.FollowUpDeriver
	Index     *docbot.IndexRef

	TopK            int
	MaxPromptLength int
	MaxOutputTokens int
	Temperature     *float32 // nil means docbot.DefaultTemperature

	Logger *slog.Logger
}

// Ask runs one question through the pipeline.
func (p *Pipeline) Ask(ctx context.Context, q *docbot.Query) (*docbot.Answer, error) {
	id := uuid.NewString()
	logger := p.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.With("query_id", id)
	start := time.Now()

	fail := func(stage docbot.Stage, err error) (*docbot.Answer, error) {
		logger.Debug("query stage", "stage", docbot.StageFailed, "after", stage, "err", err)
		return nil, err
	}

	logger.Debug("query stage", "stage", docbot.StageReceived)
	if q == nil || strings.TrimSpace(q.Question) == "" {
		return fail(docbot.StageReceived, docbot.Errorf(docbot.EINVALID, "question required"))
	}

	if p.Guardrail != nil {
		if v := p.Guardrail.Check(q.Question); !v.Allowed {
			logger.Info("query rejected", "stage", docbot.StageRejected, "category", v.Category)
			reason := v.Reason
			if reason == "" {
				reason = docbot.DefaultRefusal
			}
			return &docbot.Answer{
				ID:        id,
				Outcome:   docbot.OutcomeRejected,
				Text:      reason,
				Category:  v.Category,
				FollowUps: []string{},
				Sources:   []string{},
			}, nil
		}
	}
	logger.Debug("query stage", "stage", docbot.StageGuardrailChecked)

	idx := p.Index.Load()
	if idx == nil {
		return fail(docbot.StageGuardrailChecked, docbot.Errorf(docbot.ENOTFOUND, "no index loaded"))
	}

	results, err := p.retrieve(ctx, idx, q.Question)
	if err != nil {
		return fail(docbot.StageGuardrailChecked, err)
	}
	logger.Debug("query stage", "stage", docbot.StageRetrieved, "results", len(results))

	prompt, used, err := docbot.AssemblePrompt(q.Question, results, q.History, p.MaxPromptLength)
	if err != nil {
		return fail(docbot.StageRetrieved, err)
	}
	logger.Debug("query stage", "stage", docbot.StagePromptAssembled, "chunks", len(used), "length", len(prompt))

	resp, err := p.Generator.Generate(ctx, &docbot.GenerateRequest{
		Prompt:          prompt,
		MaxOutputTokens: p.MaxOutputTokens,
		Temperature:     p.Temperature,
	})
	if err != nil {
		return fail(docbot.StagePromptAssembled, classify(ctx, err, docbot.EGENERATION, "generate answer"))
	}
	logger.Debug("query stage", "stage", docbot.StageGenerated)

	followUps := p.deriveFollowUps(ctx, logger, &docbot.FollowUpRequest{
		Question: q.Question,
		Answer:   resp.Text,
		Results:  results,
		Used:     used,
	})
	logger.Debug("query stage", "stage", docbot.StageFollowUpsDerived, "follow_ups", len(followUps))

	sources := docbot.Sources(used)
	if sources == nil {
		sources = []string{}
	}
	logger.Info("query completed", "stage", docbot.StageCompleted, "sources", len(sources), "duration", time.Since(start))
	return &docbot.Answer{
		ID:        id,
		Outcome:   docbot.OutcomeCompleted,
		Text:      resp.Text,
		FollowUps: followUps,
		Sources:   sources,
		Grounded:  len(used) > 0,
	}, nil
}

// retrieve embeds the question and searches idx. An empty index yields no
// results rather than an error.
func (p *Pipeline) retrieve(ctx context.Context, idx *docbot.Index, question string) ([]docbot.SearchResult, error) {
	vecs, err := p.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, classify(ctx, err, docbot.EEMBEDDING, "embed question")
	}
	if len(vecs) != 1 {
		return nil, docbot.Errorf(docbot.EEMBEDDING, "embedder returned %d vectors for 1 question", len(vecs))
	}

	k := p.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	return idx.Search(vecs[0], k)
}

// deriveFollowUps never fails: errors and results short of
// docbot.MinFollowUps degrade to no follow-ups.
func (p *Pipeline) deriveFollowUps(ctx context.Context, logger *slog.Logger, req *docbot.FollowUpRequest) []string {
	if p.FollowUps == nil {
		return []string{}
	}
	out, err := p.FollowUps.DeriveFollowUps(ctx, req)
	if err != nil {
		logger.Warn("follow-up derivation failed", "err", err)
		return []string{}
	}
	if len(out) < docbot.MinFollowUps {
		logger.Debug("too few follow-ups", "count", len(out))
		return []string{}
	}
	if len(out) > docbot.MaxFollowUps {
		out = out[:docbot.MaxFollowUps]
	}
	return out
}

// classify gives uncoded provider errors the unavailability code of the
// stage. Coded errors and caller cancellation pass through.
func classify(ctx context.Context, err error, code, op string) error {
	if ctx.Err() != nil {
		return err
	}
	var e *docbot.Error
	if errors.As(err, &e) {
		return err
	}
	return docbot.Errorf(code, "%s: %v", op, err)
}
