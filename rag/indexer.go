package rag

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docbot"
	"golang.org/x/sync/errgroup"
)

// Defaults for Indexer.
const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 4
)

var _ docbot.IndexBuilder = (*Indexer)(nil)

// IndexProgressFunc is called after each embedded batch, possibly from
// several goroutines at once.
type IndexProgressFunc func(embedded, total int)

// Indexer chunks documents, embeds the chunks in concurrent batches and
// builds an index. Vectors are reassembled in chunk order, so the result
// does not depend on which batch finishes first.
type Indexer struct {
	Chunker     *docbot.Chunker
	Embedder    docbot.Embedder
	Metric      docbot.Metric
	BatchSize   int
	Concurrency int
	Logger      *slog.Logger
	Progress    IndexProgressFunc
}

// Build returns a new index over docs.
//
// Whitespace-only chunks carry nothing to retrieve and are skipped. When no
// chunks remain the result is an empty index of the embedder's dimension,
// or EEMPTY if that dimension is unknown.
func (ix *Indexer) Build(ctx context.Context, docs []*docbot.SourceDocument) (*docbot.Index, error) {
	if ix.Chunker == nil {
		return nil, docbot.Errorf(docbot.EINVALID, "chunker required")
	}
	if ix.Embedder == nil {
		return nil, docbot.Errorf(docbot.EINVALID, "embedder required")
	}
	if err := docbot.ValidateDocuments(docs); err != nil {
		return nil, err
	}
	metric, err := docbot.ParseMetric(string(ix.Metric))
	if err != nil {
		return nil, err
	}
	logger := ix.Logger
	if logger == nil {
		logger = discardLogger()
	}

	start := time.Now()
	var chunks []*docbot.Chunk
	for _, c := range docbot.ChunkDocuments(ix.Chunker, docs) {
		if strings.TrimSpace(c.Text) != "" {
			chunks = append(chunks, c)
		}
	}
	logger.Info("chunked documents", "documents", len(docs), "chunks", len(chunks))

	if len(chunks) == 0 {
		dim := ix.Embedder.Dimension()
		if dim <= 0 {
			return nil, docbot.Errorf(docbot.EEMPTY, "no chunks to index")
		}
		return docbot.NewIndex(dim, metric)
	}

	vectors, err := ix.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	entries := make([]docbot.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = docbot.IndexEntry{Chunk: c, Vector: vectors[i]}
	}
	idx, err := docbot.BuildIndex(entries, metric)
	if err != nil {
		return nil, err
	}
	if err := docbot.CheckDimension(idx, ix.Embedder.Dimension()); err != nil {
		return nil, err
	}

	logger.Info("built index", "entries", idx.Len(), "dimension", idx.Dimension(), "metric", idx.Metric(), "duration", time.Since(start))
	return idx, nil
}

func (ix *Indexer) embed(ctx context.Context, chunks []*docbot.Chunk) ([][]float32, error) {
	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	vectors := make([][]float32, len(chunks))
	var embedded atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for start := 0; start < len(chunks); start += batchSize {
		start, end := start, min(start+batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, end-start)
			for i := range texts {
				texts[i] = chunks[start+i].Text
			}
			vecs, err := ix.Embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			if len(vecs) != len(texts) {
				return docbot.Errorf(docbot.EEMBEDDING, "embedder returned %d vectors for %d chunks", len(vecs), len(texts))
			}
			copy(vectors[start:end], vecs)
			n := embedded.Add(int64(len(vecs)))
			if ix.Progress != nil {
				ix.Progress(int(n), len(chunks))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
