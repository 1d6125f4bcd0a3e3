package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/crawl"
	"github.com/fwojciec/docbot/gateway"
	"github.com/fwojciec/docbot/gemini"
	"github.com/fwojciec/docbot/goquery"
	dbhttp "github.com/fwojciec/docbot/http"
	"github.com/fwojciec/docbot/lru"
	"github.com/fwojciec/docbot/openai"
	"github.com/fwojciec/docbot/rag"
	dbslog "github.com/fwojciec/docbot/slog"
	"github.com/fwojciec/docbot/sqlite"
	"github.com/fwojciec/docbot/xxhash"
	"github.com/fwojciec/docbot/yaml"
)

// queryCacheTTL bounds how long a cached question embedding is reused.
const queryCacheTTL = time.Hour

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newScraper(cli *CLI, logger *slog.Logger) *crawl.Scraper {
	scope := crawl.Scope(cli.Scrape.Scope)
	if len(scope) == 0 {
		scope = crawl.DefaultScope()
	}
	return &crawl.Scraper{
		Fetcher:   dbhttp.NewFetcher(),
		Extractor: goquery.NewExtractor(),
		Limiter:   crawl.NewHostLimiter(cli.Scrape.Rate),
		Scope:     scope,
		MaxPages:  cli.Scrape.MaxPages,
		Logger:    logger,
	}
}

// providers are the raw capabilities of the configured provider.
type providers struct {
	embedder  docbot.Embedder
	generator docbot.Generator
}

// The provider client is skipped when neither generation nor provider
// embeddings are needed.
func newProviders(ctx context.Context, cli *CLI, needGenerator bool) (*providers, error) {
	p := &providers{}

	switch {
	case !needGenerator && cli.Embeddings == "hash":
	case cli.Provider == "openai":
		if cli.OpenAIAPIKey == "" && cli.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set. Set it or point OPENAI_BASE_URL at a compatible server")
		}
		client := openai.NewClient(cli.OpenAIAPIKey, cli.OpenAIBaseURL)
		p.generator = openai.NewGenerator(client, cli.GenerationModel)
		if cli.Embeddings == "provider" {
			p.embedder = openai.NewEmbedder(client, cli.EmbeddingModel, cli.Dimension)
		}
	default:
		if cli.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := gemini.NewClient(ctx, cli.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		p.generator = gemini.NewGenerator(client, cli.GenerationModel)
		if cli.Embeddings == "provider" {
			p.embedder = gemini.NewEmbedder(client, cli.EmbeddingModel, cli.Dimension)
		}
	}

	if p.embedder == nil {
		dim := cli.Dimension
		if dim == 0 {
			dim = xxhash.DefaultDimension
		}
		e, err := xxhash.NewEmbedder(dim)
		if err != nil {
			return nil, err
		}
		p.embedder = e
	}
	return p, nil
}

func newFollowUps(mode string, generator docbot.Generator) docbot.FollowUpDeriver {
	switch mode {
	case "none":
		return nil
	case "heuristic":
		return &rag.HeuristicFollowUps{}
	default:
		return &rag.GenerativeFollowUps{
			Generator: generator,
			Fallback:  &rag.HeuristicFollowUps{},
		}
	}
}

// wire builds the index, store and pipeline services for cli. The pipeline
// is only built when needGenerator is set.
func wire(ctx context.Context, cli *CLI, db *sqlite.DB, deps *Dependencies, needGenerator bool) error {
	logger := deps.Logger

	p, err := newProviders(ctx, cli, needGenerator)
	if err != nil {
		if !needGenerator {
			fmt.Fprintln(deps.Stderr, "Hint: Use --embeddings=hash to index without provider embeddings")
		}
		return err
	}

	policy := gateway.Policy{
		MaxRetries: cli.Retries,
		Delays:     gateway.DefaultRetryDelays(),
		Timeout:    cli.Timeout,
	}
	embedder := dbslog.NewLoggingEmbedder(
		gateway.NewEmbedder(p.embedder, gateway.WithPolicy(policy), gateway.WithLogger(logger)),
		logger,
	)

	var queryEmbedder docbot.Embedder = embedder
	if cli.CacheSize > 0 {
		queryEmbedder = lru.NewEmbedder(embedder, cli.CacheSize, queryCacheTTL)
	}

	chunker, err := docbot.NewChunker(cli.ChunkSize, cli.ChunkOverlap)
	if err != nil {
		return err
	}
	metric, err := docbot.ParseMetric(cli.Metric)
	if err != nil {
		return err
	}
	guardrail, err := yaml.LoadGuardrail(cli.Guardrail)
	if err != nil {
		return err
	}

	store := sqlite.NewIndexStore(db)
	store.Dimension = embedder.Dimension()

	deps.Dimension = embedder.Dimension()
	deps.Store = store
	deps.Index = docbot.NewIndexRef(nil)
	deps.Builder = &rag.Indexer{
		Chunker:  chunker,
		Embedder: embedder,
		Metric:   metric,
		Logger:   logger,
	}
	if !needGenerator {
		return nil
	}

	generator := dbslog.NewLoggingGenerator(
		gateway.NewGenerator(p.generator,
			gateway.WithPolicy(policy),
			gateway.WithMaxInputLength(cli.MaxPromptLength),
			gateway.WithLogger(logger),
		),
		logger,
	)
	deps.Asker = dbslog.NewLoggingAsker(&rag.Pipeline{
		Guardrail:       guardrail,
		Embedder:        queryEmbedder,
		Generator:       generator,
		FollowUps:       newFollowUps(cli.FollowUps, generator),
		Index:           deps.Index,
		TopK:            cli.TopK,
		MaxPromptLength: cli.MaxPromptLength,
		MaxOutputTokens: cli.MaxOutputTokens,
		Temperature:     docbot.Float32(cli.Temperature),
		Logger:          logger,
	}, logger)
	return nil
}
