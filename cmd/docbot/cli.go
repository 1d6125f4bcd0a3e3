package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Scraper is a template; the scrape command sets its Writer.
	Scraper *crawl.Scraper

	Store   docbot.IndexStore
	Builder docbot.IndexBuilder
	Index   *docbot.IndexRef
	Asker   docbot.Asker

	// Dimension is the query embedding dimension, or 0 if unknown.
	Dimension int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"DOCBOT_DB" type:"path" help:"SQLite database holding the index (default ~/.docbot/docbot.db)"`
	Verbose bool   `short:"v" help:"Log debug output to stderr"`

	Provider        string `enum:"gemini,openai" default:"gemini" env:"DOCBOT_PROVIDER" help:"Embedding and generation provider (${enum})"`
	Embeddings      string `enum:"provider,hash" default:"provider" env:"DOCBOT_EMBEDDINGS" help:"Use the provider's embeddings or offline feature hashing (${enum})"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	OpenAIAPIKey    string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIBaseURL   string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`
	GenerationModel string `env:"DOCBOT_GENERATION_MODEL" help:"Generation model (provider default if empty)"`
	EmbeddingModel  string `env:"DOCBOT_EMBEDDING_MODEL" help:"Embedding model (provider default if empty)"`
	Dimension       int    `name:"embedding-dim" env:"DOCBOT_EMBEDDING_DIM" help:"Embedding dimension (provider default if zero)"`

	ChunkSize    int    `default:"1000" help:"Maximum chunk size in characters"`
	ChunkOverlap int    `default:"200" help:"Overlap between consecutive chunks in characters"`
	Metric       string `enum:"cosine,l2" default:"cosine" help:"Similarity metric for new indexes (${enum})"`

	TopK            int           `default:"10" help:"Chunks retrieved per question"`
	MaxPromptLength int           `default:"60000" help:"Maximum prompt length in characters"`
	MaxOutputTokens int           `default:"2048" help:"Maximum answer length in tokens"`
	Temperature     float32       `default:"0.4" help:"Sampling temperature"`
	Retries         int           `default:"3" help:"Retries per provider call"`
	Timeout         time.Duration `default:"30s" help:"Timeout per provider call"`
	CacheSize       int           `default:"1024" help:"Query embedding cache entries (0 disables)"`
	Guardrail       string        `env:"DOCBOT_GUARDRAIL" type:"path" help:"YAML guardrail policy (built-in policy if empty)"`
	FollowUps       string        `enum:"generative,heuristic,none" default:"generative" help:"How follow-up questions are suggested (${enum})"`

	Scrape ScrapeCmd `cmd:"" help:"Crawl documentation pages into a corpus file"`
	Index  IndexCmd  `cmd:"" help:"Build and persist the index from a corpus file"`
	Ask    AskCmd    `cmd:"" help:"Ask a single question"`
	Chat   ChatCmd   `cmd:"" help:"Ask questions interactively"`
	Serve  ServeCmd  `cmd:"" help:"Serve the question API over HTTP"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs     []string `arg:"" optional:"" name:"url" help:"Start URLs (default: the GitLab handbook and direction pages)"`
	Output   string   `short:"o" default:"gitlab_scraped.txt" type:"path" help:"Corpus file to write"`
	Scope    []string `short:"s" help:"Allowed host/path prefixes (repeatable; default: the GitLab handbook and direction pages)"`
	MaxPages int      `default:"500" help:"Maximum pages to attempt"`
	Rate     float64  `default:"1" help:"Requests per second per host"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Corpus string `arg:"" optional:"" default:"gitlab_scraped.txt" type:"path" help:"Corpus file to index"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	Corpus   string `type:"path" help:"Build the index from this corpus file if none is persisted"`
	JSON     bool   `name:"json" help:"Print the answer as JSON"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Corpus string `type:"path" help:"Build the index from this corpus file if none is persisted"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr   string `default:":8080" env:"DOCBOT_ADDR" help:"Listen address"`
	Corpus string `type:"path" help:"Build the index from this corpus file if none is persisted"`
}
