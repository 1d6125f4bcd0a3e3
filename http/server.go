package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultShutdownTimeout bounds graceful shutdown in Serve.
const DefaultShutdownTimeout = 10 * time.Second

// Server exposes the query pipeline as a JSON API.
//
//	POST /api/ask     answer a question
//	POST /api/reload  reload the index from the store and swap it in
//	GET  /healthz     report the active index
type Server struct {
	asker     docbot.Asker
	index     *docbot.IndexRef
	store     docbot.IndexStore
	dimension int
	logger    *slog.Logger
	md        goldmark.Markdown
	engine    *gin.Engine
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithIndexStore enables /api/reload. A reloaded index must have dimension
// dim unless dim is zero.
func WithIndexStore(store docbot.IndexStore, dim int) ServerOption {
	return func(s *Server) {
		s.store = store
		s.dimension = dim
	}
}

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server answering with asker and reporting on index.
func NewServer(asker docbot.Asker, index *docbot.IndexRef, opts ...ServerOption) *Server {
	s := &Server{
		asker: asker,
		index: index,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.logRequests())
	s.engine.POST("/api/ask", s.handleAsk)
	s.engine.POST("/api/reload", s.handleReload)
	s.engine.GET("/healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type askRequest struct {
	Question string        `json:"question"`
	History  []docbot.Turn `json:"history"`
}

type askResponse struct {
	ID         string   `json:"id"`
	Outcome    string   `json:"outcome"`
	Answer     string   `json:"answer"`
	AnswerHTML string   `json:"answer_html"`
	Category   string   `json:"category,omitempty"`
	FollowUps  []string `json:"follow_ups"`
	Sources    []string `json:"sources"`
	Grounded   bool     `json:"grounded"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type indexResponse struct {
	Status    string `json:"status"`
	Entries   int    `json:"entries"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric,omitempty"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, docbot.Errorf(docbot.EINVALID, "invalid request body: %v", err))
		return
	}

	answer, err := s.asker.Ask(c.Request.Context(), &docbot.Query{
		Question: req.Question,
		History:  req.History,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, askResponse{
		ID:         answer.ID,
		Outcome:    string(answer.Outcome),
		Answer:     answer.Text,
		AnswerHTML: s.renderMarkdown(answer.Text),
		Category:   answer.Category,
		FollowUps:  nonNil(answer.FollowUps),
		Sources:    nonNil(answer.Sources),
		Grounded:   answer.Grounded,
	})
}

func (s *Server) handleReload(c *gin.Context) {
	if s.store == nil {
		s.writeError(c, docbot.Errorf(docbot.ENOTFOUND, "index reload is not configured"))
		return
	}

	ok, err := s.store.HasIndex(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !ok {
		s.writeError(c, docbot.Errorf(docbot.ENOTFOUND, "no index has been persisted"))
		return
	}

	idx, err := s.store.LoadIndex(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := docbot.CheckDimension(idx, s.dimension); err != nil {
		s.writeError(c, err)
		return
	}

	s.index.Swap(idx)
	s.logger.Info("index reloaded", "entries", idx.Len(), "dimension", idx.Dimension())
	c.JSON(http.StatusOK, describeIndex("reloaded", idx))
}

func (s *Server) handleHealth(c *gin.Context) {
	idx := s.index.Load()
	if idx == nil {
		c.JSON(http.StatusServiceUnavailable, indexResponse{Status: "no_index"})
		return
	}
	c.JSON(http.StatusOK, describeIndex("ok", idx))
}

func describeIndex(status string, idx *docbot.Index) indexResponse {
	return indexResponse{
		Status:    status,
		Entries:   idx.Len(),
		Dimension: idx.Dimension(),
		Metric:    string(idx.Metric()),
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := docbot.ErrorCode(err)
	status := StatusCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "code", code, "err", err)
	}
	c.JSON(status, errorResponse{Code: code, Error: docbot.ErrorMessage(err)})
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(code string) int {
	switch code {
	case docbot.EINVALID:
		return http.StatusBadRequest
	case docbot.ENOTFOUND:
		return http.StatusNotFound
	case docbot.EEMBEDDING, docbot.EGENERATION:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		s.logger.Warn("render answer", "err", err)
		return ""
	}
	return buf.String()
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
