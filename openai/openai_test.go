package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("orders vectors by index", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small","data":[
				{"object":"embedding","index":1,"embedding":[0,1]},
				{"object":"embedding","index":0,"embedding":[1,0]}
			]}`))
		})
		e := openai.NewEmbedder(openai.NewClient("test-key", server.URL+"/v1"), "", 2)

		vecs, err := e.Embed(context.Background(), []string{"a", "b"})

		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
		assert.Equal(t, 2, e.Dimension())
		assert.Equal(t, "text-embedding-3-small", got["model"])
		assert.Equal(t, []any{"a", "b"}, got["input"])
		assert.EqualValues(t, 2, got["dimensions"])
	})

	t.Run("reports count mismatch", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		})
		e := openai.NewEmbedder(openai.NewClient("k", server.URL+"/v1"), "", 0)

		_, err := e.Embed(context.Background(), []string{"a"})

		assert.Equal(t, docbot.EEMBEDDING, docbot.ErrorCode(err))
	})

	t.Run("propagates API errors", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
		})
		e := openai.NewEmbedder(openai.NewClient("k", server.URL+"/v1"), "", 0)

		_, err := e.Embed(context.Background(), []string{"a"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("requires texts", func(t *testing.T) {
		t.Parallel()

		_, err := openai.NewEmbedder(nil, "", 0).Embed(context.Background(), nil)

		assert.Equal(t, docbot.EINVALID, docbot.ErrorCode(err))
	})
}

func TestNewEmbedder_Dimension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1536, openai.NewEmbedder(nil, "", 0).Dimension())
	assert.Equal(t, 3072, openai.NewEmbedder(nil, "text-embedding-3-large", 0).Dimension())
	assert.Equal(t, 0, openai.NewEmbedder(nil, "nomic-embed-text", 0).Dimension())
	assert.Equal(t, 768, openai.NewEmbedder(nil, "nomic-embed-text", 768).Dimension())
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns first choice", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gpt-4o-mini","choices":[
				{"index":0,"message":{"role":"assistant","content":"GitLab values transparency."},"finish_reason":"stop"}
			]}`))
		})
		g := openai.NewGenerator(openai.NewClient("k", server.URL+"/v1"), "")

		resp, err := g.Generate(context.Background(), &docbot.GenerateRequest{
			Prompt:          "What are GitLab's values?",
			MaxOutputTokens: 256,
			Temperature:     docbot.Float32(0.5),
		})

		require.NoError(t, err)
		assert.Equal(t, "GitLab values transparency.", resp.Text)
		assert.Equal(t, "gpt-4o-mini", got["model"])
		assert.EqualValues(t, 256, got["max_tokens"])
		assert.InDelta(t, 0.5, got["temperature"], 1e-6)
		messages, ok := got["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	})

	t.Run("sends an explicit zero temperature", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[
				{"index":0,"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}
			]}`))
		})
		g := openai.NewGenerator(openai.NewClient("k", server.URL+"/v1"), "")

		_, err := g.Generate(context.Background(), &docbot.GenerateRequest{Prompt: "ping", Temperature: docbot.Float32(0)})

		require.NoError(t, err)
		require.Contains(t, got, "temperature")
		assert.InDelta(t, 0, got["temperature"], 1e-6)
	})

	t.Run("reports missing choices", func(t *testing.T) {
		t.Parallel()

		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
		})
		g := openai.NewGenerator(openai.NewClient("k", server.URL+"/v1"), "")

		_, err := g.Generate(context.Background(), &docbot.GenerateRequest{Prompt: "p"})

		assert.Equal(t, docbot.EGENERATION, docbot.ErrorCode(err))
	})

	t.Run("requires prompt", func(t *testing.T) {
		t.Parallel()

		_, err := openai.NewGenerator(nil, "").Generate(context.Background(), &docbot.GenerateRequest{})

		assert.Equal(t, docbot.EINVALID, docbot.ErrorCode(err))
	})
}
