package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/docbot/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push("https://example.com/docs/page1"), "first push should succeed")
	assert.False(t, f.Push("https://example.com/docs/page1"), "duplicate URL should be rejected")
	assert.False(t, f.Push("https://example.com/docs/page1?tab=2#intro"), "query and fragment are ignored")
}

func TestFrontier_Push_rejects_non_http_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Push("mailto:someone@example.com"))
	assert.False(t, f.Push("/relative/path"))
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Pop_returns_URLs_in_push_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	f.Push("https://example.com/a")
	f.Push("https://example.com/b#frag")
	f.Push("https://example.com/c")

	for _, want := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		got, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.Equal(t, 0, f.Len())

	f.Push("https://example.com/a")
	f.Push("https://example.com/b")
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Seen_survives_Pop(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.False(t, f.Seen("https://example.com/page"))

	f.Push("https://example.com/page")
	f.Pop()

	assert.True(t, f.Seen("https://example.com/page"))
	assert.True(t, f.Seen("https://example.com/page#top"))
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Push(fmt.Sprintf("https://example.com/%d/%d", id, j))
			}
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"keeps path", "https://handbook.gitlab.com/handbook/values/", "https://handbook.gitlab.com/handbook/values/", true},
		{"drops query and fragment", "https://example.com/a?b=c#d", "https://example.com/a", true},
		{"keeps port", "http://localhost:8080/docs", "http://localhost:8080/docs", true},
		{"rejects ftp", "ftp://example.com/file", "", false},
		{"rejects relative", "docs/page", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := crawl.NormalizeURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScope_Allows(t *testing.T) {
	t.Parallel()

	scope := crawl.DefaultScope()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://handbook.gitlab.com/handbook", true},
		{"https://handbook.gitlab.com/handbook/values/", true},
		{"https://handbook.gitlab.com/other", false},
		{"https://about.gitlab.com/direction/plan/", true},
		{"https://about.gitlab.com/pricing/", false},
		{"https://gitlab.com/handbook", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scope.Allows(tt.url))
		})
	}

	t.Run("host-only prefix admits the whole host", func(t *testing.T) {
		t.Parallel()
		assert.True(t, crawl.Scope{"docs.example.com"}.Allows("https://docs.example.com/any/page"))
	})

	t.Run("empty scope admits everything", func(t *testing.T) {
		t.Parallel()
		assert.True(t, crawl.Scope(nil).Allows("https://anywhere.example/x"))
	})
}
