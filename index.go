package docbot

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/viant/vec/search"
)

// Metric identifies the similarity measure used by an Index. It is fixed
// when the index is built and persisted alongside it.
type Metric string

// Supported similarity metrics.
const (
	// MetricCosine scores by normalized dot product. Stored vectors are not
	// assumed to be normalized.
	MetricCosine Metric = "cosine"

	// MetricL2 scores by negated Euclidean distance so that higher is
	// still more similar.
	MetricL2 Metric = "l2"
)

// ScoreEpsilon is the tolerance under which two scores are considered equal
// and ordered by ascending chunk ID instead. See SortResults.
const ScoreEpsilon = 1e-9

// ParseMetric converts a metric identifier. An empty string means cosine.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricCosine:
		return MetricCosine, nil
	case MetricL2:
		return MetricL2, nil
	}
	return "", Errorf(EINVALID, "unknown similarity metric %q", s)
}

// IndexEntry pairs a chunk with its embedding.
type IndexEntry struct {
	Chunk  *Chunk
	Vector []float32
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// Index is an exact (brute-force) nearest-neighbor index over chunk
// embeddings. An Index is immutable once built and safe for concurrent
// searches.
type Index struct {
	dim     int
	metric  Metric
	entries []IndexEntry // ordered by chunk ID
	norms   []float32
}

// NewIndex returns an empty index of the given dimension. This is the
// explicit path to an index without entries.
func NewIndex(dim int, metric Metric) (*Index, error) {
	if dim <= 0 {
		return nil, Errorf(EINVALID, "embedding dimension must be positive, got %d", dim)
	}
	m, err := ParseMetric(string(metric))
	if err != nil {
		return nil, err
	}
	return &Index{dim: dim, metric: m}, nil
}

// BuildIndex builds an index from entries. The embedding dimension is taken
// from the first vector.
// Returns EEMPTY if entries is empty, EDIMENSION if vector lengths differ,
// and EINVALID for nil chunks or duplicate chunk IDs.
func BuildIndex(entries []IndexEntry, metric Metric) (*Index, error) {
	if len(entries) == 0 {
		return nil, Errorf(EEMPTY, "cannot build index from zero entries")
	}
	m, err := ParseMetric(string(metric))
	if err != nil {
		return nil, err
	}

	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, Errorf(EINVALID, "embedding vector must not be empty")
	}

	idx := &Index{
		dim:     dim,
		metric:  m,
		entries: make([]IndexEntry, len(entries)),
		norms:   make([]float32, len(entries)),
	}
	seen := make(map[int]struct{}, len(entries))
	for i, e := range entries {
		if e.Chunk == nil {
			return nil, Errorf(EINVALID, "index entry %d has no chunk", i)
		}
		if len(e.Vector) != dim {
			return nil, Errorf(EDIMENSION, "chunk %d has dimension %d, expected %d", e.Chunk.ID, len(e.Vector), dim)
		}
		if _, ok := seen[e.Chunk.ID]; ok {
			return nil, Errorf(EINVALID, "duplicate chunk ID %d", e.Chunk.ID)
		}
		seen[e.Chunk.ID] = struct{}{}
		idx.entries[i] = IndexEntry{Chunk: e.Chunk, Vector: append([]float32(nil), e.Vector...)}
	}

	sort.Slice(idx.entries, func(a, b int) bool {
		return idx.entries[a].Chunk.ID < idx.entries[b].Chunk.ID
	})
	for i, e := range idx.entries {
		idx.norms[i] = search.Float32s(e.Vector).Magnitude()
	}
	return idx, nil
}

// Dimension returns the embedding dimension.
func (idx *Index) Dimension() int { return idx.dim }

// Metric returns the similarity metric.
func (idx *Index) Metric() Metric { return idx.metric }

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns the entries ordered by chunk ID. The slice is a copy; the
// chunks and vectors it points to must not be modified.
func (idx *Index) Entries() []IndexEntry {
	return append([]IndexEntry(nil), idx.entries...)
}

// Search returns the k entries most similar to query in SortResults order.
// Fewer than k entries yields all of them. Scores are computed in float32.
// Returns EDIMENSION if the query length differs from the index dimension.
func (idx *Index) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != idx.dim {
		return nil, Errorf(EDIMENSION, "query has dimension %d, index expects %d", len(query), idx.dim)
	}
	if k <= 0 {
		return nil, Errorf(EINVALID, "k must be positive, got %d", k)
	}

	results := make([]SearchResult, len(idx.entries))
	q := search.Float32s(query)
	qnorm := q.Magnitude()
	for i, e := range idx.entries {
		results[i] = SearchResult{Chunk: e.Chunk, Score: idx.score(q, qnorm, i)}
	}
	SortResults(results)

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (idx *Index) score(query search.Float32s, qnorm float32, i int) float64 {
	v := idx.entries[i].Vector
	switch idx.metric {
	case MetricL2:
		return -float64(query.EuclideanDistance(v))
	default:
		// Zero vectors have no direction; they score as orthogonal.
		if qnorm == 0 || idx.norms[i] == 0 {
			return 0
		}
		return 1 - float64(query.CosineDistanceWithMagnitude(v, qnorm, idx.norms[i]))
	}
}

// SortResults orders results by descending score. Walking that order, each
// result whose score is within ScoreEpsilon of the highest score of the
// current group joins the group; a result further away starts a new one.
// Each group is then ordered by ascending chunk ID. The outcome depends only
// on the set of results, not on their input order.
func SortResults(results []SearchResult) {
	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Chunk.ID < results[b].Chunk.ID
	})
	for start := 0; start < len(results); {
		end := start + 1
		for end < len(results) && results[start].Score-results[end].Score <= ScoreEpsilon {
			end++
		}
		group := results[start:end]
		sort.Slice(group, func(a, b int) bool {
			return group[a].Chunk.ID < group[b].Chunk.ID
		})
		start = end
	}
}

// IndexRef holds the active index. Readers take a snapshot with Load and
// keep using it for the whole query; a rebuild publishes a new instance with
// Swap without disturbing in-flight readers.
type IndexRef struct {
	p atomic.Pointer[Index]
}

// NewIndexRef returns a reference holding idx, which may be nil.
func NewIndexRef(idx *Index) *IndexRef {
	r := &IndexRef{}
	r.p.Store(idx)
	return r
}

// Load returns the current index snapshot.
func (r *IndexRef) Load() *Index { return r.p.Load() }

// Swap publishes idx and returns the previous index.
func (r *IndexRef) Swap(idx *Index) *Index { return r.p.Swap(idx) }

// IndexStore persists and reloads indexes.
type IndexStore interface {
	// SaveIndex replaces any previously persisted index with idx.
	SaveIndex(ctx context.Context, idx *Index) error

	// LoadIndex reads the persisted index.
	// Returns ECORRUPT if nothing was persisted or the data is malformed.
	LoadIndex(ctx context.Context) (*Index, error)

	// HasIndex reports whether an index has been persisted.
	HasIndex(ctx context.Context) (bool, error)
}

// IndexBuilder builds an index from source documents.
type IndexBuilder interface {
	Build(ctx context.Context, docs []*SourceDocument) (*Index, error)
}

// CheckDimension returns EDIMENSION if a loaded index cannot be queried with
// vectors of the given dimension.
func CheckDimension(idx *Index, dim int) error {
	if dim > 0 && idx.Dimension() != dim {
		return Errorf(EDIMENSION, "index has embedding dimension %d but the embedder produces %d; rebuild the index", idx.Dimension(), dim)
	}
	return nil
}
