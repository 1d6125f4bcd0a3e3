package docbot

import "unicode/utf8"

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried from coarsest to finest. Markdown section
// breaks come first, then paragraphs, lines, sentences and words. When none
// fits, the text is cut at the size limit.
var DefaultSeparators = []string{"\n\n## ", "\n### ", "\n## ", "\n# ", "\n\n", "\n", ". ", " "}

// Chunk is a bounded fragment of a source document, the unit of retrieval.
// Length and Offset are measured in runes.
type Chunk struct {
	ID       int    `json:"id"`
	SourceID string `json:"sourceId"`
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.SourceID == "" {
		return Errorf(EINVALID, "chunk source ID required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	if c.Offset < 0 {
		return Errorf(EINVALID, "chunk offset must not be negative")
	}
	return nil
}

// End returns the rune position just past the chunk within its source.
func (c *Chunk) End() int {
	return c.Offset + utf8.RuneCountInString(c.Text)
}

// Chunker splits raw text into overlapping fragments of at most MaxSize
// runes. Consecutive chunks of one source share exactly Overlap runes.
type Chunker struct {
	maxSize    int
	overlap    int
	separators [][]rune
}

// NewChunker returns a Chunker. Separators default to DefaultSeparators.
// Returns EINVALID unless 0 <= overlap < maxSize.
func NewChunker(maxSize, overlap int, separators ...string) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, Errorf(EINVALID, "max chunk size must be positive, got %d", maxSize)
	}
	if overlap < 0 {
		return nil, Errorf(EINVALID, "chunk overlap must not be negative, got %d", overlap)
	}
	if maxSize <= overlap {
		return nil, Errorf(EINVALID, "max chunk size %d must exceed chunk overlap %d", maxSize, overlap)
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	c := &Chunker{maxSize: maxSize, overlap: overlap}
	for _, sep := range separators {
		if sep == "" {
			continue
		}
		c.separators = append(c.separators, []rune(sep))
	}
	return c, nil
}

// MaxSize returns the maximum chunk length in runes.
func (c *Chunker) MaxSize() int { return c.maxSize }

// Overlap returns the number of runes shared by consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits the document's raw text. Returned chunks carry no ID; use
// ChunkDocuments to assign them. Empty text yields no chunks.
func (c *Chunker) Chunk(doc *SourceDocument) []*Chunk {
	text := []rune(doc.RawText)
	n := len(text)
	if n == 0 {
		return nil
	}

	var chunks []*Chunk
	start := 0
	for {
		if n-start <= c.maxSize {
			return append(chunks, newChunk(doc.SourceID, text, start, n))
		}
		end := c.cut(text, start)
		chunks = append(chunks, newChunk(doc.SourceID, text, start, end))
		start = end - c.overlap
	}
}

// cut returns where the chunk beginning at start should end. It picks the
// last occurrence of the coarsest separator in the back half of the window,
// leaving the separator to open the next chunk. Every candidate end lies in
// (start+overlap, start+maxSize] so the next chunk always advances.
func (c *Chunker) cut(text []rune, start int) int {
	minRel := max(c.overlap+1, c.maxSize/2)
	for _, sep := range c.separators {
		maxRel := c.maxSize
		if last := len(text) - start - len(sep); last < maxRel {
			maxRel = last
		}
		for p := maxRel; p >= minRel; p-- {
			if hasPrefixAt(text, start+p, sep) {
				return start + p
			}
		}
	}
	return start + c.maxSize
}

func hasPrefixAt(text []rune, pos int, sep []rune) bool {
	if pos+len(sep) > len(text) {
		return false
	}
	for i, r := range sep {
		if text[pos+i] != r {
			return false
		}
	}
	return true
}

func newChunk(sourceID string, text []rune, start, end int) *Chunk {
	return &Chunk{
		SourceID: sourceID,
		Text:     string(text[start:end]),
		Offset:   start,
	}
}

// ChunkDocuments chunks every document in order and assigns monotonically
// increasing chunk IDs starting at 1.
func ChunkDocuments(c *Chunker, docs []*SourceDocument) []*Chunk {
	var all []*Chunk
	for _, doc := range docs {
		for _, chunk := range c.Chunk(doc) {
			chunk.ID = len(all) + 1
			all = append(all, chunk)
		}
	}
	return all
}
