package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/docbot"
)

// FormatVersion identifies the layout of persisted indexes.
const FormatVersion = 1

// Compile-time interface verification.
var _ docbot.IndexStore = (*IndexStore)(nil)

// IndexInfo describes the persisted index without loading its vectors.
type IndexInfo struct {
	FormatVersion int
	Dimension     int
	Metric        docbot.Metric
	Entries       int
	CreatedAt     time.Time
}

// IndexStore implements docbot.IndexStore using SQLite. Only one index is
// kept: saving replaces the previous one atomically.
type IndexStore struct {
	db *DB

	// Dimension, when positive, is the embedding dimension the caller will
	// query with. Loading an index of another dimension fails with
	// EDIMENSION before any vectors are read.
	Dimension int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewIndexStore creates a new IndexStore.
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db, Now: time.Now}
}

// SaveIndex replaces the persisted index with idx in one transaction.
func (s *IndexStore) SaveIndex(ctx context.Context, idx *docbot.Index) error {
	if idx == nil {
		return docbot.Errorf(docbot.EINVALID, "index required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM index_chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM index_meta`); err != nil {
		return fmt.Errorf("clear meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, format_version, dimension, metric, entry_count, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
	`, FormatVersion, idx.Dimension(), string(idx.Metric()), idx.Len(),
		s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_chunks (id, source_id, content, content_hash, start_offset, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range idx.Entries() {
		if _, err := stmt.ExecContext(ctx, e.Chunk.ID, e.Chunk.SourceID, e.Chunk.Text,
			hashContent(e.Chunk.Text), e.Chunk.Offset, encodeVector(e.Vector)); err != nil {
			return fmt.Errorf("insert chunk %d: %w", e.Chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

// Info returns metadata of the persisted index.
// Returns ENOTFOUND if no index was saved.
func (s *IndexStore) Info(ctx context.Context) (*IndexInfo, error) {
	var info IndexInfo
	var metric, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT format_version, dimension, metric, entry_count, created_at
		FROM index_meta
		WHERE id = 1
	`).Scan(&info.FormatVersion, &info.Dimension, &metric, &info.Entries, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docbot.Errorf(docbot.ENOTFOUND, "no index has been built")
	}
	if err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "read index metadata: %v", err)
	}

	if info.FormatVersion != FormatVersion {
		return nil, docbot.Errorf(docbot.ECORRUPT, "unsupported index format version %d", info.FormatVersion)
	}
	if info.Dimension <= 0 {
		return nil, docbot.Errorf(docbot.ECORRUPT, "invalid index dimension %d", info.Dimension)
	}
	if info.Metric, err = docbot.ParseMetric(metric); err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "invalid index metric %q", metric)
	}
	if info.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "%v", err)
	}
	return &info, nil
}

// HasIndex reports whether index metadata has been saved. It does not
// validate the index.
func (s *IndexStore) HasIndex(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_meta WHERE id = 1`).Scan(&n); err != nil {
		return false, fmt.Errorf("check index metadata: %w", err)
	}
	return n > 0, nil
}

// LoadIndex reads the persisted index and verifies every entry against the
// metadata and its content hash. A missing index is ECORRUPT like any other
// unreadable one; use HasIndex to tell them apart.
func (s *IndexStore) LoadIndex(ctx context.Context) (*docbot.Index, error) {
	info, err := s.Info(ctx)
	if docbot.ErrorCode(err) == docbot.ENOTFOUND {
		return nil, docbot.Errorf(docbot.ECORRUPT, "no index has been persisted")
	}
	if err != nil {
		return nil, err
	}
	if s.Dimension > 0 && info.Dimension != s.Dimension {
		return nil, docbot.Errorf(docbot.EDIMENSION, "persisted index has embedding dimension %d but %d is required; rebuild the index", info.Dimension, s.Dimension)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, content, content_hash, start_offset, embedding
		FROM index_chunks
		ORDER BY id
	`)
	if err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "read index chunks: %v", err)
	}
	defer rows.Close()

	entries := make([]docbot.IndexEntry, 0, info.Entries)
	for rows.Next() {
		var c docbot.Chunk
		var hash string
		var blob []byte
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Text, &hash, &c.Offset, &blob); err != nil {
			return nil, docbot.Errorf(docbot.ECORRUPT, "scan chunk: %v", err)
		}
		if hash != hashContent(c.Text) {
			return nil, docbot.Errorf(docbot.ECORRUPT, "chunk %d content does not match its hash", c.ID)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, docbot.Errorf(docbot.ECORRUPT, "chunk %d: %v", c.ID, err)
		}
		if len(vec) != info.Dimension {
			return nil, docbot.Errorf(docbot.ECORRUPT, "chunk %d has dimension %d, index declares %d", c.ID, len(vec), info.Dimension)
		}
		entries = append(entries, docbot.IndexEntry{Chunk: &c, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "read index chunks: %v", err)
	}
	if len(entries) != info.Entries {
		return nil, docbot.Errorf(docbot.ECORRUPT, "index declares %d entries but %d are stored", info.Entries, len(entries))
	}

	if len(entries) == 0 {
		return docbot.NewIndex(info.Dimension, info.Metric)
	}
	idx, err := docbot.BuildIndex(entries, info.Metric)
	if err != nil {
		return nil, docbot.Errorf(docbot.ECORRUPT, "rebuild index: %v", docbot.ErrorMessage(err))
	}
	return idx, nil
}

func (s *IndexStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
