package mock

import (
	"context"

	"github.com/fwojciec/docbot"
)

var (
	_ docbot.IndexStore   = (*IndexStore)(nil)
	_ docbot.IndexBuilder = (*IndexBuilder)(nil)
)

// IndexStore is a mock implementation of docbot.IndexStore.
type IndexStore struct {
	SaveIndexFn func(ctx context.Context, idx *docbot.Index) error
	LoadIndexFn func(ctx context.Context) (*docbot.Index, error)
	HasIndexFn  func(ctx context.Context) (bool, error)
}

func (s *IndexStore) SaveIndex(ctx context.Context, idx *docbot.Index) error {
	return s.SaveIndexFn(ctx, idx)
}

func (s *IndexStore) LoadIndex(ctx context.Context) (*docbot.Index, error) {
	return s.LoadIndexFn(ctx)
}

func (s *IndexStore) HasIndex(ctx context.Context) (bool, error) {
	return s.HasIndexFn(ctx)
}

// IndexBuilder is a mock implementation of docbot.IndexBuilder.
type IndexBuilder struct {
	BuildFn func(ctx context.Context, docs []*docbot.SourceDocument) (*docbot.Index, error)
}

func (b *IndexBuilder) Build(ctx context.Context, docs []*docbot.SourceDocument) (*docbot.Index, error) {
	return b.BuildFn(ctx, docs)
}
