package main

import (
	"fmt"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/fs"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	idx, err := buildIndex(deps, c.Corpus)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d chunks (dimension %d, %s) from %s\n", idx.Len(), idx.Dimension(), idx.Metric(), c.Corpus)
	return nil
}

// buildIndex indexes the corpus file and persists the result.
func buildIndex(deps *Dependencies, corpusPath string) (*docbot.Index, error) {
	docs, err := fs.ReadCorpus(corpusPath)
	if err != nil {
		return nil, err
	}

	idx, err := deps.Builder.Build(deps.Ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := deps.Store.SaveIndex(deps.Ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// loadIndex makes the persisted index active. When none is persisted and
// corpusPath is set, the index is built from the corpus first.
func loadIndex(deps *Dependencies, corpusPath string) (*docbot.Index, error) {
	ok, err := deps.Store.HasIndex(deps.Ctx)
	if err != nil {
		return nil, err
	}

	var idx *docbot.Index
	switch {
	case ok:
		if idx, err = deps.Store.LoadIndex(deps.Ctx); err != nil {
			return nil, err
		}
	case corpusPath != "":
		fmt.Fprintf(deps.Stderr, "No index found; building one from %s\n", corpusPath)
		if idx, err = buildIndex(deps, corpusPath); err != nil {
			return nil, err
		}
	default:
		return nil, docbot.Errorf(docbot.ENOTFOUND, "no index found. Run 'docbot index' or pass --corpus")
	}

	if err := docbot.CheckDimension(idx, deps.Dimension); err != nil {
		return nil, err
	}
	deps.Index.Swap(idx)
	return idx, nil
}
