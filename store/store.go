package store

import (
	"context"

	"docchat/types"
)

// Indexer is the embedding index over chunk vectors. Append-only during
// normal operation; Clear drops the whole index when a new session starts.
type Indexer interface {
	Add(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, limit int) ([]types.Retrieved, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Registry maps uploaded document names to their on-disk location. Injected
// into handlers so tests can swap or reset it.
type Registry interface {
	Add(doc types.Document)
	Lookup(name string) (types.Document, bool)
	Names() []string
	Remove(name string) error
	Reset() error
	Root() string
}
