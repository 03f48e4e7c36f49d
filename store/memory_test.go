package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/types"
)

func TestMemoryIndex_AddAndSearch(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := []types.Chunk{
		{Text: "A", SourcePath: "uploads/a.pdf", PageIndex: 0, ChunkIndex: 0},
		{Text: "B", SourcePath: "uploads/b.pdf", PageIndex: 1, ChunkIndex: 1},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	require.NoError(t, idx.Add(ctx, chunks, vectors))

	results, err := idx.Search(ctx, []float32{0.9, 0.1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Text)
	assert.Equal(t, "uploads/a.pdf", results[0].SourcePath)
}

func TestMemoryIndex_RankOrder(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := []types.Chunk{
		{Text: "far", ChunkIndex: 0},
		{Text: "near", ChunkIndex: 1},
		{Text: "mid", ChunkIndex: 2},
	}
	vectors := [][]float32{{0, 1}, {1, 0}, {0.7, 0.7}}
	require.NoError(t, idx.Add(ctx, chunks, vectors))

	results, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "near", results[0].Text)
	assert.Equal(t, "mid", results[1].Text)
	assert.Equal(t, "far", results[2].Text)
}

func TestMemoryIndex_SearchLimitBounds(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[]types.Chunk{{Text: "only"}},
		[][]float32{{1, 0}},
	))

	results, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryIndex_LengthMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.Add(context.Background(), []types.Chunk{{Text: "x"}}, nil)
	assert.Error(t, err)
}

func TestMemoryIndex_ClearAndCount(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []types.Chunk{{Text: "x"}}, [][]float32{{1}}))
	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, idx.Clear(ctx))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryIndex_EmptyQueryVector(t *testing.T) {
	idx := NewMemoryIndex()
	_, err := idx.Search(context.Background(), nil, 5)
	assert.Error(t, err)
}
