package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"docchat/types"
)

// MemoryIndex is a brute-force cosine similarity index held in process
// memory. Vectors are assumed L2-normalized by the embedder, so the dot
// product is the cosine score.
type MemoryIndex struct {
	mu      sync.RWMutex
	chunks  []types.Chunk
	vectors [][]float32
}

func NewMemoryIndex() *MemoryIndex { return &MemoryIndex{} }

func (m *MemoryIndex) Add(_ context.Context, chunks []types.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.vectors) > 0 {
		dim := len(m.vectors[0])
		for _, v := range vectors {
			if len(v) != dim {
				return errors.New("vector dimension mismatch")
			}
		}
	}
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, limit int) ([]types.Retrieved, error) {
	if len(vector) == 0 {
		return nil, errors.New("empty query vector")
	}
	if limit <= 0 {
		limit = 5
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]types.Retrieved, len(m.chunks))
	for i := range m.chunks {
		results[i] = types.Retrieved{
			Chunk: m.chunks[i],
			Score: dot(m.vectors[i], vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

func (m *MemoryIndex) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.vectors = nil
	return nil
}

func (m *MemoryIndex) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
