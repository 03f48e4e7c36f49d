package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"docchat/types"
)

// PostgresIndex stores chunk vectors in Postgres with the pgvector extension.
// Used when POSTGRES_DSN is configured; search uses cosine distance.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

func NewPostgresIndex(ctx context.Context, connStr string) (*PostgresIndex, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresIndex{pool: pool}, nil
}

func (p *PostgresIndex) Init(ctx context.Context) error {
	query := `
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS chunks (
        id UUID PRIMARY KEY,
        source_path TEXT NOT NULL,
        page_index INT NOT NULL,
        chunk_index INT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(768)
    );

	CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_path);
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresIndex) Add(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch")
	}

	query := `
    INSERT INTO chunks (id, source_path, page_index, chunk_index, content, embedding)
    VALUES ($1, $2, $3, $4, $5, $6)
    `
	for i, c := range chunks {
		_, err := p.pool.Exec(ctx, query,
			uuid.New(), c.SourcePath, c.PageIndex, c.ChunkIndex, c.Text, pgvector.NewVector(vectors[i]),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresIndex) Search(ctx context.Context, queryVec []float32, limit int) ([]types.Retrieved, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT source_path, page_index, chunk_index, content,
		       1-(embedding <=> $1) as score
		FROM chunks
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(queryVec), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.Retrieved
	for rows.Next() {
		var r types.Retrieved
		if err := rows.Scan(&r.SourcePath, &r.PageIndex, &r.ChunkIndex, &r.Text, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (p *PostgresIndex) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM chunks")
	return err
}

func (p *PostgresIndex) Count(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, "SELECT count(*) FROM chunks").Scan(&count)
	return count, err
}

func (p *PostgresIndex) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
