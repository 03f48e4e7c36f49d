package types

import (
	"time"

	"github.com/google/uuid"
)

// PageText is one page of extracted text, 0-indexed.
type PageText struct {
	Index int
	Text  string
}

// Chunk is the unit stored in the embedding index. Immutable once created;
// chunks only disappear when the whole index is cleared.
type Chunk struct {
	Text       string
	SourcePath string
	PageIndex  int
	ChunkIndex int
}

// Retrieved is a chunk returned from a similarity search. Slice order is
// retrieval rank order.
type Retrieved struct {
	Chunk
	Score float64
}

// Citation is a display-ready (document, page) reference. Derived per answer,
// never stored. PageDisplay is 1-indexed and always >= 1.
type Citation struct {
	SourceName  string `json:"source"`
	PageDisplay int    `json:"page"`
	Snippet     string `json:"snippet,omitempty"`
}

// Document is a registry entry for an uploaded PDF.
type Document struct {
	ID         uuid.UUID
	Name       string
	Path       string
	UploadedAt time.Time
}

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChatTurn is one message in a client chat session. Appended only.
type ChatTurn struct {
	Role      string
	Text      string
	Citations []Citation
}
