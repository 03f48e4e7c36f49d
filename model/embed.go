package model

import (
	"log"
	"os"
)

// EmbedderInterface converts text into a vector representation.
type EmbedderInterface interface {
	Embed(text string) ([]float32, error)
}

const (
	defaultOllamaURL   = "http://localhost:11434/api/embeddings"
	defaultOllamaModel = "nomic-embed-text"
)

// NewEmbedder builds the embedder from environment configuration. A local
// Ollama model is used, so no embedding-provider API key is required.
func NewEmbedder() EmbedderInterface {
	apiURL := os.Getenv("OLLAMA_EMBEDDING_URL")
	if apiURL == "" {
		apiURL = defaultOllamaURL
	}
	model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if model == "" {
		model = defaultOllamaModel
	}

	log.Printf("[EMBEDDER] using local Ollama embeddings (%s)", model)
	return NewOllamaEmbedder(apiURL, model)
}
