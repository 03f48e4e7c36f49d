package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Retrieval holds the tunables of the retrieval pipeline. The numbers are
// configuration, not contracts: citation and dedup behaviour must hold for any
// values here.
type Retrieval struct {
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is a pointer so an explicit 0 is distinguishable from an
	// absent key; use Overlap() to read it.
	ChunkOverlap *int `yaml:"chunk_overlap"`
	TopK         int  `yaml:"top_k"`
}

// Overlap returns the configured chunk overlap.
func (r Retrieval) Overlap() int {
	if r.ChunkOverlap == nil {
		return defaultChunkOverlap
	}
	return *r.ChunkOverlap
}

// Extraction configures the page extractor and OCR fallback.
type Extraction struct {
	// MinTextLen is the text-layer length below which a page is treated as
	// scanned and sent to OCR.
	MinTextLen int    `yaml:"min_text_len"`
	OCRLang    string `yaml:"ocr_lang"`
}

// Viewer configures snippet highlighting.
type Viewer struct {
	// MinSnippetLen guards against trivial-token matches like "the".
	MinSnippetLen int `yaml:"min_snippet_len"`
}

type AppConfig struct {
	Retrieval  Retrieval  `yaml:"retrieval"`
	Extraction Extraction `yaml:"extraction"`
	Viewer     Viewer     `yaml:"viewer"`
}

// Load reads a config from path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

const defaultChunkOverlap = 150

func applyDefaults(cfg *AppConfig) {
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 1000
	}
	if cfg.Retrieval.ChunkOverlap == nil {
		overlap := defaultChunkOverlap
		cfg.Retrieval.ChunkOverlap = &overlap
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Extraction.MinTextLen == 0 {
		cfg.Extraction.MinTextLen = 32
	}
	if cfg.Extraction.OCRLang == "" {
		cfg.Extraction.OCRLang = "eng"
	}
	if cfg.Viewer.MinSnippetLen == 0 {
		cfg.Viewer.MinSnippetLen = 12
	}
}
