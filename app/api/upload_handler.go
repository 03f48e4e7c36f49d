package api

import (
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docchat/config"
	"docchat/loader"
	"docchat/model"
	"docchat/store"
	"docchat/types"
)

// PageExtractor yields the per-page text of a stored PDF.
type PageExtractor interface {
	Pages(path string) ([]types.PageText, error)
}

type UploadHandler struct {
	registry  store.Registry
	index     store.Indexer
	embedder  model.EmbedderInterface
	extractor PageExtractor
	cfg       *config.AppConfig
}

func NewUploadHandler(registry store.Registry, index store.Indexer, embedder model.EmbedderInterface, extractor PageExtractor, cfg *config.AppConfig) *UploadHandler {
	return &UploadHandler{
		registry:  registry,
		index:     index,
		embedder:  embedder,
		extractor: extractor,
		cfg:       cfg,
	}
}

// HandleUpload starts a fresh session from the posted PDFs: save, extract,
// chunk, embed, index. The request blocks until indexing completes. Any
// indexing failure removes this request's files so no partial state remains.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return ErrBadRequest("no files part in the request")
	}
	files := form.File["files"]
	if len(files) == 0 || files[0].Filename == "" {
		return ErrBadRequest("no selected file")
	}

	// reject the whole batch before any file is saved or any state cleared,
	// so a bad filename can never leave a half-registered session behind
	for _, fh := range files {
		if !allowedFile(sanitizeFilename(fh.Filename)) {
			return ErrBadRequest(fmt.Sprintf("file type not allowed for %s", fh.Filename))
		}
	}

	// each upload replaces the previous session
	if err := h.registry.Reset(); err != nil {
		return err
	}
	if err := h.index.Clear(c.Context()); err != nil {
		return err
	}

	var docs []types.Document
	for _, fh := range files {
		name := sanitizeFilename(fh.Filename)
		dst := path.Join(h.registry.Root(), name)
		if err := c.SaveFile(fh, dst); err != nil {
			h.cleanup(c)
			return err
		}

		doc := types.Document{ID: uuid.New(), Name: name, Path: dst, UploadedAt: time.Now()}
		h.registry.Add(doc)
		docs = append(docs, doc)
	}

	total := 0
	for _, doc := range docs {
		n, err := h.ingest(c, doc)
		if err != nil {
			h.cleanup(c)
			log.Printf("[UPLOAD] ingestion failed for %s: %v", doc.Name, err)
			return NewError(fiber.StatusInternalServerError, "an error occurred during embedding")
		}
		total += n
	}

	if total == 0 {
		h.cleanup(c)
		return NewError(fiber.StatusInternalServerError,
			"could not create vector store. The PDF might be empty or corrupted.")
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	log.Printf("[UPLOAD] indexed %d chunks from %d file(s)", total, len(docs))
	return c.JSON(types.UploadResponse{
		Message:       "Files uploaded and vector store ready",
		UploadedFiles: names,
	})
}

func (h *UploadHandler) ingest(c *fiber.Ctx, doc types.Document) (int, error) {
	pages, err := h.extractor.Pages(doc.Path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	chunks := loader.SplitPages(pages, doc.Path, h.cfg.Retrieval.ChunkSize, h.cfg.Retrieval.Overlap())
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := h.embedder.Embed(chunk.Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", chunk.ChunkIndex, err)
		}
		vectors[i] = vec
	}

	if err := h.index.Add(c.Context(), chunks, vectors); err != nil {
		return 0, fmt.Errorf("index %s: %w", doc.Name, err)
	}
	return len(chunks), nil
}

func (h *UploadHandler) cleanup(c *fiber.Ctx) {
	if err := h.registry.Reset(); err != nil {
		log.Printf("[UPLOAD] cleanup: %v", err)
	}
	if err := h.index.Clear(c.Context()); err != nil {
		log.Printf("[UPLOAD] cleanup: %v", err)
	}
}

func allowedFile(name string) bool {
	return strings.EqualFold(path.Ext(name), ".pdf")
}

// sanitizeFilename reduces a client-supplied filename to a safe base name.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
