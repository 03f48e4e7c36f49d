package api

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docchat/cite"
	"docchat/store"
	"docchat/types"
)

type FileHandler struct {
	registry  store.Registry
	extractor PageExtractor
}

func NewFileHandler(registry store.Registry, extractor PageExtractor) *FileHandler {
	return &FileHandler{
		registry:  registry,
		extractor: extractor,
	}
}

func (h *FileHandler) HandlePdfNames(c *fiber.Ctx) error {
	return c.JSON(types.PdfNamesResponse{PdfNames: h.registry.Names()})
}

// HandleGetPdf serves the raw bytes of an uploaded PDF. Only registered
// documents are served, so a crafted name can never escape the uploads root.
func (h *FileHandler) HandleGetPdf(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return ErrBadRequest("invalid file name")
	}

	doc, ok := h.registry.Lookup(name)
	if !ok {
		return ErrNotFound("PDF")
	}
	return c.SendFile(doc.Path)
}

// HandlePageText returns the text fragments of one page (1-indexed) so a
// viewer can highlight the cited span.
func (h *FileHandler) HandlePageText(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return ErrBadRequest("invalid file name")
	}
	page := c.QueryInt("page", 1)
	page = cite.PageDisplay(page - 1)

	doc, ok := h.registry.Lookup(name)
	if !ok {
		return ErrNotFound("PDF")
	}

	pages, err := h.extractor.Pages(doc.Path)
	if err != nil {
		return NewError(fiber.StatusInternalServerError, "could not read the document")
	}
	if page > len(pages) {
		return ErrNotFound("page")
	}

	return c.JSON(types.PageTextResponse{
		Source:    doc.Name,
		Page:      page,
		Fragments: fragmentsOf(pages[page-1].Text),
	})
}

// fragmentsOf splits page text into the line-level fragments the highlight
// matcher compares against.
func fragmentsOf(text string) []string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments
}
