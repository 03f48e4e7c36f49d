// Package loader turns an uploaded PDF into indexable chunks: per-page text
// extraction with an OCR fallback for scanned pages, then fixed-window
// chunking that preserves page provenance.
package loader

import (
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	"docchat/config"
	"docchat/types"
)

// TextLayer reads the embedded text of every page of a PDF, in page order.
type TextLayer interface {
	PageTexts(path string) ([]string, error)
}

// OCR recognizes the text of a single page, 0-indexed.
type OCR interface {
	PageText(path string, pageIndex int) (string, error)
}

// Extractor produces the ordered (page, text) sequence for a document.
// Extraction is deterministic, so calling Pages again restarts it.
type Extractor struct {
	layer      TextLayer
	ocr        OCR
	minTextLen int
}

func NewExtractor(cfg config.Extraction) *Extractor {
	return &Extractor{
		layer:      pdfTextLayer{},
		ocr:        newTesseractOCR(cfg.OCRLang),
		minTextLen: cfg.MinTextLen,
	}
}

// Pages returns one entry per page, 0-indexed. A page whose text layer is
// shorter than the configured threshold is treated as scanned and run through
// OCR. A page where both methods fail yields an empty string; only a document
// that cannot be opened at all fails the call.
func (e *Extractor) Pages(path string) ([]types.PageText, error) {
	texts, err := e.layer.PageTexts(path)
	if err != nil {
		return nil, err
	}

	pages := make([]types.PageText, len(texts))
	for i, text := range texts {
		if len(strings.TrimSpace(text)) < e.minTextLen {
			recognized, err := e.ocr.PageText(path, i)
			if err != nil {
				log.Printf("[EXTRACT] ocr fallback failed for page %d: %v", i+1, err)
			} else if len(strings.TrimSpace(recognized)) > len(strings.TrimSpace(text)) {
				text = recognized
			}
		}
		pages[i] = types.PageText{Index: i, Text: text}
	}
	return pages, nil
}

type pdfTextLayer struct{}

func (pdfTextLayer) PageTexts(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	texts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		texts = append(texts, pageText(r, i))
	}
	return texts, nil
}

// pageText extracts one page, absorbing both errors and panics: the content
// stream parser panics on some malformed pages, and one bad page must not
// fail the whole document.
func pageText(r *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[EXTRACT] page %d text layer panic: %v", pageNum, rec)
			text = ""
		}
	}()

	p := r.Page(pageNum)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
