package loader

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// tesseractOCR rasterizes a single page and runs tesseract on it. The page is
// first extracted into its own PDF with pdfcpu, converted to PNG with
// pdftoppm (Poppler), then recognized. Every step is best-effort; the caller
// degrades to the text-layer result on error.
type tesseractOCR struct {
	lang string
}

func newTesseractOCR(lang string) *tesseractOCR {
	return &tesseractOCR{lang: lang}
}

func (t *tesseractOCR) PageText(path string, pageIndex int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docchat-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pagePDF, err := extractSinglePage(path, pageIndex, tmpDir)
	if err != nil {
		return "", err
	}

	image, err := rasterize(pagePDF, tmpDir)
	if err != nil {
		return "", err
	}

	return t.recognize(image)
}

// extractSinglePage writes page pageIndex (0-indexed) of the document into
// its own PDF under dir and returns its path.
func extractSinglePage(path string, pageIndex int, dir string) (string, error) {
	pages := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.ExtractPagesFile(path, dir, pages, nil); err != nil {
		return "", fmt.Errorf("extract page %d: %w", pageIndex+1, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no page file produced for page %d", pageIndex+1)
	}
	return matches[0], nil
}

func rasterize(pagePDF, dir string) (string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", fmt.Errorf("pdftoppm not available: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.Command("pdftoppm", "-png", "-r", "300", pagePDF, prefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("rasterize page: %w", err)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no image produced from %s", filepath.Base(pagePDF))
	}
	sort.Strings(images)
	return images[0], nil
}

func (t *tesseractOCR) recognize(image string) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not available: %w", err)
	}

	cmd := exec.Command("tesseract", image, "stdout", "-l", t.lang, "--psm", "3")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
