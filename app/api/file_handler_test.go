package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/store"
	"docchat/types"
)

func newFileApp(t *testing.T, extractor stubExtractor) (*fiber.App, *store.FileRegistry) {
	t.Helper()
	registry, err := store.NewFileRegistry(t.TempDir())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewFileHandler(registry, extractor)
	app.Get("/get-pdf-names", h.HandlePdfNames)
	app.Get("/get-pdf/:name", h.HandleGetPdf)
	app.Get("/get-page-text/:name", h.HandlePageText)
	return app, registry
}

func registerPDF(t *testing.T, registry *store.FileRegistry, name string) types.Document {
	t.Helper()
	path := filepath.Join(registry.Root(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 bytes"), 0644))
	doc := types.Document{ID: uuid.New(), Name: name, Path: path}
	registry.Add(doc)
	return doc
}

func TestHandlePdfNames(t *testing.T) {
	app, registry := newFileApp(t, stubExtractor{})
	registerPDF(t, registry, "a.pdf")
	registerPDF(t, registry, "b.pdf")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/get-pdf-names", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body types.PdfNamesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, body.PdfNames)
}

func TestHandleGetPdf(t *testing.T) {
	app, registry := newFileApp(t, stubExtractor{})
	registerPDF(t, registry, "a.pdf")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/get-pdf/a.pdf", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/get-pdf/missing.pdf", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlePageText(t *testing.T) {
	extractor := stubExtractor{pages: []types.PageText{
		{Index: 0, Text: "first line\n\nsecond line\n"},
		{Index: 1, Text: "page two text"},
	}}
	app, registry := newFileApp(t, extractor)
	registerPDF(t, registry, "a.pdf")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/get-page-text/a.pdf?page=1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body types.PageTextResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, []string{"first line", "second line"}, body.Fragments)

	// page out of range
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/get-page-text/a.pdf?page=9", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// page below 1 floors to the first page
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/get-page-text/a.pdf?page=-2", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Page)
}
