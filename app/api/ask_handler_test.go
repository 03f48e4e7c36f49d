package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/store"
	"docchat/types"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s stubEmbedder) Embed(string) ([]float32, error) { return s.vec, s.err }

type stubSynth struct {
	answer string
	err    error
}

func (s stubSynth) Answer(context.Context, string, []string) (string, error) {
	return s.answer, s.err
}

func newAskApp(t *testing.T, index store.Indexer, synth AnswerSynthesizer) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewAskHandler(index, stubEmbedder{vec: []float32{1, 0}}, synth, "uploads", 5)
	app.Post("/ask", h.HandleAsk)
	return app
}

func seedIndex(t *testing.T, chunks ...types.Chunk) *store.MemoryIndex {
	t.Helper()
	index := store.NewMemoryIndex()
	vectors := make([][]float32, len(chunks))
	for i := range chunks {
		vectors[i] = []float32{1, 0}
	}
	require.NoError(t, index.Add(context.Background(), chunks, vectors))
	return index
}

func askRequest(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleAsk_Success(t *testing.T) {
	index := seedIndex(t,
		types.Chunk{Text: "chunk one", SourcePath: "uploads/a.pdf", PageIndex: 0, ChunkIndex: 0},
		types.Chunk{Text: "chunk two same page", SourcePath: "uploads/a.pdf", PageIndex: 0, ChunkIndex: 1},
		types.Chunk{Text: "chunk three", SourcePath: "uploads/b.pdf", PageIndex: 4, ChunkIndex: 0},
	)
	app := newAskApp(t, index, stubSynth{answer: "the answer"})

	resp := askRequest(t, app, `{"question":"what?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body types.AskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "the answer", body.Answer)

	// two chunks from the same page collapse into one citation
	require.Len(t, body.Context, 2)
	assert.Equal(t, "a.pdf", body.Context[0].SourceName)
	assert.Equal(t, 1, body.Context[0].PageDisplay)
	assert.Equal(t, "b.pdf", body.Context[1].SourceName)
	assert.Equal(t, 5, body.Context[1].PageDisplay)
}

func TestHandleAsk_QuotaFailureMapsTo429(t *testing.T) {
	index := seedIndex(t, types.Chunk{Text: "x", SourcePath: "uploads/a.pdf"})
	app := newAskApp(t, index, stubSynth{err: errors.New("rate limit reached for model")})

	resp := askRequest(t, app, `{"question":"what?"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestHandleAsk_UnknownFailureMapsTo500(t *testing.T) {
	index := seedIndex(t, types.Chunk{Text: "x", SourcePath: "uploads/a.pdf"})
	app := newAskApp(t, index, stubSynth{err: errors.New("some novel failure")})

	resp := askRequest(t, app, `{"question":"what?"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestHandleAsk_EmptyIndex(t *testing.T) {
	app := newAskApp(t, store.NewMemoryIndex(), stubSynth{answer: "never reached"})

	resp := askRequest(t, app, `{"question":"what?"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleAsk_MissingQuestion(t *testing.T) {
	index := seedIndex(t, types.Chunk{Text: "x"})
	app := newAskApp(t, index, stubSynth{})

	resp := askRequest(t, app, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleAsk_InvalidJSON(t *testing.T) {
	index := seedIndex(t, types.Chunk{Text: "x"})
	app := newAskApp(t, index, stubSynth{})

	resp := askRequest(t, app, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
