package api

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"docchat/app/agent"
	"docchat/cite"
	"docchat/model"
	"docchat/store"
	"docchat/types"
)

// AnswerSynthesizer produces an answer from a question and ranked context
// texts.
type AnswerSynthesizer interface {
	Answer(ctx context.Context, question string, contextTexts []string) (string, error)
}

type AskHandler struct {
	index       store.Indexer
	embedder    model.EmbedderInterface
	synth       AnswerSynthesizer
	uploadsRoot string
	topK        int
}

func NewAskHandler(index store.Indexer, embedder model.EmbedderInterface, synth AnswerSynthesizer, uploadsRoot string, topK int) *AskHandler {
	return &AskHandler{
		index:       index,
		embedder:    embedder,
		synth:       synth,
		uploadsRoot: uploadsRoot,
		topK:        topK,
	}
}

// HandleAsk retrieves the chunks nearest to the question, resolves them into
// citations and forwards question plus context to the LLM. Answer failures
// are classified into a stable category before reaching the client.
func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	var params types.AskParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest("invalid JSON request")
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	count, err := h.index.Count(c.Context())
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBadRequest("vector store not initialized. Please upload PDF files first.")
	}

	vec, err := h.embedder.Embed(params.Question)
	if err != nil {
		log.Printf("[ASK] embedding failed: %v", err)
		return NewError(fiber.StatusInternalServerError, "could not process the question")
	}

	results, err := h.index.Search(c.Context(), vec, h.topK)
	if err != nil {
		log.Printf("[ASK] search failed: %v", err)
		return NewError(fiber.StatusInternalServerError, "could not search the document index")
	}

	citations := cite.Resolve(results, h.uploadsRoot)

	contextTexts := make([]string, len(results))
	for i, r := range results {
		contextTexts[i] = r.Text
	}

	answer, err := h.synth.Answer(c.Context(), params.Question, contextTexts)
	if err != nil {
		category := agent.Classify(err)
		log.Printf("[ASK] answer failed (%v): %v", category, err)
		return NewError(category.Status(), category.Message())
	}

	return c.JSON(types.AskResponse{
		Answer:  answer,
		Context: citations,
	})
}
