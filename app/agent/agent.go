// Package agent calls the hosted LLM to synthesize an answer from retrieved
// context and classifies its failures into stable categories.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultAPIURL  = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel   = "gemma2-9b-it"
	defaultTimeout = 120 * time.Second

	// maxContextTokens bounds the stuffed context; chunks past the budget
	// are dropped from the tail, keeping the highest-ranked ones.
	maxContextTokens = 6000
)

// Synthesizer answers questions over provided context via an
// OpenAI-compatible chat-completions endpoint.
type Synthesizer struct {
	client *http.Client
	apiURL string
	apiKey string
	model  string
}

func NewSynthesizer() (*Synthesizer, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set")
	}

	apiURL := os.Getenv("LLM_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = defaultModel
	}

	return &Synthesizer{
		client: &http.Client{Timeout: defaultTimeout},
		apiURL: apiURL,
		apiKey: apiKey,
		model:  llmModel,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Answer sends the question with the retrieved chunk texts stuffed into the
// prompt and returns the model's answer.
func (s *Synthesizer) Answer(ctx context.Context, question string, contextTexts []string) (string, error) {
	start := time.Now()
	defer func() {
		log.Printf("[AGENT] LLM answer took %v", time.Since(start))
	}()

	budgeted := TrimContext(contextTexts, maxContextTokens, countTokens)
	prompt := buildPrompt(question, budgeted)

	reqBody, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (status %d): %s", resp.StatusCode, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func buildPrompt(question string, contextTexts []string) string {
	context := strings.Join(contextTexts, "\n\n")
	return fmt.Sprintf(`Answer the questions based on the provided context only.
Please provide the most accurate response based on the question.
<context>
%s
<context>
Questions:%s
`, context, question)
}

// TrimContext drops context texts from the tail once the running token count
// exceeds the budget. Texts arrive in retrieval rank order, so the most
// relevant ones survive.
func TrimContext(texts []string, budget int, count func(string) int) []string {
	total := 0
	for i, t := range texts {
		total += count(t)
		if total > budget {
			return texts[:i]
		}
	}
	return texts
}

func countTokens(text string) int {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		// rough estimate when the encoding is unavailable
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
