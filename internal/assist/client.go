// Package assist provides the writing assistant behind AI-assisted fields.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Client rewrites a user's draft according to a field-specific instruction.
// Kept minimal so field tests can stub it.
type Client interface {
	Rewrite(ctx context.Context, prompt, draft string) (string, error)
}

// ErrEmptyDraft is returned when there is nothing to rewrite.
var ErrEmptyDraft = errors.New("assist got an empty draft")

// rewriteTimeout bounds a single assistant call.
const rewriteTimeout = 30 * time.Second

// GeminiClient implements Client on top of Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewGeminiClient creates a Gemini-backed assistant.
func NewGeminiClient(ctx context.Context, apiKey, model string, log *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("assist API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client, model: model, log: log}, nil
}

// Rewrite sends the draft with the field's instruction and returns the
// assistant's version. The draft itself is never modified on failure.
func (gc *GeminiClient) Rewrite(ctx context.Context, prompt, draft string) (string, error) {
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", ErrEmptyDraft
	}

	ctx, cancel := context.WithTimeout(ctx, rewriteTimeout)
	defer cancel()

	gc.log.DebugContext(ctx, "Rewriting draft", "model", gc.model, "draft_len", len(draft))

	full := fmt.Sprintf("%s\n\nRewrite the following text. Reply with the rewritten text only.\n\n%s", prompt, draft)

	resp, err := gc.client.Models.GenerateContent(ctx, gc.model, genai.Text(full), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate rewrite: %w", err)
	}

	rewritten := strings.TrimSpace(resp.Text())
	if rewritten == "" {
		return "", errors.New("assistant returned an empty rewrite")
	}

	return rewritten, nil
}
