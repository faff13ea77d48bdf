// Package generate turns a prompt (and optional source page) into a
// flashcard set using a chat completion model.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
)

const (
	DefaultModel = openai.GPT4oMini
	maxTokens    = 3000
	temperature  = 0.7
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("OpenAI API key not configured")

// Generator produces a flashcard set. sourceText is optional context.
type Generator interface {
	Generate(ctx context.Context, req models.GenerateRequest, sourceText string) (models.GeneratedSet, models.GenerationUsage, error)
}

type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator. An empty model uses DefaultModel and
// an empty baseURL the library default. A nil client is kept when apiKey is
// empty so every Generate call fails with ErrNotConfigured.
func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	if model == "" {
		model = DefaultModel
	}
	g := &OpenAIGenerator{
		model: model,
		log:   logger.Default().WithPrefix("generator"),
	}
	if apiKey == "" {
		return g
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	g.client = openai.NewClientWithConfig(cfg)
	return g
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req models.GenerateRequest, sourceText string) (models.GeneratedSet, models.GenerationUsage, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithFields(map[string]any{
		"model":  g.model,
		"amount": req.Amount,
	})
	if g.client == nil {
		return models.GeneratedSet{}, models.GenerationUsage{}, ErrNotConfigured
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req, sourceText)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		log.Error("chat completion failed after %v: %v", time.Since(start), err)
		return models.GeneratedSet{}, models.GenerationUsage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.GeneratedSet{}, models.GenerationUsage{}, errors.New("no response from OpenAI")
	}

	usage := models.GenerationUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	log.Info("completion received in %v (tokens=%d)", time.Since(start), usage.TotalTokens)

	set, err := ParseSet(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn("unusable model output (first %d chars): %s", logPreviewChars, preview(resp.Choices[0].Message.Content, logPreviewChars))
		return models.GeneratedSet{}, usage, err
	}
	return set, usage, nil
}

const logPreviewChars = 300

// preview returns at most max characters of s without splitting a rune.
func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
