package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"parley-server/services/negotiation-api/internal/config"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

const (
	treeTemperature    = 0.7
	treeMaxTokens      = 4000
	summaryTemperature = 0.7
	dialogueMaxTokens  = 128
	backgroundMax      = 4096
)

// BosonClient talks to the Boson OpenAI-compatible endpoint for tree
// generation and text summarization.
type BosonClient struct {
	api          *openai.Client
	generation   string
	summaryModel string
	log          zerolog.Logger
}

func NewBosonClient(cfg *config.Config, log zerolog.Logger) *BosonClient {
	clientCfg := openai.DefaultConfig(cfg.BosonAPIKey)
	clientCfg.BaseURL = cfg.BosonBaseURL
	return &BosonClient{
		api:          openai.NewClientWithConfig(clientCfg),
		generation:   cfg.GenerationModel,
		summaryModel: cfg.SummaryModel,
		log:          log.With().Str("component", "boson-client").Logger(),
	}
}

// Complete makes one generation call and returns the raw response text. The
// JSON response format nudges the model to emit the bare object.
func (c *BosonClient) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.generation,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature:    treeTemperature,
		MaxTokens:      treeMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"tree generation call failed", err, "")
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"tree generation returned no choices", nil, "")
	}
	return resp.Choices[0].Message.Content, nil
}

// SummarizeDialogue condenses free text into roughly desiredWords words, in
// the voice of a negotiating lawyer.
func (c *BosonClient) SummarizeDialogue(ctx context.Context, text string, desiredWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Imagine you are a lawyer in a negotiation. Say only %d words to summarize the following. Do not say anything else or think: %s",
		desiredWords, text)
	return c.summarize(ctx, prompt, dialogueMaxTokens)
}

// SummarizeBackground condenses a case background into at most desiredLines
// lines.
func (c *BosonClient) SummarizeBackground(ctx context.Context, background string, desiredLines int) (string, error) {
	prompt := fmt.Sprintf(
		"Say a maximum of %d lines to summarize the following. Do not say anything else or think: %s",
		desiredLines, background)
	return c.summarize(ctx, prompt, backgroundMax)
}

func (c *BosonClient) summarize(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: summaryTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"summarization call failed", err, "")
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"summarization returned no choices", nil, "")
	}
	return StripReasoning(resp.Choices[0].Message.Content), nil
}

// StripReasoning drops the model's leading <think> block, returning only the
// answer text. Thinking models wrap their reasoning before the reply.
func StripReasoning(content string) string {
	if idx := strings.Index(content, "</think>"); idx >= 0 {
		content = content[idx+len("</think>"):]
	}
	return strings.TrimSpace(content)
}
